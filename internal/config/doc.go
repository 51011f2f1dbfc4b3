// Package config resolves application Settings from an explicit environment
// snapshot and aggregates them with HTTP server options from a YAML file and
// CLI overrides, with precedence: CLI overrides > Environment variables >
// YAML config > Defaults. Loaded values are plain structs and never change
// after Load returns.
package config
