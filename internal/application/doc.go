// Package application provides application initialization and dependency wiring.
// It builds the API handler, middleware chain and HTTP server from a resolved
// config.Config and owns the start/stop lifecycle, keeping the main packages
// focused on CLI parsing and orchestration.
package application
