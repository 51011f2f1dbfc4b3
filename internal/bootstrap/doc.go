// Package bootstrap runs the application for local development: fixed
// development settings, a prepared local database and a server on
// 0.0.0.0:5000. Forced settings are passed to config.Load as overrides; the
// process environment is never modified.
package bootstrap
