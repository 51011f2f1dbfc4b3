// Package storage opens the application's embedded bolt database from a
// bolt:/// URI and keeps its schema in place. EnsureSchema is safe to run on
// every start.
package storage
