// Package memory provides in-memory implementations of persistence
// ports. Useful for tests and for running without durable storage.
package memory
