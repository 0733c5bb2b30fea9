// Package sqlite provides a SQLite-backed usage store. The schema is
// managed through embedded migrations applied on open.
package sqlite
