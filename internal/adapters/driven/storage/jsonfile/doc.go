// Package jsonfile provides JSON file-backed implementations of the
// persistence ports. Stores hold their data in memory and write the
// whole file atomically on save, so a failed write never corrupts the
// previous state.
package jsonfile
