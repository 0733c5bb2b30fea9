// Package file provides a TOML-backed configuration store kept in the
// confab config directory.
package file
