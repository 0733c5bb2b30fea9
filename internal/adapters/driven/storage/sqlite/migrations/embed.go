// Package migrations holds the schema files for the usage database.
package migrations

import "embed"

// FS is applied in lexical filename order at startup.
//
//go:embed *.sql
var FS embed.FS
