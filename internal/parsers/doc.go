// Package parsers provides document format parsers for the knowledge
// base. Each subpackage handles one format family, selected by file
// extension through the Registry.
package parsers
