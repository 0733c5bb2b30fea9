package driven

import "context"

// Parser extracts plain text from a document format.
// One implementation exists per format, selected by extension tag;
// format dispatch never leaks into the chunker.
type Parser interface {
	// Extensions returns the file extensions this parser handles,
	// lower case with leading dot (".txt", ".md", ".pdf").
	Extensions() []string

	// Parse extracts plain text from raw file content.
	Parse(ctx context.Context, content []byte) (string, error)
}
