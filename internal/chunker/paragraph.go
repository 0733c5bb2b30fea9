package chunker

import "strings"

// chunkParagraphs breaks on blank-line boundaries and merges
// consecutive short paragraphs up to the target size. A paragraph is
// never split mid-sentence unless it alone exceeds the cap, in which
// case that paragraph falls back to size-based splitting.
func (c *Chunker) chunkParagraphs(text string) []string {
	paragraphs := splitParagraphs(text)

	var chunks []string
	var current string

	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}
	}

	for _, para := range paragraphs {
		if len(para) > c.targetSize {
			// Oversized paragraph: emit what we have, then cut
			// this one paragraph into fixed windows.
			flush()
			chunks = append(chunks, c.chunkSize(para)...)
			continue
		}

		switch {
		case current == "":
			current = para
		case len(current)+len(paragraphSeparator)+len(para) <= c.targetSize:
			current += paragraphSeparator + para
		default:
			flush()
			current = para
		}
	}
	flush()

	return chunks
}

const paragraphSeparator = "\n\n"

// splitParagraphs splits text on blank lines, dropping empty segments.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			paragraphs = append(paragraphs, para)
		}
	}
	return paragraphs
}
