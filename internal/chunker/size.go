package chunker

import "strings"

// chunkSize cuts fixed-width windows over the text with no look-ahead
// for natural boundaries. Windows are measured in runes so multi-byte
// characters are never split.
func (c *Chunker) chunkSize(text string) []string {
	runes := []rune(text)

	var chunks []string
	for start := 0; start < len(runes); start += c.windowSize {
		end := start + c.windowSize
		if end > len(runes) {
			end = len(runes)
		}
		segment := strings.TrimSpace(string(runes[start:end]))
		if segment != "" {
			chunks = append(chunks, segment)
		}
	}

	return chunks
}
