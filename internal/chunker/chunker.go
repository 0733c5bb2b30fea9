// Package chunker splits document text into bounded segments for
// indexing, using a selectable strategy.
package chunker

import (
	"fmt"
	"strings"
)

// Strategy selects how a document is split. Strategies are mutually
// exclusive per invocation.
type Strategy string

// Available chunking strategies.
const (
	// StrategyParagraph breaks on blank lines, merging short
	// paragraphs up to the target size.
	StrategyParagraph Strategy = "paragraphs"

	// StrategySentence breaks on sentence-terminal punctuation,
	// grouping sentences up to the target size.
	StrategySentence Strategy = "sentences"

	// StrategySize cuts fixed-width character windows with no
	// look-ahead for natural boundaries. Predictable fallback.
	StrategySize Strategy = "size"
)

// IsValid returns true if the strategy is recognised.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyParagraph, StrategySentence, StrategySize:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy converts a user-supplied name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown chunking strategy %q", name)
	}
	return s, nil
}

// Default size limits in characters.
const (
	// DefaultTargetSize caps paragraph and sentence group chunks.
	DefaultTargetSize = 1000

	// DefaultWindowSize is the fixed window for size-based splitting.
	DefaultWindowSize = 500
)

// Chunker splits text into bounded segments.
type Chunker struct {
	targetSize int
	windowSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithTargetSize sets the size cap for paragraph and sentence chunks.
func WithTargetSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.targetSize = size
		}
	}
}

// WithWindowSize sets the window for size-based splitting.
func WithWindowSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.windowSize = size
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		targetSize: DefaultTargetSize,
		windowSize: DefaultWindowSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk splits text using the given strategy. Every returned segment
// is trimmed and non-empty; empty or whitespace-only input yields an
// empty sequence. Splitting the same input twice produces an identical
// sequence.
func (c *Chunker) Chunk(text string, strategy Strategy) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	switch strategy {
	case StrategySentence:
		return c.chunkSentences(text)
	case StrategySize:
		return c.chunkSize(text)
	default:
		return c.chunkParagraphs(text)
	}
}

// WordCount returns the whitespace-delimited token count of text.
// Used for document metadata and statistics only.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
