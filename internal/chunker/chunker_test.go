package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Strategy
		wantErr bool
	}{
		{name: "paragraphs", input: "paragraphs", want: StrategyParagraph},
		{name: "sentences", input: "sentences", want: StrategySentence},
		{name: "size", input: "size", want: StrategySize},
		{name: "mixed case", input: "  Paragraphs ", want: StrategyParagraph},
		{name: "unknown", input: "words", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChunk_EmptyInput(t *testing.T) {
	c := New()

	for _, strategy := range []Strategy{StrategyParagraph, StrategySentence, StrategySize} {
		t.Run(strategy.String(), func(t *testing.T) {
			assert.Empty(t, c.Chunk("", strategy))
			assert.Empty(t, c.Chunk("   \n\n\t  ", strategy))
		})
	}
}

func TestChunk_SingleParagraphUnderCap(t *testing.T) {
	c := New()
	text := "  A single short paragraph that fits comfortably.  "

	chunks := c.Chunk(text, StrategyParagraph)

	require.Len(t, chunks, 1)
	assert.Equal(t, strings.TrimSpace(text), chunks[0])
}

func TestChunk_ParagraphMerging(t *testing.T) {
	c := New(WithTargetSize(50))

	chunks := c.Chunk("First short.\n\nSecond short.\n\nThird paragraph is a bit longer here.", StrategyParagraph)

	// First two merge under the cap; the third starts a new chunk.
	require.Len(t, chunks, 2)
	assert.Equal(t, "First short.\n\nSecond short.", chunks[0])
	assert.Equal(t, "Third paragraph is a bit longer here.", chunks[1])
}

func TestChunk_OversizedParagraphFallsBackToSize(t *testing.T) {
	c := New(WithTargetSize(20), WithWindowSize(10))
	long := strings.Repeat("abcde ", 10) // 60 chars, no blank lines

	chunks := c.Chunk(long, StrategyParagraph)

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 10)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestChunk_SentenceGrouping(t *testing.T) {
	c := New(WithTargetSize(40))

	chunks := c.Chunk("One sentence here. Another one now! A third? And a fourth follows.", StrategySentence)

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
	// Grouping never glues beyond the cap once a chunk has content.
	assert.Equal(t, "One sentence here. Another one now!", chunks[0])
}

func TestSplitSentences_DecimalNotTerminal(t *testing.T) {
	sentences := splitSentences("Pi is 3.14 roughly. Next sentence.")

	require.Len(t, sentences, 2)
	assert.Equal(t, "Pi is 3.14 roughly.", sentences[0])
	assert.Equal(t, "Next sentence.", sentences[1])
}

func TestChunk_SizeWindows(t *testing.T) {
	c := New(WithWindowSize(10))
	text := strings.Repeat("x", 25)

	chunks := c.Chunk(text, StrategySize)

	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("x", 10), chunks[0])
	assert.Equal(t, strings.Repeat("x", 10), chunks[1])
	assert.Equal(t, strings.Repeat("x", 5), chunks[2])
}

func TestChunk_Idempotent(t *testing.T) {
	c := New(WithTargetSize(80), WithWindowSize(30))
	text := "Alpha paragraph with several words.\n\nBeta paragraph, also with words. It has two sentences.\n\nGamma."

	for _, strategy := range []Strategy{StrategyParagraph, StrategySentence, StrategySize} {
		t.Run(strategy.String(), func(t *testing.T) {
			first := c.Chunk(text, strategy)
			second := c.Chunk(text, strategy)
			assert.Equal(t, first, second)
		})
	}
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   \n\t"))
	assert.Equal(t, 4, WordCount("four words right here"))
	assert.Equal(t, 2, WordCount("  spaced \n out  "))
}
