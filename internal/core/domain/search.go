package domain

// SearchOptions configures a semantic search over the entry store.
type SearchOptions struct {
	// Threshold is the minimum cosine similarity for a result to be
	// returned. Zero means use the configured default.
	Threshold float64

	// TopK caps the number of results. Zero means use the configured
	// default.
	TopK int

	// Kind restricts the pool to a single source kind. Empty searches
	// conversation pairs and KB chunks together.
	Kind SourceKind

	// SourceRef restricts results to one conversation or document.
	SourceRef string
}

// ContextBlock is the output of retrieval augmentation: a labelled
// text block to prepend to the system instructions, plus the results
// that were actually included after budget enforcement.
type ContextBlock struct {
	// Text is the formatted context block. Empty when nothing relevant
	// was found or retrieval failed.
	Text string

	// Used lists the ranked entries included in the block, in order.
	Used []RankedEntry

	// Skipped counts entries that qualified by rank but were dropped
	// by the token budget.
	Skipped int
}

// Empty returns true if no context was assembled.
func (b ContextBlock) Empty() bool {
	return b.Text == "" || len(b.Used) == 0
}
