package domain

import "time"

// SourceKind identifies what produced an indexed entry.
type SourceKind string

// Available source kinds.
const (
	// SourceConversation is a user/assistant message pair from a saved conversation.
	SourceConversation SourceKind = "conversation_pair"

	// SourceKnowledgeBase is a chunk of a knowledge base document.
	SourceKnowledgeBase SourceKind = "kb_chunk"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceConversation, SourceKnowledgeBase:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the kind.
func (k SourceKind) Description() string {
	switch k {
	case SourceConversation:
		return "Conversation"
	case SourceKnowledgeBase:
		return "KB Document"
	default:
		return "Unknown"
	}
}

// Entry is one indexed unit of text in the vector store.
// Conversation entries carry a user/assistant pair; knowledge base
// entries carry a single document chunk.
type Entry struct {
	// ID is unique within the store and stable across re-indexing
	// of the same source (e.g. "<conversation>_pair_3").
	ID string `json:"id"`

	// Kind tells whether this entry came from a conversation or a KB document.
	Kind SourceKind `json:"kind"`

	// SourceRef identifies the owning conversation or document.
	SourceRef string `json:"source_ref"`

	// Text is the primary indexed content. For conversation pairs this is
	// the user message; for KB chunks it is the chunk text.
	Text string `json:"text"`

	// SecondaryText is the assistant message for conversation pairs.
	// Unused for KB chunks.
	SecondaryText string `json:"secondary_text,omitempty"`

	// Title is a display label for provenance (document title, unused
	// for conversation pairs).
	Title string `json:"title,omitempty"`

	// Vector is the embedding. All entries in a store share one
	// dimensionality; a missing or malformed vector excludes the entry
	// from ranking rather than failing the search.
	Vector []float32 `json:"vector"`

	// ModelTag records which model produced the associated text.
	// Metadata only, never used in ranking.
	ModelTag string `json:"model_tag,omitempty"`

	// CreatedAt is when the entry was indexed.
	CreatedAt time.Time `json:"created_at"`
}

// CombinedText returns the text that was (or should be) embedded for
// this entry. Conversation pairs combine both sides for richer context.
func (e Entry) CombinedText() string {
	if e.Kind == SourceConversation && e.SecondaryText != "" {
		return "User: " + e.Text + "\n\nAssistant: " + e.SecondaryText
	}
	return e.Text
}

// RankedEntry is an entry with its similarity score against a query.
type RankedEntry struct {
	Entry Entry `json:"entry"`

	// Score is the cosine similarity to the query vector.
	Score float64 `json:"score"`
}

// StoreStats summarises the contents of a vector entry store.
type StoreStats struct {
	// TotalEntries is the number of indexed entries.
	TotalEntries int `json:"total_entries"`

	// ByKind counts entries per source kind.
	ByKind map[SourceKind]int `json:"by_kind"`

	// ByModel counts entries per generating model tag.
	ByModel map[string]int `json:"by_model"`

	// DistinctSources is the number of distinct source references.
	DistinctSources int `json:"distinct_sources"`

	// LastUpdated is when the store was last mutated. Zero for an
	// empty store that has never been written.
	LastUpdated time.Time `json:"last_updated"`
}

// IndexReport summarises one indexing batch.
// A failed item is skipped and counted, never aborting the batch.
type IndexReport struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// Total returns the number of items the batch attempted.
func (r IndexReport) Total() int {
	return r.Inserted + r.Updated + r.Failed
}
