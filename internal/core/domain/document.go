package domain

import "time"

// Collection is a named grouping of knowledge base documents.
// Collections exist purely for organisation and filtering.
type Collection struct {
	// Name is the unique collection name.
	Name string `json:"name"`

	// Description is an optional free-text description.
	Description string `json:"description,omitempty"`

	// DocumentIDs lists the documents owned by this collection.
	DocumentIDs []string `json:"document_ids"`

	// CreatedAt is when the collection was created.
	CreatedAt time.Time `json:"created_at"`
}

// DocumentCount returns the number of documents in the collection.
func (c Collection) DocumentCount() int {
	return len(c.DocumentIDs)
}

// Document is a parsed knowledge base source file.
// Its chunks are the units later embedded into store entries, one entry
// per chunk with the chunk index encoded in the entry ID.
type Document struct {
	// ID is the unique document identifier.
	ID string `json:"id"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Collection is the owning collection name.
	Collection string `json:"collection"`

	// Path is the original file location, kept for provenance.
	Path string `json:"path,omitempty"`

	// Chunks is the ordered sequence of raw text segments produced by
	// the chunker.
	Chunks []string `json:"chunks"`

	// WordCount is the whitespace-delimited token count over the
	// original text, for statistics only.
	WordCount int `json:"word_count"`

	// Indexed is true once embeddings have been generated for every chunk.
	Indexed bool `json:"indexed"`

	// CreatedAt is when the document was added.
	CreatedAt time.Time `json:"created_at"`
}

// ChunkCount returns the number of chunks in the document.
func (d Document) ChunkCount() int {
	return len(d.Chunks)
}

// KnowledgeBaseStats summarises knowledge base contents.
type KnowledgeBaseStats struct {
	Collections      int       `json:"collections"`
	Documents        int       `json:"documents"`
	TotalChunks      int       `json:"total_chunks"`
	TotalWords       int       `json:"total_words"`
	IndexedDocuments int       `json:"indexed_documents"`
	LastUpdated      time.Time `json:"last_updated"`
}

// CollectionStats summarises one collection.
type CollectionStats struct {
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Documents        int       `json:"documents"`
	TotalChunks      int       `json:"total_chunks"`
	TotalWords       int       `json:"total_words"`
	IndexedDocuments int       `json:"indexed_documents"`
	CreatedAt        time.Time `json:"created_at"`
}
