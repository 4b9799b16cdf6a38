package vectordb

// Chunk is a bounded span of study material stored in the vector index.
type Chunk struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	SourceID string `json:"source_id"`

	// Position is the chunk's insertion order in the index. Search results
	// with equal similarity are ordered by Position, so retrieval stays
	// deterministic for a fixed index.
	Position int `json:"position"`
}

// SearchResult pairs a chunk with its similarity to the query vector.
// Higher similarity means more relevant.
type SearchResult struct {
	Chunk      Chunk   `json:"chunk"`
	Similarity float64 `json:"similarity"`
}
