package vectordb

import "context"

// Index defines the interface for storing chunk embeddings and finding
// nearest neighbors. Implementations must be safe for concurrent reads;
// multiple pipeline runs share a single Index.
type Index interface {
	// Add stores chunks with their precomputed embeddings. Chunks and
	// vectors are aligned positionally. Insertion order is preserved and
	// recorded in each chunk's Position.
	Add(ctx context.Context, chunks []Chunk, vectors [][]float32) error

	// Search returns up to k chunks nearest to the query vector by cosine
	// similarity, ordered by descending similarity with ties broken by
	// insertion order.
	Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error)

	// Persist saves the index to the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the index from the given directory.
	Load(ctx context.Context, dir string) error

	// Count returns the number of stored chunks.
	Count() int
}
