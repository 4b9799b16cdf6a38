// Package retrieval selects grounding context for the generation stages.
// Given a topic it embeds the text, asks the vector index for nearest
// neighbors, and filters out matches below a similarity floor.
package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/ziadkadry99/mentor/internal/embeddings"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

// ErrUnavailable means the vector index itself could not be reached. This is
// the only fatal retrieval failure; an empty result set is a normal outcome.
var ErrUnavailable = errors.New("retrieval: vector index unavailable")

// Engine retrieves ranked context chunks for a topic.
type Engine struct {
	embedder embeddings.Embedder
	index    vectordb.Index
	floor    float64
}

// New creates an Engine. floor is the minimal similarity a chunk must reach
// to be returned; chunks below it are dropped rather than surfaced as noise.
func New(embedder embeddings.Embedder, index vectordb.Index, floor float64) *Engine {
	return &Engine{
		embedder: embedder,
		index:    index,
		floor:    floor,
	}
}

// Retrieve returns up to k chunks relevant to topic, ordered by descending
// similarity with ties broken by chunk insertion order. An empty slice with a
// nil error means the index holds nothing relevant; downstream generators
// answer from general knowledge and flag low confidence instead of failing.
func (e *Engine) Retrieve(ctx context.Context, topic string, k int) ([]vectordb.SearchResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("retrieval: k must be at least 1, got %d", k)
	}

	vectors, err := e.embedder.Embed(ctx, []string{topic})
	if err != nil {
		return nil, fmt.Errorf("%w: embedding topic: %v", ErrUnavailable, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: embedder returned no vector", ErrUnavailable)
	}

	results, err := e.index.Search(ctx, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Drop matches below the floor. The index already ordered results.
	filtered := results[:0]
	for _, r := range results {
		if r.Similarity >= e.floor {
			filtered = append(filtered, r)
		}
	}

	return filtered, nil
}
