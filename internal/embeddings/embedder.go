package embeddings

import "context"

// Embedder turns text into vectors. Implementations batch internally
// where the backing API allows it; callers may pass any number of texts.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the width of the vectors this embedder produces.
	Dimensions() int

	// Name identifies the embedding model, used in logs and diagnostics.
	Name() string
}
