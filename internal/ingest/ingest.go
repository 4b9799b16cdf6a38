package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/ziadkadry99/mentor/internal/embeddings"
	"github.com/ziadkadry99/mentor/internal/progress"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

// embedBatchSize bounds how many chunks go to the embedder per call.
const embedBatchSize = 64

// Stats summarizes one ingestion pass.
type Stats struct {
	Files  int
	Chunks int
}

// Ingester loads study notes, chunks them and writes them to the vector
// index.
type Ingester struct {
	embedder     embeddings.Embedder
	index        vectordb.Index
	chunkSize    int
	chunkOverlap int
	reporter     progress.Reporter
}

func New(embedder embeddings.Embedder, index vectordb.Index, chunkSize, chunkOverlap int, reporter progress.Reporter) *Ingester {
	return &Ingester{
		embedder:     embedder,
		index:        index,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		reporter:     reporter,
	}
}

// Run ingests every note under the configured directory. Files are chunked,
// embedded in batches and added to the index in traversal order, so chunk
// insertion order follows file order.
func (ing *Ingester) Run(ctx context.Context, cfg LoaderConfig) (*Stats, error) {
	files, err := LoadNotes(cfg)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &Stats{}, nil
	}

	if ing.reporter != nil {
		ing.reporter.Start(len(files))
		defer ing.reporter.Finish()
	}

	stats := &Stats{}
	var pending []vectordb.Chunk

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ing.reporter != nil {
			ing.reporter.Update(i+1, file.RelPath)
		}

		content, err := os.ReadFile(file.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file.RelPath, err)
		}

		for n, text := range SplitText(string(content), ing.chunkSize, ing.chunkOverlap) {
			pending = append(pending, vectordb.Chunk{
				ID:       fmt.Sprintf("%s#%d", file.RelPath, n),
				Text:     text,
				SourceID: file.RelPath,
			})
			stats.Chunks++
			if len(pending) >= embedBatchSize {
				if err := ing.flush(ctx, pending); err != nil {
					return nil, err
				}
				pending = pending[:0]
			}
		}
		stats.Files++
	}

	if len(pending) > 0 {
		if err := ing.flush(ctx, pending); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (ing *Ingester) flush(ctx context.Context, chunks []vectordb.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := ing.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}

	if err := ing.index.Add(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("indexing chunks: %w", err)
	}
	return nil
}
