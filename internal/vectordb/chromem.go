package vectordb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

const collectionName = "notes"

// ChromemIndex implements Index using chromem-go, persisted as a gob file.
type ChromemIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc

	mu   sync.Mutex // guards next during Add
	next int        // next insertion position
}

// NewChromemIndex creates a new in-memory ChromemIndex. The embedding
// function is only needed by chromem for documents added without vectors;
// mentor always supplies vectors, but the function is kept so the
// collection survives an import.
func NewChromemIndex(ef chromem.EmbeddingFunc) (*ChromemIndex, error) {
	db := chromem.NewDB()

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemIndex{
		db:         db,
		collection: col,
		embedFunc:  ef,
	}, nil
}

func (s *ChromemIndex) Add(ctx context.Context, chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d != %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		pos := s.next
		s.next++
		docs[i] = chromem.Document{
			ID:        c.ID,
			Content:   c.Text,
			Embedding: vectors[i],
			Metadata: map[string]string{
				"source_id": c.SourceID,
				"position":  strconv.Itoa(pos),
			},
		}
	}
	s.mu.Unlock()

	return s.collection.AddDocuments(ctx, docs, 1)
}

func (s *ChromemIndex) Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}

	// Query the whole collection and cut to k after the stable sort.
	// chromem's own top-k picks an arbitrary member of a similarity tie
	// straddling the k boundary; sorting the full result set keeps the
	// insertion-order tie-break exact.
	results, err := s.collection.QueryEmbedding(ctx, vector, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		pos, _ := strconv.Atoi(r.Metadata["position"])
		out[i] = SearchResult{
			Chunk: Chunk{
				ID:       r.ID,
				Text:     r.Content,
				SourceID: r.Metadata["source_id"],
				Position: pos,
			},
			Similarity: float64(r.Similarity),
		}
	}

	SortResults(out)
	if k < len(out) {
		out = out[:k]
	}
	return out, nil
}

func (s *ChromemIndex) Persist(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	return s.db.ExportToFile(filepath.Join(dir, "index.gob.gz"), true, "")
}

func (s *ChromemIndex) Load(ctx context.Context, dir string) error {
	if err := s.db.ImportFromFile(filepath.Join(dir, "index.gob.gz"), ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col

	s.mu.Lock()
	s.next = col.Count()
	s.mu.Unlock()
	return nil
}

func (s *ChromemIndex) Count() int {
	return s.collection.Count()
}

// SortResults orders results by descending similarity, breaking ties by
// insertion position so a fixed index always yields the same ordering.
func SortResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Chunk.Position < results[j].Chunk.Position
	})
}
