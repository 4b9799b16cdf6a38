package vectordb

import (
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
)

// MemoryIndex is a brute-force cosine-similarity index kept entirely in
// memory. It trades scale for exactness: ordering is fully deterministic,
// which also makes it the reference backend in tests.
type MemoryIndex struct {
	mu      sync.RWMutex
	chunks  []Chunk
	vectors [][]float32
}

// NewMemoryIndex creates an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (s *MemoryIndex) Add(ctx context.Context, chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d != %d", len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range chunks {
		c.Position = len(s.chunks)
		s.chunks = append(s.chunks, c)
		s.vectors = append(s.vectors, vectors[i])
	}
	return nil
}

func (s *MemoryIndex) Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chunks) == 0 {
		return nil, nil
	}

	results := make([]SearchResult, len(s.chunks))
	for i := range s.chunks {
		results[i] = SearchResult{
			Chunk:      s.chunks[i],
			Similarity: cosine(s.vectors[i], vector),
		}
	}

	SortResults(results)
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// memorySnapshot is the on-disk representation of a MemoryIndex.
type memorySnapshot struct {
	Chunks  []Chunk
	Vectors [][]float32
}

func (s *MemoryIndex) Persist(ctx context.Context, dir string) error {
	s.mu.RLock()
	snap := memorySnapshot{Chunks: s.chunks, Vectors: s.vectors}
	s.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "memory.gob"))
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return nil
}

func (s *MemoryIndex) Load(ctx context.Context, dir string) error {
	f, err := os.Open(filepath.Join(dir, "memory.gob"))
	if err != nil {
		return fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	var snap memorySnapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("decode index: %w", err)
	}

	s.mu.Lock()
	s.chunks = snap.Chunks
	s.vectors = snap.Vectors
	s.mu.Unlock()
	return nil
}

func (s *MemoryIndex) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// cosine computes cosine similarity between two vectors. Mismatched lengths
// compare over the shorter prefix; zero vectors score 0.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
