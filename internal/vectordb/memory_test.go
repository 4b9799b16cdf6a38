package vectordb

import (
	"context"
	"path/filepath"
	"testing"
)

func addChunks(t *testing.T, idx *MemoryIndex, vectors [][]float32) {
	t.Helper()
	chunks := make([]Chunk, len(vectors))
	for i := range vectors {
		chunks[i] = Chunk{
			ID:       string(rune('a' + i)),
			Text:     "chunk " + string(rune('a'+i)),
			SourceID: "notes.txt",
		}
	}
	if err := idx.Add(context.Background(), chunks, vectors); err != nil {
		t.Fatalf("add: %v", err)
	}
}

func TestMemoryIndexOrdersByDescendingSimilarity(t *testing.T) {
	idx := NewMemoryIndex()
	addChunks(t, idx, [][]float32{
		{0, 1},         // orthogonal to query
		{1, 0},         // identical to query
		{0.7, 0.7},     // in between
	})

	results, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Errorf("results not in descending order at %d: %v > %v", i, results[i].Similarity, results[i-1].Similarity)
		}
	}
	if results[0].Chunk.ID != "b" {
		t.Errorf("expected exact match first, got %q", results[0].Chunk.ID)
	}
}

func TestMemoryIndexBreaksTiesByInsertionOrder(t *testing.T) {
	idx := NewMemoryIndex()
	// Same vector three times: all similarities tie.
	addChunks(t, idx, [][]float32{
		{1, 1},
		{1, 1},
		{1, 1},
	})

	results, err := idx.Search(context.Background(), []float32{1, 1}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	for i, want := range []string{"a", "b", "c"} {
		if results[i].Chunk.ID != want {
			t.Errorf("position %d: expected chunk %q, got %q", i, want, results[i].Chunk.ID)
		}
	}
}

func TestMemoryIndexLimitsToK(t *testing.T) {
	idx := NewMemoryIndex()
	addChunks(t, idx, [][]float32{{1, 0}, {0, 1}, {1, 1}, {0.5, 0.5}})

	results, err := idx.Search(context.Background(), []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestMemoryIndexEmptyReturnsNil(t *testing.T) {
	idx := NewMemoryIndex()
	results, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results on empty index, got %v", results)
	}
}

func TestMemoryIndexAddRejectsMismatchedLengths(t *testing.T) {
	idx := NewMemoryIndex()
	err := idx.Add(context.Background(), []Chunk{{ID: "a"}}, nil)
	if err == nil {
		t.Error("expected error for mismatched chunk/vector lengths")
	}
}

func TestMemoryIndexPersistLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	idx := NewMemoryIndex()
	addChunks(t, idx, [][]float32{{1, 0}, {0, 1}})

	if err := idx.Persist(context.Background(), dir); err != nil {
		t.Fatalf("persist: %v", err)
	}

	restored := NewMemoryIndex()
	if err := restored.Load(context.Background(), dir); err != nil {
		t.Fatalf("load: %v", err)
	}
	if restored.Count() != 2 {
		t.Errorf("expected 2 chunks after load, got %d", restored.Count())
	}

	results, err := restored.Search(context.Background(), []float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("search after load: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.ID != "a" {
		t.Errorf("unexpected search result after load: %+v", results)
	}
}
