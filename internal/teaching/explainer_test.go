package teaching

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ziadkadry99/mentor/internal/classifier"
	"github.com/ziadkadry99/mentor/internal/llm"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

type fakeProvider struct {
	response string
	err      error
	calls    []llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.response}, nil
}

func someChunks() []vectordb.SearchResult {
	return []vectordb.SearchResult{
		{Chunk: vectordb.Chunk{ID: "c1", Text: "Supervised learning trains on labeled examples."}, Similarity: 0.9},
		{Chunk: vectordb.Chunk{ID: "c2", Text: "A label is the known correct output."}, Similarity: 0.8},
	}
}

func TestExplainGroundsPromptInChunks(t *testing.T) {
	provider := &fakeProvider{response: "Supervised learning is..."}
	e := New(provider, "test-model", 0.7)

	cls := classifier.Result{Intent: classifier.IntentConcept, Topic: "supervised learning", Difficulty: classifier.DifficultyHard}
	out, err := e.Explain(context.Background(), "Explain supervised learning", cls, someChunks())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Supervised learning is..." {
		t.Errorf("unexpected explanation: %q", out)
	}

	system := systemPrompt(t, provider)
	if !strings.Contains(system, "labeled examples") {
		t.Error("prompt should embed chunk text")
	}
	if !strings.Contains(system, "hard difficulty") {
		t.Error("prompt should carry the difficulty")
	}
	if !strings.Contains(system, "only source of factual claims") {
		t.Error("prompt should restrict factual claims to the chunks")
	}
}

func systemPrompt(t *testing.T, provider *fakeProvider) string {
	t.Helper()
	if len(provider.calls) == 0 {
		t.Fatal("no provider calls recorded")
	}
	msgs := provider.calls[0].Messages
	if len(msgs) == 0 || msgs[0].Role != llm.RoleSystem {
		t.Fatal("expected a system message")
	}
	return msgs[0].Content
}

func TestExplainEmptyChunksFlagsLowConfidence(t *testing.T) {
	provider := &fakeProvider{response: "Your notes do not cover this, but..."}
	e := New(provider, "test-model", 0.7)

	cls := classifier.Result{Intent: classifier.IntentDoubt, Topic: "quantum gravity", Difficulty: classifier.DifficultyMedium}
	_, err := e.Explain(context.Background(), "what is quantum gravity?", cls, nil)
	if err != nil {
		t.Fatalf("empty chunks should not fail: %v", err)
	}

	system := systemPrompt(t, provider)
	if !strings.Contains(system, "No study material matched") {
		t.Error("prompt should flag missing study material")
	}
}

func TestExplainIntentSelectsInstruction(t *testing.T) {
	provider := &fakeProvider{response: "ok"}
	e := New(provider, "test-model", 0.7)

	cls := classifier.Result{Intent: classifier.IntentPractice, Topic: "regression", Difficulty: classifier.DifficultyMedium}
	if _, err := e.Explain(context.Background(), "practice regression", cls, someChunks()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(systemPrompt(t, provider), "practice examples") {
		t.Error("practice intent should select the practice instruction")
	}
}

func TestExplainSurfacesGenerationError(t *testing.T) {
	provider := &fakeProvider{err: llm.WrapErr("fake", errors.New("boom"))}
	e := New(provider, "test-model", 0.7)

	cls := classifier.Result{Intent: classifier.IntentConcept, Topic: "trees", Difficulty: classifier.DifficultyMedium}
	_, err := e.Explain(context.Background(), "trees", cls, someChunks())

	var genErr *llm.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *llm.GenerationError, got %v", err)
	}
}

func TestExplainEmptyOutputIsMalformed(t *testing.T) {
	provider := &fakeProvider{response: "   "}
	e := New(provider, "test-model", 0.7)

	cls := classifier.Result{Intent: classifier.IntentConcept, Topic: "trees", Difficulty: classifier.DifficultyMedium}
	_, err := e.Explain(context.Background(), "trees", cls, someChunks())

	var genErr *llm.GenerationError
	if !errors.As(err, &genErr) || genErr.Kind != llm.FailureMalformed {
		t.Fatalf("expected malformed_output error, got %v", err)
	}
}
