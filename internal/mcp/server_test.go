package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/mentor/internal/classifier"
	"github.com/ziadkadry99/mentor/internal/evaluation"
	"github.com/ziadkadry99/mentor/internal/pipeline"
	"github.com/ziadkadry99/mentor/internal/quiz"
	"github.com/ziadkadry99/mentor/internal/store"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

// mockTutor implements Tutor for testing.
type mockTutor struct {
	state  *pipeline.State
	runErr error
	result *evaluation.Result
}

func (m *mockTutor) Run(_ context.Context, query string) (*pipeline.State, error) {
	return m.state, m.runErr
}

func (m *mockTutor) Evaluate(_ context.Context, questions []quiz.Question, answers []string, _ []vectordb.SearchResult) (*evaluation.Result, error) {
	if len(answers) != len(questions) {
		return nil, evaluation.ErrAlignment
	}
	return m.result, nil
}

func quizPipelineState() *pipeline.State {
	intent := classifier.Result{Intent: classifier.IntentQuiz, Topic: "decision trees", Difficulty: classifier.DifficultyMedium}
	return &pipeline.State{
		ID:     uuid.New().String(),
		Query:  "Quiz me on decision trees",
		Status: pipeline.StatusDone,
		Intent: &intent,
		Quiz: []quiz.Question{
			{Prompt: "What does a split minimize?", Type: quiz.TypeShortAnswer, CorrectAnswer: "impurity", Difficulty: classifier.DifficultyMedium},
		},
		Retrieved: []vectordb.SearchResult{
			{Chunk: vectordb.Chunk{ID: "c1", Text: "...", SourceID: "notes/trees.md"}, Similarity: 0.9},
		},
	}
}

func newTestMCPServer(t *testing.T, tutor Tutor) *Server {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewServer(tutor, db)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask_tutor", askTutorTool, "ask_tutor"},
		{"quiz_me", quizMeTool, "quiz_me"},
		{"evaluate_answers", evaluateAnswersTool, "evaluate_answers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestHandleAskTutor(t *testing.T) {
	intent := classifier.Result{Intent: classifier.IntentConcept, Topic: "recursion", Difficulty: classifier.DifficultyMedium}
	tutor := &mockTutor{state: &pipeline.State{
		ID:          uuid.New().String(),
		Query:       "Explain recursion",
		Status:      pipeline.StatusDone,
		Intent:      &intent,
		Explanation: "Recursion solves a problem via smaller instances of itself.",
	}}
	srv := newTestMCPServer(t, tutor)
	ctx := context.Background()

	t.Run("concept query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "Explain recursion"}

		result, err := srv.handleAskTutor(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "Recursion solves") {
			t.Errorf("explanation missing from output: %q", text)
		}
		if !strings.Contains(text, "general knowledge") {
			t.Error("empty retrieval should be flagged as general knowledge")
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAskTutor(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error for missing query")
		}
	})
}

func TestHandleQuizMe(t *testing.T) {
	srv := newTestMCPServer(t, &mockTutor{state: quizPipelineState()})
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"topic": "decision trees"}

	result, err := srv.handleQuizMe(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Quiz id:") {
		t.Errorf("quiz id missing from output: %q", text)
	}
	if strings.Contains(text, "impurity") {
		t.Error("correct answer must not appear in the quiz output")
	}
}

func TestHandleEvaluateAnswers(t *testing.T) {
	state := quizPipelineState()
	score := 100.0
	correct := true
	tutor := &mockTutor{state: state, result: &evaluation.Result{
		Questions:    []evaluation.QuestionResult{{Score: &score, IsCorrect: &correct, Feedback: "Right."}},
		OverallScore: &score,
		Summary:      "You answered 1 of 1 graded questions correctly (100%).",
	}}
	srv := newTestMCPServer(t, tutor)
	ctx := context.Background()

	// Seed the session through quiz_me.
	seed := mcp.CallToolRequest{}
	seed.Params.Arguments = map[string]any{"topic": "decision trees"}
	if _, err := srv.handleQuizMe(ctx, seed); err != nil {
		t.Fatalf("seeding quiz: %v", err)
	}

	t.Run("misaligned answers", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"quiz_id": state.ID,
			"answers": []any{"a", "b"},
		}

		result, err := srv.handleEvaluateAnswers(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error for misaligned answers")
		}
	})

	t.Run("grades stored quiz", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"quiz_id": state.ID,
			"answers": []any{"impurity"},
		}

		result, err := srv.handleEvaluateAnswers(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "Overall score: 100/100") {
			t.Errorf("score missing from output: %q", text)
		}
		if !strings.Contains(text, "impurity") {
			t.Error("correct answers should be revealed after grading")
		}
	})

	t.Run("unknown quiz id", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"quiz_id": "nope",
			"answers": []any{"x"},
		}

		result, err := srv.handleEvaluateAnswers(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error for unknown quiz id")
		}
	})

	t.Run("rejects grading a closed session", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"quiz_id": state.ID,
			"answers": []any{"impurity"},
		}

		result, err := srv.handleEvaluateAnswers(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected tool error when re-grading an evaluated quiz")
		}
		if !strings.Contains(resultText(t, result), "already been graded") {
			t.Errorf("error should explain the session is closed, got %v", result.Content)
		}
	})
}
