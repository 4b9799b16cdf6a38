package evaluation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ziadkadry99/mentor/internal/llm"
	"github.com/ziadkadry99/mentor/internal/quiz"
)

type fakeProvider struct {
	responses []string
	err       error
	calls     []llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return nil, errors.New("no responses queued")
	}
	content := f.responses[0]
	f.responses = f.responses[1:]
	return &llm.CompletionResponse{Content: content}, nil
}

func mcQuestion(correct string) quiz.Question {
	return quiz.Question{
		Prompt:        "Which option?",
		Type:          quiz.TypeMultipleChoice,
		Options:       []string{"alpha", "beta", correct},
		CorrectAnswer: correct,
	}
}

func saQuestion() quiz.Question {
	return quiz.Question{
		Prompt:        "Explain overfitting.",
		Type:          quiz.TypeShortAnswer,
		CorrectAnswer: "The model memorizes training data and fails to generalize.",
	}
}

func TestEvaluateRejectsMisalignedAnswers(t *testing.T) {
	provider := &fakeProvider{}
	e := New(provider, "test-model", 0.3)

	_, err := e.Evaluate(context.Background(), []quiz.Question{mcQuestion("gamma"), saQuestion()}, []string{"gamma"}, nil)
	if !errors.Is(err, ErrAlignment) {
		t.Fatalf("expected ErrAlignment, got %v", err)
	}
	if len(provider.calls) != 0 {
		t.Errorf("no grading calls should happen on misaligned input, got %d", len(provider.calls))
	}
}

func TestEvaluateAllChoicesCorrect(t *testing.T) {
	e := New(&fakeProvider{}, "test-model", 0.3)
	questions := []quiz.Question{mcQuestion("gamma"), mcQuestion("delta")}

	res, err := e.Evaluate(context.Background(), questions, []string{"gamma", "delta"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OverallScore == nil || *res.OverallScore != 100 {
		t.Fatalf("expected overall 100, got %v", res.OverallScore)
	}
	for i, q := range res.Questions {
		if q.IsCorrect == nil || !*q.IsCorrect {
			t.Errorf("question %d should be correct", i)
		}
	}
}

func TestEvaluateChoiceNormalizesCaseAndWhitespace(t *testing.T) {
	e := New(&fakeProvider{}, "test-model", 0.3)

	res, err := e.Evaluate(context.Background(), []quiz.Question{mcQuestion("Gamma Ray")}, []string{"  gamma   RAY "}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Questions[0].IsCorrect == nil || !*res.Questions[0].IsCorrect {
		t.Error("answer differing only in case and spacing should be correct")
	}
}

func TestEvaluateShortAnswerUsesJudge(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`{"score": 80, "correct": true, "feedback": "Mostly right, missing the generalization point."}`,
	}}
	e := New(provider, "test-model", 0.3)

	res, err := e.Evaluate(context.Background(), []quiz.Question{saQuestion()}, []string{"the model memorizes the data"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(provider.calls) != 1 {
		t.Fatalf("expected 1 judge call, got %d", len(provider.calls))
	}
	if !provider.calls[0].JSONMode {
		t.Error("judge call should request JSON output")
	}
	q := res.Questions[0]
	if q.Score == nil || *q.Score != 80 {
		t.Errorf("expected score 80, got %v", q.Score)
	}
	if q.Feedback == "" {
		t.Error("judge feedback should be carried through")
	}
}

func TestEvaluateJudgeFailureLeavesQuestionUnscored(t *testing.T) {
	provider := &fakeProvider{err: errors.New("provider down")}
	e := New(provider, "test-model", 0.3)
	questions := []quiz.Question{mcQuestion("gamma"), saQuestion()}

	res, err := e.Evaluate(context.Background(), questions, []string{"gamma", "something"}, nil)
	if err != nil {
		t.Fatalf("a judge failure should not fail the whole evaluation: %v", err)
	}

	if res.Questions[1].Score != nil {
		t.Error("failed short answer should be unscored")
	}
	if res.Questions[1].Feedback == "" {
		t.Error("failed short answer should carry an explanatory feedback")
	}
	// The multiple-choice question still counts, so the mean covers it alone.
	if res.OverallScore == nil || *res.OverallScore != 100 {
		t.Errorf("expected overall 100 from the one graded question, got %v", res.OverallScore)
	}
}

func TestEvaluateUnreadableVerdictLeavesQuestionUnscored(t *testing.T) {
	provider := &fakeProvider{responses: []string{"I think it is fine."}}
	e := New(provider, "test-model", 0.3)

	res, err := e.Evaluate(context.Background(), []quiz.Question{saQuestion()}, []string{"something"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Questions[0].Score != nil {
		t.Error("unreadable verdict should leave the question unscored")
	}
	if res.OverallScore != nil {
		t.Errorf("no graded questions means no overall score, got %v", res.OverallScore)
	}
	if res.Summary != "No questions could be graded." {
		t.Errorf("unexpected summary: %q", res.Summary)
	}
}

func TestEvaluateMixedScores(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`{"score": 50, "correct": false, "feedback": "Half right."}`,
	}}
	e := New(provider, "test-model", 0.3)
	questions := []quiz.Question{mcQuestion("gamma"), saQuestion()}

	res, err := e.Evaluate(context.Background(), questions, []string{"alpha", "partial"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// MC wrong (0) plus judge 50 averages to 25.
	if res.OverallScore == nil || *res.OverallScore != 25 {
		t.Errorf("expected overall 25, got %v", res.OverallScore)
	}
}

func TestEvaluateSummaryNamesStrengthsAndImprovementAreas(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`{"score": 20, "correct": false, "feedback": "Missed the key point."}`,
	}}
	e := New(provider, "test-model", 0.3)
	questions := []quiz.Question{mcQuestion("gamma"), saQuestion()}

	res, err := e.Evaluate(context.Background(), questions, []string{"gamma", "weak answer"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One of two graded questions correct: the rate is 50%, regardless of
	// the mean score (here 60).
	if !strings.Contains(res.Summary, "1 of 2 graded questions correctly (50%)") {
		t.Errorf("summary should report the correctness rate, got %q", res.Summary)
	}
	if !strings.Contains(res.Summary, `Strengths: you handled "Which option?" well.`) {
		t.Errorf("summary should name the correct question as a strength, got %q", res.Summary)
	}
	if !strings.Contains(res.Summary, `Areas to improve: revisit "Explain overfitting.".`) {
		t.Errorf("summary should name the missed question as an improvement area, got %q", res.Summary)
	}
}

func TestEvaluateSummaryCountsUngradedQuestions(t *testing.T) {
	provider := &fakeProvider{err: errors.New("provider down")}
	e := New(provider, "test-model", 0.3)
	questions := []quiz.Question{mcQuestion("gamma"), saQuestion()}

	res, err := e.Evaluate(context.Background(), questions, []string{"gamma", "something"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Summary, "1 of 1 graded questions correctly (100%)") {
		t.Errorf("summary should cover only graded questions, got %q", res.Summary)
	}
	if !strings.Contains(res.Summary, "1 question(s) could not be graded.") {
		t.Errorf("summary should mention the ungraded question, got %q", res.Summary)
	}
}

func TestEvaluateClampsJudgeScore(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`{"score": 150, "correct": true, "feedback": "Excellent."}`,
	}}
	e := New(provider, "test-model", 0.3)

	res, err := e.Evaluate(context.Background(), []quiz.Question{saQuestion()}, []string{"good answer"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Questions[0].Score == nil || *res.Questions[0].Score != 100 {
		t.Errorf("score should be clamped to 100, got %v", res.Questions[0].Score)
	}
}
