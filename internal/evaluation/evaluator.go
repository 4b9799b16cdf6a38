package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ziadkadry99/mentor/internal/llm"
	"github.com/ziadkadry99/mentor/internal/quiz"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

// Evaluator grades quiz answers. Multiple-choice questions are graded by
// string comparison; short answers go through the model as a judge.
type Evaluator struct {
	provider    llm.Provider
	model       string
	temperature float64
}

func New(provider llm.Provider, model string, temperature float64) *Evaluator {
	return &Evaluator{provider: provider, model: model, temperature: temperature}
}

// Evaluate grades one answer per question, in question order. The answer
// slice must have exactly one entry per question or ErrAlignment is returned
// before any grading starts. A judge failure on one question leaves that
// question unscored and continues with the rest.
func (e *Evaluator) Evaluate(ctx context.Context, questions []quiz.Question, answers []string, chunks []vectordb.SearchResult) (*Result, error) {
	if len(answers) != len(questions) {
		return nil, fmt.Errorf("%w: %d answers for %d questions", ErrAlignment, len(answers), len(questions))
	}

	results := make([]QuestionResult, len(questions))
	for i, q := range questions {
		switch q.Type {
		case quiz.TypeMultipleChoice:
			results[i] = gradeChoice(q, answers[i])
		case quiz.TypeShortAnswer:
			results[i] = e.gradeShortAnswer(ctx, q, answers[i], chunks)
		default:
			results[i] = QuestionResult{Feedback: fmt.Sprintf("question type %q cannot be graded", q.Type)}
		}
	}

	res := &Result{Questions: results}
	res.OverallScore = meanScore(results)
	res.Summary = buildSummary(questions, results)
	return res, nil
}

// gradeChoice compares the answer to the correct option, ignoring case and
// surrounding whitespace.
func gradeChoice(q quiz.Question, answer string) QuestionResult {
	correct := normalize(answer) == normalize(q.CorrectAnswer)
	r := QuestionResult{IsCorrect: ptrBool(correct)}
	if correct {
		r.Score = ptrFloat(100)
		r.Feedback = "Correct."
	} else {
		r.Score = ptrFloat(0)
		r.Feedback = fmt.Sprintf("Incorrect. The correct answer is %q.", q.CorrectAnswer)
	}
	return r
}

type judgeVerdict struct {
	Score    float64 `json:"score"`
	Correct  bool    `json:"correct"`
	Feedback string  `json:"feedback"`
}

func (e *Evaluator) gradeShortAnswer(ctx context.Context, q quiz.Question, answer string, chunks []vectordb.SearchResult) QuestionResult {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: buildJudgePrompt(q, answer, chunks)},
			{Role: llm.RoleUser, Content: "Grade the answer now."},
		},
		Temperature: e.temperature,
		JSONMode:    true,
	})
	if err != nil {
		return QuestionResult{Feedback: fmt.Sprintf("could not grade this answer: %v", err)}
	}

	var verdict judgeVerdict
	if err := json.Unmarshal([]byte(llm.ExtractJSON(resp.Content)), &verdict); err != nil {
		return QuestionResult{Feedback: "could not grade this answer: the grader returned an unreadable result"}
	}
	if verdict.Score < 0 {
		verdict.Score = 0
	}
	if verdict.Score > 100 {
		verdict.Score = 100
	}
	return QuestionResult{
		Score:     ptrFloat(verdict.Score),
		IsCorrect: ptrBool(verdict.Correct),
		Feedback:  verdict.Feedback,
	}
}

// meanScore averages the scored questions. It returns nil when no question
// received a score.
func meanScore(results []QuestionResult) *float64 {
	var sum float64
	var n int
	for _, r := range results {
		if r.Score != nil {
			sum += *r.Score
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return ptrFloat(sum / float64(n))
}

// buildSummary folds the per-question outcomes into a short report: what the
// learner handled well and what to revisit, named by question prompt.
func buildSummary(questions []quiz.Question, results []QuestionResult) string {
	var strengths, weaknesses []string
	var correct, graded, skipped int
	for i, r := range results {
		if r.Score == nil {
			skipped++
			continue
		}
		graded++
		if r.IsCorrect != nil && *r.IsCorrect {
			correct++
			strengths = append(strengths, questions[i].Prompt)
		} else {
			weaknesses = append(weaknesses, questions[i].Prompt)
		}
	}
	if graded == 0 {
		return "No questions could be graded."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You answered %d of %d graded questions correctly (%.0f%%).",
		correct, graded, 100*float64(correct)/float64(graded))
	if len(strengths) > 0 {
		fmt.Fprintf(&b, "\nStrengths: you handled %s well.", joinPrompts(strengths))
	}
	if len(weaknesses) > 0 {
		fmt.Fprintf(&b, "\nAreas to improve: revisit %s.", joinPrompts(weaknesses))
	}
	if skipped > 0 {
		fmt.Fprintf(&b, "\n%d question(s) could not be graded.", skipped)
	}
	return b.String()
}

func joinPrompts(prompts []string) string {
	quoted := make([]string, len(prompts))
	for i, p := range prompts {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	return strings.Join(quoted, ", ")
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
