// Package classifier maps a learner's raw query to a structured intent,
// topic, and difficulty. Classification errors are recovered locally: the
// pipeline never stalls because a query was ambiguous.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ziadkadry99/mentor/internal/llm"
)

// Intent is the learner's inferred goal category. The set is closed; pipeline
// routing is keyed on it.
type Intent string

const (
	IntentConcept  Intent = "concept"
	IntentPractice Intent = "practice"
	IntentQuiz     Intent = "quiz"
	IntentDoubt    Intent = "doubt"
)

// KnownIntents lists every recognized intent.
var KnownIntents = []Intent{IntentConcept, IntentPractice, IntentQuiz, IntentDoubt}

// Valid reports whether the intent is one of the recognized values.
func (i Intent) Valid() bool {
	switch i {
	case IntentConcept, IntentPractice, IntentQuiz, IntentDoubt:
		return true
	}
	return false
}

// Difficulty of the requested material.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is one of the recognized values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Result is the classification of a single query. Produced once per query
// and never mutated afterward.
type Result struct {
	Intent     Intent     `json:"intent"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
}

// Classifier extracts intent, topic, and difficulty from learner queries.
type Classifier struct {
	provider    llm.Provider
	model       string
	temperature float64
}

// New creates a Classifier. temperature should normally be 0 so repeated
// queries classify identically.
func New(provider llm.Provider, model string, temperature float64) *Classifier {
	return &Classifier{
		provider:    provider,
		model:       model,
		temperature: temperature,
	}
}

// Classify analyzes the query. The returned Result is always usable: if the
// generation service is unreachable or returns something unparsable, Classify
// falls back to intent "doubt" with the raw query as topic and reports the
// cause in the error. Callers treat a non-nil error as diagnostic, not fatal.
func (c *Classifier) Classify(ctx context.Context, query string) (Result, error) {
	fallback := Result{
		Intent:     IntentDoubt,
		Topic:      query,
		Difficulty: DifficultyMedium,
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: classifySystemPrompt},
			{Role: llm.RoleUser, Content: query},
		},
		MaxTokens:   256,
		Temperature: c.temperature,
		JSONMode:    true,
	})
	if err != nil {
		return fallback, fmt.Errorf("classify query: %w", err)
	}

	result, err := parseResult(resp.Content)
	if err != nil {
		return fallback, fmt.Errorf("classify query: %w", llm.Malformed(c.provider.Name(), err))
	}

	return result, nil
}

// parseResult parses the model's JSON into a Result and normalizes it.
func parseResult(raw string) (Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &result); err != nil {
		return Result{}, fmt.Errorf("json parse: %w", err)
	}

	if !result.Intent.Valid() {
		return Result{}, fmt.Errorf("unrecognized intent %q", result.Intent)
	}
	if result.Topic == "" {
		return Result{}, fmt.Errorf("missing topic")
	}
	if !result.Difficulty.Valid() {
		result.Difficulty = DifficultyMedium
	}

	return result, nil
}
