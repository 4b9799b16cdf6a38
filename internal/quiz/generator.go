package quiz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ziadkadry99/mentor/internal/classifier"
	"github.com/ziadkadry99/mentor/internal/llm"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

// Generator produces validated quiz question sets.
type Generator struct {
	provider    llm.Provider
	model       string
	temperature float64
}

// New creates a Generator.
func New(provider llm.Provider, model string, temperature float64) *Generator {
	return &Generator{
		provider:    provider,
		model:       model,
		temperature: temperature,
	}
}

// Generate returns exactly count well-formed questions for the topic, each
// answerable from the supplied chunks. A malformed or short result gets one
// retry with an adjusted prompt; if the second attempt is still invalid the
// call fails with *ValidationError. Provider failures surface as
// *llm.GenerationError. Generate never returns a partial quiz.
func (g *Generator) Generate(ctx context.Context, topic string, chunks []vectordb.SearchResult, difficulty classifier.Difficulty, count int) ([]Question, error) {
	if count < 1 {
		return nil, fmt.Errorf("quiz: count must be at least 1, got %d", count)
	}
	if !difficulty.Valid() {
		difficulty = classifier.DifficultyMedium
	}

	prompt := buildQuizPrompt(topic, chunks, difficulty, count)
	questions, firstErr := g.attempt(ctx, prompt, difficulty, count)
	if firstErr == nil {
		return questions, nil
	}

	// One retry with a stricter prompt that quotes what went wrong.
	retryPrompt := buildRetryPrompt(topic, chunks, difficulty, count, firstErr.Error())
	questions, retryErr := g.attempt(ctx, retryPrompt, difficulty, count)
	if retryErr == nil {
		return questions, nil
	}

	return nil, fmt.Errorf("quiz generation for %q: %w", topic, retryErr)
}

// attempt performs one generation round: call, parse, validate.
func (g *Generator) attempt(ctx context.Context, prompt string, difficulty classifier.Difficulty, count int) ([]Question, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: prompt},
			{Role: llm.RoleUser, Content: "Generate the quiz now."},
		},
		MaxTokens:   2048,
		Temperature: g.temperature,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	questions, err := parseQuestions(resp.Content)
	if err != nil {
		return nil, llm.Malformed(g.provider.Name(), err)
	}

	// The model does not emit difficulty; stamp the requested level.
	for i := range questions {
		questions[i].Difficulty = difficulty
	}

	if err := Validate(questions, count); err != nil {
		return nil, err
	}
	return questions, nil
}

type quizPayload struct {
	Questions []Question `json:"questions"`
}

func parseQuestions(raw string) ([]Question, error) {
	var payload quizPayload
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &payload); err != nil {
		return nil, fmt.Errorf("json parse: %w", err)
	}
	return payload.Questions, nil
}
