// Package teaching generates grounded explanations for learner queries.
package teaching

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/mentor/internal/classifier"
	"github.com/ziadkadry99/mentor/internal/llm"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

// Explainer produces teaching explanations from a query and retrieved context.
type Explainer struct {
	provider    llm.Provider
	model       string
	temperature float64
}

// New creates an Explainer.
func New(provider llm.Provider, model string, temperature float64) *Explainer {
	return &Explainer{
		provider:    provider,
		model:       model,
		temperature: temperature,
	}
}

// Explain generates an explanation for the query, grounded on the supplied
// chunks. The chunks are the sole source of factual claims; with no chunks
// the model is told to answer from general knowledge and say so. Failures
// surface as *llm.GenerationError so the caller can apply its retry policy.
func (e *Explainer) Explain(ctx context.Context, query string, cls classifier.Result, chunks []vectordb.SearchResult) (string, error) {
	system := buildTeachingPrompt(cls, chunks)

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: query},
		},
		MaxTokens:   2048,
		Temperature: e.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("explain %q: %w", cls.Topic, err)
	}

	explanation := strings.TrimSpace(resp.Content)
	if explanation == "" {
		return "", fmt.Errorf("explain %q: %w", cls.Topic, llm.Malformed(e.provider.Name(), fmt.Errorf("empty explanation")))
	}

	return explanation, nil
}

// intentInstructions customizes the explanation style per intent.
var intentInstructions = map[classifier.Intent]string{
	classifier.IntentConcept:  "Provide a comprehensive explanation of the concept with examples.",
	classifier.IntentPractice: "Provide practice examples and walk through the solution steps.",
	classifier.IntentDoubt:    "Address the specific question clearly and concisely.",
}

func buildTeachingPrompt(cls classifier.Result, chunks []vectordb.SearchResult) string {
	instruction, ok := intentInstructions[cls.Intent]
	if !ok {
		instruction = intentInstructions[classifier.IntentConcept]
	}

	var b strings.Builder
	b.WriteString("You are an expert tutor helping students learn.\n\n")
	fmt.Fprintf(&b, "Your task: %s\n\n", instruction)
	b.WriteString("Guidelines:\n")
	fmt.Fprintf(&b, "- Adjust the explanation to %s difficulty\n", cls.Difficulty)
	b.WriteString("- Use clear examples and analogies\n")
	b.WriteString("- Break complex concepts into steps\n")
	b.WriteString("- Be encouraging and supportive\n")

	if len(chunks) == 0 {
		b.WriteString("\nNo study material matched this topic. Answer from general knowledge, ")
		b.WriteString("and begin your answer by telling the student that their study notes ")
		b.WriteString("do not cover this topic, so the answer may be less reliable.\n")
		return b.String()
	}

	b.WriteString("- Use the provided study material as your only source of factual claims\n")
	b.WriteString("- If the material does not cover something, say so instead of inventing it\n")
	b.WriteString("\nStudy material:\n")
	b.WriteString(JoinChunks(chunks))
	return b.String()
}

// JoinChunks concatenates chunk texts with separators for prompt embedding.
func JoinChunks(chunks []vectordb.SearchResult) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Chunk.Text
	}
	return strings.Join(texts, "\n\n---\n\n")
}
