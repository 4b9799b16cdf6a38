package llm

import "context"

// Provider defines the interface for LLM providers. The pipeline stages
// depend only on this contract, never on a concrete provider.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
