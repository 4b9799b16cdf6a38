package llm

// Role tags who produced a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn sent to a provider.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest describes a single provider call. An empty Model uses
// the provider's configured default; MaxTokens 0 lets the adapter pick.
// JSONMode asks the provider to constrain output to a JSON object where
// the backing API supports that.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse is the provider's reply plus token accounting.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}
