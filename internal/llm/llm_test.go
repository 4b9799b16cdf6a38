package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestWrapErrClassifiesTimeout(t *testing.T) {
	err := WrapErr("openai", context.DeadlineExceeded)

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %T", err)
	}
	if genErr.Kind != FailureTimeout {
		t.Errorf("expected timeout kind, got %q", genErr.Kind)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("wrapped error should still match context.DeadlineExceeded")
	}
}

func TestWrapErrClassifiesServiceError(t *testing.T) {
	err := WrapErr("ollama", errors.New("connection refused"))

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %T", err)
	}
	if genErr.Kind != FailureService {
		t.Errorf("expected service_error kind, got %q", genErr.Kind)
	}
}

func TestWrapErrNil(t *testing.T) {
	if WrapErr("openai", nil) != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestMalformed(t *testing.T) {
	err := Malformed("openai", errors.New("unexpected token"))

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %T", err)
	}
	if genErr.Kind != FailureMalformed {
		t.Errorf("expected malformed_output kind, got %q", genErr.Kind)
	}
	if !strings.Contains(err.Error(), "malformed_output") {
		t.Errorf("error string should mention the kind, got %q", err.Error())
	}
}

func TestExtractJSONStripsFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no lang", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", "Here you go:\n{\"a\":1}\nHope that helps!", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewProvider("openai", "gpt-4o-mini"); err == nil {
		t.Error("expected error for openai with missing API key")
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	if _, err := NewProvider("watson", "some-model"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryCreatesOllamaWithDefaultHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	provider, err := NewProvider("ollama", "llama3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollamaP, ok := provider.(*OllamaProvider)
	if !ok {
		t.Fatalf("expected *OllamaProvider, got %T", provider)
	}
	if ollamaP.baseURL != "http://localhost:11434" {
		t.Errorf("expected default host, got %q", ollamaP.baseURL)
	}
}
