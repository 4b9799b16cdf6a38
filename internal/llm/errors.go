package llm

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind classifies a generation failure.
type FailureKind string

const (
	// FailureTimeout means the call exceeded its deadline.
	FailureTimeout FailureKind = "timeout"
	// FailureService means the provider returned an error or was unreachable.
	FailureService FailureKind = "service_error"
	// FailureMalformed means the provider answered, but the output could
	// not be parsed into the expected structure.
	FailureMalformed FailureKind = "malformed_output"
)

// GenerationError is the typed failure every provider call can produce.
// Stages inspect Kind to decide between retry and surfacing.
type GenerationError struct {
	Kind     FailureKind
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: generation failed (%s)", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: generation failed (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// WrapErr converts a raw provider error into a *GenerationError, classifying
// context deadline expiry as a timeout and everything else as a service error.
func WrapErr(provider string, err error) error {
	if err == nil {
		return nil
	}
	kind := FailureService
	if errors.Is(err, context.DeadlineExceeded) {
		kind = FailureTimeout
	}
	return &GenerationError{Kind: kind, Provider: provider, Err: err}
}

// Malformed builds a *GenerationError for output that parsed incorrectly.
func Malformed(provider string, err error) error {
	return &GenerationError{Kind: FailureMalformed, Provider: provider, Err: err}
}
