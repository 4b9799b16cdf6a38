package quiz

import (
	"fmt"
	"strings"
)

const (
	minOptions = 2
	maxOptions = 6
)

// Validate checks a question set against the well-formedness rules:
// exactly want questions, non-empty prompts and answers, and for multiple
// choice 2-6 unique options containing the correct answer. A nil return
// means the set is safe for downstream evaluation.
func Validate(questions []Question, want int) error {
	var problems []string

	for i, q := range questions {
		label := fmt.Sprintf("question %d", i+1)

		if strings.TrimSpace(q.Prompt) == "" {
			problems = append(problems, label+": empty prompt")
		}
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			problems = append(problems, label+": empty correct answer")
		}

		switch q.Type {
		case TypeMultipleChoice:
			problems = append(problems, validateOptions(label, q)...)
		case TypeShortAnswer:
			if len(q.Options) > 0 {
				problems = append(problems, label+": short answer question carries options")
			}
		default:
			problems = append(problems, fmt.Sprintf("%s: unknown type %q", label, q.Type))
		}
	}

	if len(questions) != want || len(problems) > 0 {
		return &ValidationError{Want: want, Got: len(questions), Problems: problems}
	}
	return nil
}

func validateOptions(label string, q Question) []string {
	var problems []string

	if len(q.Options) < minOptions || len(q.Options) > maxOptions {
		problems = append(problems, fmt.Sprintf("%s: %d options, need %d-%d", label, len(q.Options), minOptions, maxOptions))
	}

	seen := make(map[string]bool, len(q.Options))
	correctFound := false
	for _, opt := range q.Options {
		if seen[opt] {
			problems = append(problems, fmt.Sprintf("%s: duplicate option %q", label, opt))
		}
		seen[opt] = true
		if opt == q.CorrectAnswer {
			correctFound = true
		}
	}
	if !correctFound {
		problems = append(problems, label+": correct answer is not among the options")
	}

	return problems
}
