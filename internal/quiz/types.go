// Package quiz generates and validates assessment questions.
package quiz

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/mentor/internal/classifier"
)

// QuestionType distinguishes how a question is answered and scored.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeShortAnswer    QuestionType = "short_answer"
)

// Question is a single quiz item. Created by the generator, read-only
// afterward; the learner's answer is kept external and matched by index.
type Question struct {
	Prompt        string                `json:"prompt"`
	Type          QuestionType          `json:"type"`
	Options       []string              `json:"options,omitempty"`
	CorrectAnswer string                `json:"correct_answer"`
	Difficulty    classifier.Difficulty `json:"difficulty"`
}

// ValidationError reports why a generated quiz was rejected. The pipeline
// never passes a partial or padded quiz downstream; it fails with this
// error instead.
type ValidationError struct {
	Want     int
	Got      int
	Problems []string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("quiz validation failed: wanted %d questions, got %d", e.Want, e.Got)
	if len(e.Problems) > 0 {
		msg += ": " + strings.Join(e.Problems, "; ")
	}
	return msg
}
