package evaluation

import "errors"

// ErrAlignment is returned when the answer list does not line up with the
// quiz questions. No grading happens in that case.
var ErrAlignment = errors.New("evaluation: answers do not align with questions")

// QuestionResult is the grade for one answered question. Score and IsCorrect
// are nil when the question could not be graded; unscored questions are
// excluded from the overall score.
type QuestionResult struct {
	Score     *float64 `json:"score"`
	IsCorrect *bool    `json:"is_correct"`
	Feedback  string   `json:"feedback"`
}

// Result is the full grading report for a quiz attempt.
type Result struct {
	Questions    []QuestionResult `json:"questions"`
	OverallScore *float64         `json:"overall_score"`
	Summary      string           `json:"summary"`
}

func ptrFloat(v float64) *float64 { return &v }
func ptrBool(v bool) *bool        { return &v }
