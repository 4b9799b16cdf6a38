package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/mentor/internal/classifier"
	"github.com/ziadkadry99/mentor/internal/evaluation"
	"github.com/ziadkadry99/mentor/internal/quiz"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

// Status is the position of a run in the state machine. A run moves strictly
// forward; StatusDone and StatusFailed are terminal.
type Status string

const (
	StatusStart      Status = "start"
	StatusClassified Status = "classified"
	StatusRetrieved  Status = "retrieved"
	StatusExplained  Status = "explained"
	StatusQuizzed    Status = "quizzed"
	// StatusExplainedAndQuizzed is reached by practice queries, which run
	// both generators.
	StatusExplainedAndQuizzed Status = "explained_and_quizzed"
	StatusDone                Status = "done"
	StatusFailed              Status = "failed"

	// Evaluation runs are re-entrant: they start from an existing quiz,
	// not from a fresh query.
	StatusEvaluating Status = "evaluating"
	StatusEvaluated  Status = "evaluated"
)

// State is the aggregate one pipeline run accumulates. Fields are write-once:
// each stage returns its output to the orchestrator, which merges it exactly
// once. A State is owned by a single run and never shared between queries.
type State struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
	Status    Status    `json:"status"`

	Intent      *classifier.Result     `json:"intent,omitempty"`
	Retrieved   []vectordb.SearchResult `json:"retrieved,omitempty"`
	Explanation string                 `json:"explanation,omitempty"`
	Quiz        []quiz.Question        `json:"quiz,omitempty"`
	Evaluation  *evaluation.Result     `json:"evaluation,omitempty"`

	Trace []TraceEvent `json:"trace"`

	// Error holds the failure message for a run that ended in StatusFailed.
	Error string `json:"error,omitempty"`
}

func newState(query string) *State {
	return &State{
		ID:        uuid.New().String(),
		Query:     query,
		CreatedAt: time.Now().UTC(),
		Status:    StatusStart,
	}
}

// fail moves the run to its terminal failed state, keeping the trace
// accumulated so far.
func (s *State) fail(err error) {
	s.Status = StatusFailed
	s.Error = err.Error()
}
