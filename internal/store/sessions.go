package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/mentor/internal/classifier"
	"github.com/ziadkadry99/mentor/internal/evaluation"
	"github.com/ziadkadry99/mentor/internal/quiz"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

// ErrNotFound is returned when a session or run id does not exist.
var ErrNotFound = errors.New("store: not found")

// QuizSession keeps a generated quiz together with the chunks it was drawn
// from, so a later evaluation grades against the same material.
type QuizSession struct {
	ID          string
	Topic       string
	Difficulty  classifier.Difficulty
	Status      string
	Questions   []quiz.Question
	Chunks      []vectordb.SearchResult
	Evaluation  *evaluation.Result
	CreatedAt   time.Time
	EvaluatedAt *time.Time
}

// SaveSession stores a freshly generated quiz in the open state.
func (d *DB) SaveSession(s *QuizSession) error {
	questions, err := json.Marshal(s.Questions)
	if err != nil {
		return fmt.Errorf("encoding questions: %w", err)
	}
	chunks, err := json.Marshal(s.Chunks)
	if err != nil {
		return fmt.Errorf("encoding chunks: %w", err)
	}

	_, err = d.Exec(`INSERT INTO quiz_sessions (id, topic, difficulty, status, questions, chunks)
		VALUES (?, ?, ?, 'open', ?, ?)`,
		s.ID, s.Topic, string(s.Difficulty), string(questions), string(chunks))
	if err != nil {
		return fmt.Errorf("inserting quiz session: %w", err)
	}
	return nil
}

// GetSession loads a quiz session by id.
func (d *DB) GetSession(id string) (*QuizSession, error) {
	row := d.QueryRow(`SELECT id, topic, difficulty, status, questions, chunks, evaluation, created_at, evaluated_at
		FROM quiz_sessions WHERE id = ?`, id)

	var s QuizSession
	var difficulty, questions, chunks string
	var evalJSON sql.NullString
	var evaluatedAt sql.NullTime
	err := row.Scan(&s.ID, &s.Topic, &difficulty, &s.Status, &questions, &chunks, &evalJSON, &s.CreatedAt, &evaluatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quiz session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading quiz session: %w", err)
	}

	s.Difficulty = classifier.Difficulty(difficulty)
	if err := json.Unmarshal([]byte(questions), &s.Questions); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}
	if err := json.Unmarshal([]byte(chunks), &s.Chunks); err != nil {
		return nil, fmt.Errorf("decoding chunks: %w", err)
	}
	if evalJSON.Valid && evalJSON.String != "" {
		if err := json.Unmarshal([]byte(evalJSON.String), &s.Evaluation); err != nil {
			return nil, fmt.Errorf("decoding evaluation: %w", err)
		}
	}
	if evaluatedAt.Valid {
		s.EvaluatedAt = &evaluatedAt.Time
	}
	return &s, nil
}

// SaveEvaluation attaches a grading result to a session and closes it.
func (d *DB) SaveEvaluation(id string, res *evaluation.Result) error {
	encoded, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding evaluation: %w", err)
	}

	r, err := d.Exec(`UPDATE quiz_sessions
		SET status = 'evaluated', evaluation = ?, evaluated_at = datetime('now')
		WHERE id = ?`, string(encoded), id)
	if err != nil {
		return fmt.Errorf("updating quiz session: %w", err)
	}
	n, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("quiz session %s: %w", id, ErrNotFound)
	}
	return nil
}
