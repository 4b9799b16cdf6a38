package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ziadkadry99/mentor/internal/pipeline"
)

// RunRecord is the persisted footprint of one pipeline run, kept for
// diagnostics. Generated content lives in quiz sessions, not here.
type RunRecord struct {
	ID        string
	Query     string
	Intent    string
	Topic     string
	Status    pipeline.Status
	Trace     []pipeline.TraceEvent
	Error     string
	CreatedAt time.Time
}

// SaveRun records a finished pipeline run, successful or failed.
func (d *DB) SaveRun(state *pipeline.State) error {
	trace, err := json.Marshal(state.Trace)
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}

	var intent, topic string
	if state.Intent != nil {
		intent = string(state.Intent.Intent)
		topic = state.Intent.Topic
	}

	_, err = d.Exec(`INSERT INTO pipeline_runs (id, query, intent, topic, status, trace, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		state.ID, state.Query, intent, topic, string(state.Status), string(trace), state.Error)
	if err != nil {
		return fmt.Errorf("inserting pipeline run: %w", err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first.
func (d *DB) RecentRuns(limit int) ([]RunRecord, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := d.Query(`SELECT id, query, intent, topic, status, trace, error, created_at
		FROM pipeline_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing pipeline runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var status, trace string
		if err := rows.Scan(&r.ID, &r.Query, &r.Intent, &r.Topic, &status, &trace, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning pipeline run: %w", err)
		}
		r.Status = pipeline.Status(status)
		if err := json.Unmarshal([]byte(trace), &r.Trace); err != nil {
			return nil, fmt.Errorf("decoding trace: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
