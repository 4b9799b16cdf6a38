package pipeline

import "time"

// TraceEvent records one stage execution. The trace is append-only and
// ordered by execution; it is kept even when the run fails so a caller can
// see how far the run got.
type TraceEvent struct {
	Stage   string    `json:"stage"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	OK      bool      `json:"ok"`
	Detail  string    `json:"detail,omitempty"`
	Failure string    `json:"failure,omitempty"`
}

// trace runs fn, timing it and appending the outcome to the state's trace.
// The returned error is fn's error, untouched.
func (s *State) trace(stage string, fn func() (detail string, err error)) error {
	ev := TraceEvent{Stage: stage, Start: time.Now().UTC()}
	detail, err := fn()
	ev.End = time.Now().UTC()
	ev.Detail = detail
	ev.OK = err == nil
	if err != nil {
		ev.Failure = err.Error()
	}
	s.Trace = append(s.Trace, ev)
	return err
}
