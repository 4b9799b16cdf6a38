package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/mentor/internal/evaluation"
	"github.com/ziadkadry99/mentor/internal/pipeline"
	"github.com/ziadkadry99/mentor/internal/quiz"
	"github.com/ziadkadry99/mentor/internal/store"
)

type askRequest struct {
	Query string `json:"query"`
}

// questionView is a quiz question as shown to the learner. Correct answers
// never leave the server; grading happens through the evaluate endpoint.
type questionView struct {
	Prompt     string   `json:"prompt"`
	Type       string   `json:"type"`
	Options    []string `json:"options,omitempty"`
	Difficulty string   `json:"difficulty"`
}

type sourceView struct {
	SourceID   string  `json:"source_id"`
	Similarity float64 `json:"similarity"`
}

type askResponse struct {
	RunID       string                `json:"run_id"`
	Status      pipeline.Status       `json:"status"`
	Intent      string                `json:"intent"`
	Topic       string                `json:"topic"`
	Difficulty  string                `json:"difficulty"`
	Explanation string                `json:"explanation,omitempty"`
	QuizID      string                `json:"quiz_id,omitempty"`
	Quiz        []questionView        `json:"quiz,omitempty"`
	Sources     []sourceView          `json:"sources,omitempty"`
	Trace       []pipeline.TraceEvent `json:"trace"`
	Error       string                `json:"error,omitempty"`
}

func viewQuestions(questions []quiz.Question) []questionView {
	out := make([]questionView, len(questions))
	for i, q := range questions {
		out[i] = questionView{
			Prompt:     q.Prompt,
			Type:       string(q.Type),
			Options:    q.Options,
			Difficulty: string(q.Difficulty),
		}
	}
	return out
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
		return
	}

	state, runErr := s.tutor.Run(r.Context(), req.Query)
	if err := s.db.SaveRun(state); err != nil {
		log.Printf("saving pipeline run %s: %v", state.ID, err)
	}

	resp := askResponse{
		RunID:       state.ID,
		Status:      state.Status,
		Explanation: state.Explanation,
		Trace:       state.Trace,
		Error:       state.Error,
	}
	if state.Intent != nil {
		resp.Intent = string(state.Intent.Intent)
		resp.Topic = state.Intent.Topic
		resp.Difficulty = string(state.Intent.Difficulty)
	}
	for _, c := range state.Retrieved {
		resp.Sources = append(resp.Sources, sourceView{SourceID: c.Chunk.SourceID, Similarity: c.Similarity})
	}

	if runErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(resp)
		return
	}

	if len(state.Quiz) > 0 {
		session := &store.QuizSession{
			ID:         state.ID,
			Topic:      state.Intent.Topic,
			Difficulty: state.Intent.Difficulty,
			Questions:  state.Quiz,
			Chunks:     state.Retrieved,
		}
		if err := s.db.SaveSession(session); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		resp.QuizID = session.ID
		resp.Quiz = viewQuestions(state.Quiz)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type quizResponse struct {
	ID         string             `json:"id"`
	Topic      string             `json:"topic"`
	Difficulty string             `json:"difficulty"`
	Status     string             `json:"status"`
	Questions  []questionView     `json:"questions"`
	Evaluation *evaluation.Result `json:"evaluation,omitempty"`
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, err := s.db.GetSession(id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"quiz not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quizResponse{
		ID:         session.ID,
		Topic:      session.Topic,
		Difficulty: string(session.Difficulty),
		Status:     session.Status,
		Questions:  viewQuestions(session.Questions),
		Evaluation: session.Evaluation,
	})
}

type evaluateRequest struct {
	Answers []string `json:"answers"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, err := s.db.GetSession(id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"quiz not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if session.Status == "evaluated" {
		http.Error(w, `{"error":"quiz already evaluated"}`, http.StatusConflict)
		return
	}

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	result, err := s.tutor.Evaluate(r.Context(), session.Questions, req.Answers, session.Chunks)
	if errors.Is(err, evaluation.ErrAlignment) {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	if err := s.db.SaveEvaluation(id, result); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (s *Server) handleRecentRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.db.RecentRuns(20)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	type runView struct {
		ID     string          `json:"id"`
		Query  string          `json:"query"`
		Intent string          `json:"intent"`
		Topic  string          `json:"topic"`
		Status pipeline.Status `json:"status"`
		Error  string          `json:"error,omitempty"`
	}
	out := make([]runView, len(runs))
	for i, run := range runs {
		out[i] = runView{ID: run.ID, Query: run.Query, Intent: run.Intent, Topic: run.Topic, Status: run.Status, Error: run.Error}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
