package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/mentor/internal/evaluation"
	"github.com/ziadkadry99/mentor/internal/pipeline"
	"github.com/ziadkadry99/mentor/internal/quiz"
	"github.com/ziadkadry99/mentor/internal/store"
)

// handleAskTutor runs one full pipeline pass for the query.
func (s *Server) handleAskTutor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	state, err := s.tutor.Run(ctx, query)
	if state != nil {
		if saveErr := s.db.SaveRun(state); saveErr != nil {
			// Run records are best effort; the answer still goes out.
			log.Printf("saving pipeline run %s: %v", state.ID, saveErr)
		}
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("tutoring failed: %v", err)), nil
	}

	if len(state.Quiz) > 0 {
		if err := s.saveQuiz(state); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("storing quiz: %v", err)), nil
		}
	}

	return mcp.NewToolResultText(formatState(state)), nil
}

// handleQuizMe generates a quiz through the same pipeline entry point,
// phrasing the request so it routes to quiz generation.
func (s *Server) handleQuizMe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: topic"), nil
	}

	query := fmt.Sprintf("Quiz me on %s", topic)
	if difficulty := request.GetString("difficulty", ""); difficulty != "" {
		query += fmt.Sprintf(" at %s difficulty", difficulty)
	}

	state, err := s.tutor.Run(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("quiz generation failed: %v", err)), nil
	}
	if len(state.Quiz) == 0 {
		return mcp.NewToolResultError("the request did not produce a quiz; try rephrasing the topic"), nil
	}
	if err := s.saveQuiz(state); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("storing quiz: %v", err)), nil
	}

	return mcp.NewToolResultText(formatState(state)), nil
}

// handleEvaluateAnswers grades answers against a stored quiz session.
func (s *Server) handleEvaluateAnswers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	quizID, err := request.RequireString("quiz_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: quiz_id"), nil
	}
	answers, err := request.RequireStringSlice("answers")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: answers"), nil
	}

	session, err := s.db.GetSession(quizID)
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no quiz with id %q; generate one with quiz_me first", quizID)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading quiz: %v", err)), nil
	}
	if session.Status == "evaluated" {
		return mcp.NewToolResultError(fmt.Sprintf("quiz %q has already been graded", quizID)), nil
	}

	result, err := s.tutor.Evaluate(ctx, session.Questions, answers, session.Chunks)
	if errors.Is(err, evaluation.ErrAlignment) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"answer count mismatch: the quiz has %d questions, got %d answers", len(session.Questions), len(answers))), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}

	if err := s.db.SaveEvaluation(quizID, result); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("storing evaluation: %v", err)), nil
	}

	return mcp.NewToolResultText(formatEvaluation(session.Questions, result)), nil
}

func (s *Server) saveQuiz(state *pipeline.State) error {
	return s.db.SaveSession(&store.QuizSession{
		ID:         state.ID,
		Topic:      state.Intent.Topic,
		Difficulty: state.Intent.Difficulty,
		Questions:  state.Quiz,
		Chunks:     state.Retrieved,
	})
}

// formatState renders a pipeline result as text for agent consumption.
// Correct answers are withheld so the agent cannot leak them to the learner.
func formatState(state *pipeline.State) string {
	var sb strings.Builder

	if state.Intent != nil {
		fmt.Fprintf(&sb, "Intent: %s\nTopic: %s\nDifficulty: %s\n", state.Intent.Intent, state.Intent.Topic, state.Intent.Difficulty)
	}

	if state.Explanation != "" {
		sb.WriteString("\n")
		sb.WriteString(state.Explanation)
		sb.WriteString("\n")
	}

	if len(state.Quiz) > 0 {
		fmt.Fprintf(&sb, "\nQuiz id: %s\n", state.ID)
		for i, q := range state.Quiz {
			fmt.Fprintf(&sb, "\n%d. %s\n", i+1, q.Prompt)
			for j, opt := range q.Options {
				fmt.Fprintf(&sb, "   %c) %s\n", 'a'+j, opt)
			}
		}
		sb.WriteString("\nSubmit answers with evaluate_answers, one per question in order.\n")
	}

	if len(state.Retrieved) > 0 {
		sb.WriteString("\nSources:\n")
		for _, c := range state.Retrieved {
			fmt.Fprintf(&sb, "- %s (%.0f%% match)\n", c.Chunk.SourceID, c.Similarity*100)
		}
	} else {
		sb.WriteString("\nNote: no matching study notes were found; the answer is from general knowledge.\n")
	}

	return sb.String()
}

// formatEvaluation renders a grading report, now including the correct
// answers since the quiz is closed.
func formatEvaluation(questions []quiz.Question, result *evaluation.Result) string {
	var sb strings.Builder

	if result.OverallScore != nil {
		fmt.Fprintf(&sb, "Overall score: %.0f/100\n", *result.OverallScore)
	} else {
		sb.WriteString("Overall score: unavailable (no question could be graded)\n")
	}
	sb.WriteString(result.Summary)
	sb.WriteString("\n")

	for i, qr := range result.Questions {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, questions[i].Prompt)
		if qr.Score != nil {
			fmt.Fprintf(&sb, "   Score: %.0f/100\n", *qr.Score)
		} else {
			sb.WriteString("   Score: not graded\n")
		}
		fmt.Fprintf(&sb, "   Correct answer: %s\n", questions[i].CorrectAnswer)
		if qr.Feedback != "" {
			fmt.Fprintf(&sb, "   Feedback: %s\n", qr.Feedback)
		}
	}

	return sb.String()
}
