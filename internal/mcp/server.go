package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/mentor/internal/evaluation"
	"github.com/ziadkadry99/mentor/internal/pipeline"
	"github.com/ziadkadry99/mentor/internal/quiz"
	"github.com/ziadkadry99/mentor/internal/store"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Tutor is the pipeline surface the MCP tools talk to.
type Tutor interface {
	Run(ctx context.Context, query string) (*pipeline.State, error)
	Evaluate(ctx context.Context, questions []quiz.Question, answers []string, chunks []vectordb.SearchResult) (*evaluation.Result, error)
}

// Server wraps an MCP server that exposes the tutoring pipeline as tools.
type Server struct {
	tutor Tutor
	db    *store.DB
	mcp   *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(tutor Tutor, db *store.DB) *Server {
	s := &Server{
		tutor: tutor,
		db:    db,
	}

	s.mcp = server.NewMCPServer(
		"mentor",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askTutorTool, s.handleAskTutor)
	s.mcp.AddTool(quizMeTool, s.handleQuizMe)
	s.mcp.AddTool(evaluateAnswersTool, s.handleEvaluateAnswers)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
