package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askTutorTool defines the ask_tutor MCP tool.
var askTutorTool = mcp.NewTool("ask_tutor",
	mcp.WithDescription("Ask the tutor a study question. The query is routed by intent: explanations for concept questions and doubts, a quiz for quiz requests, both for practice requests."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language study question"),
	),
)

// quizMeTool defines the quiz_me MCP tool.
var quizMeTool = mcp.NewTool("quiz_me",
	mcp.WithDescription("Generate a quiz on a topic from the indexed study notes. Returns the questions and a quiz id to use with evaluate_answers."),
	mcp.WithString("topic",
		mcp.Required(),
		mcp.Description("Topic to be quizzed on"),
	),
	mcp.WithString("difficulty",
		mcp.Description("Quiz difficulty (default medium)"),
		mcp.Enum("easy", "medium", "hard"),
	),
)

// evaluateAnswersTool defines the evaluate_answers MCP tool.
var evaluateAnswersTool = mcp.NewTool("evaluate_answers",
	mcp.WithDescription("Grade submitted answers for a previously generated quiz. Answers must be given in question order, one per question."),
	mcp.WithString("quiz_id",
		mcp.Required(),
		mcp.Description("Quiz id returned by ask_tutor or quiz_me"),
	),
	mcp.WithArray("answers",
		mcp.Required(),
		mcp.Description("Submitted answers, aligned positionally with the quiz questions"),
	),
)
