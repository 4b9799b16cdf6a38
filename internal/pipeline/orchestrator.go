package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/mentor/internal/classifier"
	"github.com/ziadkadry99/mentor/internal/evaluation"
	"github.com/ziadkadry99/mentor/internal/llm"
	"github.com/ziadkadry99/mentor/internal/quiz"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

// The orchestrator talks to its stages through these interfaces so runs can
// be replayed stage by stage in tests.
type intentClassifier interface {
	Classify(ctx context.Context, query string) (classifier.Result, error)
}

type chunkRetriever interface {
	Retrieve(ctx context.Context, topic string, k int) ([]vectordb.SearchResult, error)
}

type explainer interface {
	Explain(ctx context.Context, query string, cls classifier.Result, chunks []vectordb.SearchResult) (string, error)
}

type quizGenerator interface {
	Generate(ctx context.Context, topic string, chunks []vectordb.SearchResult, difficulty classifier.Difficulty, count int) ([]quiz.Question, error)
}

type answerEvaluator interface {
	Evaluate(ctx context.Context, questions []quiz.Question, answers []string, chunks []vectordb.SearchResult) (*evaluation.Result, error)
}

// stageKind names the generation stages a route can run after retrieval.
type stageKind string

const (
	stageExplain stageKind = "explain"
	stageQuiz    stageKind = "quiz"
)

// routes is the transition table. Every intent maps to the ordered list of
// generation stages that run after classification and retrieval.
var routes = map[classifier.Intent][]stageKind{
	classifier.IntentConcept:  {stageExplain},
	classifier.IntentDoubt:    {stageExplain},
	classifier.IntentQuiz:     {stageQuiz},
	classifier.IntentPractice: {stageExplain, stageQuiz},
}

// Options configures an Orchestrator. Zero values fall back to the
// documented defaults.
type Options struct {
	Classifier intentClassifier
	Retriever  chunkRetriever
	Explainer  explainer
	Quizzer    quizGenerator
	Evaluator  answerEvaluator

	TopK          int
	QuestionCount int
	CallTimeout   time.Duration
}

// Orchestrator owns the pipeline state machine. It is the only component
// that mutates a State; stages receive their inputs and return outputs.
type Orchestrator struct {
	classifier intentClassifier
	retriever  chunkRetriever
	explainer  explainer
	quizzer    quizGenerator
	evaluator  answerEvaluator

	topK          int
	questionCount int
	callTimeout   time.Duration
}

func New(opts Options) *Orchestrator {
	if opts.TopK < 1 {
		opts.TopK = 3
	}
	if opts.QuestionCount < 1 {
		opts.QuestionCount = 5
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 60 * time.Second
	}
	return &Orchestrator{
		classifier:    opts.Classifier,
		retriever:     opts.Retriever,
		explainer:     opts.Explainer,
		quizzer:       opts.Quizzer,
		evaluator:     opts.Evaluator,
		topK:          opts.TopK,
		questionCount: opts.QuestionCount,
		callTimeout:   opts.CallTimeout,
	}
}

// Run drives one query through classification, retrieval and the generation
// stages its intent routes to. It always returns the State: on success with
// Status done, on a fatal stage failure with Status failed and the partial
// trace attached. Each query gets a fresh State; concurrent runs share
// nothing.
func (o *Orchestrator) Run(ctx context.Context, query string) (*State, error) {
	state := newState(query)

	// Classification cannot fail the run. A classifier error is recorded
	// in the trace and the fallback result is used.
	_ = state.trace("classify", func() (string, error) {
		cctx, cancel := context.WithTimeout(ctx, o.callTimeout)
		defer cancel()
		res, err := o.classifier.Classify(cctx, query)
		state.Intent = &res
		return fmt.Sprintf("intent=%s topic=%q", res.Intent, res.Topic), err
	})
	state.Status = StatusClassified

	err := state.trace("retrieve", func() (string, error) {
		rctx, cancel := context.WithTimeout(ctx, o.callTimeout)
		defer cancel()
		chunks, err := o.retriever.Retrieve(rctx, state.Intent.Topic, o.topK)
		if err != nil {
			return "", err
		}
		state.Retrieved = chunks
		return fmt.Sprintf("chunks=%d", len(chunks)), nil
	})
	if err != nil {
		state.fail(err)
		return state, err
	}
	state.Status = StatusRetrieved

	for _, stage := range routes[state.Intent.Intent] {
		switch stage {
		case stageExplain:
			err = state.trace("explain", func() (string, error) {
				text, err := o.runExplain(ctx, state)
				if err != nil {
					return "", err
				}
				state.Explanation = text
				return "", nil
			})
			if err != nil {
				state.fail(err)
				return state, err
			}
			state.Status = StatusExplained
		case stageQuiz:
			err = state.trace("quiz", func() (string, error) {
				qctx, cancel := context.WithTimeout(ctx, o.callTimeout)
				defer cancel()
				questions, err := o.quizzer.Generate(qctx, state.Intent.Topic, state.Retrieved, state.Intent.Difficulty, o.questionCount)
				if err != nil {
					return "", err
				}
				state.Quiz = questions
				return fmt.Sprintf("questions=%d", len(questions)), nil
			})
			if err != nil {
				state.fail(err)
				return state, err
			}
			if state.Explanation != "" {
				state.Status = StatusExplainedAndQuizzed
			} else {
				state.Status = StatusQuizzed
			}
		}
	}

	state.Status = StatusDone
	return state, nil
}

// runExplain calls the explainer, retrying once with half the chunks when
// generation fails. An empty retrieval set is passed through unchanged; the
// explainer handles it as a low-confidence answer.
func (o *Orchestrator) runExplain(ctx context.Context, state *State) (string, error) {
	ectx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	text, err := o.explainer.Explain(ectx, state.Query, *state.Intent, state.Retrieved)
	if err == nil {
		return text, nil
	}

	var genErr *llm.GenerationError
	if !errors.As(err, &genErr) {
		return "", err
	}

	rctx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return o.explainer.Explain(rctx, state.Query, *state.Intent, state.Retrieved[:len(state.Retrieved)/2])
}

// Evaluate grades submitted answers against an existing quiz. It is the
// re-entrant entry point: it does not belong to a Run and takes the quiz and
// its grounding chunks from the stored session.
func (o *Orchestrator) Evaluate(ctx context.Context, questions []quiz.Question, answers []string, chunks []vectordb.SearchResult) (*evaluation.Result, error) {
	// One timeout window per question, since short answers each need a
	// judge call.
	n := len(questions)
	if n < 1 {
		n = 1
	}
	ectx, cancel := context.WithTimeout(ctx, o.callTimeout*time.Duration(n))
	defer cancel()
	return o.evaluator.Evaluate(ectx, questions, answers, chunks)
}
