package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mentor/internal/evaluation"
	"github.com/ziadkadry99/mentor/internal/pipeline"
	"github.com/ziadkadry99/mentor/internal/quiz"
	"github.com/ziadkadry99/mentor/internal/store"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the tutor a study question",
	Long: `Routes the question by intent: concept questions and doubts get an
explanation grounded in your notes, quiz requests get a quiz you can
answer right away, practice requests get both.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Bool("no-grade", false, "print the quiz without answering it")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	noGrade, _ := cmd.Flags().GetBool("no-grade")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	index, err := openIndex(ctx, cfg, embedder)
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer db.Close()

	orch := buildOrchestrator(cfg, provider, embedder, index)

	state, runErr := orch.Run(ctx, args[0])
	if err := db.SaveRun(state); err != nil && verbose {
		fmt.Printf("warning: could not record run: %v\n", err)
	}
	if runErr != nil {
		printTrace(state)
		return fmt.Errorf("tutoring failed: %w", runErr)
	}

	if verbose {
		printTrace(state)
	}
	fmt.Printf("Intent: %s | Topic: %s | Difficulty: %s\n", state.Intent.Intent, state.Intent.Topic, state.Intent.Difficulty)
	if len(state.Retrieved) == 0 {
		fmt.Println("No matching notes found; answering from general knowledge.")
	}

	if state.Explanation != "" {
		fmt.Println()
		fmt.Println(state.Explanation)
	}

	if len(state.Quiz) > 0 {
		session := &store.QuizSession{
			ID:         state.ID,
			Topic:      state.Intent.Topic,
			Difficulty: state.Intent.Difficulty,
			Questions:  state.Quiz,
			Chunks:     state.Retrieved,
		}
		if err := db.SaveSession(session); err != nil {
			return fmt.Errorf("storing quiz: %w", err)
		}

		if noGrade {
			printQuiz(state.Quiz)
			fmt.Printf("\nQuiz saved as %s.\n", state.ID)
			return nil
		}

		answers, err := collectAnswers(state.Quiz)
		if err != nil {
			return err
		}
		result, err := orch.Evaluate(ctx, state.Quiz, answers, state.Retrieved)
		if err != nil {
			return fmt.Errorf("grading answers: %w", err)
		}
		if err := db.SaveEvaluation(session.ID, result); err != nil {
			return fmt.Errorf("storing evaluation: %w", err)
		}
		printEvaluation(state.Quiz, result)
	}

	if len(state.Retrieved) > 0 {
		fmt.Println("\nSources:")
		for _, c := range state.Retrieved {
			fmt.Printf("- %s (%.0f%% match)\n", c.Chunk.SourceID, c.Similarity*100)
		}
	}
	return nil
}

func printQuiz(questions []quiz.Question) {
	for i, q := range questions {
		fmt.Printf("\n%d. %s\n", i+1, q.Prompt)
		for j, opt := range q.Options {
			fmt.Printf("   %c) %s\n", 'a'+j, opt)
		}
	}
}

// collectAnswers prompts for one answer per question, in order.
func collectAnswers(questions []quiz.Question) ([]string, error) {
	answers := make([]string, len(questions))
	for i, q := range questions {
		fmt.Printf("\n%d. %s\n", i+1, q.Prompt)

		switch q.Type {
		case quiz.TypeMultipleChoice:
			sel := promptui.Select{
				Label: "Your answer",
				Items: q.Options,
			}
			_, answer, err := sel.Run()
			if err != nil {
				return nil, fmt.Errorf("reading answer: %w", err)
			}
			answers[i] = answer
		default:
			prompt := promptui.Prompt{Label: "Your answer"}
			answer, err := prompt.Run()
			if err != nil {
				return nil, fmt.Errorf("reading answer: %w", err)
			}
			answers[i] = answer
		}
	}
	return answers, nil
}

func printEvaluation(questions []quiz.Question, result *evaluation.Result) {
	fmt.Println()
	if result.OverallScore != nil {
		fmt.Printf("Overall score: %.0f/100\n", *result.OverallScore)
	} else {
		fmt.Println("Overall score: unavailable (no question could be graded)")
	}
	fmt.Println(result.Summary)

	for i, qr := range result.Questions {
		fmt.Printf("\n%d. %s\n", i+1, questions[i].Prompt)
		if qr.Score != nil {
			fmt.Printf("   Score: %.0f/100\n", *qr.Score)
		} else {
			fmt.Println("   Score: not graded")
		}
		fmt.Printf("   Correct answer: %s\n", questions[i].CorrectAnswer)
		if qr.Feedback != "" {
			fmt.Printf("   Feedback: %s\n", qr.Feedback)
		}
	}
}

func printTrace(state *pipeline.State) {
	fmt.Println("Trace:")
	for _, ev := range state.Trace {
		status := "ok"
		if !ev.OK {
			status = "failed: " + ev.Failure
		}
		fmt.Printf("  %-10s %8s  %s", ev.Stage, ev.End.Sub(ev.Start).Round(time.Millisecond), status)
		if ev.Detail != "" {
			fmt.Printf("  (%s)", ev.Detail)
		}
		fmt.Println()
	}
}
