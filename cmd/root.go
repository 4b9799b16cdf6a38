package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mentor",
	Short: "AI study tutor over your own notes",
	Long: `Mentor indexes your study notes into a vector database and answers
study questions grounded in them. Queries are routed by intent:
concept questions and doubts get explanations, quiz requests get a
generated quiz, practice requests get both. Submitted quiz answers
are graded against the same notes.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".mentor.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
