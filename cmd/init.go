package cmd

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mentor/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a mentor config file interactively",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err == nil {
		overwrite := promptui.Prompt{
			Label:     fmt.Sprintf("%s already exists, overwrite", cfgFile),
			IsConfirm: true,
		}
		if _, err := overwrite.Run(); err != nil {
			fmt.Println("Keeping the existing config.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = config.ProviderType(providerStr)
	cfg.EmbeddingProvider = cfg.Provider

	defaultModel := cfg.Model
	defaultEmbedding := cfg.EmbeddingModel
	if cfg.Provider == config.ProviderOllama {
		defaultModel = "llama3.1"
		defaultEmbedding = "nomic-embed-text"
	}

	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: defaultModel,
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return fmt.Errorf("model: %w", err)
	}

	embeddingPrompt := promptui.Prompt{
		Label:   "Embedding model",
		Default: defaultEmbedding,
	}
	if cfg.EmbeddingModel, err = embeddingPrompt.Run(); err != nil {
		return fmt.Errorf("embedding model: %w", err)
	}

	notesPrompt := promptui.Prompt{
		Label:   "Notes directory",
		Default: cfg.NotesDir,
	}
	if cfg.NotesDir, err = notesPrompt.Run(); err != nil {
		return fmt.Errorf("notes dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(cfgFile); err != nil {
		return fmt.Errorf("writing %s: %w", cfgFile, err)
	}

	fmt.Printf("\nWrote %s. Put your notes under %s/ and run `mentor ingest`.\n", cfgFile, cfg.NotesDir)
	if cfg.Provider == config.ProviderOpenAI {
		fmt.Println("Remember to export OPENAI_API_KEY before running mentor.")
	}
	return nil
}
