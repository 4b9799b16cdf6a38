package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/mentor/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the tutoring pipeline as tools (ask_tutor, quiz_me, evaluate_answers) for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

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
		if index.Count() == 0 {
			// Stdout carries the MCP protocol; warnings go to stderr.
			fmt.Fprintln(os.Stderr, "Warning: the vector index is empty. Run `mentor ingest` first.")
		}

		db, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}
		defer db.Close()

		orch := buildOrchestrator(cfg, provider, embedder, index)

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "mentor MCP server started on stdio (chunks=%d)\n", index.Count())

		srv := mcpserver.NewServer(orch, db)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
