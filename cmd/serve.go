package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mentor/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mentor HTTP API",
	Long: `Starts the HTTP server exposing the tutoring pipeline: POST /api/ask
for questions, /api/quizzes/{id} for stored quizzes and
/api/quizzes/{id}/evaluate for grading submitted answers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort == 0 {
			servePort = cfg.ServerPort
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
			fmt.Fprintln(os.Stderr, "Warning: the vector index is empty. Run `mentor ingest` first.")
		}

		db, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}
		defer db.Close()

		orch := buildOrchestrator(cfg, provider, embedder, index)
		srv := server.New(server.Config{Port: servePort, AllowAll: true}, db, orch)

		// Graceful shutdown.
		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-sigCtx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}
