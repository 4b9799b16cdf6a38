package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mentor/internal/embeddings"
	"github.com/ziadkadry99/mentor/internal/ingest"
	"github.com/ziadkadry99/mentor/internal/progress"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index the study notes into the vector database",
	Long: `Reads every note matching the configured include patterns, chunks it,
embeds the chunks and writes them to the vector index. Run this again
after editing your notes; the index is rebuilt from scratch.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("notes", "", "notes directory (overrides config)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	notesDir := cfg.NotesDir
	if flagDir, _ := cmd.Flags().GetString("notes"); flagDir != "" {
		notesDir = flagDir
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	// Start from an empty index so re-ingesting replaces stale chunks.
	index, err := vectordb.NewChromemIndex(embeddings.ToChromemFunc(embedder))
	if err != nil {
		return fmt.Errorf("creating vector index: %w", err)
	}

	ing := ingest.New(embedder, index, cfg.ChunkSize, cfg.ChunkOverlap, progress.NewReporter())
	stats, err := ing.Run(ctx, ingest.LoaderConfig{
		RootDir: notesDir,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	})
	if err != nil {
		return err
	}
	if stats.Files == 0 {
		fmt.Printf("No notes found under %s matching %v.\n", notesDir, cfg.Include)
		return nil
	}

	indexDir := filepath.Join(cfg.DataDir, "index")
	if err := index.Persist(ctx, indexDir); err != nil {
		return fmt.Errorf("persisting vector index: %w", err)
	}

	fmt.Printf("Indexed %d chunks from %d files into %s.\n", stats.Chunks, stats.Files, indexDir)
	return nil
}
