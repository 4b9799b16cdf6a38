package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ziadkadry99/mentor/internal/classifier"
	"github.com/ziadkadry99/mentor/internal/config"
	"github.com/ziadkadry99/mentor/internal/embeddings"
	"github.com/ziadkadry99/mentor/internal/evaluation"
	"github.com/ziadkadry99/mentor/internal/llm"
	"github.com/ziadkadry99/mentor/internal/pipeline"
	"github.com/ziadkadry99/mentor/internal/quiz"
	"github.com/ziadkadry99/mentor/internal/retrieval"
	"github.com/ziadkadry99/mentor/internal/store"
	"github.com/ziadkadry99/mentor/internal/teaching"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `mentor init` to create a config file", err)
	}
	return cfg, nil
}

// createLLMProviderFromConfig creates an LLM provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.Provider), cfg.Model)
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}

	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, 768, ""), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// openIndex creates the vector index and loads any persisted state from the
// data directory.
func openIndex(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder) (vectordb.Index, error) {
	index, err := vectordb.NewChromemIndex(embeddings.ToChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("creating vector index: %w", err)
	}

	indexDir := filepath.Join(cfg.DataDir, "index")
	if _, err := os.Stat(indexDir); err == nil {
		if err := index.Load(ctx, indexDir); err != nil {
			return nil, fmt.Errorf("loading vector index from %s: %w", indexDir, err)
		}
	}
	return index, nil
}

// openStore opens the quiz-session database under the data directory.
func openStore(cfg *config.Config) (*store.DB, error) {
	return store.Open(filepath.Join(cfg.DataDir, "mentor.db"))
}

// buildOrchestrator wires every pipeline stage from the config.
func buildOrchestrator(cfg *config.Config, provider llm.Provider, embedder embeddings.Embedder, index vectordb.Index) *pipeline.Orchestrator {
	return pipeline.New(pipeline.Options{
		Classifier:    classifier.New(provider, cfg.Model, cfg.Temperatures.Classify),
		Retriever:     retrieval.New(embedder, index, cfg.SimilarityFloor),
		Explainer:     teaching.New(provider, cfg.Model, cfg.Temperatures.Teach),
		Quizzer:       quiz.New(provider, cfg.Model, cfg.Temperatures.Quiz),
		Evaluator:     evaluation.New(provider, cfg.Model, cfg.Temperatures.Evaluate),
		TopK:          cfg.TopK,
		QuestionCount: cfg.QuizQuestions,
		CallTimeout:   time.Duration(cfg.CallTimeoutSecs) * time.Second,
	})
}
