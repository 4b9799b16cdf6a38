package config

// DefaultIncludes are the note-file patterns ingested by default.
var DefaultIncludes = []string{
	"**/*.txt",
	"**/*.md",
}

// DefaultExcludes are glob patterns skipped during ingestion by default.
var DefaultExcludes = []string{
	".git/**",
	"**/README.md",
	"**/*.draft.md",
}

// DefaultConfig returns a Config with sensible defaults. Classification runs
// at temperature 0 so the same query maps to the same intent.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		DataDir:           ".mentor",
		NotesDir:          "notes",
		Include:           DefaultIncludes,
		Exclude:           DefaultExcludes,
		ChunkSize:         1000,
		ChunkOverlap:      200,
		TopK:              3,
		SimilarityFloor:   0.1,
		QuizQuestions:     5,
		Temperatures: Temperatures{
			Classify: 0.0,
			Teach:    0.7,
			Quiz:     0.7,
			Evaluate: 0.3,
		},
		CallTimeoutSecs: 60,
		ServerPort:      8080,
	}
}
