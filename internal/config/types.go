package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Temperatures holds the sampling temperature for each pipeline stage.
// Classification wants determinism; teaching and quiz generation want
// variety; evaluation sits in between.
type Temperatures struct {
	Classify float64 `yaml:"classify" koanf:"classify"`
	Teach    float64 `yaml:"teach" koanf:"teach"`
	Quiz     float64 `yaml:"quiz" koanf:"quiz"`
	Evaluate float64 `yaml:"evaluate" koanf:"evaluate"`
}

// Config is the top-level mentor configuration, corresponding to .mentor.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`

	// DataDir holds the persisted vector index and the quiz-session database.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	// NotesDir is the study-material directory read by `mentor ingest`.
	NotesDir string   `yaml:"notes_dir" koanf:"notes_dir"`
	Include  []string `yaml:"include" koanf:"include"`
	Exclude  []string `yaml:"exclude" koanf:"exclude"`

	ChunkSize    int `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" koanf:"chunk_overlap"`

	TopK            int     `yaml:"top_k" koanf:"top_k"`
	SimilarityFloor float64 `yaml:"similarity_floor" koanf:"similarity_floor"`

	QuizQuestions int `yaml:"quiz_questions" koanf:"quiz_questions"`

	Temperatures Temperatures `yaml:"temperatures" koanf:"temperatures"`

	// CallTimeoutSecs bounds every external call (generation, embedding,
	// index lookup). A timed-out call is treated as a failure subject to
	// the stage's retry policy.
	CallTimeoutSecs int `yaml:"call_timeout_secs" koanf:"call_timeout_secs"`

	ServerPort int `yaml:"server_port" koanf:"server_port"`
}
