package model

import "time"

// Config holds the complete engine configuration
type Config struct {
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	LLM        LLMConfig        `yaml:"llm"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Batch      BatchConfig      `yaml:"batch"`
	Store      StoreConfig      `yaml:"store"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Cache      CacheConfig      `yaml:"cache"`
	Verbose    bool             `yaml:"verbose"`
}

// EmbeddingConfig configures the embedding backend
type EmbeddingConfig struct {
	// Provider name: "openai", "ollama"
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	// Dimension is the fixed vector length this provider instance produces.
	// All vectors in a comparable set must share it.
	Dimension int `yaml:"dimension"`
	// Timeout per remote call, seconds
	Timeout int `yaml:"timeout"`
	// MaxRetries bounds retry attempts on transient upstream failures
	MaxRetries int    `yaml:"max_retries"`
	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
}

// LLMConfig configures the chat-completion backend used for criteria
// extraction and candidate analysis strategies
type LLMConfig struct {
	// Provider name: "openai", "ollama", "" (disabled; fallback only)
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Timeout    int    `yaml:"timeout"` // seconds
	MaxTokens  int    `yaml:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
}

// ExtractionConfig holds the keyword-fallback constants. These are heuristic
// defaults without documented derivation — configurable, not hardcoded truths.
type ExtractionConfig struct {
	// FallbackConfidence is attached to every keyword-fallback result
	FallbackConfidence float64 `yaml:"fallback_confidence"`
	// ReplicabilityHard is assigned when replication keywords co-occur with a
	// difficulty qualifier; ReplicabilityEasy applies without one.
	ReplicabilityHard float64 `yaml:"replicability_hard"`
	ReplicabilityEasy float64 `yaml:"replicability_easy"`
	// ActingBarrier is assigned when acting/performance keywords are present
	ActingBarrier float64 `yaml:"acting_barrier"`
}

// BatchConfig controls chunked batch processing against rate-limited backends
type BatchConfig struct {
	// ChunkSize is the number of items processed per group
	ChunkSize int `yaml:"chunk_size"`
	// ChunkDelay is the pause between groups — deliberate backpressure
	// against upstream rate limits, not an incidental sleep.
	ChunkDelay time.Duration `yaml:"chunk_delay"`
	// RequestsPerSecond and Burst feed the per-backend rate limiter
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// StoreConfig configures teaching-example corpus persistence
type StoreConfig struct {
	// Path of the JSON corpus file
	Path string `yaml:"path"`
}

// RetrievalConfig holds default similarity-search parameters
type RetrievalConfig struct {
	// Threshold is the minimum similarity for a retrieved example
	Threshold float64 `yaml:"threshold"`
	// Count is the default number of examples returned
	Count int `yaml:"count"`
}

// CacheConfig configures the embedding vector cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:   "openai",
			Model:      "text-embedding-3-small",
			Dimension:  1536,
			Timeout:    30,
			MaxRetries: 3,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Extraction: ExtractionConfig{
			FallbackConfidence: 0.4,
			ReplicabilityHard:  0.3,
			ReplicabilityEasy:  0.7,
			ActingBarrier:      0.7,
		},
		Batch: BatchConfig{
			ChunkSize:         5,
			ChunkDelay:        2 * time.Second,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Store: StoreConfig{
			Path: "./clipsight-examples.json",
		},
		Retrieval: RetrievalConfig{
			Threshold: 0.75,
			Count:     3,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "./.clipsight-cache",
			TTL:     30 * 24 * time.Hour,
		},
	}
}
