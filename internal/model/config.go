package model

import "time"

// Config holds the complete lacuna configuration
type Config struct {
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	Ingest   IngestConfig   `yaml:"ingest" mapstructure:"ingest"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the oracle provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds per request
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	// RequestsPerSecond bounds oracle call rate (0 = unlimited)
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// HTTPConfig configures fetching papers by URL
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// IngestConfig configures the ingestion pipeline
type IngestConfig struct {
	// ChunkBatchSize is how many chunks are sent to the oracle concurrently
	ChunkBatchSize int `yaml:"chunk_batch_size" mapstructure:"chunk_batch_size"`
	// MaxFileBytes rejects oversized inputs before extraction
	MaxFileBytes int64 `yaml:"max_file_bytes" mapstructure:"max_file_bytes"`
	// Workers bounds concurrent paper ingestions in batch mode
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// AnalysisConfig configures the analysis pipeline
type AnalysisConfig struct {
	// PairBatchSize is how many claim pairs go into one contradiction call
	PairBatchSize int `yaml:"pair_batch_size" mapstructure:"pair_batch_size"`
	// SparseDensityThreshold marks themes below it as sparse coverage
	SparseDensityThreshold float64 `yaml:"sparse_density_threshold" mapstructure:"sparse_density_threshold"`
}

// CacheConfig configures oracle completion caching
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// StoreConfig configures on-disk persistence
type StoreConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// OutputConfig configures CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:          "",
			Model:             "",
			Timeout:           60,
			MaxTokens:         4096,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		HTTP: HTTPConfig{
			Timeout:       2 * time.Minute,
			UserAgent:     "Lacuna/0.1 (+https://github.com/ppiankov/lacuna)",
			MaxBodyBytes:  10_000_000,
			RespectRobots: true,
		},
		Ingest: IngestConfig{
			ChunkBatchSize: 3,
			MaxFileBytes:   25_000_000,
			Workers:        2,
		},
		Analysis: AnalysisConfig{
			PairBatchSize:          5,
			SparseDensityThreshold: 0.2,
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     ".lacuna/cache",
			TTL:     24 * time.Hour,
		},
		Store: StoreConfig{
			Dir: ".lacuna/data",
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
