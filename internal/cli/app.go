package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/ppiankov/lacuna/internal/cache"
	"github.com/ppiankov/lacuna/internal/llm"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/store"
	"github.com/ppiankov/lacuna/internal/worker"
)

var (
	llmProvider string
	llmModel    string
	noCache     bool
)

// loadConfig builds the effective configuration: defaults overlaid with
// the config file, LACUNA_* env vars, and flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	cfg.Output.Verbose = verbose

	return cfg, nil
}

// resolveAPIKey fills the API key from the environment when the config
// does not carry one
func resolveAPIKey(cfg *model.Config) error {
	if cfg.LLM.APIKey != "" {
		return nil
	}

	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return nil
}

// newExtractor builds the oracle extractor with rate limiting and
// optional completion caching
func newExtractor(cfg *model.Config) (*llm.Extractor, error) {
	if err := resolveAPIKey(cfg); err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}

	opts := []llm.Option{
		llm.WithLimiter(worker.NewLimiter(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst)),
	}
	if cfg.Cache.Enabled {
		opts = append(opts, llm.WithCache(
			cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL),
			cfg.Cache.TTL,
		))
	}

	return llm.NewExtractor(provider, opts...), nil
}

// openStore opens the on-disk paper store
func openStore(cfg *model.Config) (*store.Store, error) {
	st, err := store.Open(cfg.Store.Dir)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", cfg.Store.Dir, err)
	}
	return st, nil
}
