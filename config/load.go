package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	EnvEmbeddingAPIKey = "LEGAL_EMBEDDING_API_KEY"
	EnvLLMAPIKey       = "LEGAL_LLM_API_KEY"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:             ":8001",
			RequestTimeoutMs: 30000,
			RateLimitRPS:     10,
			RateLimitBurst:   20,
		},
		Index: IndexConfig{
			Root:      "indexes",
			Languages: []string{"en", "hi", "ne"},
		},
		Cache: CacheConfig{
			Response:               CacheLayerConfig{MaxEntries: 200, TTLSeconds: 300},
			Embedding:              CacheLayerConfig{MaxEntries: 500, TTLSeconds: 900},
			CleanupIntervalSeconds: 60,
		},
		Retrieval: RetrievalConfig{
			TopK:           3,
			Threshold:      0.3,
			ReferenceLimit: 5,
		},
		Answer: AnswerConfig{
			MaxDocs:            2,
			ContextChars:       1200,
			FallbackChars:      600,
			MinConfidence:      0.45,
			MinAnswerChars:     3,
			AgreementThreshold: 0.5,
			AgreementBoost:     1.2,
		},
		Embedding: EmbeddingConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		QA: QAConfig{
			TimeoutMs: 10000,
		},
		Translation: TranslationConfig{
			TimeoutMs: 3000,
		},
		Pool: PoolConfig{Workers: 8},
		Log:  LogConfig{Level: "info", Encoding: "console"},
	}
}

// Load reads a YAML file over the defaults, applies environment overrides and
// validates the result. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEmbeddingAPIKey); v != "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		c.Translation.LLM.APIKey = v
	}
}
