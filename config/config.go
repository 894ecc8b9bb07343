package config

import "time"

// Config represents the main configuration structure for the legal advisor
type Config struct {
	Server      ServerConfig      `json:"server" yaml:"server"`
	Index       IndexConfig       `json:"index" yaml:"index"`
	Cache       CacheConfig       `json:"cache" yaml:"cache"`
	Retrieval   RetrievalConfig   `json:"retrieval" yaml:"retrieval"`
	Answer      AnswerConfig      `json:"answer" yaml:"answer"`
	Embedding   EmbeddingConfig   `json:"embedding" yaml:"embedding"`
	QA          QAConfig          `json:"qa" yaml:"qa"`
	Translation TranslationConfig `json:"translation" yaml:"translation"`
	// HTTP holds options shared by outbound HTTP collaborators.
	HTTP *HTTPClientConfig `json:"http,omitempty" yaml:"http,omitempty"`
	Pool PoolConfig        `json:"pool" yaml:"pool"`
	Log  LogConfig         `json:"log" yaml:"log"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr             string  `json:"addr" yaml:"addr"`
	RequestTimeoutMs int     `json:"request_timeout_ms,omitempty" yaml:"request_timeout_ms,omitempty"`
	RateLimitRPS     float64 `json:"rate_limit_rps,omitempty" yaml:"rate_limit_rps,omitempty"`
	RateLimitBurst   int     `json:"rate_limit_burst,omitempty" yaml:"rate_limit_burst,omitempty"`
	// PreloadOnStart loads every configured language before serving.
	PreloadOnStart bool `json:"preload_on_start,omitempty" yaml:"preload_on_start,omitempty"`
}

// IndexConfig points at the on-disk index artifacts.
type IndexConfig struct {
	// Root contains one directory per language, each holding one directory per dataset.
	Root      string   `json:"root" yaml:"root"`
	Languages []string `json:"languages,omitempty" yaml:"languages,omitempty"`
}

type CacheConfig struct {
	Response               CacheLayerConfig `json:"response" yaml:"response"`
	Embedding              CacheLayerConfig `json:"embedding" yaml:"embedding"`
	CleanupIntervalSeconds int              `json:"cleanup_interval_seconds,omitempty" yaml:"cleanup_interval_seconds,omitempty"`
}

type CacheLayerConfig struct {
	MaxEntries int `json:"max_entries,omitempty" yaml:"max_entries,omitempty"`
	TTLSeconds int `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// TTL returns the configured time-to-live.
func (c CacheLayerConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// RetrievalConfig controls top-k similarity search.
type RetrievalConfig struct {
	TopK           int     `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	Threshold      float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	ReferenceLimit int     `json:"reference_limit,omitempty" yaml:"reference_limit,omitempty"`
}

// AnswerConfig controls answer extraction and selection.
type AnswerConfig struct {
	MaxDocs            int     `json:"max_docs,omitempty" yaml:"max_docs,omitempty"`
	ContextChars       int     `json:"context_chars,omitempty" yaml:"context_chars,omitempty"`
	FallbackChars      int     `json:"fallback_chars,omitempty" yaml:"fallback_chars,omitempty"`
	MinConfidence      float64 `json:"min_confidence,omitempty" yaml:"min_confidence,omitempty"`
	MinAnswerChars     int     `json:"min_answer_chars,omitempty" yaml:"min_answer_chars,omitempty"`
	AgreementThreshold float64 `json:"agreement_threshold,omitempty" yaml:"agreement_threshold,omitempty"`
	AgreementBoost     float64 `json:"agreement_boost,omitempty" yaml:"agreement_boost,omitempty"`
}

// EmbeddingConfig defines configuration for embedding models
type EmbeddingConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: openai, "" (disabled)
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Dimensions int    `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

// QAConfig configures the extractive question-answering service.
type QAConfig struct {
	Provider  string `json:"provider" yaml:"provider"` // Available options: http, "" (disabled)
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	TimeoutMs int    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
}

// TranslationConfig configures query and answer translation.
type TranslationConfig struct {
	Provider  string    `json:"provider" yaml:"provider"` // Available options: llm, "" (disabled)
	TimeoutMs int       `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	LLM       LLMConfig `json:"llm" yaml:"llm"`
}

// LLMConfig defines configuration for Large Language Models
type LLMConfig struct {
	Provider    string  `json:"provider" yaml:"provider"` // Available options: openai
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// HTTPClientConfig defines common options for outbound HTTP calls.
type HTTPClientConfig struct {
	TimeoutMs              int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry                  int      `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs           int      `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs           int      `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	HostAllowlist          []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty"`
	MaxConsecutiveFailures int      `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty"`
	CircuitOpenSeconds     int      `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty"`
}

// PoolConfig bounds concurrent collaborator calls.
type PoolConfig struct {
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

type LogConfig struct {
	Level    string `json:"level,omitempty" yaml:"level,omitempty"`
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"` // console or json
}
