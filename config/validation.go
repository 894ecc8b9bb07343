package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. [%s] %s\n", i+1, err.Field, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateIndex()...)
	errs = append(errs, c.validateCache()...)
	errs = append(errs, c.validateRetrieval()...)
	errs = append(errs, c.validateAnswer()...)
	errs = append(errs, c.validateCollaborators()...)

	if c.Pool.Workers <= 0 {
		errs = append(errs, ValidationError{
			Field:   "pool.workers",
			Message: "pool.workers must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateServer() ValidationErrors {
	var errs ValidationErrors
	if c.Server.RequestTimeoutMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.request_timeout_ms",
			Message: "request timeout must be positive",
		})
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.rate_limit",
			Message: "rate limit values must not be negative",
		})
	}
	return errs
}

func (c *Config) validateIndex() ValidationErrors {
	var errs ValidationErrors
	if c.Index.Root == "" {
		errs = append(errs, ValidationError{
			Field:   "index.root",
			Message: "index root directory is required",
		})
	}
	for _, lang := range c.Index.Languages {
		switch lang {
		case "en", "hi", "ne":
		default:
			errs = append(errs, ValidationError{
				Field:   "index.languages",
				Message: fmt.Sprintf("unsupported language %q", lang),
			})
		}
	}
	return errs
}

func (c *Config) validateCache() ValidationErrors {
	var errs ValidationErrors
	layers := map[string]CacheLayerConfig{
		"cache.response":  c.Cache.Response,
		"cache.embedding": c.Cache.Embedding,
	}
	for _, name := range []string{"cache.response", "cache.embedding"} {
		layer := layers[name]
		if layer.MaxEntries <= 0 {
			errs = append(errs, ValidationError{
				Field:   name + ".max_entries",
				Message: "max_entries must be positive",
			})
		}
		if layer.TTLSeconds <= 0 {
			errs = append(errs, ValidationError{
				Field:   name + ".ttl_seconds",
				Message: "ttl_seconds must be positive",
			})
		}
	}
	return errs
}

func (c *Config) validateRetrieval() ValidationErrors {
	var errs ValidationErrors
	if c.Retrieval.TopK <= 0 {
		errs = append(errs, ValidationError{
			Field:   "retrieval.top_k",
			Message: "top_k must be positive",
		})
	}
	if c.Retrieval.Threshold < 0 || c.Retrieval.Threshold > 1 {
		errs = append(errs, ValidationError{
			Field:   "retrieval.threshold",
			Message: fmt.Sprintf("threshold must be between 0 and 1, got %.2f", c.Retrieval.Threshold),
		})
	}
	if c.Retrieval.ReferenceLimit <= 0 {
		errs = append(errs, ValidationError{
			Field:   "retrieval.reference_limit",
			Message: "reference_limit must be positive",
		})
	}
	return errs
}

func (c *Config) validateAnswer() ValidationErrors {
	var errs ValidationErrors
	a := c.Answer
	if a.MaxDocs <= 0 {
		errs = append(errs, ValidationError{Field: "answer.max_docs", Message: "max_docs must be positive"})
	}
	if a.ContextChars <= 0 || a.FallbackChars <= 0 {
		errs = append(errs, ValidationError{Field: "answer.context_chars", Message: "context sizes must be positive"})
	}
	if a.MinConfidence < 0 || a.MinConfidence > 1 {
		errs = append(errs, ValidationError{
			Field:   "answer.min_confidence",
			Message: fmt.Sprintf("min_confidence must be between 0 and 1, got %.2f", a.MinConfidence),
		})
	}
	if a.AgreementThreshold < 0 || a.AgreementThreshold > 1 {
		errs = append(errs, ValidationError{
			Field:   "answer.agreement_threshold",
			Message: fmt.Sprintf("agreement_threshold must be between 0 and 1, got %.2f", a.AgreementThreshold),
		})
	}
	if a.AgreementBoost < 1 {
		errs = append(errs, ValidationError{Field: "answer.agreement_boost", Message: "agreement_boost must be at least 1"})
	}
	return errs
}

func (c *Config) validateCollaborators() ValidationErrors {
	var errs ValidationErrors

	switch c.Embedding.Provider {
	case "":
	case "openai":
		if c.Embedding.Model == "" {
			errs = append(errs, ValidationError{
				Field:   "embedding.model",
				Message: "embedding model is required",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "embedding.provider",
			Message: fmt.Sprintf("unknown embedding provider %q", c.Embedding.Provider),
		})
	}

	switch c.QA.Provider {
	case "":
	case "http":
		if c.QA.Endpoint == "" {
			errs = append(errs, ValidationError{
				Field:   "qa.endpoint",
				Message: "endpoint is required for the http qa provider",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "qa.provider",
			Message: fmt.Sprintf("unknown qa provider %q", c.QA.Provider),
		})
	}

	switch c.Translation.Provider {
	case "":
	case "llm":
		if c.Translation.LLM.Model == "" {
			errs = append(errs, ValidationError{
				Field:   "translation.llm.model",
				Message: "model is required for the llm translator",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "translation.provider",
			Message: fmt.Sprintf("unknown translation provider %q", c.Translation.Provider),
		})
	}
	return errs
}
