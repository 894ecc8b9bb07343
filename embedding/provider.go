package embedding

import (
	"context"
	"fmt"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

// Provider turns text into a fixed-length vector.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Unavailable is the provider used when no embedding model is configured.
type Unavailable struct{}

func (Unavailable) Embed(context.Context, string) ([]float64, error) {
	return nil, fmt.Errorf("embedding: %w", schema.ErrCollaboratorUnavailable)
}

// IsAvailable reports whether p can produce embeddings.
func IsAvailable(p Provider) bool {
	if p == nil {
		return false
	}
	_, unavailable := p.(Unavailable)
	return !unavailable
}

// NewProvider builds the configured provider; an empty provider name yields Unavailable.
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case "":
		return Unavailable{}, nil
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
