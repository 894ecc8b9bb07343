package llm

import (
	"context"
	"fmt"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
)

// Provider generates text completions.
type Provider interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
	GetProviderType() string
}

const ProviderOpenAI = "openai"

// NewProvider builds the configured provider.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
