package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/metrics"
)

// OpenAIProvider calls an OpenAI-compatible /embeddings endpoint. The model
// must be the one the offline index was built with.
type OpenAIProvider struct {
	client     openai.Client
	model      string
	dimensions int
}

func NewOpenAIProvider(cfg config.EmbeddingConfig) (*OpenAIProvider, error) {
	if cfg.Model == "" {
		return nil, errors.New("openai embedding: model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIProvider{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

func (p *OpenAIProvider) Embed(ctx context.Context, text string) (vec []float64, err error) {
	start := time.Now()
	defer func() { metrics.ObserveCollaborator("embedding", start, err) }()

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(p.model),
	}
	if p.dimensions > 0 {
		params.Dimensions = openai.Int(int64(p.dimensions))
	}
	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("openai embedding: no embedding returned")
	}
	return resp.Data[0].Embedding, nil
}
