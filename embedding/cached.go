package embedding

import (
	"context"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/cache"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/logger"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/pool"
)

// CachedEmbedder embeds queries through the embedding cache. Misses are
// computed on the worker pool and stored under emb:<lang>:<query>.
type CachedEmbedder struct {
	Provider Provider
	Cache    cache.Cache[[]float64]
	Pool     *pool.Pool
}

func NewCachedEmbedder(p Provider, c cache.Cache[[]float64], wp *pool.Pool) *CachedEmbedder {
	return &CachedEmbedder{Provider: p, Cache: c, Pool: wp}
}

// Available reports whether the underlying provider is configured.
func (e *CachedEmbedder) Available() bool {
	return IsAvailable(e.Provider)
}

// EmbedQuery returns the embedding of query for lang.
func (e *CachedEmbedder) EmbedQuery(ctx context.Context, lang, query string) ([]float64, error) {
	key := cache.EmbeddingKey(lang, query)
	if e.Cache != nil {
		if vec, ok := e.Cache.Get(key); ok {
			logger.Debugf("embedding cache hit for %s", key)
			return vec, nil
		}
	}

	vec, err := pool.Run(ctx, e.Pool, func(ctx context.Context) ([]float64, error) {
		return e.Provider.Embed(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	if e.Cache != nil {
		e.Cache.Set(key, vec)
	}
	return vec, nil
}

// Embed embeds text without caching. Used for dataset descriptors.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return pool.Run(ctx, e.Pool, func(ctx context.Context) ([]float64, error) {
		return e.Provider.Embed(ctx, text)
	})
}
