package cache

import (
	"context"
	"strings"
	"time"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/logger"
)

// NormalizeQuery lowercases and trims a query for use in cache keys.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// ResponseKey is the response cache key for a processed query.
func ResponseKey(lang, query string) string {
	return lang + ":" + NormalizeQuery(query)
}

// EmbeddingKey is the embedding cache key for a processed query.
func EmbeddingKey(lang, query string) string {
	return "emb:" + lang + ":" + NormalizeQuery(query)
}

// Cleaner is any cache that can drop its expired entries.
type Cleaner interface {
	Cleanup() int
}

// RunJanitor calls Cleanup on every cache at the given interval until ctx is done.
func RunJanitor(ctx context.Context, interval time.Duration, caches ...Cleaner) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			for _, c := range caches {
				removed += c.Cleanup()
			}
			if removed > 0 {
				logger.Debugf("cache janitor removed %d expired entries", removed)
			}
		}
	}
}
