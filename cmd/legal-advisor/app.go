package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/answer"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/cache"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/logger"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/embedding"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/gate"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/index"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/pipeline"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/pool"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/qa"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/router"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/translate"
)

// app is the fully wired advisor shared by every command.
type app struct {
	cfg        *config.Config
	store      *index.Store
	pipeline   *pipeline.Pipeline
	responses  cache.Cache[schema.SearchResponse]
	embeddings cache.Cache[[]float64]
}

func newApp(cfg *config.Config) (*app, error) {
	if err := logger.Init(cfg.Log.Level, cfg.Log.Encoding); err != nil {
		return nil, err
	}

	wp := pool.New(cfg.Pool.Workers)
	responses := cache.NewLRU[schema.SearchResponse](cfg.Cache.Response.MaxEntries, cfg.Cache.Response.TTL(), cache.WithName("response"))
	embeddings := cache.NewLRU[[]float64](cfg.Cache.Embedding.MaxEntries, cfg.Cache.Embedding.TTL(), cache.WithName("embedding"))

	embProvider, err := embedding.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	embedder := embedding.NewCachedEmbedder(embProvider, embeddings, wp)

	extractor, err := qa.NewExtractor(cfg.QA, cfg.HTTP)
	if err != nil {
		return nil, fmt.Errorf("qa extractor: %w", err)
	}
	translator, err := translate.NewTranslator(cfg.Translation)
	if err != nil {
		return nil, fmt.Errorf("translator: %w", err)
	}

	var dsRouter *router.HybridRouter
	if embedder.Available() {
		dsRouter = router.NewRouter(embedder)
	} else {
		logger.Warnf("no embedding provider configured, routing by keywords only")
		dsRouter = router.NewRouter(nil)
	}

	store := index.NewStore(index.DirLoader{Root: cfg.Index.Root})
	g := gate.New(translator, wp, time.Duration(cfg.Translation.TimeoutMs)*time.Millisecond)
	syn := answer.NewSynthesizer(extractor, wp, cfg.Answer)

	return &app{
		cfg:        cfg,
		store:      store,
		pipeline:   pipeline.New(cfg, g, dsRouter, store, embedder, syn, responses),
		responses:  responses,
		embeddings: embeddings,
	}, nil
}

// start runs the cache janitor and, when configured, preloads every index.
func (a *app) start(ctx context.Context) {
	go cache.RunJanitor(ctx, time.Duration(a.cfg.Cache.CleanupIntervalSeconds)*time.Second, a.responses, a.embeddings)

	if !a.cfg.Server.PreloadOnStart {
		return
	}
	start := time.Now()
	if err := a.store.Preload(ctx, a.cfg.Index.Languages); err != nil {
		logger.Warnf("index preload incomplete: %v", err)
	}
	logger.Infof("indexes preloaded in %s: %v", time.Since(start), a.store.Loaded())
}
