// Package pipeline answers a legal question end to end: gate, response cache,
// dataset routing, retrieval, answer synthesis and response composition.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/answer"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/cache"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/logger"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/gate"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/index"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/metrics"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/reference"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/retriever"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/router"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

// Embedder embeds retrieval queries, usually through the embedding cache.
type Embedder interface {
	EmbedQuery(ctx context.Context, lang, query string) ([]float64, error)
	Available() bool
}

// Pipeline holds the collaborators shared by all requests.
type Pipeline struct {
	Gate        *gate.Gate
	Router      router.Router
	Store       *index.Store
	Embedder    Embedder
	Retriever   retriever.Retriever
	Synthesizer *answer.Synthesizer
	Responses   cache.Cache[schema.SearchResponse]

	Timeout        time.Duration
	ReferenceLimit int
	MinConfidence  float64
}

// New assembles a pipeline from configuration and its collaborators.
func New(cfg *config.Config, g *gate.Gate, r router.Router, store *index.Store, e Embedder,
	syn *answer.Synthesizer, responses cache.Cache[schema.SearchResponse]) *Pipeline {
	return &Pipeline{
		Gate:           g,
		Router:         r,
		Store:          store,
		Embedder:       e,
		Retriever:      &retriever.VectorRetriever{TopK: cfg.Retrieval.TopK, Threshold: cfg.Retrieval.Threshold},
		Synthesizer:    syn,
		Responses:      responses,
		Timeout:        time.Duration(cfg.Server.RequestTimeoutMs) * time.Millisecond,
		ReferenceLimit: cfg.Retrieval.ReferenceLimit,
		MinConfidence:  cfg.Answer.MinConfidence,
	}
}

type requestIDKey struct{}

// WithRequestID attaches a request ID used in logs and the metrics record.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID carried by ctx, or a new one.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// NormalizeLanguage lowercases lang, defaults it to English and validates it.
func NormalizeLanguage(lang string) (string, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = schema.LangEnglish
	}
	if !schema.IsSupportedLanguage(lang) {
		return lang, fmt.Errorf("%w: %s", schema.ErrUnsupportedLanguage, lang)
	}
	return lang, nil
}

// Ask answers one question. Only an unsupported language, a missing
// embedding collaborator or the absence of every dataset index is an error;
// everything else degrades to a valid response.
func (p *Pipeline) Ask(ctx context.Context, req schema.ChatRequest) (resp *schema.SearchResponse, err error) {
	start := time.Now()
	rm := metrics.NewRequestMetrics(RequestID(ctx), req.Query, req.Language)
	defer func() {
		rm.Finish(err)
		rm.Log()
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.ObserveRequest(outcome, start)
	}()

	lang, err := NormalizeLanguage(req.Language)
	if err != nil {
		return nil, err
	}
	rm.Language = lang

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	query, simple := p.Gate.Preprocess(ctx, req.Query, lang)
	rm.Simple = simple
	rm.Translated = query != req.Query
	if simple {
		logger.Infof("simple query %q, returning greeting", req.Query)
		return GreetingResponse(lang), nil
	}

	key := cache.ResponseKey(lang, query)
	if cached, ok := p.Responses.Get(key); ok {
		logger.Infof("returning cached response for %s", key)
		rm.CacheHit = true
		out := cloneResponse(cached)
		return &out, nil
	}

	if p.Embedder == nil || !p.Embedder.Available() {
		return nil, fmt.Errorf("embedding: %w", schema.ErrCollaboratorUnavailable)
	}

	decision, err := p.Router.Route(ctx, query, lang)
	if err != nil {
		return nil, err
	}
	rm.RecordRouting(decision.Dataset, decision.Method)

	ix, used, err := p.Store.LoadWithFallback(ctx, lang, decision.Dataset)
	if err != nil {
		return nil, err
	}
	rm.UsedDataset = used
	rm.Fallback = used != decision.Dataset

	qvec, err := p.Embedder.EmbedQuery(ctx, lang, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	retrievalStart := time.Now()
	hits, err := p.Retriever.Search(ctx, qvec, ix)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	top := 0.0
	if len(hits) > 0 {
		top = hits[0].Score
	}
	rm.RecordRetrieval(len(hits), top, time.Since(retrievalStart))
	if len(hits) == 0 {
		logger.Infof("no results above threshold for %q in %s", query, ix.Key())
		return NoResultsResponse(lang), nil
	}

	metas := make([]schema.Metadata, len(hits))
	for i, h := range hits {
		metas[i] = ix.Metas[h.Index]
	}
	answerStart := time.Now()
	cand := p.Synthesizer.Synthesize(ctx, query, metas)
	rm.RecordAnswer(cand.Confidence, cand.DocIndex, time.Since(answerStart))

	resp = p.compose(ctx, lang, cand, used)
	resp.References = reference.Build(hits, ix.Metas, used, p.ReferenceLimit)

	p.Responses.Set(key, cloneResponse(*resp))
	logger.Infof("query processed in %s: %q confidence=%.3f dataset=%s lang=%s",
		time.Since(start), req.Query, cand.Confidence, resp.SourceCode, lang)
	return resp, nil
}

func (p *Pipeline) compose(ctx context.Context, lang string, cand schema.AnswerCandidate, dataset string) *schema.SearchResponse {
	meta := cand.Metadata
	source := reference.EffectiveSource(meta, dataset)
	sourceName := schema.DatasetName(source)

	text := p.Gate.Postprocess(ctx, cand.Text, lang)
	penalties := append([]string{}, meta.Penalties...)

	return &schema.SearchResponse{
		Language:    lang,
		Title:       Title(meta, source, lang),
		Explanation: Explanation(text, cand.Confidence >= p.MinConfidence, meta, sourceName),
		Penalties:   penalties,
		Disclaimer:  Disclaimer(lang),
		SourceCode:  source,
		SourceName:  sourceName,
	}
}

// cloneResponse copies the slices of r so cached responses never alias
// what callers hold.
func cloneResponse(r schema.SearchResponse) schema.SearchResponse {
	r.Penalties = append([]string{}, r.Penalties...)
	r.References = append([]schema.Reference{}, r.References...)
	return r
}

// IsClientError reports whether err was caused by the request itself.
func IsClientError(err error) bool {
	return errors.Is(err, schema.ErrUnsupportedLanguage)
}
