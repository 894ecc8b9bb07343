package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/logger"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/metrics"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/retriever"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

const (
	MethodSemantic = "semantic"
	MethodKeyword  = "keyword"
)

// RoutingDecision represents the dataset chosen for a query
type RoutingDecision struct {
	Dataset string             `json:"dataset"`
	Method  string             `json:"method"` // semantic/keyword
	Scores  map[string]float64 `json:"scores"`
	Reason  string             `json:"reason"`
}

// Router determines which dataset to search for a given query
type Router interface {
	Route(ctx context.Context, query, lang string) (*RoutingDecision, error)
}

// Descriptors are the representative texts each dataset is compared against.
var Descriptors = map[string]string{
	schema.DatasetBNS:  "criminal offenses punishments penalties murder theft assault rape kidnapping robbery human trafficking crimes legal sections Bharatiya Nyaya Sanhita",
	schema.DatasetBSA:  "evidence witness testimony documents proof admission confession expert court trial Bharatiya Sakshya Adhiniyam",
	schema.DatasetBNSS: "criminal procedure investigation police arrest bail summons warrant search seizure fir complaint registration appeal Bharatiya Nagarik Suraksha Sanhita",
}

// QueryEmbedder embeds queries, typically through the embedding cache.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, lang, query string) ([]float64, error)
	Embed(ctx context.Context, text string) ([]float64, error)
}

// SemanticRouter picks the dataset whose descriptor is most similar to the query.
type SemanticRouter struct {
	Embedder QueryEmbedder

	mu          sync.Mutex
	descriptors map[string][]float64
}

func NewSemanticRouter(e QueryEmbedder) *SemanticRouter {
	return &SemanticRouter{Embedder: e}
}

// Route compares the query embedding with every descriptor embedding.
func (r *SemanticRouter) Route(ctx context.Context, query, lang string) (*RoutingDecision, error) {
	if r.Embedder == nil {
		return nil, errors.New("router: no embedder")
	}
	desc, err := r.descriptorEmbeddings(ctx)
	if err != nil {
		return nil, err
	}
	q, err := r.Embedder.EmbedQuery(ctx, lang, query)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(schema.Datasets))
	best, bestScore := schema.Datasets[0], -1.0
	for _, ds := range schema.Datasets {
		s := retriever.Cosine(q, desc[ds])
		scores[ds] = s
		if s > bestScore {
			best, bestScore = ds, s
		}
	}
	return &RoutingDecision{
		Dataset: best,
		Method:  MethodSemantic,
		Scores:  scores,
		Reason:  fmt.Sprintf("closest dataset descriptor (similarity %.3f)", bestScore),
	}, nil
}

// descriptorEmbeddings computes descriptor vectors once. A failed attempt is
// retried on the next call.
func (r *SemanticRouter) descriptorEmbeddings(ctx context.Context) (map[string][]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.descriptors != nil {
		return r.descriptors, nil
	}
	out := make(map[string][]float64, len(Descriptors))
	for _, ds := range schema.Datasets {
		v, err := r.Embedder.Embed(ctx, Descriptors[ds])
		if err != nil {
			return nil, fmt.Errorf("embed %s descriptor: %w", ds, err)
		}
		out[ds] = v
	}
	r.descriptors = out
	return out, nil
}

// KeywordRouter counts multilingual keyword occurrences in the lowercased query.
type KeywordRouter struct {
	keywords map[string][]string
}

// NewKeywordRouter creates a keyword router; nil uses the built-in lists.
func NewKeywordRouter(keywords map[string][]string) *KeywordRouter {
	if keywords == nil {
		keywords = Keywords
	}
	return &KeywordRouter{keywords: keywords}
}

// Route never fails. All-zero counts select the first dataset in priority order.
func (r *KeywordRouter) Route(_ context.Context, query, _ string) (*RoutingDecision, error) {
	q := strings.ToLower(query)
	scores := make(map[string]float64, len(schema.Datasets))
	best, bestScore := schema.Datasets[0], 0.0
	for _, ds := range schema.Datasets {
		n := 0
		for _, kw := range r.keywords[ds] {
			if strings.Contains(q, kw) {
				n++
			}
		}
		scores[ds] = float64(n)
		if float64(n) > bestScore {
			best, bestScore = ds, float64(n)
		}
	}
	reason := fmt.Sprintf("%d keyword matches", int(bestScore))
	if bestScore == 0 {
		reason = "no keyword matches, using default dataset"
	}
	return &RoutingDecision{
		Dataset: best,
		Method:  MethodKeyword,
		Scores:  scores,
		Reason:  reason,
	}, nil
}

// HybridRouter combines the semantic router with keyword fallback
type HybridRouter struct {
	Primary  Router
	Fallback Router
}

// NewHybridRouter creates a hybrid router
func NewHybridRouter(primary, fallback Router) *HybridRouter {
	if fallback == nil {
		fallback = NewKeywordRouter(nil)
	}
	return &HybridRouter{
		Primary:  primary,
		Fallback: fallback,
	}
}

// Route tries primary router, falls back to secondary on failure
func (r *HybridRouter) Route(ctx context.Context, query, lang string) (*RoutingDecision, error) {
	decision := r.route(ctx, query, lang)
	metrics.IncRouting(decision.Dataset, decision.Method)
	logger.Infof("router: %q -> %s (%s, %s, scores=%v)", query, decision.Dataset, decision.Method, decision.Reason, decision.Scores)
	return decision, nil
}

func (r *HybridRouter) route(ctx context.Context, query, lang string) *RoutingDecision {
	if r.Primary != nil {
		decision, err := r.Primary.Route(ctx, query, lang)
		if err == nil && decision != nil {
			return decision
		}
		logger.Warnf("router: semantic selection failed: %v, falling back to keywords", err)
	}

	if r.Fallback != nil {
		if decision, err := r.Fallback.Route(ctx, query, lang); err == nil && decision != nil {
			return decision
		}
	}

	// Ultimate fallback
	return &RoutingDecision{
		Dataset: schema.Datasets[0],
		Method:  MethodKeyword,
		Reason:  "all routers unavailable, using default dataset",
	}
}

// SelectDataset returns the dataset code for query.
func (r *HybridRouter) SelectDataset(ctx context.Context, query, lang string) string {
	d, _ := r.Route(ctx, query, lang)
	return d.Dataset
}

// NewRouter creates the dataset router. A nil embedder routes by keywords only.
func NewRouter(e QueryEmbedder) *HybridRouter {
	var primary Router
	if e != nil {
		primary = NewSemanticRouter(e)
	}
	return NewHybridRouter(primary, NewKeywordRouter(nil))
}
