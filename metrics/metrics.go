package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "legal_request_latency_ms",
		Help:    "End-to-end latency of chat requests in milliseconds",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000},
	}, []string{"outcome"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "legal_cache_lookups_total",
		Help: "Cache lookups by cache name and result (hit/miss/expired)",
	}, []string{"cache", "result"})

	cacheEvictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "legal_cache_evictions_total",
		Help: "Entries removed by capacity eviction or expiry",
	}, []string{"cache", "reason"})

	routingDecision = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "legal_routing_decision_total",
		Help: "Dataset routing decisions",
	}, []string{"dataset", "method"})

	retrievalTop1 = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "legal_retrieval_top1",
		Help:    "Top1 similarity score distribution",
		Buckets: []float64{0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 0.99, 1.0},
	})

	retrievalResults = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "legal_retrieval_results",
		Help:    "Number of hits above threshold per request",
		Buckets: []float64{0, 1, 2, 3, 5, 10},
	})

	collaboratorLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "legal_collaborator_latency_ms",
		Help:    "Latency of collaborator calls in milliseconds",
		Buckets: []float64{10, 25, 50, 100, 200, 500, 1000, 2000, 5000},
	}, []string{"collaborator", "outcome"})

	answerConfidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "legal_answer_confidence",
		Help:    "Confidence of the selected answer",
		Buckets: []float64{0, 0.1, 0.2, 0.3, 0.45, 0.6, 0.75, 0.9, 1.0},
	})

	indexLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "legal_index_loads_total",
		Help: "Dataset index load attempts",
	}, []string{"lang", "dataset", "outcome"})

	poolInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "legal_pool_inflight",
		Help: "Collaborator tasks currently holding a worker slot",
	})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(Collectors()...)
	})
}

// Register adds all collectors to the default registry. Safe to call repeatedly.
func Register() {
	ensureRegistered()
}

// ObserveRequest records the end-to-end latency of a chat request.
func ObserveRequest(outcome string, start time.Time) {
	ensureRegistered()
	requestLatency.WithLabelValues(outcome).Observe(float64(time.Since(start).Milliseconds()))
}

// IncCacheLookup counts a cache lookup result.
func IncCacheLookup(cache, result string) {
	ensureRegistered()
	cacheLookups.WithLabelValues(cache, result).Inc()
}

// IncCacheEviction counts a removed cache entry.
func IncCacheEviction(cache, reason string) {
	ensureRegistered()
	cacheEvictions.WithLabelValues(cache, reason).Inc()
}

// IncRouting records a dataset routing decision.
func IncRouting(dataset, method string) {
	ensureRegistered()
	routingDecision.WithLabelValues(dataset, method).Inc()
}

// ObserveRetrieval records the hit count and top score of one retrieval.
func ObserveRetrieval(results int, top1 float64) {
	ensureRegistered()
	retrievalResults.Observe(float64(results))
	if results > 0 {
		retrievalTop1.Observe(top1)
	}
}

// ObserveCollaborator records latency for an embedding, qa or translation call.
func ObserveCollaborator(name string, start time.Time, err error) {
	ensureRegistered()
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	collaboratorLatency.WithLabelValues(name, outcome).Observe(float64(time.Since(start).Milliseconds()))
}

// ObserveAnswerConfidence records the confidence of the selected answer.
func ObserveAnswerConfidence(c float64) {
	ensureRegistered()
	answerConfidence.Observe(c)
}

// IncIndexLoad counts an index load attempt.
func IncIndexLoad(lang, dataset string, err error) {
	ensureRegistered()
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	indexLoads.WithLabelValues(lang, dataset, outcome).Inc()
}

// AddPoolInFlight adjusts the in-flight worker gauge.
func AddPoolInFlight(delta float64) {
	ensureRegistered()
	poolInFlight.Add(delta)
}

// Collectors exposes all collectors for external registration with a custom registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		requestLatency, cacheLookups, cacheEvictions, routingDecision, retrievalTop1,
		retrievalResults, collaboratorLatency, answerConfidence, indexLoads, poolInFlight,
	}
}
