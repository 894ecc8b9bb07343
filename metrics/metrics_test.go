package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCacheCounters(t *testing.T) {
	before := testutil.ToFloat64(cacheLookups.WithLabelValues("response", "hit"))
	IncCacheLookup("response", "hit")
	IncCacheLookup("response", "hit")
	assert.Equal(t, before+2, testutil.ToFloat64(cacheLookups.WithLabelValues("response", "hit")))

	before = testutil.ToFloat64(cacheEvictions.WithLabelValues("embedding", "capacity"))
	IncCacheEviction("embedding", "capacity")
	assert.Equal(t, before+1, testutil.ToFloat64(cacheEvictions.WithLabelValues("embedding", "capacity")))
}

func TestIndexLoadOutcome(t *testing.T) {
	okBefore := testutil.ToFloat64(indexLoads.WithLabelValues("en", "BNS", "ok"))
	errBefore := testutil.ToFloat64(indexLoads.WithLabelValues("en", "BNS", "error"))

	IncIndexLoad("en", "BNS", nil)
	IncIndexLoad("en", "BNS", errors.New("missing"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(indexLoads.WithLabelValues("en", "BNS", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(indexLoads.WithLabelValues("en", "BNS", "error")))
}

func TestRequestMetricsFinish(t *testing.T) {
	m := NewRequestMetrics("req-1", "punishment for theft", "en")
	m.RecordRouting("BNS", "semantic")
	m.RecordRetrieval(2, 0.82, 15*time.Millisecond)
	m.RecordAnswer(0.7, 1, 40*time.Millisecond)

	m.Finish(nil)
	assert.True(t, m.Success)
	assert.Empty(t, m.ErrorMsg)
	assert.Equal(t, int64(15), m.RetrievalLatencyMs)
	assert.Equal(t, 1, m.AnswerDocIndex)

	m.Finish(errors.New("boom"))
	assert.False(t, m.Success)
	assert.Equal(t, "boom", m.ErrorMsg)
}
