package metrics

import (
	"encoding/json"
	"time"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/logger"
)

// RequestMetrics 记录单次问答请求的完整指标
type RequestMetrics struct {
	RequestID string    `json:"request_id"`
	Query     string    `json:"query"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`

	// Gate
	Simple     bool `json:"simple"`
	Translated bool `json:"translated"`
	CacheHit   bool `json:"cache_hit"`

	// Routing
	RoutedDataset string `json:"routed_dataset,omitempty"`
	RoutingMethod string `json:"routing_method,omitempty"` // "semantic" | "keyword"
	UsedDataset   string `json:"used_dataset,omitempty"`
	Fallback      bool   `json:"fallback"`

	// Retrieval
	RetrievedCount     int     `json:"retrieved_count"`
	TopScore           float64 `json:"top_score,omitempty"`
	RetrievalLatencyMs int64   `json:"retrieval_latency_ms,omitempty"`

	// Answer
	AnswerConfidence float64 `json:"answer_confidence"`
	AnswerDocIndex   int     `json:"answer_doc_index"`
	AnswerLatencyMs  int64   `json:"answer_latency_ms,omitempty"`

	TotalLatencyMs int64  `json:"total_latency_ms"`
	Success        bool   `json:"success"`
	ErrorMsg       string `json:"error_msg,omitempty"`
}

// NewRequestMetrics 创建新的请求指标实例
func NewRequestMetrics(requestID, query, lang string) *RequestMetrics {
	return &RequestMetrics{
		RequestID: requestID,
		Query:     query,
		Language:  lang,
		Timestamp: time.Now(),
	}
}

// RecordRouting 记录数据集路由结果
func (m *RequestMetrics) RecordRouting(dataset, method string) {
	m.RoutedDataset = dataset
	m.RoutingMethod = method
}

// RecordRetrieval 记录检索结果
func (m *RequestMetrics) RecordRetrieval(count int, top float64, latency time.Duration) {
	m.RetrievedCount = count
	m.TopScore = top
	m.RetrievalLatencyMs = latency.Milliseconds()
}

// RecordAnswer 记录答案选择结果
func (m *RequestMetrics) RecordAnswer(confidence float64, docIndex int, latency time.Duration) {
	m.AnswerConfidence = confidence
	m.AnswerDocIndex = docIndex
	m.AnswerLatencyMs = latency.Milliseconds()
}

// Finish 记录总耗时与结果
func (m *RequestMetrics) Finish(err error) {
	m.TotalLatencyMs = time.Since(m.Timestamp).Milliseconds()
	m.Success = err == nil
	if err != nil {
		m.ErrorMsg = err.Error()
	}
}

// Log 将指标以 JSON 格式输出到日志
func (m *RequestMetrics) Log() {
	if data, err := json.Marshal(m); err == nil {
		logger.Infof("[LEGAL_METRICS] %s", string(data))
	}
}
