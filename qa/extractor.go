package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/httpx"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/metrics"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

// Result is an extracted answer span and the model's confidence in it.
type Result struct {
	Answer string
	Score  float64
}

// Extractor answers a question from a context passage.
type Extractor interface {
	Extract(ctx context.Context, question, passage string) (Result, error)
}

// Unavailable is the extractor used when no QA model is configured.
type Unavailable struct{}

func (Unavailable) Extract(context.Context, string, string) (Result, error) {
	return Result{}, fmt.Errorf("qa: %w", schema.ErrCollaboratorUnavailable)
}

// HTTPExtractor posts a JSON payload to an extractive QA service.
// Expected request body:
// {"question":"...","context":"..."}
// Expected response body, either of:
// {"answer":"...","score":0.87}
// [{"answer":"...","score":0.87}]
type HTTPExtractor struct {
	Endpoint string
	Client   *httpx.Client
}

type extractReq struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

func NewHTTPExtractor(endpoint string, client *httpx.Client) *HTTPExtractor {
	if client == nil {
		client = httpx.NewFromConfig(nil)
	}
	return &HTTPExtractor{Endpoint: endpoint, Client: client}
}

func (h *HTTPExtractor) Extract(ctx context.Context, question, passage string) (res Result, err error) {
	start := time.Now()
	defer func() { metrics.ObserveCollaborator("qa", start, err) }()

	bs, err := json.Marshal(extractReq{Question: question, Context: passage})
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(bs))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.Client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("qa: status %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return parseResult(body)
}

func parseResult(body []byte) (Result, error) {
	if !gjson.ValidBytes(body) {
		return Result{}, errors.New("qa: invalid JSON response")
	}
	doc := gjson.ParseBytes(body)
	if doc.IsArray() {
		doc = doc.Get("0")
	}
	answer := doc.Get("answer")
	if !answer.Exists() {
		return Result{}, errors.New("qa: response has no answer")
	}
	return Result{Answer: answer.String(), Score: doc.Get("score").Float()}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}

// NewExtractor builds the configured extractor; an empty provider yields Unavailable.
func NewExtractor(cfg config.QAConfig, httpCfg *config.HTTPClientConfig) (Extractor, error) {
	switch cfg.Provider {
	case "":
		return Unavailable{}, nil
	case "http":
		c := config.HTTPClientConfig{}
		if httpCfg != nil {
			c = *httpCfg
		}
		if cfg.TimeoutMs > 0 {
			c.TimeoutMs = cfg.TimeoutMs
		}
		return NewHTTPExtractor(cfg.Endpoint, httpx.NewFromConfig(&c)), nil
	default:
		return nil, fmt.Errorf("unknown qa provider %q", cfg.Provider)
	}
}
