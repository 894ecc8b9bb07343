package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/pipeline"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

type fakeAsker struct {
	mu      sync.Mutex
	reqs    []schema.ChatRequest
	ids     []string
	resp    *schema.SearchResponse
	err     error
	panicky bool
}

func (f *fakeAsker) Ask(ctx context.Context, req schema.ChatRequest) (*schema.SearchResponse, error) {
	if f.panicky {
		panic("boom")
	}
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.ids = append(f.ids, pipeline.RequestID(ctx))
	f.mu.Unlock()
	if _, err := pipeline.NormalizeLanguage(req.Language); err != nil {
		return nil, err
	}
	return f.resp, f.err
}

type fakeIndexes struct {
	loaded    []string
	preloaded chan []string
}

func (f *fakeIndexes) Loaded() []string { return f.loaded }

func (f *fakeIndexes) Preload(_ context.Context, langs []string) error {
	if f.preloaded != nil {
		f.preloaded <- langs
	}
	return nil
}

func newTestMux(a Asker, ix Indexes, limiter *IPRateLimiter) http.Handler {
	return NewServeMux(NewHandler(a, ix), limiter, nil)
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChat(t *testing.T) {
	a := &fakeAsker{resp: &schema.SearchResponse{Language: "en", Title: "Theft", Penalties: []string{}, References: []schema.Reference{}}}
	h := newTestMux(a, nil, nil)

	rec := post(t, h, "/chat", `{"query":"what is the punishment for theft","language":"en"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got schema.SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Theft", got.Title)
	assert.Equal(t, "what is the punishment for theft", a.reqs[0].Query)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, rec.Header().Get("X-Request-ID"), a.ids[0])
}

func TestChatKeepsInboundRequestID(t *testing.T) {
	a := &fakeAsker{resp: &schema.SearchResponse{}}
	h := newTestMux(a, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":"q","language":"en"}`))
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, []string{"abc-123"}, a.ids)
}

func TestChatUnsupportedLanguageIs400(t *testing.T) {
	h := newTestMux(&fakeAsker{}, nil, nil)

	rec := post(t, h, "/chat", `{"query":"bonjour tout le monde","language":"fr"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body.Detail, "fr")
}

func TestChatConfigurationErrorIs500(t *testing.T) {
	cfgErr := &schema.ConfigurationError{Lang: "en", Err: schema.ErrNoDataset}
	h := newTestMux(&fakeAsker{err: fmt.Errorf("ask: %w", cfgErr)}, nil, nil)

	rec := post(t, h, "/chat", `{"query":"what is bail","language":"en"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestChatInvalidBody(t *testing.T) {
	rec := post(t, newTestMux(&fakeAsker{}, nil, nil), "/chat", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatPanicIsRecovered(t *testing.T) {
	rec := post(t, newTestMux(&fakeAsker{panicky: true}, nil, nil), "/chat", `{"query":"q"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	h := newTestMux(&fakeAsker{}, &fakeIndexes{loaded: []string{"en_BNS", "hi_BSA"}}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, HealthResponse{Status: "ok", LoadedLangs: []string{"en_BNS", "hi_BSA"}, Model: "multilingual"}, got)
}

func TestHealthWithNothingLoaded(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(&fakeAsker{}, &fakeIndexes{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Contains(t, rec.Body.String(), `"loaded_langs":[]`)
}

func TestLanguages(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(&fakeAsker{}, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/langs", nil))
	assert.JSONEq(t, `{"supported":["en","hi","ne"]}`, rec.Body.String())
}

func TestChangeLanguage(t *testing.T) {
	ix := &fakeIndexes{preloaded: make(chan []string, 1)}
	handler := NewHandler(&fakeAsker{}, ix)
	handler.PreloadOnLanguageChange = true
	h := NewServeMux(handler, nil, nil)

	rec := post(t, h, "/change-language", `{"language":"HI"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","language":"hi","message":"Language changed to hi"}`, rec.Body.String())
	assert.Equal(t, []string{"hi"}, <-ix.preloaded)

	rec = post(t, h, "/change-language", `{"language":"de"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unsupported language: de")

	rec = post(t, h, "/change-language", `{"language":" "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"language is required"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(&fakeAsker{}, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "legal_pool_inflight")
}

func TestRateLimiter(t *testing.T) {
	h := newTestMux(&fakeAsker{resp: &schema.SearchResponse{}}, nil, NewIPRateLimiter(1, 1))

	first := post(t, h, "/chat", `{"query":"q","language":"en"}`)
	assert.Equal(t, http.StatusOK, first.Code)

	second := post(t, h, "/chat", `{"query":"q","language":"en"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// other endpoints are not limited
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	assert.Equal(t, "10.0.0.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
