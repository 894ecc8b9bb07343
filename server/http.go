// Package server exposes the legal advisor over HTTP and MCP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/logger"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/metrics"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/pipeline"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

const maxBodyBytes = 1 << 20

// Asker answers chat requests.
type Asker interface {
	Ask(ctx context.Context, req schema.ChatRequest) (*schema.SearchResponse, error)
}

// Indexes reports and warms loaded dataset indexes.
type Indexes interface {
	Loaded() []string
	Preload(ctx context.Context, langs []string) error
}

// Handler serves the REST endpoints.
type Handler struct {
	asker   Asker
	indexes Indexes
	// PreloadOnLanguageChange warms the indexes of a newly selected language
	// in the background.
	PreloadOnLanguageChange bool
}

func NewHandler(a Asker, ix Indexes) *Handler {
	return &Handler{asker: a, indexes: ix}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse reports liveness and the indexes loaded so far.
type HealthResponse struct {
	Status      string   `json:"status"`
	LoadedLangs []string `json:"loaded_langs"`
	Model       string   `json:"model"`
}

type languageChangeRequest struct {
	Language string `json:"language"`
}

type languageChangeResponse struct {
	Status   string `json:"status"`
	Language string `json:"language"`
	Message  string `json:"message"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req schema.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	resp, err := h.asker.Ask(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.Errorf("chat failed (request_id=%s): %v", pipeline.RequestID(r.Context()), err)
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	loaded := []string{}
	if h.indexes != nil {
		loaded = append(loaded, h.indexes.Loaded()...)
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", LoadedLangs: loaded, Model: "multilingual"})
}

func (h *Handler) Languages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"supported": schema.SupportedLanguages()})
}

func (h *Handler) ChangeLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageChangeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Language) == "" {
		writeError(w, http.StatusBadRequest, "language is required")
		return
	}
	lang, err := pipeline.NormalizeLanguage(req.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, unsupported(lang))
		return
	}
	if h.PreloadOnLanguageChange && h.indexes != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := h.indexes.Preload(ctx, []string{lang}); err != nil {
				logger.Warnf("preload for %s incomplete: %v", lang, err)
			}
		}()
	}
	writeJSON(w, http.StatusOK, languageChangeResponse{
		Status:   "success",
		Language: lang,
		Message:  "Language changed to " + lang,
	})
}

// NewServeMux wires routes and middleware. extra mounts additional handlers
// by pattern, such as the MCP endpoint.
func NewServeMux(h *Handler, limiter *IPRateLimiter, extra map[string]http.Handler) http.Handler {
	metrics.Register()
	mux := http.NewServeMux()

	mux.Handle("POST /chat", limiter.Middleware(http.HandlerFunc(h.Chat)))
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /langs", h.Languages)
	mux.HandleFunc("POST /change-language", h.ChangeLanguage)
	mux.Handle("GET /metrics", promhttp.Handler())
	for pattern, handler := range extra {
		mux.Handle(pattern, handler)
	}

	// outermost last
	var handler http.Handler = mux
	handler = Logging(handler)
	handler = RequestID(handler)
	handler = Recovery(handler)
	return handler
}

// ListenAndServe runs an HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Infof("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	}
}

func statusFor(err error) int {
	if pipeline.IsClientError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
