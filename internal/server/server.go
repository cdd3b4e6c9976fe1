// Package server exposes the fact-check pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/pipeline"
)

// MinTextLength is the shortest passage /verify accepts
const MinTextLength = 10

const banner = "API Fact-Checker en ligne ! Consulte /verify, /api/search, /api/proxy ou /api/stats"

// Checker runs fact-checks and single-source searches
type Checker interface {
	FactCheck(ctx context.Context, text string) (*model.VerificationResult, error)
	Search(ctx context.Context, source, query string) ([]model.EvidenceItem, error)
}

// Proxy fetches JSON documents on behalf of clients
type Proxy interface {
	FetchJSON(ctx context.Context, rawURL string) (*pipeline.FetchResult, error)
}

// Server is the fact-check HTTP API
type Server struct {
	checker  Checker
	proxy    Proxy       // Optional, /api/proxy answers 503 without it
	cache    cache.Cache // Optional
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer // Optional, /metrics is not mounted without it
	origins  []string
	logger   *zap.Logger
	started  time.Time
	mux      *http.ServeMux
}

// Option configures a Server
type Option func(*Server)

// WithProxy enables /api/proxy
func WithProxy(p Proxy) Option {
	return func(s *Server) { s.proxy = p }
}

// WithCache caches verify, search and proxy responses for ttl
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithMetrics records request metrics and serves gatherer on /metrics
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithAllowedOrigins sets the CORS allow-list; entries may contain "*"
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a Server
func New(checker Checker, opts ...Option) *Server {
	s := &Server{
		checker: checker,
		logger:  zap.NewNop(),
		started: time.Now(),
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler for the server
func (s *Server) Handler() http.Handler {
	return s.requestID(s.cors(s.mux))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /verify", s.handleVerify)
	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/proxy", s.handleProxy)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	if s.gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(banner))
}

type verifyRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		// Well-formed JSON carrying a non-string text fails like the pipeline would
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			s.logger.Error("fact-check failed",
				zap.String("request_id", requestIDFrom(r.Context())),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "Échec de la vérification de faits", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "Corps JSON invalide.", "")
		return
	}
	if utf8.RuneCountInString(req.Text) < MinTextLength {
		writeError(w, http.StatusBadRequest, "Le texte est requis et doit contenir au moins 10 caractères.", "")
		return
	}

	key := cache.CacheKey(cache.KindVerify, req.Text)
	if s.cache != nil {
		if cached, ok := cache.GetJSON[model.VerificationResult](s.cache, key); ok {
			s.metrics.ObserveVerify(true)
			s.logger.Debug("verification served from cache", zap.String("request_id", requestIDFrom(r.Context())))
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}
	s.metrics.ObserveVerify(false)

	result, err := s.checker.FactCheck(r.Context(), req.Text)
	if err != nil {
		s.logger.Error("fact-check failed",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "Échec de la vérification de faits", err.Error())
		return
	}

	s.store(key, result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	source := r.URL.Query().Get("source")
	if query == "" || source == "" {
		writeError(w, http.StatusBadRequest, "Query and source required", "")
		return
	}

	key := cache.CacheKey(cache.KindSearch, source+"\x00"+query)
	if s.cache != nil {
		if cached, ok := cache.GetJSON[[]model.EvidenceItem](s.cache, key); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	items, err := s.checker.Search(r.Context(), source, query)
	if errors.Is(err, pipeline.ErrUnknownSource) {
		writeError(w, http.StatusBadRequest, "Invalid source", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	s.store(key, items)
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, "URL parameter required", "")
		return
	}
	if s.proxy == nil {
		writeError(w, http.StatusServiceUnavailable, "Proxy disabled", "")
		return
	}

	key := cache.CacheKey(cache.KindProxy, target)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			writeRawJSON(w, cached)
			return
		}
	}

	result, err := s.proxy.FetchJSON(r.Context(), target)
	switch {
	case errors.Is(err, pipeline.ErrDisallowed):
		writeError(w, http.StatusForbidden, "Proxy failed", err.Error())
		return
	case errors.Is(err, pipeline.ErrUnsupportedURL):
		writeError(w, http.StatusBadRequest, "Proxy failed", err.Error())
		return
	case err != nil:
		s.logger.Warn("proxy failed",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.String("url", target),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "Proxy failed", err.Error())
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(key, result.Body, s.cacheTTL); err != nil {
			s.logger.Warn("cache write failed", zap.Error(err))
		}
	}
	writeRawJSON(w, result.Body)
}

type memoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"totalAlloc"`
	Sys        uint64 `json:"sys"`
	HeapAlloc  uint64 `json:"heapAlloc"`
	NumGC      uint32 `json:"numGC"`
}

type statsResponse struct {
	CacheSize int         `json:"cacheSize"`
	Uptime    float64     `json:"uptime"` // seconds
	Memory    memoryStats `json:"memory"`
	Timestamp int64       `json:"timestamp"` // Unix milliseconds
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	stats := statsResponse{
		Uptime: time.Since(s.started).Seconds(),
		Memory: memoryStats{
			Alloc:      ms.Alloc,
			TotalAlloc: ms.TotalAlloc,
			Sys:        ms.Sys,
			HeapAlloc:  ms.HeapAlloc,
			NumGC:      ms.NumGC,
		},
		Timestamp: time.Now().UnixMilli(),
	}
	if s.cache != nil {
		stats.CacheSize = s.cache.Len()
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UnixMilli(),
	})
}

// store caches v, logging rather than failing the request on error
func (s *Server) store(key string, v any) {
	if s.cache == nil {
		return
	}
	if err := cache.SetJSON(s.cache, key, v, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeRawJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, errorResponse{Error: msg, Message: detail})
}
