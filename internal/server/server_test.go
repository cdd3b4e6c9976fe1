package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/pipeline"
)

type fakeChecker struct {
	checks   atomic.Int32
	searches atomic.Int32
	err      error
}

func (f *fakeChecker) FactCheck(ctx context.Context, text string) (*model.VerificationResult, error) {
	f.checks.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &model.VerificationResult{
		OverallConfidence: 0.43,
		Sources:           []model.EvidenceItem{{Title: "DuckDuckGo: Paris", URL: "https://duckduckgo.com/Paris", SourceCategory: model.CategorySearchEngine, Reliability: 0.75}},
		Claims:            []model.ClaimVerdict{{Text: text, Confidence: 0.3, Status: model.StatusDisputed}},
		ContentAnalysis:   model.ContentAnalysis{ContentType: model.ContentFactual},
	}, nil
}

func (f *fakeChecker) Search(ctx context.Context, source, query string) ([]model.EvidenceItem, error) {
	f.searches.Add(1)
	if source != "wikidata" {
		return nil, fmt.Errorf("%w: %s", pipeline.ErrUnknownSource, source)
	}
	return []model.EvidenceItem{{Title: "Wikidata: " + query, URL: "https://www.wikidata.org/wiki/Q90"}}, nil
}

type fakeProxy struct {
	calls atomic.Int32
}

func (f *fakeProxy) FetchJSON(ctx context.Context, rawURL string) (*pipeline.FetchResult, error) {
	f.calls.Add(1)
	switch {
	case strings.Contains(rawURL, "private"):
		return nil, fmt.Errorf("%w: %s", pipeline.ErrDisallowed, rawURL)
	case strings.Contains(rawURL, "down"):
		return nil, errors.New("HTTP 503")
	}
	return &pipeline.FetchResult{Body: json.RawMessage(`{"ok":true}`), StatusCode: http.StatusOK}, nil
}

func newTestServer(t *testing.T, checker *fakeChecker, opts ...Option) (*Server, cache.Cache) {
	t.Helper()
	c := cache.NewMemoryCache(time.Hour, time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	opts = append([]Option{WithCache(c, time.Hour), WithProxy(&fakeProxy{})}, opts...)
	return New(checker, opts...), c
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Expected JSON error body, got %q", rec.Body.String())
	}
	return resp
}

func TestIndex(t *testing.T) {
	srv, _ := newTestServer(t, &fakeChecker{})

	rec := do(t, srv.Handler(), http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/verify") {
		t.Errorf("Expected banner, got %q", rec.Body.String())
	}

	if rec := do(t, srv.Handler(), http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestVerify(t *testing.T) {
	checker := &fakeChecker{}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv, c := newTestServer(t, checker, WithMetrics(m, reg))
	h := srv.Handler()

	body := `{"text":"Paris est la capitale de la France."}`
	first := do(t, h, http.MethodPost, "/verify", body)
	if first.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", first.Code, first.Body.String())
	}

	var result model.VerificationResult
	if err := json.Unmarshal(first.Body.Bytes(), &result); err != nil {
		t.Fatalf("Expected result JSON, got %v", err)
	}
	if result.OverallConfidence != 0.43 {
		t.Errorf("Expected 0.43, got %v", result.OverallConfidence)
	}

	second := do(t, h, http.MethodPost, "/verify", body)
	if second.Code != http.StatusOK {
		t.Fatalf("Expected cached 200, got %d", second.Code)
	}
	if checker.checks.Load() != 1 {
		t.Errorf("Expected second request to be served from cache, got %d checks", checker.checks.Load())
	}
	if diff := cmp.Diff(first.Body.String(), second.Body.String()); diff != "" {
		t.Errorf("Cached response differs (-first +second):\n%s", diff)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 cache entry, got %d", c.Len())
	}

	if got := testutil.ToFloat64(m.VerifyRequests.WithLabelValues("hit")); got != 1 {
		t.Errorf("Expected 1 cache hit, got %v", got)
	}
	if got := testutil.ToFloat64(m.VerifyRequests.WithLabelValues("miss")); got != 1 {
		t.Errorf("Expected 1 cache miss, got %v", got)
	}
}

func TestVerify_DifferentTextsSharingAPrefix(t *testing.T) {
	checker := &fakeChecker{}
	srv, _ := newTestServer(t, checker)
	h := srv.Handler()

	prefix := strings.Repeat("Paris est la capitale de la France. ", 4)
	do(t, h, http.MethodPost, "/verify", fmt.Sprintf(`{"text":%q}`, prefix+"Lyon aussi."))
	do(t, h, http.MethodPost, "/verify", fmt.Sprintf(`{"text":%q}`, prefix+"Marseille aussi."))

	if checker.checks.Load() != 2 {
		t.Errorf("Expected both passages to be checked, got %d", checker.checks.Load())
	}
}

func TestVerify_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{}`},
		{"too short", `{"text":"court"}`},
		{"nine accented characters", `{"text":"ééééééééé"}`},
		{"not json", `text=hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &fakeChecker{}
			srv, _ := newTestServer(t, checker)

			rec := do(t, srv.Handler(), http.MethodPost, "/verify", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
			if decodeError(t, rec).Error == "" {
				t.Error("Expected an error message")
			}
			if checker.checks.Load() != 0 {
				t.Error("Expected the pipeline not to run")
			}
		})
	}
}

func TestVerify_PipelineFailure(t *testing.T) {
	checker := &fakeChecker{err: fmt.Errorf("normalize: %w", extract.ErrInvalidText)}
	srv, c := newTestServer(t, checker)

	rec := do(t, srv.Handler(), http.MethodPost, "/verify", `{"text":"Paris est la capitale de la France."}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error == "" || !strings.Contains(resp.Message, "UTF-8") {
		t.Errorf("Expected error and message, got %+v", resp)
	}
	if c.Len() != 0 {
		t.Error("Expected failures not to be cached")
	}
}

func TestVerify_NonStringText(t *testing.T) {
	for _, body := range []string{`{"text":123}`, `{"text":["Paris est la capitale"]}`} {
		checker := &fakeChecker{}
		srv, c := newTestServer(t, checker)

		rec := do(t, srv.Handler(), http.MethodPost, "/verify", body)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected 500, got %d", body, rec.Code)
		}
		resp := decodeError(t, rec)
		if resp.Error == "" || resp.Message == "" {
			t.Errorf("%s: expected error and message, got %+v", body, resp)
		}
		if checker.checks.Load() != 0 {
			t.Errorf("%s: expected the pipeline not to run", body)
		}
		if c.Len() != 0 {
			t.Errorf("%s: expected nothing cached", body)
		}
	}
}

func TestSearch(t *testing.T) {
	checker := &fakeChecker{}
	srv, _ := newTestServer(t, checker)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/search?source=wikidata&query=Marie+Curie", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var items []model.EvidenceItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("Expected item array, got %v", err)
	}
	if len(items) != 1 || items[0].Title != "Wikidata: Marie Curie" {
		t.Errorf("Unexpected items: %+v", items)
	}

	do(t, h, http.MethodGet, "/api/search?source=wikidata&query=Marie+Curie", "")
	if checker.searches.Load() != 1 {
		t.Errorf("Expected repeated search to hit the cache, got %d searches", checker.searches.Load())
	}

	for _, target := range []string{"/api/search?source=wikidata", "/api/search?query=x", "/api/search?source=bing&query=x"} {
		if rec := do(t, h, http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestProxy(t *testing.T) {
	proxy := &fakeProxy{}
	srv, _ := newTestServer(t, &fakeChecker{}, WithProxy(proxy))
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/proxy?url=https://api.example.org/data.json", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("Expected proxied JSON, got %d %q", rec.Code, rec.Body.String())
	}
	do(t, h, http.MethodGet, "/api/proxy?url=https://api.example.org/data.json", "")
	if proxy.calls.Load() != 1 {
		t.Errorf("Expected repeated proxy request to hit the cache, got %d fetches", proxy.calls.Load())
	}

	tests := []struct {
		target string
		status int
	}{
		{"/api/proxy", http.StatusBadRequest},
		{"/api/proxy?url=https://api.example.org/private/x.json", http.StatusForbidden},
		{"/api/proxy?url=https://down.example.org/x.json", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodGet, tt.target, "")
		if rec.Code != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.target, tt.status, rec.Code)
		}
	}

	if rec := do(t, h, http.MethodGet, "/api/proxy?url=https://down.example.org/x.json", ""); decodeError(t, rec).Error != "Proxy failed" {
		t.Errorf("Expected Proxy failed error, got %q", rec.Body.String())
	}
}

func TestProxy_Disabled(t *testing.T) {
	srv := New(&fakeChecker{})

	rec := do(t, srv.Handler(), http.MethodGet, "/api/proxy?url=https://api.example.org/x.json", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a proxy, got %d", rec.Code)
	}
}

func TestStatsAndHealth(t *testing.T) {
	srv, c := newTestServer(t, &fakeChecker{})
	_ = c.Set("k", []byte("v"), 0)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/stats", "")
	var stats statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Expected stats JSON, got %v", err)
	}
	if stats.CacheSize != 1 {
		t.Errorf("Expected cache size 1, got %d", stats.CacheSize)
	}
	if stats.Memory.Sys == 0 || stats.Timestamp == 0 {
		t.Errorf("Expected memory and timestamp to be filled, got %+v", stats)
	}

	rec = do(t, h, http.MethodGet, "/health", "")
	var health map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("Expected health JSON, got %v", err)
	}
	if health["status"] != "OK" {
		t.Errorf("Expected status OK, got %v", health["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ObserveVerify(false)
	srv, _ := newTestServer(t, &fakeChecker{}, WithMetrics(m, reg))

	rec := do(t, srv.Handler(), http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), "factcheck_verify_requests_total") {
		t.Errorf("Expected factcheck metrics, got:\n%s", rec.Body.String())
	}

	plain, _ := newTestServer(t, &fakeChecker{})
	if rec := do(t, plain.Handler(), http.MethodGet, "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected /metrics to be unmounted without a gatherer, got %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	srv, _ := newTestServer(t, &fakeChecker{})
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("Expected caller's request id to be echoed, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	origins := []string{"chrome-extension://*", "https://*.netlify.app", "http://localhost:3000"}
	srv, _ := newTestServer(t, &fakeChecker{}, WithAllowedOrigins(origins))
	h := srv.Handler()

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"chrome-extension://abcdefghijklmnop", true},
		{"https://factcheck.netlify.app", true},
		{"http://localhost:3000", true},
		{"https://evil.example.com", false},
		{"http://factcheck.netlify.app", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/verify", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("%s: expected 204 preflight, got %d", tt.origin, rec.Code)
		}
		got := rec.Header().Get("Access-Control-Allow-Origin") == tt.origin
		if got != tt.allowed {
			t.Errorf("%s: expected allowed=%v", tt.origin, tt.allowed)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin echoed on simple request, got %q", got)
	}
	exposed := rec.Header().Get("Access-Control-Expose-Headers")
	if !strings.EqualFold(exposed, RequestIDHeader) {
		t.Errorf("Expected %s exposed, got %q", RequestIDHeader, exposed)
	}
}
