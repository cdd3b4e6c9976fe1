package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ppiankov/factcheck/internal/util"
	"github.com/ppiankov/factcheck/internal/worker"
)

const (
	// ProxyUserAgent identifies proxied requests to upstream APIs
	ProxyUserAgent = "Fact-Checker-Bot/1.0"

	// ProxyTimeout bounds a proxied request
	ProxyTimeout = 10 * time.Second

	defaultMaxBodyBytes = 5 << 20
	maxCrawlDelay       = 2 * time.Second
)

var (
	// ErrDisallowed is returned when robots.txt forbids fetching a URL
	ErrDisallowed = errors.New("disallowed by robots.txt")

	// ErrUnsupportedURL is returned for URLs that are not absolute http(s)
	ErrUnsupportedURL = errors.New("unsupported URL")
)

// Fetcher retrieves JSON documents on behalf of API clients
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker // Optional
	limiter    *worker.Limiter     // Optional
}

// NewFetcher creates a Fetcher. robots and limiter may be nil.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, robots *util.RobotsChecker, limiter *worker.Limiter) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		robots:    robots,
		limiter:   limiter,
	}
}

// FetchResult contains a fetched JSON document
type FetchResult struct {
	Body        json.RawMessage
	StatusCode  int
	ContentType string
	FinalURL    string
}

// FetchJSON retrieves rawURL and checks that the body is valid JSON
func (f *Fetcher) FetchJSON(ctx context.Context, rawURL string) (*FetchResult, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}

	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("check robots.txt: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
		}
		crawlDelay = min(delay, maxCrawlDelay)
	}

	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("response from %s is not valid JSON", resp.Request.URL.Host)
	}

	return &FetchResult{
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}
