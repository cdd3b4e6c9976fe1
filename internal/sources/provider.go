// Package sources queries public knowledge bases for evidence.
//
// Every provider satisfies the same contract: given a query it returns a
// possibly empty list of evidence items within its own timeout. Network
// errors, non-2xx responses and malformed payloads are logged and turned
// into an empty result; they never reach the caller.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/util"
)

const (
	// FastTimeout bounds lookups against quick APIs
	FastTimeout = 5 * time.Second

	// SlowTimeout bounds searches against slower archives
	SlowTimeout = 8 * time.Second

	maxBodyBytes = 2 << 20
)

// Provider is a knowledge base that can be searched for evidence
type Provider interface {
	// Name returns the provider name used in configuration and the search API
	Name() string

	// Search returns evidence for query; it never fails
	Search(ctx context.Context, query string) []model.EvidenceItem
}

// Limiter paces outbound requests per host
type Limiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// Client performs the JSON requests shared by all providers
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    Limiter
	logger     *zap.Logger
}

// NewClient creates a client for the given provider configuration. The
// limiter may be nil.
func NewClient(cfg model.ProvidersConfig, limiter Limiter, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
				MaxIdleConnsPerHost: 16,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		limiter:   limiter,
		logger:    logger,
	}
}

// GetJSON fetches rawURL within timeout and decodes the JSON body into v
func (c *Client) GetJSON(ctx context.Context, timeout time.Duration, rawURL string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, rawURL); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// warn records an absorbed provider failure
func (c *Client) warn(provider, query string, err error) {
	c.logger.Warn("provider search failed",
		zap.String("provider", provider),
		zap.String("query", query),
		zap.Error(err),
	)
}

// Option customizes a provider
type Option func(*options)

type options struct {
	baseURL string
	timeout time.Duration
}

// WithBaseURL points a provider at a different API root. For Wikipedia the
// root may contain a "{lang}" placeholder.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithTimeout overrides a provider's fixed timeout
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

func buildOptions(baseURL string, timeout time.Duration, opts []Option) options {
	o := options{baseURL: baseURL, timeout: timeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
