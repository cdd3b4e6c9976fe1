package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/score"
	"github.com/ppiankov/factcheck/internal/sources"
)

// Aggregator fans every claim out to every provider and merges the results
type Aggregator struct {
	registry *sources.Registry
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewAggregator creates an aggregator over the registered providers
func NewAggregator(registry *sources.Registry, m *metrics.Metrics, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{registry: registry, metrics: m, logger: logger}
}

// Collect issues one call per (claim, provider) pair concurrently and waits
// for all of them. Each item carries its relevance to the claim that found
// it. Items are returned grouped by claim, then by provider registration
// order, whatever order the calls complete in.
//
// Calls are detached from ctx cancellation: once dispatched they run to
// their provider's own timeout.
func (a *Aggregator) Collect(ctx context.Context, claims []model.Claim) []model.EvidenceItem {
	providers := a.registry.Providers()
	if len(claims) == 0 || len(providers) == 0 {
		return []model.EvidenceItem{}
	}

	ctx = context.WithoutCancel(ctx)
	slots := make([][]model.EvidenceItem, len(claims)*len(providers))

	var g errgroup.Group
	for i, claim := range claims {
		for j, provider := range providers {
			slot := i*len(providers) + j
			g.Go(func() error {
				slots[slot] = a.search(ctx, provider, claim.Text)
				return nil
			})
		}
	}
	_ = g.Wait()

	items := []model.EvidenceItem{}
	for _, found := range slots {
		items = append(items, found...)
	}
	return items
}

// search runs one provider call, absorbing panics as empty results
func (a *Aggregator) search(ctx context.Context, provider sources.Provider, claim string) (items []model.EvidenceItem) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("provider panicked",
				zap.String("provider", provider.Name()),
				zap.Any("panic", r),
			)
			items = nil
		}
		a.metrics.ObserveProvider(provider.Name(), len(items), time.Since(start))
	}()

	found := provider.Search(ctx, claim)
	items = make([]model.EvidenceItem, 0, len(found))
	for _, item := range found {
		if !item.SourceCategory.Valid() || item.Reliability < 0 || item.Reliability > 1 {
			a.logger.Warn("dropping malformed evidence item",
				zap.String("provider", provider.Name()),
				zap.String("url", item.URL),
				zap.String("category", string(item.SourceCategory)),
				zap.Float64("reliability", item.Reliability),
			)
			continue
		}
		relevance := score.Relevance(claim, item.Text())
		item.RelevanceScore = &relevance
		items = append(items, item)
	}

	a.logger.Debug("provider searched",
		zap.String("provider", provider.Name()),
		zap.Int("items", len(items)),
		zap.Duration("duration", time.Since(start)),
	)
	return items
}
