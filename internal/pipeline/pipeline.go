package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/rank"
	"github.com/ppiankov/factcheck/internal/score"
	"github.com/ppiankov/factcheck/internal/sources"
)

// ErrUnknownSource is returned when a single-source search names a
// provider that is not registered
var ErrUnknownSource = errors.New("unknown source")

// Pipeline orchestrates the complete fact-check
type Pipeline struct {
	registry       *sources.Registry
	claimExtractor *extract.ClaimExtractor
	aggregator     *Aggregator
	engine         *score.ConfidenceEngine
	summarizer     *llm.Summarizer // Optional, nil if disabled
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithSummarizer attaches an LLM summary to every result
func WithSummarizer(s *llm.Summarizer) Option {
	return func(p *Pipeline) { p.summarizer = s }
}

// WithMetrics records provider and pipeline metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// NewPipeline creates a pipeline over the given providers
func NewPipeline(registry *sources.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:       registry,
		claimExtractor: extract.NewClaimExtractor(),
		engine:         score.NewConfidenceEngine(),
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.aggregator = NewAggregator(registry, p.metrics, p.logger)
	return p
}

// FactCheck runs the full pipeline on text. Provider failures never fail
// the check; sparse evidence shows up as a low score. Only text that
// cannot be normalized returns an error.
func (p *Pipeline) FactCheck(ctx context.Context, text string) (*model.VerificationResult, error) {
	start := time.Now()

	// 1. Normalize
	normalized, err := extract.Normalize(text)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	// 2. Extract claims
	claims := p.claimExtractor.Extract(normalized)

	// 3. Gather evidence for every claim from every provider
	items := p.aggregator.Collect(ctx, claims)

	// 4. Deduplicate and rank
	ranked := rank.Rank(items)

	// 5. Score the whole passage, then each claim against the same sources
	report := p.engine.Calculate(ranked, normalized)
	verdicts := score.EvaluateClaims(claims, ranked)

	result := &model.VerificationResult{
		OverallConfidence: report.FinalScore,
		Sources:           ranked,
		Claims:            verdicts,
		ScoringDetails:    report.Details,
		ContentAnalysis:   report.ContentAnalysis,
	}

	// 6. Optional summary, after scoring so it can never change a score
	if p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, normalized, *result)
		if err != nil {
			p.logger.Warn("LLM summary failed", zap.Error(err))
		} else {
			result.LLM = summary
		}
	}

	elapsed := time.Since(start)
	p.metrics.ObservePipeline(result.OverallConfidence, elapsed)
	p.logger.Info("fact-check complete",
		zap.Int("claims", len(claims)),
		zap.Int("candidates", len(items)),
		zap.Int("sources", len(ranked)),
		zap.Float64("confidence", result.OverallConfidence),
		zap.String("content_type", string(result.ContentAnalysis.ContentType)),
		zap.Duration("duration", elapsed),
	)

	return result, nil
}

// Search queries a single provider by name, as-is
func (p *Pipeline) Search(ctx context.Context, source, query string) ([]model.EvidenceItem, error) {
	provider, ok := p.registry.Get(source)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}

	items := provider.Search(ctx, query)
	if items == nil {
		items = []model.EvidenceItem{}
	}
	return items, nil
}

// Sources returns the registered provider names
func (p *Pipeline) Sources() []string {
	return p.registry.Names()
}
