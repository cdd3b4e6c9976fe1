package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/logging"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/pipeline"
	"github.com/ppiankov/factcheck/internal/sources"
	"github.com/ppiankov/factcheck/internal/worker"
)

// app bundles the components every command builds from the configuration
type app struct {
	cfg      *model.Config
	logger   *zap.Logger
	limiter  *worker.Limiter
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	pipeline *pipeline.Pipeline
}

// newApp loads the configuration and wires the pipeline
func newApp() (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	limiter := worker.NewLimiter(cfg.Providers.RateLimit.RequestsPerSecond, cfg.Providers.RateLimit.BurstSize)
	client := sources.NewClient(cfg.Providers, limiter, logger)
	providers, err := sources.NewDefaultRegistry(client, cfg.Providers)
	if err != nil {
		return nil, fmt.Errorf("providers: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	if summarizer.IsEnabled() {
		logger.Info("LLM summaries enabled", zap.String("provider", summarizer.ProviderName()))
	}

	p := pipeline.NewPipeline(providers,
		pipeline.WithSummarizer(summarizer),
		pipeline.WithMetrics(m),
		pipeline.WithLogger(logger),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		limiter:  limiter,
		registry: registry,
		metrics:  m,
		pipeline: p,
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
