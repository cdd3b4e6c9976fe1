package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/pipeline"
	"github.com/ppiankov/factcheck/internal/server"
	"github.com/ppiankov/factcheck/internal/util"
)

const shutdownTimeout = 15 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fact-check HTTP API",
	Long: `Serve exposes the pipeline over HTTP:

  POST /verify          {"text": "..."}  full fact-check
  GET  /api/search      ?source=&query=  single knowledge base
  GET  /api/proxy       ?url=            JSON proxy honoring robots.txt
  GET  /api/stats                        cache size, uptime, memory
  GET  /health
  GET  /metrics                          Prometheus metrics

Example:
  factcheck serve
  factcheck serve --addr :8080 --cache-path ~/.factcheck/cache.db`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	serveCmd.Flags().String("cache-path", "", "SQLite file backing the result cache (default: memory only)")
	serveCmd.Flags().Bool("no-cache", false, "disable the result cache")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("cache.path", serveCmd.Flags().Lookup("cache-path"))
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	cfg := a.cfg

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	robots := util.NewRobotsChecker(pipeline.ProxyUserAgent, pipeline.ProxyTimeout, util.DefaultRobotsTTL)
	fetcher := pipeline.NewFetcher(pipeline.ProxyTimeout, pipeline.ProxyUserAgent, 0, robots, a.limiter)

	opts := []server.Option{
		server.WithProxy(fetcher),
		server.WithMetrics(a.metrics, a.registry),
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins),
		server.WithLogger(a.logger),
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if cfg.Cache.Enabled && !noCache {
		c, err := cache.New(cfg.Cache)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer func() { _ = c.Close() }()

		go cache.RunJanitor(ctx, c, cfg.Cache.SweepInterval, func(err error) {
			a.logger.Warn("cache sweep failed", zap.Error(err))
		})
		opts = append(opts, server.WithCache(c, cfg.Cache.TTL))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(a.pipeline, opts...).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("fact-checker listening",
			zap.String("addr", cfg.Server.Addr),
			zap.Strings("sources", a.pipeline.Sources()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
