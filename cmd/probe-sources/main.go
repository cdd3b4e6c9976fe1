// Probe program that runs one claim through every knowledge base and shows
// what each returns and how relevant it is, before ranking or scoring
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/logging"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/score"
	"github.com/ppiankov/factcheck/internal/sources"
	"github.com/ppiankov/factcheck/internal/worker"
)

func main() {
	claim := "Marie Curie a découvert le radium en 1898"
	if len(os.Args) > 1 {
		claim = strings.Join(os.Args[1:], " ")
	}

	fmt.Println("=== Source Probe ===")
	fmt.Println()
	fmt.Printf("Claim: %s\n\n", claim)

	logger, err := logging.New("warn", "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg := model.DefaultConfig().Providers
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	registry, err := sources.NewDefaultRegistry(sources.NewClient(cfg, limiter, logger), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "registry: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, provider := range registry.Providers() {
		fmt.Printf("%s\n", provider.Name())
		fmt.Println(strings.Repeat("-", 60))

		start := time.Now()
		items := provider.Search(ctx, claim)
		elapsed := time.Since(start).Round(time.Millisecond)

		if len(items) == 0 {
			fmt.Printf("  (no results, %v)\n\n", elapsed)
			continue
		}
		for _, item := range items {
			relevance := score.Relevance(claim, item.Text())
			fmt.Printf("  %s\n", item.Title)
			fmt.Printf("     %s\n", item.URL)
			fmt.Printf("     category=%s reliability=%.2f relevance=%.2f\n", item.SourceCategory, item.Reliability, relevance)
		}
		fmt.Printf("  (%d results, %v)\n\n", len(items), elapsed)
	}

	fmt.Println("Note: relevance above 0.2 counts towards a claim's verdict.")
}
