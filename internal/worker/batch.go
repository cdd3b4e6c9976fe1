package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/model"
)

// Checker fact-checks a passage
type Checker interface {
	FactCheck(ctx context.Context, text string) (*model.VerificationResult, error)
}

// BatchResult is the outcome of checking one passage
type BatchResult struct {
	Index    int
	Text     string
	Result   *model.VerificationResult
	Error    error
	Duration time.Duration
}

// BatchProcessor checks many passages concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessPassages checks every passage and returns results in input order
func (b *BatchProcessor) ProcessPassages(ctx context.Context, passages []string) []*BatchResult {
	if len(passages) == 0 {
		return []*BatchResult{}
	}

	pool := NewPool[*BatchResult](ctx, b.concurrency)
	pool.Start()

	for i, text := range passages {
		pool.Submit(func(ctx context.Context) *BatchResult {
			return b.check(ctx, i, text)
		})
	}

	results := pool.Wait()
	for i, result := range results {
		if result == nil {
			results[i] = &BatchResult{Index: i, Text: passages[i], Error: fmt.Errorf("not processed: %w", context.Cause(ctx))}
		}
	}
	return results
}

func (b *BatchProcessor) check(ctx context.Context, index int, text string) *BatchResult {
	start := time.Now()
	result, err := b.checker.FactCheck(ctx, text)
	elapsed := time.Since(start)

	if err != nil {
		b.logger.Warn("passage check failed", zap.Int("index", index), zap.Error(err))
	} else {
		b.logger.Debug("passage checked",
			zap.Int("index", index),
			zap.Float64("confidence", result.OverallConfidence),
			zap.Duration("duration", elapsed),
		)
	}

	return &BatchResult{
		Index:    index,
		Text:     text,
		Result:   result,
		Error:    err,
		Duration: elapsed,
	}
}

// ProcessFile reads passages from a file and checks them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*BatchResult, error) {
	passages, err := ReadPassagesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read passages: %w", err)
	}

	return b.ProcessPassages(ctx, passages), nil
}

// ReadPassagesFromFile reads passages from a file, one per line. Empty
// lines, "#" comments and repeated passages are skipped.
func ReadPassagesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var passages []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			passages = append(passages, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return passages, nil
}
