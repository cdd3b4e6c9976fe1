package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factcheck/internal/pipeline"
	"github.com/ppiankov/factcheck/internal/worker"
)

var batchTimeout time.Duration

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Fact-check many passages from a file in parallel",
	Long: `Batch fact-checks every passage in a file:
- Read passages from the input file (one per line, # for comments)
- Check passages in parallel with a configurable worker count
- Write a JSON and a Markdown report per passage

Example:
  factcheck batch passages.txt
  factcheck batch passages.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", 0, "number of concurrent workers (default 4)")
	batchCmd.Flags().String("output-dir", "", "output directory for reports (default ./factcheck-reports)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	_ = viper.BindPFlag("batch.concurrency", batchCmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("batch.output_dir", batchCmd.Flags().Lookup("output-dir"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	cfg := a.cfg

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  FactCheck Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Batch.Concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Batch.OutputDir)
	fmt.Fprintf(os.Stderr, "  Sources:      %s\n", strings.Join(a.pipeline.Sources(), ", "))
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(cfg.Batch.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(a.pipeline, cfg.Batch.Concurrency, a.logger)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(!noFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		label := passageLabel(result.Text)
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", label, result.Error)
			continue
		}

		base := filepath.Join(cfg.Batch.OutputDir, reportName(result.Index, result.Text))
		if err := renderer.RenderJSON(result.Result, base+".json"); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", label, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Text, result.Result, base+".md"); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", label, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (confidence: %d%%, %v)\n",
			label, result.Result.ScoringDetails.FinalPercentage, result.Duration.Round(time.Millisecond))
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d passages\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", cfg.Batch.OutputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// reportName builds a stable file stem for a passage: its position, a slug
// of its first words and a short hash of the full text
func reportName(index int, text string) string {
	hash := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%03d-%s-%s", index+1, slugify(text, 40), hex.EncodeToString(hash[:4]))
}

// slugify keeps letters and digits, joins words with "-" and stops at limit runes
func slugify(s string, limit int) string {
	var b strings.Builder
	dash := false
	n := 0
	for _, r := range strings.ToLower(s) {
		if n >= limit {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			n++
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
			n++
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return "passage"
	}
	return slug
}

func passageLabel(text string) string {
	const limit = 60
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
