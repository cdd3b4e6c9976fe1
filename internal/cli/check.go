package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factcheck/internal/pipeline"
)

var (
	outJSON      string
	outMD        string
	checkTimeout time.Duration
	noFooter     bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text|-]",
	Short: "Fact-check a passage and print the verdict",
	Long: `Check runs the full pipeline on one passage:
- Split the passage into up to three candidate claims
- Search every enabled knowledge base for every claim
- Deduplicate and rank the evidence
- Score the passage and each claim

The passage is read from the argument, or from stdin when the argument is
"-" or missing. The JSON result goes to stdout unless --json names a file.

Example:
  factcheck check "Marie Curie a découvert le radium en 1898."
  echo "Paris est la capitale de la France." | factcheck check --md report.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", time.Minute, "overall timeout")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runCheck(cmd *cobra.Command, args []string) error {
	text, err := readPassage(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	result, err := a.pipeline.FactCheck(ctx, text)
	if err != nil {
		return fmt.Errorf("fact-check failed: %w", err)
	}

	renderer := pipeline.NewRenderer(!noFooter)
	if outJSON == "" {
		if err := renderer.WriteJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else if err := renderer.RenderJSON(result, outJSON); err != nil {
		return fmt.Errorf("render JSON: %w", err)
	}

	if outMD != "" {
		if err := renderer.RenderMarkdown(text, result, outMD); err != nil {
			return fmt.Errorf("render Markdown: %w", err)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %d claims, %d sources, confidence %d%%\n",
			len(result.Claims), len(result.Sources), result.ScoringDetails.FinalPercentage)
	}
	return nil
}

// readPassage takes the passage from args, or from in for "-" or no args
func readPassage(in io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no text given: pass it as an argument or on stdin")
	}
	return text, nil
}
