package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/model"
)

// Renderer writes verification results as JSON or Markdown
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer; the footer explains what the score means
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// WriteJSON writes result as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, result *model.VerificationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// WriteMarkdown writes a human-readable report for text and its result
func (r *Renderer) WriteMarkdown(w io.Writer, text string, result *model.VerificationResult) error {
	var b strings.Builder

	b.WriteString("# Fact-check report\n\n")
	fmt.Fprintf(&b, "> %s\n\n", text)
	fmt.Fprintf(&b, "**Overall confidence:** %d%% (%s)\n\n",
		result.ScoringDetails.FinalPercentage, result.ContentAnalysis.ContentType)

	b.WriteString("## Claims\n\n")
	if len(result.Claims) == 0 {
		b.WriteString("_No verifiable claims were extracted._\n\n")
	} else {
		b.WriteString("| Claim | Status | Confidence | Relevant sources |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, claim := range result.Claims {
			fmt.Fprintf(&b, "| %s | %s | %.0f%% | %d |\n",
				escapeCell(claim.Text), claim.Status, claim.Confidence*100, claim.RelevantSources)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Sources\n\n")
	if len(result.Sources) == 0 {
		b.WriteString("_No sources found._\n\n")
	} else {
		for i, source := range result.Sources {
			fmt.Fprintf(&b, "%d. [%s](%s) (%s, reliability %.2f", i+1, source.Title, source.URL, source.SourceCategory, source.Reliability)
			if source.RelevanceScore != nil {
				fmt.Fprintf(&b, ", relevance %.2f", *source.RelevanceScore)
			}
			b.WriteString(")\n")
			if source.Snippet != "" {
				fmt.Fprintf(&b, "   %s\n", source.Snippet)
			}
		}
		b.WriteString("\n")
	}

	d := result.ScoringDetails
	b.WriteString("## Scoring\n\n")
	fmt.Fprintf(&b, "- Base: %d\n- Sources: +%d\n- Quality bonus: +%d\n- Penalties: -%d\n- Raw: %d, clamped to %d\n\n",
		d.BaseScore, d.SourceScore, d.QualityBonus, d.Penalties, d.RawScore, d.FinalPercentage)

	if flags := contentFlags(result.ContentAnalysis); len(flags) > 0 {
		fmt.Fprintf(&b, "Content flags: %s\n\n", strings.Join(flags, ", "))
	}

	if summary := llm.RenderMarkdown(result.LLM); summary != "" {
		b.WriteString(summary)
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n_The score reflects how much independent evidence was found, not whether the text is true._\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderJSON writes result to a JSON file at path
func (r *Renderer) RenderJSON(result *model.VerificationResult, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.WriteJSON(w, result)
	})
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(text string, result *model.VerificationResult, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.WriteMarkdown(w, text, result)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func contentFlags(c model.ContentAnalysis) []string {
	var flags []string
	if c.IsOpinion {
		flags = append(flags, "opinion")
	}
	if c.IsSubjective {
		flags = append(flags, "subjective")
	}
	if c.IsComparative {
		flags = append(flags, "comparative")
	}
	if c.IsSpeculative {
		flags = append(flags, "speculative")
	}
	return flags
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
