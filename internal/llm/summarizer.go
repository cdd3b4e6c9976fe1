package llm

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// Summarizer attaches an optional LLM summary to verification results. It
// runs after scoring and never changes a score.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer. A disabled configuration yields a
// summarizer whose GenerateSummary returns nil.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the configured provider name, or ""
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary summarizes result. Citations outside the ranked source
// URLs are kept in the text but reported as warnings.
func (s *Summarizer) GenerateSummary(ctx context.Context, text string, result model.VerificationResult) (*model.LLMSummary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	evidenceURLs := make([]string, 0, len(result.Sources))
	for _, source := range result.Sources {
		if source.URL != "" {
			evidenceURLs = append(evidenceURLs, source.URL)
		}
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Text:         text,
		Result:       result,
		EvidenceURLs: evidenceURLs,
		Model:        s.config.Model,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	summary := &model.LLMSummary{
		Enabled:   true,
		Provider:  s.provider.Name(),
		Model:     resp.Model,
		SummaryMD: resp.Summary,
	}
	for _, cited := range resp.CitedURLs {
		if !slices.Contains(evidenceURLs, cited) {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("cited URL outside the source list: %s", cited))
		}
	}
	if len(evidenceURLs) == 0 {
		summary.Warnings = append(summary.Warnings, "no sources were found; the summary has no evidence to cite")
	}

	return summary, nil
}

// RenderMarkdown renders a summary as a standalone Markdown section
func RenderMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "_Generated by %s", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, " (%s)", summary.Model)
	}
	b.WriteString(". The summary does not affect any score._\n\n")
	b.WriteString(summary.SummaryMD)
	b.WriteString("\n")

	if len(summary.Warnings) > 0 {
		b.WriteString("\n**Warnings:**\n\n")
		for _, warning := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}
	return b.String()
}
