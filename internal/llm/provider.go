package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a summary of a verification result
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Text is the normalized passage that was checked
	Text string

	// Result is the scored verification result to summarize
	Result model.VerificationResult

	// EvidenceURLs is the allow-list of URLs the summary may cite
	EvidenceURLs []string

	// Prompt overrides the default prompt when set
	Prompt string

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	Summary    string
	CitedURLs  []string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai" or "" for disabled
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	// Timeout for API requests in seconds
	Timeout int

	MaxTokens int
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:  modelConfig.Provider,
		Model:     modelConfig.Model,
		APIKey:    modelConfig.APIKey,
		BaseURL:   modelConfig.BaseURL,
		Timeout:   modelConfig.Timeout,
		MaxTokens: modelConfig.MaxTokens,
	}
}

// NewProvider creates a provider from configuration. It returns nil when
// no provider is configured.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

const maxPromptURLs = 20

// BuildPrompt constructs the default summarization prompt. The model is
// told to describe evidence coverage only and to cite nothing outside the
// ranked sources.
func BuildPrompt(text string, result model.VerificationResult, evidenceURLs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are summarizing an automated fact-check. The score measures how much independent evidence was found for the passage; it does not prove the passage true or false.

RULES:
1. You MUST ONLY cite URLs from this allowed list:
%s

2. Do not cite or infer from any other source.
3. If evidence is thin, say so explicitly.
4. Never state that the passage is true or false.

Passage:
%q

Result:
- Overall confidence: %.0f%%
- Content type: %s
- Sources found: %d
`, joinURLs(evidenceURLs), text, result.OverallConfidence*100, result.ContentAnalysis.ContentType, len(result.Sources))

	if len(result.Claims) > 0 {
		b.WriteString("\nClaims:\n")
		for _, claim := range result.Claims {
			fmt.Fprintf(&b, "- %q: %s (%.0f%%, %d relevant sources)\n", claim.Text, claim.Status, claim.Confidence*100, claim.RelevantSources)
		}
	}

	b.WriteString("\nProvide a 3-4 sentence summary of the evidence coverage.")
	return b.String()
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(No evidence URLs available)"
	}

	var b strings.Builder
	for i, url := range urls {
		if i >= maxPromptURLs {
			fmt.Fprintf(&b, "\n... and %d more URLs", len(urls)-maxPromptURLs)
			break
		}
		fmt.Fprintf(&b, "\n- %s", url)
	}
	return b.String()
}
