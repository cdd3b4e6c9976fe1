package score

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/factcheck/internal/extract"
)

const (
	// strongMatchBonus is added when a matched keyword is longer than strongMatchLength
	strongMatchBonus  = 0.2
	strongMatchLength = 4
)

// Relevance measures how well sourceText supports claim as the fraction of
// the claim's keywords found in it (case-insensitive substring match), plus a
// flat bonus when a long keyword matched. The result is in [0, 1].
func Relevance(claim, sourceText string) float64 {
	keywords := extract.Keywords(claim)
	if len(keywords) == 0 {
		return 0
	}

	source := strings.ToLower(sourceText)
	matches := 0
	strong := false

	for _, keyword := range keywords {
		if !strings.Contains(source, strings.ToLower(keyword)) {
			continue
		}
		matches++
		if utf8.RuneCountInString(keyword) > strongMatchLength {
			strong = true
		}
	}

	relevance := float64(matches) / float64(len(keywords))
	if strong {
		relevance += strongMatchBonus
	}
	if relevance > 1.0 {
		relevance = 1.0
	}
	return relevance
}
