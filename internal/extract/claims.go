package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/factcheck/internal/model"
)

const (
	// DefaultMaxClaims is the number of claims kept per request
	DefaultMaxClaims = 3

	// MinClaimLength is the exclusive lower bound on a claim's trimmed length
	MinClaimLength = 25
)

var sentenceTerminators = regexp.MustCompile(`[.!?]+`)

// ClaimExtractor splits normalized text into candidate factual claims
type ClaimExtractor struct {
	maxClaims int
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		maxClaims: DefaultMaxClaims,
	}
}

// Extract returns the first sentence fragments longer than MinClaimLength
// characters, in their original order. It never fails; short or unpunctuated
// text may yield no claims.
func (e *ClaimExtractor) Extract(text string) []model.Claim {
	var claims []model.Claim

	for _, fragment := range sentenceTerminators.Split(text, -1) {
		fragment = strings.TrimSpace(fragment)
		if utf8.RuneCountInString(fragment) <= MinClaimLength {
			continue
		}

		claims = append(claims, model.Claim{Text: fragment})
		if len(claims) == e.maxClaims {
			break
		}
	}

	return claims
}
