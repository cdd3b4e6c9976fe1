// Package rank deduplicates evidence and orders it by composite score.
package rank

import (
	"net/url"
	"sort"
	"strings"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/model"
)

const (
	// MaxSources is the maximum number of unique sources kept
	MaxSources = 10

	titleKeyLength     = 30
	fallbackDomainSize = 20
)

// Rank collapses near-duplicate evidence and orders the remainder by
// composite score. The first occurrence of each (domain, title prefix) key
// wins and scanning stops accepting once MaxSources items are kept, so which
// items survive depends only on input order. Ties keep input order.
func Rank(items []model.EvidenceItem) []model.EvidenceItem {
	seen := make(map[string]bool)
	kept := make([]model.EvidenceItem, 0, MaxSources)

	for _, item := range items {
		if len(kept) == MaxSources {
			break
		}
		key := DedupKey(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, item)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return CompositeScore(kept[i]) > CompositeScore(kept[j])
	})

	return kept
}

// DedupKey returns the key under which two items count as duplicates
func DedupKey(item model.EvidenceItem) string {
	return Domain(item.URL) + "-" + extract.Truncate(item.Title, titleKeyLength)
}

// CompositeScore weighs official data, reliability and relevance
func CompositeScore(item model.EvidenceItem) float64 {
	score := 100*item.Reliability + 50*item.Relevance()
	if item.IsOfficialData {
		score += 100
	}
	return score
}

// Domain returns the host of rawURL without a leading "www.". When the URL
// cannot be parsed or has no host, the first 20 characters of the raw string
// are used instead.
func Domain(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return extract.Truncate(rawURL, fallbackDomainSize)
	}

	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}
