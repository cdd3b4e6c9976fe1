package score

import (
	"regexp"

	"github.com/ppiankov/factcheck/internal/model"
)

// Detector is a named family of patterns; it fires when any pattern matches
type Detector struct {
	Name     string
	Patterns []*regexp.Regexp
}

// Match reports whether any pattern of the family matches text
func (d Detector) Match(text string) bool {
	for _, pattern := range d.Patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

var (
	// OpinionDetector matches superlatives about the world, value judgements
	// and explicit opinion markers
	OpinionDetector = Detector{
		Name: "opinion",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(meilleur|meilleure|pire|plus beau|plus belle|plus grand|plus petit)\b.*\b(monde|univers|planète|terre)\b`),
			regexp.MustCompile(`(?i)\b(plus.*ville|plus.*pays|plus.*endroit)\b.*\b(monde|univers|planète)\b`),
			regexp.MustCompile(`(?i)\b(préfère|aime mieux|déteste|adore|magnifique|horrible|parfait|nul|génial|fantastique)\b`),
			regexp.MustCompile(`(?i)\b(opinion|goût|point de vue|je pense|à mon avis|selon moi)\b`),
		},
	}

	// SubjectiveDetector matches aesthetic adjectives
	SubjectiveDetector = Detector{
		Name: "subjective",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(beau|belle|laid|joli|superbe|merveilleux|extraordinaire|incroyable|impressionnant|remarquable|exceptionnel)\b`),
		},
	}

	// ComparativeDetector matches comparative constructions
	ComparativeDetector = Detector{
		Name: "comparative",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(plus.*que|moins.*que|meilleur.*que|pire.*que|supérieur|inférieur|comparé|versus|vs)\b`),
		},
	}

	// SpeculativeDetector matches hedging markers
	SpeculativeDetector = Detector{
		Name: "speculative",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(peut-être|probablement|semble|paraît|suppose|présume|vraisemblablement|apparemment|sans doute)\b`),
		},
	}
)

// AnalyzeContent runs every linguistic detector against text. The content
// type is for reporting only: OPINION takes precedence over SUBJECTIF, and
// anything else is FACTUEL.
func AnalyzeContent(text string) model.ContentAnalysis {
	analysis := model.ContentAnalysis{
		IsOpinion:     OpinionDetector.Match(text),
		IsSubjective:  SubjectiveDetector.Match(text),
		IsComparative: ComparativeDetector.Match(text),
		IsSpeculative: SpeculativeDetector.Match(text),
	}

	switch {
	case analysis.IsOpinion:
		analysis.ContentType = model.ContentOpinion
	case analysis.IsSubjective:
		analysis.ContentType = model.ContentSubjective
	default:
		analysis.ContentType = model.ContentFactual
	}

	return analysis
}
