package score

import (
	"github.com/ppiankov/factcheck/internal/model"
)

// Scores are computed in integer percentage points and converted to a
// fraction only at the end.
const (
	baseScore = 30

	minScore = 20
	maxScore = 90

	// claimRelevanceThreshold is the relevance a source needs to count for a claim
	claimRelevanceThreshold = 0.2

	diversityBonus    = 10
	diversityRequired = 3

	opinionPenalty     = 30
	subjectivePenalty  = 20
	comparativePenalty = 15
	speculativePenalty = 10
	noSourcesPenalty   = 25
)

// CategoryWeights is the per-source score contribution of each category
var CategoryWeights = map[model.SourceCategory]int{
	model.CategoryEncyclopedia: 12,
	model.CategoryDatabase:     15,
	model.CategorySearchEngine: 8,
	model.CategoryArchive:      10,
	model.CategoryAcademic:     18,
	model.CategoryReference:    8,
}

// diversityCategories are the categories counted towards the diversity bonus
var diversityCategories = []model.SourceCategory{
	model.CategoryEncyclopedia,
	model.CategoryDatabase,
	model.CategoryAcademic,
	model.CategoryArchive,
}

// tier maps a minimum count to the points it earns; tiers are checked in order
type tier struct {
	min    int
	points int
}

var quantityTiers = []tier{{6, 25}, {4, 20}, {3, 15}, {2, 10}, {1, 5}}

var claimSupportTiers = []tier{{4, 40}, {3, 30}, {2, 20}, {1, 10}}

func tierPoints(tiers []tier, count int) int {
	for _, t := range tiers {
		if count >= t.min {
			return t.points
		}
	}
	return 0
}

// ConfidenceEngine combines evidence quantity and quality with linguistic
// heuristics into a confidence score
type ConfidenceEngine struct{}

// NewConfidenceEngine creates a new confidence engine
func NewConfidenceEngine() *ConfidenceEngine {
	return &ConfidenceEngine{}
}

// Calculate computes the overall confidence report for the ranked sources
// and the text they were gathered for
func (e *ConfidenceEngine) Calculate(sources []model.EvidenceItem, text string) model.ConfidenceReport {
	breakdown := Breakdown(sources)
	content := AnalyzeContent(text)

	sourceScore := 0
	for _, category := range model.Categories {
		sourceScore += CategoryWeights[category] * breakdown.Count(category)
	}

	qualityBonus := tierPoints(quantityTiers, breakdown.Total)
	represented := 0
	for _, category := range diversityCategories {
		if breakdown.Count(category) > 0 {
			represented++
		}
	}
	if represented >= diversityRequired {
		qualityBonus += diversityBonus
	}

	penalties := 0
	if content.IsOpinion {
		penalties += opinionPenalty
	}
	if content.IsSubjective {
		penalties += subjectivePenalty
	}
	if content.IsComparative {
		penalties += comparativePenalty
	}
	if content.IsSpeculative {
		penalties += speculativePenalty
	}
	if breakdown.Total == 0 {
		penalties += noSourcesPenalty
	}

	rawScore := baseScore + sourceScore + qualityBonus - penalties
	final := clamp(rawScore)

	return model.ConfidenceReport{
		FinalScore: toFraction(final),
		Details: model.ScoringDetails{
			BaseScore:       baseScore,
			SourceScore:     sourceScore,
			QualityBonus:    qualityBonus,
			Penalties:       penalties,
			RawScore:        rawScore,
			FinalPercentage: final,
			SourceBreakdown: breakdown,
		},
		ContentAnalysis: content,
	}
}

// Breakdown counts sources per category
func Breakdown(sources []model.EvidenceItem) model.SourceBreakdown {
	var b model.SourceBreakdown
	for _, source := range sources {
		switch source.SourceCategory {
		case model.CategoryEncyclopedia:
			b.Encyclopedia++
		case model.CategoryDatabase:
			b.Database++
		case model.CategoryAcademic:
			b.Academic++
		case model.CategoryArchive:
			b.Archive++
		case model.CategorySearchEngine:
			b.SearchEngine++
		case model.CategoryReference:
			b.Reference++
		}
	}
	b.Total = len(sources)
	return b
}

// EvaluateClaim scores one claim against the ranked sources. Relevance is
// recomputed for this claim's text, since a source ranked for the whole
// request may say nothing about this particular claim.
func EvaluateClaim(claim string, sources []model.EvidenceItem) model.ClaimVerdict {
	relevant := 0
	for _, source := range sources {
		if Relevance(claim, source.Text()) > claimRelevanceThreshold {
			relevant++
		}
	}

	points := baseScore + tierPoints(claimSupportTiers, relevant)

	return model.ClaimVerdict{
		Text:            claim,
		Confidence:      toFraction(clamp(points)),
		Status:          statusFor(points),
		RelevantSources: relevant,
	}
}

// EvaluateClaims scores every claim against the same ranked sources
func EvaluateClaims(claims []model.Claim, sources []model.EvidenceItem) []model.ClaimVerdict {
	verdicts := make([]model.ClaimVerdict, 0, len(claims))
	for _, claim := range claims {
		verdicts = append(verdicts, EvaluateClaim(claim.Text, sources))
	}
	return verdicts
}

func statusFor(points int) model.ClaimStatus {
	switch {
	case points >= 75:
		return model.StatusVerified
	case points >= 55:
		return model.StatusPartiallyVerified
	case points >= 40:
		return model.StatusUncertain
	default:
		return model.StatusDisputed
	}
}

func clamp(points int) int {
	if points < minScore {
		return minScore
	}
	if points > maxScore {
		return maxScore
	}
	return points
}

func toFraction(points int) float64 {
	return float64(points) / 100
}
