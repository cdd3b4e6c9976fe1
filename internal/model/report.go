package model

// VerificationResult is the complete fact-check verdict for one input text
type VerificationResult struct {
	OverallConfidence float64         `json:"overallConfidence"`
	Sources           []EvidenceItem  `json:"sources"` // Ranked, deduplicated, at most 10
	Claims            []ClaimVerdict  `json:"claims"`
	ScoringDetails    ScoringDetails  `json:"scoringDetails"`
	ContentAnalysis   ContentAnalysis `json:"contentAnalysis"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional summary (separate, never affects score)
}

// ConfidenceReport is the overall scoring output of the confidence engine
type ConfidenceReport struct {
	FinalScore      float64         `json:"finalScore"`
	Details         ScoringDetails  `json:"details"`
	ContentAnalysis ContentAnalysis `json:"contentAnalysis"`
}

// ScoringDetails exposes every term of the overall score on the 0-100 scale
type ScoringDetails struct {
	BaseScore       int             `json:"baseScore"`
	SourceScore     int             `json:"sourceScore"`
	QualityBonus    int             `json:"qualityBonus"`
	Penalties       int             `json:"penalties"`
	RawScore        int             `json:"rawScore"`
	FinalPercentage int             `json:"finalPercentage"`
	SourceBreakdown SourceBreakdown `json:"sourceBreakdown"`
}

// SourceBreakdown counts ranked sources per category
type SourceBreakdown struct {
	Encyclopedia int `json:"encyclopedia"`
	Database     int `json:"database"`
	Academic     int `json:"academic"`
	Archive      int `json:"archive"`
	SearchEngine int `json:"searchEngine"`
	Reference    int `json:"reference"`
	Total        int `json:"total"`
}

// Count returns the number of sources recorded for a category
func (b SourceBreakdown) Count(c SourceCategory) int {
	switch c {
	case CategoryEncyclopedia:
		return b.Encyclopedia
	case CategoryDatabase:
		return b.Database
	case CategoryAcademic:
		return b.Academic
	case CategoryArchive:
		return b.Archive
	case CategorySearchEngine:
		return b.SearchEngine
	case CategoryReference:
		return b.Reference
	default:
		return 0
	}
}

// ContentType is the reporting label for the linguistic nature of the text
type ContentType string

const (
	ContentOpinion    ContentType = "OPINION"
	ContentSubjective ContentType = "SUBJECTIF"
	ContentFactual    ContentType = "FACTUEL"
)

// ContentAnalysis records which linguistic heuristics fired on the text
type ContentAnalysis struct {
	IsOpinion     bool        `json:"isOpinion"`
	IsSubjective  bool        `json:"isSubjective"`
	IsComparative bool        `json:"isComparative"`
	IsSpeculative bool        `json:"isSpeculative"`
	ContentType   ContentType `json:"contentType"`
}

// LLMSummary contains the optional LLM-generated summary
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"` // e.g. URLs cited outside the source list
}
