package model

// SourceCategory classifies the knowledge base an evidence item came from
type SourceCategory string

const (
	CategoryEncyclopedia SourceCategory = "encyclopedia"
	CategoryDatabase     SourceCategory = "database"
	CategorySearchEngine SourceCategory = "search_engine"
	CategoryArchive      SourceCategory = "archive"
	CategoryAcademic     SourceCategory = "academic"
	CategoryReference    SourceCategory = "reference"
)

// Categories lists every source category in reporting order
var Categories = []SourceCategory{
	CategoryEncyclopedia,
	CategoryDatabase,
	CategorySearchEngine,
	CategoryArchive,
	CategoryAcademic,
	CategoryReference,
}

// Valid reports whether c is one of the known categories
func (c SourceCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// EvidenceItem is a titled, URL-addressed snippet returned by a source provider
type EvidenceItem struct {
	Title            string         `json:"title"`
	URL              string         `json:"url"`
	Snippet          string         `json:"snippet"`
	Reliability      float64        `json:"reliability"` // Fixed per provider, in [0,1]
	SourceCategory   SourceCategory `json:"sourceCategory"`
	RelevanceScore   *float64       `json:"relevanceScore,omitempty"` // Attached by the aggregator
	IsOfficialData   bool           `json:"isOfficialData,omitempty"`
	IsStructuredData bool           `json:"isStructuredData,omitempty"`
}

// Relevance returns the attached relevance score, or 0 when none was attached
func (e EvidenceItem) Relevance() float64 {
	if e.RelevanceScore == nil {
		return 0
	}
	return *e.RelevanceScore
}

// Text returns the text used to measure relevance against a claim
func (e EvidenceItem) Text() string {
	return e.Title + " " + e.Snippet
}
