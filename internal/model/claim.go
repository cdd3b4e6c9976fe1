package model

// Claim represents a candidate factual statement extracted from the input text
type Claim struct {
	Text string `json:"text"`
}

// ClaimStatus is the verdict label derived from a claim's confidence
type ClaimStatus string

const (
	StatusVerified          ClaimStatus = "verified"
	StatusPartiallyVerified ClaimStatus = "partially_verified"
	StatusUncertain         ClaimStatus = "uncertain"
	StatusDisputed          ClaimStatus = "disputed"
)

// ClaimVerdict is the per-claim evaluation against the ranked sources
type ClaimVerdict struct {
	Text            string      `json:"text"`
	Confidence      float64     `json:"confidence"` // Clamped to [0.20, 0.90]
	Status          ClaimStatus `json:"status"`
	RelevantSources int         `json:"relevantSources"` // Sources with relevance > 0.2 to this claim
}
