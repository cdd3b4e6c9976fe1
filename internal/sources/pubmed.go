package sources

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

const (
	PubMedName = "pubmed"

	pubMedBaseURL     = "https://eutils.ncbi.nlm.nih.gov"
	pubMedSearchURL   = "https://pubmed.ncbi.nlm.nih.gov/?term="
	pubMedReliability = 0.92
	pubMedMaxResults  = 3
)

// scientificTerms gates the academic search; claims without scientific or
// medical vocabulary never reach PubMed
var scientificTerms = regexp.MustCompile(`(?i)\b(maladie|virus|traitement|médical|recherche|étude|scientifique|découverte|cancer|vaccin|radioactivité|curie|becquerel)\b`)

// PubMed counts biomedical publications matching the claim
type PubMed struct {
	client *Client
	opts   options
}

// NewPubMed creates a PubMed provider
func NewPubMed(client *Client, opts ...Option) *PubMed {
	return &PubMed{
		client: client,
		opts:   buildOptions(pubMedBaseURL, SlowTimeout, opts),
	}
}

func (p *PubMed) Name() string { return PubMedName }

type pubMedResponse struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search returns a single item summarizing the match count
func (p *PubMed) Search(ctx context.Context, claim string) []model.EvidenceItem {
	if !scientificTerms.MatchString(claim) {
		return nil
	}

	searchURL := fmt.Sprintf("%s/entrez/eutils/esearch.fcgi?db=pubmed&term=%s&retmode=json&retmax=%d",
		p.opts.baseURL, escapeComponent(claim), pubMedMaxResults)

	var resp pubMedResponse
	if err := p.client.GetJSON(ctx, p.opts.timeout, searchURL, &resp); err != nil {
		p.client.warn(PubMedName, claim, err)
		return nil
	}

	if len(resp.ESearchResult.IDList) == 0 {
		return nil
	}

	firstWord, _, _ := strings.Cut(claim, " ")

	return []model.EvidenceItem{{
		Title:          "PubMed: Recherches scientifiques sur " + firstWord,
		URL:            pubMedSearchURL + escapeComponent(claim),
		Snippet:        fmt.Sprintf("Base de données de %s publications scientifiques médicales - Source officielle NCBI/NIH.", resp.ESearchResult.Count),
		Reliability:    pubMedReliability,
		SourceCategory: model.CategoryAcademic,
		IsOfficialData: true,
	}}
}
