package sources

import (
	"context"
	"fmt"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/model"
)

const (
	WikidataName = "wikidata"

	wikidataBaseURL     = "https://www.wikidata.org"
	wikidataEntityURL   = "https://www.wikidata.org/wiki/"
	wikidataReliability = 0.85
	wikidataLimit       = 3

	wikidataDefaultDescription = "Entité Wikidata structurée"
	wikidataSnippetSuffix      = " - Données factuelles vérifiables."
)

// Wikidata looks up structured entities matching the claim keywords
type Wikidata struct {
	client   *Client
	language string
	opts     options
}

// NewWikidata creates a Wikidata provider searching labels in language
func NewWikidata(client *Client, language string, opts ...Option) *Wikidata {
	return &Wikidata{
		client:   client,
		language: language,
		opts:     buildOptions(wikidataBaseURL, FastTimeout, opts),
	}
}

func (w *Wikidata) Name() string { return WikidataName }

type wikidataResponse struct {
	Search []struct {
		ID          string `json:"id"`
		Label       string `json:"label"`
		Description string `json:"description"`
	} `json:"search"`
}

func (w *Wikidata) Search(ctx context.Context, claim string) []model.EvidenceItem {
	keywords := extract.Query(claim)
	if keywords == "" {
		return nil
	}

	searchURL := fmt.Sprintf("%s/w/api.php?action=wbsearchentities&search=%s&language=%s&format=json&origin=*&limit=%d",
		w.opts.baseURL, escapeComponent(keywords), escapeComponent(w.language), wikidataLimit)

	var resp wikidataResponse
	if err := w.client.GetJSON(ctx, w.opts.timeout, searchURL, &resp); err != nil {
		w.client.warn(WikidataName, keywords, err)
		return nil
	}

	items := make([]model.EvidenceItem, 0, len(resp.Search))
	for _, entity := range resp.Search {
		description := entity.Description
		if description == "" {
			description = wikidataDefaultDescription
		}
		items = append(items, model.EvidenceItem{
			Title:            "Wikidata: " + entity.Label,
			URL:              wikidataEntityURL + entity.ID,
			Snippet:          description + wikidataSnippetSuffix,
			Reliability:      wikidataReliability,
			SourceCategory:   model.CategoryDatabase,
			IsStructuredData: true,
		})
	}
	return items
}
