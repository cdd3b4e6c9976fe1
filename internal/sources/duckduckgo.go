package sources

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/model"
)

const (
	DuckDuckGoName = "duckduckgo"

	duckDuckGoBaseURL     = "https://api.duckduckgo.com"
	duckDuckGoFallbackURL = "https://duckduckgo.com/"
	duckDuckGoReliability = 0.75

	duckDuckGoMinAbstract    = 50
	duckDuckGoSnippetLength  = 200
	duckDuckGoDefaultHeading = "Résultat instantané"
)

// DuckDuckGo queries the instant-answer API
type DuckDuckGo struct {
	client *Client
	opts   options
}

// NewDuckDuckGo creates a DuckDuckGo instant-answer provider
func NewDuckDuckGo(client *Client, opts ...Option) *DuckDuckGo {
	return &DuckDuckGo{
		client: client,
		opts:   buildOptions(duckDuckGoBaseURL, FastTimeout, opts),
	}
}

func (d *DuckDuckGo) Name() string { return DuckDuckGoName }

type duckDuckGoResponse struct {
	Abstract    string `json:"Abstract"`
	Heading     string `json:"Heading"`
	AbstractURL string `json:"AbstractURL"`
}

// Search returns at most one item, and only when an abstract exists
func (d *DuckDuckGo) Search(ctx context.Context, claim string) []model.EvidenceItem {
	keywords := extract.Query(claim)
	if keywords == "" {
		return nil
	}

	searchURL := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1",
		d.opts.baseURL, escapeComponent(keywords))

	var resp duckDuckGoResponse
	if err := d.client.GetJSON(ctx, d.opts.timeout, searchURL, &resp); err != nil {
		d.client.warn(DuckDuckGoName, keywords, err)
		return nil
	}

	if utf8.RuneCountInString(resp.Abstract) <= duckDuckGoMinAbstract {
		return nil
	}

	heading := resp.Heading
	if heading == "" {
		heading = duckDuckGoDefaultHeading
	}
	link := resp.AbstractURL
	if link == "" {
		link = duckDuckGoFallbackURL
	}

	return []model.EvidenceItem{{
		Title:          "DuckDuckGo: " + heading,
		URL:            link,
		Snippet:        ellipsis(resp.Abstract, duckDuckGoSnippetLength),
		Reliability:    duckDuckGoReliability,
		SourceCategory: model.CategorySearchEngine,
	}}
}
