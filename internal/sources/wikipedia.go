package sources

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/score"
)

const (
	WikipediaName = "wikipedia"

	wikipediaBaseURL     = "https://{lang}.wikipedia.org"
	wikipediaReliability = 0.82

	wikipediaSearchLimit     = 3
	wikipediaArticlesPerLang = 2
	wikipediaMinExtract      = 50
	wikipediaMinRelevance    = 0.3
	wikipediaSnippetLength   = 200
)

// Wikipedia searches the encyclopedia in each configured language
type Wikipedia struct {
	client    *Client
	languages []string
	opts      options
}

// NewWikipedia creates a Wikipedia provider for the given languages
func NewWikipedia(client *Client, languages []string, opts ...Option) *Wikipedia {
	if len(languages) == 0 {
		languages = []string{"fr", "en"}
	}
	return &Wikipedia{
		client:    client,
		languages: languages,
		opts:      buildOptions(wikipediaBaseURL, FastTimeout, opts),
	}
}

func (w *Wikipedia) Name() string { return WikipediaName }

type wikipediaSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wikipediaSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Search queries every language in turn. A failing language does not
// prevent the others from being tried.
func (w *Wikipedia) Search(ctx context.Context, claim string) []model.EvidenceItem {
	keywords := extract.Query(claim)
	if keywords == "" {
		return nil
	}

	var items []model.EvidenceItem
	for _, lang := range w.languages {
		found, err := w.searchLanguage(ctx, lang, keywords, claim)
		if err != nil {
			w.client.warn(fmt.Sprintf("%s:%s", WikipediaName, lang), keywords, err)
			continue
		}
		items = append(items, found...)
	}
	return items
}

func (w *Wikipedia) searchLanguage(ctx context.Context, lang, keywords, claim string) ([]model.EvidenceItem, error) {
	base := strings.ReplaceAll(w.opts.baseURL, "{lang}", lang)
	searchURL := fmt.Sprintf("%s/w/api.php?action=query&list=search&srsearch=%s&format=json&origin=*&srlimit=%d",
		base, escapeComponent(keywords), wikipediaSearchLimit)

	var resp wikipediaSearchResponse
	if err := w.client.GetJSON(ctx, w.opts.timeout, searchURL, &resp); err != nil {
		return nil, err
	}

	hits := resp.Query.Search
	if len(hits) > wikipediaArticlesPerLang {
		hits = hits[:wikipediaArticlesPerLang]
	}

	// One slot per article keeps search order without locking
	slots := make([]*model.EvidenceItem, len(hits))
	var g errgroup.Group
	for i, hit := range hits {
		g.Go(func() error {
			slots[i] = w.fetchArticle(ctx, lang, base, hit.Title, claim)
			return nil
		})
	}
	_ = g.Wait()

	var items []model.EvidenceItem
	for _, item := range slots {
		if item != nil {
			items = append(items, *item)
		}
	}
	return items, nil
}

// fetchArticle returns nil when the summary is missing, has no page URL, is
// too short or is unrelated to the claim
func (w *Wikipedia) fetchArticle(ctx context.Context, lang, base, title, claim string) *model.EvidenceItem {
	summaryURL := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", base, escapeComponent(title))

	var summary wikipediaSummary
	if err := w.client.GetJSON(ctx, w.opts.timeout, summaryURL, &summary); err != nil {
		w.client.warn(fmt.Sprintf("%s:%s", WikipediaName, lang), title, err)
		return nil
	}

	if summary.ContentURLs.Desktop.Page == "" {
		return nil
	}

	text := extract.VisibleText(summary.Extract)
	if utf8.RuneCountInString(text) <= wikipediaMinExtract {
		return nil
	}
	if score.Relevance(claim, summary.Title+" "+text) <= wikipediaMinRelevance {
		return nil
	}

	return &model.EvidenceItem{
		Title:          fmt.Sprintf("Wikipedia (%s): %s", strings.ToUpper(lang), summary.Title),
		URL:            summary.ContentURLs.Desktop.Page,
		Snippet:        ellipsis(text, wikipediaSnippetLength),
		Reliability:    wikipediaReliability,
		SourceCategory: model.CategoryEncyclopedia,
	}
}
