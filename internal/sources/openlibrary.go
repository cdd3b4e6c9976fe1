package sources

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ppiankov/factcheck/internal/model"
)

const (
	OpenLibraryName = "openlibrary"

	openLibraryBaseURL     = "https://openlibrary.org"
	openLibraryReliability = 0.80

	openLibraryLimit       = 3
	openLibraryMaxItems    = 2
	openLibraryTitleLength = 50
)

// literaryTerms gates the catalog search to claims about books and authors
var literaryTerms = regexp.MustCompile(`(?i)\b(livre|auteur|écrivain|roman|poésie|littérature|publié|édition|shakespeare|hugo|voltaire)\b`)

// OpenLibrary searches the Open Library book catalog
type OpenLibrary struct {
	client *Client
	opts   options
}

// NewOpenLibrary creates an Open Library provider
func NewOpenLibrary(client *Client, opts ...Option) *OpenLibrary {
	return &OpenLibrary{
		client: client,
		opts:   buildOptions(openLibraryBaseURL, SlowTimeout, opts),
	}
}

func (o *OpenLibrary) Name() string { return OpenLibraryName }

type openLibraryResponse struct {
	Docs []struct {
		Key              string   `json:"key"`
		Title            string   `json:"title"`
		AuthorName       []string `json:"author_name"`
		FirstPublishYear int      `json:"first_publish_year"`
	} `json:"docs"`
}

// Search keeps the first two books that have both a title and an author
func (o *OpenLibrary) Search(ctx context.Context, claim string) []model.EvidenceItem {
	if !literaryTerms.MatchString(claim) {
		return nil
	}

	searchURL := fmt.Sprintf("%s/search.json?q=%s&limit=%d",
		o.opts.baseURL, escapeComponent(claim), openLibraryLimit)

	var resp openLibraryResponse
	if err := o.client.GetJSON(ctx, o.opts.timeout, searchURL, &resp); err != nil {
		o.client.warn(OpenLibraryName, claim, err)
		return nil
	}

	docs := resp.Docs
	if len(docs) > openLibraryMaxItems {
		docs = docs[:openLibraryMaxItems]
	}

	var items []model.EvidenceItem
	for _, book := range docs {
		if book.Title == "" || len(book.AuthorName) == 0 {
			continue
		}

		published := ""
		if book.FirstPublishYear != 0 {
			published = fmt.Sprintf("publié en %d", book.FirstPublishYear)
		}

		items = append(items, model.EvidenceItem{
			Title:          "OpenLibrary: " + ellipsis(book.Title, openLibraryTitleLength),
			URL:            openLibraryBaseURL + book.Key,
			Snippet:        fmt.Sprintf("Livre de %s %s - Archive numérique.", book.AuthorName[0], published),
			Reliability:    openLibraryReliability,
			SourceCategory: model.CategoryReference,
		})
	}
	return items
}
