package sources

import (
	"context"
	"fmt"

	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/model"
)

const (
	ArchiveName = "archive"

	archiveBaseURL     = "https://archive.org"
	archiveDetailsURL  = "https://archive.org/details/"
	archiveReliability = 0.78

	archiveRows          = 3
	archiveMaxItems      = 2
	archiveTitleLength   = 60
	archiveSnippetLength = 180
)

// Archive searches the Internet Archive catalog with the full claim text
type Archive struct {
	client *Client
	opts   options
}

// NewArchive creates an Archive.org provider
func NewArchive(client *Client, opts ...Option) *Archive {
	return &Archive{
		client: client,
		opts:   buildOptions(archiveBaseURL, SlowTimeout, opts),
	}
}

func (a *Archive) Name() string { return ArchiveName }

type archiveResponse struct {
	Response struct {
		Docs []struct {
			Identifier  string     `json:"identifier"`
			Title       flexString `json:"title"`
			Description flexString `json:"description"`
		} `json:"docs"`
	} `json:"response"`
}

// Search keeps the first two documents that carry both a title and a
// description
func (a *Archive) Search(ctx context.Context, claim string) []model.EvidenceItem {
	searchURL := fmt.Sprintf("%s/advancedsearch.php?q=%s&fl[]=identifier,title,description&rows=%d&output=json",
		a.opts.baseURL, escapeComponent(claim), archiveRows)

	var resp archiveResponse
	if err := a.client.GetJSON(ctx, a.opts.timeout, searchURL, &resp); err != nil {
		a.client.warn(ArchiveName, claim, err)
		return nil
	}

	docs := resp.Response.Docs
	if len(docs) > archiveMaxItems {
		docs = docs[:archiveMaxItems]
	}

	var items []model.EvidenceItem
	for _, doc := range docs {
		if doc.Title == "" || doc.Description == "" {
			continue
		}
		items = append(items, model.EvidenceItem{
			Title:          "Archive.org: " + ellipsis(string(doc.Title), archiveTitleLength),
			URL:            archiveDetailsURL + doc.Identifier,
			Snippet:        ellipsis(extract.VisibleText(string(doc.Description)), archiveSnippetLength),
			Reliability:    archiveReliability,
			SourceCategory: model.CategoryArchive,
		})
	}
	return items
}
