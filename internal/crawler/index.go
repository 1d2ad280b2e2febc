package crawler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/pepaudit/internal/model"
)

// IndexFetcher reads the numerical proposal index.
type IndexFetcher struct {
	fetcher  Fetcher
	indexURL string
	logger   *slog.Logger
}

// NewIndexFetcher creates an IndexFetcher for the index page at indexURL.
func NewIndexFetcher(f Fetcher, indexURL string, opts ...Option) *IndexFetcher {
	o := newOptions(opts)
	return &IndexFetcher{fetcher: f, indexURL: indexURL, logger: o.logger}
}

// Fetch returns the index entries in page order.
//
// It fails with a *transport.FetchError when the page cannot be retrieved
// and with a *ParseError when the numerical index section is missing or a
// data row carries no link. Rows without data cells are header rows and
// are skipped.
func (f *IndexFetcher) Fetch(ctx context.Context) ([]model.IndexEntry, error) {
	doc, base, err := fetchDocument(ctx, f.fetcher, f.indexURL)
	if err != nil {
		return nil, err
	}

	section, err := FindRequired(doc.Selection, "section", map[string]string{"id": "numerical-index"})
	if err != nil {
		return nil, err
	}

	var (
		entries []model.IndexEntry
		rowErr  error
	)
	section.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return true
		}

		link, err := FindRequired(row, "a", map[string]string{"href": ""})
		if err != nil {
			rowErr = err
			return false
		}
		href, _ := link.Attr("href")
		detailURL, err := resolveURL(base, href)
		if err != nil {
			rowErr = fmt.Errorf("index row %d: %w", len(entries)+1, err)
			return false
		}

		entry := model.IndexEntry{
			Number:          CleanText(link.Text()),
			ShortStatusCode: model.ShortStatusCode(cells.First().Text()),
			DetailURL:       detailURL,
		}
		if cells.Length() > 2 {
			entry.Title = CleanText(cells.Eq(2).Text())
		}
		entries = append(entries, entry)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	f.logger.Info("index parsed", "url", f.indexURL, "entries", len(entries))
	return entries, nil
}
