package crawler

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/pepaudit/internal/model"
	"github.com/nao1215/pepaudit/internal/progress"
)

// WhatsNewPath is the what's-new index relative to the documentation root.
const WhatsNewPath = "whatsnew/"

// WhatsNewExtractor lists the "What's New" articles of the documentation.
type WhatsNewExtractor struct {
	fetcher  Fetcher
	docsURL  string
	logger   *slog.Logger
	progress progress.Tracker
}

// NewWhatsNewExtractor creates a WhatsNewExtractor for the documentation at docsURL.
func NewWhatsNewExtractor(f Fetcher, docsURL string, opts ...Option) *WhatsNewExtractor {
	o := newOptions(opts)
	return &WhatsNewExtractor{fetcher: f, docsURL: docsURL, logger: o.logger, progress: o.progress}
}

// Fetch returns one Article per entry of the what's-new table of contents,
// in page order. Failures on the index page are returned; an article page
// that cannot be fetched or lacks a heading is logged and skipped.
func (e *WhatsNewExtractor) Fetch(ctx context.Context) ([]model.Article, error) {
	indexURL, err := resolveAgainst(e.docsURL, WhatsNewPath)
	if err != nil {
		return nil, err
	}

	doc, base, err := fetchDocument(ctx, e.fetcher, indexURL)
	if err != nil {
		return nil, err
	}

	section, err := FindRequired(doc.Selection, "section", map[string]string{"id": "what-s-new-in-python"})
	if err != nil {
		return nil, err
	}
	toc, err := FindRequired(section, "div", map[string]string{"class": "toctree-wrapper"})
	if err != nil {
		return nil, err
	}

	items := toc.Find("li.toctree-l1")
	e.progress.Start(items.Length())
	defer e.progress.Finish()

	articles := make([]model.Article, 0, items.Length())
	for i := range items.Length() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		article, err := e.fetchArticle(ctx, base, items.Eq(i))
		e.progress.Increment()
		if err != nil {
			e.logger.Warn("skipping article", "error", err)
			continue
		}
		articles = append(articles, article)
	}

	e.logger.Info("what's new parsed", "url", indexURL, "articles", len(articles))
	return articles, nil
}

func (e *WhatsNewExtractor) fetchArticle(ctx context.Context, base *url.URL, item *goquery.Selection) (model.Article, error) {
	link, err := FindRequired(item, "a", map[string]string{"href": ""})
	if err != nil {
		return model.Article{}, err
	}
	href, _ := link.Attr("href")
	articleURL, err := resolveURL(base, href)
	if err != nil {
		return model.Article{}, err
	}

	doc, _, err := fetchDocument(ctx, e.fetcher, articleURL)
	if err != nil {
		return model.Article{}, err
	}

	h1, err := FindRequired(doc.Selection, "h1", nil)
	if err != nil {
		return model.Article{}, err
	}
	dl, err := FindRequired(doc.Selection, "dl", nil)
	if err != nil {
		return model.Article{}, err
	}

	return model.Article{
		URL:     articleURL,
		Title:   headingText(h1),
		Editors: CleanText(dl.Text()),
	}, nil
}

// headingText returns a heading's text without Sphinx permalink anchors.
func headingText(h *goquery.Selection) string {
	return CleanText(h.Clone().Find("a.headerlink").Remove().End().Text())
}

// resolveAgainst resolves ref against the directory URL base.
// A missing trailing slash on base is added, so "https://host/3" and
// "https://host/3/" resolve alike.
func resolveAgainst(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}
	return resolveURL(b, ref)
}
