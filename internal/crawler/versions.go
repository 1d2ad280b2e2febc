package crawler

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/pepaudit/internal/model"
)

// ErrVersionListNotFound is returned when the sidebar has no version list.
var ErrVersionListNotFound = errors.New("version list not found in sidebar")

// allVersionsMarker identifies the version list among the sidebar lists.
const allVersionsMarker = "All versions"

var versionPattern = regexp.MustCompile(`Python (?P<version>\d\.\d+) \((?P<status>.*)\)`)

// LatestVersionsExtractor reads the documentation version switcher.
type LatestVersionsExtractor struct {
	fetcher Fetcher
	docsURL string
	logger  *slog.Logger
}

// NewLatestVersionsExtractor creates a LatestVersionsExtractor for the documentation at docsURL.
func NewLatestVersionsExtractor(f Fetcher, docsURL string, opts ...Option) *LatestVersionsExtractor {
	o := newOptions(opts)
	return &LatestVersionsExtractor{fetcher: f, docsURL: docsURL, logger: o.logger}
}

// Fetch returns the links of the first sidebar list mentioning "All versions".
// It fails with ErrVersionListNotFound when no such list exists.
func (e *LatestVersionsExtractor) Fetch(ctx context.Context) ([]model.PythonVersion, error) {
	doc, base, err := fetchDocument(ctx, e.fetcher, e.docsURL)
	if err != nil {
		return nil, err
	}

	sidebar, err := FindRequired(doc.Selection, "div", map[string]string{"class": "sphinxsidebarwrapper"})
	if err != nil {
		return nil, err
	}

	list := sidebar.Find("ul").FilterFunction(func(_ int, ul *goquery.Selection) bool {
		return strings.Contains(ul.Text(), allVersionsMarker)
	}).First()
	if list.Length() == 0 {
		return nil, ErrVersionListNotFound
	}

	var versions []model.PythonVersion
	list.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		link, err := resolveURL(base, href)
		if err != nil {
			link = href
		}
		v := parseVersion(CleanText(a.Text()))
		v.URL = link
		versions = append(versions, v)
	})

	e.logger.Info("versions parsed", "url", e.docsURL, "versions", len(versions))
	return versions, nil
}

// parseVersion splits "Python 3.12 (stable)" into version and status.
// Text of any other form becomes the version with an empty status.
func parseVersion(text string) model.PythonVersion {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return model.PythonVersion{Version: text}
	}
	return model.PythonVersion{
		Version: m[versionPattern.SubexpIndex("version")],
		Status:  m[versionPattern.SubexpIndex("status")],
	}
}
