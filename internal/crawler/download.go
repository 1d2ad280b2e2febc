package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/pepaudit/internal/transport"
)

// DownloadPagePath is the download page relative to the documentation root.
const DownloadPagePath = "download.html"

var archivePattern = regexp.MustCompile(`.+pdf-a4\.zip$`)

// Downloader saves the A4 PDF documentation archive.
type Downloader struct {
	fetcher Fetcher
	docsURL string
	dir     string
	maxSize int64
	logger  *slog.Logger
}

// NewDownloader creates a Downloader storing archives of up to maxSize
// bytes in dir.
func NewDownloader(f Fetcher, docsURL, dir string, maxSize int64, opts ...Option) *Downloader {
	o := newOptions(opts)
	return &Downloader{fetcher: f, docsURL: docsURL, dir: dir, maxSize: maxSize, logger: o.logger}
}

// Download finds the archive link in the download table, fetches the
// archive bypassing the response cache and writes it to the download
// directory under the last segment of its URL. It returns the file path.
func (d *Downloader) Download(ctx context.Context) (string, error) {
	pageURL, err := resolveAgainst(d.docsURL, DownloadPagePath)
	if err != nil {
		return "", err
	}

	doc, base, err := fetchDocument(ctx, d.fetcher, pageURL)
	if err != nil {
		return "", err
	}

	table, err := FindRequired(doc.Selection, "table", map[string]string{"class": "docutils"})
	if err != nil {
		return "", err
	}

	link := table.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		return archivePattern.MatchString(href)
	}).First()
	if link.Length() == 0 {
		return "", &ParseError{
			Tag:   "a",
			Attrs: map[string]string{"href": archivePattern.String()},
			Root:  describe(table),
		}
	}

	href, _ := link.Attr("href")
	archiveURL, err := resolveURL(base, href)
	if err != nil {
		return "", err
	}

	resp, err := d.fetcher.Fetch(ctx, archiveURL, transport.WithoutCache(), transport.WithBodyLimit(d.maxSize))
	if err != nil {
		return "", err
	}

	filename, err := archiveName(archiveURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	dst := filepath.Join(d.dir, filename)
	if err := os.WriteFile(dst, resp.Body, 0600); err != nil {
		return "", fmt.Errorf("failed to save archive: %w", err)
	}

	d.logger.Info("archive saved", "url", archiveURL, "path", dst, "bytes", len(resp.Body))
	return dst, nil
}

// archiveName returns the last path segment of rawURL.
func archiveName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("no file name in archive URL %q", rawURL)
	}
	return name, nil
}
