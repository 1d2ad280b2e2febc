package crawler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/pepaudit/internal/progress"
	"github.com/nao1215/pepaudit/internal/transport"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"
)

// Fetcher retrieves a URL. *transport.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, opts ...transport.FetchOption) (*transport.Response, error)
}

// ParseError reports that a required element is absent from a page.
type ParseError struct {
	// Tag is the element name that was searched for.
	Tag string

	// Attrs are the attribute filters that had to match.
	Attrs map[string]string

	// Root describes the element the search started from.
	Root string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("required element <%s%s> not found in %s", e.Tag, formatAttrs(e.Attrs), e.Root)
}

func formatAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%q", k, attrs[k])
	}
	return b.String()
}

// ParseDocument parses an HTML body into a goquery document.
// The body is decoded to UTF-8 according to contentType and any <meta>
// charset declaration before parsing.
func ParseDocument(body []byte, contentType string) (*goquery.Document, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}

	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return goquery.NewDocumentFromNode(root), nil
}

// FindRequired returns the first descendant of root named tag whose
// attributes match attrs, or a *ParseError when there is none.
//
// The "class" filter is a space-separated list of classes that must all be
// present on the element, in any order. Any other filter must equal the
// attribute value exactly, except that an empty filter value only requires
// the attribute to be present.
func FindRequired(root *goquery.Selection, tag string, attrs map[string]string) (*goquery.Selection, error) {
	found := root.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return matchAttrs(s, attrs)
	}).First()

	if found.Length() == 0 {
		return nil, &ParseError{Tag: tag, Attrs: attrs, Root: describe(root)}
	}
	return found, nil
}

func matchAttrs(s *goquery.Selection, attrs map[string]string) bool {
	for key, want := range attrs {
		if key == "class" {
			for _, class := range strings.Fields(want) {
				if !s.HasClass(class) {
					return false
				}
			}
			continue
		}

		got, ok := s.Attr(key)
		if !ok || (want != "" && got != want) {
			return false
		}
	}
	return true
}

// describe renders a selection's first node as a short CSS-like selector.
func describe(s *goquery.Selection) string {
	if s.Length() == 0 {
		return "empty selection"
	}
	if s.Nodes[0].Type == html.DocumentNode {
		return "document"
	}

	var b strings.Builder
	b.WriteString(goquery.NodeName(s))
	if id, ok := s.Attr("id"); ok && id != "" {
		b.WriteString("#" + id)
	}
	if class, ok := s.Attr("class"); ok {
		for _, c := range strings.Fields(class) {
			b.WriteString("." + c)
		}
	}
	return b.String()
}

// CleanText normalizes text taken from a page: NFKC normalization (which
// also turns non-breaking spaces into plain spaces), then every run of
// whitespace collapsed to one space and the ends trimmed.
func CleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// resolveURL resolves href against base. It returns an error for hrefs
// that are not navigable links.
func resolveURL(base *url.URL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") {
		return "", fmt.Errorf("not a navigable link: %q", href)
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	return base.ResolveReference(u).String(), nil
}

// fetchDocument fetches rawURL and parses it. The returned base URL is the
// final URL of the response, for resolving relative links.
func fetchDocument(ctx context.Context, f Fetcher, rawURL string) (*goquery.Document, *url.URL, error) {
	resp, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}

	base, err := url.Parse(resp.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid response URL %q: %w", resp.URL, err)
	}

	doc, err := ParseDocument(resp.Body, resp.ContentType)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", rawURL, err)
	}
	return doc, base, nil
}

type options struct {
	logger   *slog.Logger
	progress progress.Tracker
}

// Option configures an extractor.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithProgress reports per-item progress of multi-page extractors.
func WithProgress(t progress.Tracker) Option {
	return func(o *options) {
		o.progress = t
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:   slog.New(slog.DiscardHandler),
		progress: progress.Nop{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.progress = progress.OrNop(o.progress)
	return o
}
