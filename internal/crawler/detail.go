package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrStatusNotFound is returned when a detail page has no status field.
var ErrStatusNotFound = errors.New("status field not found")

// statusTerm is the field-list term holding the proposal status.
const statusTerm = "Status"

// DetailStatusExtractor reads the declared status from a proposal's detail page.
type DetailStatusExtractor struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewDetailStatusExtractor creates a DetailStatusExtractor.
func NewDetailStatusExtractor(f Fetcher, opts ...Option) *DetailStatusExtractor {
	o := newOptions(opts)
	return &DetailStatusExtractor{fetcher: f, logger: o.logger}
}

// FetchStatus fetches detailURL and returns the value of its "Status" field.
//
// A missing field list, a missing Status term or an empty value yield an
// error wrapping ErrStatusNotFound. Fetch failures are returned unchanged.
func (e *DetailStatusExtractor) FetchStatus(ctx context.Context, detailURL string) (string, error) {
	doc, _, err := fetchDocument(ctx, e.fetcher, detailURL)
	if err != nil {
		return "", err
	}

	status, err := extractStatus(doc.Selection)
	if err != nil {
		return "", err
	}
	e.logger.Debug("status extracted", "url", detailURL, "status", status)
	return status, nil
}

func extractStatus(root *goquery.Selection) (string, error) {
	fields, err := FindRequired(root, "dl", map[string]string{"class": "rfc2822 field-list simple"})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStatusNotFound, err)
	}

	var status string
	found := false
	fields.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		term := strings.TrimSuffix(CleanText(dt.Text()), ":")
		if strings.TrimSpace(term) != statusTerm {
			return true
		}
		found = true
		status = CleanText(dt.NextFiltered("dd").Text())
		return false
	})

	if !found {
		return "", fmt.Errorf("%w: no %q term in field list", ErrStatusNotFound, statusTerm)
	}
	if status == "" {
		return "", fmt.Errorf("%w: empty %q value", ErrStatusNotFound, statusTerm)
	}
	return status, nil
}
