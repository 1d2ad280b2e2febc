package model

import (
	"strings"
	"unicode/utf8"
)

// IndexEntry is one row of the numerical proposal index.
// It is created while parsing the index page and never modified afterwards.
type IndexEntry struct {
	// Number is the proposal number as shown in the index (e.g. "8").
	// It is only used for diagnostics.
	Number string `json:"number,omitempty"`

	// Title is the proposal title as shown in the index.
	// It is only used for diagnostics.
	Title string `json:"title,omitempty"`

	// ShortStatusCode is the compact status marker claimed by the index row,
	// derived with ShortStatusCode from the row's leading cell.
	ShortStatusCode string `json:"short_status_code"`

	// DetailURL is the absolute URL of the proposal's detail page.
	DetailURL string `json:"detail_url"`
}

// ShortStatusCode derives the short status code from the raw text of an index
// row's leading cell.
//
// The leading cell holds a type marker followed by the status marker, for
// example "SF" (Standards Track, Final) or "I" (Informational, no status
// marker). The rule is: code = cell text with its first character removed.
// Surrounding whitespace is trimmed before the rule is applied, and the first
// character is removed as a whole rune so multi-byte markers are not split.
func ShortStatusCode(rawCellText string) string {
	text := strings.TrimSpace(rawCellText)
	if text == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(text)
	return text[size:]
}
