package model

import (
	"fmt"
	"strings"
)

// WarningKind classifies an advisory condition found while reconciling an
// entry. No kind ever stops an audit.
type WarningKind int

const (
	// WarningUnknownCode means the entry's short code is not in the
	// expected status table. The entry is processed with an empty expected set.
	WarningUnknownCode WarningKind = iota

	// WarningStatusMismatch means the detail page status is not among the
	// expected statuses. The entry is still counted.
	WarningStatusMismatch

	// WarningMissingStatus means the detail page has no locatable status
	// field. The entry counts toward the total but not the histogram.
	WarningMissingStatus

	// WarningDetailFetch means the detail page could not be fetched.
	// The entry counts toward the total but not the histogram.
	WarningDetailFetch
)

// String returns a short name for the warning kind.
func (k WarningKind) String() string {
	switch k {
	case WarningUnknownCode:
		return "unknown code"
	case WarningStatusMismatch:
		return "status mismatch"
	case WarningMissingStatus:
		return "missing status"
	case WarningDetailFetch:
		return "detail fetch failed"
	default:
		return "unknown"
	}
}

// Warning is one advisory condition recorded during an audit.
type Warning struct {
	// Kind classifies the warning.
	Kind WarningKind

	// Entry is the index entry the warning refers to.
	Entry IndexEntry

	// Actual is the status found on the detail page, if any.
	Actual string

	// Expected lists the statuses accepted for the entry's code.
	Expected []string

	// Err is the underlying error for MissingStatus and DetailFetch.
	Err error
}

// String implements fmt.Stringer.
func (w Warning) String() string {
	switch w.Kind {
	case WarningUnknownCode:
		return fmt.Sprintf("%s: code %q (%s)", w.Kind, w.Entry.ShortStatusCode, w.Entry.DetailURL)
	case WarningStatusMismatch:
		return fmt.Sprintf("%s: %s has %q, expected one of [%s]",
			w.Kind, w.Entry.DetailURL, w.Actual, strings.Join(w.Expected, ", "))
	default:
		if w.Err != nil {
			return fmt.Sprintf("%s: %s: %v", w.Kind, w.Entry.DetailURL, w.Err)
		}
		return fmt.Sprintf("%s: %s", w.Kind, w.Entry.DetailURL)
	}
}
