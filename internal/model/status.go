package model

import (
	"slices"
	"sort"
)

// StatusSet is an immutable set of full status strings considered valid for
// one short status code. The zero value is the empty set.
type StatusSet struct {
	values []string
}

// NewStatusSet creates a StatusSet from the given statuses.
// Duplicates are dropped; the first-given order is kept for display.
func NewStatusSet(statuses ...string) StatusSet {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		if !slices.Contains(values, s) {
			values = append(values, s)
		}
	}
	return StatusSet{values: values}
}

// Contains reports whether status is a member of the set.
func (s StatusSet) Contains(status string) bool {
	return slices.Contains(s.values, status)
}

// Values returns a copy of the members in their original order.
func (s StatusSet) Values() []string {
	return slices.Clone(s.values)
}

// Len returns the number of members.
func (s StatusSet) Len() int {
	return len(s.values)
}

// ExpectedStatusTable maps short status codes to the full statuses that are
// acceptable for them. It is read-only once constructed: the constructor copies
// its input and no method mutates the table, so a single value can be shared
// by concurrent readers.
type ExpectedStatusTable struct {
	sets map[string]StatusSet
}

// NewExpectedStatusTable builds a table from a code → statuses mapping.
func NewExpectedStatusTable(m map[string][]string) ExpectedStatusTable {
	sets := make(map[string]StatusSet, len(m))
	for code, statuses := range m {
		sets[code] = NewStatusSet(statuses...)
	}
	return ExpectedStatusTable{sets: sets}
}

// Lookup returns the acceptable statuses for code.
// The boolean is false when the code is not present in the table.
func (t ExpectedStatusTable) Lookup(code string) (StatusSet, bool) {
	set, ok := t.sets[code]
	return set, ok
}

// Codes returns all known codes in sorted order.
func (t ExpectedStatusTable) Codes() []string {
	codes := make([]string, 0, len(t.sets))
	for code := range t.sets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of codes in the table.
func (t ExpectedStatusTable) Len() int {
	return len(t.sets)
}

// Map returns a copy of the table as a plain map, e.g. for serialization.
func (t ExpectedStatusTable) Map() map[string][]string {
	m := make(map[string][]string, len(t.sets))
	for code, set := range t.sets {
		m[code] = set.Values()
	}
	return m
}

// StatusObservation is what the reconciliation engine knows about one entry
// after its detail page has been processed. It is never retained past the
// iteration that produced it.
type StatusObservation struct {
	// Entry is the index entry being reconciled.
	Entry IndexEntry

	// Actual is the status found on the detail page. Only meaningful when Found is true.
	Actual string

	// Found reports whether a status could be extracted from the detail page.
	Found bool

	// Expected is the set of acceptable statuses for the entry's code.
	// It is empty when the code is unknown.
	Expected StatusSet

	// KnownCode reports whether the entry's code was present in the table.
	KnownCode bool
}

// Matches reports whether the observed status is acceptable for the entry.
// An observation without a status never matches.
func (o StatusObservation) Matches() bool {
	return o.Found && o.Expected.Contains(o.Actual)
}
