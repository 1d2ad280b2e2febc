package config

import (
	"net/url"

	"github.com/nao1215/pepaudit/internal/model"
)

// DefaultExpectedStatusTable returns the expected statuses for each short
// status code used by the PEP numerical index. The empty code belongs to rows
// whose leading cell carries only a type marker.
func DefaultExpectedStatusTable() model.ExpectedStatusTable {
	return model.NewExpectedStatusTable(map[string][]string{
		"A": {"Active", "Accepted"},
		"D": {"Deferred"},
		"F": {"Final"},
		"P": {"Provisional"},
		"R": {"Rejected"},
		"S": {"Superseded"},
		"W": {"Withdrawn"},
		"":  {"Draft", "Active"},
	})
}

// isHTTPURL reports whether s is an absolute http or https URL with a host.
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
