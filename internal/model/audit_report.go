package model

import "strconv"

// Labels used by the audit report table.
const (
	// ReportHeaderStatus is the label of the first header column.
	ReportHeaderStatus = "Status"

	// ReportHeaderCount is the label of the second header column.
	ReportHeaderCount = "Count"

	// ReportTotalLabel labels the trailing total row.
	ReportTotalLabel = "Total"
)

// AuditReport is the finalized result of a status audit.
//
// Rendered as a table it always has one header row, one row per distinct
// status in first-observed order and exactly one trailing total row.
type AuditReport struct {
	// Rows holds one bucket per distinct status in first-observed order.
	Rows []StatusCount `json:"rows"`

	// Total is the value of the total row. It equals the number of processed
	// entries when the histogram accounts for every entry, and the observed
	// sum of Rows otherwise.
	Total int `json:"total"`
}

// Table converts the report into the two-column table handed to renderers.
func (r AuditReport) Table() Table {
	rows := make([][]string, 0, len(r.Rows)+1)
	chart := make([]ChartSlice, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []string{row.Status, strconv.Itoa(row.Count)})
		chart = append(chart, ChartSlice{Label: row.Status, Value: row.Count})
	}
	rows = append(rows, []string{ReportTotalLabel, strconv.Itoa(r.Total)})

	return Table{
		Title:  "PEP status audit",
		Header: []string{ReportHeaderStatus, ReportHeaderCount},
		Rows:   rows,
		Chart:  chart,
	}
}

// CountMismatch is raised when the histogram does not account for every
// processed entry. It is a diagnostic for the operator, not a failure.
type CountMismatch struct {
	// TotalEntries is the number of index entries processed.
	TotalEntries int `json:"total_entries"`

	// SumOfCounts is the sum of all histogram counts.
	SumOfCounts int `json:"sum_of_counts"`
}

// Missing returns how many processed entries are absent from the histogram.
func (m CountMismatch) Missing() int {
	return m.TotalEntries - m.SumOfCounts
}

// String implements fmt.Stringer.
func (m CountMismatch) String() string {
	return "count mismatch: " + strconv.Itoa(m.TotalEntries) + " entries processed, " +
		strconv.Itoa(m.SumOfCounts) + " statuses counted"
}
