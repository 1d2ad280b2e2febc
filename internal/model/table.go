package model

// Table is the renderer-facing form of every command result:
// a header row followed by data rows of the same width.
type Table struct {
	// Title is a short human-readable caption. Renderers may ignore it.
	Title string `json:"title,omitempty"`

	// Header holds the column labels.
	Header []string `json:"header"`

	// Rows holds the data rows.
	Rows [][]string `json:"rows"`

	// Chart optionally carries the numeric distribution behind the rows,
	// used by renderers that can draw it.
	Chart []ChartSlice `json:"-"`
}

// ChartSlice is one labelled value of a distribution.
type ChartSlice struct {
	Label string
	Value int
}

// Width returns the number of columns.
func (t Table) Width() int {
	return len(t.Header)
}

// AllRows returns the header followed by the data rows.
func (t Table) AllRows() [][]string {
	all := make([][]string, 0, len(t.Rows)+1)
	all = append(all, t.Header)
	all = append(all, t.Rows...)
	return all
}
