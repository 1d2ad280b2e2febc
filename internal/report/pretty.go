package report

import (
	"io"

	"github.com/nao1215/pepaudit/internal/model"
	"github.com/olekukonko/tablewriter"
)

// PrettyWriter prints a boxed, column-aligned table.
type PrettyWriter struct {
	baseWriter
}

// NewPrettyWriter creates a PrettyWriter that outputs to the given writer.
func NewPrettyWriter(output io.Writer) *PrettyWriter {
	return &PrettyWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *PrettyWriter) Write(t model.Table) (int, error) {
	cw := &countingWriter{w: w.output}
	table := tablewriter.NewWriter(cw)

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	table.Header(header...)

	if err := table.Bulk(t.Rows); err != nil {
		return cw.n, err
	}
	if err := table.Render(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}
