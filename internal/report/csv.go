package report

import (
	"encoding/csv"
	"io"

	"github.com/nao1215/pepaudit/internal/model"
)

// CSVWriter writes the header and rows as CSV with LF line endings and
// every field quoted only when needed.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *CSVWriter) Write(t model.Table) (int, error) {
	cw := &countingWriter{w: w.output}
	writer := csv.NewWriter(cw)
	if err := writer.WriteAll(t.AllRows()); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}
