package report

import (
	"io"
	"strings"

	"github.com/nao1215/pepaudit/internal/model"
)

// PlainWriter prints the header and every row as space-separated cells,
// one row per line. The output is meant for terminals and for grep.
type PlainWriter struct {
	baseWriter
}

// NewPlainWriter creates a PlainWriter that outputs to the given writer.
func NewPlainWriter(output io.Writer) *PlainWriter {
	return &PlainWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *PlainWriter) Write(t model.Table) (int, error) {
	var b strings.Builder
	for _, row := range t.AllRows() {
		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}
	return io.WriteString(w.output, b.String())
}
