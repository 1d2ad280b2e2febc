package report

import (
	"fmt"
	"io"

	"github.com/nao1215/pepaudit/internal/model"
	"github.com/parquet-go/parquet-go"
)

// CellRecord is one cell of a table in the Parquet export. Tables of any
// width share this long layout: one record per (row, column) pair.
type CellRecord struct {
	// Row is the 1-based data row number.
	Row int64 `parquet:"row"`

	// Column is the header label of the cell's column.
	Column string `parquet:"column"`

	// Value is the cell text.
	Value string `parquet:"value"`
}

// ParquetWriter writes the table as a zstd-compressed Parquet file of CellRecord rows.
type ParquetWriter struct {
	baseWriter
}

// NewParquetWriter creates a ParquetWriter that outputs to the given writer.
func NewParquetWriter(output io.Writer) *ParquetWriter {
	return &ParquetWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *ParquetWriter) Write(t model.Table) (int, error) {
	cw := &countingWriter{w: w.output}
	writer := parquet.NewWriter(cw, parquet.SchemaOf(CellRecord{}), parquet.Compression(&parquet.Zstd))

	for i, row := range t.Rows {
		for j, value := range row {
			column := fmt.Sprintf("column_%d", j+1)
			if j < len(t.Header) {
				column = t.Header[j]
			}
			rec := CellRecord{Row: int64(i + 1), Column: column, Value: value}
			if err := writer.Write(rec); err != nil {
				return cw.n, fmt.Errorf("failed to write parquet record: %w", err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return cw.n, nil
}
