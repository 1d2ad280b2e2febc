package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Format names an output renderer.
type Format string

// Supported formats.
const (
	// FormatPlain prints one space-separated line per row.
	FormatPlain Format = "plain"
	// FormatPretty prints a boxed table.
	FormatPretty Format = "pretty"
	// FormatCSV writes a CSV file.
	FormatCSV Format = "csv"
	// FormatMarkdown prints a Markdown table, with a pie chart when the data has one.
	FormatMarkdown Format = "markdown"
	// FormatJSON prints the table as JSON.
	FormatJSON Format = "json"
	// FormatParquet writes a Parquet file.
	FormatParquet Format = "parquet"
)

// Formats lists every supported format in help order.
var Formats = []Format{FormatPlain, FormatPretty, FormatCSV, FormatMarkdown, FormatJSON, FormatParquet}

// ParseFormat converts a --output value into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, known := range Formats {
		names[i] = string(known)
	}
	return "", fmt.Errorf("unknown output format %q (supported: %s)", s, strings.Join(names, ", "))
}

// IsFile reports whether the format is written to a file by default
// instead of stdout.
func (f Format) IsFile() bool {
	return f == FormatCSV || f == FormatParquet
}

// Extension returns the file extension for the format, without a dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatPlain, FormatPretty:
		return "txt"
	default:
		return string(f)
	}
}

// timestampLayout keeps file names sortable and free of path separators.
const timestampLayout = "2006-01-02_15-04-05"

// DefaultFilePath returns dir/{mode}_{timestamp}.{ext}, the location of a
// file export when no output file is given.
func DefaultFilePath(dir, mode string, f Format, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", mode, now.Format(timestampLayout), f.Extension()))
}

// NewWriter creates the Writer for format f writing to output.
func NewWriter(f Format, output io.Writer) (Writer, error) {
	switch f {
	case FormatPlain:
		return NewPlainWriter(output), nil
	case FormatPretty:
		return NewPrettyWriter(output), nil
	case FormatCSV:
		return NewCSVWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatParquet:
		return NewParquetWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", f)
	}
}
