package report

import (
	"io"

	"github.com/nao1215/pepaudit/internal/model"
)

// Writer renders a command result to the output it was created with.
type Writer interface {
	// Write renders t and returns the number of bytes written.
	Write(t model.Table) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// countingWriter counts the bytes passing to the wrapped writer, for
// libraries that do not report them.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
