package report

import (
	"io"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/pepaudit/internal/model"
)

// MarkdownWriter outputs the table as GitHub-flavored Markdown. Tables that
// carry chart data get a mermaid pie chart below the table.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(t model.Table) (int, error) {
	md := markdown.NewMarkdown(w.output)

	if t.Title != "" {
		md.H1(t.Title)
		md.PlainText("")
	}

	md.Table(markdown.TableSet{
		Header: t.Header,
		Rows:   t.Rows,
	})

	if len(t.Chart) > 0 {
		w.writePieChart(md, t)
	}

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, t model.Table) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(t.Title),
		piechart.WithShowData(true),
	)

	for _, slice := range t.Chart {
		if slice.Value > 0 {
			chart.LabelAndIntValue(slice.Label, uint64(slice.Value))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
}
