package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeResults(md, summary)
	w.writeFailedPages(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with session information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + summary.SeedURL + "`"},
			{"Session", "`" + summary.SessionID + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.statusText(summary)},
			{"Max Depth", strconv.Itoa(summary.MaxDepth)},
			{"Workers", strconv.Itoa(summary.Workers)},
			{"Delay", summary.Delay.String()},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell based on the terminal state.
func (w *MarkdownWriter) statusText(summary *Summary) string {
	switch summary.State {
	case "completed":
		return "✅ Completed"
	case "cancelled":
		return "⚠️ Cancelled (partial results)"
	default:
		return "❌ " + summary.State
	}
}

// writeResults writes the counters and a visual breakdown.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, summary *Summary) {
	md.H2("Results")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Pages fetched", strconv.Itoa(summary.Fetched)},
			{"Pages failed", strconv.Itoa(summary.Failed)},
			{"**Total**", "**" + strconv.Itoa(summary.TotalPages()) + "**"},
			{"Duration", summary.Duration.String()},
		},
	})
	md.PlainText("")

	// Pie chart only makes sense with a mix of outcomes.
	if summary.Fetched > 0 && summary.Failed > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Page outcomes"),
			piechart.WithShowData(true),
		)
		chart.LabelAndIntValue("Fetched", uint64(summary.Fetched)).
			LabelAndIntValue("Failed", uint64(summary.Failed))
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

// writeFailedPages lists the pages that could not be fetched.
func (w *MarkdownWriter) writeFailedPages(md *markdown.Markdown, summary *Summary) {
	if len(summary.FailedPages) == 0 {
		return
	}

	md.H2("Failed Pages")
	md.PlainText("")

	rows := make([][]string, 0, len(summary.FailedPages))
	for _, p := range summary.FailedPages {
		rows = append(rows, []string{
			"`" + p.URL + "`",
			strconv.Itoa(p.Depth),
			p.Reason,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Depth", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.Failed > len(summary.FailedPages) {
		md.PlainText(fmt.Sprintf("%d additional failures were not collected.", summary.Failed-len(summary.FailedPages)))
	}
}
