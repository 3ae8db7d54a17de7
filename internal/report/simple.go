package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display after a crawl finishes.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether the failed-pages section is shown when
	// nothing failed.
	showEmpty bool

	// maxFailed caps the number of failed pages listed. Zero lists all.
	maxFailed int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithMaxFailed caps the failed-pages listing. Crawls of broken sites
// can fail thousands of pages; the summary stays readable.
func WithMaxFailed(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.maxFailed = n
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the summary in human-readable format.
func (w *SimpleWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeSettings(&sb, summary)
	w.writeResults(&sb, summary)
	w.writeFailedPages(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with session information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Seed URL:   %s\n", summary.SeedURL))
	sb.WriteString(fmt.Sprintf("Session:    %s\n", summary.SessionID))
	sb.WriteString(fmt.Sprintf("Started:    %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Status:     %s\n", strings.ToUpper(summary.State)))
	sb.WriteString("\n")
}

// writeSettings writes the settings the session ran with.
func (w *SimpleWriter) writeSettings(sb *strings.Builder, summary *Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SETTINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Max depth: %d\n", summary.MaxDepth))
	sb.WriteString(fmt.Sprintf("  Workers:   %d\n", summary.Workers))
	sb.WriteString(fmt.Sprintf("  Delay:     %s\n", summary.Delay))
	if summary.OutputDir != "" {
		sb.WriteString(fmt.Sprintf("  Output:    %s\n", summary.OutputDir))
	}
	sb.WriteString("\n")
}

// writeResults writes the page counters.
func (w *SimpleWriter) writeResults(sb *strings.Builder, summary *Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RESULTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Fetched:  %d\n", summary.Fetched))
	sb.WriteString(fmt.Sprintf("  Failed:   %d\n", summary.Failed))
	sb.WriteString(fmt.Sprintf("  Total:    %d pages\n", summary.TotalPages()))
	sb.WriteString(fmt.Sprintf("  Duration: %s\n", summary.Duration.Round(10*time.Millisecond)))
	sb.WriteString("\n")
}

// writeFailedPages lists the pages that could not be fetched.
func (w *SimpleWriter) writeFailedPages(sb *strings.Builder, summary *Summary) {
	if len(summary.FailedPages) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FAILED PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.FailedPages) == 0 {
		sb.WriteString("  No failed pages\n\n")
		return
	}

	pages := summary.FailedPages
	truncated := 0
	if w.maxFailed > 0 && len(pages) > w.maxFailed {
		truncated = len(pages) - w.maxFailed
		pages = pages[:w.maxFailed]
	}

	for _, p := range pages {
		sb.WriteString(fmt.Sprintf("  * %s (depth %d)\n", p.URL, p.Depth))
		if p.Reason != "" {
			sb.WriteString(fmt.Sprintf("    Reason: %s\n", p.Reason))
		}
	}
	if truncated > 0 {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", truncated))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by scrapv2\n")
	sb.WriteString("https://github.com/moamenalmahe/scrapv2-ui\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
