package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/moamenalmahe/scrapv2-ui/internal/model"
)

// testSummary builds a representative finished-session summary.
func testSummary(t *testing.T) *Summary {
	t.Helper()

	session := model.NewSession("https://example.com/", 2, 250*time.Millisecond, 3)
	session.OutputDir = "/tmp/mirror"
	if err := session.Begin(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 9; i++ {
		session.RecordFetched()
	}
	session.RecordFailed()
	if err := session.Complete(); err != nil {
		t.Fatal(err)
	}

	return NewSummary(session, []FailedPage{
		{URL: "https://example.com/broken", Depth: 1, Reason: "HTTP 404"},
	})
}

// TestNewSummary tests that summaries capture the session snapshot.
func TestNewSummary(t *testing.T) {
	t.Parallel()

	s := testSummary(t)

	if s.Fetched != 9 || s.Failed != 1 {
		t.Errorf("expected counters 9/1, got %d/%d", s.Fetched, s.Failed)
	}
	if s.TotalPages() != 10 {
		t.Errorf("expected 10 total pages, got %d", s.TotalPages())
	}
	if s.State != string(model.StateCompleted) {
		t.Errorf("expected completed state, got %q", s.State)
	}
	if s.SessionID == "" {
		t.Error("expected a session ID")
	}
}

// TestSimpleWriter tests the plain text output.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders all sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(testSummary(t))
		if err != nil {
			t.Fatalf("expected write to succeed, got %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}

		out := buf.String()
		for _, want := range []string{
			"CRAWL REPORT",
			"https://example.com/",
			"COMPLETED",
			"Fetched:  9",
			"Failed:   1",
			"FAILED PAGES",
			"https://example.com/broken",
			"HTTP 404",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("hides empty failed section", func(t *testing.T) {
		t.Parallel()

		s := testSummary(t)
		s.FailedPages = nil

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(s); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(buf.String(), "FAILED PAGES") {
			t.Error("expected empty failed section to be hidden")
		}
	})

	t.Run("caps failed page listing", func(t *testing.T) {
		t.Parallel()

		s := testSummary(t)
		s.FailedPages = []FailedPage{
			{URL: "https://example.com/a", Reason: "HTTP 500"},
			{URL: "https://example.com/b", Reason: "HTTP 500"},
			{URL: "https://example.com/c", Reason: "HTTP 500"},
		}

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithMaxFailed(2)).Write(s); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if strings.Contains(out, "example.com/c") {
			t.Error("expected third failure to be truncated")
		}
		if !strings.Contains(out, "and 1 more") {
			t.Error("expected truncation note")
		}
	})
}

// TestJSONWriter tests the machine-readable output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("round trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(testSummary(t)); err != nil {
			t.Fatalf("expected write to succeed, got %v", err)
		}

		var got Summary
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if got.Fetched != 9 || got.Failed != 1 {
			t.Errorf("expected counters to round-trip, got %d/%d", got.Fetched, got.Failed)
		}
		if len(got.FailedPages) != 1 {
			t.Errorf("expected failed pages to round-trip, got %d", len(got.FailedPages))
		}
	})

	t.Run("version wrapper", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithVersion("2.0.0"), WithPrettyPrint()).Write(testSummary(t)); err != nil {
			t.Fatal(err)
		}

		var got struct {
			Version string   `json:"version"`
			Summary *Summary `json:"summary"`
		}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if got.Version != "2.0.0" {
			t.Errorf("expected version metadata, got %q", got.Version)
		}
		if got.Summary == nil || got.Summary.Fetched != 9 {
			t.Error("expected wrapped summary")
		}
	})
}

// TestMarkdownWriter tests the Markdown output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(testSummary(t)); err != nil {
		t.Fatalf("expected write to succeed, got %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Crawl Report",
		"`https://example.com/`",
		"✅ Completed",
		"## Results",
		"mermaid",
		"## Failed Pages",
		"HTTP 404",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown to contain %q", want)
		}
	}
}

// failingWriter always errors, for MultiWriter error propagation.
type failingWriter struct{}

func (failingWriter) Write(*Summary) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter tests fan-out and error propagation.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))
		if _, err := mw.Write(testSummary(t)); err != nil {
			t.Fatalf("expected write to succeed, got %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops on error", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&after))
		if _, err := mw.Write(testSummary(t)); err == nil {
			t.Error("expected error to propagate")
		}
		if after.Len() != 0 {
			t.Error("expected writers after the failure to be skipped")
		}
	})
}

// TestCollector tests concurrent failure collection.
func TestCollector(t *testing.T) {
	t.Parallel()

	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok := i%2 == 0
			c.OnProgress("https://example.com/p", i, ok, "HTTP 500")
		}()
	}
	wg.Wait()

	failed := c.FailedPages()
	if len(failed) != 5 {
		t.Errorf("expected 5 collected failures, got %d", len(failed))
	}
	for _, p := range failed {
		if p.Reason != "HTTP 500" {
			t.Errorf("unexpected reason %q", p.Reason)
		}
	}
}
