package report

import (
	"sync"
	"time"

	"github.com/moamenalmahe/scrapv2-ui/internal/model"
)

// FailedPage records one page that could not be fetched.
type FailedPage struct {
	// URL is the page that failed.
	URL string `json:"url"`

	// Depth is the link distance from the seed.
	Depth int `json:"depth"`

	// Reason is the human-readable failure cause.
	Reason string `json:"reason"`
}

// Summary is the report-facing view of a finished session. It carries
// everything a writer needs, so writers never touch live session state.
type Summary struct {
	// SessionID is the session UUID.
	SessionID string `json:"session_id"`

	// SeedURL is the crawl's starting URL.
	SeedURL string `json:"seed_url"`

	// MaxDepth, Delay, and Workers are the settings the session ran with.
	MaxDepth int           `json:"max_depth"`
	Delay    time.Duration `json:"delay"`
	Workers  int           `json:"workers"`

	// OutputDir is where the mirror was written. Empty when mirroring
	// was disabled.
	OutputDir string `json:"output_dir,omitempty"`

	// State is the terminal state the session reached.
	State string `json:"state"`

	// Fetched and Failed are the final page counters.
	Fetched int `json:"fetched"`
	Failed  int `json:"failed"`

	// Duration is how long the session ran.
	Duration time.Duration `json:"duration"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// FailedPages lists the pages that could not be fetched.
	FailedPages []FailedPage `json:"failed_pages,omitempty"`
}

// NewSummary builds a Summary from a terminal session and the failures
// collected during it.
func NewSummary(session *model.Session, failedPages []FailedPage) *Summary {
	fetched, failed := session.Counts()
	return &Summary{
		SessionID:   session.ID,
		SeedURL:     session.SeedURL,
		MaxDepth:    session.MaxDepth,
		Delay:       session.Delay,
		Workers:     session.Workers,
		OutputDir:   session.OutputDir,
		State:       string(session.State()),
		Fetched:     fetched,
		Failed:      failed,
		Duration:    session.Duration(),
		StartedAt:   session.StartedAt,
		FailedPages: failedPages,
	}
}

// TotalPages returns the number of pages attempted.
func (s *Summary) TotalPages() int {
	return s.Fetched + s.Failed
}

// Collector is a crawl observer that gathers the failed pages for the
// session report. It satisfies the coordinator's Observer interface and
// is safe for concurrent use by crawl workers.
type Collector struct {
	mu     sync.Mutex
	failed []FailedPage
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// OnProgress records failed fetches and ignores successful ones.
func (c *Collector) OnProgress(url string, depth int, success bool, reason string) {
	if success {
		return
	}
	c.mu.Lock()
	c.failed = append(c.failed, FailedPage{URL: url, Depth: depth, Reason: reason})
	c.mu.Unlock()
}

// OnComplete implements the observer interface; the Collector has
// nothing to finalize.
func (c *Collector) OnComplete(fetched, failed int) {}

// OnCancelled implements the observer interface.
func (c *Collector) OnCancelled() {}

// FailedPages returns a copy of the collected failures.
func (c *Collector) FailedPages() []FailedPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]FailedPage, len(c.failed))
	copy(out, c.failed)
	return out
}
