package database

import (
	"context"
	"log/slog"

	"github.com/moamenalmahe/scrapv2-ui/internal/model"
)

// Recorder is a crawl observer that mirrors session progress into the
// history database. Page rows are written as fetches happen; the
// session row is written once, when the crawl reaches a terminal state.
//
// Database problems are logged and swallowed. History is a convenience;
// it must never interfere with a running crawl.
type Recorder struct {
	db      *CrawlDB
	session *model.Session
	logger  *slog.Logger
}

// NewRecorder creates a Recorder for one session.
func NewRecorder(db *CrawlDB, session *model.Session, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{db: db, session: session, logger: logger}
}

// OnProgress records one fetch attempt.
func (r *Recorder) OnProgress(url string, depth int, success bool, reason string) {
	record := &PageRecord{
		SessionID: r.session.ID,
		URL:       url,
		Depth:     depth,
		Success:   success,
		Reason:    reason,
	}
	if err := r.db.InsertPage(context.Background(), record); err != nil {
		r.logger.Warn("history write failed", "url", url, "error", err)
	}
}

// OnComplete stores the finished session.
func (r *Recorder) OnComplete(fetched, failed int) {
	r.saveSession()
}

// OnCancelled stores the cancelled session.
func (r *Recorder) OnCancelled() {
	r.saveSession()
}

func (r *Recorder) saveSession() {
	if err := r.db.SaveSession(context.Background(), r.session); err != nil {
		r.logger.Warn("history write failed", "session", r.session.ID, "error", err)
	}
}
