package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/moamenalmahe/scrapv2-ui/internal/model"
)

// openTestDB opens a fresh database in a temp directory.
func openTestDB(t *testing.T) *CrawlDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return db
}

// TestOpen tests database creation behavior.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database and directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "history")
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("expected open to succeed, got %v", err)
		}
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})

	t.Run("missing database without create option", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})
}

// TestSaveSession tests storing and listing session rows.
func TestSaveSession(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	session := model.NewSession("https://example.com/", 2, 100*time.Millisecond, 3)
	session.OutputDir = "/tmp/mirror"
	if err := session.Begin(); err != nil {
		t.Fatal(err)
	}
	session.RecordFetched()
	session.RecordFetched()
	session.RecordFailed()
	if err := session.Complete(); err != nil {
		t.Fatal(err)
	}

	if err := db.SaveSession(ctx, session); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}

	sessions, err := db.ListSessions(ctx, 0)
	if err != nil {
		t.Fatalf("expected list to succeed, got %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}

	got := sessions[0]
	if got.ID != session.ID {
		t.Errorf("expected ID %s, got %s", session.ID, got.ID)
	}
	if got.SeedURL != "https://example.com/" {
		t.Errorf("unexpected seed URL %q", got.SeedURL)
	}
	if got.State != string(model.StateCompleted) {
		t.Errorf("expected completed state, got %q", got.State)
	}
	if got.Fetched != 2 || got.Failed != 1 {
		t.Errorf("expected counters 2/1, got %d/%d", got.Fetched, got.Failed)
	}
	if got.Delay != 100*time.Millisecond {
		t.Errorf("expected delay 100ms, got %v", got.Delay)
	}
	if got.StartedAt.IsZero() || got.FinishedAt.IsZero() {
		t.Error("expected timestamps to round-trip")
	}
}

// TestSaveSessionUpsert tests that re-saving a session updates in place.
func TestSaveSessionUpsert(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	session := model.NewSession("https://example.com/", 1, 0, 1)
	if err := session.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSession(ctx, session); err != nil {
		t.Fatal(err)
	}

	session.RecordFetched()
	if err := session.Complete(); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSession(ctx, session); err != nil {
		t.Fatal(err)
	}

	sessions, err := db.ListSessions(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected a single row after upsert, got %d", len(sessions))
	}
	if sessions[0].Fetched != 1 {
		t.Errorf("expected updated counter, got %d", sessions[0].Fetched)
	}
}

// TestListSessionsLimit tests the result limit.
func TestListSessionsLimit(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		session := model.NewSession("https://example.com/", 1, 0, 1)
		if err := session.Begin(); err != nil {
			t.Fatal(err)
		}
		if err := session.Complete(); err != nil {
			t.Fatal(err)
		}
		if err := db.SaveSession(ctx, session); err != nil {
			t.Fatal(err)
		}
	}

	sessions, err := db.ListSessions(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 3 {
		t.Errorf("expected 3 sessions with limit, got %d", len(sessions))
	}
}

// TestPages tests inserting and reading page rows.
func TestPages(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	records := []*PageRecord{
		{SessionID: "s1", URL: "https://example.com/", Depth: 0, StatusCode: 200, Success: true},
		{SessionID: "s1", URL: "https://example.com/a", Depth: 1, StatusCode: 404, Success: false, Reason: "HTTP 404"},
		{SessionID: "s2", URL: "https://other.com/", Depth: 0, StatusCode: 200, Success: true},
	}
	for _, rec := range records {
		if err := db.InsertPage(ctx, rec); err != nil {
			t.Fatalf("expected insert to succeed, got %v", err)
		}
	}

	pages, err := db.GetSessionPages(ctx, "s1")
	if err != nil {
		t.Fatalf("expected query to succeed, got %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages for session, got %d", len(pages))
	}
	if pages[0].URL != "https://example.com/" {
		t.Errorf("expected fetch order preserved, got %q first", pages[0].URL)
	}
	if pages[1].Success || pages[1].Reason != "HTTP 404" {
		t.Errorf("expected failure row to round-trip, got %+v", pages[1])
	}

	t.Run("was fetched", func(t *testing.T) {
		ok, err := db.WasFetched(ctx, "https://example.com/a")
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("expected known URL to be found")
		}

		ok, err = db.WasFetched(ctx, "https://example.com/unknown")
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Error("expected unknown URL not to be found")
		}
	})
}

// TestRecorder tests the observer that mirrors a crawl into the
// database.
func TestRecorder(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	session := model.NewSession("https://example.com/", 1, 0, 1)
	if err := session.Begin(); err != nil {
		t.Fatal(err)
	}

	rec := NewRecorder(db, session, nil)
	rec.OnProgress("https://example.com/", 0, true, "")
	rec.OnProgress("https://example.com/missing", 1, false, "HTTP 404")

	session.RecordFetched()
	session.RecordFailed()
	if err := session.Complete(); err != nil {
		t.Fatal(err)
	}
	rec.OnComplete(1, 1)

	pages, err := db.GetSessionPages(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Errorf("expected 2 recorded pages, got %d", len(pages))
	}

	stored, err := db.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored == nil {
		t.Fatal("expected session row after OnComplete")
	}
	if stored.State != string(model.StateCompleted) {
		t.Errorf("expected completed state, got %q", stored.State)
	}
}
