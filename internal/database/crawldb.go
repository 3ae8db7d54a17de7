package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/moamenalmahe/scrapv2-ui/internal/model"
)

// dbFileName is the crawl history database file name.
const dbFileName = "scrapv2.db"

// CrawlDB provides SQLite-based storage for crawl sessions and the
// pages fetched during them. It manages connection pooling and provides
// methods for recording and querying history.
//
// Design decision: One database file for all sessions rather than one
// per session. The history subcommand queries across sessions, and a
// single file keeps backup/restore trivial.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created; otherwise a missing database is an error.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; the page recorder is called from
	// concurrent crawl workers, so serialize through a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Sessions store one row per crawl run
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		seed_url TEXT NOT NULL,
		max_depth INTEGER NOT NULL,
		delay_ms INTEGER NOT NULL,
		workers INTEGER NOT NULL,
		output_dir TEXT,
		state TEXT NOT NULL,
		fetched INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		started_at DATETIME,
		finished_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_seed ON sessions(seed_url);
	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);

	-- Pages store every fetch attempt within a session
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		url TEXT NOT NULL,
		depth INTEGER NOT NULL,
		status_code INTEGER,
		success INTEGER NOT NULL,
		reason TEXT,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(session_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_session ON pages(session_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveSession inserts or updates a session row with its final state and
// counters. Called once when the session reaches a terminal state.
func (cdb *CrawlDB) SaveSession(ctx context.Context, session *model.Session) error {
	fetched, failed := session.Counts()

	query := `
	INSERT INTO sessions (id, seed_url, max_depth, delay_ms, workers, output_dir, state, fetched, failed, started_at, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		state = excluded.state,
		fetched = excluded.fetched,
		failed = excluded.failed,
		finished_at = excluded.finished_at
	`

	_, err := cdb.db.ExecContext(ctx, query,
		session.ID,
		session.SeedURL,
		session.MaxDepth,
		session.Delay.Milliseconds(),
		session.Workers,
		session.OutputDir,
		string(session.State()),
		fetched,
		failed,
		session.StartedAt.UTC().Format(time.RFC3339),
		session.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// PageRecord represents one fetch attempt stored in the history.
type PageRecord struct {
	ID         int64
	SessionID  string
	URL        string
	Depth      int
	StatusCode int
	Success    bool
	Reason     string
	FetchedAt  time.Time
}

// InsertPage records one fetch attempt. Duplicate URLs within a session
// are updated in place; the frontier guarantees at most one fetch per
// URL, so the conflict branch only fires on retried sessions sharing an
// ID, which never happens in practice.
func (cdb *CrawlDB) InsertPage(ctx context.Context, record *PageRecord) error {
	query := `
	INSERT INTO pages (session_id, url, depth, status_code, success, reason)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(session_id, url) DO UPDATE SET
		status_code = excluded.status_code,
		success = excluded.success,
		reason = excluded.reason,
		fetched_at = CURRENT_TIMESTAMP
	`

	_, err := cdb.db.ExecContext(ctx, query,
		record.SessionID,
		record.URL,
		record.Depth,
		record.StatusCode,
		record.Success,
		record.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}
	return nil
}

// SessionSummary contains the stored metadata of one crawl session.
type SessionSummary struct {
	// ID is the session UUID.
	ID string

	// SeedURL is the crawl's starting URL.
	SeedURL string

	// MaxDepth, Delay, and Workers are the settings the session ran with.
	MaxDepth int
	Delay    time.Duration
	Workers  int

	// OutputDir is where the mirror was written.
	OutputDir string

	// State is the terminal state the session reached.
	State string

	// Fetched and Failed are the final page counters.
	Fetched int
	Failed  int

	// StartedAt and FinishedAt bracket the run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// ListSessions returns stored sessions, most recent first. A limit of
// zero or less returns all of them.
func (cdb *CrawlDB) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	query := `
	SELECT id, seed_url, max_depth, delay_ms, workers, output_dir, state, fetched, failed, started_at, finished_at
	FROM sessions
	ORDER BY started_at DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var results []SessionSummary
	for rows.Next() {
		var s SessionSummary
		var delayMS int64
		var outputDir sql.NullString
		var started, finished sql.NullString

		err := rows.Scan(
			&s.ID,
			&s.SeedURL,
			&s.MaxDepth,
			&delayMS,
			&s.Workers,
			&outputDir,
			&s.State,
			&s.Fetched,
			&s.Failed,
			&started,
			&finished,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		s.Delay = time.Duration(delayMS) * time.Millisecond
		s.OutputDir = outputDir.String
		if started.Valid {
			s.StartedAt = parseTimestamp(started.String)
		}
		if finished.Valid {
			s.FinishedAt = parseTimestamp(finished.String)
		}
		results = append(results, s)
	}

	return results, rows.Err()
}

// GetSession retrieves one session by its UUID. Returns nil when the
// session does not exist.
func (cdb *CrawlDB) GetSession(ctx context.Context, id string) (*SessionSummary, error) {
	sessions, err := cdb.ListSessions(ctx, 0)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
	}
	return nil, nil
}

// GetSessionPages retrieves the pages fetched during a session, in
// fetch order.
func (cdb *CrawlDB) GetSessionPages(ctx context.Context, sessionID string) ([]PageRecord, error) {
	query := `
	SELECT id, session_id, url, depth, status_code, success, reason, fetched_at
	FROM pages
	WHERE session_id = ?
	ORDER BY id
	`

	rows, err := cdb.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session pages: %w", err)
	}
	defer rows.Close()

	var results []PageRecord
	for rows.Next() {
		var p PageRecord
		var statusCode sql.NullInt64
		var reason sql.NullString
		var fetchedAt string

		err := rows.Scan(
			&p.ID,
			&p.SessionID,
			&p.URL,
			&p.Depth,
			&statusCode,
			&p.Success,
			&reason,
			&fetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}

		p.StatusCode = int(statusCode.Int64)
		p.Reason = reason.String
		p.FetchedAt = parseTimestamp(fetchedAt)
		results = append(results, p)
	}

	return results, rows.Err()
}

// WasFetched checks whether a URL appears in any stored session.
func (cdb *CrawlDB) WasFetched(ctx context.Context, url string) (bool, error) {
	var count int
	err := cdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages WHERE url = ?", url).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check page history: %w", err)
	}
	return count > 0, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats come first.
var timestampFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending
// on how the value was written. Returns zero time when nothing matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
