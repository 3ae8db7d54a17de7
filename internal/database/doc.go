// Package database provides SQLite-based storage for crawl history.
//
// Each finished session is recorded with its settings, final state, and
// counters, along with every page fetched during it. The history lives
// in a single database file under the XDG data directory and is read
// back by the history subcommand.
//
// The driver is modernc.org/sqlite, a pure Go port, so the binary
// builds without cgo.
package database
