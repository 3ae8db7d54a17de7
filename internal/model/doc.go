// Package model defines the core data structures shared across scrapv2.
// It contains the fetch result produced by the crawler, the crawl session
// with its lifecycle state machine, and the asset descriptors consumed by
// the mirror writer.
//
// Design decision: Data structures live in their own package so that the
// crawler, storage, database, and report packages can share them without
// importing each other. The model package depends on nothing internal.
package model
