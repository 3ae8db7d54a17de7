// Package report renders finished crawl sessions as text, JSON, or
// Markdown summaries.
//
// All writers consume the same Summary value, built from the session
// and the failed pages collected during the crawl, and implement a
// common Writer interface so output format and destination are chosen
// independently.
package report
