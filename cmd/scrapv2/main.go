// Package main provides the entry point for the scrapv2 CLI.
//
// scrapv2 is a polite website mirroring tool. It crawls a site to a
// bounded link depth with a fixed pool of workers, saves pages and
// their assets to a local directory, and records crawl history.
//
// Usage:
//
//	scrapv2 crawl <url>
//	scrapv2 history
//
// See --help for all available options.
package main

// main is the entry point for scrapv2.
func main() {
	Execute()
}
