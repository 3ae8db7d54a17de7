// Package crawler implements the depth-bounded, bounded-concurrency
// website crawler at the core of scrapv2.
//
// # Components
//
//   - Frontier: FIFO queue of discovered URLs plus the seen-set used for
//     deduplication. The only shared mutable state of a crawl.
//   - Fetcher: performs a single HTTP GET with timeout and extracts links
//     and assets from HTML responses. Failures never propagate past its
//     boundary; they come back as failed results.
//   - Scope: decides which discovered links are eligible for crawling
//     (same-host restriction, scheme checks, glob patterns).
//   - Coordinator: drives a fixed pool of workers over the frontier,
//     enforces the per-worker politeness delay, and reports progress
//     through the Observer interface.
//
// # Concurrency
//
// Workers share one Frontier instance; its Enqueue/Dequeue pair is the
// only access path and both are guarded by a single mutex, so dequeue is
// exactly-once and the seen-check-then-insert in Enqueue is atomic.
// Completion is detected with an outstanding-work counter that a worker
// decrements only after enqueuing the links of the page it just
// processed, which closes the race between "frontier looks empty" and
// "another worker is about to enqueue".
//
// Cancellation is cooperative: workers observe the context between units
// of work (before dequeue and before fetch), an in-flight fetch always
// completes or times out on its own, and links discovered after
// cancellation are discarded.
//
// # Usage
//
//	fetcher := crawler.NewFetcher(httpClient)
//	scope, _ := crawler.NewScope(seed)
//	coord := crawler.NewCoordinator(fetcher, scope, crawler.WithObserver(obs))
//	err := coord.Run(ctx, session)
package crawler
