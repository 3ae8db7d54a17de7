package crawler

import (
	"sync"
)

// record is a URL awaiting fetch, paired with its discovery depth.
type record struct {
	url   string
	depth int
}

// Frontier tracks the set of URLs ever seen and the FIFO queue of URLs
// awaiting fetch. It is owned by the Coordinator and shared by all
// workers; Enqueue and Dequeue are the only operations, and both are safe
// for concurrent use.
//
// Design decision: One mutex covers both the seen-set and the queue.
// Enqueue must check the seen-set and insert into it atomically, otherwise
// two workers discovering the same URL simultaneously could both enqueue
// it. Splitting the lock would reintroduce that check-then-act race.
type Frontier struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	queue []record
}

// NewFrontier creates an empty frontier. A fresh frontier is created for
// every crawl session; the seen-set is never carried across sessions.
func NewFrontier() *Frontier {
	return &Frontier{
		seen: make(map[string]struct{}),
	}
}

// Enqueue adds url at the given depth if and only if it has never been
// seen. The URL is marked seen immediately, before any fetch completes,
// so concurrent discoveries of the same URL collapse to one enqueue.
// It reports whether the URL was actually added.
func (f *Frontier) Enqueue(url string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.seen[url]; ok {
		return false
	}
	f.seen[url] = struct{}{}
	f.queue = append(f.queue, record{url: url, depth: depth})
	return true
}

// Dequeue removes and returns the oldest pending record. The third return
// value is false when the frontier has no pending records. Concurrent
// callers never receive the same record.
func (f *Frontier) Dequeue() (url string, depth int, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", 0, false
	}
	head := f.queue[0]
	f.queue = f.queue[1:]
	return head.url, head.depth, true
}

// Pending returns the number of records awaiting fetch.
func (f *Frontier) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// SeenCount returns the number of unique URLs ever enqueued. Within a
// session this value is monotonically non-decreasing.
func (f *Frontier) SeenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}
