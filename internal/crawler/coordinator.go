package crawler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/moamenalmahe/scrapv2-ui/internal/model"
)

// Configuration errors returned by Run before any work starts.
// These are the only session-fatal errors: once a session is Running,
// individual page failures are counted and reported but never abort it.
var (
	// ErrEmptySeedURL is returned when the session has no seed URL.
	ErrEmptySeedURL = errors.New("empty seed URL")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidDepth is returned when the max depth is negative.
	ErrInvalidDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidDelay is returned when the politeness delay is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")
)

// defaultPollInterval is how long an idle worker waits before re-checking
// the frontier while other workers still have fetches in flight.
const defaultPollInterval = 25 * time.Millisecond

// Coordinator drives a depth-bounded crawl over a frontier with a fixed
// pool of workers. One Coordinator runs one session at a time; separate
// sessions use separate Coordinator values, so nothing here is
// process-global.
type Coordinator struct {
	fetcher   *Fetcher
	scope     *Scope
	observers []Observer
	sink      Sink
	logger    *slog.Logger

	// pollInterval is the idle-worker backoff. Tests shorten it.
	pollInterval time.Duration

	// mu guards outstanding.
	mu sync.Mutex

	// outstanding counts enqueued-but-unfinished URLs: it is incremented
	// on every successful enqueue and decremented only after a worker has
	// finished processing the URL, including enqueuing the links found on
	// it. The crawl is complete exactly when the frontier is empty and
	// outstanding is zero; because the decrement happens after the
	// enqueues, a worker can never observe a transient "empty" state
	// while another worker is about to add links from a page it just
	// fetched.
	outstanding int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithObserver registers a progress observer. Multiple observers are
// notified in registration order.
func WithObserver(obs Observer) Option {
	return func(c *Coordinator) {
		c.observers = append(c.observers, obs)
	}
}

// WithSink sets the page persistence sink.
func WithSink(sink Sink) Option {
	return func(c *Coordinator) {
		c.sink = sink
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithPollInterval overrides the idle-worker backoff interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// NewCoordinator creates a Coordinator crawling within the given scope.
func NewCoordinator(fetcher *Fetcher, scope *Scope, opts ...Option) *Coordinator {
	c := &Coordinator{
		fetcher:      fetcher,
		scope:        scope,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Run executes the crawl described by session and blocks until the
// session reaches a terminal state.
//
// Configuration problems are rejected before any fetch starts: the
// session moves to Failed and the error is returned. After a successful
// start, Run only returns once all workers have exited; the session ends
// Completed when the frontier drained, or Cancelled when ctx was
// cancelled. Cancellation is cooperative: workers observe ctx between
// units of work, in-flight fetches finish on their own, and their links
// are discarded.
func (c *Coordinator) Run(ctx context.Context, session *model.Session) error {
	if err := c.validate(session); err != nil {
		if ferr := session.Fail(); ferr != nil {
			return ferr
		}
		return err
	}

	seed, err := NormalizeURL(session.SeedURL)
	if err != nil {
		if ferr := session.Fail(); ferr != nil {
			return ferr
		}
		return err
	}
	session.SeedURL = seed

	if err := session.Begin(); err != nil {
		return err
	}

	frontier := NewFrontier()
	c.enqueue(frontier, seed, 0)

	c.logger.Info("crawl started",
		"session", session.ID,
		"seed", seed,
		"maxDepth", session.MaxDepth,
		"workers", session.Workers,
		"delay", session.Delay,
	)

	// The derived context is for the workers only. The caller's ctx must
	// stay untouched: errgroup cancels its derived context when Wait
	// returns, so consulting the derived one after Wait would make every
	// drained crawl look cancelled.
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < session.Workers; i++ {
		g.Go(func() error {
			c.worker(gctx, session, frontier)
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes shutdown.
	_ = g.Wait()

	fetched, failed := session.Counts()
	if ctx.Err() != nil {
		if err := session.Cancel(); err != nil {
			return err
		}
		c.logger.Info("crawl cancelled", "session", session.ID, "fetched", fetched, "failed", failed)
		for _, obs := range c.observers {
			obs.OnCancelled()
		}
		return nil
	}

	if err := session.Complete(); err != nil {
		return err
	}
	c.logger.Info("crawl completed", "session", session.ID, "fetched", fetched, "failed", failed)
	for _, obs := range c.observers {
		obs.OnComplete(fetched, failed)
	}
	return nil
}

// validate rejects configurations the crawl cannot start with.
func (c *Coordinator) validate(session *model.Session) error {
	if session.SeedURL == "" {
		return ErrEmptySeedURL
	}
	if session.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if session.MaxDepth < 0 {
		return ErrInvalidDepth
	}
	if session.Delay < 0 {
		return ErrInvalidDelay
	}
	return nil
}

// worker is the loop run by each member of the pool. It exits when the
// crawl is complete or the context is cancelled.
func (c *Coordinator) worker(ctx context.Context, session *model.Session, frontier *Frontier) {
	for {
		// Cancellation check before dequeue.
		if ctx.Err() != nil {
			return
		}

		pageURL, depth, ok := frontier.Dequeue()
		if !ok {
			// The frontier is empty. If nothing is outstanding the crawl
			// is done; otherwise an in-flight fetch may still produce new
			// links, so back off and look again.
			if c.outstandingCount() == 0 {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.pollInterval):
			}
			continue
		}

		// Cancellation check before fetch. The dequeued record is
		// dropped; the session is terminal anyway.
		if ctx.Err() != nil {
			return
		}

		c.process(ctx, session, frontier, pageURL, depth)

		// Politeness delay between this worker's consecutive fetches.
		// Applied per worker, not globally: each worker bounds its own
		// request rate independently.
		if session.Delay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(session.Delay):
			}
		}
	}
}

// process fetches one URL and handles everything that follows from it:
// counters, observer notification, persistence, and child enqueues. The
// outstanding counter is decremented last, after the enqueues.
func (c *Coordinator) process(ctx context.Context, session *model.Session, frontier *Frontier, pageURL string, depth int) {
	defer c.decrementOutstanding()

	// The fetch itself is detached from session cancellation: an in-flight
	// request finishes or times out per the client timeout, it is never
	// aborted mid-read. Cancellation is observed at loop boundaries only.
	result := c.fetcher.Fetch(context.WithoutCancel(ctx), pageURL, depth)

	if result.Success {
		session.RecordFetched()
	} else {
		session.RecordFailed()
		c.logger.Debug("page failed", "url", pageURL, "depth", depth, "reason", result.Reason)
	}

	for _, obs := range c.observers {
		obs.OnProgress(result.URL, depth, result.Success, result.Reason)
	}

	if result.Success && c.sink != nil {
		if err := c.sink.Persist(ctx, result); err != nil {
			// Output problems are the writer's concern; the crawl goes on.
			c.logger.Warn("persist failed", "url", pageURL, "error", err)
		}
	}

	// Links found after cancellation are discarded: the session is
	// terminal and nothing new may enter the frontier.
	if !result.Success || depth >= session.MaxDepth || ctx.Err() != nil {
		return
	}
	for _, link := range result.Links {
		if !c.scope.ShouldCrawl(link) {
			continue
		}
		// Frontier keys are normalized so that trivially different
		// spellings of one URL collapse to a single record.
		normalized, err := NormalizeURL(link)
		if err != nil {
			continue
		}
		c.enqueue(frontier, normalized, depth+1)
	}
}

// enqueue adds a URL to the frontier and tracks it as outstanding work.
func (c *Coordinator) enqueue(frontier *Frontier, url string, depth int) {
	if frontier.Enqueue(url, depth) {
		c.mu.Lock()
		c.outstanding++
		c.mu.Unlock()
	}
}

// decrementOutstanding marks one unit of work as fully processed.
func (c *Coordinator) decrementOutstanding() {
	c.mu.Lock()
	c.outstanding--
	c.mu.Unlock()
}

// outstandingCount returns the number of enqueued-but-unfinished URLs.
func (c *Coordinator) outstandingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outstanding
}
