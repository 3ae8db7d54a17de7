package crawler

import (
	"context"

	"github.com/moamenalmahe/scrapv2-ui/internal/model"
)

// Observer receives progress callbacks from a running crawl. It is the
// narrow seam between the crawl core and whatever presentation layer is
// attached (CLI printer, progress bar, database recorder); the core never
// depends on presentation types.
//
// Callbacks may arrive from any worker goroutine. Completion-order across
// workers is inherently racy and callers must not assume any ordering
// beyond "OnComplete or OnCancelled arrives last, exactly once".
type Observer interface {
	// OnProgress is called after every fetch, successful or not.
	// reason is empty on success.
	OnProgress(url string, depth int, success bool, reason string)

	// OnComplete is called once when the frontier drains with no fetch
	// in flight.
	OnComplete(pagesFetched, pagesFailed int)

	// OnCancelled is called once when the session ends by cancellation.
	OnCancelled()
}

// Sink persists successfully fetched pages. The mirror writer implements
// it; the coordinator treats persistence errors as reportable events, not
// as crawl failures, so a broken output directory never aborts a session.
type Sink interface {
	// Persist stores the fetched page and whatever assets it references.
	Persist(ctx context.Context, result *model.FetchResult) error
}
