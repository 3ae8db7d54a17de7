package model

import (
	"strings"
	"time"
)

// MaxBodySize is the default cap on response body bytes kept in memory.
// Larger responses are truncated at read time to prevent memory exhaustion
// from unexpectedly large pages.
const MaxBodySize = 10 * 1024 * 1024 // 10 MB

// AssetKind classifies a page asset for download filtering.
// The mirror writer uses the kind to honor the per-kind download toggles
// (images, stylesheets, scripts) and the extra file-type list.
type AssetKind string

// Asset kinds recognized by the parser.
const (
	// AssetImage is an <img> source or favicon reference.
	AssetImage AssetKind = "image"

	// AssetStylesheet is a <link rel="stylesheet"> reference.
	AssetStylesheet AssetKind = "stylesheet"

	// AssetScript is a <script src> reference.
	AssetScript AssetKind = "script"

	// AssetFile is a hyperlink target matched by the extra file-type list
	// (e.g. ".pdf"). These are downloaded but never crawled.
	AssetFile AssetKind = "file"
)

// Asset is a downloadable resource referenced by a page.
type Asset struct {
	// URL is the absolute URL of the resource.
	URL string `json:"url"`

	// Kind classifies the resource for download filtering.
	Kind AssetKind `json:"kind"`
}

// FetchResult is the outcome of fetching a single URL.
// It is ephemeral: the coordinator hands it to the observer and the mirror
// writer and then discards it. The body is never retained past that.
//
// Design decision: Fetch failures are represented as data (Success=false
// plus Reason) rather than as a returned error. The fetcher contract is
// that nothing propagates past its boundary; the coordinator treats a
// failed page as a counted event, not as control flow.
type FetchResult struct {
	// URL is the fetched URL after normalization.
	URL string `json:"url"`

	// Depth is the link distance from the seed at which the URL was found.
	Depth int `json:"depth"`

	// StatusCode is the HTTP response status, or 0 when the request never
	// produced a response (connection error, timeout).
	StatusCode int `json:"status_code"`

	// ContentType is the MIME type from the Content-Type header.
	ContentType string `json:"content_type,omitempty"`

	// Title is the page title for HTML content, empty otherwise.
	Title string `json:"title,omitempty"`

	// Body is the raw response payload, capped at the configured body size.
	// Excluded from JSON to keep reports small.
	Body []byte `json:"-"`

	// Links are the outbound hyperlinks extracted from HTML content,
	// resolved to absolute form, in document order. Duplicates within one
	// page are allowed; deduplication happens at the frontier.
	Links []string `json:"-"`

	// Assets are page resources (images, stylesheets, scripts) referenced
	// by the document, for the mirror writer.
	Assets []Asset `json:"-"`

	// Success reports whether the fetch counts as a successfully retrieved
	// page. Unparseable HTML with a 2xx status still counts as success.
	Success bool `json:"success"`

	// Reason describes why the fetch failed. Empty on success.
	Reason string `json:"reason,omitempty"`

	// FetchedAt is when the request completed.
	FetchedAt time.Time `json:"fetched_at"`
}

// IsHTML reports whether the result carries an HTML payload.
func (r *FetchResult) IsHTML() bool {
	ct := strings.ToLower(r.ContentType)
	return strings.Contains(ct, "text/html") ||
		strings.Contains(ct, "application/xhtml+xml")
}
