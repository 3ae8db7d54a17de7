package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/moamenalmahe/scrapv2-ui/internal/model"
)

// DefaultUserAgent identifies scrapv2 in HTTP requests. A descriptive
// User-Agent lets site operators recognize scraper traffic in their logs.
const DefaultUserAgent = "scrapv2/2.0 (+https://github.com/moamenalmahe/scrapv2-ui)"

// Fetcher retrieves single pages over HTTP and extracts their outbound
// links. It holds no crawl state: the same Fetcher is shared by all
// workers and by independent sessions.
//
// Design decision: The HTTP client is injected rather than constructed
// here because the caller owns transport concerns (timeout, proxy,
// redirect policy) and tests substitute an httptest client.
type Fetcher struct {
	// client performs the requests. Its Timeout bounds each fetch.
	client *http.Client

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize caps how many response bytes are read.
	maxBodySize int64

	// headers are extra request headers, typically from a site config.
	headers map[string]string

	// cookie is an optional Cookie header value for authenticated crawls.
	cookie string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize caps the number of response body bytes read per page.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithHeaders sets extra request headers sent with every fetch.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithCookie sets the Cookie header value sent with every fetch.
// Format: "name=value" or "name1=value1; name2=value2".
func WithCookie(cookie string) FetcherOption {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: model.MaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs a single GET request for url discovered at depth.
//
// Errors never escape this method: network failures, timeouts, and
// non-2xx statuses all come back as a FetchResult with Success=false and
// a human-readable Reason. A 2xx page whose HTML cannot be parsed is
// still a success with an empty link list.
//
// Fetch has no side effects beyond the network call. It never touches
// the frontier and never writes files.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string, depth int) *model.FetchResult {
	result := &model.FetchResult{
		URL:   pageURL,
		Depth: depth,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return f.fail(result, fmt.Sprintf("invalid request: %v", err))
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return f.fail(result, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.ContentType = resp.Header.Get("Content-Type")

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return f.fail(result, fmt.Sprintf("reading body: %v", err))
	}
	result.Body = body
	result.FetchedAt = time.Now()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return f.fail(result, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}
	result.Success = true

	if result.IsHTML() {
		f.extractLinks(result)
	}
	return result
}

// fail marks the result as a failed page and stamps the fetch time.
func (f *Fetcher) fail(result *model.FetchResult, reason string) *model.FetchResult {
	result.Success = false
	result.Reason = reason
	if result.FetchedAt.IsZero() {
		result.FetchedAt = time.Now()
	}
	return result
}

// extractLinks parses the HTML body and fills Title, Links, and Assets.
// Parse problems are swallowed: a page that cannot be parsed simply
// yields no links, it does not become a failed fetch.
func (f *Fetcher) extractLinks(result *model.FetchResult) {
	parser, err := NewParser(result.URL)
	if err != nil {
		return
	}

	parsed, err := parser.Parse(bytes.NewReader(f.decodeBody(result)))
	if err != nil {
		return
	}

	result.Title = parsed.Title
	result.Links = parsed.Links
	result.Assets = parsed.Assets
}

// decodeBody converts the body to UTF-8 when the Content-Type declares a
// different charset. The raw body is left untouched so the mirror writer
// persists exactly what the server sent.
func (f *Fetcher) decodeBody(result *model.FetchResult) []byte {
	_, params, err := mime.ParseMediaType(result.ContentType)
	if err != nil {
		return result.Body
	}
	charset := strings.ToLower(params["charset"])
	if charset == "" || charset == "utf-8" {
		return result.Body
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return result.Body
	}
	decoded, err := enc.NewDecoder().Bytes(result.Body)
	if err != nil {
		return result.Body
	}
	return decoded
}
