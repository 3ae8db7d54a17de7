package crawler

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// blockedExtensions are link targets never crawled or downloaded,
// regardless of other settings.
var blockedExtensions = []string{".exe", ".bin"}

// Scope decides which discovered links are eligible for crawling.
// By default only links on the seed's host are followed; external hosts,
// non-HTTP schemes, and blocked extensions are rejected. Extra file types
// (e.g. ".pdf") are classified as download-only: the mirror writer saves
// them but the coordinator never crawls them.
type Scope struct {
	// baseHost is the seed URL's host, used for the same-host check.
	baseHost string

	// followExternal lifts the same-host restriction.
	followExternal bool

	// fileTypes are extra extensions to download instead of crawl.
	fileTypes []string

	// ignorePatterns are URL path globs to skip during crawling.
	ignorePatterns []string

	// followPatterns, when set, restrict crawling to matching paths.
	followPatterns []string
}

// ScopeOption configures a Scope.
type ScopeOption func(*Scope)

// WithFollowExternal allows crawling hosts other than the seed's.
func WithFollowExternal(follow bool) ScopeOption {
	return func(s *Scope) {
		s.followExternal = follow
	}
}

// WithFileTypes sets extra file extensions treated as download-only.
// Extensions are matched case-insensitively and should include the dot.
func WithFileTypes(types []string) ScopeOption {
	return func(s *Scope) {
		s.fileTypes = types
	}
}

// WithIgnorePatterns sets URL path globs to skip (e.g. "/logout*").
func WithIgnorePatterns(patterns []string) ScopeOption {
	return func(s *Scope) {
		s.ignorePatterns = patterns
	}
}

// WithFollowPatterns restricts crawling to URL paths matching at least
// one of the given globs. Empty means all paths are allowed.
func WithFollowPatterns(patterns []string) ScopeOption {
	return func(s *Scope) {
		s.followPatterns = patterns
	}
}

// NewScope creates a Scope anchored at the seed URL.
func NewScope(seedURL string, opts ...ScopeOption) (*Scope, error) {
	u, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}

	s := &Scope{baseHost: u.Host}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ShouldCrawl reports whether link is eligible for fetching.
func (s *Scope) ShouldCrawl(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if !s.followExternal && !strings.EqualFold(u.Host, s.baseHost) {
		return false
	}

	lower := strings.ToLower(u.Path)
	for _, ext := range blockedExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}

	// Download-only targets are handled by the mirror writer.
	if s.IsDownloadOnly(link) {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	for _, pattern := range s.ignorePatterns {
		if matchPattern(pattern, path) {
			return false
		}
	}
	if len(s.followPatterns) > 0 {
		for _, pattern := range s.followPatterns {
			if matchPattern(pattern, path) {
				return true
			}
		}
		return false
	}
	return true
}

// IsDownloadOnly reports whether link matches the extra file-type list.
func (s *Scope) IsDownloadOnly(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	lower := strings.ToLower(u.Path)
	for _, ext := range s.fileTypes {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// matchPattern checks a URL path against a glob pattern. Prefix patterns
// like "/admin/*" match the whole subtree, "*.pdf" matches by extension,
// and anything else goes through filepath.Match semantics.
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		if strings.HasSuffix(path, strings.TrimPrefix(pattern, "*")) {
			return true
		}
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	// Patterns without a slash also match against the last path segment,
	// so "*.pdf" works for "/docs/file.pdf".
	if !strings.Contains(pattern, "/") {
		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}
	return false
}

// NormalizeURL canonicalizes a URL for frontier deduplication: scheme and
// host are lowercased, the fragment is dropped, and an empty path becomes
// "/" so that "http://example.com" and "http://example.com/" collapse to
// one entry. Seeds without a scheme default to https.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("empty URL")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL has no host: %s", rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}
