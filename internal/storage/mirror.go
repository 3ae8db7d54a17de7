package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/moamenalmahe/scrapv2-ui/internal/model"
)

// Mirror writes fetched pages and their assets to a local directory
// tree that mimics the site's URL structure. It implements the
// coordinator's Sink interface and is safe for concurrent use by
// multiple workers.
//
// Design decision: The Mirror downloads assets with its own HTTP client
// rather than routing them through the frontier. Assets are leaves, not
// pages: they carry no links, do not count against the depth bound, and
// skipping the frontier keeps the crawl counters meaning "pages".
type Mirror struct {
	// root is the output directory. Created lazily on first write.
	root string

	client    *http.Client
	userAgent string
	logger    *slog.Logger

	// Asset download toggles.
	images bool
	css    bool
	js     bool

	// fileTypes are extra extensions (".pdf") downloaded when linked.
	fileTypes []string

	// maxAssetSize caps each asset download in bytes.
	maxAssetSize int64

	// mu guards downloaded, the cross-page asset dedup set. A stylesheet
	// referenced by every page is fetched once.
	mu         sync.Mutex
	downloaded map[string]bool
}

// defaultMaxAssetSize caps asset downloads at 50MB. Assets are written
// to disk, so the cap is looser than the in-memory page body limit.
const defaultMaxAssetSize = 50 * 1024 * 1024

// MirrorOption configures a Mirror.
type MirrorOption func(*Mirror)

// WithHTTPClient sets the client used for asset downloads.
func WithHTTPClient(client *http.Client) MirrorOption {
	return func(m *Mirror) {
		if client != nil {
			m.client = client
		}
	}
}

// WithUserAgent sets the User-Agent sent with asset requests.
func WithUserAgent(ua string) MirrorOption {
	return func(m *Mirror) {
		if ua != "" {
			m.userAgent = ua
		}
	}
}

// WithAssetDownloads toggles asset downloads by kind.
func WithAssetDownloads(images, css, js bool) MirrorOption {
	return func(m *Mirror) {
		m.images = images
		m.css = css
		m.js = js
	}
}

// WithFileTypes sets extra file extensions (".pdf", ".zip") downloaded
// when a page links to them. Extensions are matched case-insensitively;
// a missing leading dot is added.
func WithFileTypes(types []string) MirrorOption {
	return func(m *Mirror) {
		for _, t := range types {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if !strings.HasPrefix(t, ".") {
				t = "." + t
			}
			m.fileTypes = append(m.fileTypes, t)
		}
	}
}

// WithMirrorLogger sets a custom structured logger.
func WithMirrorLogger(logger *slog.Logger) MirrorOption {
	return func(m *Mirror) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMaxAssetSize overrides the per-asset download cap.
func WithMaxAssetSize(n int64) MirrorOption {
	return func(m *Mirror) {
		if n > 0 {
			m.maxAssetSize = n
		}
	}
}

// NewMirror creates a Mirror rooted at the given output directory.
// Asset downloads default to enabled for all kinds.
func NewMirror(outputDir string, opts ...MirrorOption) *Mirror {
	m := &Mirror{
		root:         outputDir,
		client:       &http.Client{},
		images:       true,
		css:          true,
		js:           true,
		maxAssetSize: defaultMaxAssetSize,
		downloaded:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Persist writes the page body to the mirror and downloads the page's
// assets. Individual asset failures are logged and skipped; only a
// failure to write the page itself is returned.
func (m *Mirror) Persist(ctx context.Context, result *model.FetchResult) error {
	if err := m.writePage(result); err != nil {
		return err
	}

	for _, asset := range result.Assets {
		if !m.wantKind(asset.Kind) {
			continue
		}
		m.download(ctx, asset.URL)
	}

	// Hyperlinks to listed file types are downloads, not pages. The
	// scope keeps them out of the frontier; the mirror picks them up
	// here.
	for _, link := range result.Links {
		if m.matchesFileType(link) {
			m.download(ctx, link)
		}
	}
	return nil
}

// writePage maps the page URL to a local path and writes the body.
func (m *Mirror) writePage(result *model.FetchResult) error {
	localPath, err := m.LocalPath(result.URL)
	if err != nil {
		return fmt.Errorf("failed to map %s to a local path: %w", result.URL, err)
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0750); err != nil {
		return fmt.Errorf("failed to create mirror directory: %w", err)
	}
	if err := os.WriteFile(localPath, result.Body, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}
	m.logger.Debug("page mirrored", "url", result.URL, "path", localPath)
	return nil
}

// LocalPath maps a URL to its file path under the output directory.
//
// The host becomes the top-level directory (port colons replaced with
// underscores so the name is valid on every filesystem), the URL path
// maps directly below it, and directory-style or extensionless paths
// get an index.html file name.
func (m *Mirror) LocalPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL %q has no host", rawURL)
	}

	host := strings.ReplaceAll(u.Host, ":", "_")

	// Clean the path and strip any traversal; everything stays under the
	// host directory no matter what the URL says.
	p := path.Clean("/" + u.Path)
	if p == "/" || strings.HasSuffix(u.Path, "/") {
		p = path.Join(p, "index.html")
	} else if path.Ext(p) == "" {
		p = path.Join(p, "index.html")
	}

	return filepath.Join(m.root, host, filepath.FromSlash(p)), nil
}

// wantKind reports whether assets of this kind should be downloaded.
func (m *Mirror) wantKind(kind model.AssetKind) bool {
	switch kind {
	case model.AssetImage:
		return m.images
	case model.AssetStylesheet:
		return m.css
	case model.AssetScript:
		return m.js
	case model.AssetFile:
		return true
	default:
		return false
	}
}

// matchesFileType reports whether the link ends in a listed extension.
func (m *Mirror) matchesFileType(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, t := range m.fileTypes {
		if ext == t {
			return true
		}
	}
	return false
}

// download fetches a single asset and writes it to the mirror. Each URL
// is downloaded at most once per Mirror. Failures are logged, never
// returned: a broken image does not concern the page it appeared on.
func (m *Mirror) download(ctx context.Context, assetURL string) {
	m.mu.Lock()
	if m.downloaded[assetURL] {
		m.mu.Unlock()
		return
	}
	m.downloaded[assetURL] = true
	m.mu.Unlock()

	localPath, err := m.LocalPath(assetURL)
	if err != nil {
		m.logger.Debug("asset skipped", "url", assetURL, "error", err)
		return
	}
	// Asset URLs always carry an extension-like final segment; undo the
	// index.html mapping for the rare extensionless one.
	if filepath.Base(localPath) == "index.html" && !strings.HasSuffix(assetURL, "/") {
		localPath = filepath.Dir(localPath)
		if filepath.Ext(localPath) == "" {
			localPath += ".bin"
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		m.logger.Debug("asset skipped", "url", assetURL, "error", err)
		return
	}
	if m.userAgent != "" {
		req.Header.Set("User-Agent", m.userAgent)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Debug("asset download failed", "url", assetURL, "error", err)
		return
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close on response body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		m.logger.Debug("asset download failed", "url", assetURL, "status", resp.StatusCode)
		return
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0750); err != nil {
		m.logger.Warn("asset write failed", "url", assetURL, "error", err)
		return
	}
	f, err := os.OpenFile(localPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600) //nolint:gosec // Path derives from the configured output dir
	if err != nil {
		m.logger.Warn("asset write failed", "url", assetURL, "error", err)
		return
	}
	_, err = io.Copy(f, io.LimitReader(resp.Body, m.maxAssetSize))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		m.logger.Warn("asset write failed", "url", assetURL, "error", err)
		return
	}
	m.logger.Debug("asset mirrored", "url", assetURL, "path", localPath)
}
