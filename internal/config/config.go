package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. The crawl defaults mirror what the tool
// has always shipped with: shallow enough to finish quickly, polite
// enough not to hammer anyone's server.
const (
	// DefaultMaxDepth bounds the traversal at three link hops. Deeper
	// crawls grow roughly exponentially with typical fan-out, so the
	// default stays small and users raise it deliberately.
	DefaultMaxDepth = 3

	// DefaultDelay is the per-worker pause between consecutive requests.
	// 500ms keeps a five-worker crawl around ten requests per second
	// worst case, which most sites tolerate without rate limiting.
	DefaultDelay = 500 * time.Millisecond

	// DefaultWorkers is the size of the concurrent fetch pool.
	DefaultWorkers = 5

	// DefaultTimeout bounds each individual HTTP request.
	DefaultTimeout = 15 * time.Second

	// DefaultOutputDir is where mirrored content lands when the user
	// does not pick a directory.
	DefaultOutputDir = "./scraped_sites"

	// DefaultUserAgent identifies scrapv2 in HTTP requests.
	DefaultUserAgent = "scrapv2/2.0 (+https://github.com/moamenalmahe/scrapv2-ui)"

	// DefaultMaxBodySize caps response bodies at 10MB. Enough for any
	// sane HTML page; prevents memory exhaustion on mislabeled content.
	DefaultMaxBodySize = 10 * 1024 * 1024

	// AppName is the application name used for XDG directory paths.
	AppName = "scrapv2"
)

// Config holds all options for one crawl run. It is populated from CLI
// flags, optionally overlaid with per-site settings from the config
// file, validated once, and then passed through the application by
// value-of-pointer rather than via globals.
//
// Design decision: A single flat struct instead of nested sub-configs.
// The option count is manageable and nesting would only add indirection.
type Config struct {
	// SeedURL is the starting point of the crawl. Required.
	SeedURL string

	// MaxDepth is the maximum link distance from the seed. 0 means only
	// the seed page is fetched.
	MaxDepth int

	// Delay is the per-worker pause between consecutive fetches.
	Delay time.Duration

	// Workers is the number of concurrent fetch workers.
	Workers int

	// Timeout bounds each individual HTTP request.
	Timeout time.Duration

	// OutputDir is where the mirror writer persists fetched content.
	// The writer reports its own failures; an unwritable directory does
	// not prevent the crawl from running.
	OutputDir string

	// FollowExternal allows crawling beyond the seed URL's host.
	FollowExternal bool

	// DownloadImages, DownloadCSS, and DownloadJS toggle asset downloads
	// by kind. All default to true.
	DownloadImages bool
	DownloadCSS    bool
	DownloadJS     bool

	// FileTypes are extra file extensions (".pdf", ".zip") to download
	// when linked, without crawling them.
	FileTypes []string

	// UserAgent is sent with every HTTP request.
	UserAgent string

	// MaxBodySize caps response body reads in bytes.
	MaxBodySize int64

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// JSONReport and MarkdownReport select the session report format.
	// Mutually exclusive; when both are false a plain text summary is
	// written.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile, when set, receives the report instead of stdout.
	ReportFile string

	// HistoryDBDir is the directory of the SQLite crawl history.
	// Defaults to the XDG data directory.
	HistoryDBDir string

	// SaveHistory controls whether sessions are recorded in the history
	// database.
	SaveHistory bool

	// ConfigFilePath is an explicit path to the .scrapv2 config file.
	// Empty means search the working directory and then the home
	// directory.
	ConfigFilePath string

	// SiteConfigs holds per-site settings loaded from the config file.
	SiteConfigs *File
}

// NewConfig creates a Config with all defaults applied.
//
// Design decision: A constructor instead of zero values because most
// defaults are non-zero, and the constructor doubles as documentation of
// what those defaults are.
func NewConfig() *Config {
	return &Config{
		MaxDepth:       DefaultMaxDepth,
		Delay:          DefaultDelay,
		Workers:        DefaultWorkers,
		Timeout:        DefaultTimeout,
		OutputDir:      DefaultOutputDir,
		DownloadImages: true,
		DownloadCSS:    true,
		DownloadJS:     true,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
		SaveHistory:    true,
		HistoryDBDir:   XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for scrapv2, used for the
// crawl history database.
// On Linux: ~/.local/share/scrapv2
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for scrapv2.
// On Linux: ~/.config/scrapv2
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any crawling begins, so
// configuration errors fail fast with a clear message and the session
// never leaves Idle.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SeedURL) == "" {
		return ErrEmptySeedURL
	}
	if _, err := url.Parse(c.SeedURL); err != nil {
		return ErrInvalidSeedURL
	}
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// SiteConfigFor returns the merged per-site settings for the given URL's
// host, or a zero SiteConfig when no config file was loaded.
func (c *Config) SiteConfigFor(rawURL string) SiteConfig {
	if c.SiteConfigs == nil {
		return SiteConfig{}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return c.SiteConfigs.Defaults
	}
	return c.SiteConfigs.SiteConfig(u.Host)
}
