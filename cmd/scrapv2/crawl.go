package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/moamenalmahe/scrapv2-ui/internal/config"
	"github.com/moamenalmahe/scrapv2-ui/internal/crawler"
	"github.com/moamenalmahe/scrapv2-ui/internal/database"
	"github.com/moamenalmahe/scrapv2-ui/internal/log"
	"github.com/moamenalmahe/scrapv2-ui/internal/model"
	"github.com/moamenalmahe/scrapv2-ui/internal/report"
	"github.com/moamenalmahe/scrapv2-ui/internal/storage"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a website and mirror it locally",
		Long: `Crawl fetches a website breadth-first up to a maximum link depth and
mirrors pages and assets into the output directory.

Every URL is fetched at most once per run. Workers pause between their
own consecutive requests, so the request rate is bounded by the worker
count and delay. Press Ctrl-C to stop: in-flight requests finish, no
new ones start, and partial results are kept.

Examples:
  # Mirror a site two levels deep
  scrapv2 crawl --depth 2 https://example.com

  # Fast crawl with more workers and a shorter delay
  scrapv2 crawl -w 10 --delay 200ms https://example.com

  # Pages only, no assets, JSON report to a file
  scrapv2 crawl --images=false --css=false --js=false --json --report report.json https://example.com

  # Also download linked PDF files
  scrapv2 crawl --file-type pdf https://example.com

Configuration file (.scrapv2) example:
  sites:
    docs.example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      depth: 5
      ignorePatterns:
        - "/logout*"`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum link depth from the seed (0 fetches only the seed page)")
	cmd.Flags().Duration("delay", config.DefaultDelay,
		"Per-worker delay between consecutive requests")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent fetch workers")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().Bool("follow-external", false,
		"Follow links to other hosts (default: stay on the seed's host)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with requests")

	// Mirror flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory the mirror is written to")
	cmd.Flags().Bool("images", true, "Download images")
	cmd.Flags().Bool("css", true, "Download stylesheets")
	cmd.Flags().Bool("js", true, "Download scripts")
	cmd.Flags().StringSlice("file-type", nil,
		"Extra file extensions to download when linked (e.g. pdf,zip)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .scrapv2 in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record this crawl in the history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Structured logging with credential redaction: verbose crawls of
	// authenticated sites must not leak cookies into the log.
	logger := log.NewLogger(os.Stderr, cfg.Verbose)

	// Context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.SeedURL = args[0]

	var err error

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}
	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}
	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	cfg.FollowExternal, err = cmd.Flags().GetBool("follow-external")
	if err != nil {
		return nil, err
	}
	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}
	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	cfg.DownloadImages, err = cmd.Flags().GetBool("images")
	if err != nil {
		return nil, err
	}
	cfg.DownloadCSS, err = cmd.Flags().GetBool("css")
	if err != nil {
		return nil, err
	}
	cfg.DownloadJS, err = cmd.Flags().GetBool("js")
	if err != nil {
		return nil, err
	}
	cfg.FileTypes, err = cmd.Flags().GetStringSlice("file-type")
	if err != nil {
		return nil, err
	}
	// The flag accepts "pdf" and ".pdf" alike; extensions are dotted
	// before they reach the scope and the mirror.
	for i, t := range cfg.FileTypes {
		t = strings.TrimSpace(t)
		if t != "" && !strings.HasPrefix(t, ".") {
			t = "." + t
		}
		cfg.FileTypes[i] = t
	}
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}
	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// Load site-specific configurations from the config file.
	// If the user explicitly specified a path, a missing file is an
	// error; a missing default file is not.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runCrawl wires up the crawl components and runs the session.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	seed, err := crawler.NormalizeURL(cfg.SeedURL)
	if err != nil {
		return fmt.Errorf("invalid seed URL %q: %w", cfg.SeedURL, err)
	}

	// Per-site overrides from the config file.
	siteConfig := cfg.SiteConfigFor(seed)
	maxDepth := cfg.MaxDepth
	if siteConfig.Depth > 0 {
		maxDepth = siteConfig.Depth
	}

	scope, err := crawler.NewScope(seed,
		crawler.WithFollowExternal(cfg.FollowExternal),
		crawler.WithFileTypes(cfg.FileTypes),
		crawler.WithIgnorePatterns(siteConfig.IgnorePatterns),
		crawler.WithFollowPatterns(siteConfig.FollowPatterns),
	)
	if err != nil {
		return fmt.Errorf("invalid crawl scope: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	fetcherOpts := []crawler.FetcherOption{
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	}
	if siteConfig.Cookie != "" {
		fetcherOpts = append(fetcherOpts, crawler.WithCookie(siteConfig.Cookie))
	}
	if len(siteConfig.Headers) > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithHeaders(siteConfig.Headers))
	}
	fetcher := crawler.NewFetcher(httpClient, fetcherOpts...)

	mirror := storage.NewMirror(cfg.OutputDir,
		storage.WithHTTPClient(httpClient),
		storage.WithUserAgent(cfg.UserAgent),
		storage.WithAssetDownloads(cfg.DownloadImages, cfg.DownloadCSS, cfg.DownloadJS),
		storage.WithFileTypes(cfg.FileTypes),
		storage.WithMirrorLogger(logger),
	)

	session := model.NewSession(seed, maxDepth, cfg.Delay, cfg.Workers)
	session.OutputDir = cfg.OutputDir

	collector := report.NewCollector()
	observers := []crawler.Option{
		crawler.WithSink(mirror),
		crawler.WithLogger(logger),
		crawler.WithObserver(newProgressPrinter(os.Stdout)),
		crawler.WithObserver(collector),
	}

	// History is best effort: if the database cannot be opened the
	// crawl still runs, just unrecorded.
	if cfg.SaveHistory {
		db, err := database.Open(cfg.HistoryDBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("history database unavailable", "dir", cfg.HistoryDBDir, "error", err)
		} else {
			defer db.Close() //nolint:errcheck // Best effort close on exit
			observers = append(observers, crawler.WithObserver(database.NewRecorder(db, session, logger)))
		}
	}

	fmt.Printf("Crawling %s (depth %d, %d workers)...\n\n", seed, maxDepth, cfg.Workers)

	coordinator := crawler.NewCoordinator(fetcher, scope, observers...)
	if err := coordinator.Run(ctx, session); err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	summary := report.NewSummary(session, collector.FailedPages())
	return outputReport(cfg, summary)
}

// outputReport renders the session summary in the requested format.
func outputReport(cfg *config.Config, summary *report.Summary) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Read-only usage after writes flushed below
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithMaxFailed(20))
	}

	_, err := writer.Write(summary)
	return err
}

// progressPrinter prints one line per fetched page to the terminal.
type progressPrinter struct {
	out *os.File
}

// newProgressPrinter creates a progressPrinter writing to out.
func newProgressPrinter(out *os.File) *progressPrinter {
	return &progressPrinter{out: out}
}

// OnProgress prints the outcome of one page fetch.
func (p *progressPrinter) OnProgress(url string, depth int, success bool, reason string) {
	if success {
		fmt.Fprintf(p.out, "  [depth %d] OK   %s\n", depth, url)
		return
	}
	fmt.Fprintf(p.out, "  [depth %d] FAIL %s (%s)\n", depth, url, reason)
}

// OnComplete prints the final counters.
func (p *progressPrinter) OnComplete(fetched, failed int) {
	fmt.Fprintf(p.out, "\nCrawl completed: %d fetched, %d failed\n", fetched, failed)
}

// OnCancelled notes the early stop.
func (p *progressPrinter) OnCancelled() {
	fmt.Fprintf(p.out, "\nCrawl cancelled, partial results kept\n")
}
