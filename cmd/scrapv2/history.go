package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/moamenalmahe/scrapv2-ui/internal/config"
	"github.com/moamenalmahe/scrapv2-ui/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past crawl sessions",
		Long: `History lists crawl sessions recorded in the local database, most
recent first.

Examples:
  # List recent sessions
  scrapv2 history

  # List every fetched page of one session
  scrapv2 history --session 6f1c2f3a-...`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of sessions to list (0 lists all)")
	cmd.Flags().StringP("session", "s", "", "Show the pages fetched during the given session")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "History database directory")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	sessionID, err := cmd.Flags().GetString("session")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	// The history command never creates a database: an empty history is
	// reported as such, not materialized.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No crawl history found")
		return nil
	}
	defer db.Close() //nolint:errcheck // Read-only usage

	if sessionID != "" {
		return printSessionPages(cmd, db, sessionID)
	}
	return printSessions(cmd, db, limit)
}

// printSessions lists stored sessions in a table.
func printSessions(cmd *cobra.Command, db *database.CrawlDB, limit int) error {
	sessions, err := db.ListSessions(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No crawl history found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSEED\tSTATE\tFETCHED\tFAILED\tSESSION")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			s.StartedAt.Format("2006-01-02 15:04"),
			s.SeedURL,
			s.State,
			s.Fetched,
			s.Failed,
			s.ID,
		)
	}
	return w.Flush()
}

// printSessionPages lists the pages fetched during one session.
func printSessionPages(cmd *cobra.Command, db *database.CrawlDB, sessionID string) error {
	session, err := db.GetSession(context.Background(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if session == nil {
		return fmt.Errorf("unknown session: %s", sessionID)
	}

	pages, err := db.GetSessionPages(context.Background(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Session %s (%s, %d pages)\n\n", session.ID, session.SeedURL, len(pages))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEPTH\tRESULT\tURL")
	for _, p := range pages {
		result := "ok"
		if !p.Success {
			result = p.Reason
			if result == "" {
				result = "failed"
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.Depth, result, p.URL)
	}
	return w.Flush()
}
