// Package main provides the entry point for the scrapv2 CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for scrapv2.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrapv2",
		Short: "Polite website mirroring tool",
		Long: `scrapv2 crawls a website to a bounded link depth and mirrors it to a
local directory. Fetching is concurrent but polite: a fixed worker pool
with a per-worker delay between requests, and every URL fetched at most
once per run.

Crawl runs are recorded in a local history database and summarized in a
report (text, JSON, or Markdown).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
