// Package config provides configuration structures and utilities for
// scrapv2. It defines the crawl options exposed by the CLI, their
// validation, and the optional per-site configuration file.
package config
