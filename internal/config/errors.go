package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: Package-level sentinel errors rather than values
// created inside Validate() so callers can match with errors.Is() while
// the messages stay human-readable. None of them need dynamic values,
// so errors.New suffices.
var (
	// ErrEmptySeedURL is returned when no starting URL was provided.
	ErrEmptySeedURL = errors.New("empty seed URL: provide a starting URL")

	// ErrInvalidSeedURL is returned when the seed URL does not parse.
	ErrInvalidSeedURL = errors.New("invalid seed URL: not a parseable URL")

	// ErrInvalidMaxDepth is returned when the depth bound is negative.
	// Use 0 to fetch only the seed page.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidDelay is returned when the politeness delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidWorkers is returned when the worker count is not
	// positive. Zero workers would mean no crawling at all.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive. A zero timeout would fail every request immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the body cap is negative.
	// Use 0 to keep the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are requested. Only one report format can be produced.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
