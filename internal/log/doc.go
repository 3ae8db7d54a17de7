// Package log provides logging with automatic redaction of credentials,
// built on top of the standard slog package.
//
// Crawls of authenticated sites carry cookies and custom headers from
// the .scrapv2 config file. Verbose mode logs every request, so without
// redaction a shared debug log would leak session cookies and API
// tokens. The RedactHandler masks those values before they reach the
// underlying handler.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("request sent",
//	    "cookie", "session=abc123", // logged as "***REDACTED***"
//	    "url", "https://example.com",
//	)
package log
