package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestRedactHandlerMasksSensitiveKeys tests that credential attribute
// keys are masked in output.
func TestRedactHandlerMasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"cookie header", "cookie", "session=abc123"},
		{"authorization header", "Authorization", "Bearer tok"},
		{"api key", "api_key", "deadbeef"},
		{"password", "password", "hunter2"},
		{"keyword substring", "site_cookie", "session=xyz"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))
			logger.Info("request", tt.key, tt.value)

			out := buf.String()
			if strings.Contains(out, tt.value) {
				t.Errorf("sensitive value leaked into log: %s", out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("expected mask value in log: %s", out)
			}
		})
	}
}

// TestRedactHandlerMasksSensitiveValues tests pattern-based masking for
// credential-shaped values under harmless keys.
func TestRedactHandlerMasksSensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{"jwt", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig"},
		{"bearer", "Bearer abc123"},
		{"basic auth", "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))
			logger.Info("request", "header", tt.value)

			if strings.Contains(buf.String(), tt.value) {
				t.Errorf("sensitive value leaked into log: %s", buf.String())
			}
		})
	}
}

// TestRedactHandlerPassesBenignAttrs tests that ordinary attributes
// survive unchanged.
func TestRedactHandlerPassesBenignAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))
	logger.Info("fetched", "url", "https://example.com/page", "depth", 2)

	out := buf.String()
	if !strings.Contains(out, "https://example.com/page") {
		t.Errorf("expected URL in log: %s", out)
	}
	if strings.Contains(out, MaskValue) {
		t.Errorf("benign attribute was masked: %s", out)
	}
}

// TestRedactHandlerGroups tests that attributes inside groups are
// masked too.
func TestRedactHandlerGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))
	logger.Info("request",
		slog.Group("headers",
			slog.String("Cookie", "session=abc"),
			slog.String("Accept", "text/html"),
		),
	)

	out := buf.String()
	if strings.Contains(out, "session=abc") {
		t.Errorf("grouped sensitive value leaked: %s", out)
	}
	if !strings.Contains(out, "text/html") {
		t.Errorf("grouped benign value missing: %s", out)
	}
}

// TestNewLoggerLevels tests that verbose mode enables debug output.
func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	var quiet, verbose bytes.Buffer

	NewLogger(&quiet, false).Debug("hidden")
	if quiet.Len() != 0 {
		t.Errorf("expected no debug output without verbose, got %s", quiet.String())
	}

	NewLogger(&verbose, true).Debug("visible")
	if !strings.Contains(verbose.String(), "visible") {
		t.Errorf("expected debug output in verbose mode, got %s", verbose.String())
	}
}
