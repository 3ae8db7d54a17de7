package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected version to succeed, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "scrapv2 version") {
		t.Errorf("expected version banner, got %q", out)
	}
	if !strings.Contains(out, "commit:") || !strings.Contains(out, "built:") {
		t.Errorf("expected commit and build date lines, got %q", out)
	}
}

// TestGetVersion tests the version resolution fallbacks.
func TestGetVersion(t *testing.T) {
	// Not parallel: mutates package-level version variables.
	orig := version
	defer func() { version = orig }()

	version = "2.1.0"
	if got := getVersion(); got != "2.1.0" {
		t.Errorf("expected ldflags version to win, got %q", got)
	}

	version = ""
	if got := getVersion(); got == "" {
		t.Error("expected a non-empty fallback version")
	}
}
