package model

import "testing"

// TestFetchResultIsHTML tests content type detection.
func TestFetchResultIsHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{"plain html", "text/html", true},
		{"html with charset", "text/html; charset=utf-8", true},
		{"uppercase", "Text/HTML; charset=ISO-8859-1", true},
		{"xhtml", "application/xhtml+xml", true},
		{"json", "application/json", false},
		{"image", "image/png", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &FetchResult{ContentType: tt.contentType}
			if got := r.IsHTML(); got != tt.want {
				t.Errorf("IsHTML() with %q = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}
