package scraper

import "testing"

func TestNormalizeSignature(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"collapses whitespace", []string{"  Accept \n All  "}, "accept all"},
		{"joins sources", []string{"OK", "Close dialog", ""}, "ok close dialog"},
		{"empty", []string{"", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeSignature(tt.parts...); got != tt.want {
				t.Errorf("normalizeSignature(%v) = %q, want %q", tt.parts, got, tt.want)
			}
		})
	}
}

func TestMatchConsentSignature(t *testing.T) {
	tests := []struct {
		sig  string
		want bool
	}{
		{"accept all", true},
		{"accept all cookies", true},
		{"accept", true},
		{"i agree", true},
		{"got it", true},
		{"continue", true},
		{"ok", true},

		// Negative-intent words always win, even next to accept words.
		{"accept necessary only", false},
		{"manage preferences", false},
		{"reject all", false},
		{"cookie settings", false},
		{"decline", false},
		{"customize choices", false},

		// Neither vocabulary.
		{"learn more", false},
		{"sign in", false},
		{"", false},

		// Substring matches for longer button labels.
		{"yes, accept all and continue to site", true},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			if got := matchConsentSignature(tt.sig); got != tt.want {
				t.Errorf("matchConsentSignature(%q) = %v, want %v", tt.sig, got, tt.want)
			}
		})
	}
}
