package scraper

import (
	"strings"
	"testing"
)

func TestDetectInterstitial(t *testing.T) {
	tests := []struct {
		name       string
		probe      PageProbe
		wantDetect bool
		wantHint   string
	}{
		{
			name:       "clean page",
			probe:      PageProbe{URL: "https://acme.com/pricing", BodyText: "Simple pricing for every team"},
			wantDetect: false,
		},
		{
			name:       "captcha in url",
			probe:      PageProbe{URL: "https://acme.com/captcha?return=/pricing"},
			wantDetect: true,
			wantHint:   "captcha",
		},
		{
			name:       "turnstile in url",
			probe:      PageProbe{URL: "https://acme.com/cdn-cgi/turnstile"},
			wantDetect: true,
			wantHint:   "turnstile",
		},
		{
			name:       "verify you are human",
			probe:      PageProbe{URL: "https://acme.com/", BodyText: "Please Verify You Are Human to continue"},
			wantDetect: true,
			wantHint:   "human",
		},
		{
			name:       "checking your browser",
			probe:      PageProbe{URL: "https://acme.com/", BodyText: "Checking your browser before accessing"},
			wantDetect: true,
			wantHint:   "checking your browser",
		},
		{
			name:       "turnstile widget marker",
			probe:      PageProbe{URL: "https://acme.com/", HasTurnstile: true},
			wantDetect: true,
			wantHint:   "Turnstile",
		},
		{
			name:       "recaptcha widget marker",
			probe:      PageProbe{URL: "https://acme.com/", HasRecaptcha: true},
			wantDetect: true,
			wantHint:   "reCAPTCHA",
		},
		{
			name:       "challenge iframe marker",
			probe:      PageProbe{URL: "https://acme.com/", ChallengeFrame: true},
			wantDetect: true,
			wantHint:   "iframe",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason := DetectInterstitial(tt.probe)
			if (reason != "") != tt.wantDetect {
				t.Fatalf("DetectInterstitial(%+v) = %q, want detect=%v", tt.probe, reason, tt.wantDetect)
			}
			if tt.wantHint != "" && !strings.Contains(reason, tt.wantHint) {
				t.Errorf("reason %q missing %q", reason, tt.wantHint)
			}
		})
	}
}

func TestDetectInterstitialOrderURLFirst(t *testing.T) {
	probe := PageProbe{
		URL:          "https://acme.com/captcha",
		BodyText:     "verify you are human",
		HasRecaptcha: true,
	}
	reason := DetectInterstitial(probe)
	if !strings.Contains(reason, "captcha") || !strings.Contains(reason, "URL") {
		t.Errorf("URL check must short-circuit, got %q", reason)
	}
}

func TestDetectInterstitialHTML(t *testing.T) {
	challenged := `<html><head><script>var x = "not text";</script></head>
	<body><div class="cf-turnstile" data-sitekey="k"></div>
	<p>Verify you are human by completing the action below.</p></body></html>`

	reason := DetectInterstitialHTML("https://acme.com/", challenged)
	if reason == "" {
		t.Fatal("challenge page not detected")
	}
	if !strings.Contains(strings.ToLower(reason), "human") {
		t.Errorf("reason %q should mention the human check", reason)
	}

	clean := `<html><body><h1>Welcome</h1><p>Browse our products.</p></body></html>`
	if reason := DetectInterstitialHTML("https://acme.com/", clean); reason != "" {
		t.Errorf("clean page flagged: %q", reason)
	}
}

func TestVisibleTextSkipsScriptAndStyle(t *testing.T) {
	in := `<html><head><style>body { color: red; }</style>
	<script>console.log("hidden")</script></head>
	<body><h1>Shown</h1><noscript>fallback</noscript></body></html>`

	text := visibleText(in)
	if !strings.Contains(text, "Shown") {
		t.Errorf("missing body text: %q", text)
	}
	for _, hidden := range []string{"color: red", "console.log", "fallback"} {
		if strings.Contains(text, hidden) {
			t.Errorf("leaked non-visible text %q in %q", hidden, text)
		}
	}
}
