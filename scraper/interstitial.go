package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// PageProbe is the page state the interstitial detector inspects. It is
// gathered in one in-page evaluation so the detector itself stays pure and
// testable without a browser.
type PageProbe struct {
	URL            string `json:"url"`
	BodyText       string `json:"bodyText"`
	HasTurnstile   bool   `json:"hasTurnstile"`
	HasRecaptcha   bool   `json:"hasRecaptcha"`
	ChallengeFrame bool   `json:"challengeFrame"`
}

// urlHints flag challenge pages by address alone.
var urlHints = []string{"captcha", "cloudflare", "turnstile", "challenge", "cf_chl"}

// textHints are phrases challenge pages show while blocking the target
// content.
var textHints = []string{
	"verify you are human",
	"verifying you are human",
	"checking your browser",
	"checking if the site connection is secure",
	"enable javascript and cookies to continue",
	"please complete the security check",
	"are you a robot",
	"unusual traffic from your",
}

// DetectInterstitial inspects a probe for bot-challenge signals. It
// returns "" when the page looks reachable, or a free-text reason. Checks
// run in order and short-circuit on first match: URL hints, body text
// hints, then DOM markers. Detection is terminal for a run; challenge
// pages do not resolve by waiting.
func DetectInterstitial(probe PageProbe) string {
	lowerURL := strings.ToLower(probe.URL)
	for _, hint := range urlHints {
		if strings.Contains(lowerURL, hint) {
			return "challenge URL contains " + `"` + hint + `"`
		}
	}

	lowerText := strings.ToLower(probe.BodyText)
	for _, hint := range textHints {
		if strings.Contains(lowerText, hint) {
			return "page text contains " + `"` + hint + `"`
		}
	}

	switch {
	case probe.HasTurnstile:
		return "Cloudflare Turnstile widget present"
	case probe.HasRecaptcha:
		return "reCAPTCHA widget present"
	case probe.ChallengeFrame:
		return "challenge iframe present"
	}
	return ""
}

// DetectInterstitialHTML runs the detector over serialized HTML, deriving
// the body text and DOM markers from markup. Used when only an HTML dump
// is available (diagnostics, tests).
func DetectInterstitialHTML(pageURL, rawHTML string) string {
	lower := strings.ToLower(rawHTML)
	return DetectInterstitial(PageProbe{
		URL:          pageURL,
		BodyText:     visibleText(rawHTML),
		HasTurnstile: strings.Contains(lower, "cf-turnstile") || strings.Contains(lower, "challenges.cloudflare.com"),
		HasRecaptcha: strings.Contains(lower, "g-recaptcha") || strings.Contains(lower, "google.com/recaptcha"),
	})
}

// visibleText extracts rendered text from HTML, skipping script and style
// bodies.
func visibleText(rawHTML string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	var b strings.Builder
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			switch string(tn) {
			case "script", "style", "noscript", "template":
				skipDepth++
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			switch string(tn) {
			case "script", "style", "noscript", "template":
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text != "" {
				b.WriteString(text)
				b.WriteByte(' ')
			}
		}
	}
}
