package scraper

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
)

// Consent-dismissal vocabulary. Signatures containing a negative word are
// rejected outright, then exact matches are preferred over substring
// matches so "accept" never fires on "accept necessary only".
var (
	consentNegative = []string{
		"reject", "manage", "preferences", "settings",
		"necessary", "decline", "customize", "customise",
		"options", "purposes", "more info",
	}
	consentExact = []string{
		"accept all", "accept all cookies", "allow all", "allow all cookies",
		"accept cookies", "accept", "agree", "i agree", "i accept",
		"allow", "ok", "got it", "continue", "understood", "consent",
	}
	consentSubstring = []string{
		"accept all", "allow all", "agree and close", "got it",
	}
)

const (
	clickBackoff = 500 * time.Millisecond
	noneBackoff  = 350 * time.Millisecond
)

// normalizeSignature collapses an element's visible text, aria-label, and
// value into the lowercase signature the vocabulary matches against. It is
// the reference for what consentClickJS does in-page.
func normalizeSignature(parts ...string) string {
	joined := strings.Join(parts, " ")
	return strings.Join(strings.Fields(strings.ToLower(joined)), " ")
}

// matchConsentSignature classifies one clickable element's signature.
// Returns true when the element should be clicked to dismiss consent UI.
func matchConsentSignature(sig string) bool {
	if sig == "" {
		return false
	}
	for _, neg := range consentNegative {
		if strings.Contains(sig, neg) {
			return false
		}
	}
	for _, exact := range consentExact {
		if sig == exact {
			return true
		}
	}
	for _, sub := range consentSubstring {
		if strings.Contains(sig, sub) {
			return true
		}
	}
	return false
}

// dismissConsent runs up to maxRounds consent passes over the main
// document and every accessible sub-frame. Each pass clicks at most one
// element; a successful click gets a longer backoff because banners chain
// (cookie banner, then preference banner). Cross-origin frame access
// failures are swallowed.
func (s *Scraper) dismissConsent(ctx context.Context, p *rod.Page, maxRounds int) int {
	clicks := 0
	for round := 0; round < maxRounds; round++ {
		clicked := consentPass(p)

		frames, err := p.Elements("iframe")
		if err == nil {
			for _, el := range frames {
				frame, ferr := el.Frame()
				if ferr != nil {
					continue
				}
				if consentPass(frame) {
					clicked = true
				}
			}
		}

		backoff := noneBackoff
		if clicked {
			clicks++
			backoff = clickBackoff
		}

		select {
		case <-ctx.Done():
			return clicks
		case <-time.After(backoff):
		}

		if !clicked && round > 0 {
			break
		}
	}
	if clicks > 0 {
		slog.Debug("consent dismissed", "clicks", clicks)
	}
	return clicks
}

// consentPass runs one in-page pass: enumerate visible clickables, match
// signatures, click the first acceptable one. Returns whether a click
// happened. Evaluation errors are swallowed; consent dismissal is
// best-effort by contract.
func consentPass(p *rod.Page) bool {
	res, err := p.Eval(consentClickJS, consentNegative, consentExact, consentSubstring)
	if err != nil {
		return false
	}
	return res.Value.Bool()
}
