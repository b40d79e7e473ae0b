package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"

	"github.com/use-agent/brandlens/models"
)

// navState tracks where the navigation controller is in its lifecycle.
type navState int

const (
	stateIdle navState = iota
	stateNavigating
	statePostLoadSettle
	stateVerifying
	stateReady
	stateFailed
)

func (s navState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateNavigating:
		return "navigating"
	case statePostLoadSettle:
		return "post_load_settle"
	case stateVerifying:
		return "verifying"
	case stateReady:
		return "ready"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// verifyCycles is how many settle/dismiss/verify cycles run before the
// page is declared ready. Two, because challenge and consent UI often
// appears only after a delay following initial paint.
const verifyCycles = 2

// navigate drives the page to targetURL and returns once the page is
// verified reachable. It waits for DOM stability rather than network
// idle; pages with persistent background connections never go idle.
// A detected interstitial fails the run immediately and is never retried.
func (s *Scraper) navigate(ctx context.Context, p *rod.Page, targetURL string) error {
	state := stateNavigating
	if err := p.Navigate(targetURL); err != nil {
		return s.failNav(p, categorizeError(err, "navigation to target URL failed"))
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("DOM did not stabilize, proceeding with current DOM",
			"url", targetURL, "error", err)
	}

	for cycle := 0; cycle < verifyCycles; cycle++ {
		state = statePostLoadSettle
		s.dismissConsent(ctx, p, s.extractCfg.ConsentRounds)

		select {
		case <-ctx.Done():
			return s.failNav(p, categorizeError(ctx.Err(), "navigation deadline exceeded"))
		case <-time.After(s.extractCfg.SettleDelay):
		}

		state = stateVerifying
		var probe PageProbe
		if err := evalInto(p, &probe, probeJS); err != nil {
			// The probe failing outright usually means the tab died.
			return s.failNav(p, categorizeError(err, "page probe failed"))
		}
		if reason := DetectInterstitial(probe); reason != "" {
			state = stateFailed
			slog.Warn("interstitial detected", "url", targetURL, "reason", reason, "state", state.String())
			return s.failNav(p, models.NewExtractError(
				models.ErrCodeInterstitial,
				"verification page blocks extraction: "+reason,
				nil,
			))
		}
	}

	state = stateReady
	slog.Debug("navigation complete", "url", targetURL, "state", state.String())
	return nil
}

// failNav attaches best-effort diagnostic artifacts to a terminal
// navigation error. Capture must never raise; a nil artifact set simply
// means nothing could be saved.
func (s *Scraper) failNav(p *rod.Page, err *models.ExtractError) *models.ExtractError {
	err.Diagnostics = s.captureDiagnostics(p)
	return err
}

// categorizeError wraps raw errors into typed ExtractErrors so the API
// layer can map them to HTTP status codes.
func categorizeError(err error, msg string) *models.ExtractError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewExtractError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewExtractError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewExtractError(models.ErrCodeNavigation, msg, err)
	}
}
