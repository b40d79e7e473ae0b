// Package scraper runs the browser side of an extraction: navigation with
// challenge detection, consent dismissal, asset discovery, computed-style
// sampling, and screenshot capture. The non-browser stages (classification,
// downloads, palettes, reduction) live in their own packages; this package
// orchestrates them into a snapshot.
package scraper

import (
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/use-agent/brandlens/assets"
	"github.com/use-agent/brandlens/config"
	"github.com/use-agent/brandlens/content"
	"github.com/use-agent/brandlens/models"
)

// Scraper manages the global browser lifecycle and the page pool.
// It is safe for concurrent use.
type Scraper struct {
	browser    *rod.Browser
	pagePool   rod.Pool[rod.Page]
	browserCfg config.BrowserConfig
	extractCfg config.ExtractConfig
	assetsCfg  config.AssetsConfig
	stylesCfg  config.StylesConfig

	fetcher   *assets.Fetcher
	previewer *content.Previewer

	activePages atomic.Int32
}

// NewScraper launches a headless browser and initialises the reusable page
// pool and the run work directory.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	l := launcher.New().
		Headless(cfg.Browser.Headless).
		NoSandbox(cfg.Browser.NoSandbox)

	if cfg.Browser.BrowserBin != "" {
		l = l.Bin(cfg.Browser.BrowserBin)
	}
	if cfg.Browser.DefaultProxy != "" {
		l = l.Proxy(cfg.Browser.DefaultProxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-ipc-flooding-protection"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-prompt-on-repost"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewExtractError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewExtractError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	if err := os.MkdirAll(cfg.Extract.WorkDir, 0o755); err != nil {
		return nil, models.NewExtractError(
			models.ErrCodeInternal,
			"failed to create work directory",
			err,
		)
	}

	pool := rod.NewPagePool(cfg.Browser.MaxPages)
	slog.Info("page pool created", "maxPages", cfg.Browser.MaxPages)

	return &Scraper{
		browser:    browser,
		pagePool:   pool,
		browserCfg: cfg.Browser,
		extractCfg: cfg.Extract,
		assetsCfg:  cfg.Assets,
		stylesCfg:  cfg.Styles,
		fetcher:    assets.NewFetcher(cfg.Assets, cfg.Browser.DefaultProxy),
		previewer:  content.NewPreviewer(),
	}, nil
}

// Stats returns a snapshot of the pool's current state.
func (s *Scraper) Stats() models.PoolStats {
	return models.PoolStats{
		MaxPages:    s.browserCfg.MaxPages,
		ActivePages: int(s.activePages.Load()),
	}
}

// MaxPages reports the pool capacity, used to bound batch concurrency.
func (s *Scraper) MaxPages() int {
	return s.browserCfg.MaxPages
}

// Close drains the page pool and kills the browser process.
// Call this on graceful shutdown to prevent zombie Chrome processes.
func (s *Scraper) Close() {
	slog.Info("scraper shutting down: draining page pool")
	s.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	slog.Info("scraper shutting down: closing browser")
	s.browser.MustClose()
	slog.Info("scraper shutdown complete")
}
