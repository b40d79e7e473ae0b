package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/use-agent/brandlens/assets"
	"github.com/use-agent/brandlens/colorx"
	"github.com/use-agent/brandlens/models"
	"github.com/use-agent/brandlens/palette"
	"github.com/use-agent/brandlens/simhash"
	"github.com/use-agent/brandlens/styles"
)

// maxContrastChecks caps the contrast list in a snapshot.
const maxContrastChecks = 30

// discoveryResult mirrors the discovery script's return shape.
type discoveryResult struct {
	Records       []models.AssetRecord    `json:"records"`
	Candidates    []models.ImageCandidate `json:"candidates"`
	VideoEmbeds   []models.VideoEmbed     `json:"videoEmbeds"`
	LogoURL       string                  `json:"logoURL"`
	InlineLogoSVG string                  `json:"inlineLogoSVG"`
	Title         string                  `json:"title"`
	FinalURL      string                  `json:"finalURL"`
	H1            string                  `json:"h1"`
	Description   string                  `json:"description"`
	SiteName      string                  `json:"siteName"`
	Language      string                  `json:"language"`
}

// Extract runs the full pipeline for one URL and assembles the snapshot.
//
// Lifecycle:
//
//  1. Timeout guard     – hard deadline on the entire run
//  2. Acquire page      – borrow a tab from the pool
//  3. DEFER: cleanup    – about:blank + return to pool (leak prevention)
//  4. Stealth injection – mask navigator.webdriver etc. (before navigation!)
//  5. Navigate          – state machine with consent dismissal and
//     interstitial verification; terminal on challenge pages
//  6. Capture           – full-page screenshot + serialized HTML
//  7. Discover          – in-page asset sweep, HTML parse as fallback
//  8. Acquire images    – sequential downloads with per-candidate isolation
//  9. Palettes          – screenshot, logo, and per-image extraction
//  10. Styles           – computed-style sweep, reduction, contrast
//  11. Content          – readability preview + text fingerprint
//
// Everything after step 5 degrades into notes instead of failing the run.
func (s *Scraper) Extract(ctx context.Context, req *models.ExtractRequest) (*ExtractResult, error) {
	req.Defaults()

	// ── 1. Timeout guard ─────────────────────────────────────────────
	timeout := time.Duration(req.Timeout) * time.Second
	if timeout > s.extractCfg.MaxTimeout {
		timeout = s.extractCfg.MaxTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	runDir := filepath.Join(s.extractCfg.WorkDir, fmt.Sprintf("run-%d", started.UnixNano()))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, models.NewExtractError(models.ErrCodeInternal, "failed to create run directory", err)
	}

	// ── 2. Acquire page from pool ────────────────────────────────────
	s.activePages.Add(1)
	defer s.activePages.Add(-1)

	page, acquireErr := s.pagePool.Get(func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return nil, models.NewExtractError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// ── 3. CRITICAL DEFER: prevent DOM memory leak + guarantee pool return
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		s.pagePool.Put(page)
	}()

	// ── 4. Stealth injection ─────────────────────────────────────────
	if req.Stealth != nil && *req.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}

	p := page.Context(ctx)

	// ── 5. Navigate ──────────────────────────────────────────────────
	if err := s.navigate(ctx, p, req.URL); err != nil {
		return nil, err
	}
	navMs := time.Since(started).Milliseconds()

	snap := &models.BrandStyleSnapshot{
		Palettes: models.PaletteSet{FromImages: make(map[string]*models.Palette)},
	}
	note := func(format string, args ...any) {
		snap.Notes = append(snap.Notes, fmt.Sprintf(format, args...))
	}

	// ── 6. Capture screenshot + HTML ─────────────────────────────────
	screenshotPath := ""
	if shot, err := p.Screenshot(true, nil); err == nil {
		screenshotPath = filepath.Join(runDir, "screenshot.png")
		if werr := os.WriteFile(screenshotPath, shot, 0o644); werr != nil {
			screenshotPath = ""
			note("screenshot write failed: %v", werr)
		}
	} else {
		note("screenshot capture failed: %v", err)
	}

	rawHTML, htmlErr := p.HTML()
	htmlPath := ""
	if htmlErr == nil {
		htmlPath = filepath.Join(runDir, "page.html")
		if werr := os.WriteFile(htmlPath, []byte(rawHTML), 0o644); werr != nil {
			htmlPath = ""
		}
	} else {
		note("HTML serialization failed: %v", htmlErr)
	}

	// ── 7. Asset discovery (in-page sweep, HTML parse as fallback) ───
	assetsStart := time.Now()
	var disc discoveryResult
	if err := evalInto(p, &disc, discoveryJS, s.assetsCfg.MaxCandidates); err != nil {
		note("in-page discovery failed, using static HTML: %v", err)
		if rawHTML != "" {
			if hd, herr := assets.DiscoverFromHTML(rawHTML, req.URL); herr == nil {
				disc.Records = hd.Records
				disc.Candidates = hd.Candidates
				disc.VideoEmbeds = hd.VideoEmbeds
				disc.LogoURL = hd.LogoURL
				disc.InlineLogoSVG = hd.InlineLogoSVG
			} else {
				note("static HTML discovery failed: %v", herr)
			}
		}
	}
	snap.Assets = buildInventory(&disc)

	// ── 8. Image acquisition ─────────────────────────────────────────
	ranked := assets.RankCandidates(disc.Candidates, s.assetsCfg.MaxCandidates)
	if len(ranked) == 0 {
		note("no image candidates discovered")
	}

	if !req.SkipDownloads {
		maxDL := s.assetsCfg.MaxDownloads
		if req.MaxImages > 0 {
			maxDL = req.MaxImages
		}
		snap.Downloads = s.fetcher.FetchAll(ctx, ranked, maxDL, runDir)
		okCount := 0
		for _, dl := range snap.Downloads {
			if dl.OK {
				okCount++
			}
		}
		if len(ranked) > 0 && okCount == 0 {
			note("no image candidates passed acquisition; palettes limited to screenshot")
		}

		if snap.Assets.LogoURL != "" {
			logoRes := s.fetcher.FetchURL(ctx, snap.Assets.LogoURL, runDir)
			if logoRes.OK {
				snap.Assets.LogoPath = logoRes.Path
			} else {
				note("logo download skipped: %s", logoRes.Reason)
			}
		}
	}
	if disc.InlineLogoSVG != "" {
		svgPath := filepath.Join(runDir, "logo.svg")
		if werr := os.WriteFile(svgPath, []byte(disc.InlineLogoSVG), 0o644); werr == nil {
			snap.Assets.LogoInlineSVGPath = svgPath
		}
	}

	// ── 9. Palettes ──────────────────────────────────────────────────
	if screenshotPath != "" {
		if pal, err := palette.FromFile(screenshotPath); err == nil && pal != nil {
			snap.Palettes.FromScreenshot = pal
		} else if err != nil {
			note("screenshot palette failed: %v", err)
		}
	}
	if snap.Assets.LogoPath != "" {
		if pal := s.paletteForDownload(snap.Assets.LogoPath, note); pal != nil {
			snap.Palettes.FromLogo = pal
		}
	}
	for _, dl := range snap.Downloads {
		if !dl.OK {
			continue
		}
		if pal := s.paletteForDownload(dl.Path, note); pal != nil {
			snap.Palettes.FromImages[dl.URL] = pal
		}
	}
	assetsMs := time.Since(assetsStart).Milliseconds()

	// ── 10. Styles + contrast ────────────────────────────────────────
	stylesStart := time.Now()
	var sample styles.Sample
	if err := evalInto(p, &sample, styleSampleJS, s.stylesCfg.SampleLimit); err != nil {
		note("style sampling failed: %v", err)
	} else {
		var paletteHex []string
		if snap.Palettes.FromScreenshot != nil {
			paletteHex = snap.Palettes.FromScreenshot.RankedHex
		}
		snap.Styles = styles.Reduce(&sample, s.stylesCfg, paletteHex)
		snap.Contrast = colorx.AnalyzeContrast(snap.Styles.TextColors, snap.Styles.BackgroundColors, maxContrastChecks)
	}
	stylesMs := time.Since(stylesStart).Milliseconds()

	// ── 11. Page metadata + content preview ──────────────────────────
	finalURL := disc.FinalURL
	if finalURL == "" {
		finalURL = req.URL
	}
	snap.Meta = models.PageMeta{
		URL:            req.URL,
		FinalURL:       finalURL,
		Host:           hostOf(finalURL),
		Title:          disc.Title,
		H1:             disc.H1,
		Description:    disc.Description,
		SiteName:       disc.SiteName,
		Language:       disc.Language,
		ScrapedAt:      started.UTC(),
		ScreenshotPath: screenshotPath,
		HTMLPath:       htmlPath,
	}
	if !req.SkipContentPreview && rawHTML != "" {
		md, text := s.previewer.Preview(rawHTML, finalURL)
		snap.Meta.ContentPreview = md
		snap.Meta.ContentFingerprint = simhash.Fingerprint(text)
	}

	return &ExtractResult{
		Snapshot: snap,
		Timing: models.TimingInfo{
			TotalMs:      time.Since(started).Milliseconds(),
			NavigationMs: navMs,
			AssetsMs:     assetsMs,
			StylesMs:     stylesMs,
		},
	}, nil
}

// PaletteForURL fetches a single image and extracts its palette. Backs
// the standalone palette endpoint and tool.
func (s *Scraper) PaletteForURL(ctx context.Context, imageURL string) (*models.Palette, *models.DownloadResult, error) {
	res := s.fetcher.FetchURL(ctx, imageURL, s.extractCfg.WorkDir)
	if !res.OK {
		return nil, &res, models.NewExtractError(models.ErrCodeInvalidInput, "image fetch failed: "+res.Reason, nil)
	}
	path := s.normalizeRaster(res.Path, res.ContentType)
	pal, err := palette.FromFile(path)
	if err != nil {
		return nil, &res, models.NewExtractError(models.ErrCodeInternal, "palette extraction failed", err)
	}
	return pal, &res, nil
}

// paletteForDownload extracts a palette from a downloaded file, recording
// degradations through note instead of failing.
func (s *Scraper) paletteForDownload(path string, note func(string, ...any)) *models.Palette {
	pal, err := palette.FromFile(s.normalizeRaster(path, ""))
	if err != nil {
		note("palette failed for %s: %v", filepath.Base(path), err)
		return nil
	}
	if pal == nil {
		note("no palette for %s", filepath.Base(path))
	}
	return pal
}

// normalizeRaster converts WebP files to a PNG sibling when possible.
// On conversion failure the original path is returned and direct WebP
// decoding is attempted downstream.
func (s *Scraper) normalizeRaster(path, contentType string) string {
	if !strings.HasSuffix(strings.ToLower(path), ".webp") && contentType != "image/webp" {
		return path
	}
	pngPath, err := palette.ConvertWebPToPNG(path)
	if err != nil {
		slog.Debug("webp conversion failed, decoding original", "path", path, "error", err)
		return path
	}
	return pngPath
}

// buildInventory groups discovered records by kind and splits tracking
// beacons out of the image list.
func buildInventory(disc *discoveryResult) models.AssetInventory {
	inv := models.AssetInventory{
		VideoEmbeds: disc.VideoEmbeds,
		LogoURL:     disc.LogoURL,
	}
	for _, r := range assets.DedupeRecords(disc.Records) {
		if r.Kind == models.AssetImage && assets.IsTracking(r.URL) {
			inv.TrackingPixels = append(inv.TrackingPixels, r.URL)
			continue
		}
		switch r.Kind {
		case models.AssetImage:
			inv.Images = append(inv.Images, r)
		case models.AssetVideo:
			inv.Videos = append(inv.Videos, r)
		case models.AssetStylesheet:
			inv.Stylesheets = append(inv.Stylesheets, r)
		case models.AssetScript:
			inv.Scripts = append(inv.Scripts, r)
		case models.AssetFont:
			inv.Fonts = append(inv.Fonts, r)
		default:
			inv.Other = append(inv.Other, r)
		}
	}
	return inv
}

// evalInto runs an in-page script and decodes its JSON result into out.
func evalInto(p *rod.Page, out any, js string, args ...any) error {
	res, err := p.Eval(js, args...)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(res.Value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
