package scraper

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"

	"github.com/use-agent/brandlens/models"
)

// captureDiagnostics saves a full-page screenshot and the serialized HTML
// of the page's current state. Strictly best-effort: every sub-failure is
// swallowed and the returned struct carries whatever paths were written.
// Returns nil when nothing at all could be captured.
func (s *Scraper) captureDiagnostics(p *rod.Page) *models.DiagnosticArtifacts {
	stamp := time.Now().UnixMilli()
	arts := &models.DiagnosticArtifacts{}

	if shot, err := p.Screenshot(true, nil); err == nil {
		path := filepath.Join(s.extractCfg.WorkDir, fmt.Sprintf("diag-%d.png", stamp))
		if werr := os.WriteFile(path, shot, 0o644); werr == nil {
			arts.ScreenshotPath = path
		}
	} else {
		slog.Debug("diagnostic screenshot failed", "error", err)
	}

	if html, err := p.HTML(); err == nil {
		path := filepath.Join(s.extractCfg.WorkDir, fmt.Sprintf("diag-%d.html", stamp))
		if werr := os.WriteFile(path, []byte(html), 0o644); werr == nil {
			arts.HTMLPath = path
		}
	} else {
		slog.Debug("diagnostic HTML dump failed", "error", err)
	}

	if arts.ScreenshotPath == "" && arts.HTMLPath == "" {
		return nil
	}
	return arts
}
