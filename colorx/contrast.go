package colorx

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/use-agent/brandlens/models"
)

// WCAG conformance thresholds for normal text.
const (
	RatioAA  = 4.5
	RatioAAA = 7.0
)

// maxPerSide caps the candidate lists before the cross-product.
const maxPerSide = 6

// ContrastRatio computes the WCAG contrast ratio between two canonical
// #RRGGBB colors, rounded to 2 decimal places. The ratio is symmetric
// under swapping the arguments. Returns 0 for malformed input.
func ContrastRatio(a, b string) float64 {
	la, ok := relativeLuminance(a)
	if !ok {
		return 0
	}
	lb, ok := relativeLuminance(b)
	if !ok {
		return 0
	}
	if lb > la {
		la, lb = lb, la
	}
	ratio := (la + 0.05) / (lb + 0.05)
	return math.Round(ratio*100) / 100
}

// relativeLuminance is the WCAG relative luminance of a #RRGGBB color.
// go-colorful's LinearRgb applies the sRGB linearization the WCAG formula
// specifies; only the channel weighting is done here.
func relativeLuminance(hex string) (float64, bool) {
	r, g, b, ok := ParseHex(hex)
	if !ok {
		return 0, false
	}
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	lr, lg, lb := c.LinearRgb()
	return 0.2126*lr + 0.7152*lg + 0.0722*lb, true
}

// AnalyzeContrast evaluates every (fg, bg) pair across the two candidate
// lists (each capped at 6), classifies AA/AAA conformance, and returns the
// checks sorted by descending ratio, capped at maxChecks. This samples
// colors already frequency-significant on the page; it is not a compliance
// proof.
func AnalyzeContrast(fgs, bgs []string, maxChecks int) []models.ContrastCheck {
	if len(fgs) > maxPerSide {
		fgs = fgs[:maxPerSide]
	}
	if len(bgs) > maxPerSide {
		bgs = bgs[:maxPerSide]
	}

	checks := make([]models.ContrastCheck, 0, len(fgs)*len(bgs))
	for _, fg := range fgs {
		for _, bg := range bgs {
			ratio := ContrastRatio(fg, bg)
			if ratio == 0 {
				continue
			}
			checks = append(checks, models.ContrastCheck{
				FG:        fg,
				BG:        bg,
				Ratio:     ratio,
				PassesAA:  ratio >= RatioAA,
				PassesAAA: ratio >= RatioAAA,
			})
		}
	}

	sort.SliceStable(checks, func(i, j int) bool {
		return checks[i].Ratio > checks[j].Ratio
	})
	if maxChecks > 0 && len(checks) > maxChecks {
		checks = checks[:maxChecks]
	}
	return checks
}
