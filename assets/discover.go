package assets

import (
	"sort"
	"strings"

	"github.com/use-agent/brandlens/models"
)

// Minimum-size floor for download candidates. Any one threshold suffices;
// everything below all three is icon/favicon/beacon territory.
const (
	minSide         = 120
	minNaturalArea  = 25000
	minOnScreenArea = 14400
)

// DedupeRecords removes duplicate asset URLs by exact string equality,
// preserving first-seen order.
func DedupeRecords(records []models.AssetRecord) []models.AssetRecord {
	seen := make(map[string]struct{}, len(records))
	out := records[:0:0]
	for _, r := range records {
		if r.URL == "" {
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

// RankCandidates dedupes candidates by URL (keeping the largest areas seen
// for each) and sorts by on-screen rendered area first, natural pixel area
// second. This favors images the page is displaying prominently over
// large-but-hidden ones; candidates with neither area are still eligible
// and rank last. The result is capped at maxCandidates.
func RankCandidates(cands []models.ImageCandidate, maxCandidates int) []models.ImageCandidate {
	byURL := make(map[string]int, len(cands))
	merged := make([]models.ImageCandidate, 0, len(cands))
	for _, c := range cands {
		if c.URL == "" {
			continue
		}
		if idx, ok := byURL[c.URL]; ok {
			if c.OnScreenArea > merged[idx].OnScreenArea {
				merged[idx].OnScreenArea = c.OnScreenArea
			}
			if c.NaturalArea > merged[idx].NaturalArea {
				merged[idx].NaturalArea = c.NaturalArea
				merged[idx].Width = c.Width
				merged[idx].Height = c.Height
			}
			continue
		}
		byURL[c.URL] = len(merged)
		merged = append(merged, c)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].OnScreenArea != merged[j].OnScreenArea {
			return merged[i].OnScreenArea > merged[j].OnScreenArea
		}
		return merged[i].NaturalArea > merged[j].NaturalArea
	})

	if maxCandidates > 0 && len(merged) > maxCandidates {
		merged = merged[:maxCandidates]
	}
	return merged
}

// Rejection reasons reported in DownloadResults for candidates that never
// reach the network.
const (
	ReasonDataURI   = "data URI"
	ReasonScheme    = "non-http scheme"
	ReasonSVG       = "svg by extension"
	ReasonTracking  = "classified as tracking"
	ReasonTooSmall  = "below minimum size floor"
	ReasonNotRaster = "skipped, not raster"
)

// Eligible pre-screens a candidate before download. Returns ("", true) for
// downloadable candidates, or a skip reason.
func Eligible(c models.ImageCandidate) (string, bool) {
	lower := strings.ToLower(c.URL)
	switch {
	case strings.HasPrefix(lower, "data:"):
		return ReasonDataURI, false
	case !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://"):
		return ReasonScheme, false
	}
	if ext := pathExtension(lower); ext == "svg" {
		return ReasonSVG, false
	}
	if IsTracking(c.URL) {
		return ReasonTracking, false
	}
	if !meetsSizeFloor(c) {
		return ReasonTooSmall, false
	}
	return "", true
}

func meetsSizeFloor(c models.ImageCandidate) bool {
	// Candidates from static-HTML discovery carry no measurements at all.
	// Let those through; the download stage still rejects non-image bodies.
	if c.Width == 0 && c.Height == 0 && c.NaturalArea == 0 && c.OnScreenArea == 0 {
		return true
	}
	if c.Width >= minSide && c.Height >= minSide {
		return true
	}
	if c.NaturalArea >= minNaturalArea {
		return true
	}
	if c.OnScreenArea >= minOnScreenArea {
		return true
	}
	return false
}

// pathExtension returns the lowercase extension of the URL path, ignoring
// query and fragment.
func pathExtension(lower string) string {
	for _, sep := range []byte{'?', '#'} {
		if idx := strings.IndexByte(lower, sep); idx >= 0 {
			lower = lower[:idx]
		}
	}
	slash := strings.LastIndexByte(lower, '/')
	dot := strings.LastIndexByte(lower, '.')
	if dot < 0 || dot < slash {
		return ""
	}
	return lower[dot+1:]
}
