// Package styles reduces raw computed-style frequency tables sampled from
// a live page into ranked brand-style statistics.
package styles

import (
	"sort"
	"strings"

	"github.com/use-agent/brandlens/colorx"
	"github.com/use-agent/brandlens/config"
	"github.com/use-agent/brandlens/models"
)

// accentSpread is the minimum max-channel-minus-min-channel distance for a
// color to count as chromatic. Grays sit below it.
const accentSpread = 18

// maxAccents caps the accent candidate list.
const maxAccents = 12

// Sample is the raw output of one in-page style sweep: per-channel value
// frequency tables keyed by the verbatim computed value.
type Sample struct {
	BackgroundColors map[string]int `json:"backgroundColors"`
	TextColors       map[string]int `json:"textColors"`
	BorderColors     map[string]int `json:"borderColors"`
	LinkColors       map[string]int `json:"linkColors"`

	FontFamilies map[string]int `json:"fontFamilies"`
	FontSizes    map[string]int `json:"fontSizes"`
	FontWeights  map[string]int `json:"fontWeights"`
	LineHeights  map[string]int `json:"lineHeights"`

	SampledElements int `json:"sampledElements"`
}

// Reduce turns a raw sample into ranked stats. Color channels are
// normalized to canonical hex before ranking, which merges spellings of
// the same color ("rgb(255, 255, 255)" and "#fff" count together).
// paletteHex seeds accent detection with the screenshot palette.
func Reduce(s *Sample, cfg config.StylesConfig, paletteHex []string) models.StyleStats {
	stats := models.StyleStats{SampledElements: s.SampledElements}

	stats.BackgroundColors = topColors(s.BackgroundColors, cfg.TopColors)
	stats.TextColors = topColors(s.TextColors, cfg.TopColors)
	stats.BorderColors = topColors(s.BorderColors, cfg.TopColors)
	stats.LinkColors = topColors(s.LinkColors, cfg.TopColors)

	stats.FontFamilies = topValues(s.FontFamilies, cfg.TopFonts)
	stats.FontSizes = topValues(s.FontSizes, cfg.TopFonts)
	stats.FontWeights = topValues(s.FontWeights, cfg.TopFonts)
	stats.LineHeights = topValues(s.LineHeights, cfg.TopFonts)

	stats.AccentCandidates = accentCandidates(stats.LinkColors, paletteHex, stats.TextColors)
	return stats
}

// topColors normalizes raw color values, merges their counts, and returns
// the top k canonical hex values by descending count. Values that do not
// normalize (transparent, keywords with no color) are dropped.
func topColors(freq map[string]int, k int) []string {
	merged := make(map[string]int, len(freq))
	for raw, n := range freq {
		hex, ok := colorx.Normalize(raw)
		if !ok {
			continue
		}
		merged[hex] += n
	}
	return rankByCount(merged, k)
}

// topValues ranks verbatim values by descending count, trimming whitespace
// only.
func topValues(freq map[string]int, k int) []string {
	merged := make(map[string]int, len(freq))
	for raw, n := range freq {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		merged[v] += n
	}
	return rankByCount(merged, k)
}

// rankByCount sorts keys by descending count, breaking ties
// lexicographically for determinism, and caps at k.
func rankByCount(freq map[string]int, k int) []string {
	keys := make([]string, 0, len(freq))
	for v := range freq {
		keys = append(keys, v)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if k > 0 && len(keys) > k {
		keys = keys[:k]
	}
	return keys
}

// accentCandidates unions link colors, the top screenshot-palette values,
// and the top text colors, keeps only chromatic colors, dedupes in that
// source priority order, and caps the list.
func accentCandidates(linkColors, paletteHex, textColors []string) []string {
	const topSlice = 6
	var pool []string
	pool = append(pool, linkColors...)
	pool = append(pool, head(paletteHex, topSlice)...)
	pool = append(pool, head(textColors, topSlice)...)

	seen := make(map[string]struct{}, len(pool))
	var out []string
	for _, hex := range pool {
		if _, dup := seen[hex]; dup {
			continue
		}
		seen[hex] = struct{}{}
		if colorx.ChannelSpread(hex) <= accentSpread {
			continue
		}
		out = append(out, hex)
		if len(out) == maxAccents {
			break
		}
	}
	return out
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
