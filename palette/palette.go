// Package palette extracts named dominant-color palettes from raster
// images. Clusters come from k-means quantization; each cluster is then
// bucketed into a fixed swatch vocabulary by saturation and lightness, so
// two runs over the same image produce the same names.
package palette

import (
	"fmt"
	"image"
	"os"
	"sort"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	prominentcolor "github.com/EdlinOrg/prominentcolor"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/use-agent/brandlens/models"
)

const clusterCount = 6

// Lightness cutoffs for swatch naming. Clusters outside the outer band
// are page chrome (white backgrounds, near-black text) and are dropped.
const (
	nearWhite  = 0.95
	nearBlack  = 0.05
	lightBand  = 0.70
	darkBand   = 0.30
	vibrantSat = 0.35
)

// FromFile extracts a palette from an image file. Formats are detected
// from content, not the filename. A nil palette with nil error means the
// image decoded but yielded no usable swatches (for example an all-white
// image).
func FromFile(path string) (*models.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(img)
}

// FromImage extracts a palette from a decoded image.
func FromImage(img image.Image) (*models.Palette, error) {
	items, err := prominentcolor.KmeansWithAll(
		clusterCount,
		img,
		prominentcolor.ArgumentNoCropping,
		prominentcolor.DefaultSize,
		prominentcolor.GetDefaultMasks(),
	)
	if err != nil {
		// Background masks can eat every pixel of a flat image. Retry
		// unmasked; classification still drops the chrome colors.
		items, err = prominentcolor.KmeansWithAll(
			clusterCount,
			img,
			prominentcolor.ArgumentNoCropping,
			prominentcolor.DefaultSize,
			nil,
		)
		if err != nil {
			// Quantization only fails on degenerate inputs (flat or
			// near-empty images). Those have no palette to report.
			return nil, nil
		}
	}

	p := &models.Palette{Swatches: make(map[string]models.Swatch)}
	for _, item := range items {
		name, ok := classify(int(item.Color.R), int(item.Color.G), int(item.Color.B))
		if !ok {
			continue
		}
		sw := models.Swatch{
			Hex:        fmt.Sprintf("#%02X%02X%02X", item.Color.R, item.Color.G, item.Color.B),
			RGB:        [3]int{int(item.Color.R), int(item.Color.G), int(item.Color.B)},
			Population: item.Cnt,
		}
		// One swatch per name; a larger cluster wins the slot.
		if prev, exists := p.Swatches[name]; !exists || sw.Population > prev.Population {
			p.Swatches[name] = sw
		}
	}
	if len(p.Swatches) == 0 {
		return nil, nil
	}
	p.RankedHex = rankHex(p.Swatches)
	return p, nil
}

// classify buckets an RGB cluster into the swatch vocabulary. Near-white
// and near-black clusters are dropped.
func classify(r, g, b int) (string, bool) {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	_, s, l := c.Hsl()

	if l > nearWhite || l < nearBlack {
		return "", false
	}

	base := "Muted"
	if s >= vibrantSat {
		base = "Vibrant"
	}
	switch {
	case l > lightBand:
		return "Light" + base, true
	case l < darkBand:
		return "Dark" + base, true
	default:
		return base, true
	}
}

// rankHex orders swatch hex values by descending population. Equal
// populations break by position in the fixed name order, so ranking is
// deterministic.
func rankHex(swatches map[string]models.Swatch) []string {
	type entry struct {
		hex  string
		pop  int
		prio int
	}
	entries := make([]entry, 0, len(swatches))
	for i, name := range models.SwatchNames {
		if sw, ok := swatches[name]; ok {
			entries = append(entries, entry{hex: sw.Hex, pop: sw.Population, prio: i})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].pop != entries[j].pop {
			return entries[i].pop > entries[j].pop
		}
		return entries[i].prio < entries[j].prio
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.hex
	}
	return out
}
