package palette

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/use-agent/brandlens/models"
)

// fillRect paints a solid block so k-means has clearly separated clusters.
func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFromFileNamedSwatches(t *testing.T) {
	// Three dominant regions: a saturated red, a dark navy, a light gray.
	img := image.NewRGBA(image.Rect(0, 0, 120, 120))
	fillRect(img, 0, 0, 120, 60, color.RGBA{R: 220, G: 30, B: 40, A: 255})
	fillRect(img, 0, 60, 120, 90, color.RGBA{R: 20, G: 25, B: 70, A: 255})
	fillRect(img, 0, 90, 120, 120, color.RGBA{R: 200, G: 200, B: 205, A: 255})

	p, err := FromFile(writePNG(t, img))
	if err != nil {
		t.Fatal(err)
	}
	if p == nil {
		t.Fatal("nil palette")
	}

	if _, ok := p.Swatches["Vibrant"]; !ok {
		t.Errorf("missing Vibrant swatch, got %v", keys(p.Swatches))
	}
	if len(p.RankedHex) == 0 {
		t.Fatal("empty ranking")
	}
	// Red covers half the image, so it must rank first.
	top := p.Swatches["Vibrant"]
	if p.RankedHex[0] != top.Hex {
		t.Errorf("ranked[0] = %s, want %s", p.RankedHex[0], top.Hex)
	}
}

func TestFromImageAllWhiteYieldsNoPalette(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	fillRect(img, 0, 0, 60, 60, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	p, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Errorf("expected nil palette for all-white image, got %v", p.Swatches)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b int
		want    string
		wantOK  bool
	}{
		{"saturated mid red", 220, 30, 40, "Vibrant", true},
		{"dark saturated navy", 20, 25, 120, "DarkVibrant", true},
		{"light saturated pink", 250, 180, 200, "LightVibrant", true},
		{"mid gray", 128, 128, 128, "Muted", true},
		{"dark gray", 50, 52, 55, "DarkMuted", true},
		{"light gray", 200, 200, 205, "LightMuted", true},
		{"near white", 254, 254, 254, "", false},
		{"near black", 3, 3, 3, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classify(tt.r, tt.g, tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("classify(%d,%d,%d) = %q,%v want %q,%v", tt.r, tt.g, tt.b, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRankHexTiebreakFollowsNameOrder(t *testing.T) {
	// Equal populations: ordering falls back to the fixed name order, so
	// Vibrant outranks Muted outranks LightMuted.
	swatches := map[string]models.Swatch{
		"Muted":      {Hex: "#808080", Population: 100},
		"Vibrant":    {Hex: "#DC1E28", Population: 100},
		"LightMuted": {Hex: "#C8C8CD", Population: 100},
		"DarkMuted":  {Hex: "#323437", Population: 300},
	}
	got := rankHex(swatches)
	want := []string{"#323437", "#DC1E28", "#808080", "#C8C8CD"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func keys(m map[string]models.Swatch) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
