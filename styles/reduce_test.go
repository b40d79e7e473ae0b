package styles

import (
	"testing"

	"github.com/use-agent/brandlens/config"
)

func testCfg() config.StylesConfig {
	return config.StylesConfig{SampleLimit: 3000, TopColors: 16, TopFonts: 12}
}

func TestReduceMergesColorSpellings(t *testing.T) {
	s := &Sample{
		BackgroundColors: map[string]int{
			"rgb(255, 255, 255)": 60,
			"#fff":               25,
			"rgb(18, 52, 86)":    40,
			"transparent":        500, // must not drown out real colors
		},
		SampledElements: 125,
	}
	stats := Reduce(s, testCfg(), nil)

	if len(stats.BackgroundColors) != 2 {
		t.Fatalf("got %v", stats.BackgroundColors)
	}
	// 60+25 occurrences of white beat 40 of navy.
	if stats.BackgroundColors[0] != "#FFFFFF" {
		t.Errorf("top background = %s, want #FFFFFF", stats.BackgroundColors[0])
	}
	if stats.BackgroundColors[1] != "#123456" {
		t.Errorf("second background = %s, want #123456", stats.BackgroundColors[1])
	}
	if stats.SampledElements != 125 {
		t.Errorf("sampled = %d", stats.SampledElements)
	}
}

func TestReduceCapsTopK(t *testing.T) {
	freq := make(map[string]int)
	for i := 0; i < 30; i++ {
		freq[hexOf(i)] = 30 - i
	}
	stats := Reduce(&Sample{TextColors: freq}, testCfg(), nil)
	if len(stats.TextColors) != 16 {
		t.Errorf("got %d text colors, want 16", len(stats.TextColors))
	}
}

func hexOf(i int) string {
	// Distinct valid hex colors.
	b := byte(i * 8)
	return "#" + string([]byte{hexDigit(b >> 4), hexDigit(b & 0xF)}) + "0011"
}

func hexDigit(b byte) byte {
	if b < 10 {
		return '0' + b
	}
	return 'a' + b - 10
}

func TestReduceTypography(t *testing.T) {
	s := &Sample{
		FontFamilies: map[string]int{
			`"Inter", sans-serif`: 900,
			"Georgia, serif":      12,
			"   ":                 50,
		},
		FontWeights: map[string]int{"400": 700, "600": 150, "700": 90},
	}
	stats := Reduce(s, testCfg(), nil)
	if len(stats.FontFamilies) != 2 || stats.FontFamilies[0] != `"Inter", sans-serif` {
		t.Errorf("families = %v", stats.FontFamilies)
	}
	if stats.FontWeights[0] != "400" {
		t.Errorf("weights = %v", stats.FontWeights)
	}
}

func TestAccentCandidates(t *testing.T) {
	links := []string{"#1A73E8", "#333333"}      // blue is chromatic, gray is not
	paletteHex := []string{"#E91E63", "#1A73E8"} // duplicate blue must not repeat
	text := []string{"#212121", "#00796B"}       // teal survives, near-black gray does not

	got := accentCandidates(links, paletteHex, text)
	want := []string{"#1A73E8", "#E91E63", "#00796B"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("accent %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestAccentCandidatesCap(t *testing.T) {
	var links []string
	for i := 0; i < 20; i++ {
		links = append(links, hexDistinctChromatic(i))
	}
	got := accentCandidates(links, nil, nil)
	if len(got) != maxAccents {
		t.Errorf("got %d accents, want %d", len(got), maxAccents)
	}
}

func hexDistinctChromatic(i int) string {
	// Red channel varies, green stays low, blue stays high: spread > 18.
	return "#" + string([]byte{hexDigit(byte(i) >> 4), hexDigit(byte(i) & 0xF)}) + "00FF"
}
