package assets

import (
	"fmt"
	"testing"

	"github.com/use-agent/brandlens/models"
)

func TestDedupeRecords(t *testing.T) {
	in := []models.AssetRecord{
		{URL: "https://a.com/1.png", Kind: models.AssetImage},
		{URL: "https://a.com/2.png", Kind: models.AssetImage},
		{URL: "https://a.com/1.png", Kind: models.AssetImage},
		{URL: "", Kind: models.AssetImage},
	}
	out := DedupeRecords(in)
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2", len(out))
	}
	if out[0].URL != "https://a.com/1.png" || out[1].URL != "https://a.com/2.png" {
		t.Errorf("order not preserved: %v", out)
	}
}

func TestRankCandidates(t *testing.T) {
	in := []models.ImageCandidate{
		{URL: "https://a.com/small.png", OnScreenArea: 100, NaturalArea: 100},
		{URL: "https://a.com/hero.png", OnScreenArea: 500_000, NaturalArea: 2_000_000},
		{URL: "https://a.com/hidden.png", OnScreenArea: 0, NaturalArea: 5_000_000},
		{URL: "https://a.com/mid.png", OnScreenArea: 40_000, NaturalArea: 90_000},
	}
	out := RankCandidates(in, 0)
	want := []string{
		"https://a.com/hero.png",
		"https://a.com/mid.png",
		"https://a.com/small.png",
		"https://a.com/hidden.png",
	}
	for i, w := range want {
		if out[i].URL != w {
			t.Errorf("rank %d = %s, want %s", i, out[i].URL, w)
		}
	}
}

func TestRankCandidatesMergesDuplicates(t *testing.T) {
	in := []models.ImageCandidate{
		{URL: "https://a.com/x.png", OnScreenArea: 100, NaturalArea: 900, Width: 30, Height: 30},
		{URL: "https://a.com/x.png", OnScreenArea: 50_000, NaturalArea: 400, Width: 20, Height: 20},
	}
	out := RankCandidates(in, 0)
	if len(out) != 1 {
		t.Fatalf("got %d candidates, want 1", len(out))
	}
	if out[0].OnScreenArea != 50_000 || out[0].NaturalArea != 900 {
		t.Errorf("merge kept wrong maxima: %+v", out[0])
	}
}

func TestRankCandidatesCap(t *testing.T) {
	var in []models.ImageCandidate
	for i := 0; i < 60; i++ {
		in = append(in, models.ImageCandidate{
			URL:          fmt.Sprintf("https://a.com/img-%d.png", i),
			OnScreenArea: i,
		})
	}
	if got := len(RankCandidates(in, 40)); got != 40 {
		t.Fatalf("got %d candidates, want 40", got)
	}
}

func TestEligible(t *testing.T) {
	big := models.ImageCandidate{Width: 800, Height: 600, NaturalArea: 480_000, OnScreenArea: 480_000}

	tests := []struct {
		name       string
		cand       models.ImageCandidate
		wantOK     bool
		wantReason string
	}{
		{"data URI", withURL(big, "data:image/png;base64,iVBOR"), false, ReasonDataURI},
		{"blob scheme", withURL(big, "blob:https://example.com/x"), false, ReasonScheme},
		{"svg extension", withURL(big, "https://a.com/logo.svg"), false, ReasonSVG},
		{"svg extension with query", withURL(big, "https://a.com/logo.svg?v=3"), false, ReasonSVG},
		{"tracking url", withURL(big, "https://ad.doubleclick.net/big.png"), false, ReasonTracking},
		{"too small all axes", models.ImageCandidate{URL: "https://a.com/favicon.png", Width: 32, Height: 32, NaturalArea: 1024, OnScreenArea: 1024}, false, ReasonTooSmall},
		{"passes by side length", models.ImageCandidate{URL: "https://a.com/sq.png", Width: 120, Height: 120, NaturalArea: 14_400, OnScreenArea: 1}, true, ""},
		{"passes by natural area", models.ImageCandidate{URL: "https://a.com/wide.png", Width: 1000, Height: 25, NaturalArea: 25_000}, true, ""},
		{"passes by on-screen area", models.ImageCandidate{URL: "https://a.com/css-bg.png", OnScreenArea: 14_400, Width: 1, Height: 1}, true, ""},
		{"unmeasured fallback candidate", models.ImageCandidate{URL: "https://a.com/static.png"}, true, ""},
		{"good candidate", withURL(big, "https://cdn.a.com/hero.jpg"), true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := Eligible(tt.cand)
			if ok != tt.wantOK {
				t.Fatalf("Eligible(%q) ok = %v, want %v (reason %q)", tt.cand.URL, ok, tt.wantOK, reason)
			}
			if !ok && reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

func withURL(c models.ImageCandidate, u string) models.ImageCandidate {
	c.URL = u
	return c
}
