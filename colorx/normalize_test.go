package colorx

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"empty", "", "", false},
		{"transparent", "transparent", "", false},
		{"rgba zero alpha", "rgba(0,0,0,0)", "", false},
		{"rgba tiny alpha", "rgba(10, 20, 30, 0.01)", "", false},
		{"rgba opaque black", "rgba(0,0,0,1)", "#000000", true},
		{"rgb white", "rgb(255, 255, 255)", "#FFFFFF", true},
		{"rgb no spaces", "rgb(16,32,48)", "#102030", true},
		{"modern slash syntax", "rgb(255 0 0 / 0.5)", "#FF0000", true},
		{"percent channels", "rgb(100%, 0%, 0%)", "#FF0000", true},
		{"short hex", "#abc", "#AABBCC", true},
		{"long hex lowercase", "#ff8800", "#FF8800", true},
		{"hex with opaque alpha", "#ff8800ff", "#FF8800", true},
		{"hex with zero alpha", "#ff880000", "", false},
		{"named red", "red", "#FF0000", true},
		{"named mixed case", "  White ", "#FFFFFF", true},
		{"unknown name", "blurple", "", false},
		{"garbage", "url(#gradient)", "", false},
		{"out of range channel", "rgb(300,0,0)", "", false},
		{"truncated rgb", "rgb(1,2)", "", false},
		{"currentcolor keyword", "currentColor", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalize_AlwaysCanonical(t *testing.T) {
	inputs := []string{"#fff", "rgb(1,2,3)", "rgba(200,100,50,0.9)", "navy", "#AbCdEf"}
	for _, in := range inputs {
		hex, ok := Normalize(in)
		if !ok {
			t.Fatalf("Normalize(%q) unexpectedly produced no value", in)
		}
		if len(hex) != 7 || hex[0] != '#' {
			t.Errorf("Normalize(%q) = %q, not #RRGGBB shaped", in, hex)
		}
		for _, c := range hex[1:] {
			if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
				t.Errorf("Normalize(%q) = %q contains non-uppercase-hex digit %q", in, hex, c)
			}
		}
	}
}

func TestChannelSpread(t *testing.T) {
	tests := []struct {
		hex  string
		want int
	}{
		{"#FFFFFF", 0},
		{"#000000", 0},
		{"#808080", 0},
		{"#FF0000", 255},
		{"#112233", 34},
		{"not-hex", 0},
	}
	for _, tt := range tests {
		if got := ChannelSpread(tt.hex); got != tt.want {
			t.Errorf("ChannelSpread(%q) = %d, want %d", tt.hex, got, tt.want)
		}
	}
}
