// Package colorx converts arbitrary CSS color syntax to canonical hex and
// scores color pairs for WCAG contrast. Everything here is pure: invalid
// input is a normal "no value" result, never an error.
package colorx

import (
	"fmt"
	"strconv"
	"strings"
)

// alphaFloor is the rgba alpha at or below which a color is treated as
// fully transparent.
const alphaFloor = 0.01

// namedColors covers the CSS keywords that survive into computed styles on
// real pages. Computed styles normally serialize to rgb()/rgba(), so this
// table only needs the names that show up in raw stylesheets and metas.
var namedColors = map[string]string{
	"black":   "#000000",
	"silver":  "#C0C0C0",
	"gray":    "#808080",
	"grey":    "#808080",
	"white":   "#FFFFFF",
	"maroon":  "#800000",
	"red":     "#FF0000",
	"purple":  "#800080",
	"fuchsia": "#FF00FF",
	"magenta": "#FF00FF",
	"green":   "#008000",
	"lime":    "#00FF00",
	"olive":   "#808000",
	"yellow":  "#FFFF00",
	"navy":    "#000080",
	"blue":    "#0000FF",
	"teal":    "#008080",
	"aqua":    "#00FFFF",
	"cyan":    "#00FFFF",
	"orange":  "#FFA500",
	"gold":    "#FFD700",
	"pink":    "#FFC0CB",
	"brown":   "#A52A2A",
	"beige":   "#F5F5DC",
	"ivory":   "#FFFFF0",
	"coral":   "#FF7F50",
	"salmon":  "#FA8072",
	"khaki":   "#F0E68C",
	"indigo":  "#4B0082",
	"violet":  "#EE82EE",
	"crimson": "#DC143C",
	"tomato":  "#FF6347",
}

// Normalize reduces a raw CSS color string to canonical uppercase #RRGGBB.
// Returns ("", false) for empty input, the literal transparent, invalid
// colors, and rgba values whose alpha is at or below the transparency
// floor. Never fails.
func Normalize(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "transparent" || s == "none" || s == "currentcolor" || s == "inherit" || s == "initial" {
		return "", false
	}

	if hex, ok := namedColors[s]; ok {
		return hex, true
	}

	if strings.HasPrefix(s, "#") {
		return normalizeHex(s)
	}

	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return normalizeRGB(s)
	}

	return "", false
}

func normalizeHex(s string) (string, bool) {
	body := s[1:]
	switch len(body) {
	case 3: // #abc → #aabbcc
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[2*i] = body[i]
			expanded[2*i+1] = body[i]
		}
		body = string(expanded)
	case 8: // #rrggbbaa
		alpha, err := strconv.ParseUint(body[6:], 16, 8)
		if err != nil {
			return "", false
		}
		if float64(alpha)/255.0 <= alphaFloor {
			return "", false
		}
		body = body[:6]
	case 6:
	default:
		return "", false
	}
	if _, err := strconv.ParseUint(body, 16, 32); err != nil {
		return "", false
	}
	return "#" + strings.ToUpper(body), true
}

// normalizeRGB handles rgb(r,g,b), rgba(r,g,b,a), and the modern
// space-separated form rgb(r g b / a).
func normalizeRGB(s string) (string, bool) {
	open := strings.IndexByte(s, '(')
	close := strings.LastIndexByte(s, ')')
	if open < 0 || close <= open {
		return "", false
	}
	inner := s[open+1 : close]
	inner = strings.ReplaceAll(inner, "/", " ")
	inner = strings.ReplaceAll(inner, ",", " ")

	parts := strings.Fields(inner)
	if len(parts) != 3 && len(parts) != 4 {
		return "", false
	}

	var rgb [3]int
	for i := 0; i < 3; i++ {
		v, ok := parseChannel(parts[i])
		if !ok {
			return "", false
		}
		rgb[i] = v
	}

	if len(parts) == 4 {
		alpha, err := strconv.ParseFloat(strings.TrimSuffix(parts[3], "%"), 64)
		if err != nil {
			return "", false
		}
		if strings.HasSuffix(parts[3], "%") {
			alpha /= 100
		}
		if alpha <= alphaFloor {
			return "", false
		}
	}

	return fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2]), true
}

// parseChannel accepts integer, float, and percentage channel values.
func parseChannel(s string) (int, bool) {
	pct := strings.HasSuffix(s, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	if pct {
		f = f * 255 / 100
	}
	v := int(f + 0.5)
	if v < 0 || v > 255 {
		return 0, false
	}
	return v, true
}

// ParseHex splits a canonical #RRGGBB into its channels.
// Returns false for anything that is not a 6-digit hex color.
func ParseHex(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF), true
}

// ChannelSpread returns max(R,G,B) - min(R,G,B). Near-grays, near-whites,
// and near-blacks have a small spread; chromatic colors a large one.
func ChannelSpread(hex string) int {
	r, g, b, ok := ParseHex(hex)
	if !ok {
		return 0
	}
	maxC, minC := r, r
	for _, c := range []int{g, b} {
		if c > maxC {
			maxC = c
		}
		if c < minC {
			minC = c
		}
	}
	return maxC - minC
}
