// Package simhash fingerprints page text so repeat extractions of the
// same URL can detect content drift without storing or diffing the text
// itself.
package simhash

import (
	"hash/fnv"
	"math/bits"
	"strings"
	"unicode"
)

// Fingerprint computes a 64-bit SimHash over normalized word tokens.
// Tokens are lowercased with punctuation stripped, so cosmetic edits
// (casing, trailing periods) do not move the fingerprint.
func Fingerprint(text string) uint64 {
	var vector [64]int
	tokens := 0

	for _, word := range strings.Fields(text) {
		token := normalizeToken(word)
		if token == "" {
			continue
		}
		tokens++

		h := fnv.New64a()
		h.Write([]byte(token))
		hash := h.Sum64()

		for i := 0; i < 64; i++ {
			if hash&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}
	if tokens == 0 {
		return 0
	}

	var fingerprint uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fingerprint |= 1 << uint(i)
		}
	}
	return fingerprint
}

// Distance returns the Hamming distance between two fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar reports whether two fingerprints are within threshold bits of
// each other. A threshold of 3 catches typo-level edits; 8 tolerates
// section reordering.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}

// normalizeToken lowercases a word and trims surrounding punctuation.
// Single-rune leftovers carry no signal and are dropped.
func normalizeToken(word string) string {
	token := strings.TrimFunc(strings.ToLower(word), func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	if len([]rune(token)) < 2 {
		return ""
	}
	return token
}
