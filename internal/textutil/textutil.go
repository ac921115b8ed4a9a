// Package textutil normalises identifiers (herb names, symptom tags, enum
// values) so that lookups survive full-width characters, stray whitespace and
// case differences.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKC, trims, collapses internal whitespace and drops
// control characters.
func Normalize(s string) string {
	s = strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Key returns the case-folded form of Normalize, used as a map key.
func Key(s string) string {
	return strings.ToLower(Normalize(s))
}

// Tag turns free-form input into a kebab-case tag: "Phlegm Rale" and
// "phlegm_rale" both become "phlegm-rale".
func Tag(s string) string {
	k := Key(s)
	k = strings.ReplaceAll(k, "_", "-")
	return strings.Join(strings.Fields(strings.ReplaceAll(k, "-", " ")), "-")
}

// Unique normalises labels with fn and drops empties and duplicates,
// keeping first-seen order.
func Unique(labels []string, fn func(string) string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		n := fn(l)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
