// Package slug derives canonical URL-safe identifiers from display
// names.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes characters and removes combining marks, so
// "Crème" folds to "Creme".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make derives a slug from a display name: fold diacritics, lowercase,
// replace runs of non-alphanumeric characters with a single hyphen and
// trim leading/trailing hyphens.
func Make(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		// Fold failure leaves the input as-is; the replacement loop
		// below still produces a URL-safe result.
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}
