package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify folds s into a URL path segment: accents stripped, lower case,
// runs of anything other than [a-z0-9] collapsed to a single hyphen.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// IsSlug reports whether s is already in canonical slug form.
func IsSlug(s string) bool {
	return s != "" && Slugify(s) == s
}

var titleCaser = cases.Title(language.English)

// TitleCase renders a label such as an industry name in title case.
func TitleCase(s string) string {
	return titleCaser.String(strings.TrimSpace(s))
}
