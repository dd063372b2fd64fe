package http

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Slug normalizes a channel display name into an entity-id style token:
// transliterated to ASCII, lowercased, with runs of anything else collapsed
// to single underscores. "Küste 24/7" becomes "kuste_24_7".
func Slug(name string) string {
	ascii := unidecode.Unidecode(name)

	var b strings.Builder
	b.Grow(len(ascii))
	lastUnderscore := true // swallow leading separators
	for _, r := range strings.ToLower(ascii) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
