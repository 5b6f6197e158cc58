package store

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeNaturalKey folds a user-entered name for natural-key
// matching: Unicode NFC, lowercase, trimmed, inner whitespace
// collapsed. The raw column values keep whatever the user typed; only
// the norm_key column uses this form, so import de-duplication is not
// defeated by composition or casing differences.
func normalizeNaturalKey(parts ...string) string {
	folded := make([]string, 0, len(parts))
	for _, p := range parts {
		p = norm.NFC.String(p)
		p = strings.ToLower(strings.TrimSpace(p))
		p = strings.Join(strings.Fields(p), " ")
		folded = append(folded, p)
	}
	return strings.Join(folded, "\x1f")
}

// SongNaturalKey returns the normalized de-duplication key for a song.
func SongNaturalKey(name, artist string) string {
	return normalizeNaturalKey(name, artist)
}

// VenueNaturalKey returns the normalized de-duplication key for a venue.
func VenueNaturalKey(name string) string {
	return normalizeNaturalKey(name)
}
