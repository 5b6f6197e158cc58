// Package meta reads embedded tags from audio files so songs can be
// added to the repertoire without retyping title and artist.
package meta

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// SongTags holds the fields usable for a repertoire entry
type SongTags struct {
	Title  string
	Artist string
}

// ReadSongTags extracts title/artist tags from an audio file. Returns
// an error when the file carries no usable tags.
func ReadSongTags(path string) (*SongTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	tags := &SongTags{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
	}
	if tags.Title == "" {
		return nil, fmt.Errorf("no title tag in %s", path)
	}

	return tags, nil
}
