// Package report generates summary reports over the tracked history:
// totals, most-performed songs, most-visited venues and open visits.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/franz/karaoke-tracker/internal/purge"
	"github.com/franz/karaoke-tracker/internal/store"
)

// Summary represents a complete summary report
type Summary struct {
	GeneratedAt time.Time

	// Row counts
	Songs         int
	Venues        int
	Visits        int
	Performances  int
	SongVenueRows int

	OpenVisits int

	TopSongs  []SongStat
	TopVenues []VenueStat

	// Advisory purge size for the current visit count
	RecommendedPurge int

	DatabasePath string
}

// SongStat is one row of the most-performed table
type SongStat struct {
	Name          string
	Artist        string
	Performances  int
	LastPerformed *time.Time
}

// VenueStat is one row of the most-visited table
type VenueStat struct {
	Name        string
	Visits      int
	LastVisited *time.Time
}

const topN = 10

// Generate builds a summary from the store
func Generate(st *store.Store) (*Summary, error) {
	summary := &Summary{GeneratedAt: time.Now()}

	songs, err := st.ListSongs()
	if err != nil {
		return nil, err
	}
	venues, err := st.ListVenues()
	if err != nil {
		return nil, err
	}
	visits, err := st.ListVisits()
	if err != nil {
		return nil, err
	}

	summary.Songs = len(songs)
	summary.Venues = len(venues)
	summary.Visits = len(visits)

	summary.Performances, err = st.CountPerformances()
	if err != nil {
		return nil, err
	}
	summary.SongVenueRows, err = st.CountSongVenueInfo()
	if err != nil {
		return nil, err
	}

	for _, visit := range visits {
		if visit.IsActive {
			summary.OpenVisits++
		}
	}

	sort.SliceStable(songs, func(i, j int) bool {
		return songs[i].TotalPerformances > songs[j].TotalPerformances
	})
	for _, song := range songs {
		if len(summary.TopSongs) >= topN || song.TotalPerformances == 0 {
			break
		}
		summary.TopSongs = append(summary.TopSongs, SongStat{
			Name:          song.Name,
			Artist:        song.Artist,
			Performances:  song.TotalPerformances,
			LastPerformed: song.LastPerformed,
		})
	}

	sort.SliceStable(venues, func(i, j int) bool {
		return venues[i].TotalVisits > venues[j].TotalVisits
	})
	for _, venue := range venues {
		if len(summary.TopVenues) >= topN || venue.TotalVisits == 0 {
			break
		}
		summary.TopVenues = append(summary.TopVenues, VenueStat{
			Name:        venue.Name,
			Visits:      venue.TotalVisits,
			LastVisited: venue.LastVisited,
		})
	}

	summary.RecommendedPurge = purge.Recommended(summary.Visits)

	return summary, nil
}

// Markdown renders the summary as a markdown document
func (s *Summary) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Karaoke Tracker Summary\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", s.GeneratedAt.Format(time.RFC1123))
	if s.DatabasePath != "" {
		fmt.Fprintf(&b, "Database: `%s`\n\n", s.DatabasePath)
	}

	fmt.Fprintf(&b, "## Totals\n\n")
	fmt.Fprintf(&b, "- Songs: %s\n", humanize.Comma(int64(s.Songs)))
	fmt.Fprintf(&b, "- Venues: %s\n", humanize.Comma(int64(s.Venues)))
	fmt.Fprintf(&b, "- Visits: %s (%d still open)\n", humanize.Comma(int64(s.Visits)), s.OpenVisits)
	fmt.Fprintf(&b, "- Performances: %s\n", humanize.Comma(int64(s.Performances)))
	fmt.Fprintf(&b, "- Song/venue entries: %s\n\n", humanize.Comma(int64(s.SongVenueRows)))

	if len(s.TopSongs) > 0 {
		fmt.Fprintf(&b, "## Most performed\n\n")
		fmt.Fprintf(&b, "| Song | Artist | Performances | Last performed |\n")
		fmt.Fprintf(&b, "|------|--------|--------------|----------------|\n")
		for _, stat := range s.TopSongs {
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
				stat.Name, stat.Artist, stat.Performances, humanizeTime(stat.LastPerformed))
		}
		fmt.Fprintf(&b, "\n")
	}

	if len(s.TopVenues) > 0 {
		fmt.Fprintf(&b, "## Most visited\n\n")
		fmt.Fprintf(&b, "| Venue | Visits | Last visited |\n")
		fmt.Fprintf(&b, "|-------|--------|--------------|\n")
		for _, stat := range s.TopVenues {
			fmt.Fprintf(&b, "| %s | %d | %s |\n",
				stat.Name, stat.Visits, humanizeTime(stat.LastVisited))
		}
		fmt.Fprintf(&b, "\n")
	}

	if s.RecommendedPurge > 0 {
		fmt.Fprintf(&b, "## Housekeeping\n\n")
		fmt.Fprintf(&b, "History has grown to %s visits; purging the oldest %d is recommended.\n",
			humanize.Comma(int64(s.Visits)), s.RecommendedPurge)
	}

	return b.String()
}

// WriteMarkdown writes the rendered summary to a file, creating parent
// directories as needed
func WriteMarkdown(s *Summary, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(s.Markdown()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func humanizeTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return humanize.Time(*t)
}
