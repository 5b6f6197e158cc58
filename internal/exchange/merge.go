package exchange

import (
	"database/sql"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/franz/karaoke-tracker/internal/keys"
	"github.com/franz/karaoke-tracker/internal/store"
	"github.com/franz/karaoke-tracker/internal/util"
)

// Options holds merge options
type Options struct {
	// ShowProgress renders a progress bar on stderr during large
	// imports (suppressed automatically when not a TTY)
	ShowProgress bool
}

// Summary reports how many rows a merge newly inserted per entity
// type. Rows matched to existing entities are not counted.
type Summary struct {
	Songs         int
	Venues        int
	Visits        int
	Performances  int
	SongVenueInfo int
}

// Merge imports a document into a possibly non-empty store as one
// transaction, in dependency order. Songs and venues are matched by
// natural key and reused without overwriting existing fields; visits
// are de-duplicated by (venue, start timestamp) so re-importing the
// same file does not create duplicate sessions. Performances are
// inserted unconditionally: they carry no natural key, and dropping
// apparent duplicates would silently lose history on a legitimate
// re-import. Song/venue rows are skipped when the pair already exists.
func Merge(st *store.Store, doc *Document, opts Options) (*Summary, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if opts.ShowProgress && util.IsTerminal(os.Stderr.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(doc.RowCount(),
			progressbar.OptionSetDescription("Importing"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("rows"),
			progressbar.OptionClearOnFinish(),
		)
	}
	step := func() {
		if bar != nil {
			bar.Add(1)
		}
	}

	summary := &Summary{}
	err := st.Transaction(func(tx *sql.Tx) error {
		songIDs := make(map[int64]int64, len(doc.Songs))
		venueIDs := make(map[int64]int64, len(doc.Venues))
		visitIDs := make(map[int64]int64, len(doc.Visits))

		for _, rec := range doc.Songs {
			existing, err := st.FindSongByNaturalKeyTx(tx, rec.Name, rec.Artist)
			if err != nil {
				return err
			}
			if existing != nil {
				songIDs[rec.ID] = existing.ID
				step()
				continue
			}

			song := &store.Song{
				Name:              rec.Name,
				Artist:            rec.Artist,
				ReferenceKey:      rec.ReferenceKey,
				PreferredKey:      rec.PreferredKey,
				Lyrics:            rec.Lyrics,
				TotalPerformances: rec.TotalPerformances,
				LastPerformed:     timeOpt(rec.LastPerformed),
			}
			if err := st.InsertSongTx(tx, song); err != nil {
				return err
			}
			songIDs[rec.ID] = song.ID
			summary.Songs++
			step()
		}

		for _, rec := range doc.Venues {
			existing, err := st.FindVenueByNameTx(tx, rec.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				venueIDs[rec.ID] = existing.ID
				step()
				continue
			}

			venue := &store.Venue{
				Name:        rec.Name,
				Address:     rec.Address,
				Cost:        rec.Cost,
				RoomType:    rec.RoomType,
				Hours:       rec.Hours,
				Notes:       rec.Notes,
				TotalVisits: rec.TotalVisits,
				LastVisited: timeOpt(rec.LastVisited),
			}
			if err := st.InsertVenueTx(tx, venue); err != nil {
				return err
			}
			venueIDs[rec.ID] = venue.ID
			summary.Venues++
			step()
		}

		// A visit with performances in the document already contributed
		// to its venue's total_visits in the source store; mark it
		// counted so a later performance here does not bump the venue
		// again on top of the imported aggregate.
		counted := make(map[int64]bool, len(doc.Visits))
		for _, rec := range doc.Performances {
			counted[rec.VisitID] = true
		}

		for _, rec := range doc.Visits {
			venueID, ok := venueIDs[rec.VenueID]
			if !ok {
				// Defensive: validation guarantees the reference, but a
				// partially-applicable file must not cause side effects
				step()
				continue
			}

			start := timeOpt(&rec.Timestamp)
			existing, err := st.FindVisitByVenueAndTimeTx(tx, venueID, *start)
			if err != nil {
				return err
			}
			if existing != nil {
				visitIDs[rec.ID] = existing.ID
				step()
				continue
			}

			visit := &store.Visit{
				VenueID:      venueID,
				Timestamp:    *start,
				EndTimestamp: timeOpt(rec.EndTimestamp),
				Notes:        rec.Notes,
				AmountSpent:  rec.AmountSpent,
				IsActive:     rec.IsActive,
				Counted:      counted[rec.ID],
			}
			if err := st.InsertVisitTx(tx, visit); err != nil {
				return err
			}
			visitIDs[rec.ID] = visit.ID
			summary.Visits++
			step()
		}

		for _, rec := range doc.Performances {
			visitID, okVisit := visitIDs[rec.VisitID]
			songID, okSong := songIDs[rec.SongID]
			if !okVisit || !okSong {
				step()
				continue
			}

			perf := &store.Performance{
				VisitID:       visitID,
				SongID:        songID,
				KeyAdjustment: sanitizeAdjustment(rec.KeyAdjustment),
				Notes:         rec.Notes,
				Timestamp:     *timeOpt(&rec.Timestamp),
			}
			if err := st.InsertPerformanceTx(tx, perf); err != nil {
				return err
			}
			summary.Performances++
			step()
		}

		for _, rec := range doc.SongVenueInfo {
			songID, okSong := songIDs[rec.SongID]
			venueID, okVenue := venueIDs[rec.VenueID]
			if !okSong || !okVenue {
				step()
				continue
			}

			existing, err := st.GetSongVenueInfoTx(tx, songID, venueID)
			if err != nil {
				return err
			}
			if existing != nil {
				step()
				continue
			}

			info := &store.SongVenueInfo{
				SongID:           songID,
				VenueID:          venueID,
				VenuesSongID:     rec.VenuesSongID,
				VenueKey:         rec.VenueKey,
				KeyAdjustment:    sanitizeOptAdjustment(rec.KeyAdjustment),
				Lyrics:           rec.Lyrics,
				PerformanceCount: rec.PerformanceCount,
				LastPerformed:    timeOpt(rec.LastPerformed),
			}
			if err := st.InsertSongVenueInfoTx(tx, info); err != nil {
				return err
			}
			summary.SongVenueInfo++
			step()
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// sanitizeAdjustment maps the legacy unknown sentinel to 0 and wraps
// out-of-range values into the canonical [-6, 6] range.
func sanitizeAdjustment(adj int) int {
	if adj == legacySentinel {
		return 0
	}
	return keys.Normalize(adj)
}

// sanitizeOptAdjustment maps the legacy unknown sentinel to absent.
func sanitizeOptAdjustment(adj *int) *int {
	if adj == nil || *adj == legacySentinel {
		return nil
	}
	n := keys.Normalize(*adj)
	return &n
}
