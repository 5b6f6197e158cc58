// Package stats implements the transactional operations that keep the
// aggregate fields on songs, venues and song/venue rows consistent
// with the underlying visit and performance history.
package stats

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/franz/karaoke-tracker/internal/keys"
	"github.com/franz/karaoke-tracker/internal/store"
	"github.com/franz/karaoke-tracker/internal/util"
)

// Engine applies aggregate-preserving mutations to a store. Every
// operation runs as a single transaction; partial effects are never
// visible.
type Engine struct {
	store *store.Store
}

// New creates a stats engine over the given store
func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// LogPerformance records one song performance during a visit and
// applies all aggregate effects together:
//   - the performance row is inserted
//   - the song's total_performances and last_performed move forward
//   - if the visit has never been counted before, the venue's
//     total_visits and last_visited move forward, dated by the visit's
//     own start timestamp, and the visit is marked counted for good
//   - the (song, venue) row's performance_count and last_performed
//     move forward, creating the row if it does not exist yet
//
// Returns the new performance's ID.
func (e *Engine) LogPerformance(visitID, songID int64, keyAdjustment int, notes string, ts time.Time) (int64, error) {
	if !keys.ValidAdjustment(keyAdjustment) {
		return 0, fmt.Errorf("key adjustment %d outside [%d, %d]",
			keyAdjustment, keys.MinAdjustment, keys.MaxAdjustment)
	}

	var perfID int64
	err := e.store.Transaction(func(tx *sql.Tx) error {
		visit, err := e.store.GetVisitTx(tx, visitID)
		if err != nil {
			return err
		}
		if visit == nil {
			return fmt.Errorf("visit %d: %w", visitID, util.ErrNotFound)
		}

		song, err := e.store.GetSongTx(tx, songID)
		if err != nil {
			return err
		}
		if song == nil {
			return fmt.Errorf("song %d: %w", songID, util.ErrNotFound)
		}

		perf := &store.Performance{
			VisitID:       visitID,
			SongID:        songID,
			KeyAdjustment: keyAdjustment,
			Notes:         notes,
			Timestamp:     ts,
		}
		if err := e.store.InsertPerformanceTx(tx, perf); err != nil {
			return err
		}
		perfID = perf.ID

		if err := e.store.BumpSongPerformanceTx(tx, songID, ts); err != nil {
			return err
		}

		// A visit counts toward the venue exactly once, ever. The
		// persisted flag survives performance deletions, so deleting a
		// visit's only performance and logging a new one cannot bump
		// the venue a second time.
		if !visit.Counted {
			if err := e.store.BumpVenueVisitTx(tx, visit.VenueID, visit.Timestamp); err != nil {
				return err
			}
			if err := e.store.MarkVisitCountedTx(tx, visitID); err != nil {
				return err
			}
		}

		return e.store.UpsertSongVenueAggregateTx(tx, songID, visit.VenueID, ts)
	})
	if err != nil {
		return 0, err
	}
	return perfID, nil
}

// StartVisit opens a new visit at a venue. Venue aggregates are not
// touched; a visit only counts once its first performance is logged.
func (e *Engine) StartVisit(venueID int64, ts time.Time, notes string, isActive bool) (int64, error) {
	var visitID int64
	err := e.store.Transaction(func(tx *sql.Tx) error {
		venue, err := e.store.GetVenueTx(tx, venueID)
		if err != nil {
			return err
		}
		if venue == nil {
			return fmt.Errorf("venue %d: %w", venueID, util.ErrNotFound)
		}

		visit := &store.Visit{
			VenueID:   venueID,
			Timestamp: ts,
			Notes:     notes,
			IsActive:  isActive,
		}
		if err := e.store.InsertVisitTx(tx, visit); err != nil {
			return err
		}
		visitID = visit.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return visitID, nil
}

// CompleteVisit closes a visit, merging the optional overrides (a nil
// override keeps the prior field). Ending a visit that no longer
// exists is a silent no-op: not an error state for the caller.
func (e *Engine) CompleteVisit(visitID int64, endTS time.Time, notes *string, amountSpent *float64) error {
	return e.store.Transaction(func(tx *sql.Tx) error {
		visit, err := e.store.GetVisitTx(tx, visitID)
		if err != nil {
			return err
		}
		if visit == nil {
			return nil
		}

		visit.EndTimestamp = &endTS
		visit.IsActive = false
		if notes != nil {
			visit.Notes = *notes
		}
		if amountSpent != nil {
			visit.AmountSpent = amountSpent
		}

		return e.store.UpdateVisitTx(tx, visit)
	})
}

// DeleteSong removes a song, its venue rows and (via cascade) its
// performances. No other aggregate needs correction.
func (e *Engine) DeleteSong(songID int64) error {
	return e.store.Transaction(func(tx *sql.Tx) error {
		song, err := e.store.GetSongTx(tx, songID)
		if err != nil {
			return err
		}
		if song == nil {
			return fmt.Errorf("song %d: %w", songID, util.ErrNotFound)
		}

		if err := e.store.DeleteSongVenueInfoBySongTx(tx, songID); err != nil {
			return err
		}
		return e.store.DeleteSongTx(tx, songID)
	})
}

// DeleteVenue removes a venue, its song rows and (via cascade) its
// visits and their performances.
func (e *Engine) DeleteVenue(venueID int64) error {
	return e.store.Transaction(func(tx *sql.Tx) error {
		venue, err := e.store.GetVenueTx(tx, venueID)
		if err != nil {
			return err
		}
		if venue == nil {
			return fmt.Errorf("venue %d: %w", venueID, util.ErrNotFound)
		}

		if err := e.store.DeleteSongVenueInfoByVenueTx(tx, venueID); err != nil {
			return err
		}
		return e.store.DeleteVenueTx(tx, venueID)
	})
}

// DeleteVisit removes a single visit and its performances, walking the
// per-song and per-venue-song counts back so they keep tracking live
// rows. The venue's total_visits and every last_* date stay frozen.
func (e *Engine) DeleteVisit(visitID int64) error {
	return e.store.Transaction(func(tx *sql.Tx) error {
		visit, err := e.store.GetVisitTx(tx, visitID)
		if err != nil {
			return err
		}
		if visit == nil {
			return fmt.Errorf("visit %d: %w", visitID, util.ErrNotFound)
		}

		perfs, err := e.store.ListPerformancesByVisitTx(tx, visitID)
		if err != nil {
			return err
		}

		bySong := make(map[int64]int)
		for _, perf := range perfs {
			bySong[perf.SongID]++
		}
		for songID, n := range bySong {
			if err := e.store.DecrementSongPerformancesTx(tx, songID, n); err != nil {
				return err
			}
			if err := e.store.DecrementSongVenueCountTx(tx, songID, visit.VenueID, n); err != nil {
				return err
			}
		}

		return e.store.DeleteVisitTx(tx, visitID)
	})
}

// DeletePerformance removes a single performance and walks the song
// and venue-song counts back by one. Dates stay frozen.
func (e *Engine) DeletePerformance(perfID int64) error {
	return e.store.Transaction(func(tx *sql.Tx) error {
		perf, err := e.store.GetPerformanceTx(tx, perfID)
		if err != nil {
			return err
		}
		if perf == nil {
			return fmt.Errorf("performance %d: %w", perfID, util.ErrNotFound)
		}

		visit, err := e.store.GetVisitTx(tx, perf.VisitID)
		if err != nil {
			return err
		}

		if err := e.store.DeletePerformanceTx(tx, perfID); err != nil {
			return err
		}

		if err := e.store.DecrementSongPerformancesTx(tx, perf.SongID, 1); err != nil {
			return err
		}
		if visit != nil {
			if err := e.store.DecrementSongVenueCountTx(tx, perf.SongID, visit.VenueID, 1); err != nil {
				return err
			}
		}
		return nil
	})
}

// Associate explicitly creates the (song, venue) row, e.g. to record a
// venue's catalogue code before the song is ever performed there.
// Unlike the upsert path used by LogPerformance this fails with a
// conflict when the pair already exists.
func (e *Engine) Associate(info *store.SongVenueInfo) error {
	if info.KeyAdjustment != nil && !keys.ValidAdjustment(*info.KeyAdjustment) {
		return fmt.Errorf("key adjustment %d outside [%d, %d]",
			*info.KeyAdjustment, keys.MinAdjustment, keys.MaxAdjustment)
	}
	if info.VenueKey != "" {
		if _, ok := keys.ParseKey(info.VenueKey); !ok {
			return fmt.Errorf("unrecognized key name %q", info.VenueKey)
		}
	}

	return e.store.Transaction(func(tx *sql.Tx) error {
		song, err := e.store.GetSongTx(tx, info.SongID)
		if err != nil {
			return err
		}
		if song == nil {
			return fmt.Errorf("song %d: %w", info.SongID, util.ErrNotFound)
		}

		venue, err := e.store.GetVenueTx(tx, info.VenueID)
		if err != nil {
			return err
		}
		if venue == nil {
			return fmt.Errorf("venue %d: %w", info.VenueID, util.ErrNotFound)
		}

		existing, err := e.store.GetSongVenueInfoTx(tx, info.SongID, info.VenueID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("song %d at venue %d: %w", info.SongID, info.VenueID, util.ErrConflict)
		}

		return e.store.InsertSongVenueInfoTx(tx, info)
	})
}
