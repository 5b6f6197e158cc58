package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SongVenueInfo holds the venue-specific details for a song: the
// venue's own catalogue code, the key it plays the song in, and the
// venue-scoped performance aggregates. KeyAdjustment nil means "not
// yet determined", which is distinct from an explicit 0.
type SongVenueInfo struct {
	ID               int64
	SongID           int64
	VenueID          int64
	VenuesSongID     string
	VenueKey         string
	KeyAdjustment    *int
	Lyrics           string
	PerformanceCount int
	LastPerformed    *time.Time
}

const songVenueColumns = `id, song_id, venue_id,
	       COALESCE(venues_song_id, ''), COALESCE(venue_key, ''),
	       key_adjustment, COALESCE(lyrics, ''), performance_count, last_performed`

func scanSongVenueInfo(row interface{ Scan(...interface{}) error }) (*SongVenueInfo, error) {
	info := &SongVenueInfo{}
	var adj sql.NullInt64
	var lastPerformed sql.NullInt64
	err := row.Scan(
		&info.ID, &info.SongID, &info.VenueID,
		&info.VenuesSongID, &info.VenueKey,
		&adj, &info.Lyrics, &info.PerformanceCount, &lastPerformed,
	)
	if err != nil {
		return nil, err
	}
	info.KeyAdjustment = intPtr(adj)
	info.LastPerformed = unixPtr(lastPerformed)
	return info, nil
}

func insertSongVenueInfo(q queryable, info *SongVenueInfo) error {
	result, err := q.Exec(`
		INSERT INTO song_venue_info (song_id, venue_id, venues_song_id, venue_key,
		                             key_adjustment, lyrics, performance_count, last_performed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, info.SongID, info.VenueID, nullStr(info.VenuesSongID), nullStr(info.VenueKey),
		intVal(info.KeyAdjustment), nullStr(info.Lyrics),
		info.PerformanceCount, unixVal(info.LastPerformed))
	if err != nil {
		return fmt.Errorf("failed to insert song venue info: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get song venue info ID: %w", err)
	}
	info.ID = id

	return nil
}

func getSongVenueInfo(q queryable, songID, venueID int64) (*SongVenueInfo, error) {
	info, err := scanSongVenueInfo(q.QueryRow(
		"SELECT "+songVenueColumns+" FROM song_venue_info WHERE song_id = ? AND venue_id = ?",
		songID, venueID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song venue info: %w", err)
	}
	return info, nil
}

// InsertSongVenueInfo inserts a song/venue row and sets its ID
func (s *Store) InsertSongVenueInfo(info *SongVenueInfo) error {
	return insertSongVenueInfo(s.db, info)
}

// InsertSongVenueInfoTx inserts a song/venue row within a transaction
func (s *Store) InsertSongVenueInfoTx(tx *sql.Tx, info *SongVenueInfo) error {
	return insertSongVenueInfo(tx, info)
}

// GetSongVenueInfo retrieves the row for a (song, venue) pair (nil if missing)
func (s *Store) GetSongVenueInfo(songID, venueID int64) (*SongVenueInfo, error) {
	return getSongVenueInfo(s.db, songID, venueID)
}

// GetSongVenueInfoTx retrieves a (song, venue) row within a transaction
func (s *Store) GetSongVenueInfoTx(tx *sql.Tx, songID, venueID int64) (*SongVenueInfo, error) {
	return getSongVenueInfo(tx, songID, venueID)
}

// UpdateSongVenueInfo updates the user-editable fields of a song/venue
// row. Aggregates are left alone.
func (s *Store) UpdateSongVenueInfo(info *SongVenueInfo) error {
	_, err := s.db.Exec(`
		UPDATE song_venue_info SET venues_song_id = ?, venue_key = ?,
			key_adjustment = ?, lyrics = ?
		WHERE id = ?
	`, nullStr(info.VenuesSongID), nullStr(info.VenueKey),
		intVal(info.KeyAdjustment), nullStr(info.Lyrics), info.ID)
	if err != nil {
		return fmt.Errorf("failed to update song venue info: %w", err)
	}
	return nil
}

// ListSongVenueInfo retrieves all song/venue rows
func (s *Store) ListSongVenueInfo() ([]*SongVenueInfo, error) {
	return s.querySongVenueInfo("SELECT " + songVenueColumns + " FROM song_venue_info ORDER BY id")
}

// ListSongVenueInfoBySong retrieves a song's venue rows
func (s *Store) ListSongVenueInfoBySong(songID int64) ([]*SongVenueInfo, error) {
	return s.querySongVenueInfo(
		"SELECT "+songVenueColumns+" FROM song_venue_info WHERE song_id = ? ORDER BY id", songID)
}

func (s *Store) querySongVenueInfo(query string, args ...interface{}) ([]*SongVenueInfo, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query song venue info: %w", err)
	}
	defer rows.Close()

	var infos []*SongVenueInfo
	for rows.Next() {
		info, err := scanSongVenueInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song venue info: %w", err)
		}
		infos = append(infos, info)
	}

	return infos, rows.Err()
}

// CountSongVenueInfo returns the number of song/venue rows
func (s *Store) CountSongVenueInfo() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM song_venue_info").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count song venue info: %w", err)
	}
	return count, nil
}

// DeleteSongVenueInfoBySongTx removes all of a song's venue rows
// within a transaction
func (s *Store) DeleteSongVenueInfoBySongTx(tx *sql.Tx, songID int64) error {
	_, err := tx.Exec("DELETE FROM song_venue_info WHERE song_id = ?", songID)
	if err != nil {
		return fmt.Errorf("failed to delete song venue info: %w", err)
	}
	return nil
}

// DeleteSongVenueInfoByVenueTx removes all of a venue's song rows
// within a transaction
func (s *Store) DeleteSongVenueInfoByVenueTx(tx *sql.Tx, venueID int64) error {
	_, err := tx.Exec("DELETE FROM song_venue_info WHERE venue_id = ?", venueID)
	if err != nil {
		return fmt.Errorf("failed to delete song venue info: %w", err)
	}
	return nil
}

// DecrementSongVenueCountTx walks performance_count back by n when
// performances are deleted one at a time. last_performed stays at its
// last value.
func (s *Store) DecrementSongVenueCountTx(tx *sql.Tx, songID, venueID int64, n int) error {
	_, err := tx.Exec(`
		UPDATE song_venue_info SET performance_count = MAX(0, performance_count - ?)
		WHERE song_id = ? AND venue_id = ?
	`, n, songID, venueID)
	if err != nil {
		return fmt.Errorf("failed to update song venue aggregates: %w", err)
	}
	return nil
}

// UpsertSongVenueAggregateTx records one performance of a song at a
// venue: bump performance_count and move last_performed forward on an
// existing row, or create the row with performance_count = 1. Never
// conflicts, unlike an explicit associate.
func (s *Store) UpsertSongVenueAggregateTx(tx *sql.Tx, songID, venueID int64, ts time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO song_venue_info (song_id, venue_id, performance_count, last_performed)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(song_id, venue_id) DO UPDATE SET
			performance_count = performance_count + 1,
			last_performed = CASE
				WHEN last_performed IS NULL OR last_performed < excluded.last_performed
				THEN excluded.last_performed
				ELSE last_performed
			END
	`, songID, venueID, ts.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert song venue aggregates: %w", err)
	}
	return nil
}
