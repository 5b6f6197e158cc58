package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Song represents a song in the performer's repertoire.
// TotalPerformances and LastPerformed are aggregates owned by the
// stats engine.
type Song struct {
	ID                int64
	Name              string
	Artist            string
	ReferenceKey      string
	PreferredKey      string
	Lyrics            string
	TotalPerformances int
	LastPerformed     *time.Time
}

const songColumns = `id, name, artist,
	       COALESCE(reference_key, ''), COALESCE(preferred_key, ''),
	       COALESCE(lyrics, ''), total_performances, last_performed`

func scanSong(row interface{ Scan(...interface{}) error }) (*Song, error) {
	song := &Song{}
	var lastPerformed sql.NullInt64
	err := row.Scan(
		&song.ID, &song.Name, &song.Artist,
		&song.ReferenceKey, &song.PreferredKey,
		&song.Lyrics, &song.TotalPerformances, &lastPerformed,
	)
	if err != nil {
		return nil, err
	}
	song.LastPerformed = unixPtr(lastPerformed)
	return song, nil
}

func insertSong(q queryable, song *Song) error {
	result, err := q.Exec(`
		INSERT INTO songs (name, artist, norm_key, reference_key, preferred_key,
		                   lyrics, total_performances, last_performed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, song.Name, song.Artist, SongNaturalKey(song.Name, song.Artist),
		nullStr(song.ReferenceKey), nullStr(song.PreferredKey),
		nullStr(song.Lyrics), song.TotalPerformances, unixVal(song.LastPerformed))
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get song ID: %w", err)
	}
	song.ID = id

	return nil
}

func getSong(q queryable, id int64) (*Song, error) {
	song, err := scanSong(q.QueryRow(
		"SELECT "+songColumns+" FROM songs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return song, nil
}

func findSongByNaturalKey(q queryable, name, artist string) (*Song, error) {
	song, err := scanSong(q.QueryRow(
		"SELECT "+songColumns+" FROM songs WHERE norm_key = ? ORDER BY id LIMIT 1",
		SongNaturalKey(name, artist)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find song: %w", err)
	}
	return song, nil
}

// InsertSong inserts a song and sets its ID
func (s *Store) InsertSong(song *Song) error {
	return insertSong(s.db, song)
}

// InsertSongTx inserts a song within a transaction
func (s *Store) InsertSongTx(tx *sql.Tx, song *Song) error {
	return insertSong(tx, song)
}

// GetSongByID retrieves a song by its ID (nil if missing)
func (s *Store) GetSongByID(id int64) (*Song, error) {
	return getSong(s.db, id)
}

// GetSongTx retrieves a song within a transaction
func (s *Store) GetSongTx(tx *sql.Tx, id int64) (*Song, error) {
	return getSong(tx, id)
}

// FindSongByNaturalKey looks a song up by its normalized (name, artist)
// pair (nil if missing)
func (s *Store) FindSongByNaturalKey(name, artist string) (*Song, error) {
	return findSongByNaturalKey(s.db, name, artist)
}

// FindSongByNaturalKeyTx looks a song up within a transaction
func (s *Store) FindSongByNaturalKeyTx(tx *sql.Tx, name, artist string) (*Song, error) {
	return findSongByNaturalKey(tx, name, artist)
}

// UpdateSong updates the user-editable fields of a song. Aggregates
// are left alone.
func (s *Store) UpdateSong(song *Song) error {
	_, err := s.db.Exec(`
		UPDATE songs SET name = ?, artist = ?, norm_key = ?,
			reference_key = ?, preferred_key = ?, lyrics = ?
		WHERE id = ?
	`, song.Name, song.Artist, SongNaturalKey(song.Name, song.Artist),
		nullStr(song.ReferenceKey), nullStr(song.PreferredKey),
		nullStr(song.Lyrics), song.ID)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}
	return nil
}

// ListSongs retrieves all songs ordered by name
func (s *Store) ListSongs() ([]*Song, error) {
	rows, err := s.db.Query("SELECT " + songColumns + " FROM songs ORDER BY name, artist, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}

	return songs, rows.Err()
}

// CountSongs returns the number of songs
func (s *Store) CountSongs() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM songs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return count, nil
}

// DeleteSongTx deletes a song row within a transaction. Dependent
// performances go with it via cascade; song_venue_info rows are the
// caller's responsibility.
func (s *Store) DeleteSongTx(tx *sql.Tx, id int64) error {
	_, err := tx.Exec("DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return nil
}

// DecrementSongPerformancesTx walks total_performances back by n when
// performances are deleted one at a time (not by purge, which freezes
// aggregates). last_performed stays at its last value.
func (s *Store) DecrementSongPerformancesTx(tx *sql.Tx, songID int64, n int) error {
	_, err := tx.Exec(`
		UPDATE songs SET total_performances = MAX(0, total_performances - ?)
		WHERE id = ?
	`, n, songID)
	if err != nil {
		return fmt.Errorf("failed to update song aggregates: %w", err)
	}
	return nil
}

// BumpSongPerformanceTx applies the song-level aggregate effects of a
// newly logged performance: one more total performance, last_performed
// moved forward (never backward).
func (s *Store) BumpSongPerformanceTx(tx *sql.Tx, songID int64, ts time.Time) error {
	_, err := tx.Exec(`
		UPDATE songs SET
			total_performances = total_performances + 1,
			last_performed = CASE
				WHEN last_performed IS NULL OR last_performed < ? THEN ?
				ELSE last_performed
			END
		WHERE id = ?
	`, ts.Unix(), ts.Unix(), songID)
	if err != nil {
		return fmt.Errorf("failed to update song aggregates: %w", err)
	}
	return nil
}
