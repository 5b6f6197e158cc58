package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Performance represents one song sung during a visit. KeyAdjustment
// is the signed semitone step count actually used, relative to the
// venue/reference key.
type Performance struct {
	ID            int64
	VisitID       int64
	SongID        int64
	KeyAdjustment int
	Notes         string
	Timestamp     time.Time
}

const performanceColumns = `id, visit_id, song_id, key_adjustment, COALESCE(notes, ''), ts`

func scanPerformance(row interface{ Scan(...interface{}) error }) (*Performance, error) {
	perf := &Performance{}
	var ts int64
	err := row.Scan(
		&perf.ID, &perf.VisitID, &perf.SongID,
		&perf.KeyAdjustment, &perf.Notes, &ts,
	)
	if err != nil {
		return nil, err
	}
	perf.Timestamp = time.Unix(ts, 0)
	return perf, nil
}

func insertPerformance(q queryable, perf *Performance) error {
	result, err := q.Exec(`
		INSERT INTO performances (visit_id, song_id, key_adjustment, notes, ts)
		VALUES (?, ?, ?, ?, ?)
	`, perf.VisitID, perf.SongID, perf.KeyAdjustment,
		nullStr(perf.Notes), perf.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert performance: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get performance ID: %w", err)
	}
	perf.ID = id

	return nil
}

// InsertPerformance inserts a performance and sets its ID
func (s *Store) InsertPerformance(perf *Performance) error {
	return insertPerformance(s.db, perf)
}

// InsertPerformanceTx inserts a performance within a transaction
func (s *Store) InsertPerformanceTx(tx *sql.Tx, perf *Performance) error {
	return insertPerformance(tx, perf)
}

// GetPerformanceByID retrieves a performance by its ID (nil if missing)
func (s *Store) GetPerformanceByID(id int64) (*Performance, error) {
	perf, err := scanPerformance(s.db.QueryRow(
		"SELECT "+performanceColumns+" FROM performances WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get performance: %w", err)
	}
	return perf, nil
}

// GetPerformanceTx retrieves a performance within a transaction
func (s *Store) GetPerformanceTx(tx *sql.Tx, id int64) (*Performance, error) {
	perf, err := scanPerformance(tx.QueryRow(
		"SELECT "+performanceColumns+" FROM performances WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get performance: %w", err)
	}
	return perf, nil
}

// ListPerformances retrieves all performances, oldest first
func (s *Store) ListPerformances() ([]*Performance, error) {
	return s.queryPerformances("SELECT " + performanceColumns + " FROM performances ORDER BY ts, id")
}

// ListPerformancesByVisit retrieves a visit's performances, oldest first
func (s *Store) ListPerformancesByVisit(visitID int64) ([]*Performance, error) {
	return s.queryPerformances(
		"SELECT "+performanceColumns+" FROM performances WHERE visit_id = ? ORDER BY ts, id", visitID)
}

// ListPerformancesBySong retrieves a song's performances, oldest first
func (s *Store) ListPerformancesBySong(songID int64) ([]*Performance, error) {
	return s.queryPerformances(
		"SELECT "+performanceColumns+" FROM performances WHERE song_id = ? ORDER BY ts, id", songID)
}

// ListPerformancesByVisitTx retrieves a visit's performances within a
// transaction, oldest first
func (s *Store) ListPerformancesByVisitTx(tx *sql.Tx, visitID int64) ([]*Performance, error) {
	rows, err := tx.Query(
		"SELECT "+performanceColumns+" FROM performances WHERE visit_id = ? ORDER BY ts, id", visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query performances: %w", err)
	}
	defer rows.Close()

	var perfs []*Performance
	for rows.Next() {
		perf, err := scanPerformance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance: %w", err)
		}
		perfs = append(perfs, perf)
	}

	return perfs, rows.Err()
}

func (s *Store) queryPerformances(query string, args ...interface{}) ([]*Performance, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query performances: %w", err)
	}
	defer rows.Close()

	var perfs []*Performance
	for rows.Next() {
		perf, err := scanPerformance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance: %w", err)
		}
		perfs = append(perfs, perf)
	}

	return perfs, rows.Err()
}

// CountPerformances returns the number of performances
func (s *Store) CountPerformances() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM performances").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count performances: %w", err)
	}
	return count, nil
}

// CountPerformancesBySong returns the number of live performance rows
// referencing a song
func (s *Store) CountPerformancesBySong(songID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM performances WHERE song_id = ?", songID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count performances: %w", err)
	}
	return count, nil
}

// DeletePerformancesByVisitTx removes all of a visit's performances
// within a transaction and reports how many went
func (s *Store) DeletePerformancesByVisitTx(tx *sql.Tx, visitID int64) (int64, error) {
	result, err := tx.Exec("DELETE FROM performances WHERE visit_id = ?", visitID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete performances: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted performances: %w", err)
	}
	return n, nil
}

// DeletePerformanceTx deletes a single performance row within a
// transaction. Aggregates are deliberately untouched; corrections
// happen at the engine level.
func (s *Store) DeletePerformanceTx(tx *sql.Tx, id int64) error {
	_, err := tx.Exec("DELETE FROM performances WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete performance: %w", err)
	}
	return nil
}
