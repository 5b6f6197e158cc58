package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Visit represents one session at a venue. IsActive is stored
// explicitly even though it mirrors EndTimestamp == nil. Counted marks
// that this visit has already contributed to its venue's total_visits;
// it stays set even if every performance is deleted afterwards, so one
// visit can never be counted twice.
type Visit struct {
	ID           int64
	VenueID      int64
	Timestamp    time.Time
	EndTimestamp *time.Time
	Notes        string
	AmountSpent  *float64
	IsActive     bool
	Counted      bool
}

const visitColumns = `id, venue_id, ts, end_ts, COALESCE(notes, ''), amount_spent, is_active, counted`

func scanVisit(row interface{ Scan(...interface{}) error }) (*Visit, error) {
	visit := &Visit{}
	var ts int64
	var endTS sql.NullInt64
	var amountSpent sql.NullFloat64
	err := row.Scan(
		&visit.ID, &visit.VenueID, &ts, &endTS,
		&visit.Notes, &amountSpent, &visit.IsActive, &visit.Counted,
	)
	if err != nil {
		return nil, err
	}
	visit.Timestamp = time.Unix(ts, 0)
	visit.EndTimestamp = unixPtr(endTS)
	visit.AmountSpent = floatPtr(amountSpent)
	return visit, nil
}

func insertVisit(q queryable, visit *Visit) error {
	result, err := q.Exec(`
		INSERT INTO visits (venue_id, ts, end_ts, notes, amount_spent, is_active, counted)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, visit.VenueID, visit.Timestamp.Unix(), unixVal(visit.EndTimestamp),
		nullStr(visit.Notes), floatVal(visit.AmountSpent), visit.IsActive, visit.Counted)
	if err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get visit ID: %w", err)
	}
	visit.ID = id

	return nil
}

func getVisit(q queryable, id int64) (*Visit, error) {
	visit, err := scanVisit(q.QueryRow(
		"SELECT "+visitColumns+" FROM visits WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return visit, nil
}

func findVisitByVenueAndTime(q queryable, venueID int64, ts time.Time) (*Visit, error) {
	visit, err := scanVisit(q.QueryRow(
		"SELECT "+visitColumns+" FROM visits WHERE venue_id = ? AND ts = ? ORDER BY id LIMIT 1",
		venueID, ts.Unix()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find visit: %w", err)
	}
	return visit, nil
}

// InsertVisit inserts a visit and sets its ID
func (s *Store) InsertVisit(visit *Visit) error {
	return insertVisit(s.db, visit)
}

// InsertVisitTx inserts a visit within a transaction
func (s *Store) InsertVisitTx(tx *sql.Tx, visit *Visit) error {
	return insertVisit(tx, visit)
}

// GetVisitByID retrieves a visit by its ID (nil if missing)
func (s *Store) GetVisitByID(id int64) (*Visit, error) {
	return getVisit(s.db, id)
}

// GetVisitTx retrieves a visit within a transaction
func (s *Store) GetVisitTx(tx *sql.Tx, id int64) (*Visit, error) {
	return getVisit(tx, id)
}

// FindVisitByVenueAndTimeTx looks up a visit at a venue with an exact
// start timestamp, within a transaction. Used by import de-duplication.
func (s *Store) FindVisitByVenueAndTimeTx(tx *sql.Tx, venueID int64, ts time.Time) (*Visit, error) {
	return findVisitByVenueAndTime(tx, venueID, ts)
}

// UpdateVisitTx rewrites a visit's mutable fields within a transaction
func (s *Store) UpdateVisitTx(tx *sql.Tx, visit *Visit) error {
	_, err := tx.Exec(`
		UPDATE visits SET end_ts = ?, notes = ?, amount_spent = ?, is_active = ?
		WHERE id = ?
	`, unixVal(visit.EndTimestamp), nullStr(visit.Notes),
		floatVal(visit.AmountSpent), visit.IsActive, visit.ID)
	if err != nil {
		return fmt.Errorf("failed to update visit: %w", err)
	}
	return nil
}

// MarkVisitCountedTx records that a visit has contributed to its
// venue's total_visits. The flag is never cleared.
func (s *Store) MarkVisitCountedTx(tx *sql.Tx, id int64) error {
	_, err := tx.Exec("UPDATE visits SET counted = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark visit counted: %w", err)
	}
	return nil
}

// ListVisits retrieves all visits, oldest first
func (s *Store) ListVisits() ([]*Visit, error) {
	return s.queryVisits("SELECT " + visitColumns + " FROM visits ORDER BY ts, id")
}

// ListVisitsByVenue retrieves all visits at a venue, oldest first
func (s *Store) ListVisitsByVenue(venueID int64) ([]*Visit, error) {
	return s.queryVisits(
		"SELECT "+visitColumns+" FROM visits WHERE venue_id = ? ORDER BY ts, id", venueID)
}

func (s *Store) queryVisits(query string, args ...interface{}) ([]*Visit, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	var visits []*Visit
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, visit)
	}

	return visits, rows.Err()
}

// CountVisits returns the number of visits
func (s *Store) CountVisits() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM visits").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return count, nil
}

// OldestVisitsTx returns the count visits with the smallest start
// timestamp, ties broken by insertion order, within a transaction
func (s *Store) OldestVisitsTx(tx *sql.Tx, count int) ([]*Visit, error) {
	rows, err := tx.Query(
		"SELECT "+visitColumns+" FROM visits ORDER BY ts, id LIMIT ?", count)
	if err != nil {
		return nil, fmt.Errorf("failed to query oldest visits: %w", err)
	}
	defer rows.Close()

	var visits []*Visit
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, visit)
	}

	return visits, rows.Err()
}

// DeleteVisitTx deletes a visit row within a transaction. Its
// performances go with it via cascade.
func (s *Store) DeleteVisitTx(tx *sql.Tx, id int64) error {
	_, err := tx.Exec("DELETE FROM visits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}
	return nil
}
