package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Venue represents a karaoke venue. TotalVisits and LastVisited are
// aggregates owned by the stats engine.
type Venue struct {
	ID          int64
	Name        string
	Address     string
	Cost        string
	RoomType    string
	Hours       string
	Notes       string
	TotalVisits int
	LastVisited *time.Time
}

const venueColumns = `id, name,
	       COALESCE(address, ''), COALESCE(cost, ''), COALESCE(room_type, ''),
	       COALESCE(hours, ''), COALESCE(notes, ''), total_visits, last_visited`

func scanVenue(row interface{ Scan(...interface{}) error }) (*Venue, error) {
	venue := &Venue{}
	var lastVisited sql.NullInt64
	err := row.Scan(
		&venue.ID, &venue.Name,
		&venue.Address, &venue.Cost, &venue.RoomType,
		&venue.Hours, &venue.Notes, &venue.TotalVisits, &lastVisited,
	)
	if err != nil {
		return nil, err
	}
	venue.LastVisited = unixPtr(lastVisited)
	return venue, nil
}

func insertVenue(q queryable, venue *Venue) error {
	result, err := q.Exec(`
		INSERT INTO venues (name, norm_key, address, cost, room_type, hours,
		                    notes, total_visits, last_visited)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, venue.Name, VenueNaturalKey(venue.Name),
		nullStr(venue.Address), nullStr(venue.Cost), nullStr(venue.RoomType),
		nullStr(venue.Hours), nullStr(venue.Notes),
		venue.TotalVisits, unixVal(venue.LastVisited))
	if err != nil {
		return fmt.Errorf("failed to insert venue: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get venue ID: %w", err)
	}
	venue.ID = id

	return nil
}

func getVenue(q queryable, id int64) (*Venue, error) {
	venue, err := scanVenue(q.QueryRow(
		"SELECT "+venueColumns+" FROM venues WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return venue, nil
}

func findVenueByName(q queryable, name string) (*Venue, error) {
	venue, err := scanVenue(q.QueryRow(
		"SELECT "+venueColumns+" FROM venues WHERE norm_key = ? ORDER BY id LIMIT 1",
		VenueNaturalKey(name)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find venue: %w", err)
	}
	return venue, nil
}

// InsertVenue inserts a venue and sets its ID
func (s *Store) InsertVenue(venue *Venue) error {
	return insertVenue(s.db, venue)
}

// InsertVenueTx inserts a venue within a transaction
func (s *Store) InsertVenueTx(tx *sql.Tx, venue *Venue) error {
	return insertVenue(tx, venue)
}

// GetVenueByID retrieves a venue by its ID (nil if missing)
func (s *Store) GetVenueByID(id int64) (*Venue, error) {
	return getVenue(s.db, id)
}

// GetVenueTx retrieves a venue within a transaction
func (s *Store) GetVenueTx(tx *sql.Tx, id int64) (*Venue, error) {
	return getVenue(tx, id)
}

// FindVenueByName looks a venue up by its normalized name (nil if missing)
func (s *Store) FindVenueByName(name string) (*Venue, error) {
	return findVenueByName(s.db, name)
}

// FindVenueByNameTx looks a venue up within a transaction
func (s *Store) FindVenueByNameTx(tx *sql.Tx, name string) (*Venue, error) {
	return findVenueByName(tx, name)
}

// UpdateVenue updates the user-editable fields of a venue
func (s *Store) UpdateVenue(venue *Venue) error {
	_, err := s.db.Exec(`
		UPDATE venues SET name = ?, norm_key = ?, address = ?, cost = ?,
			room_type = ?, hours = ?, notes = ?
		WHERE id = ?
	`, venue.Name, VenueNaturalKey(venue.Name),
		nullStr(venue.Address), nullStr(venue.Cost), nullStr(venue.RoomType),
		nullStr(venue.Hours), nullStr(venue.Notes), venue.ID)
	if err != nil {
		return fmt.Errorf("failed to update venue: %w", err)
	}
	return nil
}

// ListVenues retrieves all venues ordered by name
func (s *Store) ListVenues() ([]*Venue, error) {
	rows, err := s.db.Query("SELECT " + venueColumns + " FROM venues ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query venues: %w", err)
	}
	defer rows.Close()

	var venues []*Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		venues = append(venues, venue)
	}

	return venues, rows.Err()
}

// CountVenues returns the number of venues
func (s *Store) CountVenues() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM venues").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count venues: %w", err)
	}
	return count, nil
}

// DeleteVenueTx deletes a venue row within a transaction. Visits and
// their performances go with it via cascade; song_venue_info rows are
// the caller's responsibility.
func (s *Store) DeleteVenueTx(tx *sql.Tx, id int64) error {
	_, err := tx.Exec("DELETE FROM venues WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	return nil
}

// BumpVenueVisitTx applies the venue-level aggregate effects of a
// visit's first performance: one more counted visit, last_visited
// moved forward (never backward). The timestamp is the visit's own
// start, not the performance timestamp.
func (s *Store) BumpVenueVisitTx(tx *sql.Tx, venueID int64, ts time.Time) error {
	_, err := tx.Exec(`
		UPDATE venues SET
			total_visits = total_visits + 1,
			last_visited = CASE
				WHEN last_visited IS NULL OR last_visited < ? THEN ?
				ELSE last_visited
			END
		WHERE id = ?
	`, ts.Unix(), ts.Unix(), venueID)
	if err != nil {
		return fmt.Errorf("failed to update venue aggregates: %w", err)
	}
	return nil
}
