// Package exchange serializes the full entity set to a self-describing
// JSON interchange document and merges such documents back into a
// possibly non-empty store, remapping the two independent ID spaces
// and de-duplicating by natural key.
package exchange

import (
	"encoding/json"
	"fmt"
	"os"
)

// FormatVersion is the interchange format version written by Export
// and accepted by Merge.
const FormatVersion = "1.0"

// legacySentinel is the magic "unknown key adjustment" value older
// exports used in place of an absent field. It is sanitized to absent
// on import and never treated as a numeric adjustment.
const legacySentinel = -999

// Document is the interchange format: an export timestamp, a format
// version, and the five entity arrays. Element ids are the source
// store's original surrogate keys, carried only for remapping during
// import and never trusted as final ids. Optional fields are omitted
// when absent rather than encoded as zero, so an unset last-performed
// date cannot read back as the epoch.
type Document struct {
	ExportDate    string              `json:"exportDate"`
	Version       string              `json:"version"`
	Songs         []SongRecord        `json:"songs"`
	Venues        []VenueRecord       `json:"venues"`
	Visits        []VisitRecord       `json:"visits"`
	Performances  []PerformanceRecord `json:"performances"`
	SongVenueInfo []SongVenueRecord   `json:"songVenueInfo"`
}

// SongRecord is a song's persisted fields. Timestamps are unix seconds.
type SongRecord struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Artist            string `json:"artist,omitempty"`
	ReferenceKey      string `json:"referenceKey,omitempty"`
	PreferredKey      string `json:"preferredKey,omitempty"`
	Lyrics            string `json:"lyrics,omitempty"`
	TotalPerformances int    `json:"totalPerformances,omitempty"`
	LastPerformed     *int64 `json:"lastPerformed,omitempty"`
}

// VenueRecord is a venue's persisted fields
type VenueRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	Cost        string `json:"cost,omitempty"`
	RoomType    string `json:"roomType,omitempty"`
	Hours       string `json:"hours,omitempty"`
	Notes       string `json:"notes,omitempty"`
	TotalVisits int    `json:"totalVisits,omitempty"`
	LastVisited *int64 `json:"lastVisited,omitempty"`
}

// VisitRecord is a visit's persisted fields
type VisitRecord struct {
	ID           int64    `json:"id"`
	VenueID      int64    `json:"venueId"`
	Timestamp    int64    `json:"timestamp"`
	EndTimestamp *int64   `json:"endTimestamp,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	AmountSpent  *float64 `json:"amountSpent,omitempty"`
	IsActive     bool     `json:"isActive,omitempty"`
}

// PerformanceRecord is a performance's persisted fields
type PerformanceRecord struct {
	ID            int64  `json:"id"`
	VisitID       int64  `json:"visitId"`
	SongID        int64  `json:"songId"`
	KeyAdjustment int    `json:"keyAdjustment,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

// SongVenueRecord is a song/venue row's persisted fields
type SongVenueRecord struct {
	ID               int64  `json:"id"`
	SongID           int64  `json:"songId"`
	VenueID          int64  `json:"venueId"`
	VenuesSongID     string `json:"venuesSongId,omitempty"`
	VenueKey         string `json:"venueKey,omitempty"`
	KeyAdjustment    *int   `json:"keyAdjustment,omitempty"`
	Lyrics           string `json:"lyrics,omitempty"`
	PerformanceCount int    `json:"performanceCount,omitempty"`
	LastPerformed    *int64 `json:"lastPerformed,omitempty"`
}

// RowCount returns the total number of entity rows in the document
func (d *Document) RowCount() int {
	return len(d.Songs) + len(d.Venues) + len(d.Visits) +
		len(d.Performances) + len(d.SongVenueInfo)
}

// WriteFile writes the document as indented JSON
func WriteFile(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// ReadFile reads and decodes an interchange document
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
