package exchange

import (
	"fmt"

	"github.com/franz/karaoke-tracker/internal/util"
)

// Validate checks a document for self-consistency before anything is
// written: the version must be known, the document must contain at
// least one row, and every internal reference must resolve within the
// document's own entity sets. This is independent of the id remapping
// done during merge; a file that fails here is rejected whole.
func Validate(doc *Document) error {
	if doc.Version != FormatVersion {
		return fmt.Errorf("unsupported version %q: %w", doc.Version, util.ErrInvalidFormat)
	}

	if doc.RowCount() == 0 {
		return fmt.Errorf("document contains no rows: %w", util.ErrInvalidFormat)
	}

	songIDs := make(map[int64]bool, len(doc.Songs))
	for _, song := range doc.Songs {
		songIDs[song.ID] = true
	}
	venueIDs := make(map[int64]bool, len(doc.Venues))
	for _, venue := range doc.Venues {
		venueIDs[venue.ID] = true
	}
	visitIDs := make(map[int64]bool, len(doc.Visits))
	for _, visit := range doc.Visits {
		visitIDs[visit.ID] = true
	}

	for _, visit := range doc.Visits {
		if !venueIDs[visit.VenueID] {
			return fmt.Errorf("visit %d references venue %d not in document: %w",
				visit.ID, visit.VenueID, util.ErrInvalidFormat)
		}
	}

	for _, perf := range doc.Performances {
		if !visitIDs[perf.VisitID] {
			return fmt.Errorf("performance %d references visit %d not in document: %w",
				perf.ID, perf.VisitID, util.ErrInvalidFormat)
		}
		if !songIDs[perf.SongID] {
			return fmt.Errorf("performance %d references song %d not in document: %w",
				perf.ID, perf.SongID, util.ErrInvalidFormat)
		}
	}

	for _, info := range doc.SongVenueInfo {
		if !songIDs[info.SongID] {
			return fmt.Errorf("song venue info %d references song %d not in document: %w",
				info.ID, info.SongID, util.ErrInvalidFormat)
		}
		if !venueIDs[info.VenueID] {
			return fmt.Errorf("song venue info %d references venue %d not in document: %w",
				info.ID, info.VenueID, util.ErrInvalidFormat)
		}
	}

	return nil
}
