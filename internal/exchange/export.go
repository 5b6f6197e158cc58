package exchange

import (
	"time"

	"github.com/franz/karaoke-tracker/internal/store"
)

// Export serializes every song, venue, visit, performance and
// song/venue row into an interchange document.
func Export(st *store.Store) (*Document, error) {
	doc := &Document{
		ExportDate: time.Now().Format(time.RFC3339),
		Version:    FormatVersion,
	}

	songs, err := st.ListSongs()
	if err != nil {
		return nil, err
	}
	for _, song := range songs {
		doc.Songs = append(doc.Songs, SongRecord{
			ID:                song.ID,
			Name:              song.Name,
			Artist:            song.Artist,
			ReferenceKey:      song.ReferenceKey,
			PreferredKey:      song.PreferredKey,
			Lyrics:            song.Lyrics,
			TotalPerformances: song.TotalPerformances,
			LastPerformed:     unixOpt(song.LastPerformed),
		})
	}

	venues, err := st.ListVenues()
	if err != nil {
		return nil, err
	}
	for _, venue := range venues {
		doc.Venues = append(doc.Venues, VenueRecord{
			ID:          venue.ID,
			Name:        venue.Name,
			Address:     venue.Address,
			Cost:        venue.Cost,
			RoomType:    venue.RoomType,
			Hours:       venue.Hours,
			Notes:       venue.Notes,
			TotalVisits: venue.TotalVisits,
			LastVisited: unixOpt(venue.LastVisited),
		})
	}

	visits, err := st.ListVisits()
	if err != nil {
		return nil, err
	}
	for _, visit := range visits {
		doc.Visits = append(doc.Visits, VisitRecord{
			ID:           visit.ID,
			VenueID:      visit.VenueID,
			Timestamp:    visit.Timestamp.Unix(),
			EndTimestamp: unixOpt(visit.EndTimestamp),
			Notes:        visit.Notes,
			AmountSpent:  visit.AmountSpent,
			IsActive:     visit.IsActive,
		})
	}

	perfs, err := st.ListPerformances()
	if err != nil {
		return nil, err
	}
	for _, perf := range perfs {
		doc.Performances = append(doc.Performances, PerformanceRecord{
			ID:            perf.ID,
			VisitID:       perf.VisitID,
			SongID:        perf.SongID,
			KeyAdjustment: perf.KeyAdjustment,
			Notes:         perf.Notes,
			Timestamp:     perf.Timestamp.Unix(),
		})
	}

	infos, err := st.ListSongVenueInfo()
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		doc.SongVenueInfo = append(doc.SongVenueInfo, SongVenueRecord{
			ID:               info.ID,
			SongID:           info.SongID,
			VenueID:          info.VenueID,
			VenuesSongID:     info.VenuesSongID,
			VenueKey:         info.VenueKey,
			KeyAdjustment:    info.KeyAdjustment,
			Lyrics:           info.Lyrics,
			PerformanceCount: info.PerformanceCount,
			LastPerformed:    unixOpt(info.LastPerformed),
		})
	}

	return doc, nil
}

// unixOpt converts an optional timestamp to optional unix seconds
func unixOpt(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.Unix()
	return &v
}

// timeOpt converts optional unix seconds back to an optional timestamp
func timeOpt(v *int64) *time.Time {
	if v == nil {
		return nil
	}
	t := time.Unix(*v, 0)
	return &t
}
