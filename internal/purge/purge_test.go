package purge

import (
	"os"
	"testing"
	"time"

	"github.com/franz/karaoke-tracker/internal/stats"
	"github.com/franz/karaoke-tracker/internal/store"
)

func newTestStore(t *testing.T, name string) *store.Store {
	t.Helper()

	tmpFile := name
	t.Cleanup(func() {
		os.Remove(tmpFile)
		os.Remove(tmpFile + "-shm")
		os.Remove(tmpFile + "-wal")
	})

	st, err := store.Open(tmpFile)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

// seedHistory logs perPerVisit performances into each of n visits,
// oldest first, and returns the song and venue used.
func seedHistory(t *testing.T, st *store.Store, n, perPerVisit int) (*store.Song, *store.Venue) {
	t.Helper()

	engine := stats.New(st)
	song := &store.Song{Name: "Seed Song"}
	if err := st.InsertSong(song); err != nil {
		t.Fatalf("failed to insert song: %v", err)
	}
	venue := &store.Venue{Name: "Seed Venue"}
	if err := st.InsertVenue(venue); err != nil {
		t.Fatalf("failed to insert venue: %v", err)
	}

	base := time.Unix(1700000000, 0)
	for i := 0; i < n; i++ {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		visitID, err := engine.StartVisit(venue.ID, start, "", false)
		if err != nil {
			t.Fatalf("failed to start visit %d: %v", i, err)
		}
		for j := 0; j < perPerVisit; j++ {
			ts := start.Add(time.Duration(j+1) * time.Minute)
			if _, err := engine.LogPerformance(visitID, song.ID, 0, "", ts); err != nil {
				t.Fatalf("failed to log performance %d/%d: %v", i, j, err)
			}
		}
	}
	return song, venue
}

func TestPurgeRemovesOldestAndFreezesAggregates(t *testing.T) {
	st := newTestStore(t, "test-purge.db")
	song, venue := seedHistory(t, st, 5, 2)

	before, err := st.GetSongByID(song.ID)
	if err != nil {
		t.Fatalf("failed to get song: %v", err)
	}
	vBefore, err := st.GetVenueByID(venue.ID)
	if err != nil {
		t.Fatalf("failed to get venue: %v", err)
	}
	infoBefore, err := st.GetSongVenueInfo(song.ID, venue.ID)
	if err != nil {
		t.Fatalf("failed to get song venue info: %v", err)
	}

	engine := New(Config{Store: st})
	summary, err := engine.OldestVisits(2)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if summary.DeletedVisits != 2 {
		t.Errorf("expected 2 deleted visits, got %d", summary.DeletedVisits)
	}
	if summary.DeletedPerformances != 4 {
		t.Errorf("expected 4 deleted performances, got %d", summary.DeletedPerformances)
	}
	if summary.NothingToPurge {
		t.Error("NothingToPurge set on a populated store")
	}

	// The two oldest visits are gone; the newest three remain
	visits, err := st.ListVisits()
	if err != nil {
		t.Fatalf("failed to list visits: %v", err)
	}
	if len(visits) != 3 {
		t.Fatalf("expected 3 remaining visits, got %d", len(visits))
	}
	oldestRemaining := visits[0].Timestamp
	for _, v := range visits {
		if v.Timestamp.Before(oldestRemaining) {
			oldestRemaining = v.Timestamp
		}
	}
	wantOldest := time.Unix(1700000000, 0).Add(2 * 24 * time.Hour)
	if oldestRemaining.Unix() != wantOldest.Unix() {
		t.Errorf("wrong visits purged: oldest remaining %d, want %d",
			oldestRemaining.Unix(), wantOldest.Unix())
	}

	// Aggregates are frozen at their pre-purge values
	after, err := st.GetSongByID(song.ID)
	if err != nil {
		t.Fatalf("failed to get song: %v", err)
	}
	if after.TotalPerformances != before.TotalPerformances {
		t.Errorf("song count moved: %d -> %d", before.TotalPerformances, after.TotalPerformances)
	}
	if after.LastPerformed.Unix() != before.LastPerformed.Unix() {
		t.Errorf("song last-performed moved: %v -> %v", before.LastPerformed, after.LastPerformed)
	}
	vAfter, err := st.GetVenueByID(venue.ID)
	if err != nil {
		t.Fatalf("failed to get venue: %v", err)
	}
	if vAfter.TotalVisits != vBefore.TotalVisits {
		t.Errorf("venue visit count moved: %d -> %d", vBefore.TotalVisits, vAfter.TotalVisits)
	}
	infoAfter, err := st.GetSongVenueInfo(song.ID, venue.ID)
	if err != nil {
		t.Fatalf("failed to get song venue info: %v", err)
	}
	if infoAfter.PerformanceCount != infoBefore.PerformanceCount {
		t.Errorf("per-venue count moved: %d -> %d",
			infoBefore.PerformanceCount, infoAfter.PerformanceCount)
	}
}

func TestPurgeMoreThanAvailable(t *testing.T) {
	st := newTestStore(t, "test-purge-all.db")
	seedHistory(t, st, 3, 1)

	engine := New(Config{Store: st})
	summary, err := engine.OldestVisits(50)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if summary.DeletedVisits != 3 {
		t.Errorf("expected 3 deleted visits, got %d", summary.DeletedVisits)
	}
	if summary.NothingToPurge {
		t.Error("NothingToPurge set when rows were deleted")
	}

	count, err := st.CountVisits()
	if err != nil {
		t.Fatalf("failed to count visits: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty visit table, got %d", count)
	}
}

func TestPurgeEmptyStore(t *testing.T) {
	st := newTestStore(t, "test-purge-empty.db")

	engine := New(Config{Store: st})
	summary, err := engine.OldestVisits(10)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if !summary.NothingToPurge {
		t.Error("expected NothingToPurge on an empty store")
	}
	if summary.DeletedVisits != 0 || summary.DeletedPerformances != 0 {
		t.Errorf("expected zero deletions, got %+v", summary)
	}
}

func TestPurgeZeroCountIsNoOp(t *testing.T) {
	st := newTestStore(t, "test-purge-zero.db")
	seedHistory(t, st, 2, 1)

	engine := New(Config{Store: st})
	for _, n := range []int{0, -5} {
		summary, err := engine.OldestVisits(n)
		if err != nil {
			t.Fatalf("purge(%d) failed: %v", n, err)
		}
		if summary.DeletedVisits != 0 || summary.DeletedPerformances != 0 || summary.NothingToPurge {
			t.Errorf("purge(%d) = %+v, want all-zero summary", n, summary)
		}
	}

	count, err := st.CountVisits()
	if err != nil {
		t.Fatalf("failed to count visits: %v", err)
	}
	if count != 2 {
		t.Errorf("expected visits untouched, got %d", count)
	}
}

func TestRecommended(t *testing.T) {
	tests := []struct {
		visits int
		want   int
	}{
		{0, 0},
		{500, 0},
		{501, 100},
		{750, 100},
		{751, 150},
		{1000, 150},
		{1001, 200},
		{5000, 200},
	}
	for _, tt := range tests {
		if got := Recommended(tt.visits); got != tt.want {
			t.Errorf("Recommended(%d) = %d, want %d", tt.visits, got, tt.want)
		}
	}
}
