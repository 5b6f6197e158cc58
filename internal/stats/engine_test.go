package stats

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/franz/karaoke-tracker/internal/store"
	"github.com/franz/karaoke-tracker/internal/util"
)

func newTestEngine(t *testing.T, name string) (*Engine, *store.Store) {
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

	return New(st), st
}

func addSongAndVenue(t *testing.T, st *store.Store) (*store.Song, *store.Venue) {
	t.Helper()

	song := &store.Song{Name: "song A"}
	if err := st.InsertSong(song); err != nil {
		t.Fatalf("failed to insert song: %v", err)
	}
	venue := &store.Venue{Name: "Joe's"}
	if err := st.InsertVenue(venue); err != nil {
		t.Fatalf("failed to insert venue: %v", err)
	}
	return song, venue
}

func TestFirstPerformanceUpdatesAllAggregates(t *testing.T) {
	engine, st := newTestEngine(t, "test-first-perf.db")
	song, venue := addSongAndVenue(t, st)

	t0 := time.Unix(1700000000, 0)
	t1 := time.Unix(1700003600, 0)

	visitID, err := engine.StartVisit(venue.ID, t0, "", true)
	if err != nil {
		t.Fatalf("failed to start visit: %v", err)
	}

	// Starting a visit alone does not count it
	v, err := st.GetVenueByID(venue.ID)
	if err != nil {
		t.Fatalf("failed to get venue: %v", err)
	}
	if v.TotalVisits != 0 {
		t.Errorf("expected 0 total visits before any performance, got %d", v.TotalVisits)
	}

	if _, err := engine.LogPerformance(visitID, song.ID, 0, "", t1); err != nil {
		t.Fatalf("failed to log performance: %v", err)
	}

	v, err = st.GetVenueByID(venue.ID)
	if err != nil {
		t.Fatalf("failed to get venue: %v", err)
	}
	if v.TotalVisits != 1 {
		t.Errorf("expected 1 total visit, got %d", v.TotalVisits)
	}
	// Venue is dated by the visit's start, not the performance time
	if v.LastVisited == nil || v.LastVisited.Unix() != t0.Unix() {
		t.Errorf("expected last visited %d, got %v", t0.Unix(), v.LastVisited)
	}

	s, err := st.GetSongByID(song.ID)
	if err != nil {
		t.Fatalf("failed to get song: %v", err)
	}
	if s.TotalPerformances != 1 {
		t.Errorf("expected 1 total performance, got %d", s.TotalPerformances)
	}
	if s.LastPerformed == nil || s.LastPerformed.Unix() != t1.Unix() {
		t.Errorf("expected last performed %d, got %v", t1.Unix(), s.LastPerformed)
	}

	info, err := st.GetSongVenueInfo(song.ID, venue.ID)
	if err != nil {
		t.Fatalf("failed to get song venue info: %v", err)
	}
	if info == nil {
		t.Fatal("expected song venue info to be created")
	}
	if info.PerformanceCount != 1 {
		t.Errorf("expected performance count 1, got %d", info.PerformanceCount)
	}
	if info.LastPerformed == nil || info.LastPerformed.Unix() != t1.Unix() {
		t.Errorf("expected last performed %d, got %v", t1.Unix(), info.LastPerformed)
	}
}

func TestVisitCountedOnceNotPerPerformance(t *testing.T) {
	engine, st := newTestEngine(t, "test-visit-once.db")
	song, venue := addSongAndVenue(t, st)

	t0 := time.Unix(1700000000, 0)
	visitID, err := engine.StartVisit(venue.ID, t0, "", true)
	if err != nil {
		t.Fatalf("failed to start visit: %v", err)
	}

	for i := 0; i < 5; i++ {
		ts := t0.Add(time.Duration(i+1) * time.Minute)
		if _, err := engine.LogPerformance(visitID, song.ID, 0, "", ts); err != nil {
			t.Fatalf("failed to log performance %d: %v", i, err)
		}
	}

	v, err := st.GetVenueByID(venue.ID)
	if err != nil {
		t.Fatalf("failed to get venue: %v", err)
	}
	if v.TotalVisits != 1 {
		t.Errorf("expected 1 total visit after 5 performances, got %d", v.TotalVisits)
	}

	s, err := st.GetSongByID(song.ID)
	if err != nil {
		t.Fatalf("failed to get song: %v", err)
	}
	if s.TotalPerformances != 5 {
		t.Errorf("expected 5 total performances, got %d", s.TotalPerformances)
	}

	count, err := st.CountPerformancesBySong(song.ID)
	if err != nil {
		t.Fatalf("failed to count performances: %v", err)
	}
	if count != s.TotalPerformances {
		t.Errorf("aggregate %d does not match %d live rows", s.TotalPerformances, count)
	}
}

func TestLastPerformedNeverMovesBackward(t *testing.T) {
	engine, st := newTestEngine(t, "test-monotonic.db")
	song, venue := addSongAndVenue(t, st)

	t0 := time.Unix(1700000000, 0)
	visitID, err := engine.StartVisit(venue.ID, t0, "", true)
	if err != nil {
		t.Fatalf("failed to start visit: %v", err)
	}

	late := t0.Add(2 * time.Hour)
	early := t0.Add(1 * time.Hour)
	if _, err := engine.LogPerformance(visitID, song.ID, 0, "", late); err != nil {
		t.Fatalf("failed to log performance: %v", err)
	}
	// Backdated entry must not pull the date backward
	if _, err := engine.LogPerformance(visitID, song.ID, 0, "", early); err != nil {
		t.Fatalf("failed to log performance: %v", err)
	}

	s, err := st.GetSongByID(song.ID)
	if err != nil {
		t.Fatalf("failed to get song: %v", err)
	}
	if s.LastPerformed == nil || s.LastPerformed.Unix() != late.Unix() {
		t.Errorf("expected last performed to stay %d, got %v", late.Unix(), s.LastPerformed)
	}
	if s.TotalPerformances != 2 {
		t.Errorf("expected 2 performances, got %d", s.TotalPerformances)
	}
}

func TestLogPerformanceMissingVisit(t *testing.T) {
	engine, st := newTestEngine(t, "test-missing-visit.db")
	song, _ := addSongAndVenue(t, st)

	_, err := engine.LogPerformance(9999, song.ID, 0, "", time.Unix(1700000000, 0))
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	count, err := st.CountPerformances()
	if err != nil {
		t.Fatalf("failed to count performances: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no performance rows after failed log, got %d", count)
	}
}

func TestLogPerformanceRollsBackOnMissingSong(t *testing.T) {
	engine, st := newTestEngine(t, "test-missing-song.db")
	_, venue := addSongAndVenue(t, st)

	t0 := time.Unix(1700000000, 0)
	visitID, err := engine.StartVisit(venue.ID, t0, "", true)
	if err != nil {
		t.Fatalf("failed to start visit: %v", err)
	}

	_, err = engine.LogPerformance(visitID, 9999, 0, "", t0)
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	// Nothing may have leaked: no performance row, venue not bumped
	count, err := st.CountPerformances()
	if err != nil {
		t.Fatalf("failed to count performances: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no performance rows, got %d", count)
	}
	v, err := st.GetVenueByID(venue.ID)
	if err != nil {
		t.Fatalf("failed to get venue: %v", err)
	}
	if v.TotalVisits != 0 {
		t.Errorf("expected venue aggregates untouched, got %d visits", v.TotalVisits)
	}
}

func TestLogPerformanceRejectsOutOfRangeAdjustment(t *testing.T) {
	engine, st := newTestEngine(t, "test-bad-adjust.db")
	song, venue := addSongAndVenue(t, st)

	visitID, err := engine.StartVisit(venue.ID, time.Unix(1700000000, 0), "", true)
	if err != nil {
		t.Fatalf("failed to start visit: %v", err)
	}

	if _, err := engine.LogPerformance(visitID, song.ID, 7, "", time.Unix(1700000100, 0)); err == nil {
		t.Error("expected error for adjustment outside [-6, 6]")
	}
	if _, err := engine.LogPerformance(visitID, song.ID, -999, "", time.Unix(1700000100, 0)); err == nil {
		t.Error("expected the unknown sentinel to be rejected as a numeric adjustment")
	}
}

func TestCompleteVisitMergesOverrides(t *testing.T) {
	engine, st := newTestEngine(t, "test-complete.db")
	_, venue := addSongAndVenue(t, st)

	t0 := time.Unix(1700000000, 0)
	visitID, err := engine.StartVisit(venue.ID, t0, "fun night", true)
	if err != nil {
		t.Fatalf("failed to start visit: %v", err)
	}

	end := t0.Add(3 * time.Hour)
	spent := 42.50
	if err := engine.CompleteVisit(visitID, end, nil, &spent); err != nil {
		t.Fatalf("failed to complete visit: %v", err)
	}

	visit, err := st.GetVisitByID(visitID)
	if err != nil {
		t.Fatalf("failed to get visit: %v", err)
	}
	if visit.IsActive {
		t.Error("expected visit to be inactive")
	}
	if visit.EndTimestamp == nil || visit.EndTimestamp.Unix() != end.Unix() {
		t.Errorf("expected end %d, got %v", end.Unix(), visit.EndTimestamp)
	}
	// Absent notes override keeps the prior value
	if visit.Notes != "fun night" {
		t.Errorf("expected notes to survive, got %q", visit.Notes)
	}
	if visit.AmountSpent == nil || *visit.AmountSpent != spent {
		t.Errorf("expected amount spent %.2f, got %v", spent, visit.AmountSpent)
	}
}

func TestCompleteVisitMissingIsNoOp(t *testing.T) {
	engine, _ := newTestEngine(t, "test-complete-missing.db")

	if err := engine.CompleteVisit(9999, time.Unix(1700000000, 0), nil, nil); err != nil {
		t.Fatalf("ending a missing visit must be a silent no-op, got %v", err)
	}
}

func TestDeleteSongRemovesDependents(t *testing.T) {
	engine, st := newTestEngine(t, "test-del-song.db")
	song, venue := addSongAndVenue(t, st)

	t0 := time.Unix(1700000000, 0)
	visitID, err := engine.StartVisit(venue.ID, t0, "", true)
	if err != nil {
		t.Fatalf("failed to start visit: %v", err)
	}
	if _, err := engine.LogPerformance(visitID, song.ID, 0, "", t0); err != nil {
		t.Fatalf("failed to log performance: %v", err)
	}

	if err := engine.DeleteSong(song.ID); err != nil {
		t.Fatalf("failed to delete song: %v", err)
	}

	if s, _ := st.GetSongByID(song.ID); s != nil {
		t.Error("expected song to be gone")
	}
	if info, _ := st.GetSongVenueInfo(song.ID, venue.ID); info != nil {
		t.Error("expected song venue info to be gone")
	}
	count, err := st.CountPerformances()
	if err != nil {
		t.Fatalf("failed to count performances: %v", err)
	}
	if count != 0 {
		t.Errorf("expected performances to cascade away, got %d", count)
	}
	// The visit itself survives
	if visit, _ := st.GetVisitByID(visitID); visit == nil {
		t.Error("expected visit to survive song deletion")
	}

	if err := engine.DeleteSong(song.ID); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("expected not-found on second delete, got %v", err)
	}
}

func TestDeleteVisitWalksCountsBack(t *testing.T) {
	engine, st := newTestEngine(t, "test-del-visit.db")
	song, venue := addSongAndVenue(t, st)

	t0 := time.Unix(1700000000, 0)
	visitID, err := engine.StartVisit(venue.ID, t0, "", true)
	if err != nil {
		t.Fatalf("failed to start visit: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := engine.LogPerformance(visitID, song.ID, 0, "", t0.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("failed to log performance: %v", err)
		}
	}

	if err := engine.DeleteVisit(visitID); err != nil {
		t.Fatalf("failed to delete visit: %v", err)
	}

	s, err := st.GetSongByID(song.ID)
	if err != nil {
		t.Fatalf("failed to get song: %v", err)
	}
	if s.TotalPerformances != 0 {
		t.Errorf("expected song count walked back to 0, got %d", s.TotalPerformances)
	}
	// Dates stay frozen at their last value
	if s.LastPerformed == nil {
		t.Error("expected last performed to stay frozen, got nil")
	}

	info, err := st.GetSongVenueInfo(song.ID, venue.ID)
	if err != nil {
		t.Fatalf("failed to get song venue info: %v", err)
	}
	if info == nil || info.PerformanceCount != 0 {
		t.Errorf("expected venue-scoped count walked back to 0, got %v", info)
	}
}

func TestRelogAfterDeleteDoesNotRecountVisit(t *testing.T) {
	engine, st := newTestEngine(t, "test-relog.db")
	song, venue := addSongAndVenue(t, st)

	t0 := time.Unix(1700000000, 0)
	visitID, err := engine.StartVisit(venue.ID, t0, "", true)
	if err != nil {
		t.Fatalf("failed to start visit: %v", err)
	}

	perfID, err := engine.LogPerformance(visitID, song.ID, 0, "", t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("failed to log performance: %v", err)
	}
	if err := engine.DeletePerformance(perfID); err != nil {
		t.Fatalf("failed to delete performance: %v", err)
	}

	// The visit has zero live performances again, but it was already
	// counted; logging another performance must not bump the venue
	if _, err := engine.LogPerformance(visitID, song.ID, 0, "", t0.Add(2*time.Minute)); err != nil {
		t.Fatalf("failed to log performance: %v", err)
	}

	v, err := st.GetVenueByID(venue.ID)
	if err != nil {
		t.Fatalf("failed to get venue: %v", err)
	}
	if v.TotalVisits != 1 {
		t.Errorf("one visit counted %d times in total_visits", v.TotalVisits)
	}

	visit, err := st.GetVisitByID(visitID)
	if err != nil {
		t.Fatalf("failed to get visit: %v", err)
	}
	if !visit.Counted {
		t.Error("expected visit to stay marked counted after performance deletion")
	}
}

func TestAssociateConflictsOnExistingPair(t *testing.T) {
	engine, st := newTestEngine(t, "test-associate.db")
	song, venue := addSongAndVenue(t, st)

	info := &store.SongVenueInfo{SongID: song.ID, VenueID: venue.ID, VenuesSongID: "B-42"}
	if err := engine.Associate(info); err != nil {
		t.Fatalf("failed to associate: %v", err)
	}

	dup := &store.SongVenueInfo{SongID: song.ID, VenueID: venue.ID}
	if err := engine.Associate(dup); !errors.Is(err, util.ErrConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}

	// The upsert path used by performance logging must not conflict
	t0 := time.Unix(1700000000, 0)
	visitID, err := engine.StartVisit(venue.ID, t0, "", true)
	if err != nil {
		t.Fatalf("failed to start visit: %v", err)
	}
	if _, err := engine.LogPerformance(visitID, song.ID, 0, "", t0); err != nil {
		t.Fatalf("performance logging conflicted with existing association: %v", err)
	}

	updated, err := st.GetSongVenueInfo(song.ID, venue.ID)
	if err != nil {
		t.Fatalf("failed to get song venue info: %v", err)
	}
	if updated.PerformanceCount != 1 {
		t.Errorf("expected performance count 1, got %d", updated.PerformanceCount)
	}
	if updated.VenuesSongID != "B-42" {
		t.Errorf("expected catalogue code to survive the upsert, got %q", updated.VenuesSongID)
	}
}
