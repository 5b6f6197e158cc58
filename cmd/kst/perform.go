package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franz/karaoke-tracker/internal/keys"
	"github.com/franz/karaoke-tracker/internal/stats"
	"github.com/franz/karaoke-tracker/internal/store"
	"github.com/franz/karaoke-tracker/internal/util"
)

var performCmd = &cobra.Command{
	Use:   "perform VISIT_ID SONG_ID",
	Short: "Log a performance during a visit",
	Long: `Log a performance of a song during a visit.

The key adjustment accepts a signed step count ("+2", "-3") or a
phrase ("up 3 steps", "down 2"). The first performance of a visit is
what makes the visit count toward the venue's statistics.`,
	Args: cobra.ExactArgs(2),
	RunE: runPerform,
}

var associateCmd = &cobra.Command{
	Use:   "associate SONG_ID VENUE_ID",
	Short: "Record a song's details at a venue before performing it there",
	Args:  cobra.ExactArgs(2),
	RunE:  runAssociate,
}

func init() {
	rootCmd.AddCommand(performCmd, associateCmd)

	performCmd.Flags().String("adjust", "", "key adjustment (\"+2\", \"down 3\", ...)")
	performCmd.Flags().String("notes", "", "notes")
	performCmd.Flags().String("at", "now", "performance time")

	associateCmd.Flags().String("code", "", "the venue's own catalogue code for the song")
	associateCmd.Flags().String("venue-key", "", "the key the venue's track plays in")
	associateCmd.Flags().String("adjust", "", "key adjustment at this venue")
	associateCmd.Flags().String("lyrics", "", "venue-specific lyrics override")
}

func runPerform(cmd *cobra.Command, args []string) error {
	visitID, err := parseID(args[0])
	if err != nil {
		return err
	}
	songID, err := parseID(args[1])
	if err != nil {
		return err
	}

	adjustment := 0
	if adjustStr, _ := cmd.Flags().GetString("adjust"); adjustStr != "" {
		adj, ok := keys.ParseAdjustment(adjustStr)
		if !ok {
			return fmt.Errorf("unrecognized key adjustment %q", adjustStr)
		}
		adjustment = adj
	}

	notes, _ := cmd.Flags().GetString("notes")
	at, _ := cmd.Flags().GetString("at")
	ts, err := parseTimeFlag(at)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	perfID, err := stats.New(st).LogPerformance(visitID, songID, adjustment, notes, ts)
	if err != nil {
		return err
	}

	util.SuccessLog("Logged performance %d", perfID)
	return nil
}

func runAssociate(cmd *cobra.Command, args []string) error {
	songID, err := parseID(args[0])
	if err != nil {
		return err
	}
	venueID, err := parseID(args[1])
	if err != nil {
		return err
	}

	info := &store.SongVenueInfo{
		SongID:  songID,
		VenueID: venueID,
	}
	info.VenuesSongID, _ = cmd.Flags().GetString("code")
	info.VenueKey, _ = cmd.Flags().GetString("venue-key")
	info.Lyrics, _ = cmd.Flags().GetString("lyrics")

	if adjustStr, _ := cmd.Flags().GetString("adjust"); adjustStr != "" {
		adj, ok := keys.ParseAdjustment(adjustStr)
		if !ok {
			return fmt.Errorf("unrecognized key adjustment %q", adjustStr)
		}
		info.KeyAdjustment = &adj
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := stats.New(st).Associate(info); err != nil {
		return err
	}

	util.SuccessLog("Associated song %d with venue %d", songID, venueID)
	return nil
}
