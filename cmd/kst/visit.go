package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/franz/karaoke-tracker/internal/stats"
	"github.com/franz/karaoke-tracker/internal/util"
)

var visitCmd = &cobra.Command{
	Use:   "visit",
	Short: "Manage visits (karaoke sessions)",
}

var visitStartCmd = &cobra.Command{
	Use:   "start VENUE_ID",
	Short: "Start a visit at a venue",
	Args:  cobra.ExactArgs(1),
	RunE:  runVisitStart,
}

var visitEndCmd = &cobra.Command{
	Use:   "end VISIT_ID",
	Short: "End a visit",
	Long: `End a visit. Ending a visit that no longer exists is not an
error; the command succeeds without doing anything.`,
	Args: cobra.ExactArgs(1),
	RunE: runVisitEnd,
}

var visitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visits, oldest first",
	RunE:  runVisitList,
}

func init() {
	rootCmd.AddCommand(visitCmd)
	visitCmd.AddCommand(visitStartCmd, visitEndCmd, visitListCmd)

	visitStartCmd.Flags().String("at", "now", "start time")
	visitStartCmd.Flags().String("notes", "", "notes")

	visitEndCmd.Flags().String("at", "now", "end time")
	visitEndCmd.Flags().String("notes", "", "replace the visit's notes")
	visitEndCmd.Flags().Float64("spent", 0, "amount spent")

	visitListCmd.Flags().Int64("venue", 0, "only this venue")
}

func runVisitStart(cmd *cobra.Command, args []string) error {
	venueID, err := parseID(args[0])
	if err != nil {
		return err
	}
	at, _ := cmd.Flags().GetString("at")
	ts, err := parseTimeFlag(at)
	if err != nil {
		return err
	}
	notes, _ := cmd.Flags().GetString("notes")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	visitID, err := stats.New(st).StartVisit(venueID, ts, notes, true)
	if err != nil {
		return err
	}

	util.SuccessLog("Started visit %d", visitID)
	return nil
}

func runVisitEnd(cmd *cobra.Command, args []string) error {
	visitID, err := parseID(args[0])
	if err != nil {
		return err
	}
	at, _ := cmd.Flags().GetString("at")
	ts, err := parseTimeFlag(at)
	if err != nil {
		return err
	}

	var notes *string
	if cmd.Flags().Changed("notes") {
		v, _ := cmd.Flags().GetString("notes")
		notes = &v
	}
	var spent *float64
	if cmd.Flags().Changed("spent") {
		v, _ := cmd.Flags().GetFloat64("spent")
		spent = &v
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := stats.New(st).CompleteVisit(visitID, ts, notes, spent); err != nil {
		return err
	}

	util.SuccessLog("Ended visit %d", visitID)
	return nil
}

func runVisitList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	venueID, _ := cmd.Flags().GetInt64("venue")
	visits, err := st.ListVisits()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	header := color.New(color.Bold)
	fmt.Fprintf(w, "%s\n", header.Sprint("ID\tVENUE\tSTART\tEND\tSPENT"))
	for _, visit := range visits {
		if venueID != 0 && visit.VenueID != venueID {
			continue
		}
		end := "open"
		if visit.EndTimestamp != nil {
			end = visit.EndTimestamp.Format("2006-01-02 15:04")
		}
		spent := ""
		if visit.AmountSpent != nil {
			spent = fmt.Sprintf("%.2f", *visit.AmountSpent)
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
			visit.ID, visit.VenueID, visit.Timestamp.Format("2006-01-02 15:04"), end, spent)
	}
	return w.Flush()
}
