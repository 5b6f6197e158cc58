package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/franz/karaoke-tracker/internal/stats"
	"github.com/franz/karaoke-tracker/internal/store"
	"github.com/franz/karaoke-tracker/internal/util"
)

var venueCmd = &cobra.Command{
	Use:   "venue",
	Short: "Manage venues",
}

var venueAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a venue",
	Args:  cobra.ExactArgs(1),
	RunE:  runVenueAdd,
}

var venueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all venues",
	RunE:  runVenueList,
}

var venueRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a venue and everything recorded there",
	Args:  cobra.ExactArgs(1),
	RunE:  runVenueRm,
}

func init() {
	rootCmd.AddCommand(venueCmd)
	venueCmd.AddCommand(venueAddCmd, venueListCmd, venueRmCmd)

	venueAddCmd.Flags().String("address", "", "address")
	venueAddCmd.Flags().String("cost", "", "cost notes (e.g. \"$5/hr per room\")")
	venueAddCmd.Flags().String("room-type", "", "room type (private box, open stage, ...)")
	venueAddCmd.Flags().String("hours", "", "opening hours")
	venueAddCmd.Flags().String("notes", "", "free-form notes")
}

func runVenueAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	address, _ := cmd.Flags().GetString("address")
	cost, _ := cmd.Flags().GetString("cost")
	roomType, _ := cmd.Flags().GetString("room-type")
	hours, _ := cmd.Flags().GetString("hours")
	notes, _ := cmd.Flags().GetString("notes")

	venue := &store.Venue{
		Name:     args[0],
		Address:  address,
		Cost:     cost,
		RoomType: roomType,
		Hours:    hours,
		Notes:    notes,
	}
	if err := st.InsertVenue(venue); err != nil {
		return err
	}

	util.SuccessLog("Added venue %d: %s", venue.ID, venue.Name)
	return nil
}

func runVenueList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	venues, err := st.ListVenues()
	if err != nil {
		return err
	}
	if len(venues) == 0 {
		fmt.Println("No venues yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	header := color.New(color.Bold)
	fmt.Fprintf(w, "%s\n", header.Sprint("ID\tVENUE\tVISITS\tLAST"))
	for _, venue := range venues {
		last := "never"
		if venue.LastVisited != nil {
			last = venue.LastVisited.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", venue.ID, venue.Name, venue.TotalVisits, last)
	}
	return w.Flush()
}

func runVenueRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := stats.New(st).DeleteVenue(id); err != nil {
		return err
	}
	util.SuccessLog("Deleted venue %d", id)
	return nil
}
