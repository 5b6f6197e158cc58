package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franz/karaoke-tracker/internal/purge"
	"github.com/franz/karaoke-tracker/internal/util"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete the oldest visit/performance history",
	Long: `Delete the oldest visits and their performances in bulk.

Statistics are deliberately left frozen: performance counts, visit
counts and last-performed dates keep their pre-purge values. Use
--auto to purge the recommended amount for the current history size,
or --count for an explicit number of visits.`,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().Int("count", 0, "number of oldest visits to purge")
	purgeCmd.Flags().Bool("auto", false, "purge the recommended amount")
	purgeCmd.Flags().Bool("dry-run", false, "only show what would be purged")
}

func runPurge(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	count, _ := cmd.Flags().GetInt("count")
	auto, _ := cmd.Flags().GetBool("auto")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	total, err := st.CountVisits()
	if err != nil {
		return err
	}
	recommended := purge.Recommended(total)

	if auto {
		count = recommended
	}

	if dryRun {
		fmt.Printf("%d visits in history; recommended purge: %d\n", total, recommended)
		return nil
	}
	if count <= 0 {
		if recommended == 0 {
			util.InfoLog("History is small (%d visits); nothing recommended", total)
			return nil
		}
		return fmt.Errorf("no purge size given (use --count or --auto; recommended: %d)", recommended)
	}

	engine := purge.New(purge.Config{Store: st, ShowProgress: true})
	summary, err := engine.OldestVisits(count)
	if err != nil {
		return err
	}

	if summary.NothingToPurge {
		util.InfoLog("No visits to purge")
		return nil
	}

	util.SuccessLog("Purged %d visits and %d performances (statistics unchanged)",
		summary.DeletedVisits, summary.DeletedPerformances)
	return nil
}
