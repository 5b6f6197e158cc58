package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dustin/go-humanize"

	"github.com/franz/karaoke-tracker/internal/report"
	"github.com/franz/karaoke-tracker/internal/util"
)

func lastOrNever(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return humanize.Time(*t)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a summary of the tracked history",
	Long: `Show a summary of the tracked history: totals, most-performed
songs, most-visited venues and housekeeping advice. With --out the
summary is also written as a Markdown file.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("out", "", "also write the report as Markdown to this file")
}

func runReport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := report.Generate(st)
	if err != nil {
		return err
	}
	summary.DatabasePath = viper.GetString("db")

	bold := color.New(color.Bold)
	bold.Println("Karaoke Tracker")
	fmt.Printf("  %s songs, %s venues, %s visits (%d open), %s performances\n",
		humanize.Comma(int64(summary.Songs)), humanize.Comma(int64(summary.Venues)),
		humanize.Comma(int64(summary.Visits)), summary.OpenVisits,
		humanize.Comma(int64(summary.Performances)))

	if len(summary.TopSongs) > 0 {
		bold.Println("Most performed")
		for i, stat := range summary.TopSongs {
			fmt.Printf("  %2d. %s - %s (%d, last %s)\n",
				i+1, stat.Artist, stat.Name, stat.Performances, lastOrNever(stat.LastPerformed))
		}
	}
	if len(summary.TopVenues) > 0 {
		bold.Println("Most visited")
		for i, stat := range summary.TopVenues {
			fmt.Printf("  %2d. %s (%d visits, last %s)\n",
				i+1, stat.Name, stat.Visits, lastOrNever(stat.LastVisited))
		}
	}
	if summary.RecommendedPurge > 0 {
		color.Yellow("History has %d visits; consider 'kst purge --auto' (removes %d oldest)",
			summary.Visits, summary.RecommendedPurge)
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := report.WriteMarkdown(summary, out); err != nil {
			return err
		}
		util.SuccessLog("Report written to %s", out)
	}

	return nil
}
