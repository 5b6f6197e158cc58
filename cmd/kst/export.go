package main

import (
	"github.com/spf13/cobra"

	"github.com/franz/karaoke-tracker/internal/exchange"
	"github.com/franz/karaoke-tracker/internal/util"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export the full history to an interchange file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Merge an interchange file into this database",
	Long: `Merge an exported interchange file into this database.

Songs and venues already present (matched by name/artist) are reused
rather than duplicated, and a visit already recorded at the same venue
and start time is reused too. The file is validated before anything is
written; a self-inconsistent file is rejected whole.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	doc, err := exchange.Export(st)
	if err != nil {
		return err
	}
	if err := exchange.WriteFile(doc, args[0]); err != nil {
		return err
	}

	util.SuccessLog("Exported %d rows to %s", doc.RowCount(), args[0])
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	doc, err := exchange.ReadFile(args[0])
	if err != nil {
		return err
	}

	summary, err := exchange.Merge(st, doc, exchange.Options{ShowProgress: true})
	if err != nil {
		return err
	}

	util.SuccessLog("Imported %d songs, %d venues, %d visits, %d performances, %d song/venue entries",
		summary.Songs, summary.Venues, summary.Visits,
		summary.Performances, summary.SongVenueInfo)
	return nil
}
