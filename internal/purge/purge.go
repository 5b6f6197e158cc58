// Package purge bounds the growth of detail history by bulk-deleting
// the oldest visits and their performances. Unlike ordinary deletion
// through the stats engine, a purge leaves every aggregate field
// exactly as it was: counts and last-performed dates stay frozen at
// their pre-purge values.
package purge

import (
	"database/sql"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/franz/karaoke-tracker/internal/store"
	"github.com/franz/karaoke-tracker/internal/util"
)

// Config holds purge engine configuration
type Config struct {
	Store *store.Store

	// ShowProgress renders a progress bar on stderr during large
	// purges (suppressed automatically when not a TTY)
	ShowProgress bool
}

// Engine deletes old visit/performance history
type Engine struct {
	store        *store.Store
	showProgress bool
}

// Summary reports what a purge removed
type Summary struct {
	DeletedVisits       int
	DeletedPerformances int

	// NothingToPurge is set when the store held no visits at all,
	// as opposed to a request that matched zero rows
	NothingToPurge bool
}

// New creates a purge engine
func New(cfg Config) *Engine {
	return &Engine{store: cfg.Store, showProgress: cfg.ShowProgress}
}

// OldestVisits deletes the count visits with the smallest start
// timestamp (ties broken by insertion order) together with their
// performances, in a single transaction. Aggregates are deliberately
// untouched. A store with no visits at all yields NothingToPurge
// rather than a zero-count success.
func (e *Engine) OldestVisits(count int) (*Summary, error) {
	summary := &Summary{}

	if count <= 0 {
		// Zero requested is a valid no-op, distinct from an empty store
		return summary, nil
	}

	err := e.store.Transaction(func(tx *sql.Tx) error {
		visits, err := e.store.OldestVisitsTx(tx, count)
		if err != nil {
			return err
		}
		if len(visits) == 0 {
			summary.NothingToPurge = true
			return nil
		}

		var bar *progressbar.ProgressBar
		if e.showProgress && util.IsTerminal(os.Stderr.Fd()) && !util.IsQuiet() {
			bar = progressbar.NewOptions(len(visits),
				progressbar.OptionSetDescription("Purging"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetItsString("visits"),
				progressbar.OptionClearOnFinish(),
			)
		}

		for _, visit := range visits {
			deleted, err := e.store.DeletePerformancesByVisitTx(tx, visit.ID)
			if err != nil {
				return err
			}
			summary.DeletedPerformances += int(deleted)

			if err := e.store.DeleteVisitTx(tx, visit.ID); err != nil {
				return err
			}
			summary.DeletedVisits++

			if bar != nil {
				bar.Add(1)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Recommended returns the advisory purge size for a store holding
// totalVisits visits. The caller decides whether to act on it.
func Recommended(totalVisits int) int {
	switch {
	case totalVisits > 1000:
		return 200
	case totalVisits > 750:
		return 150
	case totalVisits > 500:
		return 100
	default:
		return 0
	}
}
