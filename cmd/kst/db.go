package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/franz/karaoke-tracker/internal/store"
	"github.com/franz/karaoke-tracker/internal/util"
)

// openStore opens the configured database and applies the logging
// flags. Every command goes through here.
func openStore() (*store.Store, error) {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	dbPath := viper.GetString("db")
	if dbPath == "" {
		return nil, fmt.Errorf("no database path configured: %w", util.ErrInvalidConfig)
	}
	util.DebugLog("Database: %s", dbPath)

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

// parseTimeFlag accepts "now", RFC3339, or "2006-01-02 15:04"
func parseTimeFlag(s string) (time.Time, error) {
	if s == "" || s == "now" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (want RFC3339 or \"2006-01-02 15:04\")", s)
}

// parseID parses a positional numeric entity ID
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
