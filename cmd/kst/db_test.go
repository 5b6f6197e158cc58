package main

import (
	"errors"
	"testing"

	"github.com/spf13/viper"

	"github.com/franz/karaoke-tracker/internal/util"
)

func TestOpenStoreRequiresDatabasePath(t *testing.T) {
	old := viper.GetString("db")
	viper.Set("db", "")
	t.Cleanup(func() { viper.Set("db", old) })

	_, err := openStore()
	if !errors.Is(err, util.ErrInvalidConfig) {
		t.Fatalf("expected invalid-configuration error, got %v", err)
	}
}

func TestParseTimeFlag(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"now", true},
		{"", true},
		{"2026-08-29", true},
		{"2026-08-29 21:30", true},
		{"2026-08-29T21:30:00Z", true},
		{"yesterday", false},
		{"29/08/2026", false},
	}
	for _, tt := range tests {
		_, err := parseTimeFlag(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("parseTimeFlag(%q) err = %v, want ok=%v", tt.input, err, tt.ok)
		}
	}
}
