package report

import (
	"strings"
	"testing"
	"time"
)

func TestMarkdownIncludesDatabasePath(t *testing.T) {
	summary := &Summary{
		GeneratedAt:  time.Unix(1700000000, 0),
		Songs:        3,
		Venues:       1,
		Visits:       2,
		Performances: 5,
		DatabasePath: "karaoke.db",
	}

	md := summary.Markdown()
	if !strings.Contains(md, "`karaoke.db`") {
		t.Errorf("expected database path in report, got:\n%s", md)
	}
	if !strings.Contains(md, "- Songs: 3") {
		t.Errorf("expected totals section, got:\n%s", md)
	}
}

func TestMarkdownOmitsUnknownDatabasePath(t *testing.T) {
	summary := &Summary{GeneratedAt: time.Unix(1700000000, 0)}
	if strings.Contains(summary.Markdown(), "Database:") {
		t.Error("expected no database line when the path is unknown")
	}
}
