package evaluators

import (
	"testing"
	"time"

	"github.com/skarkon/crowsnest/internal/analysis"
	"github.com/skarkon/crowsnest/internal/watchlist"
)

// testWatch builds a watchlist with a few known hostile entities.
func testWatch() *watchlist.List {
	return watchlist.New(watchlist.File{
		HostileCorps:     []int64{666, 667},
		HostileAlliances: []int64{999},
		HostileRegions:   []string{"Delve", "Querious"},
	})
}

func daysAgo(now time.Time, d int) time.Time {
	return now.Add(-time.Duration(d) * 24 * time.Hour)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func timePtr(t time.Time) *time.Time {
	return &t
}

// findFlag returns the first flag with the given code, or nil.
func findFlag(flags []analysis.Flag, code string) *analysis.Flag {
	for i := range flags {
		if flags[i].Code == code {
			return &flags[i]
		}
	}
	return nil
}

func requireFlag(t *testing.T, flags []analysis.Flag, code string) *analysis.Flag {
	t.Helper()
	f := findFlag(flags, code)
	if f == nil {
		t.Fatalf("expected flag %s, got %v", code, codes(flags))
	}
	return f
}

func requireNoFlag(t *testing.T, flags []analysis.Flag, code string) {
	t.Helper()
	if findFlag(flags, code) != nil {
		t.Fatalf("unexpected flag %s in %v", code, codes(flags))
	}
}

func codes(flags []analysis.Flag) []string {
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = f.Code
	}
	return out
}
