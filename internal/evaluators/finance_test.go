package evaluators

import (
	"context"
	"testing"
	"time"

	"github.com/skarkon/crowsnest/internal/analysis"
)

var financeNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

// weeklyTransfers builds n identical player donations spaced exactly gap apart,
// most recent last.
func weeklyTransfers(amount float64, n int, gap time.Duration) []analysis.JournalEntry {
	entries := make([]analysis.JournalEntry, 0, n)
	start := financeNow.Add(-time.Duration(n) * gap)
	for i := 0; i < n; i++ {
		entries = append(entries, analysis.JournalEntry{
			ID:      int64(i + 1),
			Date:    start.Add(time.Duration(i) * gap),
			RefType: "player_donation",
			Amount:  amount,
		})
	}
	return entries
}

func TestFinance_EmptyJournal(t *testing.T) {
	e := NewFinance()
	flags, err := e.Analyze(context.Background(), &analysis.Profile{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if flags != nil {
		t.Errorf("empty journal should yield no flags, got %v", codes(flags))
	}
}

func TestFinance_RMTPattern(t *testing.T) {
	// Six transfers of exactly 500M on a precise weekly cadence: the
	// signature of a paid ISK subscription.
	e := NewFinance()
	p := &analysis.Profile{
		WalletJournal: weeklyTransfers(500_000_000, 6, 7*24*time.Hour),
	}

	flags, _ := e.Analyze(context.Background(), p)

	f := requireFlag(t, flags, analysis.CodeRMTPattern)
	if f.Severity != analysis.SeverityRed {
		t.Errorf("RMT pattern should be red, got %s", f.Severity)
	}
	if f.Confidence != 0.85 {
		t.Errorf("RMT confidence = %v, want 0.85", f.Confidence)
	}
	if f.Evidence["occurrences"] != 6 {
		t.Errorf("occurrences evidence = %v, want 6", f.Evidence["occurrences"])
	}
}

func TestFinance_IrregularGapsNotRMT(t *testing.T) {
	// Same amount, but organic timing: gaps of 2, 20, 5, 40, 11 days.
	e := NewFinance()
	gapsDays := []int{0, 2, 22, 27, 67, 78}
	var journal []analysis.JournalEntry
	for i, d := range gapsDays {
		journal = append(journal, analysis.JournalEntry{
			ID:      int64(i + 1),
			Date:    financeNow.Add(-time.Duration(100-d) * 24 * time.Hour),
			RefType: "player_donation",
			Amount:  500_000_000,
		})
	}
	p := &analysis.Profile{WalletJournal: journal}

	flags, _ := e.Analyze(context.Background(), p)
	requireNoFlag(t, flags, analysis.CodeRMTPattern)
}

func TestFinance_VariedAmountsNotRMT(t *testing.T) {
	// Weekly cadence but every transfer differs: RMT sellers ship a fixed
	// quantity, so amount grouping must not fire on one-off sums.
	e := NewFinance()
	journal := weeklyTransfers(0, 6, 7*24*time.Hour)
	amounts := []float64{
		100_000_000, 150_000_000, 200_000_000,
		250_000_000, 300_000_000, 350_000_000,
	}
	for i := range journal {
		journal[i].Amount = amounts[i]
	}
	p := &analysis.Profile{WalletJournal: journal}

	flags, _ := e.Analyze(context.Background(), p)
	requireNoFlag(t, flags, analysis.CodeRMTPattern)
}

func TestFinance_SmallAmountsNotRMT(t *testing.T) {
	// Below 100M per transfer: gifts and loans, not a seller's cadence.
	e := NewFinance()
	p := &analysis.Profile{
		WalletJournal: weeklyTransfers(50_000_000, 8, 7*24*time.Hour),
	}

	flags, _ := e.Analyze(context.Background(), p)
	requireNoFlag(t, flags, analysis.CodeRMTPattern)
}

func TestFinance_TooFewOccurrencesNotRMT(t *testing.T) {
	e := NewFinance()
	p := &analysis.Profile{
		WalletJournal: weeklyTransfers(500_000_000, 4, 7*24*time.Hour),
	}

	flags, _ := e.Analyze(context.Background(), p)
	requireNoFlag(t, flags, analysis.CodeRMTPattern)
}

func TestFinance_NonPlayerRefTypesIgnored(t *testing.T) {
	e := NewFinance()
	journal := weeklyTransfers(500_000_000, 6, 7*24*time.Hour)
	for i := range journal {
		journal[i].RefType = "bounty_prizes"
	}
	p := &analysis.Profile{WalletJournal: journal}

	flags, _ := e.Analyze(context.Background(), p)
	if flags != nil {
		t.Errorf("NPC income should yield no flags, got %v", codes(flags))
	}
}

func TestFinance_OutgoingIgnored(t *testing.T) {
	e := NewFinance()
	journal := weeklyTransfers(500_000_000, 6, 7*24*time.Hour)
	for i := range journal {
		journal[i].Amount = -journal[i].Amount
	}
	p := &analysis.Profile{WalletJournal: journal}

	flags, _ := e.Analyze(context.Background(), p)
	requireNoFlag(t, flags, analysis.CodeRMTPattern)
}

func TestFinance_PreJoinTransfers(t *testing.T) {
	// 1.2B received in the 30 days before joining the current corp.
	e := NewFinance()
	join := financeNow.Add(-10 * 24 * time.Hour)
	p := &analysis.Profile{
		CorpHistory: []analysis.CorpMembership{{CorpID: 1, Start: join}},
		WalletJournal: []analysis.JournalEntry{
			{ID: 1, Date: join.Add(-5 * 24 * time.Hour), RefType: "player_donation", Amount: 700_000_000},
			{ID: 2, Date: join.Add(-15 * 24 * time.Hour), RefType: "player_trading", Amount: 500_000_000},
		},
	}

	flags, _ := e.Analyze(context.Background(), p)

	f := requireFlag(t, flags, analysis.CodeLargePreJoinTransfer)
	if f.Severity != analysis.SeverityYellow {
		t.Errorf("pre-join transfer should be yellow, got %s", f.Severity)
	}
	if f.Evidence["total_isk"] != 1_200_000_000.0 {
		t.Errorf("total_isk evidence = %v, want 1.2B", f.Evidence["total_isk"])
	}
}

func TestFinance_PreJoinBelowThreshold(t *testing.T) {
	// Exactly 1B does not cross the strictly-greater threshold.
	e := NewFinance()
	join := financeNow.Add(-10 * 24 * time.Hour)
	p := &analysis.Profile{
		CorpHistory: []analysis.CorpMembership{{CorpID: 1, Start: join}},
		WalletJournal: []analysis.JournalEntry{
			{ID: 1, Date: join.Add(-5 * 24 * time.Hour), RefType: "player_donation", Amount: 1_000_000_000},
		},
	}

	flags, _ := e.Analyze(context.Background(), p)
	requireNoFlag(t, flags, analysis.CodeLargePreJoinTransfer)
}

func TestFinance_TransfersOutsideWindowIgnored(t *testing.T) {
	e := NewFinance()
	join := financeNow.Add(-10 * 24 * time.Hour)
	p := &analysis.Profile{
		CorpHistory: []analysis.CorpMembership{{CorpID: 1, Start: join}},
		WalletJournal: []analysis.JournalEntry{
			// Too early, and after joining: both outside the window.
			{ID: 1, Date: join.Add(-45 * 24 * time.Hour), RefType: "player_donation", Amount: 5_000_000_000},
			{ID: 2, Date: join.Add(2 * 24 * time.Hour), RefType: "player_donation", Amount: 5_000_000_000},
		},
	}

	flags, _ := e.Analyze(context.Background(), p)
	requireNoFlag(t, flags, analysis.CodeLargePreJoinTransfer)
}

func TestMeanVariance(t *testing.T) {
	mean, variance := meanVariance([]float64{168, 168, 168})
	if mean != 168 || variance != 0 {
		t.Errorf("meanVariance(constant) = (%v, %v), want (168, 0)", mean, variance)
	}

	mean, variance = meanVariance(nil)
	if mean != 0 || variance != 0 {
		t.Errorf("meanVariance(nil) = (%v, %v), want (0, 0)", mean, variance)
	}
}
