package evaluators

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/skarkon/crowsnest/internal/analysis"
)

const (
	// rmtMinAmount: only transfers of at least 100M ISK are worth a
	// seller's time; smaller repeated amounts are gifts and loans.
	rmtMinAmount = 100_000_000.0
	// rmtMinOccurrences is the group size needed before cadence is testable.
	rmtMinOccurrences = 5
	// rmtMaxGapVariance is the population variance (hours squared) below which the
	// inter-arrival gaps count as machine-regular.
	rmtMaxGapVariance = 100.0
	// The weekly-ish cadence band, in hours. A subscription paid every
	// 7 days has a mean gap of 168h.
	rmtMeanGapMin = 100.0
	rmtMeanGapMax = 200.0

	// preJoinWindow and preJoinThreshold drive the paid-infiltration check.
	preJoinWindow    = 30 * 24 * time.Hour
	preJoinThreshold = 1_000_000_000.0
)

// playerTransferRefTypes are the journal ref types that represent direct
// player-to-player ISK movement.
var playerTransferRefTypes = map[string]bool{
	"player_donation": true,
	"player_trading":  true,
}

// Finance runs wallet forensics: RMT cadence detection and pre-join
// transfer analysis.
type Finance struct{}

// NewFinance creates the financial-transaction evaluator.
func NewFinance() *Finance { return &Finance{} }

func (e *Finance) Name() string          { return "finance" }
func (e *Finance) RequiresAuxData() bool { return false }

func (e *Finance) Analyze(ctx context.Context, p *analysis.Profile) ([]analysis.Flag, error) {
	if len(p.WalletJournal) == 0 {
		return nil, nil
	}

	incoming := incomingTransfers(p.WalletJournal)
	var flags []analysis.Flag

	if f := e.detectRMT(incoming); f != nil {
		flags = append(flags, *f)
	}
	if f := e.detectPreJoinTransfers(incoming, p.CurrentCorp()); f != nil {
		flags = append(flags, *f)
	}
	return flags, nil
}

// incomingTransfers filters the journal down to positive player-to-player
// movements.
func incomingTransfers(journal []analysis.JournalEntry) []analysis.JournalEntry {
	var out []analysis.JournalEntry
	for _, j := range journal {
		if j.Amount > 0 && playerTransferRefTypes[j.RefType] {
			out = append(out, j)
		}
	}
	return out
}

// detectRMT looks for the signature of a paid ISK subscription: the same
// exact amount arriving on a near-fixed weekly cadence. Organic gifting has
// varied amounts and irregular timing; RMT looks like a payroll run.
func (e *Finance) detectRMT(incoming []analysis.JournalEntry) *analysis.Flag {
	groups := make(map[float64][]time.Time)
	for _, j := range incoming {
		if j.Amount >= rmtMinAmount {
			groups[j.Amount] = append(groups[j.Amount], j.Date)
		}
	}

	// Deterministic iteration: check larger amounts first.
	amounts := make([]float64, 0, len(groups))
	for amt := range groups {
		amounts = append(amounts, amt)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(amounts)))

	for _, amt := range amounts {
		dates := groups[amt]
		if len(dates) < rmtMinOccurrences {
			continue
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		gaps := make([]float64, 0, len(dates)-1)
		for i := 1; i < len(dates); i++ {
			gaps = append(gaps, dates[i].Sub(dates[i-1]).Hours())
		}
		mean, variance := meanVariance(gaps)

		if variance <= rmtMaxGapVariance && mean >= rmtMeanGapMin && mean <= rmtMeanGapMax {
			f := analysis.NewFlag(
				analysis.SeverityRed, analysis.CategoryFinance,
				analysis.CodeRMTPattern,
				fmt.Sprintf("%d transfers of exactly %.0f ISK on a regular ~%.0fh cadence", len(dates), amt, mean),
			).WithConfidence(0.85).WithEvidence(map[string]any{
				"amount":        amt,
				"occurrences":   len(dates),
				"mean_gap_hrs":  math.Round(mean*10) / 10,
				"gap_variance":  math.Round(variance*10) / 10,
				"first_payment": dates[0],
				"last_payment":  dates[len(dates)-1],
			})
			return &f
		}
	}
	return nil
}

// detectPreJoinTransfers sums incoming player transfers in the 30 days
// before the current corp's join date. Someone paid shortly before joining
// may have been paid to join.
func (e *Finance) detectPreJoinTransfers(incoming []analysis.JournalEntry, current *analysis.CorpMembership) *analysis.Flag {
	if current == nil {
		return nil
	}

	windowStart := current.Start.Add(-preJoinWindow)
	total := 0.0
	count := 0
	for _, j := range incoming {
		if !j.Date.Before(windowStart) && j.Date.Before(current.Start) {
			total += j.Amount
			count++
		}
	}
	if total <= preJoinThreshold {
		return nil
	}

	f := analysis.NewFlag(
		analysis.SeverityYellow, analysis.CategoryFinance,
		analysis.CodeLargePreJoinTransfer,
		fmt.Sprintf("received %.0f ISK in the 30 days before joining current corp", total),
	).WithEvidence(map[string]any{
		"total_isk": total,
		"transfers": count,
		"join_date": current.Start,
	})
	return &f
}

// meanVariance returns the mean and population variance of xs.
func meanVariance(xs []float64) (mean, variance float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs))
	return mean, variance
}
