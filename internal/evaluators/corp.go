package evaluators

import (
	"context"
	"fmt"
	"time"

	"github.com/skarkon/crowsnest/internal/analysis"
	"github.com/skarkon/crowsnest/internal/watchlist"
)

const (
	// rapidHopWindow is the trailing window for the hop-velocity check.
	rapidHopWindow = 180 * 24 * time.Hour
	// rapidHopCount is how many corp joins inside the window count as hopping.
	rapidHopCount = 5
	// shortTenure is the current-corp tenure below which we flag.
	shortTenure = 30 * 24 * time.Hour
	// npcParkingMinDays: NPC stints longer than this look like parking, not
	// the brief transit everyone does between player corps.
	npcParkingMinDays = 30
	// Veteran thresholds for the long-tenure positive signal.
	veteranCumulativeDays = 730
	veteranLongestDays    = 365
)

// CorpHistory inspects the membership record for hostile affiliations,
// hop velocity, and tenure patterns.
type CorpHistory struct {
	watch watchlist.Provider
	now   func() time.Time
}

// NewCorpHistory creates the corporation-history evaluator.
func NewCorpHistory(watch watchlist.Provider) *CorpHistory {
	return &CorpHistory{watch: watch, now: time.Now}
}

func (e *CorpHistory) Name() string          { return "corp_history" }
func (e *CorpHistory) RequiresAuxData() bool { return false }

func (e *CorpHistory) Analyze(ctx context.Context, p *analysis.Profile) ([]analysis.Flag, error) {
	if len(p.CorpHistory) == 0 {
		return nil, nil
	}

	snap := e.watch.Current()
	now := e.now()
	var flags []analysis.Flag

	// Hostile membership anywhere in history is the strongest corp signal.
	var hostile []string
	for _, m := range p.CorpHistory {
		if m.IsHostile || snap.IsHostileCorp(m.CorpID) {
			hostile = append(hostile, m.CorpName)
		}
	}
	if len(hostile) > 0 {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityRed, analysis.CategoryCorpHistory,
			analysis.CodeHostileCorpHistory,
			fmt.Sprintf("member of %d hostile organization(s)", len(hostile)),
		).WithEvidence(map[string]any{"corps": hostile}))
	}

	// Hop velocity: joins inside the trailing window.
	cutoff := now.Add(-rapidHopWindow)
	recentJoins := 0
	for _, m := range p.CorpHistory {
		if m.Start.After(cutoff) {
			recentJoins++
		}
	}
	if recentJoins >= rapidHopCount {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityRed, analysis.CategoryCorpHistory,
			analysis.CodeRapidCorpHop,
			fmt.Sprintf("joined %d corps in the last 180 days", recentJoins),
		).WithEvidence(map[string]any{"joins_180d": recentJoins}))
	}

	// Current tenure.
	current := p.CurrentCorp()
	if current != nil && now.Sub(current.Start) < shortTenure {
		days := int(now.Sub(current.Start).Hours() / 24)
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityYellow, analysis.CategoryCorpHistory,
			analysis.CodeShortCurrentTenure,
			fmt.Sprintf("only %d days in current corp", days),
		).WithEvidence(map[string]any{"tenure_days": days}))
	}

	// NPC parking: repeated long NPC-corp stints suggest the character sat
	// idle while the player was active elsewhere.
	longNPCStints := 0
	for _, m := range p.CorpHistory {
		if m.IsNPC && stintDays(m, now) > npcParkingMinDays {
			longNPCStints++
		}
	}
	if longNPCStints >= 2 {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityYellow, analysis.CategoryCorpHistory,
			analysis.CodeNPCParking,
			fmt.Sprintf("%d extended NPC-corp stints (possible parking)", longNPCStints),
		).WithEvidence(map[string]any{"npc_stints": longNPCStints}))
	}

	// Veteran signal: long, settled player-corp history.
	cumulative, longest := 0, 0
	for _, m := range p.CorpHistory {
		if m.IsNPC {
			continue
		}
		d := stintDays(m, now)
		cumulative += d
		if d > longest {
			longest = d
		}
	}
	if cumulative >= veteranCumulativeDays && longest >= veteranLongestDays {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityGreen, analysis.CategoryCorpHistory,
			analysis.CodeLongTenure,
			fmt.Sprintf("%d days of player-corp history, longest stint %d days", cumulative, longest),
		).WithEvidence(map[string]any{"cumulative_days": cumulative, "longest_days": longest}))
	}

	// Clean history: no hostile membership and a settled recent record.
	if len(hostile) == 0 && recentJoins < 3 {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityGreen, analysis.CategoryCorpHistory,
			analysis.CodeCleanHistory,
			"no hostile affiliations and a stable recent history",
		))
	}

	return flags, nil
}

// stintDays returns the length of a membership in days, preferring the
// precomputed duration when the assembler supplied one.
func stintDays(m analysis.CorpMembership, now time.Time) int {
	if m.DurationDays != nil {
		return *m.DurationDays
	}
	end := now
	if m.End != nil {
		end = *m.End
	}
	return int(end.Sub(m.Start).Hours() / 24)
}
