package evaluators

import (
	"context"
	"fmt"

	"github.com/skarkon/crowsnest/internal/analysis"
	"github.com/skarkon/crowsnest/internal/watchlist"
)

const (
	lowActivityKills90D  = 20
	activeCombatant90D   = 50
	awoxHighConfCount    = 3
	topRegionsConsidered = 3
	topShipsConsidered   = 5
)

// Combat inspects the killboard record: betrayal kills, activity level,
// operating space, and ship specialization.
type Combat struct {
	watch watchlist.Provider
}

// NewCombat creates the combat-history evaluator.
func NewCombat(watch watchlist.Provider) *Combat {
	return &Combat{watch: watch}
}

func (e *Combat) Name() string          { return "combat" }
func (e *Combat) RequiresAuxData() bool { return false }

func (e *Combat) Analyze(ctx context.Context, p *analysis.Profile) ([]analysis.Flag, error) {
	cs := p.CombatStats
	if cs == nil {
		return nil, nil
	}

	snap := e.watch.Current()
	var flags []analysis.Flag

	// AWOX kills: attacks on own corp/alliance members. Even one is a
	// disqualifier for most corps.
	if cs.AwoxKills >= 1 {
		conf := 0.7
		if cs.AwoxKills > awoxHighConfCount {
			conf = 0.9
		}
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityRed, analysis.CategoryCombat,
			analysis.CodeAwoxHistory,
			fmt.Sprintf("%d kill(s) against own corp or alliance members", cs.AwoxKills),
		).WithConfidence(conf).WithEvidence(map[string]any{"awox_kills": cs.AwoxKills}))
	}

	// Low recent activity. A character with zero kills ever is simply new,
	// not inactive, don't penalize it.
	if cs.KillsTotal > 0 && cs.Kills90D < lowActivityKills90D {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityYellow, analysis.CategoryCombat,
			analysis.CodeLowCombatActivity,
			fmt.Sprintf("only %d kills in the last 90 days", cs.Kills90D),
		).WithEvidence(map[string]any{"kills_90d": cs.Kills90D, "kills_total": cs.KillsTotal}))
	}

	// All top regions high-sec: unusual for a nullsec applicant.
	if n := len(cs.TopRegions); n > 0 {
		top := cs.TopRegions
		if n > topRegionsConsidered {
			top = top[:topRegionsConsidered]
		}
		allHighSec := true
		for _, r := range top {
			if !snap.IsHighSec(r) {
				allHighSec = false
				break
			}
		}
		if allHighSec {
			flags = append(flags, analysis.NewFlag(
				analysis.SeverityYellow, analysis.CategoryCombat,
				analysis.CodeHighsecOnly,
				"most active regions are all high-security space",
			).WithEvidence(map[string]any{"regions": top}))
		}
	}

	if cs.Kills90D >= activeCombatant90D {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityGreen, analysis.CategoryCombat,
			analysis.CodeActiveCombatant,
			fmt.Sprintf("%d kills in the last 90 days", cs.Kills90D),
		).WithEvidence(map[string]any{"kills_90d": cs.Kills90D}))
	}

	// Logistics pilots are always in demand.
	ships := cs.TopShips
	if len(ships) > topShipsConsidered {
		ships = ships[:topShipsConsidered]
	}
	var support []string
	for _, sh := range ships {
		if snap.IsSupportShip(sh) {
			support = append(support, sh)
		}
	}
	if len(support) > 0 {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityGreen, analysis.CategoryCombat,
			analysis.CodeSupportPilot,
			fmt.Sprintf("regularly flies support ships: %v", support),
		).WithEvidence(map[string]any{"ships": support}))
	}

	return flags, nil
}
