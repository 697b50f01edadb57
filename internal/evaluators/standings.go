package evaluators

import (
	"context"
	"fmt"

	"github.com/skarkon/crowsnest/internal/analysis"
	"github.com/skarkon/crowsnest/internal/watchlist"
)

// Standings inspects the raw standings/contacts export for relationships
// with hostile entities.
type Standings struct {
	watch watchlist.Provider
}

// NewStandings creates the standings evaluator.
func NewStandings(watch watchlist.Provider) *Standings {
	return &Standings{watch: watch}
}

func (e *Standings) Name() string          { return "standings" }
func (e *Standings) RequiresAuxData() bool { return true }

func (e *Standings) Analyze(ctx context.Context, p *analysis.Profile) ([]analysis.Flag, error) {
	sd := p.Standings
	if sd == nil {
		return nil, nil
	}

	snap := e.watch.Current()

	positive := 0 // positive regard for hostile entities
	negative := 0 // declared enmity (standing <= -5)
	var hostileIDs []int64

	consider := func(entityID int64, standing float64) {
		// The export doesn't distinguish corp vs alliance IDs reliably, so
		// check both sets.
		if !snap.IsHostileCorp(entityID) && !snap.IsHostileAlliance(entityID) {
			return
		}
		switch {
		case standing > 0:
			positive++
			hostileIDs = append(hostileIDs, entityID)
		case standing <= -5:
			negative++
		}
	}

	for _, s := range sd.Standings {
		consider(s.EntityID, s.Standing)
	}
	for _, c := range sd.Contacts {
		consider(c.ContactID, c.Standing)
	}

	var flags []analysis.Flag

	if positive > 0 {
		conf := 0.7
		if positive >= 3 {
			conf = 0.9
		}
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityRed, analysis.CategoryStandings,
			analysis.CodeHostileStandings,
			fmt.Sprintf("%d positive standing(s) toward hostile entities", positive),
		).WithConfidence(conf).WithEvidence(map[string]any{
			"positive_entries": positive,
			"entity_ids":       hostileIDs,
		}))
	} else if negative > 0 {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityGreen, analysis.CategoryStandings,
			analysis.CodeHostileEnemy,
			fmt.Sprintf("%d strongly negative standing(s) toward hostile entities", negative),
		).WithEvidence(map[string]any{"negative_entries": negative}))
	}

	return flags, nil
}
