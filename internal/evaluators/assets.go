package evaluators

import (
	"context"
	"fmt"

	"github.com/skarkon/crowsnest/internal/analysis"
	"github.com/skarkon/crowsnest/internal/watchlist"
)

const (
	unexplainedWealthISK  = 100_000_000_000.0 // 100B
	unexplainedWealthDays = 180
)

// Assets inspects what the character owns and where it lives.
type Assets struct {
	watch watchlist.Provider
}

// NewAssets creates the asset evaluator.
func NewAssets(watch watchlist.Provider) *Assets {
	return &Assets{watch: watch}
}

func (e *Assets) Name() string          { return "assets" }
func (e *Assets) RequiresAuxData() bool { return true }

func (e *Assets) Analyze(ctx context.Context, p *analysis.Profile) ([]analysis.Flag, error) {
	a := p.Assets
	if a == nil {
		return nil, nil
	}

	snap := e.watch.Current()
	var flags []analysis.Flag

	// Assets staged in hostile space: hard to move, and a reason to keep
	// good standing with the hostiles.
	var hostileRegions []string
	for _, r := range a.PrimaryRegions {
		if snap.IsHostileRegion(r) {
			hostileRegions = append(hostileRegions, r)
		}
	}
	if len(hostileRegions) > 0 {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityYellow, analysis.CategoryAssets,
			analysis.CodeAssetsInHostileSpace,
			fmt.Sprintf("assets staged in hostile-controlled regions: %v", hostileRegions),
		).WithEvidence(map[string]any{"regions": hostileRegions}))
	}

	// A young account holding enormous wealth usually means a bought
	// character or outside funding.
	if a.TotalValue != nil && *a.TotalValue >= unexplainedWealthISK && p.AccountAgeDays < unexplainedWealthDays {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityYellow, analysis.CategoryAssets,
			analysis.CodeUnexplainedWealth,
			fmt.Sprintf("%.0f ISK in assets on a %d-day-old account", *a.TotalValue, p.AccountAgeDays),
		).WithEvidence(map[string]any{
			"total_value":      *a.TotalValue,
			"account_age_days": p.AccountAgeDays,
		}))
	}

	switch {
	case a.Supercapitals >= 1:
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityGreen, analysis.CategoryAssets,
			analysis.CodeSupercapitalPilot,
			fmt.Sprintf("owns %d supercapital(s)", a.Supercapitals),
		).WithEvidence(map[string]any{"supercapitals": a.Supercapitals}))
	case a.CapitalShips >= 1:
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityGreen, analysis.CategoryAssets,
			analysis.CodeCapitalPilot,
			fmt.Sprintf("owns %d capital ship(s)", a.CapitalShips),
		).WithEvidence(map[string]any{"capital_ships": a.CapitalShips}))
	}

	if a.HasStructures {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityGreen, analysis.CategoryAssets,
			analysis.CodeStructureOwner,
			"owns deployed structures",
		))
	}

	return flags, nil
}
