package evaluators

import (
	"context"
	"fmt"

	"github.com/skarkon/crowsnest/internal/analysis"
	"github.com/skarkon/crowsnest/internal/watchlist"
)

const (
	altHostileMinConf  = 0.5
	altNetworkMinConf  = 0.8
	altNetworkMinCount = 3
	transparencyGapMin = 2
	altRatioMultiplier = 2
)

// Social reconciles the alt-detection results against the self-reported alt
// list and the hostile watchlist.
type Social struct {
	watch watchlist.Provider
}

// NewSocial creates the social/alt-network evaluator.
func NewSocial(watch watchlist.Provider) *Social {
	return &Social{watch: watch}
}

func (e *Social) Name() string          { return "social" }
func (e *Social) RequiresAuxData() bool { return true }

func (e *Social) Analyze(ctx context.Context, p *analysis.Profile) ([]analysis.Flag, error) {
	suspected := p.SuspectedAlts
	declared := len(p.DeclaredAlts)
	if len(suspected) == 0 && declared == 0 {
		return nil, nil
	}

	snap := e.watch.Current()
	var flags []analysis.Flag

	// A credible alt inside a hostile org is the classic spy setup.
	for _, alt := range suspected {
		if alt.Confidence < altHostileMinConf {
			continue
		}
		if snap.IsHostileEntity(alt.CorpID, alt.AllianceID) {
			flags = append(flags, analysis.NewFlag(
				analysis.SeverityRed, analysis.CategoryAlts,
				analysis.CodeHostileAlt,
				fmt.Sprintf("suspected alt %q resolves to a hostile organization", alt.Name),
			).WithConfidence(alt.Confidence).WithEvidence(map[string]any{
				"alt_name":    alt.Name,
				"method":      alt.Method,
				"corp_id":     alt.CorpID,
				"alliance_id": alt.AllianceID,
			}))
			break // one RED for the network; individual alts are in evidence
		}
	}

	highConf := 0
	for _, alt := range suspected {
		if alt.Confidence >= altNetworkMinConf {
			highConf++
		}
	}

	// One transparency caution, first matching condition wins.
	switch {
	case highConf >= altNetworkMinCount:
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityYellow, analysis.CategoryAlts,
			analysis.CodeUndeclaredNetwork,
			fmt.Sprintf("%d high-confidence suspected alts detected", highConf),
		).WithEvidence(map[string]any{"high_confidence_alts": highConf}))
	case len(suspected) >= transparencyGapMin && declared == 0:
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityYellow, analysis.CategoryAlts,
			analysis.CodeTransparencyGap,
			fmt.Sprintf("%d suspected alts but none declared", len(suspected)),
		).WithEvidence(map[string]any{"suspected": len(suspected), "declared": declared}))
	case len(suspected) > altRatioMultiplier*declared:
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityYellow, analysis.CategoryAlts,
			analysis.CodeAltRatioMismatch,
			fmt.Sprintf("%d suspected alts against %d declared", len(suspected), declared),
		).WithEvidence(map[string]any{"suspected": len(suspected), "declared": declared}))
	}

	// Self-consistent disclosure is a good sign.
	if declared >= 1 && len(suspected) <= declared+1 {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityGreen, analysis.CategoryAlts,
			analysis.CodeDeclaredAlts,
			fmt.Sprintf("%d declared alt(s) consistent with detection results", declared),
		).WithEvidence(map[string]any{"declared": declared, "suspected": len(suspected)}))
	}

	return flags, nil
}
