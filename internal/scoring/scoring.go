// Package scoring defines the contract for the optional trained risk model
// and a file-backed implementation. The engine never trains anything; it
// only consumes a scorer that maps a profile feature vector to a discrete
// risk class with a class probability.
package scoring

import (
	"github.com/skarkon/crowsnest/internal/analysis"
)

// Class is the model's discrete prediction.
type Class string

const (
	ClassGreen  Class = "green"
	ClassYellow Class = "yellow"
	ClassRed    Class = "red"
)

// Scorer is the model-scoring collaborator. Available reports whether a
// trained model is loaded; Predict must only be called when it returns true.
type Scorer interface {
	Available() bool
	Predict(features []float64) (Class, float64, error)
}

// FeatureCount is the fixed width of the feature vector.
const FeatureCount = 16

// Features derives the model input vector from a profile. The layout is
// frozen: retraining requires the same ordering.
func Features(p *analysis.Profile) []float64 {
	f := make([]float64, FeatureCount)

	f[0] = float64(p.AccountAgeDays)
	f[1] = p.SecurityStatus
	f[2] = float64(len(p.CorpHistory))

	hostile := 0
	npc := 0
	for _, m := range p.CorpHistory {
		if m.IsHostile {
			hostile++
		}
		if m.IsNPC {
			npc++
		}
	}
	f[3] = float64(hostile)
	f[4] = float64(npc)

	if cs := p.CombatStats; cs != nil {
		f[5] = float64(cs.KillsTotal)
		f[6] = float64(cs.Kills90D)
		f[7] = float64(cs.DeathsTotal)
		f[8] = float64(cs.AwoxKills)
		f[9] = float64(cs.SoloKills)
	}

	if a := p.Activity; a != nil {
		if a.ActiveDaysPerWeek != nil {
			f[10] = *a.ActiveDaysPerWeek
		}
		f[11] = float64(len(a.PeakHours))
	}

	if as := p.Assets; as != nil {
		if as.TotalValue != nil {
			f[12] = *as.TotalValue / 1e9 // billions, keeps magnitudes sane
		}
		f[13] = float64(as.CapitalShips + as.Supercapitals)
	}

	f[14] = float64(len(p.SuspectedAlts))
	f[15] = float64(len(p.DeclaredAlts))

	return f
}
