// Package analysis implements the character vetting risk engine.
//
// A Subject Profile (facts about one character) is fanned out to a set of
// independent evaluators. Each evaluator emits zero or more flags: weighted,
// evidence-backed signals. The engine aggregates the union of all flags into
// a single Verdict: an overall risk level, a confidence score, and a list of
// human-readable recommendations.
package analysis

import "time"

// Severity is the weight of a single flag.
type Severity string

const (
	SeverityRed    Severity = "red"    // strong negative signal
	SeverityYellow Severity = "yellow" // caution
	SeverityGreen  Severity = "green"  // positive signal
)

// RiskLevel is the aggregated risk of a whole Verdict.
type RiskLevel string

const (
	RiskRed     RiskLevel = "red"
	RiskYellow  RiskLevel = "yellow"
	RiskGreen   RiskLevel = "green"
	RiskUnknown RiskLevel = "unknown"
)

// Category tags which evaluator domain produced a flag.
type Category string

const (
	CategoryCorpHistory Category = "corp_history"
	CategoryCombat      Category = "combat"
	CategoryActivity    Category = "activity"
	CategoryAssets      Category = "assets"
	CategoryFinance     Category = "finance"
	CategoryStandings   Category = "standings"
	CategoryAlts        Category = "alts"
	CategoryGeneral     Category = "general"
)

// Well-known flag codes. The custom-rule evaluator may mint codes outside
// this list; everything here has a canned recommendation attached.
const (
	CodeHostileCorpHistory   = "HOSTILE_CORP_HISTORY"
	CodeRapidCorpHop         = "RAPID_CORP_HOP"
	CodeShortCurrentTenure   = "SHORT_CURRENT_TENURE"
	CodeNPCParking           = "NPC_PARKING"
	CodeLongTenure           = "LONG_TENURE"
	CodeCleanHistory         = "CLEAN_HISTORY"
	CodeAwoxHistory          = "AWOX_HISTORY"
	CodeLowCombatActivity    = "LOW_COMBAT_ACTIVITY"
	CodeHighsecOnly          = "HIGHSEC_ONLY"
	CodeActiveCombatant      = "ACTIVE_COMBATANT"
	CodeSupportPilot         = "SUPPORT_PILOT"
	CodeRMTPattern           = "RMT_PATTERN"
	CodeLargePreJoinTransfer = "LARGE_PRE_JOIN_TRANSFER"
	CodeTimezoneMismatch     = "TIMEZONE_MISMATCH"
	CodeExtendedInactivity   = "EXTENDED_INACTIVITY"
	CodeRecentInactivity     = "RECENT_INACTIVITY"
	CodeDecliningActivity    = "DECLINING_ACTIVITY"
	CodeLowEngagement        = "LOW_ENGAGEMENT"
	CodeConsistentActivity   = "CONSISTENT_ACTIVITY"
	CodeAssetsInHostileSpace = "ASSETS_IN_HOSTILE_SPACE"
	CodeUnexplainedWealth    = "UNEXPLAINED_WEALTH"
	CodeSupercapitalPilot    = "SUPERCAPITAL_PILOT"
	CodeCapitalPilot         = "CAPITAL_PILOT"
	CodeStructureOwner       = "STRUCTURE_OWNER"
	CodeHostileStandings     = "HOSTILE_STANDINGS"
	CodeHostileEnemy         = "HOSTILE_ENEMY"
	CodeHostileAlt           = "HOSTILE_ALT"
	CodeUndeclaredNetwork    = "UNDECLARED_ALT_NETWORK"
	CodeTransparencyGap      = "TRANSPARENCY_GAP"
	CodeAltRatioMismatch     = "ALT_RATIO_MISMATCH"
	CodeDeclaredAlts         = "DECLARED_ALTS"
	CodeModelAssessment      = "MODEL_ASSESSMENT"
)

// Flag is one piece of evidence produced by an evaluator. Flags are value
// objects: construct with NewFlag, derive variants with the With* methods,
// never mutate in place.
type Flag struct {
	Severity   Severity       `json:"severity"`
	Category   Category       `json:"category"`
	Code       string         `json:"code"`
	Reason     string         `json:"reason"`
	Evidence   map[string]any `json:"evidence,omitempty"`
	Confidence float64        `json:"confidence"`
}

// NewFlag creates a flag with the default confidence of 1.0.
func NewFlag(sev Severity, cat Category, code, reason string) Flag {
	return Flag{
		Severity:   sev,
		Category:   cat,
		Code:       code,
		Reason:     reason,
		Confidence: 1.0,
	}
}

// WithConfidence returns a copy of the flag with the given confidence,
// clamped to [0, 1].
func (f Flag) WithConfidence(c float64) Flag {
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	f.Confidence = c
	return f
}

// WithEvidence returns a copy of the flag with the supporting data attached.
// The map is copied so callers can't mutate the flag afterwards.
func (f Flag) WithEvidence(evidence map[string]any) Flag {
	cp := make(map[string]any, len(evidence))
	for k, v := range evidence {
		cp[k] = v
	}
	f.Evidence = cp
	return f
}

// Verdict is the aggregated output of one analysis run. It is constructed
// once by the engine and never mutated afterwards.
type Verdict struct {
	ID            string    `json:"id"`
	CharacterID   int64     `json:"characterId"`
	CharacterName string    `json:"characterName"`
	OverallRisk   RiskLevel `json:"overallRisk"`
	Confidence    float64   `json:"confidence"`

	Flags       []Flag `json:"flags"`
	RedCount    int    `json:"redCount"`
	YellowCount int    `json:"yellowCount"`
	GreenCount  int    `json:"greenCount"`

	Recommendations []string `json:"recommendations"`
	EvaluatorsRun   []string `json:"evaluatorsRun"`
	Errors          []string `json:"errors,omitempty"`

	RequestedBy string    `json:"requestedBy,omitempty"`
	DurationMS  int64     `json:"durationMs"`
	EvaluatedAt time.Time `json:"evaluatedAt"`
}

// SeverityCounts tallies flags by severity. The sum of the three counts
// always equals len(flags).
func SeverityCounts(flags []Flag) (red, yellow, green int) {
	for _, f := range flags {
		switch f.Severity {
		case SeverityRed:
			red++
		case SeverityYellow:
			yellow++
		case SeverityGreen:
			green++
		}
	}
	return red, yellow, green
}
