package analysis

// Aggregate computes the overall risk level and confidence from the union of
// all flags. It is a pure function of the flag multiset: order-independent
// and deterministic.
//
// Precedence is deliberate and asymmetric: a single RED flag drags any number
// of GREEN flags down to YELLOW, but a pile of GREENs can only outweigh
// isolated YELLOWs. Negative evidence is trusted more than positive evidence.
func Aggregate(flags []Flag) (RiskLevel, float64) {
	red, yellow, green := SeverityCounts(flags)

	switch {
	case red >= 2:
		return RiskRed, min(0.9, 0.5+0.1*float64(red))
	case red == 1:
		return RiskYellow, 0.7
	case yellow >= 3:
		return RiskYellow, 0.6
	case yellow >= 1:
		if green >= 3 {
			// Strong positive signal outweighs isolated caution.
			return RiskGreen, 0.6
		}
		return RiskYellow, 0.5
	case green >= 2:
		return RiskGreen, min(0.85, 0.5+0.1*float64(green))
	default:
		return RiskUnknown, 0.3
	}
}

// recommendationsByCode maps flag codes to canned advisory strings.
var recommendationsByCode = map[string]string{
	CodeHostileCorpHistory:   "Verify the reason for leaving the hostile organization before proceeding.",
	CodeRapidCorpHop:         "Interview about the frequent corp changes; rapid hopping often precedes infiltration.",
	CodeShortCurrentTenure:   "Ask why the applicant is leaving their current corp after such a short stay.",
	CodeNPCParking:           "Extended NPC-corp stints can hide activity on other characters; ask what they were doing.",
	CodeAwoxHistory:          "Confirm the circumstances of the same-corp kills with the applicant's former leadership.",
	CodeRMTPattern:           "Escalate to leadership: the wallet shows a fixed-amount, fixed-cadence transfer pattern consistent with RMT.",
	CodeLargePreJoinTransfer: "Ask about the large transfers received shortly before joining their current corp.",
	CodeTimezoneMismatch:     "Applicant's active hours do not match the corp's primary timezone; confirm expectations.",
	CodeExtendedInactivity:   "No PvP activity for over 90 days; confirm the applicant intends to be active.",
	CodeHostileAlt:           "A suspected alt resolves to a hostile organization; require full API/alt disclosure before acceptance.",
	CodeUndeclaredNetwork:    "Several high-confidence undeclared alts detected; request a complete character list.",
	CodeTransparencyGap:      "Suspected alts exist but none were declared; request a complete character list.",
	CodeHostileStandings:     "Positive standings toward hostile entities; ask the applicant to explain the relationship.",
	CodeUnexplainedWealth:    "Asset value is unusually high for the account age; ask where the wealth came from.",
	CodeHighsecOnly:          "Combat history is exclusively high-sec; assess fit for the corp's area of operations.",
}

// Summary sentences prepended to the recommendation list, one per risk level.
var summaryByRisk = map[RiskLevel]string{
	RiskRed:     "High risk applicant: recommend rejection or escalation to senior leadership.",
	RiskYellow:  "Moderate risk applicant: recommend a manual review of the flagged items before acceptance.",
	RiskGreen:   "Low risk applicant: proceed with standard onboarding.",
	RiskUnknown: "Insufficient data for a risk determination: gather more history before deciding.",
}

// Recommendations builds the ordered advisory list for a verdict: a summary
// line for the overall risk, then one line per flag code with a canned
// recommendation (deduplicated, in first-seen flag order), or a single
// neutral line when no code matches.
func Recommendations(overall RiskLevel, flags []Flag) []string {
	out := []string{summaryByRisk[overall]}

	seen := make(map[string]bool)
	matched := false
	for _, f := range flags {
		rec, ok := recommendationsByCode[f.Code]
		if !ok || seen[f.Code] {
			continue
		}
		seen[f.Code] = true
		matched = true
		out = append(out, rec)
	}

	if !matched {
		out = append(out, "No specific concerns identified.")
	}
	return out
}
