package evaluators

import (
	"context"
	"fmt"
	"time"

	"github.com/skarkon/crowsnest/internal/analysis"
)

const (
	inactivityLong  = 90 * 24 * time.Hour
	inactivityShort = 30 * 24 * time.Hour

	lowEngagementDays  = 2.0
	highEngagementDays = 4.0
)

// Activity infers the character's timezone from peak activity hours and
// classifies engagement level and inactivity.
type Activity struct {
	targetTimezone string // "EU", "US", "AU" or "" for no check
	now            func() time.Time
}

// NewActivity creates the activity/timezone evaluator. targetTimezone is the
// recruiting corp's primary timezone; empty disables the mismatch check.
func NewActivity(targetTimezone string) *Activity {
	return &Activity{targetTimezone: targetTimezone, now: time.Now}
}

func (e *Activity) Name() string          { return "activity" }
func (e *Activity) RequiresAuxData() bool { return false }

func (e *Activity) Analyze(ctx context.Context, p *analysis.Profile) ([]analysis.Flag, error) {
	act := p.Activity
	if act == nil {
		return nil, nil
	}

	var flags []analysis.Flag

	// Timezone inference. Note: unlike the combat evaluator's low-activity
	// check, there is no new-character exemption here: a character with
	// peak hours gets classified even if it has no kill history.
	inferred := inferTimezone(act)
	if e.targetTimezone != "" && inferred != "" && inferred != e.targetTimezone {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityYellow, analysis.CategoryActivity,
			analysis.CodeTimezoneMismatch,
			fmt.Sprintf("active in %s hours but corp operates in %s", inferred, e.targetTimezone),
		).WithConfidence(0.6).WithEvidence(map[string]any{
			"inferred": inferred,
			"target":   e.targetTimezone,
		}))
	}

	// Inactivity, from whichever PvP timestamp is most recent.
	if last := lastPvPActivity(act); last != nil {
		idle := e.now().Sub(*last)
		days := int(idle.Hours() / 24)
		switch {
		case idle >= inactivityLong:
			flags = append(flags, analysis.NewFlag(
				analysis.SeverityYellow, analysis.CategoryActivity,
				analysis.CodeExtendedInactivity,
				fmt.Sprintf("no PvP activity for %d days", days),
			).WithConfidence(0.8).WithEvidence(map[string]any{"idle_days": days}))
		case idle >= inactivityShort:
			flags = append(flags, analysis.NewFlag(
				analysis.SeverityYellow, analysis.CategoryActivity,
				analysis.CodeRecentInactivity,
				fmt.Sprintf("no PvP activity for %d days", days),
			).WithConfidence(0.6).WithEvidence(map[string]any{"idle_days": days}))
		}
	}

	if act.Trend == "declining" || act.Trend == "inactive" {
		flags = append(flags, analysis.NewFlag(
			analysis.SeverityYellow, analysis.CategoryActivity,
			analysis.CodeDecliningActivity,
			fmt.Sprintf("activity trend is %q", act.Trend),
		).WithEvidence(map[string]any{"trend": act.Trend}))
	}

	if act.ActiveDaysPerWeek != nil {
		switch d := *act.ActiveDaysPerWeek; {
		case d < lowEngagementDays:
			flags = append(flags, analysis.NewFlag(
				analysis.SeverityYellow, analysis.CategoryActivity,
				analysis.CodeLowEngagement,
				fmt.Sprintf("active only %.1f days per week", d),
			).WithEvidence(map[string]any{"active_days_per_week": d}))
		case d >= highEngagementDays:
			flags = append(flags, analysis.NewFlag(
				analysis.SeverityGreen, analysis.CategoryActivity,
				analysis.CodeConsistentActivity,
				fmt.Sprintf("active %.1f days per week", d),
			).WithEvidence(map[string]any{"active_days_per_week": d}))
		}
	}

	return flags, nil
}

// inferTimezone buckets the average of the three most frequent activity
// hours (UTC). 17-23 is EU prime, 0-6 US, 8-14 AU; anything else stays
// unclassified. The assembler's own primary_timezone wins when no peak
// hours are available.
func inferTimezone(act *analysis.ActivitySummary) string {
	hours := act.PeakHours
	if len(hours) == 0 {
		return act.PrimaryTimezone
	}
	if len(hours) > 3 {
		hours = hours[:3]
	}

	sum := 0
	for _, h := range hours {
		sum += h
	}
	avg := float64(sum) / float64(len(hours))

	switch {
	case avg >= 17 && avg <= 23:
		return "EU"
	case avg >= 0 && avg <= 6:
		return "US"
	case avg >= 8 && avg <= 14:
		return "AU"
	default:
		return ""
	}
}

// lastPvPActivity returns the most recent of the kill/loss timestamps.
func lastPvPActivity(act *analysis.ActivitySummary) *time.Time {
	last := act.LastKillDate
	if act.LastLossDate != nil && (last == nil || act.LastLossDate.After(*last)) {
		last = act.LastLossDate
	}
	return last
}
