// Package rules provides operator-defined screening rules.
//
// Rules are simple predicates over the subject profile that emit an extra
// flag when they match. They let recruiters encode corp-specific policy
// ("no characters younger than 30 days", "no Capsuleer Day veterans")
// without a code change.
package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/skarkon/crowsnest/internal/analysis"
)

// Errors
var (
	ErrRuleNotFound = errors.New("rules: not found")
	ErrCodeTaken    = errors.New("rules: code already exists")
)

// Operators supported by a condition. Numeric fields take lt/gt/eq,
// list fields take in.
const (
	OpLessThan    = "lt"
	OpGreaterThan = "gt"
	OpEqual       = "eq"
	OpIn          = "in"
)

// Rule is a single operator-defined screening predicate.
type Rule struct {
	ID        string    `json:"id"`
	Code      string    `json:"code" validate:"required,min=3,max=64,uppercase"`
	Severity  string    `json:"severity" validate:"required,oneof=red yellow green"`
	Condition Condition `json:"condition"`
	Message   string    `json:"message" validate:"required,max=256"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Condition is a typed predicate over one profile field. Value is used by
// the numeric operators, Values by the membership operator.
type Condition struct {
	Field    string   `json:"field" validate:"required"`
	Operator string   `json:"operator" validate:"required,oneof=lt gt eq in"`
	Value    float64  `json:"value,omitempty"`
	Values   []string `json:"values,omitempty"`
}

// numericFields maps rule field names to profile accessors. The bool
// reports whether the value is present on this profile.
var numericFields = map[string]func(*analysis.Profile) (float64, bool){
	"account_age_days": func(p *analysis.Profile) (float64, bool) {
		return float64(p.AccountAgeDays), true
	},
	"security_status": func(p *analysis.Profile) (float64, bool) {
		return p.SecurityStatus, true
	},
	"corp_count": func(p *analysis.Profile) (float64, bool) {
		return float64(len(p.CorpHistory)), true
	},
	"kills_total": func(p *analysis.Profile) (float64, bool) {
		if p.CombatStats == nil {
			return 0, false
		}
		return float64(p.CombatStats.KillsTotal), true
	},
	"kills_90d": func(p *analysis.Profile) (float64, bool) {
		if p.CombatStats == nil {
			return 0, false
		}
		return float64(p.CombatStats.Kills90D), true
	},
	"deaths_total": func(p *analysis.Profile) (float64, bool) {
		if p.CombatStats == nil {
			return 0, false
		}
		return float64(p.CombatStats.DeathsTotal), true
	},
	"total_asset_value": func(p *analysis.Profile) (float64, bool) {
		if p.Assets == nil || p.Assets.TotalValue == nil {
			return 0, false
		}
		return *p.Assets.TotalValue, true
	},
	"suspected_alt_count": func(p *analysis.Profile) (float64, bool) {
		return float64(len(p.SuspectedAlts)), true
	},
	"declared_alt_count": func(p *analysis.Profile) (float64, bool) {
		return float64(len(p.DeclaredAlts)), true
	},
}

// listFields maps rule field names to profile string-list accessors.
var listFields = map[string]func(*analysis.Profile) []string{
	"top_ships": func(p *analysis.Profile) []string {
		if p.CombatStats == nil {
			return nil
		}
		return p.CombatStats.TopShips
	},
	"top_regions": func(p *analysis.Profile) []string {
		if p.CombatStats == nil {
			return nil
		}
		return p.CombatStats.TopRegions
	},
	"corp_names": func(p *analysis.Profile) []string {
		names := make([]string, 0, len(p.CorpHistory))
		for _, m := range p.CorpHistory {
			names = append(names, m.CorpName)
		}
		return names
	},
}

var validate = validator.New()

// Validate checks the rule's tags and the condition's field/operator
// pairing. Called at creation and update, never at evaluation time.
func (r *Rule) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	return r.Condition.validate()
}

func (c *Condition) validate() error {
	if _, ok := numericFields[c.Field]; ok {
		if c.Operator == OpIn {
			return fmt.Errorf("rules: field %q is numeric, operator %q needs a list field", c.Field, OpIn)
		}
		return nil
	}
	if _, ok := listFields[c.Field]; ok {
		if c.Operator != OpIn {
			return fmt.Errorf("rules: field %q is a list, only operator %q applies", c.Field, OpIn)
		}
		if len(c.Values) == 0 {
			return fmt.Errorf("rules: operator %q needs a non-empty values list", OpIn)
		}
		return nil
	}
	return fmt.Errorf("rules: unknown field %q", c.Field)
}

// Matches evaluates the condition against a profile. A field absent from
// the profile never matches.
func (c *Condition) Matches(p *analysis.Profile) (bool, error) {
	if get, ok := numericFields[c.Field]; ok {
		v, present := get(p)
		if !present {
			return false, nil
		}
		switch c.Operator {
		case OpLessThan:
			return v < c.Value, nil
		case OpGreaterThan:
			return v > c.Value, nil
		case OpEqual:
			return v == c.Value, nil
		default:
			return false, fmt.Errorf("rules: operator %q not valid for numeric field %q", c.Operator, c.Field)
		}
	}
	if get, ok := listFields[c.Field]; ok {
		if c.Operator != OpIn {
			return false, fmt.Errorf("rules: operator %q not valid for list field %q", c.Operator, c.Field)
		}
		have := get(p)
		for _, h := range have {
			for _, want := range c.Values {
				if h == want {
					return true, nil
				}
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("rules: unknown field %q", c.Field)
}

// FlagSeverity converts the stored severity string to the analysis type.
func (r *Rule) FlagSeverity() analysis.Severity {
	switch r.Severity {
	case "red":
		return analysis.SeverityRed
	case "yellow":
		return analysis.SeverityYellow
	default:
		return analysis.SeverityGreen
	}
}
