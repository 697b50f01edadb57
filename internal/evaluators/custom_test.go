package evaluators

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/skarkon/crowsnest/internal/analysis"
	"github.com/skarkon/crowsnest/internal/rules"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ruleStore(t *testing.T, rs ...*rules.Rule) *rules.MemoryStore {
	t.Helper()
	store := rules.NewMemoryStore()
	for _, r := range rs {
		if err := store.Create(context.Background(), r); err != nil {
			t.Fatalf("seed rule %s: %v", r.Code, err)
		}
	}
	return store
}

type failingRuleStore struct {
	rules.Store
	err error
}

func (f *failingRuleStore) ListEnabled(context.Context) ([]*rules.Rule, error) {
	return nil, f.err
}

func TestCustom_NoRules(t *testing.T) {
	e := NewCustom(ruleStore(t), discardLogger())
	flags, err := e.Analyze(context.Background(), &analysis.Profile{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if flags != nil {
		t.Errorf("empty rule store should yield no flags, got %v", codes(flags))
	}
}

func TestCustom_MatchingRule(t *testing.T) {
	e := NewCustom(ruleStore(t, &rules.Rule{
		ID:       "rul_1",
		Code:     "TOO_YOUNG",
		Severity: "yellow",
		Condition: rules.Condition{
			Field: "account_age_days", Operator: rules.OpLessThan, Value: 30,
		},
		Message: "character younger than corp minimum",
		Enabled: true,
	}), discardLogger())

	p := &analysis.Profile{AccountAgeDays: 10}
	flags, err := e.Analyze(context.Background(), p)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	f := requireFlag(t, flags, "TOO_YOUNG")
	if f.Severity != analysis.SeverityYellow {
		t.Errorf("flag severity = %s, want the rule's severity", f.Severity)
	}
	if f.Reason != "character younger than corp minimum" {
		t.Errorf("flag reason = %q, want the rule message", f.Reason)
	}
	if f.Evidence["rule_id"] != "rul_1" {
		t.Errorf("rule_id evidence = %v, want rul_1", f.Evidence["rule_id"])
	}
	if f.Evidence["field"] != "account_age_days" || f.Evidence["operator"] != rules.OpLessThan {
		t.Errorf("evidence should name the matched condition, got %v", f.Evidence)
	}
}

func TestCustom_NonMatchingRule(t *testing.T) {
	e := NewCustom(ruleStore(t, &rules.Rule{
		ID:       "rul_1",
		Code:     "TOO_YOUNG",
		Severity: "yellow",
		Condition: rules.Condition{
			Field: "account_age_days", Operator: rules.OpLessThan, Value: 30,
		},
		Message: "character younger than corp minimum",
		Enabled: true,
	}), discardLogger())

	p := &analysis.Profile{AccountAgeDays: 400}
	flags, err := e.Analyze(context.Background(), p)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	requireNoFlag(t, flags, "TOO_YOUNG")
}

func TestCustom_DisabledRuleSkipped(t *testing.T) {
	e := NewCustom(ruleStore(t, &rules.Rule{
		ID:       "rul_1",
		Code:     "TOO_YOUNG",
		Severity: "yellow",
		Condition: rules.Condition{
			Field: "account_age_days", Operator: rules.OpLessThan, Value: 30,
		},
		Message: "character younger than corp minimum",
	}), discardLogger())

	p := &analysis.Profile{AccountAgeDays: 10}
	flags, _ := e.Analyze(context.Background(), p)
	requireNoFlag(t, flags, "TOO_YOUNG")
}

func TestCustom_ListRule(t *testing.T) {
	e := NewCustom(ruleStore(t, &rules.Rule{
		ID:       "rul_1",
		Code:     "KNOWN_SPY_CORP",
		Severity: "red",
		Condition: rules.Condition{
			Field: "corp_names", Operator: rules.OpIn,
			Values: []string{"Infiltrators Inc"},
		},
		Message: "member of a known infiltration corp",
		Enabled: true,
	}), discardLogger())

	p := &analysis.Profile{CorpHistory: []analysis.CorpMembership{
		{CorpID: 1, CorpName: "Infiltrators Inc"},
	}}
	flags, _ := e.Analyze(context.Background(), p)

	f := requireFlag(t, flags, "KNOWN_SPY_CORP")
	if f.Severity != analysis.SeverityRed {
		t.Errorf("flag severity = %s, want red", f.Severity)
	}
}

func TestCustom_StoreErrorPropagated(t *testing.T) {
	storeErr := errors.New("connection reset")
	e := NewCustom(&failingRuleStore{err: storeErr}, discardLogger())

	flags, err := e.Analyze(context.Background(), &analysis.Profile{})
	if flags != nil {
		t.Errorf("store failure should yield no flags, got %v", codes(flags))
	}
	if !errors.Is(err, storeErr) {
		t.Fatalf("Analyze should wrap the store error, got %v", err)
	}
	if !strings.Contains(err.Error(), "list rules") {
		t.Errorf("error should name the failing step, got %q", err.Error())
	}
}

func TestCustom_BrokenRuleDoesNotSinkOthers(t *testing.T) {
	// A rule referencing a field this build no longer knows about must be
	// skipped with a warning, not fail the whole evaluator.
	e := NewCustom(ruleStore(t,
		&rules.Rule{
			ID:        "rul_broken",
			Code:      "LEGACY_RULE",
			Severity:  "yellow",
			Condition: rules.Condition{Field: "retired_field", Operator: rules.OpGreaterThan, Value: 1},
			Message:   "legacy",
			Enabled:   true,
		},
		&rules.Rule{
			ID:        "rul_ok",
			Code:      "LOW_SEC_STATUS",
			Severity:  "yellow",
			Condition: rules.Condition{Field: "security_status", Operator: rules.OpLessThan, Value: -2},
			Message:   "security status below corp floor",
			Enabled:   true,
		},
	), discardLogger())

	p := &analysis.Profile{SecurityStatus: -5.0}
	flags, err := e.Analyze(context.Background(), p)
	if err != nil {
		t.Fatalf("broken rule should not fail the evaluator: %v", err)
	}
	requireFlag(t, flags, "LOW_SEC_STATUS")
	requireNoFlag(t, flags, "LEGACY_RULE")
}
