package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// stubEvaluator is a configurable fake for engine tests.
type stubEvaluator struct {
	name  string
	flags []Flag
	err   error
	panic bool
	block bool // wait for ctx cancellation before returning
}

func (s *stubEvaluator) Name() string          { return s.name }
func (s *stubEvaluator) RequiresAuxData() bool { return false }

func (s *stubEvaluator) Analyze(ctx context.Context, p *Profile) ([]Flag, error) {
	if s.panic {
		panic("evaluator exploded")
	}
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.flags, s.err
}

func testProfile() *Profile {
	return &Profile{
		CharacterID:   90210,
		CharacterName: "Test Pilot",
		CorpName:      "Test Corp",
	}
}

func TestEngine_Evaluate(t *testing.T) {
	reg := NewRegistry(
		&stubEvaluator{name: "a", flags: []Flag{
			NewFlag(SeverityRed, CategoryCorpHistory, CodeHostileCorpHistory, "hostile stint"),
		}},
		&stubEvaluator{name: "b", flags: []Flag{
			NewFlag(SeverityGreen, CategoryCombat, CodeActiveCombatant, "active"),
		}},
	)
	engine := NewEngine(reg)

	v, err := engine.Evaluate(context.Background(), testProfile(), "recruiter-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if v.CharacterID != 90210 || v.CharacterName != "Test Pilot" {
		t.Errorf("verdict should carry the profile identity, got %d/%q", v.CharacterID, v.CharacterName)
	}
	if !strings.HasPrefix(v.ID, "vrd_") {
		t.Errorf("verdict ID should have vrd_ prefix, got %q", v.ID)
	}
	if v.RequestedBy != "recruiter-1" {
		t.Errorf("RequestedBy = %q, want recruiter-1", v.RequestedBy)
	}
	if len(v.Flags) != 2 {
		t.Fatalf("expected 2 flags, got %d", len(v.Flags))
	}
	if v.RedCount != 1 || v.GreenCount != 1 || v.YellowCount != 0 {
		t.Errorf("counts = %dR/%dY/%dG, want 1R/0Y/1G", v.RedCount, v.YellowCount, v.GreenCount)
	}
	// One red: dragged to yellow regardless of greens.
	if v.OverallRisk != RiskYellow {
		t.Errorf("OverallRisk = %s, want yellow", v.OverallRisk)
	}
	if len(v.EvaluatorsRun) != 2 {
		t.Errorf("EvaluatorsRun = %v, want both evaluators", v.EvaluatorsRun)
	}
	if len(v.Errors) != 0 {
		t.Errorf("Errors should be empty, got %v", v.Errors)
	}
	if v.EvaluatedAt.IsZero() {
		t.Error("EvaluatedAt should be set")
	}
	if len(v.Recommendations) == 0 {
		t.Error("Recommendations should never be empty")
	}
}

func TestEngine_Evaluate_NilProfile(t *testing.T) {
	engine := NewEngine(NewRegistry())
	if _, err := engine.Evaluate(context.Background(), nil, ""); err == nil {
		t.Error("nil profile should be an error")
	}
}

func TestEngine_Evaluate_EmptyRegistry(t *testing.T) {
	engine := NewEngine(NewRegistry())
	v, err := engine.Evaluate(context.Background(), testProfile(), "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.OverallRisk != RiskUnknown {
		t.Errorf("no evaluators should yield unknown risk, got %s", v.OverallRisk)
	}
}

func TestEngine_Evaluate_FailureIsolation(t *testing.T) {
	reg := NewRegistry(
		&stubEvaluator{name: "broken", err: errors.New("killboard unreachable")},
		&stubEvaluator{name: "working", flags: []Flag{
			NewFlag(SeverityYellow, CategoryActivity, CodeLowEngagement, "low"),
		}},
	)
	engine := NewEngine(reg)

	v, err := engine.Evaluate(context.Background(), testProfile(), "")
	if err != nil {
		t.Fatalf("a failing evaluator must not fail the run: %v", err)
	}

	if len(v.Errors) != 1 {
		t.Fatalf("expected 1 error entry, got %v", v.Errors)
	}
	if !strings.Contains(v.Errors[0], "broken") || !strings.Contains(v.Errors[0], "killboard unreachable") {
		t.Errorf("error entry should name the evaluator and cause, got %q", v.Errors[0])
	}
	if len(v.EvaluatorsRun) != 1 || v.EvaluatorsRun[0] != "working" {
		t.Errorf("EvaluatorsRun should list only successful evaluators, got %v", v.EvaluatorsRun)
	}
	if len(v.Flags) != 1 {
		t.Errorf("failed evaluator must contribute zero flags, got %d", len(v.Flags))
	}
}

func TestEngine_Evaluate_PanicRecovery(t *testing.T) {
	reg := NewRegistry(
		&stubEvaluator{name: "bomber", panic: true},
		&stubEvaluator{name: "calm", flags: []Flag{
			NewFlag(SeverityGreen, CategoryCorpHistory, CodeCleanHistory, "clean"),
		}},
	)
	engine := NewEngine(reg)

	v, err := engine.Evaluate(context.Background(), testProfile(), "")
	if err != nil {
		t.Fatalf("a panicking evaluator must not fail the run: %v", err)
	}
	if len(v.Errors) != 1 || !strings.Contains(v.Errors[0], "panic") {
		t.Errorf("panic should surface as an error entry, got %v", v.Errors)
	}
	if len(v.Flags) != 1 {
		t.Errorf("the healthy evaluator's flags should survive, got %d", len(v.Flags))
	}
}

func TestEngine_Evaluate_ContextCancellation(t *testing.T) {
	reg := NewRegistry(&stubEvaluator{name: "slow", block: true})
	engine := NewEngine(reg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	v, err := engine.Evaluate(ctx, testProfile(), "")
	if err == nil {
		t.Fatal("cancelled context should abort the run")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if v != nil {
		t.Error("no partial verdict should be returned on cancellation")
	}
}

func TestEngine_Evaluate_Deterministic(t *testing.T) {
	// Flags must come back in registration order on every run, even though
	// evaluators execute concurrently.
	reg := NewRegistry(
		&stubEvaluator{name: "first", flags: []Flag{NewFlag(SeverityGreen, CategoryGeneral, "F1", "f1")}},
		&stubEvaluator{name: "second", flags: []Flag{NewFlag(SeverityGreen, CategoryGeneral, "F2", "f2")}},
		&stubEvaluator{name: "third", flags: []Flag{NewFlag(SeverityGreen, CategoryGeneral, "F3", "f3")}},
	)
	engine := NewEngine(reg)

	for i := 0; i < 20; i++ {
		v, err := engine.Evaluate(context.Background(), testProfile(), "")
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if v.Flags[0].Code != "F1" || v.Flags[1].Code != "F2" || v.Flags[2].Code != "F3" {
			t.Fatalf("run %d: flags out of registration order: %v", i, v.Flags)
		}
	}
}

func TestRegistry_DuplicateNamesIgnored(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubEvaluator{name: "dup"})
	reg.Register(&stubEvaluator{name: "dup"})
	reg.Register(nil)

	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1 (duplicates and nil ignored)", reg.Len())
	}
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	reg := NewRegistry(&stubEvaluator{name: "a"}, &stubEvaluator{name: "b"})

	all := reg.All()
	all[0] = nil
	if reg.All()[0] == nil {
		t.Error("All should return a copy, not the backing slice")
	}
}
