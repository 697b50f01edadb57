package evaluators

import (
	"context"
	"testing"

	"github.com/skarkon/crowsnest/internal/analysis"
)

func TestSocial_NoAltData(t *testing.T) {
	e := NewSocial(testWatch())
	flags, err := e.Analyze(context.Background(), &analysis.Profile{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if flags != nil {
		t.Errorf("no alt data should yield no flags, got %v", codes(flags))
	}
}

func TestSocial_HostileAlt(t *testing.T) {
	e := NewSocial(testWatch())
	p := &analysis.Profile{
		SuspectedAlts: []analysis.SuspectedAlt{
			{CharacterID: 1, Name: "Spy Alt", Method: "login_correlation", Confidence: 0.9, CorpID: 666},
		},
		DeclaredAlts: []string{"Spy Alt"},
	}

	flags, _ := e.Analyze(context.Background(), p)

	f := requireFlag(t, flags, analysis.CodeHostileAlt)
	if f.Severity != analysis.SeverityRed {
		t.Errorf("hostile alt should be red, got %s", f.Severity)
	}
	if f.Confidence != 0.9 {
		t.Errorf("flag confidence should track the detection confidence, got %v", f.Confidence)
	}
}

func TestSocial_HostileAltByAlliance(t *testing.T) {
	e := NewSocial(testWatch())
	p := &analysis.Profile{
		SuspectedAlts: []analysis.SuspectedAlt{
			{CharacterID: 1, Name: "Alliance Alt", Confidence: 0.7, AllianceID: 999},
		},
	}

	flags, _ := e.Analyze(context.Background(), p)
	requireFlag(t, flags, analysis.CodeHostileAlt)
}

func TestSocial_LowConfidenceHostileAltIgnored(t *testing.T) {
	e := NewSocial(testWatch())
	p := &analysis.Profile{
		SuspectedAlts: []analysis.SuspectedAlt{
			{CharacterID: 1, Name: "Maybe", Confidence: 0.3, CorpID: 666},
		},
	}

	flags, _ := e.Analyze(context.Background(), p)
	requireNoFlag(t, flags, analysis.CodeHostileAlt)
}

func TestSocial_OneRedPerNetwork(t *testing.T) {
	e := NewSocial(testWatch())
	p := &analysis.Profile{
		SuspectedAlts: []analysis.SuspectedAlt{
			{CharacterID: 1, Name: "Spy One", Confidence: 0.9, CorpID: 666},
			{CharacterID: 2, Name: "Spy Two", Confidence: 0.9, CorpID: 667},
		},
		DeclaredAlts: []string{"Spy One", "Spy Two"},
	}

	flags, _ := e.Analyze(context.Background(), p)

	count := 0
	for _, f := range flags {
		if f.Code == analysis.CodeHostileAlt {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one hostile-alt flag per network, got %d", count)
	}
}

func TestSocial_UndeclaredNetwork(t *testing.T) {
	e := NewSocial(testWatch())
	p := &analysis.Profile{
		SuspectedAlts: []analysis.SuspectedAlt{
			{CharacterID: 1, Name: "A", Confidence: 0.85},
			{CharacterID: 2, Name: "B", Confidence: 0.9},
			{CharacterID: 3, Name: "C", Confidence: 0.95},
		},
	}

	flags, _ := e.Analyze(context.Background(), p)
	requireFlag(t, flags, analysis.CodeUndeclaredNetwork)
	// First matching transparency condition wins; no double caution.
	requireNoFlag(t, flags, analysis.CodeTransparencyGap)
}

func TestSocial_TransparencyGap(t *testing.T) {
	e := NewSocial(testWatch())
	p := &analysis.Profile{
		SuspectedAlts: []analysis.SuspectedAlt{
			{CharacterID: 1, Name: "A", Confidence: 0.6},
			{CharacterID: 2, Name: "B", Confidence: 0.6},
		},
	}

	flags, _ := e.Analyze(context.Background(), p)
	requireFlag(t, flags, analysis.CodeTransparencyGap)
}

func TestSocial_AltRatioMismatch(t *testing.T) {
	e := NewSocial(testWatch())
	p := &analysis.Profile{
		SuspectedAlts: []analysis.SuspectedAlt{
			{CharacterID: 1, Name: "A", Confidence: 0.6},
			{CharacterID: 2, Name: "B", Confidence: 0.6},
			{CharacterID: 3, Name: "C", Confidence: 0.6},
		},
		DeclaredAlts: []string{"A"},
	}

	flags, _ := e.Analyze(context.Background(), p)
	requireFlag(t, flags, analysis.CodeAltRatioMismatch)
}

func TestSocial_ConsistentDisclosure(t *testing.T) {
	e := NewSocial(testWatch())
	p := &analysis.Profile{
		SuspectedAlts: []analysis.SuspectedAlt{
			{CharacterID: 1, Name: "A", Confidence: 0.6},
			{CharacterID: 2, Name: "B", Confidence: 0.6},
		},
		DeclaredAlts: []string{"A", "B"},
	}

	flags, _ := e.Analyze(context.Background(), p)

	f := requireFlag(t, flags, analysis.CodeDeclaredAlts)
	if f.Severity != analysis.SeverityGreen {
		t.Errorf("consistent disclosure should be green, got %s", f.Severity)
	}
	requireNoFlag(t, flags, analysis.CodeTransparencyGap)
}

func TestSocial_DeclaredOnlyNoSuspects(t *testing.T) {
	e := NewSocial(testWatch())
	p := &analysis.Profile{DeclaredAlts: []string{"My Hauler"}}

	flags, _ := e.Analyze(context.Background(), p)
	requireFlag(t, flags, analysis.CodeDeclaredAlts)
}
