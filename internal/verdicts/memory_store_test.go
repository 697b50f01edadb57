package verdicts

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/skarkon/crowsnest/internal/analysis"
)

func sampleVerdict(id string, characterID int64, at time.Time) *analysis.Verdict {
	return &analysis.Verdict{
		ID:            id,
		CharacterID:   characterID,
		CharacterName: "Test Pilot",
		OverallRisk:   analysis.RiskYellow,
		Confidence:    0.7,
		Flags: []analysis.Flag{
			analysis.NewFlag(analysis.SeverityYellow, analysis.CategoryActivity,
				analysis.CodeRecentInactivity, "no PvP activity in 45 days"),
		},
		YellowCount:     1,
		Recommendations: []string{"CAUTION: interview recommended before acceptance."},
		EvaluatorsRun:   []string{"activity"},
		RequestedBy:     "recruiter-bot",
		DurationMS:      12,
		EvaluatedAt:     at,
	}
}

func TestMemoryStore_RecordGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	v := sampleVerdict("vrd_1", 90210, time.Now())

	if err := store.Record(ctx, v); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := store.Get(ctx, "vrd_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CharacterID != 90210 || got.OverallRisk != analysis.RiskYellow {
		t.Errorf("Get returned wrong verdict: %+v", got)
	}
	if len(got.Flags) != 1 || got.Flags[0].Code != analysis.CodeRecentInactivity {
		t.Errorf("flags did not survive the round trip: %v", got.Flags)
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "vrd_missing"); !errors.Is(err, ErrVerdictNotFound) {
		t.Fatalf("Get missing = %v, want ErrVerdictNotFound", err)
	}
}

func TestMemoryStore_ListByCharacter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Now()

	for i := 0; i < 3; i++ {
		v := sampleVerdict(fmt.Sprintf("vrd_%d", i), 90210, base.Add(time.Duration(i)*time.Minute))
		if err := store.Record(ctx, v); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := store.Record(ctx, sampleVerdict("vrd_other", 555, base)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	list, err := store.ListByCharacter(ctx, 90210, 10)
	if err != nil {
		t.Fatalf("ListByCharacter: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListByCharacter returned %d verdicts, want 3", len(list))
	}
	// Most recent first.
	if list[0].ID != "vrd_2" || list[2].ID != "vrd_0" {
		t.Errorf("verdicts not ordered newest first: %s, %s, %s",
			list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestMemoryStore_ListRecentLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Now()

	for i := 0; i < 5; i++ {
		v := sampleVerdict(fmt.Sprintf("vrd_%d", i), int64(i), base.Add(time.Duration(i)*time.Minute))
		if err := store.Record(ctx, v); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	list, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListRecent(2) returned %d verdicts", len(list))
	}
	if list[0].ID != "vrd_4" || list[1].ID != "vrd_3" {
		t.Errorf("ListRecent should return the newest two, got %s, %s", list[0].ID, list[1].ID)
	}
}

func TestMemoryStore_ZeroLimitUsesDefault(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Record(ctx, sampleVerdict("vrd_1", 1, time.Now())); err != nil {
		t.Fatalf("Record: %v", err)
	}

	list, err := store.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("zero limit should fall back to the default, got %d verdicts", len(list))
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	v := sampleVerdict("vrd_1", 90210, time.Now())
	if err := store.Record(ctx, v); err != nil {
		t.Fatalf("Record: %v", err)
	}

	// Mutating the recorded verdict or a fetched copy must not leak into
	// the store.
	v.CharacterName = "mutated after record"
	got, _ := store.Get(ctx, "vrd_1")
	if got.CharacterName != "Test Pilot" {
		t.Error("Record must store a copy")
	}

	got.Flags[0].Code = "MUTATED"
	again, _ := store.Get(ctx, "vrd_1")
	if again.Flags[0].Code != analysis.CodeRecentInactivity {
		t.Error("Get must return a deep copy of flags")
	}
}
