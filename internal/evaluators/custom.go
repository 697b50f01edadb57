package evaluators

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skarkon/crowsnest/internal/analysis"
	"github.com/skarkon/crowsnest/internal/rules"
)

// Custom applies operator-defined screening rules from the rule store.
type Custom struct {
	store  rules.Store
	logger *slog.Logger
}

// NewCustom creates the custom-rule evaluator.
func NewCustom(store rules.Store, logger *slog.Logger) *Custom {
	if logger == nil {
		logger = slog.Default()
	}
	return &Custom{store: store, logger: logger}
}

func (e *Custom) Name() string          { return "custom_rules" }
func (e *Custom) RequiresAuxData() bool { return false }

func (e *Custom) Analyze(ctx context.Context, p *analysis.Profile) ([]analysis.Flag, error) {
	enabled, err := e.store.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	var flags []analysis.Flag
	for _, r := range enabled {
		matched, err := r.Condition.Matches(p)
		if err != nil {
			// A broken stored rule must not sink the whole evaluator.
			e.logger.Warn("screening rule failed to evaluate",
				"rule_id", r.ID, "code", r.Code, "error", err)
			continue
		}
		if !matched {
			continue
		}
		flags = append(flags, analysis.NewFlag(
			r.FlagSeverity(), analysis.CategoryGeneral,
			r.Code, r.Message,
		).WithEvidence(map[string]any{
			"rule_id":  r.ID,
			"field":    r.Condition.Field,
			"operator": r.Condition.Operator,
		}))
	}
	return flags, nil
}
