package evaluators

import (
	"context"
	"fmt"

	"github.com/skarkon/crowsnest/internal/analysis"
	"github.com/skarkon/crowsnest/internal/scoring"
)

// ModelScore wraps the optional trained scoring model. When no model is
// loaded the evaluator silently contributes nothing; absence is not an
// error.
type ModelScore struct {
	scorer scoring.Scorer
}

// NewModelScore creates the model-score evaluator. scorer may be nil.
func NewModelScore(scorer scoring.Scorer) *ModelScore {
	return &ModelScore{scorer: scorer}
}

func (e *ModelScore) Name() string          { return "model_score" }
func (e *ModelScore) RequiresAuxData() bool { return false }

var severityByClass = map[scoring.Class]analysis.Severity{
	scoring.ClassRed:    analysis.SeverityRed,
	scoring.ClassYellow: analysis.SeverityYellow,
	scoring.ClassGreen:  analysis.SeverityGreen,
}

func (e *ModelScore) Analyze(ctx context.Context, p *analysis.Profile) ([]analysis.Flag, error) {
	if e.scorer == nil || !e.scorer.Available() {
		return nil, nil
	}

	features := scoring.Features(p)
	class, prob, err := e.scorer.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("model prediction: %w", err)
	}

	sev, ok := severityByClass[class]
	if !ok {
		return nil, fmt.Errorf("model returned unknown class %q", class)
	}

	return []analysis.Flag{
		analysis.NewFlag(
			sev, analysis.CategoryGeneral,
			analysis.CodeModelAssessment,
			fmt.Sprintf("trained model predicts %s risk (p=%.2f)", class, prob),
		).WithConfidence(prob).WithEvidence(map[string]any{
			"class":       string(class),
			"probability": prob,
		}),
	}, nil
}
