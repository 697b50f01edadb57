// Package verdicts persists completed risk assessments so recruiters can
// review and compare past screenings.
package verdicts

import (
	"context"
	"errors"

	"github.com/skarkon/crowsnest/internal/analysis"
)

// Errors
var (
	ErrVerdictNotFound = errors.New("verdicts: not found")
)

// Store persists verdicts.
type Store interface {
	Record(ctx context.Context, v *analysis.Verdict) error
	Get(ctx context.Context, id string) (*analysis.Verdict, error)
	ListByCharacter(ctx context.Context, characterID int64, limit int) ([]*analysis.Verdict, error)
	ListRecent(ctx context.Context, limit int) ([]*analysis.Verdict, error)
}
