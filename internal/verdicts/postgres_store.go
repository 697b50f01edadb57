package verdicts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/skarkon/crowsnest/internal/analysis"
)

// PostgresStore persists verdicts in PostgreSQL. Flags, recommendations and
// run metadata are stored as JSONB/arrays so the full assessment survives
// round trips without a table per flag.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed verdict store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const verdictColumns = `id, character_id, character_name, overall_risk, confidence,
	flags, red_count, yellow_count, green_count, recommendations,
	evaluators_run, errors, requested_by, duration_ms, evaluated_at`

func (p *PostgresStore) Record(ctx context.Context, v *analysis.Verdict) error {
	flagsJSON, err := json.Marshal(v.Flags)
	if err != nil {
		return fmt.Errorf("marshal flags: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO verdicts (`+verdictColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		v.ID, v.CharacterID, v.CharacterName, string(v.OverallRisk), v.Confidence,
		flagsJSON, v.RedCount, v.YellowCount, v.GreenCount, pq.Array(v.Recommendations),
		pq.Array(v.EvaluatorsRun), pq.Array(v.Errors), v.RequestedBy, v.DurationMS, v.EvaluatedAt,
	)
	return err
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*analysis.Verdict, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT `+verdictColumns+` FROM verdicts WHERE id = $1`, id)

	v, err := scanVerdict(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrVerdictNotFound
	}
	return v, err
}

func (p *PostgresStore) ListByCharacter(ctx context.Context, characterID int64, limit int) ([]*analysis.Verdict, error) {
	return p.list(ctx, `
		SELECT `+verdictColumns+` FROM verdicts
		WHERE character_id = $1 ORDER BY evaluated_at DESC LIMIT $2`,
		characterID, normalizeLimit(limit))
}

func (p *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*analysis.Verdict, error) {
	return p.list(ctx, `
		SELECT `+verdictColumns+` FROM verdicts
		ORDER BY evaluated_at DESC LIMIT $1`,
		normalizeLimit(limit))
}

func (p *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*analysis.Verdict, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []*analysis.Verdict
	for rows.Next() {
		v, err := scanVerdict(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func scanVerdict(scan func(...any) error) (*analysis.Verdict, error) {
	v := &analysis.Verdict{}
	var flagsJSON []byte
	var risk string
	err := scan(&v.ID, &v.CharacterID, &v.CharacterName, &risk, &v.Confidence,
		&flagsJSON, &v.RedCount, &v.YellowCount, &v.GreenCount, pq.Array(&v.Recommendations),
		pq.Array(&v.EvaluatorsRun), pq.Array(&v.Errors), &v.RequestedBy, &v.DurationMS, &v.EvaluatedAt)
	if err != nil {
		return nil, err
	}
	v.OverallRisk = analysis.RiskLevel(risk)
	if len(flagsJSON) > 0 {
		if err := json.Unmarshal(flagsJSON, &v.Flags); err != nil {
			return nil, fmt.Errorf("corrupt flags for verdict %s: %w", v.ID, err)
		}
	}
	return v, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

var _ Store = (*PostgresStore)(nil)
