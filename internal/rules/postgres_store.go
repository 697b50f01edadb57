package rules

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore persists screening rules in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed rule store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Create(ctx context.Context, r *Rule) error {
	condJSON, err := json.Marshal(r.Condition)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO screening_rules (id, code, severity, condition, message, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.Code, r.Severity, condJSON, r.Message, r.Enabled, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrCodeTaken
		}
		return err
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Rule, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, code, severity, condition, message, enabled, created_at, updated_at
		FROM screening_rules WHERE id = $1`, id)
	return scanRule(row)
}

func (p *PostgresStore) List(ctx context.Context) ([]*Rule, error) {
	return p.list(ctx, `
		SELECT id, code, severity, condition, message, enabled, created_at, updated_at
		FROM screening_rules ORDER BY code ASC`)
}

func (p *PostgresStore) ListEnabled(ctx context.Context) ([]*Rule, error) {
	return p.list(ctx, `
		SELECT id, code, severity, condition, message, enabled, created_at, updated_at
		FROM screening_rules WHERE enabled ORDER BY code ASC`)
}

func (p *PostgresStore) list(ctx context.Context, query string) ([]*Rule, error) {
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []*Rule
	for rows.Next() {
		r := &Rule{}
		var condJSON []byte
		if err := rows.Scan(&r.ID, &r.Code, &r.Severity, &condJSON,
			&r.Message, &r.Enabled, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(condJSON, &r.Condition); err != nil {
			return nil, fmt.Errorf("corrupt condition for rule %s: %w", r.ID, err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (p *PostgresStore) Update(ctx context.Context, r *Rule) error {
	condJSON, err := json.Marshal(r.Condition)
	if err != nil {
		return err
	}
	result, err := p.db.ExecContext(ctx, `
		UPDATE screening_rules
		SET code = $1, severity = $2, condition = $3, message = $4, enabled = $5, updated_at = $6
		WHERE id = $7`,
		r.Code, r.Severity, condJSON, r.Message, r.Enabled, r.UpdatedAt, r.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrCodeTaken
		}
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM screening_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func scanRule(row *sql.Row) (*Rule, error) {
	r := &Rule{}
	var condJSON []byte
	err := row.Scan(&r.ID, &r.Code, &r.Severity, &condJSON,
		&r.Message, &r.Enabled, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(condJSON, &r.Condition); err != nil {
		return nil, fmt.Errorf("corrupt condition for rule %s: %w", r.ID, err)
	}
	return r, nil
}

var _ Store = (*PostgresStore)(nil)
