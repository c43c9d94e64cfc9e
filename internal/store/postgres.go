package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/truevizion/advisor-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it in
// tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using a pgx connection pool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool (used by tests).
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS plans (
	id              TEXT PRIMARY KEY,
	profile         JSONB NOT NULL,
	score           DOUBLE PRECISION NOT NULL,
	risk_profile    TEXT NOT NULL,
	recommendations JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_plans_risk_profile ON plans(risk_profile);
CREATE INDEX IF NOT EXISTS idx_plans_created_at ON plans(created_at);
`

// Migrate creates the plan history schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// SavePlan persists a plan, assigning ID and CreatedAt when unset.
func (s *PostgresStore) SavePlan(ctx context.Context, plan *PlanRecord) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	profileJSON, err := json.Marshal(plan.Profile)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal profile")
	}
	recsJSON, err := json.Marshal(plan.Recommendations)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal recommendations")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO plans (id, profile, score, risk_profile, recommendations, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		plan.ID, profileJSON, plan.Score, string(plan.RiskProfile), recsJSON, plan.CreatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert plan %s", plan.ID)
	}
	return nil
}

// GetPlan fetches a plan by ID.
func (s *PostgresStore) GetPlan(ctx context.Context, id string) (*PlanRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, profile, score, risk_profile, recommendations, created_at
		 FROM plans WHERE id = $1`, id)

	plan, err := scanPostgresPlan(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrPlanNotFound, "postgres: plan %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get plan %s", id)
	}
	return plan, nil
}

// ListPlans returns plans matching the filter, newest first.
func (s *PostgresStore) ListPlans(ctx context.Context, filter PlanFilter) ([]PlanRecord, error) {
	query := `SELECT id, profile, score, risk_profile, recommendations, created_at FROM plans`
	var args []any

	if filter.RiskProfile != "" {
		args = append(args, string(filter.RiskProfile))
		query += ` WHERE risk_profile = $1`
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list plans")
	}
	defer rows.Close()

	var plans []PlanRecord
	for rows.Next() {
		plan, err := scanPostgresPlan(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan plan")
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate plans")
	}
	return plans, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// scanPostgresPlan decodes one plans row; profile and recommendations arrive
// as JSONB byte slices.
func scanPostgresPlan(scan func(dest ...any) error) (*PlanRecord, error) {
	var (
		plan        PlanRecord
		profileJSON []byte
		recsJSON    []byte
		riskProfile string
	)
	if err := scan(&plan.ID, &profileJSON, &plan.Score, &riskProfile, &recsJSON, &plan.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(profileJSON, &plan.Profile); err != nil {
		return nil, eris.Wrap(err, "unmarshal profile")
	}
	if err := json.Unmarshal(recsJSON, &plan.Recommendations); err != nil {
		return nil, eris.Wrap(err, "unmarshal recommendations")
	}
	plan.RiskProfile = model.RiskProfile(riskProfile)
	return &plan, nil
}
