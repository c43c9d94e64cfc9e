package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/truevizion/advisor-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS plans (
	id              TEXT PRIMARY KEY,
	profile         TEXT NOT NULL,
	score           REAL NOT NULL,
	risk_profile    TEXT NOT NULL,
	recommendations TEXT NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_plans_risk_profile ON plans(risk_profile);
CREATE INDEX IF NOT EXISTS idx_plans_created_at ON plans(created_at);
`

// Migrate creates the plan history schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

// SavePlan persists a plan, assigning ID and CreatedAt when unset.
func (s *SQLiteStore) SavePlan(ctx context.Context, plan *PlanRecord) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	profileJSON, err := json.Marshal(plan.Profile)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal profile")
	}
	recsJSON, err := json.Marshal(plan.Recommendations)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal recommendations")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plans (id, profile, score, risk_profile, recommendations, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		plan.ID, string(profileJSON), plan.Score, string(plan.RiskProfile),
		string(recsJSON), plan.CreatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert plan %s", plan.ID)
	}
	return nil
}

// GetPlan fetches a plan by ID.
func (s *SQLiteStore) GetPlan(ctx context.Context, id string) (*PlanRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, profile, score, risk_profile, recommendations, created_at
		 FROM plans WHERE id = ?`, id)

	plan, err := scanPlanRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrPlanNotFound, "sqlite: plan %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get plan %s", id)
	}
	return plan, nil
}

// ListPlans returns plans matching the filter, newest first.
func (s *SQLiteStore) ListPlans(ctx context.Context, filter PlanFilter) ([]PlanRecord, error) {
	query := `SELECT id, profile, score, risk_profile, recommendations, created_at FROM plans`
	var args []any

	if filter.RiskProfile != "" {
		query += ` WHERE risk_profile = ?`
		args = append(args, string(filter.RiskProfile))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite requires a LIMIT before OFFSET; -1 means unlimited.
		query += ` LIMIT -1`
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list plans")
	}
	defer rows.Close()

	var plans []PlanRecord
	for rows.Next() {
		plan, err := scanPlanRow(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan plan")
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate plans")
	}
	return plans, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanPlanRow decodes one plans row via the given Scan function.
func scanPlanRow(scan func(dest ...any) error) (*PlanRecord, error) {
	var (
		plan        PlanRecord
		profileJSON string
		recsJSON    string
		riskProfile string
	)
	if err := scan(&plan.ID, &profileJSON, &plan.Score, &riskProfile, &recsJSON, &plan.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(profileJSON), &plan.Profile); err != nil {
		return nil, eris.Wrap(err, "unmarshal profile")
	}
	if err := json.Unmarshal([]byte(recsJSON), &plan.Recommendations); err != nil {
		return nil, eris.Wrap(err, "unmarshal recommendations")
	}
	plan.RiskProfile = model.RiskProfile(riskProfile)
	return &plan, nil
}
