package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truevizion/advisor-cli/internal/model"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func planRows(t *testing.T, plans ...*PlanRecord) *pgxmock.Rows {
	t.Helper()
	rows := pgxmock.NewRows([]string{"id", "profile", "score", "risk_profile", "recommendations", "created_at"})
	for _, p := range plans {
		profileJSON, err := json.Marshal(p.Profile)
		require.NoError(t, err)
		recsJSON, err := json.Marshal(p.Recommendations)
		require.NoError(t, err)
		rows.AddRow(p.ID, profileJSON, p.Score, string(p.RiskProfile), recsJSON, p.CreatedAt)
	}
	return rows
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS plans").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSavePlan(t *testing.T) {
	s, mock := newMockPostgres(t)
	plan := testPlan(t, model.RiskBalanced)

	mock.ExpectExec("INSERT INTO plans").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), plan.Score, "Balanced", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SavePlan(context.Background(), plan))
	assert.NotEmpty(t, plan.ID)
	assert.False(t, plan.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetPlan(t *testing.T) {
	s, mock := newMockPostgres(t)

	want := testPlan(t, model.RiskGrowth)
	want.ID = "plan-1"
	want.CreatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM plans WHERE id").
		WithArgs("plan-1").
		WillReturnRows(planRows(t, want))

	got, err := s.GetPlan(context.Background(), "plan-1")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Profile, got.Profile)
	assert.Equal(t, model.RiskGrowth, got.RiskProfile)
	require.Len(t, got.Recommendations, 2)
	assert.Equal(t, "Index Tracker", got.Recommendations[0].ProductName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetPlanNotFound(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery("SELECT (.+) FROM plans WHERE id").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetPlan(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrPlanNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListPlans(t *testing.T) {
	s, mock := newMockPostgres(t)

	a := testPlan(t, model.RiskBalanced)
	a.ID = "plan-a"
	a.CreatedAt = time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC)
	b := testPlan(t, model.RiskBalanced)
	b.ID = "plan-b"
	b.CreatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM plans WHERE risk_profile").
		WithArgs("Balanced", 10).
		WillReturnRows(planRows(t, a, b))

	plans, err := s.ListPlans(context.Background(), PlanFilter{
		RiskProfile: model.RiskBalanced,
		Limit:       10,
	})
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "plan-a", plans[0].ID)
	assert.Equal(t, "plan-b", plans[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListPlansNoFilter(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery("SELECT (.+) FROM plans ORDER BY created_at DESC").
		WillReturnRows(planRows(t))

	plans, err := s.ListPlans(context.Background(), PlanFilter{})
	require.NoError(t, err)
	assert.Empty(t, plans)
	require.NoError(t, mock.ExpectationsWereMet())
}
