package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truevizion/advisor-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "plans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testPlan(t *testing.T, riskProfile model.RiskProfile) *PlanRecord {
	t.Helper()
	profile, err := model.NewInvestorProfile(
		model.IncomeBand50To75K, 40_000, model.DebtBandNone,
		15_000, 120, 3, model.PurposeRetirement,
	)
	require.NoError(t, err)

	rate := 5.0
	return &PlanRecord{
		Profile:     profile,
		Score:       54.7,
		RiskProfile: riskProfile,
		Recommendations: []model.Recommendation{
			{
				ProductName:       "Index Tracker",
				ProductType:       "Equity fund",
				RiskLevel:         3,
				MinTermMonths:     36,
				MinInvestment:     500,
				ExpectedReturnPct: &rate,
			},
			{ProductName: "Cash Reserve", ProductType: "Savings", RiskLevel: 1},
		},
	}
}

func TestSQLiteSaveAndGetPlan(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	plan := testPlan(t, model.RiskBalanced)
	require.NoError(t, s.SavePlan(ctx, plan))
	assert.NotEmpty(t, plan.ID)
	assert.False(t, plan.CreatedAt.IsZero())

	got, err := s.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.ID)
	assert.Equal(t, plan.Profile, got.Profile)
	assert.Equal(t, plan.Score, got.Score)
	assert.Equal(t, model.RiskBalanced, got.RiskProfile)
	require.Len(t, got.Recommendations, 2)
	assert.Equal(t, "Index Tracker", got.Recommendations[0].ProductName)
	require.NotNil(t, got.Recommendations[0].ExpectedReturnPct)
	assert.Equal(t, 5.0, *got.Recommendations[0].ExpectedReturnPct)
	assert.Nil(t, got.Recommendations[1].ExpectedReturnPct)
}

func TestSQLiteSavePlanKeepsExplicitID(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	plan := testPlan(t, model.RiskBalanced)
	plan.ID = "plan-123"
	require.NoError(t, s.SavePlan(ctx, plan))

	got, err := s.GetPlan(ctx, "plan-123")
	require.NoError(t, err)
	assert.Equal(t, "plan-123", got.ID)
}

func TestSQLiteGetPlanNotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetPlan(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrPlanNotFound))
}

func TestSQLiteListPlans(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, rp := range []model.RiskProfile{model.RiskBalanced, model.RiskGrowth, model.RiskBalanced} {
		plan := testPlan(t, rp)
		plan.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.SavePlan(ctx, plan))
	}

	all, err := s.ListPlans(ctx, PlanFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, model.RiskBalanced, all[0].RiskProfile)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	balanced, err := s.ListPlans(ctx, PlanFilter{RiskProfile: model.RiskBalanced})
	require.NoError(t, err)
	assert.Len(t, balanced, 2)

	limited, err := s.ListPlans(ctx, PlanFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, all[0].ID, limited[0].ID)

	offset, err := s.ListPlans(ctx, PlanFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, offset, 1)
	assert.Equal(t, all[1].ID, offset[0].ID)

	// Offset without a limit skips the newest and returns the rest.
	offsetOnly, err := s.ListPlans(ctx, PlanFilter{Offset: 1})
	require.NoError(t, err)
	require.Len(t, offsetOnly, 2)
	assert.Equal(t, all[1].ID, offsetOnly[0].ID)
	assert.Equal(t, all[2].ID, offsetOnly[1].ID)
}

func TestSQLiteListPlansEmpty(t *testing.T) {
	s := newTestSQLite(t)

	plans, err := s.ListPlans(context.Background(), PlanFilter{})
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestSQLiteMigrateIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	require.NoError(t, s.Migrate(context.Background()))
}
