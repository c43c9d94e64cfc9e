package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truevizion/advisor-cli/internal/model"
	"github.com/truevizion/advisor-cli/internal/riskscore"
)

func ptrFloat64(v float64) *float64 { return &v }

func reportInput(t *testing.T) Input {
	t.Helper()
	profile, err := model.NewInvestorProfile(
		model.IncomeBand50To75K, 40_000, model.DebtBandNone,
		15_000, 120, 3, model.PurposeRetirement,
	)
	require.NoError(t, err)

	return Input{
		Profile:     profile,
		Score:       54.7,
		Breakdown:   riskscore.Breakdown{Tolerance: 50, Capacity: 80, TimeHorizon: 33, Stability: 80, Knowledge: 50},
		RiskProfile: model.RiskBalanced,
		Recommendations: []model.Recommendation{
			{
				ProductName:       "Index Tracker",
				ProductType:       "Equity fund",
				RiskLevel:         3,
				MinTermMonths:     36,
				MinInvestment:     500,
				ExpectedReturnPct: ptrFloat64(6.0),
			},
			{
				ProductName:   "Premium Fund",
				ProductType:   "Managed fund",
				RiskLevel:     3,
				MinTermMonths: 60,
				MinInvestment: 50_000,
			},
		},
		GeneratedAt: time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC),
	}
}

func TestBuild(t *testing.T) {
	out := NewBuilder().Build(reportInput(t))

	assert.Contains(t, out, "Investment Plan Summary")
	assert.Contains(t, out, "Generated on 25 Aug 2026 09:30")

	assert.Contains(t, out, "Income bracket: 50,000 - 74,999")
	assert.Contains(t, out, "Savings: £40,000")
	assert.Contains(t, out, "Amount to invest now: £15,000")
	assert.Contains(t, out, "Investment term: 10 years")
	assert.Contains(t, out, "Risk tolerance (1-5): 3")

	assert.Contains(t, out, "Risk score: 54.7")
	assert.Contains(t, out, "Assigned risk profile: Balanced")
	assert.Contains(t, out, "Components: tolerance 50, capacity 80")

	assert.Contains(t, out, "1. Index Tracker (Best match)")
	assert.Contains(t, out, "2. Premium Fund")
	assert.NotContains(t, out, "2. Premium Fund (Best match)")
	assert.Contains(t, out, "Indicative annual return: 6.0%")

	assert.Contains(t, out, "Disclaimer:")
}

func TestBuildProjectionBranches(t *testing.T) {
	in := reportInput(t)
	out := NewBuilder().Build(in)

	// First product: budget 15,000 at 6% for 10 years -> about 26,863.
	assert.Contains(t, out, "If you invest £15,000 for 10 years")
	assert.Contains(t, out, "about £26,863")

	// Second product: budget below the 50,000 minimum.
	assert.Contains(t, out, "below the minimum investment")
}

func TestBuildNoRecommendations(t *testing.T) {
	in := reportInput(t)
	in.Recommendations = nil

	out := NewBuilder().Build(in)
	assert.Contains(t, out, "No suitable products were found for this profile.")
	assert.NotContains(t, out, "Best match")
}

func TestBuildNoRate(t *testing.T) {
	in := reportInput(t)
	in.Recommendations = in.Recommendations[1:]
	in.Recommendations[0].MinInvestment = 0

	out := NewBuilder().Build(in)
	// No rate, no projection line and no return line.
	assert.NotContains(t, out, "Indicative annual return")
	assert.NotContains(t, out, "If you invest")
}

func TestBuildDefaultsTimestamp(t *testing.T) {
	in := reportInput(t)
	in.GeneratedAt = time.Time{}

	out := NewBuilder().Build(in)
	assert.Contains(t, out, "Generated on ")
}
