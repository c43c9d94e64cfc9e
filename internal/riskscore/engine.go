// Package riskscore derives a bounded numeric risk score for an investor
// profile and maps it to a categorical risk profile.
package riskscore

import (
	"math"

	"github.com/truevizion/advisor-cli/internal/model"
)

// knowledgeScore is a fixed placeholder until an experience questionnaire is
// added. It must stay constant for reproducible scoring.
const knowledgeScore = 50.0

// maxLeveragePenalty caps how many points leverage can subtract.
const maxLeveragePenalty = 30.0

// horizonCapMonths is the term at which the time-horizon sub-score saturates.
const horizonCapMonths = 360.0

// Breakdown carries the individual sub-scores behind a composite score.
// All components are on a 0-100 scale except LeveragePenalty (0-30).
type Breakdown struct {
	Tolerance       float64 `json:"tolerance"`
	Capacity        float64 `json:"capacity"`
	TimeHorizon     float64 `json:"time_horizon"`
	Stability       float64 `json:"stability"`
	Knowledge       float64 `json:"knowledge"`
	LeveragePenalty float64 `json:"leverage_penalty"`
}

// Score computes the composite risk score for a valid profile. It is pure and
// total: profiles are validated at construction, so no error path exists here.
// The result is clamped to [0,100].
func Score(p model.InvestorProfile, w Weights) (float64, Breakdown) {
	income := p.IncomeBand.RepresentativeIncome()

	b := Breakdown{
		Tolerance:   float64(p.RiskTolerance-1) / 4 * 100,
		TimeHorizon: math.Min(float64(p.InvestmentTermMonths)/horizonCapMonths, 1.0) * 100,
		Knowledge:   knowledgeScore,
	}

	savings := savingsAdequacyScore(p.Savings, income)
	debt := debtRatioScore(p.DebtBand.RepresentativeDebt(), income)
	burden := investmentBurdenScore(p.InvestmentBudget, p.Savings)

	b.Capacity = (savings + debt + burden) / 3
	b.Stability = (savings + debt) / 2
	b.LeveragePenalty = leveragePenalty(p.InvestmentBudget, p.Savings)

	score := w.Tolerance*b.Tolerance +
		w.Capacity*b.Capacity +
		w.TimeHorizon*b.TimeHorizon +
		w.Stability*b.Stability +
		w.Knowledge*b.Knowledge -
		w.LeveragePenalty*b.LeveragePenalty

	return math.Max(0, math.Min(score, 100)), b
}

// Classify maps a numeric score to a risk profile. Boundaries are inclusive
// on the lower label: a score of exactly 20 is Defensive.
func Classify(score float64) model.RiskProfile {
	switch {
	case score <= 20:
		return model.RiskDefensive
	case score <= 40:
		return model.RiskConservative
	case score <= 60:
		return model.RiskBalanced
	case score <= 80:
		return model.RiskGrowth
	default:
		return model.RiskAggressive
	}
}

// savingsAdequacyScore buckets the ratio of savings to a notional three-month
// emergency reserve (income/4). Coarse bands keep the score stable against
// small input changes.
func savingsAdequacyScore(savings, income float64) float64 {
	ratio := savings / math.Max(income/4, 1)
	switch {
	case ratio < 0.5:
		return 20
	case ratio < 1:
		return 40
	case ratio < 2:
		return 60
	default:
		return 80
	}
}

// debtRatioScore buckets the representative debt divided by income.
// Inverted: a higher debt ratio yields a lower score.
func debtRatioScore(debt, income float64) float64 {
	ratio := debt / math.Max(income, 1)
	switch {
	case ratio > 0.5:
		return 20
	case ratio > 0.25:
		return 40
	case ratio > 0.1:
		return 60
	default:
		return 80
	}
}

// investmentBurdenScore buckets how the proposed budget compares to savings.
func investmentBurdenScore(budget, savings float64) float64 {
	if budget <= savings {
		return 80
	}
	ratio := budget / math.Max(savings, 1)
	switch {
	case ratio < 2:
		return 60
	case ratio < 5:
		return 40
	default:
		return 20
	}
}

// leveragePenalty grows with how far the budget exceeds savings, capped at
// maxLeveragePenalty points.
func leveragePenalty(budget, savings float64) float64 {
	if budget <= savings {
		return 0
	}
	ratio := budget / math.Max(savings, 1)
	return math.Min((ratio-1)*20, maxLeveragePenalty)
}
