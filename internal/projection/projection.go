// Package projection computes illustrative compound-growth estimates for
// recommended products.
package projection

import (
	"fmt"
	"math"

	"github.com/truevizion/advisor-cli/internal/model"
)

// yearMonthSplit is the term at which durations render as years instead of
// months.
const yearMonthSplit = 24

// Project estimates the future value of principal invested for termMonths at
// ratePct annual growth. A nil rate yields a no-rate result; a principal
// below minInvestment yields a distinct below-minimum result. Compounding
// uses a fractional-year exponent, so an 18-month term compounds at 1.5
// years.
func Project(principal float64, termMonths int, ratePct *float64, minInvestment float64) model.Projection {
	proj := model.Projection{
		Principal:  principal,
		TermMonths: termMonths,
	}

	if ratePct == nil {
		proj.Status = model.ProjectionNoRate
		return proj
	}
	proj.RatePct = *ratePct

	if principal < minInvestment {
		proj.Status = model.ProjectionBelowMinimum
		return proj
	}

	years := float64(termMonths) / 12
	proj.FutureValue = principal * math.Pow(1+*ratePct/100, years)
	proj.Gain = proj.FutureValue - principal
	proj.Status = model.ProjectionComputed
	return proj
}

// ForRecommendation projects the client's budget against a recommendation's
// rate and minimum.
func ForRecommendation(rec model.Recommendation, principal float64, termMonths int) model.Projection {
	return Project(principal, termMonths, rec.ExpectedReturnPct, rec.MinInvestment)
}

// FormatDuration renders a term in months as human-readable text. Terms under
// 24 months stay in months; longer terms split into whole years plus a
// month remainder.
func FormatDuration(months int) string {
	if months < yearMonthSplit {
		return fmt.Sprintf("%d months", months)
	}
	years := months / 12
	rem := months % 12
	if rem == 0 {
		return fmt.Sprintf("%d years", years)
	}
	return fmt.Sprintf("%d years %d months", years, rem)
}
