package model

// Product is a row in the read-only catalog.
type Product struct {
	Name                 string              `json:"name"`
	Type                 string              `json:"type"`
	RiskLevel            int                 `json:"risk_level"`
	SuitableRiskProfiles []RiskProfile       `json:"suitable_risk_profiles"`
	SuitablePurposes     []InvestmentPurpose `json:"suitable_purposes"`
	MinInvestment        float64             `json:"min_investment"`
	MinTermMonths        int                 `json:"min_term_months"`

	// ExpectedReturnPct is the illustrative annualized return. Nil means the
	// catalog carries no rate and no projection is computable.
	ExpectedReturnPct *float64 `json:"expected_return_pct,omitempty"`
}

// SuitsRiskProfile reports whether the product is marked appropriate for rp.
func (p Product) SuitsRiskProfile(rp RiskProfile) bool {
	for _, s := range p.SuitableRiskProfiles {
		if s == rp {
			return true
		}
	}
	return false
}

// SuitsPurpose reports whether the product is marked appropriate for purpose.
func (p Product) SuitsPurpose(purpose InvestmentPurpose) bool {
	for _, s := range p.SuitablePurposes {
		if s == purpose {
			return true
		}
	}
	return false
}

// Recommendation is a product snapshot selected for a client. It copies the
// product fields rather than referencing the catalog row.
type Recommendation struct {
	ProductName       string   `json:"product_name"`
	ProductType       string   `json:"product_type"`
	RiskLevel         int      `json:"risk_level"`
	MinTermMonths     int      `json:"min_term_months"`
	MinInvestment     float64  `json:"min_investment"`
	ExpectedReturnPct *float64 `json:"expected_return_pct,omitempty"`
}

// ProjectionStatus distinguishes why a projection is or is not available.
type ProjectionStatus string

const (
	// ProjectionNoRate: the product carries no expected return.
	ProjectionNoRate ProjectionStatus = "no_rate"
	// ProjectionBelowMinimum: the principal is below the product minimum.
	ProjectionBelowMinimum ProjectionStatus = "below_minimum"
	// ProjectionComputed: FutureValue and Gain are populated.
	ProjectionComputed ProjectionStatus = "computed"
)

// Projection is an illustrative compound-growth estimate.
type Projection struct {
	Status      ProjectionStatus `json:"status"`
	Principal   float64          `json:"principal"`
	TermMonths  int              `json:"term_months"`
	RatePct     float64          `json:"rate_pct,omitempty"`
	FutureValue float64          `json:"future_value,omitempty"`
	Gain        float64          `json:"gain,omitempty"`
}
