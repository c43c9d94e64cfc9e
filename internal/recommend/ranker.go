// Package recommend ranks catalog products against an investor profile.
package recommend

import (
	"sort"

	"go.uber.org/zap"

	"github.com/truevizion/advisor-cli/internal/catalog"
	"github.com/truevizion/advisor-cli/internal/model"
	"github.com/truevizion/advisor-cli/internal/riskscore"
)

// DefaultTopN is the recommendation list cap when the caller does not choose.
const DefaultTopN = 5

// Source supplies the product catalog. catalog.Cache satisfies it.
type Source interface {
	Get() (*catalog.Catalog, error)
}

// Static adapts an already-loaded catalog into a Source, mainly for tests
// and one-shot commands.
type Static struct {
	Catalog *catalog.Catalog
}

// Get returns the wrapped catalog.
func (s Static) Get() (*catalog.Catalog, error) {
	return s.Catalog, nil
}

// Result is the full outcome of a recommendation request.
type Result struct {
	Score           float64                `json:"score"`
	Breakdown       riskscore.Breakdown    `json:"breakdown"`
	RiskProfile     model.RiskProfile      `json:"risk_profile"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

// Recommender ranks products for investor profiles. The catalog source is an
// explicit dependency injected at construction; there is no ambient global
// catalog state.
type Recommender struct {
	source  Source
	weights riskscore.Weights
}

// New creates a Recommender over the given catalog source.
func New(source Source, weights riskscore.Weights) *Recommender {
	return &Recommender{source: source, weights: weights}
}

// candidate pairs a product with the ranking features computed per request.
// The features never leave this package.
type candidate struct {
	product    model.Product
	affordable bool
	riskDiff   int
}

// Recommend scores the profile, hard-filters the catalog on the derived risk
// profile, and returns up to topN products: purpose-matching products first,
// ranked by (affordable desc, risk distance asc, min investment asc), then
// non-matching products by the same key until topN is reached. An empty list
// is a normal outcome, not an error.
func (r *Recommender) Recommend(p model.InvestorProfile, topN int) (*Result, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	score, breakdown := riskscore.Score(p, r.weights)
	riskProfile := riskscore.Classify(score)

	result := &Result{
		Score:       score,
		Breakdown:   breakdown,
		RiskProfile: riskProfile,
	}

	cat, err := r.source.Get()
	if err != nil {
		return nil, err
	}

	// Hard filter: only products marked suitable for the derived profile.
	var matching, rest []candidate
	for _, prod := range cat.Products() {
		if !prod.SuitsRiskProfile(riskProfile) {
			continue
		}
		c := candidate{
			product:    prod,
			affordable: p.InvestmentBudget >= prod.MinInvestment,
			riskDiff:   absInt(prod.RiskLevel - p.RiskTolerance),
		}
		if prod.SuitsPurpose(p.InvestmentPurpose) {
			matching = append(matching, c)
		} else {
			rest = append(rest, c)
		}
	}

	if len(matching) == 0 && len(rest) == 0 {
		zap.L().Debug("recommend: no suitable products",
			zap.String("risk_profile", string(riskProfile)),
		)
		return result, nil
	}

	// Purpose match is a partition, not a sort key: matching products always
	// rank ahead of fillers regardless of their individual keys.
	sortCandidates(matching)
	sortCandidates(rest)

	selected := matching
	if len(selected) > topN {
		selected = selected[:topN]
	}
	if need := topN - len(selected); need > 0 {
		if need > len(rest) {
			need = len(rest)
		}
		selected = append(selected, rest[:need]...)
	}

	result.Recommendations = make([]model.Recommendation, 0, len(selected))
	for _, c := range selected {
		result.Recommendations = append(result.Recommendations, snapshot(c.product))
	}

	zap.L().Debug("recommend: ranking complete",
		zap.Float64("score", score),
		zap.String("risk_profile", string(riskProfile)),
		zap.Int("purpose_matches", len(matching)),
		zap.Int("selected", len(result.Recommendations)),
	)

	return result, nil
}

// sortCandidates orders by affordable desc, risk distance asc, min investment
// asc. The sort is stable so ties keep catalog order and repeated calls on
// unchanged input are byte-identical.
func sortCandidates(cs []candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.affordable != b.affordable {
			return a.affordable
		}
		if a.riskDiff != b.riskDiff {
			return a.riskDiff < b.riskDiff
		}
		return a.product.MinInvestment < b.product.MinInvestment
	})
}

// snapshot copies the product fields into a Recommendation so the result
// holds no reference into the shared catalog.
func snapshot(p model.Product) model.Recommendation {
	rec := model.Recommendation{
		ProductName:   p.Name,
		ProductType:   p.Type,
		RiskLevel:     p.RiskLevel,
		MinTermMonths: p.MinTermMonths,
		MinInvestment: p.MinInvestment,
	}
	if p.ExpectedReturnPct != nil {
		rate := *p.ExpectedReturnPct
		rec.ExpectedReturnPct = &rate
	}
	return rec
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
