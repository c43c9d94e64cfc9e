package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductSuitability(t *testing.T) {
	p := Product{
		Name:                 "Index Tracker",
		SuitableRiskProfiles: []RiskProfile{RiskBalanced, RiskGrowth},
		SuitablePurposes:     []InvestmentPurpose{PurposeRetirement},
	}

	assert.True(t, p.SuitsRiskProfile(RiskBalanced))
	assert.True(t, p.SuitsRiskProfile(RiskGrowth))
	assert.False(t, p.SuitsRiskProfile(RiskDefensive))

	assert.True(t, p.SuitsPurpose(PurposeRetirement))
	assert.False(t, p.SuitsPurpose(PurposeWealth))

	empty := Product{Name: "Unmarked"}
	assert.False(t, empty.SuitsRiskProfile(RiskBalanced))
	assert.False(t, empty.SuitsPurpose(PurposeWealth))
}
