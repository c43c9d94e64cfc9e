package model

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfileArgs() (IncomeBand, float64, DebtBand, float64, int, int, InvestmentPurpose) {
	return IncomeBand50To75K, 40_000, DebtBandNone, 15_000, 120, 4, PurposeRetirement
}

func TestNewInvestorProfile(t *testing.T) {
	income, savings, debt, budget, term, tolerance, purpose := validProfileArgs()

	p, err := NewInvestorProfile(income, savings, debt, budget, term, tolerance, purpose)
	require.NoError(t, err)
	assert.Equal(t, IncomeBand50To75K, p.IncomeBand)
	assert.Equal(t, 40_000.0, p.Savings)
	assert.Equal(t, 120, p.InvestmentTermMonths)
	assert.False(t, p.Leveraged())
}

func TestNewInvestorProfileValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*IncomeBand, *float64, *DebtBand, *float64, *int, *int, *InvestmentPurpose)
	}{
		{"unknown income band", func(i *IncomeBand, _ *float64, _ *DebtBand, _ *float64, _ *int, _ *int, _ *InvestmentPurpose) {
			*i = "40k-ish"
		}},
		{"unknown debt band", func(_ *IncomeBand, _ *float64, d *DebtBand, _ *float64, _ *int, _ *int, _ *InvestmentPurpose) {
			*d = "a mortgage"
		}},
		{"unknown purpose", func(_ *IncomeBand, _ *float64, _ *DebtBand, _ *float64, _ *int, _ *int, p *InvestmentPurpose) {
			*p = "yacht"
		}},
		{"negative savings", func(_ *IncomeBand, s *float64, _ *DebtBand, _ *float64, _ *int, _ *int, _ *InvestmentPurpose) {
			*s = -1
		}},
		{"negative budget", func(_ *IncomeBand, _ *float64, _ *DebtBand, b *float64, _ *int, _ *int, _ *InvestmentPurpose) {
			*b = -500
		}},
		{"zero term", func(_ *IncomeBand, _ *float64, _ *DebtBand, _ *float64, term *int, _ *int, _ *InvestmentPurpose) {
			*term = 0
		}},
		{"tolerance too low", func(_ *IncomeBand, _ *float64, _ *DebtBand, _ *float64, _ *int, tol *int, _ *InvestmentPurpose) {
			*tol = 0
		}},
		{"tolerance too high", func(_ *IncomeBand, _ *float64, _ *DebtBand, _ *float64, _ *int, tol *int, _ *InvestmentPurpose) {
			*tol = 6
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			income, savings, debt, budget, term, tolerance, purpose := validProfileArgs()
			tt.mutate(&income, &savings, &debt, &budget, &term, &tolerance, &purpose)

			_, err := NewInvestorProfile(income, savings, debt, budget, term, tolerance, purpose)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrInvalidProfile))
		})
	}
}

func TestLeveraged(t *testing.T) {
	income, _, debt, _, term, tolerance, purpose := validProfileArgs()

	p, err := NewInvestorProfile(income, 1_000, debt, 10_000, term, tolerance, purpose)
	require.NoError(t, err)
	assert.True(t, p.Leveraged())

	// Budget equal to savings is not leverage.
	p, err = NewInvestorProfile(income, 1_000, debt, 1_000, term, tolerance, purpose)
	require.NoError(t, err)
	assert.False(t, p.Leveraged())
}

func TestRepresentativeValues(t *testing.T) {
	assert.Equal(t, 20_000.0, IncomeBandNone.RepresentativeIncome())
	assert.Equal(t, 120_000.0, IncomeBand100KPlus.RepresentativeIncome())
	assert.Equal(t, 0.0, DebtBandNone.RepresentativeDebt())
	assert.Equal(t, 30_000.0, DebtBandOver25K.RepresentativeDebt())
}

func TestEnumOrdering(t *testing.T) {
	// Ordered slices drive prompt vocabularies and UI listings; every member
	// must be valid and the lists complete.
	assert.Len(t, IncomeBands, 6)
	assert.Len(t, DebtBands, 4)
	assert.Len(t, Purposes, 4)
	assert.Len(t, RiskProfiles, 5)

	for _, b := range IncomeBands {
		assert.True(t, b.Valid(), string(b))
	}
	for _, b := range DebtBands {
		assert.True(t, b.Valid(), string(b))
	}
	for _, p := range Purposes {
		assert.True(t, p.Valid(), string(p))
	}
	for _, r := range RiskProfiles {
		assert.True(t, r.Valid(), string(r))
	}

	assert.False(t, IncomeBand("").Valid())
	assert.False(t, RiskProfile("Reckless").Valid())
}
