// Package model defines the core data types shared across the planning pipeline.
package model

import (
	"github.com/rotisserie/eris"
)

// ErrInvalidProfile is the sentinel for profile construction failures.
var ErrInvalidProfile = eris.New("invalid investor profile")

// IncomeBand is an annual income bracket, ordered lowest to highest.
type IncomeBand string

const (
	IncomeBandNone     IncomeBand = "0 - No income / rely on investment returns"
	IncomeBandUnder25K IncomeBand = "Less than 25,000"
	IncomeBand25To50K  IncomeBand = "25,000 - 49,999"
	IncomeBand50To75K  IncomeBand = "50,000 - 74,999"
	IncomeBand75To100K IncomeBand = "75,000 - 99,999"
	IncomeBand100KPlus IncomeBand = "100,000 or more"
)

// IncomeBands lists all income bands in ascending order.
var IncomeBands = []IncomeBand{
	IncomeBandNone,
	IncomeBandUnder25K,
	IncomeBand25To50K,
	IncomeBand50To75K,
	IncomeBand75To100K,
	IncomeBand100KPlus,
}

// representativeIncome maps each band to the notional annual income used by
// the scoring engine. An unmapped band is a construction error, never a
// scoring-time default.
var representativeIncome = map[IncomeBand]float64{
	IncomeBandNone:     20_000,
	IncomeBandUnder25K: 30_000,
	IncomeBand25To50K:  40_000,
	IncomeBand50To75K:  65_000,
	IncomeBand75To100K: 90_000,
	IncomeBand100KPlus: 120_000,
}

// Valid reports whether b is a known income band.
func (b IncomeBand) Valid() bool {
	_, ok := representativeIncome[b]
	return ok
}

// RepresentativeIncome returns the notional annual income for the band.
func (b IncomeBand) RepresentativeIncome() float64 {
	return representativeIncome[b]
}

// DebtBand is an outstanding-debt bracket, ordered none to highest.
type DebtBand string

const (
	DebtBandNone     DebtBand = "No debt"
	DebtBandUnder10K DebtBand = "Less than 10,000"
	DebtBand10To25K  DebtBand = "10,000 - 25,000"
	DebtBandOver25K  DebtBand = "Over 25,000"
)

// DebtBands lists all debt bands in ascending order.
var DebtBands = []DebtBand{
	DebtBandNone,
	DebtBandUnder10K,
	DebtBand10To25K,
	DebtBandOver25K,
}

var representativeDebt = map[DebtBand]float64{
	DebtBandNone:     0,
	DebtBandUnder10K: 5_000,
	DebtBand10To25K:  15_000,
	DebtBandOver25K:  30_000,
}

// Valid reports whether b is a known debt band.
func (b DebtBand) Valid() bool {
	_, ok := representativeDebt[b]
	return ok
}

// RepresentativeDebt returns the notional outstanding debt for the band.
func (b DebtBand) RepresentativeDebt() float64 {
	return representativeDebt[b]
}

// InvestmentPurpose is the client's stated goal for the investment.
type InvestmentPurpose string

const (
	PurposeRetirement InvestmentPurpose = "Retirement savings"
	PurposeEducation  InvestmentPurpose = "Funding education"
	PurposeProperty   InvestmentPurpose = "Buying property"
	PurposeWealth     InvestmentPurpose = "Wealth accumulation"
)

// Purposes lists all investment purposes.
var Purposes = []InvestmentPurpose{
	PurposeRetirement,
	PurposeEducation,
	PurposeProperty,
	PurposeWealth,
}

// Valid reports whether p is a known purpose.
func (p InvestmentPurpose) Valid() bool {
	switch p {
	case PurposeRetirement, PurposeEducation, PurposeProperty, PurposeWealth:
		return true
	}
	return false
}

// RiskProfile is the categorical risk bucket derived from the numeric score,
// ordered by increasing risk appetite. It is produced only by the scoring
// engine, never set directly by callers.
type RiskProfile string

const (
	RiskDefensive    RiskProfile = "Defensive"
	RiskConservative RiskProfile = "Conservative"
	RiskBalanced     RiskProfile = "Balanced"
	RiskGrowth       RiskProfile = "Growth"
	RiskAggressive   RiskProfile = "Aggressive"
)

// RiskProfiles lists all risk profiles in ascending risk order.
var RiskProfiles = []RiskProfile{
	RiskDefensive,
	RiskConservative,
	RiskBalanced,
	RiskGrowth,
	RiskAggressive,
}

// Valid reports whether r is a known risk profile.
func (r RiskProfile) Valid() bool {
	switch r {
	case RiskDefensive, RiskConservative, RiskBalanced, RiskGrowth, RiskAggressive:
		return true
	}
	return false
}

// InvestorProfile describes a client. Values are immutable once constructed;
// a corrected profile is a new instance.
type InvestorProfile struct {
	IncomeBand           IncomeBand        `json:"income_band"`
	Savings              float64           `json:"savings"`
	DebtBand             DebtBand          `json:"debt_band"`
	InvestmentBudget     float64           `json:"investment_budget"`
	InvestmentTermMonths int               `json:"investment_term_months"`
	RiskTolerance        int               `json:"risk_tolerance"`
	InvestmentPurpose    InvestmentPurpose `json:"investment_purpose"`
}

// NewInvestorProfile validates all fields and returns an immutable profile.
// A budget exceeding savings is legal (signals leverage), not an error.
func NewInvestorProfile(
	income IncomeBand,
	savings float64,
	debt DebtBand,
	budget float64,
	termMonths int,
	riskTolerance int,
	purpose InvestmentPurpose,
) (InvestorProfile, error) {
	if !income.Valid() {
		return InvestorProfile{}, eris.Wrapf(ErrInvalidProfile, "model: unknown income band %q", income)
	}
	if !debt.Valid() {
		return InvestorProfile{}, eris.Wrapf(ErrInvalidProfile, "model: unknown debt band %q", debt)
	}
	if !purpose.Valid() {
		return InvestorProfile{}, eris.Wrapf(ErrInvalidProfile, "model: unknown investment purpose %q", purpose)
	}
	if savings < 0 {
		return InvestorProfile{}, eris.Wrapf(ErrInvalidProfile, "model: savings must be >= 0 (got %.2f)", savings)
	}
	if budget < 0 {
		return InvestorProfile{}, eris.Wrapf(ErrInvalidProfile, "model: investment budget must be >= 0 (got %.2f)", budget)
	}
	if termMonths <= 0 {
		return InvestorProfile{}, eris.Wrapf(ErrInvalidProfile, "model: investment term must be > 0 months (got %d)", termMonths)
	}
	if riskTolerance < 1 || riskTolerance > 5 {
		return InvestorProfile{}, eris.Wrapf(ErrInvalidProfile, "model: risk tolerance must be in [1,5] (got %d)", riskTolerance)
	}

	return InvestorProfile{
		IncomeBand:           income,
		Savings:              savings,
		DebtBand:             debt,
		InvestmentBudget:     budget,
		InvestmentTermMonths: termMonths,
		RiskTolerance:        riskTolerance,
		InvestmentPurpose:    purpose,
	}, nil
}

// Leveraged reports whether the proposed budget exceeds current savings.
func (p InvestorProfile) Leveraged() bool {
	return p.InvestmentBudget > p.Savings
}
