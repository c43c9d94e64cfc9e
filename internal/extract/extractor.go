// Package extract turns free-text client descriptions into structured
// investor profiles via the Anthropic API. It is the only component that
// talks to the network; the scoring core never sees anything but a validated
// profile.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/truevizion/advisor-cli/internal/model"
	"github.com/truevizion/advisor-cli/pkg/anthropic"
)

// ErrExtraction is the sentinel for extraction failures (network errors,
// unparseable model output). Callers must not pass a partially extracted
// profile into scoring; Extract only returns fully validated profiles.
var ErrExtraction = eris.New("profile extraction failed")

const systemPrompt = "You are a strict JSON extraction engine. " +
	"Return ONLY valid JSON with the specified schema. No extra text."

// Defaults applied when the text leaves a field unstated.
const (
	defaultTermMonths    = 60
	defaultRiskTolerance = 3
)

// Extractor extracts investor profiles from free text.
type Extractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// New creates an Extractor using the given client and model ID.
func New(client anthropic.Client, modelID string, maxTokens int64) *Extractor {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &Extractor{client: client, model: modelID, maxTokens: maxTokens}
}

// rawProfile mirrors the JSON schema the model is asked to produce.
type rawProfile struct {
	AnnualIncomeGBP      *float64 `json:"annual_income_gbp"`
	Savings              *float64 `json:"savings"`
	DebtLevel            string   `json:"debt_level"`
	InvestmentBudget     *float64 `json:"investment_budget"`
	InvestmentTermMonths *int     `json:"investment_term_months"`
	RiskTolerance        *int     `json:"risk_tolerance"`
	InvestmentPurpose    string   `json:"investment_purpose"`
}

// Extract asks the model for a structured profile and validates the result.
// The returned profile always passes model.NewInvestorProfile.
func (e *Extractor) Extract(ctx context.Context, text string) (model.InvestorProfile, error) {
	if strings.TrimSpace(text) == "" {
		return model.InvestorProfile{}, eris.Wrap(ErrExtraction, "extract: empty input text")
	}

	temp := 0.0
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.model,
		MaxTokens:   e.maxTokens,
		System:      systemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: buildPrompt(text)}},
		Temperature: &temp,
	})
	if err != nil {
		return model.InvestorProfile{}, eris.Wrap(err, "extract: create message")
	}
	resp.Usage.LogUsage(e.model, "extract")

	raw, err := parseJSON(resp.Text)
	if err != nil {
		return model.InvestorProfile{}, err
	}

	profile, err := raw.toProfile()
	if err != nil {
		return model.InvestorProfile{}, err
	}

	zap.L().Info("profile extracted",
		zap.String("income_band", string(profile.IncomeBand)),
		zap.String("purpose", string(profile.InvestmentPurpose)),
		zap.Int("risk_tolerance", profile.RiskTolerance),
	)
	return profile, nil
}

// buildPrompt assembles the extraction prompt. The model infers annual income
// first (converting monthly/weekly amounts), then fills categorical fields
// from the allowed vocabularies.
func buildPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("Extract an investor profile from the text.\n\n")
	sb.WriteString("Step 1: infer the client's ANNUAL income in GBP. If the text gives a monthly or weekly amount, convert it to annual.\n")
	sb.WriteString("Examples:\n")
	sb.WriteString("- \"5,000 per month\" -> annual_income_gbp = 60000\n")
	sb.WriteString("- \"800 per week\" -> annual_income_gbp = 41600\n\n")

	sb.WriteString("Allowed categorical values:\n")
	sb.WriteString("- debt_level: one of [")
	for i, b := range model.DebtBands {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", string(b))
	}
	sb.WriteString("]\n")
	sb.WriteString("- investment_purpose: one of [")
	for i, p := range model.Purposes {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", string(p))
	}
	sb.WriteString("]\n\n")

	sb.WriteString("Also extract numeric fields (all in GBP unless stated otherwise):\n")
	sb.WriteString("- annual_income_gbp (number, per year, after conversion if needed)\n")
	sb.WriteString("- savings (number)\n")
	sb.WriteString("- investment_budget (number)\n")
	sb.WriteString("- investment_term_months (integer, best estimate if not stated)\n")
	sb.WriteString("- risk_tolerance (integer 1-5)\n\n")

	sb.WriteString("Return ONLY valid JSON with these fields:\n")
	sb.WriteString(`{
  "annual_income_gbp": 0,
  "savings": 0,
  "debt_level": "...",
  "investment_budget": 0,
  "investment_term_months": 0,
  "risk_tolerance": 1,
  "investment_purpose": "..."
}`)
	sb.WriteString("\n\nUser text:\n\"\"\"")
	sb.WriteString(text)
	sb.WriteString("\"\"\"")
	return sb.String()
}

// parseJSON decodes the model output. If the output is not bare JSON
// (e.g. wrapped in prose or a code fence), it falls back to the outermost
// brace pair.
func parseJSON(raw string) (rawProfile, error) {
	raw = strings.TrimSpace(raw)

	var rp rawProfile
	if err := json.Unmarshal([]byte(raw), &rp); err == nil {
		return rp, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return rawProfile{}, eris.Wrapf(ErrExtraction, "extract: model did not return JSON: %.120s", raw)
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &rp); err != nil {
		return rawProfile{}, eris.Wrapf(ErrExtraction, "extract: parse model JSON: %v", err)
	}
	return rp, nil
}

// toProfile applies defaults for unstated fields and runs full validation.
func (r rawProfile) toProfile() (model.InvestorProfile, error) {
	var annualIncome float64
	if r.AnnualIncomeGBP != nil {
		annualIncome = *r.AnnualIncomeGBP
	}

	var savings, budget float64
	if r.Savings != nil {
		savings = *r.Savings
	}
	if r.InvestmentBudget != nil {
		budget = *r.InvestmentBudget
	}

	term := defaultTermMonths
	if r.InvestmentTermMonths != nil && *r.InvestmentTermMonths > 0 {
		term = *r.InvestmentTermMonths
	}

	tolerance := defaultRiskTolerance
	if r.RiskTolerance != nil && *r.RiskTolerance != 0 {
		tolerance = *r.RiskTolerance
	}

	debt := model.DebtBandNone
	if r.DebtLevel != "" {
		debt = model.DebtBand(strings.TrimSpace(r.DebtLevel))
	}

	purpose := model.PurposeWealth
	if r.InvestmentPurpose != "" {
		purpose = model.InvestmentPurpose(strings.TrimSpace(r.InvestmentPurpose))
	}

	profile, err := model.NewInvestorProfile(
		InferIncomeBand(annualIncome),
		savings,
		debt,
		budget,
		term,
		tolerance,
		purpose,
	)
	if err != nil {
		return model.InvestorProfile{}, eris.Wrapf(ErrExtraction, "extract: %v", err)
	}
	return profile, nil
}

// InferIncomeBand maps a numeric annual income to an income band. A zero or
// negative income falls to the lowest band.
func InferIncomeBand(annualIncome float64) model.IncomeBand {
	switch {
	case annualIncome <= 0:
		return model.IncomeBandNone
	case annualIncome < 25_000:
		return model.IncomeBandUnder25K
	case annualIncome < 50_000:
		return model.IncomeBand25To50K
	case annualIncome < 75_000:
		return model.IncomeBand50To75K
	case annualIncome < 100_000:
		return model.IncomeBand75To100K
	default:
		return model.IncomeBand100KPlus
	}
}
