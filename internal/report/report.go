// Package report renders a formatted investment plan document from the
// profile, risk assessment, and recommendation list.
package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/truevizion/advisor-cli/internal/model"
	"github.com/truevizion/advisor-cli/internal/projection"
	"github.com/truevizion/advisor-cli/internal/riskscore"
)

const riskNote = "This risk profile is based on the client's risk tolerance, " +
	"capacity for loss, time horizon, savings, debt level, and investment " +
	"amount. It is illustrative and does not constitute regulated financial advice."

const disclaimer = "Disclaimer: This report is generated by an automated " +
	"prototype for demonstration purposes only. It does not constitute " +
	"personal investment advice, a recommendation, or a suitability " +
	"assessment under any regulatory framework."

// Input carries everything the report needs. The four core values mirror the
// planner output: profile, numeric score, risk profile, recommendations.
type Input struct {
	Profile         model.InvestorProfile
	Score           float64
	Breakdown       riskscore.Breakdown
	RiskProfile     model.RiskProfile
	Recommendations []model.Recommendation
	GeneratedAt     time.Time
}

// Builder renders plan reports with locale-aware currency formatting.
type Builder struct {
	printer *message.Printer
}

// NewBuilder creates a Builder. Amounts render in GBP with grouped thousands.
func NewBuilder() *Builder {
	return &Builder{printer: message.NewPrinter(language.BritishEnglish)}
}

// Build renders the full plan document as text.
func (b *Builder) Build(in Input) string {
	var sb strings.Builder

	ts := in.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	sb.WriteString("Investment Plan Summary\n")
	fmt.Fprintf(&sb, "Generated on %s\n\n", ts.Format("02 Jan 2006 15:04"))

	sb.WriteString("Client Profile\n")
	sb.WriteString("--------------\n")
	fmt.Fprintf(&sb, "Income bracket: %s\n", in.Profile.IncomeBand)
	fmt.Fprintf(&sb, "Savings: %s\n", b.money(in.Profile.Savings))
	fmt.Fprintf(&sb, "Debt level: %s\n", in.Profile.DebtBand)
	fmt.Fprintf(&sb, "Amount to invest now: %s\n", b.money(in.Profile.InvestmentBudget))
	fmt.Fprintf(&sb, "Investment term: %s\n", projection.FormatDuration(in.Profile.InvestmentTermMonths))
	fmt.Fprintf(&sb, "Risk tolerance (1-5): %d\n", in.Profile.RiskTolerance)
	fmt.Fprintf(&sb, "Investment purpose: %s\n\n", in.Profile.InvestmentPurpose)

	sb.WriteString("Risk Assessment\n")
	sb.WriteString("---------------\n")
	fmt.Fprintf(&sb, "Risk score: %.1f\n", in.Score)
	fmt.Fprintf(&sb, "Assigned risk profile: %s\n", in.RiskProfile)
	fmt.Fprintf(&sb, "Components: tolerance %.0f, capacity %.0f, time horizon %.0f, stability %.0f, knowledge %.0f, leverage penalty %.0f\n\n",
		in.Breakdown.Tolerance, in.Breakdown.Capacity, in.Breakdown.TimeHorizon,
		in.Breakdown.Stability, in.Breakdown.Knowledge, in.Breakdown.LeveragePenalty)
	sb.WriteString(riskNote)
	sb.WriteString("\n\n")

	sb.WriteString("Recommended Products\n")
	sb.WriteString("--------------------\n")
	if len(in.Recommendations) == 0 {
		sb.WriteString("No suitable products were found for this profile.\n")
	} else {
		for i, rec := range in.Recommendations {
			b.writeRecommendation(&sb, i, rec, in.Profile)
		}
	}

	sb.WriteString("\n")
	sb.WriteString(disclaimer)
	sb.WriteString("\n")

	return sb.String()
}

func (b *Builder) writeRecommendation(sb *strings.Builder, idx int, rec model.Recommendation, p model.InvestorProfile) {
	heading := fmt.Sprintf("%d. %s", idx+1, rec.ProductName)
	if idx == 0 {
		heading += " (Best match)"
	}
	sb.WriteString(heading)
	sb.WriteString("\n")

	fmt.Fprintf(sb, "   Type: %s\n", rec.ProductType)
	fmt.Fprintf(sb, "   Risk level: %d\n", rec.RiskLevel)
	fmt.Fprintf(sb, "   Minimum term: %d months\n", rec.MinTermMonths)
	fmt.Fprintf(sb, "   Minimum investment: %s\n", b.money(rec.MinInvestment))

	if rec.ExpectedReturnPct != nil {
		fmt.Fprintf(sb, "   Indicative annual return: %.1f%% (illustrative only, not guaranteed)\n",
			*rec.ExpectedReturnPct)
	}

	proj := projection.ForRecommendation(rec, p.InvestmentBudget, p.InvestmentTermMonths)
	switch proj.Status {
	case model.ProjectionComputed:
		fmt.Fprintf(sb, "   If you invest %s for %s, the projected value could be about %s (gain of ~%s).\n",
			b.money(proj.Principal),
			projection.FormatDuration(proj.TermMonths),
			b.money(proj.FutureValue),
			b.money(proj.Gain),
		)
	case model.ProjectionBelowMinimum:
		sb.WriteString("   Client budget is below the minimum investment, so projection is not shown.\n")
	}
	sb.WriteString("\n")
}

// money formats an amount as whole pounds with grouped thousands.
func (b *Builder) money(v float64) string {
	return b.printer.Sprintf("£%.0f", v)
}
