package main

import (
	"github.com/spf13/cobra"

	"github.com/truevizion/advisor-cli/internal/model"
)

// registerProfileFlags adds the structured-profile flags shared by the score
// and recommend commands.
func registerProfileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("income", string(model.IncomeBand25To50K), "income band label")
	f.Float64("savings", 0, "current savings (GBP)")
	f.String("debt", string(model.DebtBandNone), "debt band label")
	f.Float64("budget", 0, "amount to invest now (GBP)")
	f.Int("term", 60, "investment term in months")
	f.Int("tolerance", 3, "risk tolerance 1-5")
	f.String("purpose", string(model.PurposeWealth), "investment purpose label")
}

// profileFromFlags builds and validates an InvestorProfile from CLI flags.
func profileFromFlags(cmd *cobra.Command) (model.InvestorProfile, error) {
	income, _ := cmd.Flags().GetString("income")
	savings, _ := cmd.Flags().GetFloat64("savings")
	debt, _ := cmd.Flags().GetString("debt")
	budget, _ := cmd.Flags().GetFloat64("budget")
	term, _ := cmd.Flags().GetInt("term")
	tolerance, _ := cmd.Flags().GetInt("tolerance")
	purpose, _ := cmd.Flags().GetString("purpose")

	return model.NewInvestorProfile(
		model.IncomeBand(income),
		savings,
		model.DebtBand(debt),
		budget,
		term,
		tolerance,
		model.InvestmentPurpose(purpose),
	)
}
