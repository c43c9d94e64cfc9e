package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/truevizion/advisor-cli/internal/riskscore"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an investor profile given via flags",
	Long: `Computes the composite risk score and risk profile for a structured
investor profile.

Examples:
  # Balanced mid-income saver
  score --income "25,000 - 49,999" --savings 20000 --budget 10000 --term 120 --tolerance 3

  # Custom weights
  score --tolerance 5 --term 360 --weights weights.yaml --json`,
	RunE: runScore,
}

func init() {
	registerProfileFlags(scoreCmd)
	scoreCmd.Flags().String("weights", "", "YAML scoring weights override file")
	scoreCmd.Flags().Bool("json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	profile, err := profileFromFlags(cmd)
	if err != nil {
		return err
	}

	weights, err := scoringWeights(cmd)
	if err != nil {
		return err
	}
	if err := weights.Validate(); err != nil {
		return err
	}

	score, breakdown := riskscore.Score(profile, weights)
	riskProfile := riskscore.Classify(score)

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"profile":      profile,
			"score":        score,
			"risk_profile": riskProfile,
			"breakdown":    breakdown,
		})
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Risk score\t%.1f\n", score)
	fmt.Fprintf(w, "Risk profile\t%s\n", riskProfile)
	fmt.Fprintf(w, "Tolerance\t%.1f\n", breakdown.Tolerance)
	fmt.Fprintf(w, "Capacity\t%.1f\n", breakdown.Capacity)
	fmt.Fprintf(w, "Time horizon\t%.1f\n", breakdown.TimeHorizon)
	fmt.Fprintf(w, "Stability\t%.1f\n", breakdown.Stability)
	fmt.Fprintf(w, "Knowledge\t%.1f\n", breakdown.Knowledge)
	fmt.Fprintf(w, "Leverage penalty\t%.1f\n", breakdown.LeveragePenalty)
	return w.Flush()
}
