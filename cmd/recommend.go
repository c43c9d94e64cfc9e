package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/truevizion/advisor-cli/internal/model"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank catalog products for an investor profile",
	Long: `Scores the profile, filters the catalog on the derived risk profile, and
prints the ranked recommendations.

Examples:
  recommend --income "50,000 - 74,999" --savings 40000 --budget 15000 --term 120 --tolerance 4 --purpose "Retirement savings"

  # Export as CSV
  recommend --budget 5000 --format csv --output recs.csv`,
	RunE: runRecommend,
}

func init() {
	registerProfileFlags(recommendCmd)
	f := recommendCmd.Flags()
	f.Int("top", 0, "number of products to recommend (default from config)")
	f.String("weights", "", "YAML scoring weights override file")
	f.String("format", "table", "output format: table, json, or csv")
	f.String("output", "", "output file path (default: stdout)")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" && format != "csv" {
		return eris.Errorf("recommend: --format must be table, json, or csv (got %q)", format)
	}

	profile, err := profileFromFlags(cmd)
	if err != nil {
		return err
	}

	recommender, err := newRecommender(cmd)
	if err != nil {
		return err
	}

	topN, _ := cmd.Flags().GetInt("top")
	if topN <= 0 {
		topN = cfg.Recommend.TopN
	}

	result, err := recommender.Recommend(profile, topN)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "recommend: create %s", path)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)

	case "csv":
		w := csv.NewWriter(out)
		if err := w.Write([]string{"product_name", "product_type", "risk_level", "min_term_months", "min_investment", "expected_return_pct"}); err != nil {
			return eris.Wrap(err, "recommend: write csv header")
		}
		for _, rec := range result.Recommendations {
			rate := ""
			if rec.ExpectedReturnPct != nil {
				rate = strconv.FormatFloat(*rec.ExpectedReturnPct, 'f', 2, 64)
			}
			row := []string{
				rec.ProductName,
				rec.ProductType,
				strconv.Itoa(rec.RiskLevel),
				strconv.Itoa(rec.MinTermMonths),
				strconv.FormatFloat(rec.MinInvestment, 'f', 2, 64),
				rate,
			}
			if err := w.Write(row); err != nil {
				return eris.Wrap(err, "recommend: write csv row")
			}
		}
		w.Flush()
		return eris.Wrap(w.Error(), "recommend: flush csv")

	default:
		fmt.Fprintf(out, "Risk score: %.1f  Profile: %s\n\n", result.Score, result.RiskProfile)
		if len(result.Recommendations) == 0 {
			fmt.Fprintln(out, "No suitable products found for this profile.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tPRODUCT\tTYPE\tRISK\tMIN TERM\tMIN INVEST\tRETURN")
		for i, rec := range result.Recommendations {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d mo\t%.0f\t%s\n",
				i+1, rec.ProductName, rec.ProductType, rec.RiskLevel,
				rec.MinTermMonths, rec.MinInvestment, formatRate(rec))
		}
		return w.Flush()
	}
}

func formatRate(rec model.Recommendation) string {
	if rec.ExpectedReturnPct == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *rec.ExpectedReturnPct)
}
