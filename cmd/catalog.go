package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/truevizion/advisor-cli/internal/catalog"
	"github.com/truevizion/advisor-cli/internal/model"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and inspect the product catalog",
	Long: `Loads the configured catalog file (.csv or .xlsx), reporting any parse or
label errors, and prints the products.

Examples:
  catalog
  catalog --path data/product_catalog.xlsx`,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().String("path", "", "catalog file (default from config)")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("path")
	if path == "" {
		if err := cfg.Validate("catalog"); err != nil {
			return err
		}
		path = cfg.Catalog.Path
	}

	cat, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Catalog OK: %d products (%s)\n\n", cat.Len(), path)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tTYPE\tRISK\tPROFILES\tPURPOSES\tMIN TERM\tMIN INVEST\tRETURN")
	for _, p := range cat.Products() {
		rate := "-"
		if p.ExpectedReturnPct != nil {
			rate = fmt.Sprintf("%.1f%%", *p.ExpectedReturnPct)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%d mo\t%.0f\t%s\n",
			p.Name, p.Type, p.RiskLevel,
			joinProfiles(p.SuitableRiskProfiles),
			joinPurposes(p.SuitablePurposes),
			p.MinTermMonths, p.MinInvestment, rate)
	}
	return w.Flush()
}

func joinProfiles(profiles []model.RiskProfile) string {
	labels := make([]string, len(profiles))
	for i, p := range profiles {
		labels[i] = string(p)
	}
	return strings.Join(labels, ";")
}

func joinPurposes(purposes []model.InvestmentPurpose) string {
	labels := make([]string, len(purposes))
	for i, p := range purposes {
		labels[i] = string(p)
	}
	return strings.Join(labels, ";")
}
