package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/truevizion/advisor-cli/internal/model"
	"github.com/truevizion/advisor-cli/internal/store"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List saved plans",
	Long: `Lists plans saved with 'plan --save', newest first.

Examples:
  plans --limit 20
  plans --risk-profile Balanced --json`,
	RunE: runPlans,
}

func init() {
	f := plansCmd.Flags()
	f.Int("limit", 20, "maximum number of plans to list")
	f.String("risk-profile", "", "filter by risk profile label")
	f.Bool("json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(plansCmd)
}

func runPlans(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	riskProfile, _ := cmd.Flags().GetString("risk-profile")

	plans, err := st.ListPlans(ctx, store.PlanFilter{
		RiskProfile: model.RiskProfile(riskProfile),
		Limit:       limit,
	})
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(plans)
	}

	if len(plans) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved plans.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSCORE\tPROFILE\tPRODUCTS")
	for _, p := range plans {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\t%d\n",
			p.ID, p.CreatedAt.Format("2006-01-02 15:04"),
			p.Score, p.RiskProfile, len(p.Recommendations))
	}
	return w.Flush()
}
