package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/truevizion/advisor-cli/internal/extract"
	"github.com/truevizion/advisor-cli/internal/report"
	"github.com/truevizion/advisor-cli/internal/store"
	"github.com/truevizion/advisor-cli/pkg/anthropic"
)

var planCmd = &cobra.Command{
	Use:   "plan [client description]",
	Short: "Generate an investment plan from a free-text client description",
	Long: `Extracts a structured investor profile from free text via Claude, scores it,
ranks the product catalog, and prints a plan report.

The description comes from the argument, --file, or stdin.

Examples:
  # Inline description
  plan "Maria earns 4,000 per month, has 30k savings, wants to invest 10k for retirement over 10 years"

  # From a file, saving the plan to history
  plan --file client.txt --save

  # Machine-readable output
  plan --file client.txt --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	f := planCmd.Flags()
	f.String("file", "", "read the client description from a file")
	f.Bool("save", false, "save the plan to history")
	f.Bool("json", false, "emit the plan as JSON instead of a report")
	f.Int("top", 0, "number of products to recommend (default from config)")
	f.String("weights", "", "YAML scoring weights override file")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("extract"); err != nil {
		return err
	}

	text, err := planInput(cmd, args)
	if err != nil {
		return err
	}

	recommender, err := newRecommender(cmd)
	if err != nil {
		return err
	}

	extractor := extract.New(
		anthropic.NewClient(cfg.Anthropic.Key),
		cfg.Anthropic.Model,
		cfg.Anthropic.MaxTokens,
	)

	profile, err := extractor.Extract(ctx, text)
	if err != nil {
		return eris.Wrap(err, "plan: extract profile")
	}

	topN, _ := cmd.Flags().GetInt("top")
	if topN <= 0 {
		topN = cfg.Recommend.TopN
	}

	result, err := recommender.Recommend(profile, topN)
	if err != nil {
		return eris.Wrap(err, "plan: recommend")
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		st, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "plan: open store")
		}
		defer st.Close()

		plan := &store.PlanRecord{
			Profile:         profile,
			Score:           result.Score,
			RiskProfile:     result.RiskProfile,
			Recommendations: result.Recommendations,
		}
		if err := st.SavePlan(ctx, plan); err != nil {
			return eris.Wrap(err, "plan: save")
		}
		zap.L().Info("plan saved", zap.String("plan_id", plan.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "Plan saved: %s\n\n", plan.ID)
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"profile":         profile,
			"score":           result.Score,
			"breakdown":       result.Breakdown,
			"risk_profile":    result.RiskProfile,
			"recommendations": result.Recommendations,
		})
	}

	doc := report.NewBuilder().Build(report.Input{
		Profile:         profile,
		Score:           result.Score,
		Breakdown:       result.Breakdown,
		RiskProfile:     result.RiskProfile,
		Recommendations: result.Recommendations,
		GeneratedAt:     time.Now(),
	})
	fmt.Fprint(cmd.OutOrStdout(), doc)
	return nil
}

// planInput resolves the client description from argument, file, or stdin.
func planInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", eris.Wrapf(err, "plan: read %s", path)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", eris.Wrap(err, "plan: read stdin")
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", eris.New("plan: no client description given (argument, --file, or stdin)")
	}
	return text, nil
}
