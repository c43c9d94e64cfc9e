package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/truevizion/advisor-cli/internal/catalog"
	"github.com/truevizion/advisor-cli/internal/recommend"
	"github.com/truevizion/advisor-cli/internal/riskscore"
	"github.com/truevizion/advisor-cli/internal/store"
)

// catalogCache is created once per invocation; the catalog file itself loads
// lazily on first use.
func catalogCache() *catalog.Cache {
	return catalog.NewCache(cfg.Catalog.Path)
}

// scoringWeights resolves the weights: the config-level override file, an
// explicit --weights flag if the command defines one, else defaults.
func scoringWeights(cmd *cobra.Command) (riskscore.Weights, error) {
	path := cfg.Recommend.WeightsPath
	if cmd.Flags().Lookup("weights") != nil {
		if flagPath, _ := cmd.Flags().GetString("weights"); flagPath != "" {
			path = flagPath
		}
	}
	if path == "" {
		return riskscore.DefaultWeights(), nil
	}
	return riskscore.LoadWeights(path)
}

// newRecommender assembles a Recommender over the configured catalog.
func newRecommender(cmd *cobra.Command) (*recommend.Recommender, error) {
	if err := cfg.Validate("catalog"); err != nil {
		return nil, err
	}
	weights, err := scoringWeights(cmd)
	if err != nil {
		return nil, err
	}
	return recommend.New(catalogCache(), weights), nil
}

// openStore opens the configured plan history backend and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}

	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		st, err = store.NewSQLite(cfg.Store.SQLitePath)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}
