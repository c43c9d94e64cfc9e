package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/truevizion/advisor-cli/internal/extract"
	"github.com/truevizion/advisor-cli/internal/model"
	"github.com/truevizion/advisor-cli/internal/recommend"
	"github.com/truevizion/advisor-cli/pkg/anthropic"
)

var batchCmd = &cobra.Command{
	Use:   "batch <input.csv>",
	Short: "Generate plans for a CSV of client descriptions",
	Long: `Reads a CSV with a 'description' column (and optional 'client_id'),
extracts a profile for each row, scores and ranks it, and writes a results
CSV. Extraction calls are rate limited and run concurrently.

Examples:
  batch clients.csv --output plans.csv
  batch clients.csv --limit 50`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.String("output", "", "results CSV path (default: stdout)")
	f.Int("limit", 0, "max rows to process (0 = all)")
	f.Int("top", 0, "number of products to recommend per client")
	f.String("weights", "", "YAML scoring weights override file")
	rootCmd.AddCommand(batchCmd)
}

// batchRow is one input row paired with its outcome.
type batchRow struct {
	index       int
	clientID    string
	description string

	profile model.InvestorProfile
	result  *recommend.Result
	err     error
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("extract"); err != nil {
		return err
	}

	recommender, err := newRecommender(cmd)
	if err != nil {
		return err
	}

	rows, err := readBatchInput(args[0])
	if err != nil {
		return err
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	if len(rows) == 0 {
		return eris.New("batch: no input rows")
	}

	topN, _ := cmd.Flags().GetInt("top")
	if topN <= 0 {
		topN = cfg.Recommend.TopN
	}

	extractor := extract.New(
		anthropic.NewClient(cfg.Anthropic.Key),
		cfg.Anthropic.Model,
		cfg.Anthropic.MaxTokens,
	)

	// Extraction is the expensive step: bound concurrency and rate limit the
	// API calls.
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.Batch.RequestsPerMinute)/60), 1)

	log := zap.L().With(zap.String("command", "batch"))
	log.Info("starting batch",
		zap.Int("rows", len(rows)),
		zap.Int("concurrency", cfg.Batch.Concurrency),
		zap.Int("requests_per_minute", cfg.Batch.RequestsPerMinute),
	)

	var done int64
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Batch.Concurrency)
	for i := range rows {
		row := &rows[i]
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			profile, err := extractor.Extract(gctx, row.description)
			if err != nil {
				// A bad row should not sink the batch.
				row.err = err
				log.Warn("extraction failed",
					zap.String("client_id", row.clientID),
					zap.Error(err),
				)
				return nil
			}
			row.profile = profile

			result, err := recommender.Recommend(profile, topN)
			if err != nil {
				row.err = err
				return nil
			}
			row.result = result

			mu.Lock()
			done++
			if done%25 == 0 {
				log.Info("batch progress", zap.Int64("completed", done), zap.Int("total", len(rows)))
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch: aborted")
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "batch: create %s", path)
		}
		defer f.Close()
		out = f
	}
	if err := writeBatchResults(out, rows); err != nil {
		return err
	}

	log.Info("batch complete", zap.Int64("succeeded", done), zap.Int("total", len(rows)))
	return nil
}

// readBatchInput loads the input CSV. The header must carry a description
// column; client_id is optional.
func readBatchInput(path string) ([]batchRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "batch: read header")
	}

	descIdx, idIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "description", "client_text":
			descIdx = i
		case "client_id", "id":
			idIdx = i
		}
	}
	if descIdx == -1 {
		return nil, eris.New("batch: input CSV needs a 'description' column")
	}

	var rows []batchRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "batch: read row")
		}
		if descIdx >= len(record) || strings.TrimSpace(record[descIdx]) == "" {
			continue
		}

		row := batchRow{
			index:       len(rows),
			description: record[descIdx],
		}
		if idIdx >= 0 && idIdx < len(record) {
			row.clientID = strings.TrimSpace(record[idIdx])
		}
		if row.clientID == "" {
			row.clientID = fmt.Sprintf("row-%d", len(rows)+1)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeBatchResults(out io.Writer, rows []batchRow) error {
	w := csv.NewWriter(out)
	header := []string{"client_id", "risk_score", "risk_profile", "top_product", "recommendations", "error"}
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "batch: write header")
	}

	for _, row := range rows {
		record := []string{row.clientID, "", "", "", "", ""}
		switch {
		case row.err != nil:
			record[5] = row.err.Error()
		case row.result != nil:
			record[1] = strconv.FormatFloat(row.result.Score, 'f', 1, 64)
			record[2] = string(row.result.RiskProfile)
			if len(row.result.Recommendations) > 0 {
				record[3] = row.result.Recommendations[0].ProductName
			}
			record[4] = strconv.Itoa(len(row.result.Recommendations))
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "batch: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "batch: flush results")
	}
	return nil
}
