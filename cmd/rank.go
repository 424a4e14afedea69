package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/water-intel/internal/dashboard"
	"github.com/sells-group/water-intel/internal/export"
	"github.com/sells-group/water-intel/internal/model"
	"github.com/sells-group/water-intel/internal/rank"
	"github.com/sells-group/water-intel/internal/scorer"
	"github.com/sells-group/water-intel/internal/store"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Score districts and print the ranked city table",
	Long: `Loads the stored cities, scores every water district once, and prints the
filtered city rows sorted by score.

Examples:
  # Tier-coloured table of every city
  rank

  # Collin County cities with approved APL plans, as CSV
  rank --county Collin --apl Approved --format csv --output collin.csv

  # Districts with at least $500M annual budget, as a workbook
  rank --min-budget 500 --format xlsx --output rankings.xlsx`,
	RunE: runRankCmd,
}

func init() {
	f := rankCmd.Flags()
	f.StringSlice("county", nil, "county filter, repeatable (default: all)")
	f.StringSlice("district", nil, "water district filter, repeatable (default: all)")
	f.StringSlice("apl", nil, "APL status filter, repeatable (default: all)")
	f.Int64("min-budget", 0, "minimum district annual budget in millions")
	f.String("format", "table", "output format: table, csv, xlsx or json")
	f.String("output", "", "output file path (default: stdout; required for xlsx)")
	rootCmd.AddCommand(rankCmd)
}

type rankOptions struct {
	Selection rank.Selection
	Format    string
	Output    string
}

func rankOptionsFrom(cmd *cobra.Command) (rankOptions, error) {
	counties, _ := cmd.Flags().GetStringSlice("county")
	districts, _ := cmd.Flags().GetStringSlice("district")
	apl, _ := cmd.Flags().GetStringSlice("apl")
	minBudget, _ := cmd.Flags().GetInt64("min-budget")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	opts := rankOptions{
		Selection: rank.Selection{
			Counties:          rank.ParseChoice(counties),
			Districts:         rank.ParseChoice(districts),
			APLStatuses:       rank.ParseChoice(apl),
			MinBudgetMillions: minBudget,
		},
		Format: format,
		Output: output,
	}
	return opts, opts.validate()
}

func (o rankOptions) validate() error {
	switch o.Format {
	case "table", "csv", "json":
	case "xlsx":
		if o.Output == "" {
			return eris.New("rank: --output is required for xlsx")
		}
	default:
		return eris.Errorf("rank: --format must be table, csv, xlsx or json (got %q)", o.Format)
	}
	if o.Selection.MinBudgetMillions < dashboard.SliderMin || o.Selection.MinBudgetMillions > dashboard.SliderMax {
		return eris.Errorf("rank: --min-budget must be between %d and %d", dashboard.SliderMin, dashboard.SliderMax)
	}
	return nil
}

func runRankCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, err := rankOptionsFrom(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate("store", "scorer"); err != nil {
		return err
	}

	st, err := initStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	sc, err := initScorer(ctx, cfg, nil)
	if err != nil {
		return err
	}

	return runRank(ctx, st, sc, opts, cmd.OutOrStdout())
}

// runRank scores, filters and writes the ranked rows. Scoring failures are
// logged and leave the affected rows unscored.
func runRank(ctx context.Context, st store.Store, sc dashboard.DistrictScorer, opts rankOptions, stdout io.Writer) error {
	log := zap.L().With(zap.String("command", "rank"))

	tables, err := store.LoadTables(ctx, st)
	if err != nil {
		return err
	}

	batch := &scorer.Batch{Results: map[string]model.ScoreResult{}}
	if len(tables.Districts) > 0 {
		batch = sc.ScoreAll(ctx, tables.Districts)
	}
	for _, f := range batch.Failures {
		log.Warn("district not scored", zap.String("district", f.District), zap.String("reason", string(f.Reason)))
	}

	rows := rank.Display(rank.Rank(tables.Cities, batch.Results, opts.Selection))
	log.Info("ranking complete",
		zap.Int("cities", len(rows)),
		zap.Int("scored_districts", len(batch.Results)),
		zap.Int("failed_districts", len(batch.Failures)),
	)

	w := stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return eris.Wrap(err, "rank: create output")
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	switch opts.Format {
	case "csv":
		return export.WriteCSV(w, rows)
	case "xlsx":
		return export.WriteXLSX(w, rows)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rows), "rank: encode json")
	default:
		if len(rows) == 0 {
			_, err := fmt.Fprintln(w, "No cities match the selected filters.")
			return err
		}
		_, err := fmt.Fprint(w, export.Table("District Rankings", rows))
		return err
	}
}
