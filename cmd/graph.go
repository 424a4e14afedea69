package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/water-intel/internal/graph"
	"github.com/sells-group/water-intel/internal/rank"
	"github.com/sells-group/water-intel/internal/store"
)

var (
	graphLayout string
	graphOutput string
	graphCounty []string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Write the county/district/city relationship graph as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		layout, err := graph.ParseLayout(graphLayout)
		if err != nil {
			return err
		}
		if err := cfg.Validate("store"); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		w := cmd.OutOrStdout()
		if graphOutput != "" {
			f, err := os.Create(graphOutput)
			if err != nil {
				return eris.Wrap(err, "graph: create output")
			}
			defer f.Close() //nolint:errcheck
			w = f
		}

		sel := rank.AllSelection()
		sel.Counties = rank.ParseChoice(graphCounty)
		return writeGraph(ctx, st, layout, sel, w)
	},
}

func init() {
	graphCmd.Flags().StringVar(&graphLayout, "layout", "hierarchical", "graph layout: flat or hierarchical")
	graphCmd.Flags().StringVar(&graphOutput, "output", "", "output file path (default: stdout)")
	graphCmd.Flags().StringSliceVar(&graphCounty, "county", nil, "only include cities in these counties")
	rootCmd.AddCommand(graphCmd)
}

func writeGraph(ctx context.Context, st store.Store, layout graph.Layout, sel rank.Selection, w io.Writer) error {
	tables, err := store.LoadTables(ctx, st)
	if err != nil {
		return err
	}
	g := graph.Build(graph.Input{
		Counties:  tables.Counties,
		Districts: tables.Districts,
		Cities:    rank.ApplyFilters(tables.Cities, sel),
	}, layout)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(g), "graph: encode")
}
