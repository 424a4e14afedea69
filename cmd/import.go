package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/water-intel/internal/importer"
	"github.com/sells-group/water-intel/internal/ocr"
)

var (
	importReportPath    string
	importHierarchyPath string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the district ranking report and the county hierarchy",
	Long: `Reads the water district ranking report (PDF, or text already extracted from
it) and the verified county/district/city markdown, and upserts counties,
districts and cities by name. Running it twice leaves the same rows.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if importReportPath == "" && importHierarchyPath == "" {
			return eris.New("import: --report or --hierarchy is required")
		}
		if err := cfg.Validate("store"); err != nil {
			return err
		}

		extractor, err := ocr.NewExtractor(cfg.Import.OCR)
		if err != nil {
			return err
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "import: migrate")
		}

		sum, err := importer.New(st, extractor).Run(ctx, importer.Sources{
			ReportPath:    importReportPath,
			HierarchyPath: importHierarchyPath,
		})
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.Int("report_districts", sum.ReportDistricts),
			zap.Int("counties", sum.Counties),
			zap.Int("matched_districts", sum.MatchedDistricts),
			zap.Int("new_districts", sum.NewDistricts),
			zap.Int("cities", sum.Cities),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importReportPath, "report", "", "path to the ranking report (PDF or text)")
	importCmd.Flags().StringVar(&importHierarchyPath, "hierarchy", "", "path to the county hierarchy markdown")
	rootCmd.AddCommand(importCmd)
}
