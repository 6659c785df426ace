package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"atrad-tracker/internal/export"
	"atrad-tracker/internal/models"
	"atrad-tracker/internal/recommend"
)

// addExportCommands adds the export command group and the report command.
func addExportCommands(rootCmd *cobra.Command, app *App) {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export portfolio analysis documents",
		Long: `Export the rebuilt portfolio in several formats.

Files are written to the configured export directory unless -o is given.
Use '-o -' to write to stdout.`,
	}
	cmd.PersistentFlags().StringVarP(&outPath, "output", "o", "", "output file path, or '-' for stdout")

	cmd.AddCommand(&cobra.Command{
		Use:   "csv",
		Short: "Export lot analysis as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			holdings, _, err := app.buildHoldings(cmd.Context())
			if err != nil {
				return err
			}
			content := export.LotAnalysisCSV(holdings)
			return app.writeExport(cmd, outPath, defaultExportName("portfolio-lot-analysis", "csv"), content)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "markdown",
		Short: "Export lot analysis as markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			holdings, _, err := app.buildHoldings(cmd.Context())
			if err != nil {
				return err
			}
			splits, err := app.loadSplits(cmd.Context())
			if err != nil {
				return err
			}
			content := export.LotAnalysisMarkdown(holdings, splits, time.Now())
			return app.writeExport(cmd, outPath, defaultExportName("portfolio-lot-analysis", "md"), content)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ai-json",
		Short: "Export AI analysis metadata as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			holdings, actionRanges, recs, err := app.buildRecommendations(cmd)
			if err != nil {
				return err
			}
			content, err := export.AIMetadataJSON(holdings, recs, actionRanges, time.Now())
			if err != nil {
				return err
			}
			return app.writeExport(cmd, outPath, defaultExportName("portfolio-ai-metadata", "json"), content)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ai-markdown",
		Short: "Export AI analysis report as markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			holdings, actionRanges, recs, err := app.buildRecommendations(cmd)
			if err != nil {
				return err
			}
			content := export.AIMarkdown(holdings, recs, actionRanges, time.Now())
			return app.writeExport(cmd, outPath, defaultExportName("portfolio-ai-analysis", "md"), content)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ranges-prompt",
		Short: "Export the action-price-range generation prompt as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			holdings, _, err := app.buildHoldings(cmd.Context())
			if err != nil {
				return err
			}
			content, err := export.ActionRangePromptJSON(holdings, time.Now())
			if err != nil {
				return err
			}
			return app.writeExport(cmd, outPath, defaultExportName("action-ranges-prompt", "json"), content)
		},
	})

	rootCmd.AddCommand(cmd)
	rootCmd.AddCommand(newReportCmd(app))
}

// buildRecommendations rebuilds holdings and runs the recommendation engine.
func (a *App) buildRecommendations(cmd *cobra.Command) (
	map[string]*models.SecurityHolding,
	map[string]models.ActionPriceRange,
	map[string]*models.SecurityRecommendation,
	error,
) {
	holdings, _, err := a.buildHoldings(cmd.Context())
	if err != nil {
		return nil, nil, nil, err
	}
	actionRanges, err := a.loadRanges()
	if err != nil {
		return nil, nil, nil, err
	}
	return holdings, actionRanges, recommend.ForAll(holdings, actionRanges), nil
}

func defaultExportName(base, ext string) string {
	return fmt.Sprintf("%s-%s.%s", base, time.Now().Format("2006-01-02"), ext)
}

// writeExport writes exported content to the resolved destination.
func (a *App) writeExport(cmd *cobra.Command, outPath, defaultName, content string) error {
	output := NewOutput(cmd)

	if outPath == "-" {
		output.Printf("%s", content)
		return nil
	}
	if outPath == "" {
		outPath = filepath.Join(a.Config.Data.ExportDir, defaultName)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	a.Logger.Info().Str("path", outPath).Int("bytes", len(content)).Msg("Export written")
	if output.IsJSON() {
		return output.JSON(map[string]interface{}{"path": outPath, "bytes": len(content)})
	}
	output.Success("Wrote %s", outPath)
	return nil
}
