package cli

import (
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"atrad-tracker/internal/export"
)

func newReportCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the lot analysis report in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			holdings, _, err := app.buildHoldings(cmd.Context())
			if err != nil {
				return err
			}
			splits, err := app.loadSplits(cmd.Context())
			if err != nil {
				return err
			}
			markdown := export.LotAnalysisMarkdown(holdings, splits, time.Now())

			if raw || output.IsJSON() {
				output.Printf("%s", markdown)
				return nil
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				output.Printf("%s", markdown)
				return nil
			}
			rendered, err := renderer.Render(markdown)
			if err != nil {
				output.Printf("%s", markdown)
				return nil
			}
			output.Printf("%s", rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print raw markdown without terminal styling")
	return cmd
}
