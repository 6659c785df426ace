package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"atrad-tracker/internal/advisor"
	apperrors "atrad-tracker/internal/errors"
	"atrad-tracker/internal/export"
)

// addAdvisorCommands adds the LLM portfolio review command.
func addAdvisorCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "advise",
		Short: "Ask an LLM to review the portfolio",
		Long: `Build the AI analysis report and send it to the configured model for a
written review. Requires an API key in the advisor config section or the
ATRAD_TRACKER_API_KEY environment variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			client, err := advisor.New(app.Config.Advisor.APIKey, app.Config.Advisor.Model, app.Logger)
			if err != nil {
				if errors.Is(err, apperrors.ErrNoAdvisor) {
					output.Warning("No advisor API key configured. Set advisor.api_key or ATRAD_TRACKER_API_KEY.")
				}
				return err
			}

			holdings, actionRanges, recs, err := app.buildRecommendations(cmd)
			if err != nil {
				return err
			}
			report := export.AIMarkdown(holdings, recs, actionRanges, time.Now())

			output.Info("Asking %s for a portfolio review...", client.Model())
			review, err := client.Review(cmd.Context(), report)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"model": client.Model(), "review": review})
			}
			output.Println()
			output.Println(review)
			return nil
		},
	})
}
