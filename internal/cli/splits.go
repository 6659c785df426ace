package cli

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	apperrors "atrad-tracker/internal/errors"
	"atrad-tracker/internal/models"
)

// addSplitCommands adds the stock split management command group.
func addSplitCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "splits",
		Short: "Manage stock splits",
		Long: `Manage stock splits applied during lot rebuilds.

A split multiplies the quantity and divides the price of every order placed
strictly before its effective date. Splits are applied retroactively on every
rebuild, so adding or removing one changes all derived reports immediately.`,
	}

	cmd.AddCommand(newSplitsListCmd(app))
	cmd.AddCommand(newSplitsAddCmd(app))
	cmd.AddCommand(newSplitsRemoveCmd(app))

	rootCmd.AddCommand(cmd)
}

func newSplitsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded stock splits",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			splits, err := app.loadSplitsRequired(cmd)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				if splits == nil {
					splits = []models.StockSplit{}
				}
				return output.JSON(splits)
			}
			if len(splits) == 0 {
				output.Info("No stock splits recorded.")
				return nil
			}

			table := NewTable(output, "ID", "Security", "Date", "Ratio")
			for _, split := range splits {
				table.AddRow(split.ID, split.Security, split.SplitDate, fmt.Sprintf("%g:1", split.Ratio))
			}
			table.Render()
			return nil
		},
	}
}

func newSplitsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <security> <date> <ratio>",
		Short: "Record a stock split",
		Long: `Record a stock split for a security.

The date is the effective date (YYYY-MM-DD) and the ratio is the
multiplication factor: a 2-for-1 split has ratio 2.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			security, date := args[0], args[1]
			ratio, err := strconv.ParseFloat(args[2], 64)
			if err != nil || ratio <= 0 {
				return fmt.Errorf("invalid split ratio %q: must be a positive number", args[2])
			}

			splits, err := app.loadSplitsRequired(cmd)
			if err != nil {
				return err
			}

			split := models.StockSplit{
				ID:        uuid.NewString(),
				Security:  security,
				SplitDate: date,
				Ratio:     ratio,
			}
			splits = append(splits, split)

			if err := app.Store.SaveSplits(cmd.Context(), splits); err != nil {
				return fmt.Errorf("saving splits: %w", err)
			}

			app.Logger.Info().Str("security", security).Str("date", date).Float64("ratio", ratio).Msg("Stock split recorded")
			if output.IsJSON() {
				return output.JSON(split)
			}
			output.Success("Recorded %g:1 split for %s effective %s", ratio, security, date)
			output.Dim("ID: %s", split.ID)
			return nil
		},
	}
}

func newSplitsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a recorded stock split",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			splits, err := app.loadSplitsRequired(cmd)
			if err != nil {
				return err
			}

			kept := splits[:0]
			removed := false
			for _, split := range splits {
				if split.ID == args[0] {
					removed = true
					continue
				}
				kept = append(kept, split)
			}
			if !removed {
				return fmt.Errorf("no split with id %q", args[0])
			}

			if err := app.Store.SaveSplits(cmd.Context(), kept); err != nil {
				return fmt.Errorf("saving splits: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"removed": args[0]})
			}
			output.Success("Removed split %s", args[0])
			return nil
		},
	}
}

// loadSplitsRequired loads splits for commands that mutate them, failing
// when the state database is unavailable.
func (a *App) loadSplitsRequired(cmd *cobra.Command) ([]models.StockSplit, error) {
	if a.Store == nil {
		return nil, fmt.Errorf("%w: state database unavailable", apperrors.ErrDatabaseError)
	}
	return a.Store.LoadSplits(cmd.Context())
}
