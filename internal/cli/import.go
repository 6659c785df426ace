package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"atrad-tracker/internal/parse"
)

// addImportCommands adds the CSV import command group.
func addImportCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import broker CSV exports",
		Long: `Import CSV files exported from the broker terminal.

Each import validates the file's structure, then stores it in the data
directory. Re-importing a file replaces the previous one; lots are always
rebuilt from the stored files, so an import is never an incremental update.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "orders <file>",
		Short: "Import an order tracker CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.importCSV(cmd, args[0], ordersFile, "orders", func(text string) (int, error) {
				orders, err := parse.OrderTracker(text)
				return len(orders), err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "prices <file>",
		Short: "Import a watchlist CSV with current prices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.importCSV(cmd, args[0], watchlistFile, "prices", func(text string) (int, error) {
				prices, err := parse.Watchlist(text)
				return len(prices), err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "portfolio <file>",
		Short: "Import a broker portfolio summary CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.importCSV(cmd, args[0], portfolioFile, "portfolio entries", func(text string) (int, error) {
				entries, err := parse.Portfolio(text)
				return len(entries), err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ranges <file>",
		Short: "Import an action price ranges CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.importCSV(cmd, args[0], rangesFile, "action ranges", func(text string) (int, error) {
				ranges, err := parse.ActionPriceRanges(text)
				return len(ranges), err
			})
		},
	})

	rootCmd.AddCommand(cmd)
}

// importCSV validates a CSV file and stores it under the data directory.
func (a *App) importCSV(cmd *cobra.Command, src, dest, unit string, validate func(string) (int, error)) error {
	output := NewOutput(cmd)

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	count, err := validate(string(data))
	if err != nil {
		output.Error("Import failed: %v", err)
		return err
	}

	if err := os.MkdirAll(a.Config.Data.Dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(a.dataPath(dest), data, 0644); err != nil {
		return fmt.Errorf("storing %s: %w", dest, err)
	}

	a.Logger.Info().Str("file", src).Str("stored_as", dest).Int("rows", count).Msg("CSV imported")
	if output.IsJSON() {
		return output.JSON(map[string]interface{}{"imported": dest, "rows": count})
	}
	output.Success("Imported %d %s from %s", count, unit, src)
	return nil
}
