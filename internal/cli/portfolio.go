package cli

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"atrad-tracker/internal/lots"
	"atrad-tracker/internal/models"
	"atrad-tracker/internal/recommend"
	"atrad-tracker/pkg/utils"
)

// sortedKeys returns a map's string keys in sorted order, for stable output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// addPortfolioCommands adds the holdings, gains, verify and recommend commands.
func addPortfolioCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newHoldingsCmd(app))
	rootCmd.AddCommand(newGainsCmd(app))
	rootCmd.AddCommand(newVerifyCmd(app))
	rootCmd.AddCommand(newRecommendCmd(app))
}

func newHoldingsCmd(app *App) *cobra.Command {
	var showLots bool

	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "Show current holdings rebuilt from imported orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			holdings, _, err := app.buildHoldings(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(holdings)
			}
			if len(holdings) == 0 {
				output.Info("No holdings. Import an order tracker CSV first.")
				return nil
			}

			table := NewTable(output, "Security", "Qty", "Avg Price", "Cost", "Price", "Value", "Unrealized")
			var totalCost, totalValue float64
			for _, security := range lots.SortedSecurities(holdings) {
				h := holdings[security]
				totalCost += h.TotalCost

				price, value, unrealized := "-", "-", "-"
				if h.CurrentPrice != nil {
					price = fmt.Sprintf("%.2f", *h.CurrentPrice)
				}
				if h.MarketValue != nil {
					totalValue += *h.MarketValue
					value = utils.FormatAmount(*h.MarketValue)
				}
				if h.UnrealizedGainLoss != nil && h.UnrealizedGainLossPercent != nil {
					unrealized = fmt.Sprintf("%s (%s)",
						output.FormatPnL(*h.UnrealizedGainLoss),
						output.FormatPercent(*h.UnrealizedGainLossPercent))
				}

				table.AddRow(security,
					fmt.Sprintf("%.0f", h.TotalQuantity),
					fmt.Sprintf("%.2f", h.AverageBuyPrice),
					utils.FormatAmount(h.TotalCost),
					price, value, unrealized)
			}
			table.Render()
			output.Println()
			output.Printf("Total cost: %s", utils.FormatAmount(totalCost))
			if totalValue > 0 {
				output.Printf("   Market value: %s   Unrealized: %s",
					utils.FormatAmount(totalValue), output.FormatPnL(totalValue-totalCost))
			}
			output.Println()

			if showLots {
				output.Println()
				printLotDetails(output, holdings)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showLots, "lots", false, "show individual tax lots")
	return cmd
}

func printLotDetails(output *Output, holdings map[string]*models.SecurityHolding) {
	for _, security := range lots.SortedSecurities(holdings) {
		h := holdings[security]
		output.Bold("%s", security)
		for _, lot := range h.Lots {
			state := string(lot.State())
			line := fmt.Sprintf("  %s  %g @ %.2f  remaining %g  cost %s  [%s]",
				lot.BuyDate, lot.Quantity, lot.BuyPrice, lot.RemainingQuantity,
				utils.FormatAmount(lot.TotalCost), state)
			if lot.SplitRatio != nil {
				line += fmt.Sprintf("  (%.2fx split, was %g @ %.2f)",
					*lot.SplitRatio, *lot.OriginalQuantity, *lot.OriginalBuyPrice)
			}
			output.Println(line)
			for _, sell := range lot.SellOrders {
				output.Dim("    sold %g @ %.2f on %s  %s",
					sell.Quantity, sell.SellPrice, sell.SellDate, utils.FormatSigned(sell.GainLoss))
			}
		}
		output.Println()
	}
}

func newGainsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "gains",
		Short: "Show realized gain/loss, reconciled against the portfolio summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			allLots, _, err := app.buildLots(cmd.Context())
			if err != nil {
				return err
			}
			portfolioData, err := app.loadPortfolio()
			if err != nil {
				return err
			}

			report := lots.RealizedGainLoss(allLots, portfolioData)
			if output.IsJSON() {
				return output.JSON(report)
			}

			if len(report.BySecurity) == 0 {
				output.Info("No realized gains. No SELL orders have matched any lots.")
				return nil
			}

			table := NewTable(output, "Security", "Proceeds", "Cost Basis", "Commission", "Realized G/L")
			for _, security := range sortedKeys(report.BySecurity) {
				r := report.BySecurity[security]
				table.AddRow(security,
					utils.FormatAmount(r.Proceeds),
					utils.FormatAmount(r.CostBasis),
					utils.FormatAmount(r.Commission),
					output.FormatPnL(r.RealizedGainLoss))
			}
			table.Render()
			output.Println()

			headline := color.New(color.Bold)
			if report.TotalRealizedGainLoss >= 0 {
				headline = headline.Add(color.FgGreen)
			} else {
				headline = headline.Add(color.FgRed)
			}
			output.Println(headline.Sprintf("Total realized: %s", utils.FormatSigned(report.TotalRealizedGainLoss)))
			output.Dim("Proceeds %s  cost basis %s  commission %s",
				utils.FormatAmount(report.TotalProceeds),
				utils.FormatAmount(report.TotalCostBasis),
				utils.FormatAmount(report.TotalCommission))
			return nil
		},
	}
}

func newVerifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Cross-check SELL orders against rebuilt lot matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			allLots, orders, err := app.buildLots(cmd.Context())
			if err != nil {
				return err
			}

			report := lots.VerifySellOrders(allLots, orders, app.Logger)
			if output.IsJSON() {
				return output.JSON(report)
			}

			output.Printf("Sell orders: %d   matched: %d   unmatched: %d\n",
				len(report.AllSellOrders), report.MatchedSells, len(report.UnmatchedSells))
			output.Printf("Proceeds: %s   Cost basis: %s   Expected realized: %s\n",
				utils.FormatAmount(report.TotalSellProceeds),
				utils.FormatAmount(report.TotalCostBasis),
				output.FormatPnL(report.ExpectedRealizedGainLoss))

			if len(report.UnmatchedSells) > 0 {
				output.Println()
				output.Warning("Unmatched sell orders (no lots to sell against):")
				for _, order := range report.UnmatchedSells {
					output.Printf("  %s  %s  %g @ %.2f\n",
						order.OrderDate, order.Security, order.FilledQty, order.OrderPrice)
				}
			} else {
				output.Success("All sell orders matched lots.")
			}
			return nil
		},
	}
}

func newRecommendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Rule-based recommendations from action price ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			holdings, _, err := app.buildHoldings(cmd.Context())
			if err != nil {
				return err
			}
			actionRanges, err := app.loadRanges()
			if err != nil {
				return err
			}

			recs := recommend.ForAll(holdings, actionRanges)
			if output.IsJSON() {
				return output.JSON(recs)
			}
			if len(recs) == 0 {
				output.Info("No recommendations. Import a watchlist and an action ranges CSV.")
				return nil
			}

			table := NewTable(output, "Security", "Price", "Action", "Confidence", "Reason")
			for _, security := range sortedKeys(recs) {
				rec := recs[security]
				table.AddRow(security,
					fmt.Sprintf("%.2f", rec.CurrentPrice),
					output.FormatAction(rec.Recommendation),
					string(rec.Confidence),
					rec.Reason)
			}
			table.Render()

			skipped := len(holdings) - len(recs)
			if skipped > 0 {
				output.Println()
				output.Dim("%d securities without price or action range were skipped", skipped)
			}
			return nil
		},
	}
}
