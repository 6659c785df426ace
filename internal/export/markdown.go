package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"atrad-tracker/internal/models"
	"atrad-tracker/pkg/utils"
)

const lotTableHeader = "| Buy Date | Buy Price | Quantity | Remaining | Total Cost | Sell Details | Realized G/L | Unrealized G/L |\n|----------|-----------|----------|-----------|------------|--------------|--------------|----------------|"

// LotAnalysisMarkdown renders the lot-wise gain/loss analysis as a markdown
// document, one section per security with split history, holding summary,
// and the full lot table.
func LotAnalysisMarkdown(holdings map[string]*models.SecurityHolding, stockSplits []models.StockSplit, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Stock Portfolio - Lot-wise Gain/Loss Analysis\n\n")
	fmt.Fprintf(&b, "Generated on: %s\n\n---\n\n", now.Format("2006-01-02 15:04:05"))

	for _, security := range sortedSecurities(holdings) {
		holding := holdings[security]
		fmt.Fprintf(&b, "## %s\n\n", holding.Security)

		splits := splitsFor(stockSplits, security)
		if len(splits) > 0 {
			b.WriteString("### Stock Splits Applied\n\n| Date | Ratio |\n|------|-------|\n")
			for _, s := range splits {
				fmt.Fprintf(&b, "| %s | %g:1 |\n", s.SplitDate, s.Ratio)
			}
			b.WriteString("\n")
		}

		b.WriteString("### Holdings Summary\n\n")
		fmt.Fprintf(&b, "- **Total Quantity:** %.0f\n", holding.TotalQuantity)
		fmt.Fprintf(&b, "- **Average Buy Price:** %.2f\n", holding.AverageBuyPrice)
		fmt.Fprintf(&b, "- **Total Cost:** %s\n", utils.FormatAmount(holding.TotalCost))
		if holding.CurrentPrice != nil {
			fmt.Fprintf(&b, "- **Current Price:** %.2f\n", *holding.CurrentPrice)
			if holding.MarketValue != nil {
				fmt.Fprintf(&b, "- **Market Value:** %s\n", utils.FormatAmount(*holding.MarketValue))
			}
			if holding.UnrealizedGainLoss != nil && holding.UnrealizedGainLossPercent != nil {
				fmt.Fprintf(&b, "- **Unrealized G/L:** %s (%s)\n",
					utils.FormatSigned(*holding.UnrealizedGainLoss),
					utils.FormatSignedPercent(*holding.UnrealizedGainLossPercent))
			}
		}
		b.WriteString("\n### Lot Details\n\n")
		b.WriteString(lotTableHeader + "\n")

		for _, lot := range holding.Lots {
			fmt.Fprintf(&b, "%s | %s | %s | %s | %s | %s | %s | %s\n",
				lot.BuyDate+splitLabel(lot),
				buyPriceLabel(lot),
				quantityLabel(lot),
				remainingLabel(lot),
				utils.FormatAmount(lot.TotalCost),
				sellDetails(lot),
				realizedLabel(lot),
				unrealizedLabel(holding, lot))
		}

		b.WriteString("\n---\n\n")
	}

	return b.String()
}

// splitsFor filters and date-orders the splits of one security.
func splitsFor(splits []models.StockSplit, security string) []models.StockSplit {
	var out []models.StockSplit
	for _, s := range splits {
		if s.Security == security {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := out[i].Timestamp()
		tj, _ := out[j].Timestamp()
		return ti.Before(tj)
	})
	return out
}
