// Package export builds report documents from computed portfolio results.
// Everything here is a pure formatter over holdings, recommendations, and
// verification output; writing the result anywhere is the caller's job.
package export

import (
	"fmt"
	"strings"

	"atrad-tracker/internal/models"
)

var csvHeader = []string{
	"Security",
	"Buy Date",
	"Buy Price",
	"Original Buy Price",
	"Quantity",
	"Original Quantity",
	"Remaining",
	"Total Cost",
	"Sell Date",
	"Sell Price",
	"Sell Quantity",
	"Sell Gain/Loss",
	"Sell Gain/Loss %",
	"Total Realized G/L",
	"Current Price",
	"Unrealized G/L",
	"Stock Split Ratio",
}

// LotAnalysisCSV renders the lot-wise gain/loss analysis as CSV text, one
// row per sell match plus one row per unsold lot, ordered by security.
func LotAnalysisCSV(holdings map[string]*models.SecurityHolding) string {
	var rows []string
	rows = append(rows, strings.Join(csvHeader, ","))

	for _, security := range sortedSecurities(holdings) {
		holding := holdings[security]

		for _, lot := range holding.Lots {
			realized := lot.RealizedGainLoss()
			unrealized := lotUnrealized(holding, lot)

			if len(lot.SellOrders) > 0 {
				for _, sell := range lot.SellOrders {
					rows = append(rows, quoteRow(
						holding.Security,
						lot.BuyDate,
						fmt.Sprintf("%.2f", lot.BuyPrice),
						optAmount(lot.OriginalBuyPrice),
						fmt.Sprintf("%.0f", lot.Quantity),
						optQty(lot.OriginalQuantity),
						fmt.Sprintf("%.0f", lot.RemainingQuantity),
						fmt.Sprintf("%.2f", lot.TotalCost),
						sell.SellDate,
						fmt.Sprintf("%.2f", sell.SellPrice),
						fmt.Sprintf("%.0f", sell.Quantity),
						fmt.Sprintf("%.2f", sell.GainLoss),
						fmt.Sprintf("%.2f%%", sell.GainLossPercent),
						fmt.Sprintf("%.2f", realized),
						optAmount(holding.CurrentPrice),
						optAmount(unrealized),
						optRatio(lot.SplitRatio),
					))
				}
			} else {
				rows = append(rows, quoteRow(
					holding.Security,
					lot.BuyDate,
					fmt.Sprintf("%.2f", lot.BuyPrice),
					optAmount(lot.OriginalBuyPrice),
					fmt.Sprintf("%.0f", lot.Quantity),
					optQty(lot.OriginalQuantity),
					fmt.Sprintf("%.0f", lot.RemainingQuantity),
					fmt.Sprintf("%.2f", lot.TotalCost),
					"", "", "", "", "",
					"0.00",
					optAmount(holding.CurrentPrice),
					optAmount(unrealized),
					optRatio(lot.SplitRatio),
				))
			}
		}
	}

	return strings.Join(rows, "\n")
}

// lotUnrealized computes a lot's paper gain at the holding's current price;
// nil when the price is unknown or the lot is fully sold.
func lotUnrealized(holding *models.SecurityHolding, lot *models.Lot) *float64 {
	if holding.CurrentPrice == nil || lot.RemainingQuantity <= 0 {
		return nil
	}
	v := lot.RemainingQuantity * (*holding.CurrentPrice - lot.BuyPrice)
	return &v
}

func quoteRow(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, ",")
}

func optAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func optQty(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.0f", *v)
}

func optRatio(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
