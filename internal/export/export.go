package export

import (
	"fmt"
	"sort"
	"strings"

	"atrad-tracker/internal/models"
	"atrad-tracker/pkg/utils"
)

func sortedSecurities(holdings map[string]*models.SecurityHolding) []string {
	securities := make([]string, 0, len(holdings))
	for s := range holdings {
		securities = append(securities, s)
	}
	sort.Strings(securities)
	return securities
}

// buyPriceLabel shows the adjusted price, annotated with the pre-split
// price when one applies.
func buyPriceLabel(lot *models.Lot) string {
	if lot.OriginalBuyPrice != nil && *lot.OriginalBuyPrice != lot.BuyPrice {
		return fmt.Sprintf("%.2f (was %.2f)", lot.BuyPrice, *lot.OriginalBuyPrice)
	}
	return fmt.Sprintf("%.2f", lot.BuyPrice)
}

func quantityLabel(lot *models.Lot) string {
	if lot.OriginalQuantity != nil && *lot.OriginalQuantity != lot.Quantity {
		return fmt.Sprintf("%.0f (was %.0f)", lot.Quantity, *lot.OriginalQuantity)
	}
	return fmt.Sprintf("%.0f", lot.Quantity)
}

func splitLabel(lot *models.Lot) string {
	if lot.SplitRatio != nil && *lot.SplitRatio != 1 {
		return fmt.Sprintf(" %.2fx split", *lot.SplitRatio)
	}
	return ""
}

func sellDetails(lot *models.Lot) string {
	if len(lot.SellOrders) == 0 {
		return "Not sold"
	}
	parts := make([]string, len(lot.SellOrders))
	for i, sell := range lot.SellOrders {
		parts[i] = fmt.Sprintf("%g @ %.2f on %s (%s, %s)",
			sell.Quantity, sell.SellPrice, sell.SellDate,
			utils.FormatSigned(sell.GainLoss), utils.FormatSignedPercent(sell.GainLossPercent))
	}
	return strings.Join(parts, "; ")
}

func realizedLabel(lot *models.Lot) string {
	realized := lot.RealizedGainLoss()
	if realized == 0 {
		return "-"
	}
	return utils.FormatSigned(realized)
}

func unrealizedLabel(holding *models.SecurityHolding, lot *models.Lot) string {
	v := lotUnrealized(holding, lot)
	if v == nil {
		return "-"
	}
	return utils.FormatSigned(*v)
}

func remainingLabel(lot *models.Lot) string {
	if lot.RemainingQuantity > 0 {
		return fmt.Sprintf("%.0f", lot.RemainingQuantity)
	}
	return "Sold"
}
