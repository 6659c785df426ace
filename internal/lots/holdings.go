package lots

import (
	"sort"

	"atrad-tracker/internal/models"
)

// Holdings aggregates lots into per-security holdings. Only lots with
// remaining quantity contribute to totals; every lot is listed regardless,
// sold or not. The aggregation is recomputed from scratch on every call so
// holdings can never drift from the lots they derive from.
func Holdings(lots []*models.Lot, currentPrices map[string]float64) map[string]*models.SecurityHolding {
	holdings := make(map[string]*models.SecurityHolding)

	for _, lot := range lots {
		h, ok := holdings[lot.Security]
		if !ok {
			h = &models.SecurityHolding{Security: lot.Security, Lots: []*models.Lot{}}
			if price, known := currentPrices[lot.Security]; known {
				p := price
				h.CurrentPrice = &p
			}
			holdings[lot.Security] = h
		}

		if lot.RemainingQuantity > 0 {
			h.TotalQuantity += lot.RemainingQuantity
			h.TotalCost += lot.RemainingQuantity * lot.BuyPrice
		}
		h.Lots = append(h.Lots, lot)
	}

	for _, h := range holdings {
		if h.TotalQuantity > 0 {
			h.AverageBuyPrice = h.TotalCost / h.TotalQuantity
		}
		if h.CurrentPrice != nil {
			marketValue := h.TotalQuantity * *h.CurrentPrice
			unrealized := marketValue - h.TotalCost
			percent := 0.0
			if h.TotalCost > 0 {
				percent = unrealized / h.TotalCost * 100
			}
			h.MarketValue = &marketValue
			h.UnrealizedGainLoss = &unrealized
			h.UnrealizedGainLossPercent = &percent
		}
	}

	return holdings
}

// SortedSecurities returns the holding keys in alphabetical order, the
// sequence every report and export uses.
func SortedSecurities(holdings map[string]*models.SecurityHolding) []string {
	securities := make([]string, 0, len(holdings))
	for s := range holdings {
		securities = append(securities, s)
	}
	sort.Strings(securities)
	return securities
}
