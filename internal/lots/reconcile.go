package lots

import (
	"github.com/rs/zerolog"

	"atrad-tracker/internal/models"
)

// SecurityRealized breaks down realized figures for one security.
type SecurityRealized struct {
	RealizedGainLoss float64 `json:"realizedGainLoss"`
	Proceeds         float64 `json:"proceeds"`
	CostBasis        float64 `json:"costBasis"`
	Commission       float64 `json:"commission"`
}

// RealizedReport totals realized gain/loss across the portfolio.
type RealizedReport struct {
	TotalRealizedGainLoss float64                     `json:"totalRealizedGainLoss"`
	TotalProceeds         float64                     `json:"totalProceeds"`
	TotalCostBasis        float64                     `json:"totalCostBasis"`
	TotalCommission       float64                     `json:"totalCommission"`
	BySecurity            map[string]SecurityRealized `json:"bySecurity"`
}

// RealizedGainLoss computes realized gain/loss from sell matches, grouped by
// security. When broker-reported figures are supplied, that security's
// proceeds are replaced wholesale and its realized gain/loss becomes
// actual proceeds minus lot-derived cost basis minus commission. The
// replacement is deliberate: if broker and lot data disagree on matched
// quantity, the verification report is where the discrepancy shows up.
func RealizedGainLoss(lots []*models.Lot, portfolioData map[string]models.PortfolioEntry) RealizedReport {
	bySecurity := make(map[string]SecurityRealized)

	for _, lot := range lots {
		for _, match := range lot.SellOrders {
			s := bySecurity[lot.Security]
			s.RealizedGainLoss += match.GainLoss
			s.Proceeds += match.Proceeds
			s.CostBasis += match.Quantity * lot.BuyPrice
			bySecurity[lot.Security] = s
		}
	}

	for security, data := range portfolioData {
		s, ok := bySecurity[security]
		if !ok {
			continue
		}
		s.Proceeds = data.SalesProceeds
		s.Commission = data.SalesCommission
		s.RealizedGainLoss = data.SalesProceeds - s.CostBasis - data.SalesCommission
		bySecurity[security] = s
	}

	report := RealizedReport{BySecurity: bySecurity}
	for _, s := range bySecurity {
		report.TotalRealizedGainLoss += s.RealizedGainLoss
		report.TotalProceeds += s.Proceeds
		report.TotalCostBasis += s.CostBasis
		report.TotalCommission += s.Commission
	}
	return report
}

// SecuritySellCheck partitions one security's SELL orders by match status.
type SecuritySellCheck struct {
	SellOrders []models.Order `json:"sellOrders"`
	Matched    int            `json:"matched"`
	Unmatched  int            `json:"unmatched"`
}

// VerificationReport cross-references SELL orders against lot sell matches.
// Unmatched sells are a data condition to surface, not an error.
type VerificationReport struct {
	AllSellOrders            []models.Order                `json:"allSellOrders"`
	MatchedSells             int                           `json:"matchedSells"`
	UnmatchedSells           []models.Order                `json:"unmatchedSells"`
	TotalSellProceeds        float64                       `json:"totalSellProceeds"`
	TotalCostBasis           float64                       `json:"totalCostBasis"`
	ExpectedRealizedGainLoss float64                       `json:"expectedRealizedGainLoss"`
	BySecurity               map[string]*SecuritySellCheck `json:"bySecurity"`
}

// VerifySellOrders checks that every SELL order found at least one lot match
// and reports aggregate proceeds and cost basis. The expected realized
// gain/loss equals the lot-derived sum whenever nothing was oversold.
func VerifySellOrders(lots []*models.Lot, orders []models.Order, logger zerolog.Logger) VerificationReport {
	matchedIDs := make(map[string]struct{})
	for _, lot := range lots {
		for _, match := range lot.SellOrders {
			matchedIDs[match.SellOrderID] = struct{}{}
		}
	}

	report := VerificationReport{
		AllSellOrders: []models.Order{},
		BySecurity:    make(map[string]*SecuritySellCheck),
	}

	for _, order := range orders {
		if order.Side != models.OrderSideSell {
			continue
		}
		report.AllSellOrders = append(report.AllSellOrders, order)

		check, ok := report.BySecurity[order.Security]
		if !ok {
			check = &SecuritySellCheck{SellOrders: []models.Order{}}
			report.BySecurity[order.Security] = check
		}
		check.SellOrders = append(check.SellOrders, order)

		if _, matched := matchedIDs[order.ID]; matched {
			check.Matched++
		} else {
			check.Unmatched++
			report.UnmatchedSells = append(report.UnmatchedSells, order)
		}
	}

	report.MatchedSells = len(matchedIDs)

	for _, order := range report.UnmatchedSells {
		logger.Warn().
			Str("security", order.Security).
			Str("order_id", order.ID).
			Float64("qty", order.OrderQty).
			Float64("price", order.OrderPrice).
			Str("date", order.OrderDate).
			Msg("SELL order has no matching lot")
	}

	for _, lot := range lots {
		for _, match := range lot.SellOrders {
			report.TotalSellProceeds += match.Proceeds
			report.TotalCostBasis += match.Quantity * lot.BuyPrice
		}
	}
	report.ExpectedRealizedGainLoss = report.TotalSellProceeds - report.TotalCostBasis

	return report
}
