package recommend

import (
	"fmt"

	"atrad-tracker/internal/models"
)

// ForHolding classifies one holding against its action price ranges.
// Returns nil when the holding has no current price; zones that fail to
// parse are treated as absent. The checks run in priority order, most
// urgent first, and the first hit wins.
func ForHolding(holding *models.SecurityHolding, actionRange models.ActionPriceRange) *models.SecurityRecommendation {
	if holding.CurrentPrice == nil {
		return nil
	}
	price := *holding.CurrentPrice

	accumulate := ParsePriceRange(actionRange.AccumulateSlowly)
	strongAdd := ParsePriceRange(actionRange.StrongAddZone)
	pauseBuys := ParsePriceRange(actionRange.PauseBuys)
	trim := ParsePriceRange(actionRange.TrimSmallPortion)

	var reEvaluate *float64
	if r := ParsePriceRange(actionRange.ReEvaluateIfWeak); r != nil {
		max := r.Max
		reEvaluate = &max
	}

	rec := &models.SecurityRecommendation{
		Security:     holding.Security,
		CurrentPrice: price,
		TargetZones: models.TargetZones{
			AccumulateSlowly: accumulate,
			StrongAddZone:    strongAdd,
			ReEvaluateIfWeak: reEvaluate,
			PauseBuys:        pauseBuys,
			TrailingStop:     actionRange.TrailingStop,
		},
	}
	if trim != nil {
		min := trim.Min
		rec.TargetZones.TrimSmallPortion = &min
	}

	switch {
	case actionRange.TrailingStop != nil && *actionRange.TrailingStop != 0 && price < *actionRange.TrailingStop:
		rec.Recommendation = models.ActionExit
		rec.Confidence = models.ConfidenceHigh
		rec.Reason = fmt.Sprintf("Price (%.2f) is below trailing stop (%.2f)", price, *actionRange.TrailingStop)

	case reEvaluate != nil && *reEvaluate != 0 && price < *reEvaluate:
		rec.Recommendation = models.ActionExit
		rec.Confidence = models.ConfidenceHigh
		rec.Reason = fmt.Sprintf("Price (%.2f) is below re-evaluate threshold (%.2f)", price, *reEvaluate)

	case trim != nil && trim.Contains(price):
		rec.Recommendation = models.ActionStrongStopTakeProfit
		rec.Confidence = models.ConfidenceHigh
		rec.Reason = fmt.Sprintf("Price (%.2f) is in trim zone (%s) - consider taking profits", price, actionRange.TrimSmallPortion)

	case pauseBuys != nil && pauseBuys.Contains(price):
		rec.Recommendation = models.ActionTrim
		rec.Confidence = models.ConfidenceMedium
		rec.Reason = fmt.Sprintf("Price (%.2f) is in pause buys zone (%s) - consider trimming", price, actionRange.PauseBuys)

	case strongAdd != nil && strongAdd.Contains(price):
		rec.Recommendation = models.ActionBuyNew
		rec.Confidence = models.ConfidenceHigh
		rec.Reason = fmt.Sprintf("Price (%.2f) is in strong add zone (%s) - excellent buying opportunity", price, actionRange.StrongAddZone)

	case accumulate != nil && accumulate.Contains(price):
		rec.Recommendation = models.ActionAddAccumulate
		rec.Confidence = models.ConfidenceMedium
		rec.Reason = fmt.Sprintf("Price (%.2f) is in accumulate slowly zone (%s) - good time to add", price, actionRange.AccumulateSlowly)

	default:
		rec.Recommendation = models.ActionHold
		rec.Confidence = models.ConfidenceLow
		rec.Reason = fmt.Sprintf("Price (%.2f) is in normal range - hold position", price)
		if holding.UnrealizedGainLoss != nil && holding.UnrealizedGainLossPercent != nil {
			if *holding.UnrealizedGainLoss > 0 {
				rec.Reason += fmt.Sprintf(" (Unrealized gain: %.2f%%)", *holding.UnrealizedGainLossPercent)
			} else if *holding.UnrealizedGainLoss < 0 {
				rec.Reason += fmt.Sprintf(" (Unrealized loss: %.2f%%)", *holding.UnrealizedGainLossPercent)
			}
		}
	}

	return rec
}

// ForAll generates recommendations for every holding that has both an action
// range entry and a current price. Securities lacking either are absent from
// the result, not present with a placeholder.
func ForAll(holdings map[string]*models.SecurityHolding, actionRanges map[string]models.ActionPriceRange) map[string]*models.SecurityRecommendation {
	recommendations := make(map[string]*models.SecurityRecommendation)
	for security, holding := range holdings {
		actionRange, ok := actionRanges[security]
		if !ok || holding.CurrentPrice == nil {
			continue
		}
		if rec := ForHolding(holding, actionRange); rec != nil {
			recommendations[security] = rec
		}
	}
	return recommendations
}
