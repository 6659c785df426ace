package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"atrad-tracker/internal/models"
	"atrad-tracker/pkg/utils"
)

// PortfolioSummary totals the portfolio for AI exports.
type PortfolioSummary struct {
	TotalSecurities               int     `json:"totalSecurities"`
	TotalPortfolioValue           float64 `json:"totalPortfolioValue"`
	TotalCost                     float64 `json:"totalCost"`
	TotalUnrealizedGainLoss       float64 `json:"totalUnrealizedGainLoss"`
	SecuritiesWithRecommendations int     `json:"securitiesWithRecommendations,omitempty"`
}

// CurrentPosition is the position snapshot of one security.
type CurrentPosition struct {
	Quantity                  float64  `json:"quantity"`
	AverageBuyPrice           float64  `json:"averageBuyPrice"`
	TotalCost                 float64  `json:"totalCost"`
	CurrentPrice              *float64 `json:"currentPrice,omitempty"`
	MarketValue               *float64 `json:"marketValue,omitempty"`
	UnrealizedGainLoss        *float64 `json:"unrealizedGainLoss,omitempty"`
	UnrealizedGainLossPercent *float64 `json:"unrealizedGainLossPercent,omitempty"`
	RealizedGainLoss          float64  `json:"realizedGainLoss"`
}

// LotDetail is one lot in the AI metadata export.
type LotDetail struct {
	BuyDate            string             `json:"buyDate"`
	BuyPrice           float64            `json:"buyPrice"`
	OriginalBuyPrice   *float64           `json:"originalBuyPrice,omitempty"`
	Quantity           float64            `json:"quantity"`
	OriginalQuantity   *float64           `json:"originalQuantity,omitempty"`
	RemainingQuantity  float64            `json:"remainingQuantity"`
	TotalCost          float64            `json:"totalCost"`
	SplitRatio         *float64           `json:"splitRatio,omitempty"`
	SellOrders         []models.SellMatch `json:"sellOrders"`
	RealizedGainLoss   float64            `json:"realizedGainLoss"`
	UnrealizedGainLoss *float64           `json:"unrealizedGainLoss,omitempty"`
}

// AISecurity is one security's block in the AI metadata export.
type AISecurity struct {
	Security          string                         `json:"security"`
	CurrentPosition   CurrentPosition                `json:"currentPosition"`
	ActionPriceRanges *models.ActionPriceRange       `json:"actionPriceRanges"`
	Recommendation    *models.SecurityRecommendation `json:"recommendation"`
	LotDetails        []LotDetail                    `json:"lotDetails"`
}

// AIMetadata is the JSON document handed to an AI agent for analysis.
type AIMetadata struct {
	ExportDate       string           `json:"exportDate"`
	PortfolioSummary PortfolioSummary `json:"portfolioSummary"`
	Securities       []AISecurity     `json:"securities"`
}

// BuildAIMetadata assembles the structured AI-analysis export.
func BuildAIMetadata(
	holdings map[string]*models.SecurityHolding,
	recommendations map[string]*models.SecurityRecommendation,
	actionRanges map[string]models.ActionPriceRange,
	now time.Time,
) AIMetadata {
	meta := AIMetadata{
		ExportDate: now.UTC().Format(time.RFC3339),
		PortfolioSummary: PortfolioSummary{
			SecuritiesWithRecommendations: len(recommendations),
		},
		Securities: []AISecurity{},
	}

	for _, security := range sortedSecurities(holdings) {
		holding := holdings[security]
		meta.PortfolioSummary.TotalSecurities++
		meta.PortfolioSummary.TotalCost += holding.TotalCost
		if holding.MarketValue != nil {
			meta.PortfolioSummary.TotalPortfolioValue += *holding.MarketValue
		}
		if holding.UnrealizedGainLoss != nil {
			meta.PortfolioSummary.TotalUnrealizedGainLoss += *holding.UnrealizedGainLoss
		}

		sec := AISecurity{
			Security: security,
			CurrentPosition: CurrentPosition{
				Quantity:                  holding.TotalQuantity,
				AverageBuyPrice:           holding.AverageBuyPrice,
				TotalCost:                 holding.TotalCost,
				CurrentPrice:              holding.CurrentPrice,
				MarketValue:               holding.MarketValue,
				UnrealizedGainLoss:        holding.UnrealizedGainLoss,
				UnrealizedGainLossPercent: holding.UnrealizedGainLossPercent,
				RealizedGainLoss:          holdingRealized(holding),
			},
			Recommendation: recommendations[security],
			LotDetails:     []LotDetail{},
		}
		if r, ok := actionRanges[security]; ok {
			sec.ActionPriceRanges = &r
		}

		for _, lot := range holding.Lots {
			sec.LotDetails = append(sec.LotDetails, LotDetail{
				BuyDate:            lot.BuyDate,
				BuyPrice:           lot.BuyPrice,
				OriginalBuyPrice:   lot.OriginalBuyPrice,
				Quantity:           lot.Quantity,
				OriginalQuantity:   lot.OriginalQuantity,
				RemainingQuantity:  lot.RemainingQuantity,
				TotalCost:          lot.TotalCost,
				SplitRatio:         lot.SplitRatio,
				SellOrders:         lot.SellOrders,
				RealizedGainLoss:   lot.RealizedGainLoss(),
				UnrealizedGainLoss: lotUnrealized(holding, lot),
			})
		}

		meta.Securities = append(meta.Securities, sec)
	}

	return meta
}

// AIMetadataJSON renders the AI metadata export as indented JSON.
func AIMetadataJSON(
	holdings map[string]*models.SecurityHolding,
	recommendations map[string]*models.SecurityRecommendation,
	actionRanges map[string]models.ActionPriceRange,
	now time.Time,
) (string, error) {
	meta := BuildAIMetadata(holdings, recommendations, actionRanges, now)
	out, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding AI metadata: %w", err)
	}
	return string(out), nil
}

// recommendationOrder is the display sequence for AI markdown sections,
// most urgent first.
var recommendationOrder = []string{
	string(models.ActionExit),
	string(models.ActionStrongStopTakeProfit),
	string(models.ActionTrim),
	string(models.ActionBuyNew),
	string(models.ActionAddAccumulate),
	string(models.ActionHold),
	"NO_RECOMMENDATION",
}

// AIMarkdown renders the portfolio as a markdown document for AI analysis,
// securities grouped by recommendation with the most urgent groups first
// and an analysis-request epilogue.
func AIMarkdown(
	holdings map[string]*models.SecurityHolding,
	recommendations map[string]*models.SecurityRecommendation,
	actionRanges map[string]models.ActionPriceRange,
	now time.Time,
) string {
	var totalValue, totalCost, totalUnrealized float64
	for _, h := range holdings {
		totalCost += h.TotalCost
		if h.MarketValue != nil {
			totalValue += *h.MarketValue
		}
		if h.UnrealizedGainLoss != nil {
			totalUnrealized += *h.UnrealizedGainLoss
		}
	}

	var b strings.Builder
	b.WriteString("# Stock Portfolio Analysis for AI Agent\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("## Portfolio Summary\n\n")
	fmt.Fprintf(&b, "- **Total Securities:** %d\n", len(holdings))
	fmt.Fprintf(&b, "- **Total Portfolio Value:** %s\n", utils.FormatAmount(totalValue))
	fmt.Fprintf(&b, "- **Total Cost Basis:** %s\n", utils.FormatAmount(totalCost))
	fmt.Fprintf(&b, "- **Total Unrealized Gain/Loss:** %s\n", utils.FormatSigned(totalUnrealized))
	returnPercent := 0.0
	if totalCost > 0 {
		returnPercent = totalUnrealized / totalCost * 100
	}
	fmt.Fprintf(&b, "- **Return %%:** %.2f%%\n\n---\n\n", returnPercent)

	groups := make(map[string][]string)
	for _, security := range sortedSecurities(holdings) {
		key := "NO_RECOMMENDATION"
		if rec, ok := recommendations[security]; ok {
			key = string(rec.Recommendation)
		}
		groups[key] = append(groups[key], security)
	}

	for _, group := range recommendationOrder {
		securities := groups[group]
		if len(securities) == 0 {
			continue
		}

		fmt.Fprintf(&b, "## %s (%d securities)\n\n", strings.ReplaceAll(group, "_", " "), len(securities))

		for _, security := range securities {
			holding := holdings[security]
			fmt.Fprintf(&b, "### %s\n\n", security)

			b.WriteString("**Current Position:**\n")
			fmt.Fprintf(&b, "- Quantity: %.0f\n", holding.TotalQuantity)
			fmt.Fprintf(&b, "- Average Buy Price: %.2f\n", holding.AverageBuyPrice)
			fmt.Fprintf(&b, "- Total Cost: %s\n", utils.FormatAmount(holding.TotalCost))
			if holding.CurrentPrice != nil {
				fmt.Fprintf(&b, "- Current Price: %.2f\n", *holding.CurrentPrice)
				if holding.MarketValue != nil {
					fmt.Fprintf(&b, "- Market Value: %s\n", utils.FormatAmount(*holding.MarketValue))
				}
				if holding.UnrealizedGainLoss != nil && holding.UnrealizedGainLossPercent != nil {
					fmt.Fprintf(&b, "- Unrealized G/L: %s (%s)\n",
						utils.FormatSigned(*holding.UnrealizedGainLoss),
						utils.FormatSignedPercent(*holding.UnrealizedGainLossPercent))
				}
			}
			b.WriteString("\n")

			if len(holding.Lots) > 0 {
				b.WriteString("**Lot Details (Transaction History):**\n\n")
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
				b.WriteString("\n")
			}

			if r, ok := actionRanges[security]; ok {
				b.WriteString("**Action Price Ranges:**\n")
				if r.StrongAddZone != "" {
					fmt.Fprintf(&b, "- Strong Add Zone: %s\n", r.StrongAddZone)
				}
				if r.AccumulateSlowly != "" {
					fmt.Fprintf(&b, "- Accumulate Slowly: %s\n", r.AccumulateSlowly)
				}
				if r.PauseBuys != "" {
					fmt.Fprintf(&b, "- Pause Buys: %s\n", r.PauseBuys)
				}
				if r.TrimSmallPortion != "" {
					fmt.Fprintf(&b, "- Trim Small Portion: %s\n", r.TrimSmallPortion)
				}
				if r.ReEvaluateIfWeak != "" {
					fmt.Fprintf(&b, "- Re-evaluate if Market Weak: %s\n", r.ReEvaluateIfWeak)
				}
				if r.TrailingStop != nil {
					fmt.Fprintf(&b, "- Trailing Stop (SELL if below): %.2f\n", *r.TrailingStop)
				}
				b.WriteString("\n")
			}

			if rec, ok := recommendations[security]; ok {
				fmt.Fprintf(&b, "**Recommendation:** %s\n", strings.ReplaceAll(string(rec.Recommendation), "_", " "))
				fmt.Fprintf(&b, "- **Confidence:** %s\n", rec.Confidence)
				fmt.Fprintf(&b, "- **Reason:** %s\n\n", rec.Reason)
			}

			b.WriteString("---\n\n")
		}
	}

	b.WriteString("## Analysis Request\n\n")
	b.WriteString("Please analyze this portfolio and provide:\n\n")
	b.WriteString("1. **Overall Assessment:** Evaluate the portfolio health and risk level\n")
	b.WriteString("2. **Action Recommendations:** Review each security recommendation and provide detailed reasoning\n")
	b.WriteString("3. **Risk Management:** Identify any high-risk positions or concentration issues\n")
	b.WriteString("4. **Optimization Suggestions:** Recommend portfolio adjustments for better risk-adjusted returns\n")
	b.WriteString("5. **Market Context:** Consider current market conditions and provide strategic advice\n")

	return b.String()
}

func holdingRealized(holding *models.SecurityHolding) float64 {
	var total float64
	for _, lot := range holding.Lots {
		total += lot.RealizedGainLoss()
	}
	return total
}
