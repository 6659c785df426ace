package export

import (
	"encoding/json"
	"fmt"
	"time"

	"atrad-tracker/internal/models"
)

// rangesCSVHeaders is the header row the AI is asked to reproduce when
// generating an action price ranges CSV.
const rangesCSVHeaders = "Company Code,Quantity,Avg Price,B.E.S Price,Last,Change,% Change,Accumulate Slowly,Strong Add Zone,Re-evaluate if Market Weak,Pause Buys,Trim Small Portion,Investment_Percentage,Time,Trailing Stop (SELL if below)"

const rangesExampleCSVRow = "ACL.N0000,380,73.74,74.56,107.00,1.75,1.66,95-100,85-90,Below 80,115-120,130+,5.80%,13:29:03.301165,95"

type rangesCSVFormat struct {
	Headers           string            `json:"headers"`
	Description       map[string]string `json:"description"`
	PriceRangeFormats []string          `json:"priceRangeFormats"`
	CalculationGuides map[string]string `json:"calculationGuidelines"`
}

type rangesInstructions struct {
	Task         string          `json:"task"`
	CSVFormat    rangesCSVFormat `json:"csvFormat"`
	OutputFormat string          `json:"outputFormat"`
}

type pricePoint struct {
	BuyDate  string  `json:"buyDate"`
	BuyPrice float64 `json:"buyPrice"`
	Quantity float64 `json:"quantity"`
}

type suggestedZones struct {
	StrongAddZone    string  `json:"strongAddZone,omitempty"`
	AccumulateSlowly string  `json:"accumulateSlowly,omitempty"`
	PauseBuys        string  `json:"pauseBuys,omitempty"`
	TrimSmallPortion string  `json:"trimSmallPortion,omitempty"`
	TrailingStop     float64 `json:"trailingStop"`
}

type rangesSecurity struct {
	Security             string          `json:"security"`
	CurrentPosition      CurrentPosition `json:"currentPosition"`
	PriceHistory         []pricePoint    `json:"priceHistory"`
	InvestmentPercentage float64         `json:"investmentPercentage"`
	BreakEvenSellPrice   float64         `json:"breakEvenSellPrice"`
	SuggestedZones       suggestedZones  `json:"suggestedZones"`
}

// ActionRangePrompt is a JSON document that instructs an AI agent to
// produce an action price ranges CSV from the current holdings.
type ActionRangePrompt struct {
	ExportDate       string             `json:"exportDate"`
	Purpose          string             `json:"purpose"`
	Instructions     rangesInstructions `json:"instructions"`
	PortfolioSummary PortfolioSummary   `json:"portfolioSummary"`
	Securities       []rangesSecurity   `json:"securities"`
	ExampleCSVRow    string             `json:"exampleCSVRow"`
}

// BuildActionRangePrompt assembles the AI prompt for generating an action
// price ranges CSV. Suggested zones are derived from the current price when
// one is known, otherwise from the average buy price.
func BuildActionRangePrompt(holdings map[string]*models.SecurityHolding, now time.Time) ActionRangePrompt {
	prompt := ActionRangePrompt{
		ExportDate: now.UTC().Format(time.RFC3339),
		Purpose:    "Generate Action Price Ranges CSV for portfolio management",
		Instructions: rangesInstructions{
			Task: "Based on the portfolio data below, generate a CSV file with Action Price Ranges for each security. The CSV should follow the exact format specified.",
			CSVFormat: rangesCSVFormat{
				Headers: rangesCSVHeaders,
				Description: map[string]string{
					"Company Code":                  "Security symbol (e.g., ACL.N0000)",
					"Quantity":                      "Current holding quantity",
					"Avg Price":                     "Average buy price from currentPosition.averageBuyPrice",
					"B.E.S Price":                   "Break-even sell price (usually avg price + 1-2% buffer for commissions)",
					"Last":                          "Current/last price from currentPosition.currentPrice",
					"Change":                        "Price change amount (can be 0 if not available)",
					"% Change":                      "Price change percentage (can be 0 if not available)",
					"Accumulate Slowly":             "Price range for gradual accumulation (format: '245–250' or 'Below 230')",
					"Strong Add Zone":               "Best price range for aggressive buying (format: '235–240')",
					"Re-evaluate if Market Weak":    "Price threshold to reconsider position (format: 'Below 230')",
					"Pause Buys":                    "Price range where buying should pause (format: '260–270')",
					"Trim Small Portion":            "Price level to start taking profits (format: '280+')",
					"Investment_Percentage":         "Percentage of portfolio in this security (calculate from marketValue/totalPortfolioValue)",
					"Time":                          "Current timestamp (format: HH:MM:SS.microseconds)",
					"Trailing Stop (SELL if below)": "Stop loss price level (number only, no text)",
				},
				PriceRangeFormats: []string{
					"Range format: '245–250' (use en-dash or hyphen between numbers)",
					"Above threshold: '280+' (use plus sign)",
					"Below threshold: 'Below 230' (use 'Below' prefix)",
					"Single value: '250' (just the number)",
				},
				CalculationGuides: map[string]string{
					"Strong Add Zone":            "If unrealizedGainLossPercent > 0: 10-20% below current price. If loss: near support levels (5-10% below avg price)",
					"Accumulate Slowly":          "5-10% below current price, good entry zone for adding",
					"Pause Buys":                 "10-15% above current price, consider pausing new purchases",
					"Trim Small Portion":         "20-30% above current price, take partial profits",
					"Re-evaluate if Market Weak": "15-25% below current price, critical support level",
					"Trailing Stop":              "If profit: 5-10% below current price. If loss: at break-even or 2-3% below avg price",
				},
			},
			OutputFormat: "Return ONLY the CSV content with header row and one row per security. Do not include any explanations or markdown formatting, just the raw CSV.",
		},
		Securities:    []rangesSecurity{},
		ExampleCSVRow: rangesExampleCSVRow,
	}

	var totalValue float64
	for _, h := range holdings {
		if h.MarketValue != nil {
			totalValue += *h.MarketValue
		}
	}

	for _, security := range sortedSecurities(holdings) {
		holding := holdings[security]
		prompt.PortfolioSummary.TotalSecurities++
		prompt.PortfolioSummary.TotalCost += holding.TotalCost
		if holding.UnrealizedGainLoss != nil {
			prompt.PortfolioSummary.TotalUnrealizedGainLoss += *holding.UnrealizedGainLoss
		}

		investmentPercent := 0.0
		if totalValue > 0 {
			base := holding.TotalCost
			if holding.MarketValue != nil {
				base = *holding.MarketValue
			}
			investmentPercent = base / totalValue * 100
		}

		sec := rangesSecurity{
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
			PriceHistory:         []pricePoint{},
			InvestmentPercentage: investmentPercent,
			BreakEvenSellPrice:   holding.AverageBuyPrice * 1.01,
			SuggestedZones:       zonesFor(holding),
		}
		for _, lot := range holding.Lots {
			sec.PriceHistory = append(sec.PriceHistory, pricePoint{
				BuyDate:  lot.BuyDate,
				BuyPrice: lot.BuyPrice,
				Quantity: lot.Quantity,
			})
		}

		prompt.Securities = append(prompt.Securities, sec)
	}
	prompt.PortfolioSummary.TotalPortfolioValue = totalValue

	return prompt
}

// ActionRangePromptJSON renders the action range prompt as indented JSON.
func ActionRangePromptJSON(holdings map[string]*models.SecurityHolding, now time.Time) (string, error) {
	prompt := BuildActionRangePrompt(holdings, now)
	out, err := json.MarshalIndent(prompt, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding action range prompt: %w", err)
	}
	return string(out), nil
}

func zonesFor(holding *models.SecurityHolding) suggestedZones {
	zones := suggestedZones{
		TrailingStop: holding.AverageBuyPrice * 0.98,
	}
	if holding.CurrentPrice == nil {
		return zones
	}

	price := *holding.CurrentPrice
	inProfit := holding.UnrealizedGainLossPercent != nil && *holding.UnrealizedGainLossPercent > 0

	if inProfit {
		zones.StrongAddZone = fmt.Sprintf("%.2f–%.2f", price*0.85, price*0.90)
		zones.TrailingStop = price * 0.90
	} else {
		zones.StrongAddZone = fmt.Sprintf("%.2f–%.2f", holding.AverageBuyPrice*0.90, holding.AverageBuyPrice*0.95)
	}
	zones.AccumulateSlowly = fmt.Sprintf("%.2f–%.2f", price*0.90, price*0.95)
	zones.PauseBuys = fmt.Sprintf("%.2f–%.2f", price*1.10, price*1.15)
	zones.TrimSmallPortion = fmt.Sprintf("%.2f+", price*1.20)

	return zones
}
