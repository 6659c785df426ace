package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atrad-tracker/internal/lots"
	"atrad-tracker/internal/models"
	"atrad-tracker/internal/recommend"
)

func fixtureHoldings(t *testing.T) map[string]*models.SecurityHolding {
	t.Helper()
	orders := []models.Order{
		{
			ID: "b1", Security: "ACL.N0000", Side: models.OrderSideBuy,
			OrderQty: 100, OrderPrice: 30, OrderValue: 3000, FilledQty: 100,
			OrderDateTime: "2024-01-01 10:00:00", OrderDate: "2024-01-01", OrderTime: "10:00:00",
			OrderStatus: models.OrderStatusFilled,
		},
		{
			ID: "s1", Security: "ACL.N0000", Side: models.OrderSideSell,
			OrderQty: 50, OrderPrice: 40, OrderValue: 2000, FilledQty: 50,
			OrderDateTime: "2024-03-01 10:00:00", OrderDate: "2024-03-01", OrderTime: "10:00:00",
			OrderStatus: models.OrderStatusFilled,
		},
		{
			ID: "b2", Security: "JKH.N0000", Side: models.OrderSideBuy,
			OrderQty: 10, OrderPrice: 150, OrderValue: 1500, FilledQty: 10,
			OrderDateTime: "2024-02-01 10:00:00", OrderDate: "2024-02-01", OrderTime: "10:00:00",
			OrderStatus: models.OrderStatusFilled,
		},
	}
	splits := []models.StockSplit{
		{ID: "sp1", Security: "ACL.N0000", SplitDate: "2024-02-01", Ratio: 2},
	}
	allLots := lots.NewBuilder(zerolog.Nop()).ProcessOrders(orders, splits)
	return lots.Holdings(allLots, map[string]float64{"ACL.N0000": 42})
}

func TestLotAnalysisCSV(t *testing.T) {
	content := LotAnalysisCSV(fixtureHoldings(t))
	csvLines := strings.Split(content, "\n")

	assert.True(t, strings.HasPrefix(csvLines[0], "Security,Buy Date,Buy Price"))
	// One sell match row for ACL, one unsold row for JKH.
	require.Len(t, csvLines, 3)
	assert.Contains(t, csvLines[1], `"ACL.N0000"`)
	// Split-adjusted buy price and the original alongside it.
	assert.Contains(t, csvLines[1], `"15.00"`)
	assert.Contains(t, csvLines[1], `"30.00"`)
	assert.Contains(t, csvLines[1], `"2.00"`) // split ratio column
	assert.Contains(t, csvLines[2], `"JKH.N0000"`)
	// Unsold rows leave the sell cells empty and realized at zero.
	assert.Contains(t, csvLines[2], `"","","","","","0.00"`)
}

func TestLotAnalysisMarkdown(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	splits := []models.StockSplit{
		{ID: "sp1", Security: "ACL.N0000", SplitDate: "2024-02-01", Ratio: 2},
	}

	md := LotAnalysisMarkdown(fixtureHoldings(t), splits, now)

	assert.Contains(t, md, "# Stock Portfolio - Lot-wise Gain/Loss Analysis")
	assert.Contains(t, md, "Generated on: 2024-06-01 12:00:00")
	assert.Contains(t, md, "## ACL.N0000")
	assert.Contains(t, md, "### Stock Splits Applied")
	assert.Contains(t, md, "| 2024-02-01 | 2:1 |")
	assert.Contains(t, md, "## JKH.N0000")
	assert.Contains(t, md, "15.00 (was 30.00)")
	assert.Contains(t, md, "Not sold")
}

func TestAIMetadataJSON(t *testing.T) {
	holdings := fixtureHoldings(t)
	actionRanges := map[string]models.ActionPriceRange{
		"ACL.N0000": {Security: "ACL.N0000", PauseBuys: "40-45"},
	}
	recs := recommend.ForAll(holdings, actionRanges)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	content, err := AIMetadataJSON(holdings, recs, actionRanges, now)
	require.NoError(t, err)

	var meta AIMetadata
	require.NoError(t, json.Unmarshal([]byte(content), &meta))

	assert.Equal(t, "2024-06-01T12:00:00Z", meta.ExportDate)
	assert.Equal(t, 2, meta.PortfolioSummary.TotalSecurities)
	assert.Equal(t, 1, meta.PortfolioSummary.SecuritiesWithRecommendations)
	require.Len(t, meta.Securities, 2)

	acl := meta.Securities[0]
	assert.Equal(t, "ACL.N0000", acl.Security)
	require.NotNil(t, acl.Recommendation)
	assert.Equal(t, models.ActionTrim, acl.Recommendation.Recommendation)
	require.NotNil(t, acl.ActionPriceRanges)
	require.Len(t, acl.LotDetails, 1)
	assert.Equal(t, 3000.0, acl.LotDetails[0].TotalCost)

	jkh := meta.Securities[1]
	assert.Nil(t, jkh.Recommendation)
	assert.Nil(t, jkh.ActionPriceRanges)
}

func TestAIMarkdownGroupsByRecommendation(t *testing.T) {
	holdings := fixtureHoldings(t)
	actionRanges := map[string]models.ActionPriceRange{
		"ACL.N0000": {Security: "ACL.N0000", PauseBuys: "40-45"},
	}
	recs := recommend.ForAll(holdings, actionRanges)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	md := AIMarkdown(holdings, recs, actionRanges, now)

	assert.Contains(t, md, "# Stock Portfolio Analysis for AI Agent")
	assert.Contains(t, md, "## TRIM (1 securities)")
	assert.Contains(t, md, "## NO RECOMMENDATION (1 securities)")
	assert.Contains(t, md, "## Analysis Request")
	assert.Contains(t, md, "**Overall Assessment:**")

	// Urgent groups render before the catch-all.
	trimIdx := strings.Index(md, "## TRIM")
	noneIdx := strings.Index(md, "## NO RECOMMENDATION")
	assert.Less(t, trimIdx, noneIdx)
}

func TestActionRangePromptJSON(t *testing.T) {
	holdings := fixtureHoldings(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	content, err := ActionRangePromptJSON(holdings, now)
	require.NoError(t, err)

	var prompt ActionRangePrompt
	require.NoError(t, json.Unmarshal([]byte(content), &prompt))

	assert.Equal(t, "Generate Action Price Ranges CSV for portfolio management", prompt.Purpose)
	assert.Contains(t, prompt.Instructions.CSVFormat.Headers, "Company Code")
	assert.NotEmpty(t, prompt.ExampleCSVRow)
	require.Len(t, prompt.Securities, 2)

	acl := prompt.Securities[0]
	assert.Equal(t, "ACL.N0000", acl.Security)
	// avg price 15 (split adjusted), 1% commission buffer
	assert.InDelta(t, 15.15, acl.BreakEvenSellPrice, 1e-9)
	// Current price 42, position in profit: zones derive from the price.
	assert.Equal(t, "37.80–39.90", acl.SuggestedZones.AccumulateSlowly)
	assert.Equal(t, "50.40+", acl.SuggestedZones.TrimSmallPortion)
	assert.InDelta(t, 37.8, acl.SuggestedZones.TrailingStop, 1e-9)

	jkh := prompt.Securities[1]
	// No current price: only the break-even trailing stop is suggested.
	assert.Empty(t, jkh.SuggestedZones.AccumulateSlowly)
	assert.InDelta(t, 147.0, jkh.SuggestedZones.TrailingStop, 1e-9)
}
