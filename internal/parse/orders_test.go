package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "atrad-tracker/internal/errors"
	"atrad-tracker/internal/models"
)

const ordersHeader = "Security,Side,Order Qty,Order Price,Order Value,Order Status,Remaining Qty,Filled Qty,Order Date and Time,Exchange Order ID"

func ordersCSV(rows ...string) string {
	text := "Order Tracker Report\nGenerated on 2024-03-01\n" + ordersHeader + "\n"
	for _, row := range rows {
		text += row + "\n"
	}
	return text
}

func TestOrderTrackerParsesFilledOrders(t *testing.T) {
	csv := ordersCSV(
		"ACL.N0000,BUY,100,73.50,7350.00,FILLED,0,100,2024-01-10 09:35:12,EX-1",
		"ACL.N0000,SELL,50,80.00,4000.00,FILLED,0,50,2024-02-01 10:00:00,EX-2",
	)

	orders, err := OrderTracker(csv)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	buy := orders[0]
	assert.Equal(t, "EX-1", buy.ID)
	assert.Equal(t, "ACL.N0000", buy.Security)
	assert.Equal(t, models.OrderSideBuy, buy.Side)
	assert.Equal(t, 100.0, buy.OrderQty)
	assert.Equal(t, 73.50, buy.OrderPrice)
	assert.Equal(t, "2024-01-10", buy.OrderDate)
	assert.Equal(t, "09:35:12", buy.OrderTime)

	assert.Equal(t, models.OrderSideSell, orders[1].Side)
}

func TestOrderTrackerSkipsNonFilled(t *testing.T) {
	csv := ordersCSV(
		"ACL.N0000,BUY,100,73.50,7350.00,FILLED,0,100,2024-01-10 09:35:12,EX-1",
		"ACL.N0000,BUY,200,74.00,14800.00,PENDING,200,0,2024-01-11 09:00:00,EX-2",
		"ACL.N0000,BUY,300,75.00,22500.00,CANCELLED,300,0,2024-01-12 09:00:00,EX-3",
	)

	orders, err := OrderTracker(csv)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "EX-1", orders[0].ID)
}

func TestOrderTrackerDeduplicatesPartialFills(t *testing.T) {
	// Two FILLED rows share an exchange order id; only the completing fill
	// with zero remaining quantity represents the order.
	csv := ordersCSV(
		"ACL.N0000,BUY,100,73.50,7350.00,FILLED,40,60,2024-01-10 09:35:12,EX-1",
		"ACL.N0000,BUY,100,73.50,7350.00,FILLED,0,100,2024-01-10 09:36:40,EX-1",
		"ACL.N0000,BUY,100,73.50,7350.00,FILLED,0,100,2024-01-10 09:37:00,EX-1",
	)

	orders, err := OrderTracker(csv)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 0.0, orders[0].RemainingQty)
	assert.Equal(t, 100.0, orders[0].FilledQty)
	assert.Equal(t, "09:36:40", orders[0].OrderTime)
}

func TestOrderTrackerQuotedThousands(t *testing.T) {
	csv := ordersCSV(
		`JKH.N0000,BUY,"1,500","142.50","213,750.00",FILLED,0,"1,500",2024-01-15 11:20:05,EX-9`,
	)

	orders, err := OrderTracker(csv)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 1500.0, orders[0].OrderQty)
	assert.Equal(t, 142.50, orders[0].OrderPrice)
	assert.Equal(t, 213750.0, orders[0].OrderValue)
}

func TestOrderTrackerFallbacks(t *testing.T) {
	// Missing order value and filled qty fall back to qty*price and qty.
	csv := ordersCSV(
		"ACL.N0000,BUY,100,50.00,,FILLED,0,,2024-01-10 09:35:12,EX-1",
	)

	orders, err := OrderTracker(csv)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 5000.0, orders[0].OrderValue)
	assert.Equal(t, 100.0, orders[0].FilledQty)
}

func TestOrderTrackerSyntheticIDsAreDeterministic(t *testing.T) {
	csv := ordersCSV(
		"ACL.N0000,BUY,100,50.00,5000.00,FILLED,0,100,2024-01-10 09:35:12,",
	)

	first, err := OrderTracker(csv)
	require.NoError(t, err)
	second, err := OrderTracker(csv)
	require.NoError(t, err)

	require.Len(t, first, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.NotEmpty(t, first[0].ID)
}

func TestOrderTrackerSkipsUnknownSides(t *testing.T) {
	csv := ordersCSV(
		"ACL.N0000,SHORT,100,50.00,5000.00,FILLED,0,100,2024-01-10 09:35:12,EX-1",
		",BUY,100,50.00,5000.00,FILLED,0,100,2024-01-10 09:35:12,EX-2",
		"ACL.N0000,buy,100,50.00,5000.00,FILLED,0,100,2024-01-10 09:35:12,EX-3",
	)

	orders, err := OrderTracker(csv)
	require.NoError(t, err)
	// Lowercase side is uppercased and accepted; the others are skipped.
	require.Len(t, orders, 1)
	assert.Equal(t, "EX-3", orders[0].ID)
}

func TestOrderTrackerFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"too few lines", "Security,Side,Order Qty\n"},
		{"no header row", "a\nb\nc\nd\n"},
		{"missing required columns", "title\nsubtitle\nSecurity,Side,Order Qty,Other\nx,y,z,w\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OrderTracker(tt.csv)
			require.Error(t, err)
			assert.True(t, apperrors.IsFormatError(err))
		})
	}
}
