package lots

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atrad-tracker/internal/models"
)

func order(id, security string, side models.OrderSide, qty, price float64, datetime string) models.Order {
	return models.Order{
		ID:            id,
		Security:      security,
		Side:          side,
		OrderQty:      qty,
		OrderPrice:    price,
		OrderValue:    qty * price,
		OrderDateTime: datetime,
		OrderDate:     datetime[:10],
		OrderTime:     datetime[11:],
		FilledQty:     qty,
		OrderStatus:   models.OrderStatusFilled,
	}
}

func TestFIFOMatching(t *testing.T) {
	orders := []models.Order{
		order("b1", "ACL.N0000", models.OrderSideBuy, 100, 10, "2024-01-01 10:00:00"),
		order("b2", "ACL.N0000", models.OrderSideBuy, 100, 20, "2024-01-02 10:00:00"),
		order("s1", "ACL.N0000", models.OrderSideSell, 150, 30, "2024-01-03 10:00:00"),
	}

	lots := NewBuilder(zerolog.Nop()).ProcessOrders(orders, nil)
	require.Len(t, lots, 2)

	first, second := lots[0], lots[1]

	// Oldest lot is consumed fully.
	assert.Equal(t, "lot-b1", first.ID)
	assert.Equal(t, 0.0, first.RemainingQuantity)
	require.Len(t, first.SellOrders, 1)
	assert.Equal(t, 100.0, first.SellOrders[0].Quantity)
	assert.Equal(t, 2000.0, first.SellOrders[0].GainLoss)
	assert.Equal(t, models.LotClosed, first.State())

	// The remainder comes out of the second lot.
	assert.Equal(t, 50.0, second.RemainingQuantity)
	require.Len(t, second.SellOrders, 1)
	assert.Equal(t, 50.0, second.SellOrders[0].Quantity)
	assert.Equal(t, 500.0, second.SellOrders[0].GainLoss)
	assert.Equal(t, models.LotPartiallySold, second.State())
}

func TestSplitAdjustmentPreservesCostBasis(t *testing.T) {
	orders := []models.Order{
		order("b1", "ACL.N0000", models.OrderSideBuy, 100, 30, "2024-01-01 10:00:00"),
		order("s1", "ACL.N0000", models.OrderSideSell, 100, 20, "2024-03-01 10:00:00"),
	}
	splits := []models.StockSplit{
		{ID: "sp1", Security: "ACL.N0000", SplitDate: "2024-02-01", Ratio: 2},
	}

	lots := NewBuilder(zerolog.Nop()).ProcessOrders(orders, splits)
	require.Len(t, lots, 1)

	lot := lots[0]
	assert.Equal(t, 200.0, lot.Quantity)
	assert.Equal(t, 15.0, lot.BuyPrice)
	assert.Equal(t, 3000.0, lot.TotalCost)
	require.NotNil(t, lot.SplitRatio)
	assert.Equal(t, 2.0, *lot.SplitRatio)
	require.NotNil(t, lot.OriginalBuyPrice)
	assert.Equal(t, 30.0, *lot.OriginalBuyPrice)
	require.NotNil(t, lot.OriginalQuantity)
	assert.Equal(t, 100.0, *lot.OriginalQuantity)

	// The SELL is after the split, so it is not adjusted.
	require.Len(t, lot.SellOrders, 1)
	assert.Equal(t, 100.0, lot.SellOrders[0].Quantity)
	assert.Equal(t, 20.0, lot.SellOrders[0].SellPrice)
	assert.Equal(t, 500.0, lot.SellOrders[0].GainLoss)
	assert.Equal(t, 100.0, lot.RemainingQuantity)
}

func TestSellBeforeSplitIsAdjustedToo(t *testing.T) {
	orders := []models.Order{
		order("b1", "ACL.N0000", models.OrderSideBuy, 100, 30, "2024-01-01 10:00:00"),
		order("s1", "ACL.N0000", models.OrderSideSell, 50, 40, "2024-01-15 10:00:00"),
	}
	splits := []models.StockSplit{
		{ID: "sp1", Security: "ACL.N0000", SplitDate: "2024-02-01", Ratio: 2},
	}

	lots := NewBuilder(zerolog.Nop()).ProcessOrders(orders, splits)
	require.Len(t, lots, 1)

	lot := lots[0]
	require.Len(t, lot.SellOrders, 1)
	// Both legs adjusted: 50 shares @ 40 becomes 100 shares @ 20.
	assert.Equal(t, 100.0, lot.SellOrders[0].Quantity)
	assert.Equal(t, 20.0, lot.SellOrders[0].SellPrice)
	assert.Equal(t, 100.0, lot.RemainingQuantity)
}

func TestOversellIsNonFatal(t *testing.T) {
	orders := []models.Order{
		order("b1", "ACL.N0000", models.OrderSideBuy, 100, 10, "2024-01-01 10:00:00"),
		order("s1", "ACL.N0000", models.OrderSideSell, 150, 20, "2024-01-02 10:00:00"),
		order("b2", "ACL.N0000", models.OrderSideBuy, 50, 12, "2024-01-03 10:00:00"),
	}

	lots := NewBuilder(zerolog.Nop()).ProcessOrders(orders, nil)
	require.Len(t, lots, 2)

	// The first 100 matched; the excess 50 is dropped, not applied to the
	// later BUY.
	assert.Equal(t, 0.0, lots[0].RemainingQuantity)
	assert.Equal(t, 100.0, lots[0].SellOrders[0].Quantity)
	assert.Equal(t, 50.0, lots[1].RemainingQuantity)
	assert.Empty(t, lots[1].SellOrders)
}

func TestSellSkipsClosedLots(t *testing.T) {
	orders := []models.Order{
		order("b1", "ACL.N0000", models.OrderSideBuy, 10, 10, "2024-01-01 10:00:00"),
		order("s1", "ACL.N0000", models.OrderSideSell, 10, 15, "2024-01-02 10:00:00"),
		order("b2", "ACL.N0000", models.OrderSideBuy, 10, 12, "2024-01-03 10:00:00"),
		order("s2", "ACL.N0000", models.OrderSideSell, 5, 18, "2024-01-04 10:00:00"),
	}

	lots := NewBuilder(zerolog.Nop()).ProcessOrders(orders, nil)
	require.Len(t, lots, 2)
	assert.Equal(t, models.LotClosed, lots[0].State())
	require.Len(t, lots[1].SellOrders, 1)
	assert.Equal(t, "s2", lots[1].SellOrders[0].SellOrderID)
}

func TestOrdersSortedByTimestampNotInputOrder(t *testing.T) {
	orders := []models.Order{
		order("s1", "ACL.N0000", models.OrderSideSell, 50, 20, "2024-01-05 10:00:00"),
		order("b1", "ACL.N0000", models.OrderSideBuy, 100, 10, "2024-01-01 10:00:00"),
	}

	lots := NewBuilder(zerolog.Nop()).ProcessOrders(orders, nil)
	require.Len(t, lots, 1)
	require.Len(t, lots[0].SellOrders, 1)
	assert.Equal(t, 50.0, lots[0].RemainingQuantity)
}

func TestSecuritiesDoNotCrossMatch(t *testing.T) {
	orders := []models.Order{
		order("b1", "ACL.N0000", models.OrderSideBuy, 100, 10, "2024-01-01 10:00:00"),
		order("s1", "JKH.N0000", models.OrderSideSell, 50, 20, "2024-01-02 10:00:00"),
	}

	lots := NewBuilder(zerolog.Nop()).ProcessOrders(orders, nil)
	require.Len(t, lots, 1)
	assert.Empty(t, lots[0].SellOrders)
	assert.Equal(t, 100.0, lots[0].RemainingQuantity)
}

// buildGeneratedOrders turns parallel side/qty/price slices into an
// interleaved BUY/SELL sequence for one security, timestamps in input order.
func buildGeneratedOrders(sells []bool, qtys, prices []int) []models.Order {
	n := len(sells)
	if len(qtys) < n {
		n = len(qtys)
	}
	if len(prices) < n {
		n = len(prices)
	}
	orders := make([]models.Order, 0, n)
	for i := 0; i < n; i++ {
		side := models.OrderSideBuy
		if sells[i] {
			side = models.OrderSideSell
		}
		qty := float64(qtys[i])
		price := float64(prices[i]) / 10.0
		datetime := fmt.Sprintf("2024-01-%02d 10:%02d:00", i/24+1, i%24)
		orders = append(orders, order(fmt.Sprintf("o%d", i), "ACL.N0000", side, qty, price, datetime))
	}
	return orders
}

func TestLotBuilderProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	builder := NewBuilder(zerolog.Nop())

	sidesGen := gen.SliceOfN(12, gen.Bool())
	qtysGen := gen.SliceOfN(12, gen.IntRange(1, 500))
	pricesGen := gen.SliceOfN(12, gen.IntRange(1, 1000))

	properties.Property("rebuild from identical inputs is identical", prop.ForAll(
		func(sells []bool, qtys, prices []int) bool {
			orders := buildGeneratedOrders(sells, qtys, prices)
			first, _ := json.Marshal(builder.ProcessOrders(orders, nil))
			second, _ := json.Marshal(builder.ProcessOrders(orders, nil))
			return string(first) == string(second)
		},
		sidesGen, qtysGen, pricesGen,
	))

	properties.Property("remaining quantity stays within [0, quantity]", prop.ForAll(
		func(sells []bool, qtys, prices []int) bool {
			orders := buildGeneratedOrders(sells, qtys, prices)
			for _, lot := range builder.ProcessOrders(orders, nil) {
				if lot.RemainingQuantity < 0 || lot.RemainingQuantity > lot.Quantity {
					return false
				}
			}
			return true
		},
		sidesGen, qtysGen, pricesGen,
	))

	properties.Property("split never changes a lot's total cost", prop.ForAll(
		func(sells []bool, qtys, prices []int, ratio int) bool {
			orders := buildGeneratedOrders(sells, qtys, prices)
			splits := []models.StockSplit{
				{ID: "sp", Security: "ACL.N0000", SplitDate: "2024-06-01", Ratio: float64(ratio)},
			}
			plain := builder.ProcessOrders(orders, nil)
			adjusted := builder.ProcessOrders(orders, splits)
			if len(plain) != len(adjusted) {
				return false
			}
			for i := range plain {
				if !roughlyEqual(plain[i].TotalCost, adjusted[i].TotalCost) {
					return false
				}
			}
			return true
		},
		sidesGen, qtysGen, pricesGen,
		gen.IntRange(2, 10),
	))

	properties.TestingRun(t)
}

func roughlyEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-6
}
