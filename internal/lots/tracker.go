// Package lots rebuilds tax-lot history from order fills.
//
// The builder makes a single deterministic pass over the orders in
// chronological sequence: every BUY creates a lot, every SELL is matched
// against that security's open lots oldest-first (FIFO). Stock splits dated
// after an order retroactively inflate its quantity and deflate its price so
// that cost basis is split-invariant. Rebuilding from identical inputs
// yields identical lots; nothing here keeps state between calls.
package lots

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"atrad-tracker/internal/models"
)

// Builder turns orders and splits into lots. It holds no state across
// ProcessOrders calls; the logger is used for data-consistency warnings
// (oversold sells), which never abort processing.
type Builder struct {
	logger zerolog.Logger
}

// NewBuilder creates a lot builder.
func NewBuilder(logger zerolog.Logger) *Builder {
	return &Builder{logger: logger}
}

// ProcessOrders walks orders in chronological sequence and produces the full
// lot history. Splits are applied per security in ascending date order. A
// SELL that exceeds the matchable lot supply leaves the remainder unrecorded
// with a warning; short positions are not modeled.
func (b *Builder) ProcessOrders(orders []models.Order, splits []models.StockSplit) []*models.Lot {
	splitsBySecurity := groupSplits(splits)
	sorted := sortOrders(orders)

	var allLots []*models.Lot
	lotsBySecurity := make(map[string][]*models.Lot)

	for _, order := range sorted {
		ratio := cumulativeSplitRatio(splitsBySecurity[order.Security], order)

		switch order.Side {
		case models.OrderSideBuy:
			lot := newLot(order, ratio)
			allLots = append(allLots, lot)
			lotsBySecurity[order.Security] = append(lotsBySecurity[order.Security], lot)

		case models.OrderSideSell:
			adjustedQty := order.OrderQty * ratio
			adjustedPrice := order.OrderPrice / ratio
			leftover := matchSell(lotsBySecurity[order.Security], order, adjustedQty, adjustedPrice)
			if leftover > 0 {
				b.logger.Warn().
					Str("security", order.Security).
					Str("order_id", order.ID).
					Float64("unmatched_qty", leftover).
					Msg("SELL order exceeds available lot quantity")
			}
		}
	}

	return allLots
}

// newLot creates the lot for one BUY order, applying the cumulative
// future-split ratio. Quantity scales up, price scales down, so
// TotalCost equals the original cost basis.
func newLot(order models.Order, ratio float64) *models.Lot {
	adjustedQty := order.OrderQty * ratio
	adjustedPrice := order.OrderPrice / ratio

	lot := &models.Lot{
		ID:                fmt.Sprintf("lot-%s", order.ID),
		Security:          order.Security,
		BuyOrderID:        order.ID,
		BuyDate:           order.OrderDate,
		BuyPrice:          adjustedPrice,
		Quantity:          adjustedQty,
		RemainingQuantity: adjustedQty,
		TotalCost:         adjustedQty * adjustedPrice,
		SellOrders:        []models.SellMatch{},
	}

	if ratio != 1.0 {
		origPrice, origQty, r := order.OrderPrice, order.OrderQty, ratio
		lot.OriginalBuyPrice = &origPrice
		lot.OriginalQuantity = &origQty
		lot.SplitRatio = &r
	}

	return lot
}

// matchSell applies a SELL order to a security's lots in creation order,
// oldest BUY first, and returns whatever quantity could not be matched.
func matchSell(securityLots []*models.Lot, order models.Order, sellQty, sellPrice float64) float64 {
	remaining := sellQty

	for _, lot := range securityLots {
		if remaining <= 0 {
			break
		}
		if lot.RemainingQuantity <= 0 {
			continue
		}

		qty := remaining
		if lot.RemainingQuantity < qty {
			qty = lot.RemainingQuantity
		}

		lot.SellOrders = append(lot.SellOrders, models.SellMatch{
			SellOrderID:     order.ID,
			SellDate:        order.OrderDate,
			SellPrice:       sellPrice,
			Quantity:        qty,
			Proceeds:        qty * sellPrice,
			GainLoss:        qty * (sellPrice - lot.BuyPrice),
			GainLossPercent: (sellPrice - lot.BuyPrice) / lot.BuyPrice * 100,
		})
		lot.RemainingQuantity -= qty
		remaining -= qty
	}

	return remaining
}

// groupSplits indexes splits by security, each list ascending by date.
func groupSplits(splits []models.StockSplit) map[string][]models.StockSplit {
	grouped := make(map[string][]models.StockSplit)
	for _, s := range splits {
		grouped[s.Security] = append(grouped[s.Security], s)
	}
	for _, list := range grouped {
		sort.SliceStable(list, func(i, j int) bool {
			ti, _ := list[i].Timestamp()
			tj, _ := list[j].Timestamp()
			return ti.Before(tj)
		})
	}
	return grouped
}

// cumulativeSplitRatio multiplies the ratios of every split dated strictly
// after the order. An order with no parseable timestamp gets ratio 1: there
// is no defensible point on the timeline to adjust it from.
func cumulativeSplitRatio(splits []models.StockSplit, order models.Order) float64 {
	ratio := 1.0
	orderTime, ok := order.Timestamp()
	if !ok {
		return ratio
	}
	for _, s := range splits {
		splitTime, sok := s.Timestamp()
		if sok && orderTime.Before(splitTime) {
			ratio *= s.Ratio
		}
	}
	return ratio
}

// sortOrders returns the orders sorted ascending by timestamp, ties broken
// by lexical time-of-day. The sort is stable so fully tied orders keep
// their input sequence.
func sortOrders(orders []models.Order) []models.Order {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, _ := sorted[i].Timestamp()
		tj, _ := sorted[j].Timestamp()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return sorted[i].OrderTime < sorted[j].OrderTime
	})
	return sorted
}
