package parse

import (
	"fmt"
	"regexp"
	"strings"

	"atrad-tracker/internal/errors"
	"atrad-tracker/internal/models"
)

var dateTimeRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s+(\d{2}:\d{2}:\d{2})`)

// OrderTracker parses an order tracker CSV export into orders.
//
// Only rows with status exactly "FILLED" survive. Partial fills sharing an
// exchange order id collapse to the single fill event with zero remaining
// quantity; once an id has been accepted it is never reconsidered. Rows
// missing a security or with an unknown side are skipped silently.
func OrderTracker(csvText string) ([]models.Order, error) {
	lines := nonEmptyLines(csvText)
	if len(lines) < 3 {
		return nil, errors.NewFormatError("order tracker CSV", "expected at least 3 lines (title, empty, header)")
	}

	headerIdx := findHeader(lines, headerSearchWindow, "Security", "Side", "Order Qty")
	if headerIdx == -1 {
		return nil, errors.NewFormatError("order tracker CSV", "could not find header row")
	}

	cols := newColumns(lines[headerIdx])
	securityIdx := cols.index("security")
	sideIdx := cols.index("side")
	orderQtyIdx := cols.index("order qty")
	orderPriceIdx := cols.index("order price")
	orderValueIdx := cols.index("order value")
	orderStatusIdx := cols.index("order status")
	remainingQtyIdx := cols.index("remaining qty")
	filledQtyIdx := cols.index("filled qty")
	orderDateTimeIdx := cols.index("order date and time")
	exchangeOrderIDIdx := cols.index("exchange order id")

	if securityIdx == -1 || sideIdx == -1 || orderQtyIdx == -1 || orderPriceIdx == -1 {
		return nil, errors.NewFormatError("order tracker CSV", "missing required columns")
	}

	minFields := maxIndex(securityIdx, sideIdx, orderQtyIdx, orderPriceIdx) + 1

	var orders []models.Order
	acceptedExchangeIDs := make(map[string]struct{})

	for i := headerIdx + 1; i < len(lines); i++ {
		values := splitLine(lines[i])
		if len(values) < minFields {
			continue
		}

		security := cell(values, securityIdx)
		side := models.OrderSide(strings.ToUpper(cell(values, sideIdx)))
		orderStatus := cell(values, orderStatusIdx)
		remainingQty := parseNumber(cell(values, remainingQtyIdx))
		filledQty := parseNumber(cell(values, filledQtyIdx))
		exchangeOrderID := cell(values, exchangeOrderIDIdx)

		if orderStatus != models.OrderStatusFilled {
			continue
		}

		// Partial fills share the exchange order id; only the completing
		// fill (remaining 0) represents the whole order.
		if exchangeOrderID != "" {
			if _, seen := acceptedExchangeIDs[exchangeOrderID]; seen {
				continue
			}
			if remainingQty != 0 {
				continue
			}
			acceptedExchangeIDs[exchangeOrderID] = struct{}{}
		}

		if security == "" || (side != models.OrderSideBuy && side != models.OrderSideSell) {
			continue
		}

		orderQty := parseNumber(cell(values, orderQtyIdx))
		orderPrice := parseNumber(cell(values, orderPriceIdx))
		orderValue := parseNumber(cell(values, orderValueIdx))
		orderDateTime := cell(values, orderDateTimeIdx)

		var orderDate, orderTime string
		if m := dateTimeRe.FindStringSubmatch(orderDateTime); m != nil {
			orderDate, orderTime = m[1], m[2]
		}

		id := exchangeOrderID
		if id == "" {
			// Row-scoped synthetic id keeps rebuilds deterministic.
			id = fmt.Sprintf("order-%d", i)
		}

		if orderValue == 0 {
			orderValue = orderQty * orderPrice
		}
		if filledQty == 0 {
			filledQty = orderQty
		}

		orders = append(orders, models.Order{
			ID:              id,
			Security:        security,
			Side:            side,
			OrderQty:        orderQty,
			OrderPrice:      orderPrice,
			OrderValue:      orderValue,
			OrderDate:       orderDate,
			OrderTime:       orderTime,
			OrderDateTime:   orderDateTime,
			ExchangeOrderID: exchangeOrderID,
			FilledQty:       filledQty,
			RemainingQty:    remainingQty,
			OrderStatus:     orderStatus,
		})
	}

	return orders, nil
}

func maxIndex(indices ...int) int {
	max := indices[0]
	for _, v := range indices[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
