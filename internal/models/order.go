// Package models defines the core data types for portfolio lot accounting.
package models

import "time"

// OrderSide represents the direction of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderStatusFilled is the only order status consumed by the lot builder.
// The match is case-sensitive: broker exports use the exact literal.
const OrderStatusFilled = "FILLED"

// Order represents one brokerage fill from an order tracker export.
// Orders are immutable once parsed; they are the source of truth the
// entire lot history is rebuilt from.
type Order struct {
	ID              string    `json:"id"`
	Security        string    `json:"security"`
	Side            OrderSide `json:"side"`
	OrderQty        float64   `json:"orderQty"`
	OrderPrice      float64   `json:"orderPrice"`
	OrderValue      float64   `json:"orderValue"`
	OrderDate       string    `json:"orderDate"`     // "2006-01-02"
	OrderTime       string    `json:"orderTime"`     // "15:04:05"
	OrderDateTime   string    `json:"orderDateTime"` // raw datetime cell
	ExchangeOrderID string    `json:"exchangeOrderId"`
	FilledQty       float64   `json:"filledQty"`
	RemainingQty    float64   `json:"remainingQty"`
	OrderStatus     string    `json:"orderStatus"`
}

// timestampLayouts are tried in order when interpreting order datetimes.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp resolves the order's point in time for chronological sorting.
// It prefers the combined datetime and falls back to the date plus
// time-of-day. Returns false when neither field parses.
func (o Order) Timestamp() (time.Time, bool) {
	candidates := []string{o.OrderDateTime}
	if o.OrderDate != "" {
		if o.OrderTime != "" {
			candidates = append(candidates, o.OrderDate+" "+o.OrderTime)
		}
		candidates = append(candidates, o.OrderDate)
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
