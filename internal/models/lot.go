package models

// LotState describes how much of a lot has been sold off.
type LotState string

const (
	LotOpen          LotState = "OPEN"
	LotPartiallySold LotState = "PARTIALLY_SOLD"
	LotClosed        LotState = "CLOSED"
)

// SellMatch records a partial or full match of a SELL order against one lot.
type SellMatch struct {
	SellOrderID     string  `json:"sellOrderId"`
	SellDate        string  `json:"sellDate"`
	SellPrice       float64 `json:"sellPrice"` // split-adjusted
	Quantity        float64 `json:"quantity"`
	Proceeds        float64 `json:"proceeds"`
	GainLoss        float64 `json:"gainLoss"`
	GainLossPercent float64 `json:"gainLossPercent"`
}

// Lot is the remaining economic position of one BUY order. A lot is created
// exactly once per BUY; only RemainingQuantity decrements and SellOrders
// appends are allowed afterwards, both performed by the lot builder.
//
// BuyPrice and Quantity carry split adjustments. The pre-adjustment values
// and the cumulative ratio are retained only when a split actually applied,
// for audit and display.
type Lot struct {
	ID                string      `json:"id"`
	Security          string      `json:"security"`
	BuyOrderID        string      `json:"buyOrderId"`
	BuyDate           string      `json:"buyDate"`
	BuyPrice          float64     `json:"buyPrice"`
	Quantity          float64     `json:"quantity"`
	RemainingQuantity float64     `json:"remainingQuantity"`
	TotalCost         float64     `json:"totalCost"` // Quantity * BuyPrice, fixed at creation
	SellOrders        []SellMatch `json:"sellOrders"`
	OriginalBuyPrice  *float64    `json:"originalBuyPrice,omitempty"`
	OriginalQuantity  *float64    `json:"originalQuantity,omitempty"`
	SplitRatio        *float64    `json:"splitRatio,omitempty"`
}

// State derives the lot's lifecycle state from its remaining quantity.
func (l *Lot) State() LotState {
	switch {
	case l.RemainingQuantity <= 0:
		return LotClosed
	case l.RemainingQuantity < l.Quantity:
		return LotPartiallySold
	default:
		return LotOpen
	}
}

// RealizedGainLoss sums the gain/loss locked in by this lot's sell matches.
func (l *Lot) RealizedGainLoss() float64 {
	var total float64
	for _, s := range l.SellOrders {
		total += s.GainLoss
	}
	return total
}
