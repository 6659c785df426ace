package models

// SecurityHolding is the aggregate view of every lot for one security.
// It is derived state: recomputed in full whenever lots or prices change,
// never patched incrementally.
type SecurityHolding struct {
	Security                  string   `json:"security"`
	TotalQuantity             float64  `json:"totalQuantity"`
	AverageBuyPrice           float64  `json:"averageBuyPrice"`
	TotalCost                 float64  `json:"totalCost"`
	CurrentPrice              *float64 `json:"currentPrice,omitempty"`
	MarketValue               *float64 `json:"marketValue,omitempty"`
	UnrealizedGainLoss        *float64 `json:"unrealizedGainLoss,omitempty"`
	UnrealizedGainLossPercent *float64 `json:"unrealizedGainLossPercent,omitempty"`
	Lots                      []*Lot   `json:"lots"` // every lot ever created, sold or not
}

// PortfolioEntry carries broker-reported sales figures for one security,
// parsed from the portfolio summary export. Used to reconcile
// commission-inclusive realized gains against lot-derived cost basis.
type PortfolioEntry struct {
	Security           string  `json:"security"`
	SalesCommission    float64 `json:"salesCommission"`
	SalesProceeds      float64 `json:"salesProceeds"`
	UnrealizedGainLoss float64 `json:"unrealizedGainLoss"`
}
