package models

// ActionPriceRange holds the externally authored trading zones for one
// security. Zone fields are free-form strings ("245–250", "280+",
// "Below 230"); empty means the zone was not provided. Numeric optionals are
// pointers because several call sites distinguish absent from zero.
type ActionPriceRange struct {
	Security             string   `json:"security"`
	Quantity             float64  `json:"quantity"`
	AvgPrice             float64  `json:"avgPrice"`
	BreakEvenSellPrice   float64  `json:"breakEvenSellPrice"`
	LastPrice            *float64 `json:"lastPrice,omitempty"`
	Change               *float64 `json:"change,omitempty"`
	ChangePercent        *float64 `json:"changePercent,omitempty"`
	AccumulateSlowly     string   `json:"accumulateSlowly,omitempty"`
	StrongAddZone        string   `json:"strongAddZone,omitempty"`
	ReEvaluateIfWeak     string   `json:"reEvaluateIfWeak,omitempty"`
	PauseBuys            string   `json:"pauseBuys,omitempty"`
	TrimSmallPortion     string   `json:"trimSmallPortion,omitempty"`
	InvestmentPercentage *float64 `json:"investmentPercentage,omitempty"`
	TrailingStop         *float64 `json:"trailingStop,omitempty"`
}
