package models

// Action is a rule-based trading recommendation label.
type Action string

const (
	ActionBuyNew               Action = "BUY_NEW"
	ActionAddAccumulate        Action = "ADD_ACCUMULATE"
	ActionHold                 Action = "HOLD"
	ActionTrim                 Action = "TRIM"
	ActionExit                 Action = "EXIT"
	ActionStrongStopTakeProfit Action = "STRONG_STOP_TAKE_PROFIT"
)

// Confidence is the tier attached to a recommendation.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// PriceRange is a parsed numeric zone. Max is +Inf for open-ended zones
// like "280+".
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price falls inside the range, bounds included.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// TargetZones carries the numeric zones a recommendation was derived from.
type TargetZones struct {
	AccumulateSlowly *PriceRange `json:"accumulateSlowly,omitempty"`
	StrongAddZone    *PriceRange `json:"strongAddZone,omitempty"`
	ReEvaluateIfWeak *float64    `json:"reEvaluateIfWeak,omitempty"`
	PauseBuys        *PriceRange `json:"pauseBuys,omitempty"`
	TrimSmallPortion *float64    `json:"trimSmallPortion,omitempty"`
	TrailingStop     *float64    `json:"trailingStop,omitempty"`
}

// SecurityRecommendation is the derived classification for one holding.
// It is ephemeral: recomputed from current holdings and action ranges on
// every query, never persisted.
type SecurityRecommendation struct {
	Security       string      `json:"security"`
	Recommendation Action      `json:"recommendation"`
	Confidence     Confidence  `json:"confidence"`
	Reason         string      `json:"reason"`
	CurrentPrice   float64     `json:"currentPrice"`
	TargetZones    TargetZones `json:"targetZones"`
}
