package models

import "time"

// StockSplit declares a ratio change for a security effective at a point in
// time. Ratio > 1 is a forward split, ratio < 1 a reverse split. Splits are
// user-supplied and persisted; the lot builder applies every split dated
// strictly after an order to that order's quantity and price.
type StockSplit struct {
	ID            string  `json:"id"`
	Security      string  `json:"security"`
	SplitDate     string  `json:"splitDate"`
	SplitDateTime string  `json:"splitDateTime"`
	Ratio         float64 `json:"ratio"`
}

// Timestamp resolves the split's effective point in time.
func (s StockSplit) Timestamp() (time.Time, bool) {
	for _, c := range []string{s.SplitDateTime, s.SplitDate} {
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
