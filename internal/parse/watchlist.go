package parse

import (
	"atrad-tracker/internal/errors"
)

// Watchlist parses a watchlist CSV into a security -> last price mapping.
// Rows with a price of zero or less are dropped.
func Watchlist(csvText string) (map[string]float64, error) {
	lines := nonEmptyLines(csvText)
	if len(lines) < 2 {
		return nil, errors.NewFormatError("watchlist CSV", "expected at least header and data rows")
	}

	headerIdx := findHeader(lines, 3, "Security", "Last")
	if headerIdx == -1 {
		return nil, errors.NewFormatError("watchlist CSV", "could not find header row with Security and Last columns")
	}

	cols := newColumns(lines[headerIdx])
	securityIdx := cols.index("security")
	lastIdx := cols.index("last")
	if securityIdx == -1 || lastIdx == -1 {
		return nil, errors.NewFormatError("watchlist CSV", "missing Security or Last columns")
	}

	minFields := maxIndex(securityIdx, lastIdx) + 1
	prices := make(map[string]float64)

	for i := headerIdx + 1; i < len(lines); i++ {
		values := splitLine(lines[i])
		if len(values) < minFields {
			continue
		}
		security := cell(values, securityIdx)
		last := parseNumber(cell(values, lastIdx))
		if security != "" && last > 0 {
			prices[security] = last
		}
	}

	return prices, nil
}
