package parse

import (
	"strings"

	"atrad-tracker/internal/errors"
	"atrad-tracker/internal/models"
)

// ActionPriceRanges parses the externally authored action-price-range table.
// Three columns are mandatory (company code / security, quantity, average
// price); everything else is optional and left unset when the column or cell
// is absent. Column order is free.
func ActionPriceRanges(csvText string) (map[string]models.ActionPriceRange, error) {
	lines := nonEmptyLines(csvText)
	if len(lines) < 2 {
		return nil, errors.NewFormatError("action price ranges CSV", "expected at least header and one data row")
	}

	headerIdx := findHeader(lines, 3, "Quantity")
	if headerIdx == -1 {
		return nil, errors.NewFormatError("action price ranges CSV", "could not find header row")
	}

	cols := newColumns(lines[headerIdx])
	codeIdx := cols.indexAny("company code", "security")
	quantityIdx := cols.index("quantity")
	avgPriceIdx := cols.indexAny("avg price", "average price")
	besIdx := cols.indexAny("b.e.s", "break even")
	lastIdx := cols.index("last")
	changePercentIdx := cols.indexAny("% change", "change %")
	changeIdx := indexExcluding(cols, "change", "%")
	accumulateIdx := cols.index("accumulate slowly")
	strongAddIdx := cols.index("strong add zone")
	reEvaluateIdx := cols.indexAny("re-evaluate", "reevaluate")
	pauseBuysIdx := cols.index("pause buys")
	trimIdx := cols.index("trim small portion")
	investmentIdx := cols.indexAny("investment_percentage", "investment percentage")
	trailingStopIdx := cols.index("trailing stop")

	if codeIdx == -1 || quantityIdx == -1 || avgPriceIdx == -1 {
		return nil, errors.NewFormatError("action price ranges CSV", "missing required columns (Company Code, Quantity, Avg Price)")
	}

	ranges := make(map[string]models.ActionPriceRange)

	for i := headerIdx + 1; i < len(lines); i++ {
		values := splitLine(lines[i])
		if len(values) < 3 {
			continue
		}

		security := cell(values, codeIdx)
		if security == "" {
			continue
		}

		avgPrice := parseNumber(cell(values, avgPriceIdx))
		bes := avgPrice
		if v := cell(values, besIdx); v != "" {
			bes = parseNumber(v)
		}

		r := models.ActionPriceRange{
			Security:           security,
			Quantity:           parseNumber(cell(values, quantityIdx)),
			AvgPrice:           avgPrice,
			BreakEvenSellPrice: bes,
			AccumulateSlowly:   cell(values, accumulateIdx),
			StrongAddZone:      cell(values, strongAddIdx),
			ReEvaluateIfWeak:   cell(values, reEvaluateIdx),
			PauseBuys:          cell(values, pauseBuysIdx),
			TrimSmallPortion:   cell(values, trimIdx),
		}

		if v := cell(values, lastIdx); v != "" {
			r.LastPrice = ptr(parseNumber(v))
		}
		if v := cell(values, changeIdx); v != "" {
			r.Change = ptr(parseNumber(v))
		}
		if v := cell(values, changePercentIdx); v != "" {
			r.ChangePercent = ptr(parseNumber(v))
		}
		if v := cell(values, investmentIdx); v != "" {
			r.InvestmentPercentage = ptr(parseNumber(strings.ReplaceAll(v, "%", "")))
		}
		if v := cell(values, trailingStopIdx); v != "" {
			r.TrailingStop = ptr(parseNumber(v))
		}

		ranges[security] = r
	}

	return ranges, nil
}

// indexExcluding finds the first column containing fragment but not excluded.
// Needed to tell "Change" apart from "% Change".
func indexExcluding(c columns, fragment, excluded string) int {
	fragment = strings.ToLower(fragment)
	excluded = strings.ToLower(excluded)
	for i, h := range c.headers {
		lower := strings.ToLower(h)
		if strings.Contains(lower, fragment) && !strings.Contains(lower, excluded) {
			return i
		}
	}
	return -1
}

func ptr(f float64) *float64 { return &f }
