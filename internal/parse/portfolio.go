package parse

import (
	"strings"

	"atrad-tracker/internal/errors"
	"atrad-tracker/internal/models"
)

// Portfolio parses a broker portfolio summary CSV into per-security sales
// commission and proceeds figures. The trailing TOTAL row is skipped, as are
// securities with neither commissions nor proceeds.
func Portfolio(csvText string) (map[string]models.PortfolioEntry, error) {
	lines := nonEmptyLines(csvText)
	if len(lines) < 3 {
		return nil, errors.NewFormatError("portfolio CSV", "expected at least header and data rows")
	}

	headerIdx := findHeader(lines, headerSearchWindow, "Security", "Sales Commission", "Sales Proceeds")
	if headerIdx == -1 {
		return nil, errors.NewFormatError("portfolio CSV", "could not find header row")
	}

	cols := newColumns(lines[headerIdx])
	securityIdx := cols.index("security")
	commissionIdx := cols.index("sales commission")
	proceedsIdx := cols.index("sales proceeds")
	unrealizedIdx := cols.index("unrealized gain")

	if securityIdx == -1 || commissionIdx == -1 || proceedsIdx == -1 {
		return nil, errors.NewFormatError("portfolio CSV", "missing required columns")
	}

	minFields := maxIndex(securityIdx, commissionIdx, proceedsIdx) + 1
	entries := make(map[string]models.PortfolioEntry)

	for i := headerIdx + 1; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(strings.ToUpper(line), "TOTAL") {
			continue
		}

		values := splitLine(line)
		if len(values) < minFields {
			continue
		}

		security := cell(values, securityIdx)
		commission := parseNumber(cell(values, commissionIdx))
		proceeds := parseNumber(cell(values, proceedsIdx))
		unrealized := parseNumber(cell(values, unrealizedIdx))

		if security != "" && (commission > 0 || proceeds > 0) {
			entries[security] = models.PortfolioEntry{
				Security:           security,
				SalesCommission:    commission,
				SalesProceeds:      proceeds,
				UnrealizedGainLoss: unrealized,
			}
		}
	}

	return entries, nil
}
