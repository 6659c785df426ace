// Package recommend classifies holdings into trading actions using
// human-authored price zones.
package recommend

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"atrad-tracker/internal/models"
)

// dashRangeRe matches "X–Y" with hyphen, en dash, or em dash separators.
var dashRangeRe = regexp.MustCompile(`^([\d.]+)[\x{2013}\x{2014}-]+([\d.]+)$`)

// ParsePriceRange turns a zone string into a numeric range:
//
//	"Below 230" -> {0, 230}
//	"280+"      -> {280, +Inf}
//	"245–250"   -> {245, 250}
//	"250"       -> {250, 250}
//
// Anything unparseable, including the empty string, yields nil: the zone is
// simply absent.
func ParsePriceRange(zone string) *models.PriceRange {
	trimmed := strings.TrimSpace(zone)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(strings.ToLower(trimmed), "below") {
		rest := strings.TrimSpace(trimmed[len("below"):])
		if v, err := strconv.ParseFloat(rest, 64); err == nil {
			return &models.PriceRange{Min: 0, Max: v}
		}
		return nil
	}

	if strings.HasSuffix(trimmed, "+") {
		rest := strings.TrimSpace(strings.TrimSuffix(trimmed, "+"))
		if v, err := strconv.ParseFloat(rest, 64); err == nil {
			return &models.PriceRange{Min: v, Max: math.Inf(1)}
		}
		return nil
	}

	if m := dashRangeRe.FindStringSubmatch(trimmed); m != nil {
		min, errMin := strconv.ParseFloat(m[1], 64)
		max, errMax := strconv.ParseFloat(m[2], 64)
		// Reversed bounds are an authoring error; the zone is treated as
		// absent rather than silently widened.
		if errMin == nil && errMax == nil && min <= max {
			return &models.PriceRange{Min: min, Max: max}
		}
	}

	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return &models.PriceRange{Min: v, Max: v}
	}

	return nil
}
