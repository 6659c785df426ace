// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatAmount formats a monetary amount with thousands separators and two
// decimal places, e.g. 1234567.891 -> "1,234,567.89".
func FormatAmount(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	result := groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	result := s[n-3:]
	s = s[:n-3]
	for len(s) > 3 {
		result = s[len(s)-3:] + "," + result
		s = s[:len(s)-3]
	}
	return s + "," + result
}

// FormatSigned formats an amount with an explicit leading + for gains.
func FormatSigned(value float64) string {
	if value >= 0 {
		return "+" + FormatAmount(value)
	}
	return FormatAmount(value)
}

// FormatSignedPercent formats a percentage with an explicit leading sign.
func FormatSignedPercent(value float64) string {
	if value >= 0 {
		return fmt.Sprintf("+%.2f%%", value)
	}
	return fmt.Sprintf("%.2f%%", value)
}
