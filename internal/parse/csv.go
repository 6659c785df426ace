// Package parse converts raw broker CSV exports into typed records.
//
// Broker exports are hand-generated and inconsistent: title lines before the
// header, shifting column order, quoted fields with embedded commas, numbers
// with thousands separators. The parsers here locate the header row by fuzzy
// column-name matching and skip malformed rows instead of failing on them;
// only a structurally unusable file produces an error.
package parse

import (
	"strconv"
	"strings"
)

// splitLine splits one CSV line on commas, honoring double quotes. A quote
// character toggles the in-quotes state; escaped quotes are not a thing in
// these exports. Fields come back trimmed with quotes stripped.
func splitLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// parseNumber parses a numeric cell, stripping thousands separators.
// Malformed cells are worth 0, never an error: exports routinely carry
// blanks and placeholder text in numeric columns.
func parseNumber(value string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

// nonEmptyLines splits text into trimmed lines, dropping empty ones.
func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// headerSearchWindow caps how far into the file a header row is looked for.
const headerSearchWindow = 5

// findHeader scans the first few lines for one containing every required
// fragment (case-sensitive substring, matching the raw line the way the
// source exports are written). Returns -1 when no line qualifies.
func findHeader(lines []string, window int, fragments ...string) int {
	if window > len(lines) {
		window = len(lines)
	}
	for i := 0; i < window; i++ {
		ok := true
		for _, f := range fragments {
			if !strings.Contains(lines[i], f) {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}

// columns resolves header cells to indices by case-insensitive substring
// match. A fragment that matches no cell resolves to -1; callers decide
// which columns are mandatory.
type columns struct {
	headers []string
}

func newColumns(headerLine string) columns {
	return columns{headers: splitLine(headerLine)}
}

// index returns the first header cell containing fragment, or -1.
func (c columns) index(fragment string) int {
	fragment = strings.ToLower(fragment)
	for i, h := range c.headers {
		if strings.Contains(strings.ToLower(h), fragment) {
			return i
		}
	}
	return -1
}

// indexAny returns the first column matching any of the fragments.
func (c columns) indexAny(fragments ...string) int {
	for _, f := range fragments {
		if i := c.index(f); i != -1 {
			return i
		}
	}
	return -1
}

// cell returns the idx-th field of values, or "" when the column was not
// resolved or the row is too short.
func cell(values []string, idx int) string {
	if idx < 0 || idx >= len(values) {
		return ""
	}
	return values[idx]
}
