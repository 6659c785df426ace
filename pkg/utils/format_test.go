package utils

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1234.5, "1,234.50"},
		{1234567.891, "1,234,567.89"},
		{999, "999.00"},
		{1000, "1,000.00"},
		{-2500.75, "-2,500.75"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in), "FormatAmount(%v)", tt.in)
	}
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+500.00", FormatSigned(500))
	assert.Equal(t, "+0.00", FormatSigned(0))
	assert.Equal(t, "-1,250.50", FormatSigned(-1250.5))
}

func TestFormatSignedPercent(t *testing.T) {
	assert.Equal(t, "+12.34%", FormatSignedPercent(12.34))
	assert.Equal(t, "-5.00%", FormatSignedPercent(-5))
	assert.Equal(t, "+0.00%", FormatSignedPercent(0))
}

// For any amount, FormatAmount must group digits in threes, keep exactly two
// decimal places, and parse back to the same value.
func TestFormatAmountProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	groupedPattern := regexp.MustCompile(`^\d{1,3}(,\d{3})*$`)

	properties.Property("grouping and round trip", prop.ForAll(
		func(cents int64) bool {
			amount := float64(cents) / 100
			formatted := FormatAmount(amount)

			numPart := strings.TrimPrefix(formatted, "-")
			parts := strings.Split(numPart, ".")
			if len(parts) != 2 || len(parts[1]) != 2 {
				return false
			}
			if !groupedPattern.MatchString(parts[0]) {
				return false
			}

			back, err := strconv.ParseFloat(strings.ReplaceAll(formatted, ",", ""), 64)
			if err != nil {
				return false
			}
			return back == amount
		},
		gen.Int64Range(-1e12, 1e12),
	))

	properties.TestingRun(t)
}
