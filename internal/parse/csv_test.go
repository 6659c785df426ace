package parse

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"quoted number", `"1,234.56",x`, []string{"1234.56", "x"}},
		{"trims spaces", " a , b ", []string{"a", "b"}},
		{"empty fields", "a,,c", []string{"a", "", "c"}},
		{"single field", "a", []string{"a"}},
		{"unterminated quote", `a,"b,c`, []string{"a", "b,c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitLine(tt.line))
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"123", 123},
		{"1,234.56", 1234.56},
		{"213,750.00", 213750},
		{"  42  ", 42},
		{"", 0},
		{"N/A", 0},
		{"-", 0},
		{"-15.5", -15.5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseNumber(tt.in), "parseNumber(%q)", tt.in)
	}
}

// splitLine on quote-free fields must invert strings.Join, and quoting a
// field with embedded commas must round it back whole.
func TestSplitLineProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	fieldGen := gen.RegexMatch(`[A-Za-z0-9. ]{0,12}`)

	properties.Property("joins back to the same fields", prop.ForAll(
		func(fields []string) bool {
			line := strings.Join(fields, ",")
			got := splitLine(line)
			if len(got) != len(fields) {
				return false
			}
			for i := range fields {
				if got[i] != strings.TrimSpace(fields[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, fieldGen),
	))

	properties.Property("quoted field preserves embedded commas", prop.ForAll(
		func(a, b string) bool {
			line := `x,"` + a + `,` + b + `",y`
			got := splitLine(line)
			return len(got) == 3 && got[1] == strings.TrimSpace(a+","+b)
		},
		fieldGen, fieldGen,
	))

	properties.TestingRun(t)
}
