package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCentsFromDollars(t *testing.T) {
	cases := map[string]int64{
		"0":      0,
		"0.49":   49,
		"0.50":   50,
		"4.99":   499,
		"10":     1000,
		"10.005": 1001,
		"123.45": 12345,
	}
	for in, want := range cases {
		d := decimal.RequireFromString(in)
		require.Equal(t, want, CentsFromDollars(d), "input %s", in)
	}
}

func TestFormatCents(t *testing.T) {
	require.Equal(t, "$0.00", FormatCents(0, "usd"))
	require.Equal(t, "$0.49", FormatCents(49, "usd"))
	require.Equal(t, "$12.34", FormatCents(1234, "USD"))
	require.Equal(t, "€12.34", FormatCents(1234, "eur"))
	require.Equal(t, "12.34 xyz", FormatCents(1234, "xyz"))
}

// Formatting cents as a major-unit decimal and parsing it back must recover
// the original integer for the whole working range.
func TestFormatParseRoundTrip(t *testing.T) {
	for cents := int64(0); cents <= 1_000_000; cents++ {
		s := strings.TrimPrefix(FormatCents(cents, "usd"), "$")
		d, err := ParseDollars(s)
		require.NoError(t, err)
		require.Equal(t, cents, CentsFromDollars(d), "cents %d", cents)
	}
}

func TestParseDollarsRejectsGarbage(t *testing.T) {
	_, err := ParseDollars("twelve")
	require.Error(t, err)
}
