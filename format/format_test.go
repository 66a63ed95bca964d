package format_test

import (
	"testing"

	"github.com/dora-network/dora-expcalc/errors"
	"github.com/dora-network/dora-expcalc/format"

	"github.com/stretchr/testify/require"
)

func TestDecimal(t *testing.T) {
	tcs := []struct {
		name string
		y    float64
		exp  string
	}{
		{"one", 1, "1.00000000"},
		{"ln 2 approximation", 1.999969482421875, "1.99996948"},
		{"e rounds up", 2.718281828459045, "2.71828183"},
		{"half rounds away from zero", 0.123456785, "0.12345679"},
		{"tie is taken from the shortest decimal form", 1.000000005, "1.00000001"},
		{"tie below binary value still rounds up", 1.123456785, "1.12345679"},
		{"small fraction is padded", 3.00000042, "3.00000042"},
		{"fraction rounding to a whole keeps nine digits", 1.999999999, "1.100000000"},
		{"negative uses the absolute fraction", -1.25, "-1.25000000"},
		{"zero", 0, "0.00000000"},
	}

	for _, tc := range tcs {
		t.Run(
			tc.name, func(t *testing.T) {
				require.Equal(t, tc.exp, format.Decimal(tc.y))
			},
		)
	}
}

func TestParseInput(t *testing.T) {
	tcs := []struct {
		name        string
		line        string
		expValue    float64
		expSentinel bool
		expErr      error
	}{
		{"plain", "0.6931", 0.6931, false, nil},
		{"surrounding spaces", "  1.5 \t", 1.5, false, nil},
		{"integer", "1", 1, false, nil},
		{"sentinel", "-7", -7, true, nil},
		{"sentinel with zeros", "-7.000", -7, true, nil},
		{"near sentinel", "-6.9999999", -6.9999999, false, nil},
		{"positive seven", "7", 7, false, nil},
		{"invalid: empty", "   ", 0, false, errors.ErrEmptyInput},
		{"invalid: letters", "abc", 0, false, errors.ErrInvalidNumber},
		{"invalid: trailing junk", "0.5x", 0, false, errors.ErrInvalidNumber},
	}

	for _, tc := range tcs {
		t.Run(
			tc.name, func(t *testing.T) {
				in, err := format.ParseInput(tc.line)
				if tc.expErr != nil {
					require.ErrorIs(t, err, tc.expErr)
					return
				}
				require.NoError(t, err)
				require.Equal(t, tc.expValue, in.Value)
				require.Equal(t, tc.expSentinel, in.Sentinel)
			},
		)
	}
}
