package fixedpoint_test

import (
	"testing"

	"github.com/dora-network/dora-expcalc/errors"
	"github.com/dora-network/dora-expcalc/math/fixedpoint"

	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tcs := []struct {
		name string
		a    string
		b    string
		exp  int
	}{
		{"equal", "0.1011000110", "0.1011000110", 0},
		{"msb decides", "0.1000000000", "0.0111111111", 1},
		{"lsb decides", "0.0000000000", "0.0000000001", -1},
		{"middle bit", "0.0110011111", "0.0111000000", -1},
		{"zero vs zero", "0.0000000000", "0.0000000000", 0},
	}

	for _, tc := range tcs {
		t.Run(
			tc.name, func(t *testing.T) {
				got, err := fixedpoint.Compare(fixedpoint.MustParse(tc.a), fixedpoint.MustParse(tc.b))
				require.NoError(t, err)
				require.Equal(t, tc.exp, got)
			},
		)
	}
}

func TestCompareWidthMismatch(t *testing.T) {
	_, err := fixedpoint.Compare(fixedpoint.MustParse("0.10"), fixedpoint.MustParse("0.100"))
	require.ErrorIs(t, err, errors.ErrWidthMismatch)

	_, err = fixedpoint.GreaterOrEqual(fixedpoint.MustParse("0.1"), fixedpoint.MustParse("0.10"))
	require.ErrorIs(t, err, errors.ErrWidthMismatch)
}

func TestGreaterOrEqualTie(t *testing.T) {
	ge, err := fixedpoint.GreaterOrEqual(fixedpoint.MustParse("0.0011100100"), fixedpoint.MustParse("0.0011100100"))
	require.NoError(t, err)
	require.True(t, ge)
}

// Every pair of 6-bit fractions orders the same way as their decoded values.
func TestCompareTotalOrder(t *testing.T) {
	const width = 6
	for a := uint64(0); a < 1<<width; a++ {
		for b := uint64(0); b < 1<<width; b++ {
			fa, _ := fixedpoint.FromRaw(a, width)
			fb, _ := fixedpoint.FromRaw(b, width)

			got, err := fixedpoint.Compare(fa, fb)
			require.NoError(t, err)

			var exp int
			switch {
			case fa.Float64() > fb.Float64():
				exp = 1
			case fa.Float64() < fb.Float64():
				exp = -1
			}
			require.Equal(t, exp, got, "%s vs %s", fa, fb)

			ge, err := fixedpoint.GreaterOrEqual(fa, fb)
			require.NoError(t, err)
			require.Equal(t, exp >= 0, ge)
		}
	}
}

func TestNegate(t *testing.T) {
	tcs := []struct {
		in  string
		exp string
	}{
		{"0.0110011111", "0.1001100001"},
		{"0.0000000001", "0.1111111111"},
		{"0.1000000000", "0.1000000000"},
		{"0.0000000000", "0.0000000000"},
		{"0.0000111110", "0.1111000010"},
	}

	for _, tc := range tcs {
		t.Run(
			tc.in, func(t *testing.T) {
				require.Equal(t, tc.exp, fixedpoint.Negate(fixedpoint.MustParse(tc.in)).String())
			},
		)
	}
}

func TestSub(t *testing.T) {
	tcs := []struct {
		name string
		s    string
		t    string
		exp  string
	}{
		{"first ln step", "0.1011000101", "0.0110011111", "0.0100100110"},
		{"second ln step", "0.0100100110", "0.0011100100", "0.0001000010"},
		{"borrow across zeros", "0.0001000010", "0.0000111110", "0.0000000100"},
		{"all ones minus lsb", "0.1111111111", "0.0000000001", "0.1111111110"},
		{"tie", "0.1000000000", "0.1000000000", "0.0000000000"},
	}

	for _, tc := range tcs {
		t.Run(
			tc.name, func(t *testing.T) {
				got, err := fixedpoint.Sub(fixedpoint.MustParse(tc.s), fixedpoint.MustParse(tc.t))
				require.NoError(t, err)
				require.Equal(t, tc.exp, got.String())
			},
		)
	}
}

func TestSubIdentities(t *testing.T) {
	const width = 8
	zero := fixedpoint.MustZero(width)
	for raw := uint64(0); raw < 1<<width; raw++ {
		s, _ := fixedpoint.FromRaw(raw, width)

		got, err := fixedpoint.Sub(s, zero)
		require.NoError(t, err)
		require.True(t, s.Equal(got), "%s - 0 = %s", s, got)

		got, err = fixedpoint.Sub(s, s)
		require.NoError(t, err)
		require.True(t, got.Equal(zero), "%s - itself = %s", s, got)

		for t2 := uint64(0); t2 <= raw; t2 += 7 {
			tf, _ := fixedpoint.FromRaw(t2, width)
			got, err = fixedpoint.Sub(s, tf)
			require.NoError(t, err)
			require.Equal(t, raw-t2, got.Raw())
		}
	}
}

// Sub does not guard its s >= t precondition; it wraps modulo 2^width.
func TestSubWrapsBelowPrecondition(t *testing.T) {
	got, err := fixedpoint.Sub(fixedpoint.MustParse("0.0101"), fixedpoint.MustParse("0.1001"))
	require.NoError(t, err)
	require.Equal(t, "0.1100", got.String())
}

func TestSubWidthMismatch(t *testing.T) {
	_, err := fixedpoint.Sub(fixedpoint.MustParse("0.10"), fixedpoint.MustParse("0.100"))
	require.ErrorIs(t, err, errors.ErrWidthMismatch)
}
