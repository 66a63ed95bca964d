package fixedpoint

import (
	"math"

	"github.com/dora-network/dora-expcalc/errors"
)

// Encode converts v to a fraction of the given width with the doubling method.
//
// If v >= 1, 1 is subtracted exactly once and reduced is true. What remains is
// doubled width times; each doubling emits a 1 (and drops the integer part) when
// it reaches 1, else a 0. Bits below 2^-width are truncated.
//
// Only [0, 2) can be reduced this way: negative values, values >= 2, NaN and
// infinities are rejected.
func Encode(v float64, width int) (f Fraction, reduced bool, err error) {
	if err = validWidth(width); err != nil {
		return Fraction{}, false, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Fraction{}, false, errors.Wrapf(errors.ErrNotFinite, "%v", v)
	}
	if v < 0 || v >= 2 {
		return Fraction{}, false, errors.Wrapf(errors.ErrOutOfDomain, "%v", v)
	}

	if v >= 1 {
		v -= 1
		reduced = true
	}

	var raw uint64
	for range width {
		v *= 2
		raw <<= 1
		if v >= 1 {
			raw |= 1
			v -= 1
		}
	}
	return Fraction{raw: raw, width: uint8(width)}, reduced, nil
}
