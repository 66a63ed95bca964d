// Package fixedpoint implements fixed-width binary fractions in [0,1) with the
// positional comparison and two's-complement subtraction a digit-recurrence
// evaluator needs. Every Fraction carries its bit width; operations combining
// two fractions reject mismatched widths instead of scanning past the shorter one.
package fixedpoint

import (
	"math"
	"strings"

	"github.com/dora-network/dora-expcalc/errors"
)

const (
	// MaxWidth is the widest fraction that still decodes exactly into a float64.
	MaxWidth = 52
	// DefaultWidth is the bit width used by the reference evaluator.
	DefaultWidth = 10
)

// Fraction is an unsigned binary fraction with exactly Width() bits after an
// implicit binary point. Bit 1 is worth 2^-1, bit Width() is worth 2^-Width().
//
// The zero value has no width and is not a valid fraction; use Zero, FromRaw,
// Parse or Encode.
type Fraction struct {
	raw   uint64
	width uint8
}

func validWidth(width int) error {
	if width < 1 || width > MaxWidth {
		return errors.Wrapf(errors.ErrInvalidWidth, "%d not in [1, %d]", width, MaxWidth)
	}
	return nil
}

func mask(width uint8) uint64 {
	return 1<<width - 1
}

// Zero returns the all-zero fraction of the given width.
func Zero(width int) (Fraction, error) {
	return FromRaw(0, width)
}

// MustZero is Zero for widths known to be valid.
func MustZero(width int) Fraction {
	f, err := Zero(width)
	if err != nil {
		panic(err)
	}
	return f
}

// FromRaw builds a fraction from its bits, MSB first, as an unsigned integer.
// raw is the fraction scaled by 2^width.
func FromRaw(raw uint64, width int) (Fraction, error) {
	if err := validWidth(width); err != nil {
		return Fraction{}, err
	}
	if raw > mask(uint8(width)) {
		return Fraction{}, errors.Wrapf(errors.ErrRawOverflow, "%d needs more than %d bits", raw, width)
	}
	return Fraction{raw: raw, width: uint8(width)}, nil
}

// Parse reads a binary fraction literal such as "0.1011000110" or ".1011".
// The width is the number of digits after the point.
func Parse(s string) (Fraction, error) {
	digits, ok := strings.CutPrefix(s, "0.")
	if !ok {
		digits, ok = strings.CutPrefix(s, ".")
	}
	if !ok {
		return Fraction{}, errors.Wrapf(errors.ErrInvalidBinary, "%q has no leading binary point", s)
	}
	if err := validWidth(len(digits)); err != nil {
		return Fraction{}, err
	}

	var raw uint64
	for _, c := range digits {
		switch c {
		case '0':
			raw <<= 1
		case '1':
			raw = raw<<1 | 1
		default:
			return Fraction{}, errors.Wrapf(errors.ErrInvalidBinary, "%q contains %q", s, c)
		}
	}
	return Fraction{raw: raw, width: uint8(len(digits))}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Fraction {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

// Width returns the number of fractional bits.
func (f Fraction) Width() int {
	return int(f.width)
}

// Raw returns the bits as an unsigned integer, i.e. the fraction scaled by 2^Width().
func (f Fraction) Raw() uint64 {
	return f.raw
}

// Bit returns the bit at position pos, where 1 is the most significant.
func (f Fraction) Bit(pos int) uint8 {
	if pos < 1 || pos > int(f.width) {
		return 0
	}
	return uint8(f.raw >> (int(f.width) - pos) & 1)
}

func (f Fraction) withBit(pos int, bit uint8) Fraction {
	shift := int(f.width) - pos
	f.raw = f.raw&^(1<<shift) | uint64(bit)<<shift
	return f
}

// IsZero reports whether every bit is 0.
func (f Fraction) IsZero() bool {
	return f.raw == 0
}

// Equal reports whether f and o have the same width and the same bits.
func (f Fraction) Equal(o Fraction) bool {
	return f.width == o.width && f.raw == o.raw
}

// Float64 decodes the fraction. The result is exact for every valid width.
func (f Fraction) Float64() float64 {
	return math.Ldexp(float64(f.raw), -int(f.width))
}

// String renders the fraction in binary, e.g. "0.1011000110".
func (f Fraction) String() string {
	var b strings.Builder
	b.Grow(int(f.width) + 2)
	b.WriteString("0.")
	for pos := 1; pos <= int(f.width); pos++ {
		b.WriteByte('0' + f.Bit(pos))
	}
	return b.String()
}
