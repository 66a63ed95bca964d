package fixedpoint

import "github.com/dora-network/dora-expcalc/errors"

func sameWidth(a, b Fraction) error {
	if a.width != b.width {
		return errors.Wrapf(errors.ErrWidthMismatch, "%d and %d bits", a.width, b.width)
	}
	return nil
}

// Compare orders a and b by scanning bits from the most significant down. The
// first position where they differ decides: the side holding the 1 is larger.
// It returns -1, 0 or +1 and fails when the widths differ.
func Compare(a, b Fraction) (int, error) {
	if err := sameWidth(a, b); err != nil {
		return 0, err
	}
	for pos := 1; pos <= int(a.width); pos++ {
		ab, bb := a.Bit(pos), b.Bit(pos)
		switch {
		case ab > bb:
			return 1, nil
		case ab < bb:
			return -1, nil
		}
	}
	return 0, nil
}

// GreaterOrEqual reports a >= b. Equal fractions count as greater-or-equal so
// the recurrence subtracts on a tie.
func GreaterOrEqual(a, b Fraction) (bool, error) {
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}
