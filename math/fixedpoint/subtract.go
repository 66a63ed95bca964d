package fixedpoint

// Negate returns the two's-complement of t within its width. Scanning from the
// least significant bit, bits are copied up to and including the first 1 and
// every bit above it is inverted. Zero negates to zero.
func Negate(t Fraction) Fraction {
	out := t
	seenOne := false
	for pos := int(t.width); pos >= 1; pos-- {
		bit := t.Bit(pos)
		if seenOne {
			out = out.withBit(pos, bit^1)
			continue
		}
		if bit == 1 {
			seenOne = true
		}
	}
	return out
}

// Sub returns s - t as s + Negate(t), adding bit by bit from the least
// significant position with the carry rippling upwards. The carry out of the
// top bit is discarded.
//
// The caller must ensure s >= t, normally by checking GreaterOrEqual first.
// When s < t the result is the wrapped value s - t + 1, which has no numeric
// meaning for the recurrence; no error is reported for it. Sub only fails when
// the widths differ.
func Sub(s, t Fraction) (Fraction, error) {
	if err := sameWidth(s, t); err != nil {
		return Fraction{}, err
	}

	neg := Negate(t)
	out := Fraction{width: s.width}
	var carry uint8
	for pos := int(s.width); pos >= 1; pos-- {
		sum := s.Bit(pos) + neg.Bit(pos) + carry
		out = out.withBit(pos, sum&1)
		carry = sum >> 1
	}
	return out, nil
}
