package recurrence

import (
	"math"

	"github.com/dora-network/dora-expcalc/errors"
	"github.com/dora-network/dora-expcalc/math/fixedpoint"
)

// DefaultTableSize is the number of ln(1+2^-i) entries in the reference table.
const DefaultTableSize = 10

// Entry is one row of the logarithm table.
type Entry struct {
	// Index is i in ln(1+2^-i).
	Index int
	// Value is ln(1+2^-i) rounded to the nearest fraction of the table width.
	Value fixedpoint.Fraction
	// Factor is 1+2^-i, applied to the accumulator when Value is consumed.
	Factor float64
}

// Exact returns ln(1+2^-i) in float64.
func (e Entry) Exact() float64 {
	return math.Log1p(math.Ldexp(1, -e.Index))
}

// Table holds ln(1+2^-i) for i = 0..Len()-1 at a fixed width. It is immutable
// once built.
type Table struct {
	width   int
	entries []Entry
}

// defaultTable is built once for the whole process.
var defaultTable = func() *Table {
	t, err := NewTable(fixedpoint.DefaultWidth, DefaultTableSize)
	if err != nil {
		panic(err)
	}
	return t
}()

// DefaultTable returns the shared 10-bit, 10-entry table.
func DefaultTable() *Table {
	return defaultTable
}

// NewTable computes a table of size entries at the given width. size must be in
// [1, width]; past that the entries round to zero and the recurrence could not
// consume them.
func NewTable(width, size int) (*Table, error) {
	if width < 1 || width > fixedpoint.MaxWidth {
		return nil, errors.Wrapf(errors.ErrInvalidWidth, "%d not in [1, %d]", width, fixedpoint.MaxWidth)
	}
	if size < 1 || size > width {
		return nil, errors.Wrapf(errors.ErrInvalidTableSize, "%d not in [1, %d]", size, width)
	}

	scale := math.Ldexp(1, width)
	entries := make([]Entry, size)
	for i := range entries {
		e := Entry{Index: i, Factor: 1 + math.Ldexp(1, -i)}
		raw := uint64(math.Round(e.Exact() * scale))
		if raw == 0 {
			return nil, errors.Wrapf(errors.ErrZeroTableEntry, "index %d at %d bits", i, width)
		}
		v, err := fixedpoint.FromRaw(raw, width)
		if err != nil {
			return nil, err
		}
		e.Value = v
		entries[i] = e
	}
	return &Table{width: width, entries: entries}, nil
}

// Width is the bit width shared by every entry.
func (t *Table) Width() int {
	return t.width
}

// Len is the number of entries and the recurrence's index bound.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entry returns row i. It panics when i is out of range, like a slice index.
func (t *Table) Entry(i int) Entry {
	return t.entries[i]
}

// Entries returns a copy of every row.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}
