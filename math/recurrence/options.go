package recurrence

import (
	"github.com/dora-network/dora-expcalc/math/fixedpoint"
	"github.com/rs/zerolog"
)

// DefaultMaxReuses bounds how many steps, on average, each table index may take.
// Greedy decomposition of a 10-bit remainder never needs more than 17 steps in
// total, so the derived bound of 40 is never reached on valid input.
const DefaultMaxReuses = 4

type Option func(*options)

type options struct {
	bits      int
	tableSize int
	table     *Table
	maxSteps  int
	maxReuses int
	logger    zerolog.Logger
}

func defaultOptions() options {
	return options{
		bits:      fixedpoint.DefaultWidth,
		tableSize: DefaultTableSize,
		maxReuses: DefaultMaxReuses,
		logger:    zerolog.Nop(),
	}
}

// WithBits sets the fraction width of the remainder and the table.
func WithBits(bits int) Option {
	return func(o *options) {
		o.bits = bits
	}
}

// WithTableSize sets how many ln(1+2^-i) entries are used.
func WithTableSize(size int) Option {
	return func(o *options) {
		o.tableSize = size
	}
}

// WithTable uses a prebuilt table; it overrides WithBits and WithTableSize.
func WithTable(table *Table) Option {
	return func(o *options) {
		o.table = table
	}
}

// WithMaxSteps sets the total step bound directly. Zero means derive it from
// the table size and WithMaxReuses.
func WithMaxSteps(steps int) Option {
	return func(o *options) {
		o.maxSteps = steps
	}
}

// WithMaxReuses sets the per-index multiplier used to derive the step bound.
func WithMaxReuses(reuses int) Option {
	return func(o *options) {
		o.maxReuses = reuses
	}
}

// WithLogger sets the logger used for per-evaluation debug traces.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
