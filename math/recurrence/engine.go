// Package recurrence evaluates e^x with a table-driven digit recurrence: the
// input is encoded as a binary fraction, entries ln(1+2^-i) are greedily
// subtracted from it, and every subtraction multiplies the result by (1+2^-i).
// Apart from that scaling, only comparisons and bitwise additions are used.
package recurrence

import (
	"math"

	"github.com/dora-network/dora-expcalc/errors"
	"github.com/dora-network/dora-expcalc/math/fixedpoint"
	"github.com/rs/zerolog"
)

// HaltReason tells why an evaluation stopped.
type HaltReason uint8

const (
	// HaltZeroRemainder means the input was fully decomposed.
	HaltZeroRemainder HaltReason = iota
	// HaltTableExhausted means every table index was passed with a non-zero remainder.
	HaltTableExhausted
	// HaltStepLimit means the step bound was reached first.
	HaltStepLimit
)

func (h HaltReason) String() string {
	switch h {
	case HaltZeroRemainder:
		return "zero_remainder"
	case HaltTableExhausted:
		return "table_exhausted"
	case HaltStepLimit:
		return "step_limit"
	default:
		return "unspecified"
	}
}

// Evaluation is the outcome of one e^x evaluation.
type Evaluation struct {
	Input  float64
	Result float64
	// Reduced is true when the input was >= 1 and the encoder took 1 off it.
	Reduced bool
	// Remainder is what was left undecomposed when the loop stopped.
	Remainder fixedpoint.Fraction
	// Steps counts loop iterations, each one a comparison.
	Steps int
	// Consumed lists the table indices subtracted, in order.
	Consumed []int
	Halt     HaltReason
}

// Subtractions is the number of table entries consumed.
func (e Evaluation) Subtractions() int {
	return len(e.Consumed)
}

// Engine evaluates e^x against one immutable table. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	table    *Table
	maxSteps int
	log      zerolog.Logger
}

var defaultEngine = func() *Engine {
	e, err := New()
	if err != nil {
		panic(err)
	}
	return e
}()

// Default returns the shared engine with a 10-bit, 10-entry table.
func Default() *Engine {
	return defaultEngine
}

// New builds an engine, computing its table unless one is given.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	table := o.table
	if table == nil {
		if o.bits == fixedpoint.DefaultWidth && o.tableSize == DefaultTableSize && defaultTable != nil {
			table = defaultTable
		} else {
			var err error
			if table, err = NewTable(o.bits, o.tableSize); err != nil {
				return nil, err
			}
		}
	}

	maxSteps := o.maxSteps
	if maxSteps == 0 {
		if o.maxReuses < 1 {
			return nil, errors.Wrapf(errors.ErrInvalidStepBound, "max reuses %d", o.maxReuses)
		}
		maxSteps = table.Len() * o.maxReuses
	}
	if maxSteps < 1 {
		return nil, errors.Wrapf(errors.ErrInvalidStepBound, "max steps %d", maxSteps)
	}

	return &Engine{table: table, maxSteps: maxSteps, log: o.logger}, nil
}

// Bits is the fraction width the engine encodes inputs with.
func (e *Engine) Bits() int {
	return e.table.Width()
}

// Table returns the engine's logarithm table.
func (e *Engine) Table() *Table {
	return e.table
}

// MaxSteps is the bound on loop iterations per evaluation.
func (e *Engine) MaxSteps() int {
	return e.maxSteps
}

// Exp approximates e^x for x in [0, 2).
func (e *Engine) Exp(x float64) (float64, error) {
	ev, err := e.Evaluate(x)
	if err != nil {
		return 0, err
	}
	return ev.Result, nil
}

// Evaluate approximates e^x for x in [0, 2) and reports how the loop ran.
//
// The remainder starts as the encoding of x. At index i, while the remainder is
// at least L[i] it is reduced by L[i] and the result multiplied by 1+2^-i; the
// same index may be used again. Otherwise i advances. The loop stops at a zero
// remainder, after the last table index, or at MaxSteps, returning the result
// accumulated so far in every case.
//
// Inputs in [1, 2) are reduced by one before encoding, and the result starts
// at e instead of 1 to account for it. Anything outside [0, 2) fails
// with an InvalidInputError; accuracy is about 10 bits at the default width.
func (e *Engine) Evaluate(x float64) (Evaluation, error) {
	s, reduced, err := fixedpoint.Encode(x, e.table.Width())
	if err != nil {
		return Evaluation{}, err
	}

	ev := Evaluation{Input: x, Reduced: reduced, Result: 1.0, Halt: HaltTableExhausted}
	if reduced {
		ev.Result *= math.E
	}

	i := 0
	if s.IsZero() {
		ev.Halt = HaltZeroRemainder
		i = e.table.Len()
	}
	for i < e.table.Len() {
		if ev.Steps == e.maxSteps {
			ev.Halt = HaltStepLimit
			break
		}
		ev.Steps++

		entry := e.table.entries[i]
		ge, err := fixedpoint.GreaterOrEqual(s, entry.Value)
		if err != nil {
			return Evaluation{}, errors.Wrap(errors.InternalError, err, "compare remainder")
		}
		if ge {
			if s, err = fixedpoint.Sub(s, entry.Value); err != nil {
				return Evaluation{}, errors.Wrap(errors.InternalError, err, "subtract table entry")
			}
			ev.Result *= entry.Factor
			ev.Consumed = append(ev.Consumed, i)
		} else {
			i++
		}

		if s.IsZero() {
			ev.Halt = HaltZeroRemainder
			break
		}
	}
	ev.Remainder = s

	e.log.Debug().
		Float64("x", x).
		Float64("y", ev.Result).
		Int("steps", ev.Steps).
		Ints("consumed", ev.Consumed).
		Str("remainder", s.String()).
		Stringer("halt", ev.Halt).
		Msg("evaluated exp")

	return ev, nil
}

// Exp approximates e^x on the default engine.
func Exp(x float64) (float64, error) {
	return defaultEngine.Exp(x)
}
