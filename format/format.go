// Package format renders evaluator results in the fixed "%d.%08d" decimal
// form and parses the decimal values typed at the host prompt.
package format

import (
	"fmt"
	"strings"

	"github.com/dora-network/dora-expcalc/errors"
	govalues "github.com/govalues/decimal"
	"github.com/shopspring/decimal"
)

// FractionDigits is the number of digits printed after the point.
const FractionDigits = 8

// Sentinel is the input value that ends a host session.
var Sentinel = govalues.MustNew(-7, 0)

var fractionScale = decimal.New(1, FractionDigits)

// Decimal renders y as its integer part, a point, and the absolute value of
// round((y - trunc(y)) * 10^8) padded to 8 digits. Rounding is half away from
// zero. A fraction that rounds up to 10^8 is printed as is, giving 9 digits.
//
// Rounding works on the shortest decimal form of y, so 1.000000005 prints as
// 1.00000001 even though its float64 value lies just below the tie.
func Decimal(y float64) string {
	d := decimal.NewFromFloat(y)
	whole := d.Truncate(0)
	frac := d.Sub(whole).Mul(fractionScale).Round(0).Abs()
	return fmt.Sprintf("%d.%08d", whole.IntPart(), frac.IntPart())
}

// Input is one parsed line from the host.
type Input struct {
	Value    float64
	Raw      govalues.Decimal
	Sentinel bool
}

// ParseInput parses a decimal such as "0.6931" or "-7". The sentinel check is
// exact on the decimal value, so "-7.000" matches and "-6.9999999" does not.
func ParseInput(line string) (Input, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Input{}, errors.ErrEmptyInput
	}
	d, err := govalues.Parse(line)
	if err != nil {
		return Input{}, errors.Wrapf(errors.ErrInvalidNumber, "%q: %v", line, err)
	}
	v, ok := d.Float64()
	if !ok {
		return Input{}, errors.Wrapf(errors.ErrInvalidNumber, "%q does not fit a float64", line)
	}
	return Input{Value: v, Raw: d, Sentinel: d.Cmp(Sentinel) == 0}, nil
}
