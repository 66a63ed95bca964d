package commands

import (
	"fmt"
	"io"
	"math"

	"github.com/dora-network/dora-expcalc/errors"
	"github.com/dora-network/dora-expcalc/format"
	"github.com/dora-network/dora-expcalc/math/recurrence"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// SweepRow compares one approximation against math.Exp.
type SweepRow struct {
	X      float64 `json:"x"`
	Approx float64 `json:"approx"`
	Exact  float64 `json:"exact"`
	RelErr float64 `json:"rel_err"`
	Steps  int     `json:"steps"`
	Halt   string  `json:"halt"`
}

func NewSweepCmd(a *App) *cobra.Command {
	var (
		from, to, step float64
		asJSON         bool
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare the approximation with math.Exp over a range of x",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.cfg.Engine(a.log)
			if err != nil {
				return err
			}
			rows, err := Sweep(engine, from, to, step)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			return writeSweep(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().Float64Var(&from, "from", 0, "First x")
	cmd.Flags().Float64Var(&to, "to", 1.9, "Last x, inclusive")
	cmd.Flags().Float64Var(&step, "step", 0.1, "Increment between samples")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print rows as JSON")
	return cmd
}

// MaxSweepRows bounds how many samples one sweep may evaluate.
const MaxSweepRows = 1 << 16

// Sweep evaluates x = from, from+step, ... up to and including to.
func Sweep(engine *recurrence.Engine, from, to, step float64) ([]SweepRow, error) {
	for _, v := range []float64{from, to, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(errors.ErrNotFinite, "%v", v)
		}
	}
	if from < 0 || to >= 2 {
		return nil, errors.Wrapf(errors.ErrOutOfDomain, "from=%v to=%v", from, to)
	}
	if !(step > 0) {
		return nil, errors.Newf(errors.InvalidInputError, "step must be positive, got %v", step)
	}
	if from > to {
		return nil, errors.Newf(errors.InvalidInputError, "from %v is after to %v", from, to)
	}

	span := math.Floor((to-from)/step + 1e-9)
	if span >= MaxSweepRows {
		return nil, errors.Newf(errors.InvalidInputError, "step %v gives more than %d rows", step, MaxSweepRows)
	}
	n := int(span) + 1
	rows := make([]SweepRow, 0, n)
	for i := range n {
		// scaled and rounded so 0.1 steps print as 0.3, not 0.30000000000000004
		x := math.Round((from+float64(i)*step)*1e12) / 1e12
		ev, err := engine.Evaluate(x)
		if err != nil {
			return nil, err
		}
		exact := math.Exp(x)
		rows = append(rows, SweepRow{
			X:      x,
			Approx: ev.Result,
			Exact:  exact,
			RelErr: math.Abs(ev.Result-exact) / exact,
			Steps:  ev.Steps,
			Halt:   ev.Halt.String(),
		})
	}
	return rows, nil
}

func writeSweep(out io.Writer, rows []SweepRow) error {
	if _, err := fmt.Fprintln(out, "x\tapprox\texact\trel_err\tsteps\thalt"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(out, "%.4f\t%s\t%s\t%.3e\t%d\t%s\n",
			r.X, format.Decimal(r.Approx), format.Decimal(r.Exact), r.RelErr, r.Steps, r.Halt); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
