package commands

import (
	"fmt"
	"io"

	"github.com/dora-network/dora-expcalc/errors"
	"github.com/dora-network/dora-expcalc/format"
	"github.com/dora-network/dora-expcalc/math/recurrence"
	"github.com/spf13/cobra"
)

func NewEvalCmd(a *App) *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "eval x...",
		Short: "Evaluate e^x for each argument",
		Long: `Evaluate e^x for each argument and print one result per line.
The value -7 stops processing; later arguments are ignored.`,
		Example: `  expcalc eval 0.5 0.6931
  expcalc eval --trace -- 0.1 -7 0.2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.cfg.Engine(a.log)
			if err != nil {
				return err
			}
			return evaluate(cmd.OutOrStdout(), engine, args, trace)
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "Also print steps, consumed table indices and halt reason")
	return cmd
}

func evaluate(out io.Writer, engine *recurrence.Engine, args []string, trace bool) error {
	failed := 0
	for _, arg := range args {
		in, err := format.ParseInput(arg)
		if err == nil && in.Sentinel {
			break
		}

		var ev recurrence.Evaluation
		if err == nil {
			ev, err = engine.Evaluate(in.Value)
		}
		if err != nil {
			failed++
			if _, err := fmt.Fprintf(out, "%s\terror: %v\n", arg, err); err != nil {
				return err
			}
			continue
		}

		line := fmt.Sprintf("%s\t%s", arg, format.Decimal(ev.Result))
		if trace {
			line += fmt.Sprintf("\tsteps=%d consumed=%v halt=%s", ev.Steps, ev.Consumed, ev.Halt)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	if failed > 0 {
		return errors.Newf(errors.InvalidInputError, "%d of %d values failed", failed, len(args))
	}
	return nil
}
