package commands

import (
	"fmt"
	"io"

	"github.com/dora-network/dora-expcalc/math/recurrence"
	"github.com/spf13/cobra"
)

type TableRow struct {
	Index   int     `json:"index"`
	Binary  string  `json:"binary"`
	Decoded float64 `json:"decoded"`
	Exact   float64 `json:"exact"`
	Factor  float64 `json:"factor"`
}

func NewTableCmd(a *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the ln(1+2^-i) table the evaluator uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.cfg.Engine(a.log)
			if err != nil {
				return err
			}
			rows := TableRows(engine.Table())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			return writeTable(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print rows as JSON")
	return cmd
}

func TableRows(t *recurrence.Table) []TableRow {
	rows := make([]TableRow, 0, t.Len())
	for _, e := range t.Entries() {
		rows = append(rows, TableRow{
			Index:   e.Index,
			Binary:  e.Value.String(),
			Decoded: e.Value.Float64(),
			Exact:   e.Exact(),
			Factor:  e.Factor,
		})
	}
	return rows
}

func writeTable(out io.Writer, rows []TableRow) error {
	if _, err := fmt.Fprintln(out, "i\tbinary\tdecoded\texact"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(out, "%d\t%s\t%.10f\t%.10f\n", r.Index, r.Binary, r.Decoded, r.Exact); err != nil {
			return err
		}
	}
	return nil
}
