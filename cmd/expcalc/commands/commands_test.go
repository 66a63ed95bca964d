package commands_test

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/dora-network/dora-expcalc/cmd/expcalc/commands"
	"github.com/dora-network/dora-expcalc/errors"
	"github.com/dora-network/dora-expcalc/format"
	"github.com/dora-network/dora-expcalc/host"
	"github.com/dora-network/dora-expcalc/math/recurrence"
	"github.com/goccy/go-json"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	require.Equal(t, commands.Version+"\n", out)
}

func TestEval(t *testing.T) {
	tcs := []struct {
		name   string
		args   []string
		exp    string
		failed bool
	}{
		{
			"single value",
			[]string{"eval", "0.6931"},
			"0.6931\t1.99996948\n",
			false,
		},
		{
			"sentinel stops processing",
			[]string{"eval", "--", "0", "-7", "0.5"},
			"0\t1.00000000\n",
			false,
		},
		{
			"trace",
			[]string{"eval", "--trace", "0.6931", "0.5"},
			"0.6931\t1.99996948\tsteps=12 consumed=[1 2 4 8] halt=zero_remainder\n" +
				"0.5\t1.64676476\tsteps=14 consumed=[1 4 5 9] halt=table_exhausted\n",
			false,
		},
		{
			"failures are reported and counted",
			[]string{"eval", "2.5", "abc", "1"},
			"2.5\terror: input out of domain [0, 2): 2.5\n" +
				"abc\terror: " + invalidNumber(t, "abc") + "\n" +
				"1\t2.71828183\n",
			true,
		},
	}

	for _, tc := range tcs {
		t.Run(
			tc.name, func(t *testing.T) {
				out, err := execute(t, "", tc.args...)
				require.Equal(t, tc.exp, out)
				if tc.failed {
					require.True(t, errors.Is(err, errors.InvalidInputError))
					return
				}
				require.NoError(t, err)
			},
		)
	}
}

func invalidNumber(t *testing.T, arg string) string {
	t.Helper()
	_, err := format.ParseInput(arg)
	require.ErrorIs(t, err, errors.ErrInvalidNumber)
	return err.Error()
}

func TestEvalBadEngineSettings(t *testing.T) {
	_, err := execute(t, "", "--bits", "8", "eval", "0.5")
	require.ErrorIs(t, err, errors.ErrInvalidTableSize)
}

func TestTable(t *testing.T) {
	out, err := execute(t, "", "table")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, recurrence.DefaultTableSize+1)
	require.Equal(t, "i\tbinary\tdecoded\texact", lines[0])
	require.Equal(t, "0\t0.1011000110\t0.6933593750\t0.6931471806", lines[1])

	out, err = execute(t, "", "table", "--json")
	require.NoError(t, err)
	var rows []commands.TableRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, recurrence.DefaultTableSize)
	require.Equal(t, "0.0000000010", rows[9].Binary)
	require.Equal(t, 1.5, rows[1].Factor)
}

func TestTableCustomSize(t *testing.T) {
	out, err := execute(t, "", "--bits", "12", "--table-size", "12", "table", "--json")
	require.NoError(t, err)
	var rows []commands.TableRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 12)
	require.Len(t, rows[0].Binary, 14)
}

func TestSweep(t *testing.T) {
	out, err := execute(t, "", "sweep", "--from", "0", "--to", "0.2", "--step", "0.1", "--json")
	require.NoError(t, err)

	var rows []commands.SweepRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	require.Equal(t, []float64{0, 0.1, 0.2}, []float64{rows[0].X, rows[1].X, rows[2].X})
	require.Equal(t, 1.0, rows[0].Approx)
	require.Equal(t, "zero_remainder", rows[0].Halt)
	for _, r := range rows {
		require.Less(t, r.RelErr, 0.0032)
	}

	out, err = execute(t, "", "sweep")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 21)
	require.True(t, strings.HasPrefix(lines[20], "1.9000\t"))
}

func TestSweepInvalid(t *testing.T) {
	tcs := []struct {
		name string
		args []string
	}{
		{"zero step", []string{"sweep", "--step", "0"}},
		{"reversed range", []string{"sweep", "--from", "1", "--to", "0.5"}},
		{"out of domain", []string{"sweep", "--to", "2.5"}},
		{"negative from", []string{"sweep", "--from", "-0.5"}},
		{"nan bound", []string{"sweep", "--from", "NaN", "--to", "1"}},
		{"infinite step", []string{"sweep", "--step", "+Inf"}},
		{"too many rows", []string{"sweep", "--step", "1e-300"}},
	}

	for _, tc := range tcs {
		t.Run(
			tc.name, func(t *testing.T) {
				_, err := execute(t, "", tc.args...)
				require.True(t, errors.Is(err, errors.InvalidInputError))
			},
		)
	}
}

func TestRunOverStdio(t *testing.T) {
	out, err := execute(t, "0.6931\r\n-7\r\n", "run")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, host.Prompt+host.TimerStarted+"\n10 bits precision \r\n1.99996948\nExecution time: "))
	require.True(t, strings.HasSuffix(out, host.Prompt+host.EndOfRun))
}

func TestRunSerialUnavailable(t *testing.T) {
	t.Setenv("EXPCALC_SERIAL_OPEN_TIMEOUT", "10ms")
	_, err := execute(t, "", "run", "--port", "/dev/expcalc-does-not-exist")
	require.True(t, errors.Is(err, errors.UnavailableErr))
}

func TestSweepBounds(t *testing.T) {
	tcs := []struct {
		name           string
		from, to, step float64
		exp            error
	}{
		{"tiny step", 0, 1.9, 1e-300, nil},
		{"nan from", math.NaN(), 1, 0.1, errors.ErrNotFinite},
		{"nan to", 0, math.NaN(), 0.1, errors.ErrNotFinite},
		{"nan step", 0, 1, math.NaN(), errors.ErrNotFinite},
		{"to past domain", 0, 2, 0.1, errors.ErrOutOfDomain},
		{"from below domain", -1, 1, 0.1, errors.ErrOutOfDomain},
	}

	for _, tc := range tcs {
		t.Run(
			tc.name, func(t *testing.T) {
				rows, err := commands.Sweep(recurrence.Default(), tc.from, tc.to, tc.step)
				require.Nil(t, rows)
				require.True(t, errors.Is(err, errors.InvalidInputError))
				if tc.exp != nil {
					require.ErrorIs(t, err, tc.exp)
				}
			},
		)
	}
}

func TestSweepRowLimit(t *testing.T) {
	step := 1.0 / (commands.MaxSweepRows - 1)
	rows, err := commands.Sweep(recurrence.Default(), 0, 1, step)
	require.NoError(t, err)
	require.Len(t, rows, commands.MaxSweepRows)

	_, err = commands.Sweep(recurrence.Default(), 0, 1, 1.0/commands.MaxSweepRows)
	require.True(t, errors.Is(err, errors.InvalidInputError))
}
