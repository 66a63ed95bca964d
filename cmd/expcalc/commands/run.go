package commands

import (
	"io"

	"github.com/dora-network/dora-expcalc/config"
	"github.com/dora-network/dora-expcalc/host"
	"github.com/dora-network/dora-expcalc/metrics"
	"github.com/dora-network/dora-expcalc/serial"
	"github.com/spf13/cobra"
)

func NewRunCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serve the interactive e^x prompt on stdin/stdout or a serial port",
		Long: `Serve the interactive e^x prompt. Each line is one value of x in [0, 2).
The value -7 ends the session.`,
		Args: cobra.NoArgs,
		RunE: a.run,
	}
	config.AddHostFlags(cmd.Flags())
	return cmd
}

func (a *App) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	engine, err := a.cfg.Engine(a.log)
	if err != nil {
		return err
	}

	var (
		in  io.Reader = cmd.InOrStdin()
		out io.Writer = cmd.OutOrStdout()
	)
	if a.cfg.Serial.Port != "" {
		port, err := serial.Open(ctx, a.cfg.Serial, serial.WithLogger(a.log))
		if err != nil {
			return err
		}
		defer port.Close()
		stop := serial.CloseOnDone(ctx, port)
		defer stop()
		in, out = port, port
	}

	opts := []host.Option{
		host.WithLogger(a.log),
		host.WithMaxLineLength(a.cfg.MaxLineLength),
	}
	instrumentation := metrics.NewEvaluatorInstrumentation(a.cfg.Metrics.Namespace)
	svr, err := metrics.StartMetricsServer(a.cfg.Metrics, instrumentation, a.log, Version)
	if err != nil {
		return err
	}
	if svr != nil {
		defer func() {
			if err := svr.Stop(); err != nil {
				a.log.Warn().Err(err).Msg("failed to stop metrics server")
			}
		}()
		opts = append(opts, host.WithRecorder(metrics.NewEvaluationRecorder(instrumentation)))
	}

	a.log.Info().
		Int("bits", engine.Bits()).
		Int("table_size", engine.Table().Len()).
		Int("max_steps", engine.MaxSteps()).
		Str("port", a.cfg.Serial.Port).
		Msg("serving")

	err = host.NewSession(engine, in, out, opts...).Run(ctx)
	if ctx.Err() != nil {
		// a closed port surfaces as a read error once ctx is done
		a.log.Info().Msg("interrupted")
		return nil
	}
	return err
}
