// Package commands holds the cobra command tree of the expcalc binary.
package commands

import (
	"github.com/dora-network/dora-expcalc/config"
	"github.com/dora-network/dora-expcalc/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// App is the state shared by every command once flags are parsed.
type App struct {
	v   *viper.Viper
	cfg config.Config
	log zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	a := &App{v: viper.New(), log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "expcalc",
		Short:         "Table-driven fixed-point e^x evaluator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Close()
		},
	}
	config.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		NewRunCmd(a),
		NewEvalCmd(a),
		NewSweepCmd(a),
		NewTableCmd(a),
		NewVersionCmd(),
	)
	return cmd
}

func (a *App) load(cmd *cobra.Command) error {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	log, err := logger.NewThreadSafeLogger(cfg.Log.Level, cfg.Log.File, cfg.Log.Console)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, *log
	a.log.Debug().Interface("config", cfg).Msg("config loaded")
	return nil
}
