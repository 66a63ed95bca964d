package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is changed using ldflags.
//
//	-ldflags "-X 'github.com/dora-network/dora-expcalc/cmd/expcalc/commands.Version=v1.0.0'"
var Version = "dev"

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Args:  cobra.NoArgs,
		// version needs no config or logger
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
			return err
		},
	}
}
