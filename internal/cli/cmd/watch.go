package cmd

import (
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "watch [sources...]",
		Short:         "Follow build logs and report live progress",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PreRunE:       runPreRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{
				ForceTUI: false,
				OneShot:  false,
			})
		},
	}
	// Bind same flags as root for explicit subcommand usage
	bindWatchFlags(cmd.Flags())
	return cmd
}
