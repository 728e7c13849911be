package cmd

import (
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scan [sources...]",
		Short:         "Read existing log content once and print a summary",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PreRunE:       runPreRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{
				ForceTUI: false,
				OneShot:  true,
			})
		},
	}
	// Reuse same flags; scan never follows
	bindWatchFlags(cmd.Flags())
	if f := cmd.Flags().Lookup("from-start"); f != nil {
		f.Hidden = true
	}
	return cmd
}
