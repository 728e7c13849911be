package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"buildpulse/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (ninja/samu/make)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tool, err := deps.FindBuildTool(getPersistentString(cmd, "build-binary", ""))
			if err != nil {
				return &ExitError{Code: ExitMissingTool, Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Build tool: %s\n", tool)
			return nil
		},
	}
}
