package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"buildpulse/internal/model"
	"buildpulse/internal/monitor"
	"buildpulse/internal/progress"
	"buildpulse/internal/util"
	"buildpulse/internal/util/deps"
)

func newExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "exec -- <build-command> [args...]",
		Short:         "Launch a build and monitor its output directly",
		Long:          "Exec runs the given build command as a subprocess and parses its output live. When the command is ninja-compatible, NINJA_STATUS is set so progress lines carry counts and elapsed time. With no command, the first build tool found in PATH is used.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE:          execRun,
	}
	cmd.Flags().String("total-field", "total", "Second bracketed number: total, remaining")
	cmd.Flags().Int("dedup-cap", 0, "Duplicate-line window size; 0 uses the default")
	cmd.Flags().String("report", "", "Write the session summary to this file")
	return cmd
}

func execRun(cmd *cobra.Command, args []string) error {
	totalField, _ := cmd.Flags().GetString("total-field")
	if !cmd.Flags().Changed("total-field") && viper.IsSet("total_field") {
		totalField = viper.GetString("total_field")
	}
	totalField = strings.ToLower(totalField)
	switch totalField {
	case string(model.TotalFieldTotal), string(model.TotalFieldRemaining):
	default:
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid --total-field: %q (valid: total|remaining)", totalField)}
	}

	dedupCap, _ := cmd.Flags().GetInt("dedup-cap")
	report, _ := cmd.Flags().GetString("report")
	verbose := getPersistentBool(cmd, "verbose", false)
	if !flagChanged(cmd, "verbose") && viper.IsSet("verbose") {
		verbose = viper.GetBool("verbose")
	}

	buildBin := getPersistentString(cmd, "build-binary", "")
	if buildBin == "" && viper.IsSet("build_binary") {
		buildBin = viper.GetString("build_binary")
	}
	if buildBin == "" {
		buildBin = os.Getenv("BUILDPULSE_BUILD_BINARY")
	}

	// Resolve the tool up front so a missing binary fails before anything runs.
	var argv []string
	if len(args) == 0 {
		tool, err := deps.FindBuildTool(buildBin)
		if err != nil {
			return &ExitError{Code: ExitMissingTool, Err: err}
		}
		argv = []string{tool}
	} else {
		tool, err := deps.FindTool(args[0])
		if err != nil {
			return &ExitError{Code: ExitMissingTool, Err: err}
		}
		argv = append([]string{tool}, args[1:]...)
	}

	mode := progress.TotalField
	if totalField == string(model.TotalFieldRemaining) {
		mode = progress.RemainingField
	}

	svc := monitor.NewService(
		monitor.WithReporter(plainReporter{out: os.Stderr, verbose: verbose}),
		monitor.WithSessionID("build"),
		monitor.WithTotalMode(mode),
		monitor.WithDedupCapacity(dedupCap),
		monitor.WithVerbose(verbose),
	)

	sum, err := svc.RunCommand(cmd.Context(), argv)
	text := sum.Text(argv[0])
	fmt.Fprint(cmd.OutOrStdout(), text)
	if report != "" {
		if _, werr := util.WriteSummaryFile(report, text); werr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write report: %v\n", werr)
		}
	}
	if err != nil {
		var ee *ExitError
		if errors.As(err, &ee) {
			return ee
		}
		return &ExitError{Code: ExitBuildFailed, Err: err}
	}
	return nil
}
