package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"buildpulse/internal/config"
	"buildpulse/internal/source"
)

const (
	ExitOK          = 0
	ExitCLIError    = 1
	ExitMissingTool = 2
	ExitSourceError = 3
	ExitBuildFailed = 4
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "buildpulse [sources...]",
		Short:         "Live progress, rate, and ETA for long builds",
		Long:          "Buildpulse watches build output for bracketed progress counters like '[123/900] 5m30s' and turns them into completion percentage, per-unit rate, trend, and a running ETA. Point it at a log file, pipe a build into it, or let it launch the build itself.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs, // no sources means stdin
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{
				ForceTUI: false,
				OneShot:  false,
			})
		},
	}

	// Persistent flags available to all subcommands
	root.PersistentFlags().BoolP("verbose", "v", false, "Forward non-progress build output as log lines")
	root.PersistentFlags().String("build-binary", "", "Path to ninja, samu, or make")
	root.PersistentFlags().Int("jobs", 2, "Max concurrent sources in TUI")

	// Also bind watch flags on root, so `buildpulse build.log` works.
	bindWatchFlags(root.Flags())

	// Subcommands
	root.AddCommand(newWatchCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newExecCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindWatchFlags(fs *pflag.FlagSet) {
	fs.String("total-field", "total", "Second bracketed number: total, remaining")
	fs.Bool("from-start", false, "Replay existing file content before following")
	fs.Int("dedup-cap", source.DefaultSeenCapacity, "Duplicate-line window size")
	fs.String("report", "", "Write the session summary to this file")
	fs.Bool("no-ui", false, "Disable TUI; use plain textual output")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	_ = config.Init(root)
	return root.ExecuteContext(ctx)
}

// Helpers. Persistent flags live on the root's local set and on the
// inherited set of subcommands, so both are consulted.
func getPersistentString(cmd *cobra.Command, name, def string) string {
	if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
		return v
	}
	if v, err := cmd.InheritedFlags().GetString(name); err == nil && v != "" {
		return v
	}
	return def
}

func getPersistentBool(cmd *cobra.Command, name string, def bool) bool {
	if v, err := cmd.Flags().GetBool(name); err == nil {
		return v
	}
	if v, err := cmd.InheritedFlags().GetBool(name); err == nil {
		return v
	}
	return def
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := cmd.InheritedFlags().Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

func getPersistentInt(cmd *cobra.Command, name string, def int) int {
	if v, err := cmd.Flags().GetInt(name); err == nil {
		return v
	}
	if v, err := cmd.InheritedFlags().GetInt(name); err == nil {
		return v
	}
	return def
}
