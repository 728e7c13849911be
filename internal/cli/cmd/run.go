package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"buildpulse/internal/model"
	"buildpulse/internal/monitor"
	"buildpulse/internal/progress"
	"buildpulse/internal/ui"
	"buildpulse/internal/util"
	"buildpulse/internal/util/format"
)

type runMode struct {
	ForceTUI bool
	OneShot  bool // Read what exists and exit instead of following
}

type ctxKey string

const runInputsKey ctxKey = "runInputs"

type runInputs struct {
	Sources []model.MonitorSource
	Options model.CLIOptions
}

func runPreRun(cmd *cobra.Command, args []string) error {
	sources, opts, err := assembleRunInputs(cmd, args)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	ctx := context.WithValue(cmd.Context(), runInputsKey, runInputs{
		Sources: sources,
		Options: opts,
	})
	cmd.SetContext(ctx)
	return nil
}

func assembleRunInputs(cmd *cobra.Command, args []string) ([]model.MonitorSource, model.CLIOptions, error) {
	// Persistent flags with precedence: flag > env/config > default.
	// Unchanged flags defer to viper, which carries BUILDPULSE_* env
	// vars and the config file.
	verbose := getPersistentBool(cmd, "verbose", false)
	if !flagChanged(cmd, "verbose") && viper.IsSet("verbose") {
		verbose = viper.GetBool("verbose")
	}
	buildBin := getPersistentString(cmd, "build-binary", "")
	if buildBin == "" && viper.IsSet("build_binary") {
		buildBin = viper.GetString("build_binary")
	}
	jobs := getPersistentInt(cmd, "jobs", 2)
	if !flagChanged(cmd, "jobs") && viper.IsSet("jobs") {
		jobs = viper.GetInt("jobs")
	}
	if jobs <= 0 {
		jobs = 2
	}

	// Watch flags
	totalField, _ := cmd.Flags().GetString("total-field")
	if !cmd.Flags().Changed("total-field") && viper.IsSet("total_field") {
		totalField = viper.GetString("total_field")
	}
	fromStart, _ := cmd.Flags().GetBool("from-start")
	dedupCap, _ := cmd.Flags().GetInt("dedup-cap")
	if !cmd.Flags().Changed("dedup-cap") && viper.IsSet("dedup_cap") {
		dedupCap = viper.GetInt("dedup_cap")
	}
	report, _ := cmd.Flags().GetString("report")
	noUI, _ := cmd.Flags().GetBool("no-ui")

	totalField = strings.ToLower(totalField)
	switch totalField {
	case string(model.TotalFieldTotal), string(model.TotalFieldRemaining):
	default:
		return nil, model.CLIOptions{}, fmt.Errorf("invalid --total-field: %q (valid: total|remaining)", totalField)
	}

	if dedupCap < 0 {
		return nil, model.CLIOptions{}, fmt.Errorf("invalid --dedup-cap: %d (must be >= 0)", dedupCap)
	}

	// Source validation; no arguments means stdin.
	if len(args) == 0 {
		args = []string{"-"}
	}
	var sources []model.MonitorSource
	stdinSeen := false
	for _, raw := range args {
		kind, path, err := util.DetectSource(raw)
		if err != nil {
			return nil, model.CLIOptions{}, err
		}
		if kind == util.SourceStdin {
			if stdinSeen {
				return nil, model.CLIOptions{}, fmt.Errorf("stdin ('-') given more than once")
			}
			stdinSeen = true
		}
		sources = append(sources, model.MonitorSource{
			Arg:   raw,
			Path:  path,
			Stdin: kind == util.SourceStdin,
		})
	}

	if buildBin == "" {
		if v := os.Getenv("BUILDPULSE_BUILD_BINARY"); v != "" {
			buildBin = v
		}
	}

	opts := model.CLIOptions{
		TotalField: model.TotalFieldMode(totalField),
		FromStart:  fromStart,
		DedupCap:   dedupCap,
		ReportPath: report,
		BuildBin:   buildBin,
		Verbose:    verbose,
		NoUI:       noUI,
		Jobs:       jobs,
	}
	return sources, opts, nil
}

func runExecute(cmd *cobra.Command, args []string, mode runMode) error {
	// Grab inputs from context; if not present (root called without PreRunE), assemble now.
	var in runInputs
	if v := cmd.Context().Value(runInputsKey); v != nil {
		in = v.(runInputs)
	} else {
		sources, opts, err := assembleRunInputs(cmd, args)
		if err != nil {
			return &ExitError{Code: ExitCLIError, Err: err}
		}
		in = runInputs{Sources: sources, Options: opts}
	}

	in.Options.Follow = !mode.OneShot

	// TUI path (forced or auto if TTY and not disabled)
	useTUI := mode.ForceTUI || (!in.Options.NoUI && !mode.OneShot && isTerminal())
	if useTUI {
		if err := ui.Run(cmd.Context(), in.Sources, in.Options); err != nil {
			return &ExitError{Code: ExitSourceError, Err: err}
		}
		return nil
	}

	// Plain path: sources run one after another.
	for _, src := range in.Sources {
		if err := monitorOne(cmd.Context(), cmd.OutOrStdout(), src, in.Options); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// monitorOne runs a single source without the TUI and prints its summary.
func monitorOne(ctx context.Context, out io.Writer, src model.MonitorSource, opts model.CLIOptions) error {
	name := src.Path
	if src.Stdin {
		name = "stdin"
	}

	svc := monitor.NewService(
		monitor.WithReporter(plainReporter{out: os.Stderr, verbose: opts.Verbose}),
		monitor.WithSessionID(util.SanitizeFilename(name)),
		monitor.WithTotalMode(progress.TotalMode(opts.TotalField)),
		monitor.WithDedupCapacity(opts.DedupCap),
		monitor.WithVerbose(opts.Verbose),
	)

	var (
		sum monitor.Summary
		err error
	)
	if src.Stdin {
		sum, err = svc.RunReader(ctx, os.Stdin)
	} else {
		sum, err = svc.RunFile(ctx, src.Path, opts.Follow, opts.FromStart)
	}
	if err != nil {
		return &ExitError{Code: ExitSourceError, Err: err}
	}

	text := sum.Text(name)
	fmt.Fprint(out, text)
	if opts.ReportPath != "" {
		if _, werr := util.WriteSummaryFile(opts.ReportPath, text); werr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write report: %v\n", werr)
		}
	}
	return nil
}

// plainReporter streams progress events as plain text for piped output.
type plainReporter struct {
	out     io.Writer
	verbose bool
}

func (r plainReporter) Update(u progress.Update) {
	var pct string
	if u.Percent >= 0 {
		pct = fmt.Sprintf("%5.1f%%", u.Percent)
	} else {
		pct = "  ???%"
	}
	line := fmt.Sprintf("[%s] %s %s", pct, u.Message, u.Trend.Arrow())
	if u.Rate != nil {
		line += " " + *u.Rate
	}
	if u.ETA != nil {
		line += " eta " + format.HumanizeDuration(*u.ETA)
	}
	fmt.Fprintln(r.out, line)
}

func (r plainReporter) Log(l progress.Log) {
	if r.verbose {
		fmt.Fprintln(r.out, strings.TrimRight(l.Line, "\r\n"))
	}
}

func (r plainReporter) Result(progress.Result) {}
