package buildcmd

import (
	"context"
	"errors"
	"fmt"

	"buildpulse/internal/util"
)

// Options controls build subprocess execution.
type Options struct {
	Verbose bool
	Dir     string         // Working directory; empty = inherit.
	OnLine  func(string)   // Called for each stdout and stderr line.
	Runner  util.CmdRunner // Injected for tests; nil = real subprocesses.
}

// Result reports the finished build.
type Result struct {
	ExitCode int
}

// Run launches the build command and streams every output line to
// opts.OnLine. Progress lines from ninja arrive on stdout; compiler
// diagnostics arrive on stderr; both feed the same line consumer.
func Run(ctx context.Context, argv []string, opts Options) (Result, error) {
	if len(argv) == 0 {
		return Result{}, errors.New("build command is required")
	}

	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}

	spec := util.CmdSpec{
		Path:       argv[0],
		Args:       argv[1:],
		Dir:        opts.Dir,
		Verbose:    opts.Verbose,
		StdoutLine: opts.OnLine,
		StderrLine: opts.OnLine,
	}
	if LooksLikeNinja(argv[0]) {
		spec.Env = StatusEnv("")
	}

	res, runErr := runner.Run(ctx, spec)
	if runErr != nil {
		return Result{ExitCode: res.Code}, fmt.Errorf("build failed: %w", runErr)
	}
	return Result{ExitCode: res.Code}, nil
}
