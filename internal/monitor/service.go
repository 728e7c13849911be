// Package monitor orchestrates one monitoring session: it pulls lines
// from a source, filters duplicates, parses progress samples, and feeds
// derived records to a reporter.
package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"buildpulse/internal/buildcmd"
	"buildpulse/internal/progress"
	"buildpulse/internal/source"
	"buildpulse/internal/util"
	"buildpulse/internal/util/format"
)

// Service runs monitoring sessions. Each Run* call owns a fresh
// estimator and seen-set; lines within a session arrive from a single
// producer, which serializes estimator access.
type Service struct {
	reporter  progress.Reporter
	mode      progress.TotalMode
	sessionID string
	dedupCap  int
	runner    util.CmdRunner
	verbose   bool
}

// Option configures a Service.
type Option func(*Service)

// WithReporter attaches a progress reporter (used by TUI and plain output).
func WithReporter(r progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = r
	}
}

// WithTotalMode sets the interpretation of the second bracketed number.
func WithTotalMode(m progress.TotalMode) Option {
	return func(s *Service) {
		s.mode = m
	}
}

// WithSessionID sets the session ID attached to reporter events.
func WithSessionID(id string) Option {
	return func(s *Service) {
		s.sessionID = id
	}
}

// WithDedupCapacity bounds the duplicate-line window.
func WithDedupCapacity(n int) Option {
	return func(s *Service) {
		s.dedupCap = n
	}
}

// WithRunner injects a custom command runner (useful for testing exec).
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithVerbose forwards every non-progress line as a log event.
func WithVerbose(v bool) Option {
	return func(s *Service) {
		s.verbose = v
	}
}

// NewService constructs a Service with the provided options.
func NewService(opts ...Option) *Service {
	s := &Service{mode: progress.TotalField}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = util.NewDefaultRunner()
	}
	return s
}

// Summary is the outcome of one session.
type Summary struct {
	LinesRead    int
	SamplesSeen  int
	DupesSkipped int
	Final        *progress.Derived // nil if no progress line parsed
}

// Text renders the summary as a short human-readable report.
func (sm Summary) Text(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", name)
	fmt.Fprintf(&b, "lines read:       %d\n", sm.LinesRead)
	fmt.Fprintf(&b, "progress samples: %d\n", sm.SamplesSeen)
	fmt.Fprintf(&b, "duplicates:       %d\n", sm.DupesSkipped)
	if d := sm.Final; d != nil {
		fmt.Fprintf(&b, "units:            %d/%d\n", d.UnitsDone, d.UnitsTotal)
		if d.Percent >= 0 {
			fmt.Fprintf(&b, "complete:         %.1f%%\n", d.Percent)
		}
		fmt.Fprintf(&b, "elapsed:          %s\n", format.HumanizeDuration(d.Elapsed))
		if d.SecondsPerUnit > 0 {
			fmt.Fprintf(&b, "rate:             %s\n", format.HumanizeRate(d.SecondsPerUnit))
			fmt.Fprintf(&b, "est remaining:    %s\n", format.HumanizeDuration(d.EstRemaining))
			fmt.Fprintf(&b, "est total:        %s\n", format.HumanizeDuration(d.EstTotal))
		}
		fmt.Fprintf(&b, "trend:            %s\n", d.Trend)
	} else {
		b.WriteString("no progress lines found\n")
	}
	return b.String()
}

// session is the per-run mutable state behind a single line producer.
type session struct {
	svc   *Service
	est   *progress.Estimator
	seen  *source.SeenSet
	stage progress.Stage
	sum   Summary
}

func (s *Service) newSession(stage progress.Stage) *session {
	return &session{
		svc:   s,
		est:   progress.NewEstimator(s.mode),
		seen:  source.NewSeenSet(s.dedupCap),
		stage: stage,
	}
}

// onLine advances the session with one raw line.
func (st *session) onLine(line string) {
	st.sum.LinesRead++

	if st.seen.Seen(line) {
		st.sum.DupesSkipped++
		return
	}

	sample, ok := progress.ParseLine(line)
	if !ok {
		if st.svc.verbose && st.svc.reporter != nil {
			st.svc.reporter.Log(progress.Log{
				SessionID: st.svc.sessionID,
				Stream:    progress.StreamStdout,
				Line:      line,
			})
		}
		return
	}

	d := st.est.Submit(sample)
	st.sum.SamplesSeen++
	st.sum.Final = &d
	st.emit(d)
}

func (st *session) emit(d progress.Derived) {
	if st.svc.reporter == nil {
		return
	}
	u := progress.Update{
		SessionID:  st.svc.sessionID,
		Stage:      st.stage,
		Percent:    d.Percent,
		UnitsDone:  d.UnitsDone,
		UnitsTotal: d.UnitsTotal,
		Trend:      d.Trend,
		Message:    fmt.Sprintf("%d/%d units", d.UnitsDone, d.UnitsTotal),
	}
	if d.SecondsPerUnit > 0 {
		eta := d.EstRemaining
		u.ETA = &eta
		rate := format.HumanizeRate(d.SecondsPerUnit)
		u.Rate = &rate
	}
	st.svc.reporter.Update(u)
}

// finish emits the session result and returns the summary.
func (st *session) finish(err error) Summary {
	if st.svc.reporter != nil {
		st.svc.reporter.Result(progress.Result{
			SessionID:    st.svc.sessionID,
			LinesRead:    st.sum.LinesRead,
			SamplesSeen:  st.sum.SamplesSeen,
			DupesSkipped: st.sum.DupesSkipped,
			Final:        st.sum.Final,
			Err:          err,
		})
	}
	return st.sum
}

// RunReader consumes r to EOF (one-shot scan or a pipe that closes when
// the producer exits).
func (s *Service) RunReader(ctx context.Context, r io.Reader) (Summary, error) {
	st := s.newSession(progress.StageWatching)
	err := source.ScanReader(ctx, r, st.onLine)
	if err != nil {
		return st.finish(err), err
	}
	return st.finish(nil), nil
}

// RunFile monitors a log file. With follow it keeps reading appended
// lines until the context is cancelled; otherwise it scans the current
// content and returns.
func (s *Service) RunFile(ctx context.Context, path string, follow, fromStart bool) (Summary, error) {
	st := s.newSession(progress.StageWatching)
	var err error
	if follow {
		err = source.Tail(ctx, path, fromStart, st.onLine)
	} else {
		var f io.ReadCloser
		f, err = openFile(path)
		if err == nil {
			defer func() { _ = f.Close() }()
			err = source.ScanReader(ctx, f, st.onLine)
		}
	}
	if err != nil {
		err = fmt.Errorf("source %s: %w", path, err)
		return st.finish(err), err
	}
	return st.finish(nil), nil
}

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// RunCommand launches the build itself and monitors its output.
func (s *Service) RunCommand(ctx context.Context, argv []string) (Summary, error) {
	st := s.newSession(progress.StageBuilding)
	_, err := buildcmd.Run(ctx, argv, buildcmd.Options{
		Verbose: s.verbose,
		OnLine:  st.onLine,
		Runner:  s.runner,
	})
	if err != nil {
		return st.finish(err), err
	}
	return st.finish(nil), nil
}
