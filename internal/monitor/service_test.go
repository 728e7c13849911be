package monitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"buildpulse/internal/progress"
	"buildpulse/internal/util"
)

type recordingReporter struct {
	updates []progress.Update
	results []progress.Result
	logs    []progress.Log
}

func (r *recordingReporter) Update(u progress.Update) {
	r.updates = append(r.updates, u)
}
func (r *recordingReporter) Log(l progress.Log) {
	r.logs = append(r.logs, l)
}
func (r *recordingReporter) Result(res progress.Result) {
	r.results = append(r.results, res)
}

type fakeRunner struct {
	lines []string
	code  int
	err   error
}

// Run implements util.CmdRunner.Run and simulates a build tool.
func (f *fakeRunner) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	for _, l := range f.lines {
		if spec.StdoutLine != nil {
			spec.StdoutLine(l)
		}
	}
	return util.CmdResult{Code: f.code, Err: f.err}, f.err
}

func TestNewService_WithOptions(t *testing.T) {
	rep := &recordingReporter{}
	fr := &fakeRunner{}

	s := NewService(
		WithReporter(rep),
		WithTotalMode(progress.RemainingField),
		WithSessionID("session-1"),
		WithDedupCapacity(64),
		WithRunner(fr),
		WithVerbose(true),
	)

	if s.reporter == nil {
		t.Error("reporter not set")
	}
	if s.mode != progress.RemainingField {
		t.Errorf("mode = %v, want %v", s.mode, progress.RemainingField)
	}
	if s.sessionID != "session-1" {
		t.Errorf("sessionID = %q", s.sessionID)
	}
	if s.dedupCap != 64 {
		t.Errorf("dedupCap = %d, want 64", s.dedupCap)
	}
	if s.runner == nil || !s.verbose {
		t.Error("runner/verbose not set")
	}

	// Defaults: total-field interpretation and a real runner.
	s2 := NewService()
	if s2.mode != progress.TotalField {
		t.Errorf("default mode = %v, want %v", s2.mode, progress.TotalField)
	}
	if s2.runner == nil {
		t.Error("default runner not set")
	}
}

func TestRunReader_Pipeline(t *testing.T) {
	in := strings.Join([]string{
		"ninja: Entering directory `out'",
		"[100/900] 5m30s CXX a.o",
		"[100/900] 5m30s CXX a.o", // duplicate, skipped
		"[200/900] 10m CXX b.o",
		"warning: deprecated thing",
	}, "\n") + "\n"

	rep := &recordingReporter{}
	s := NewService(WithReporter(rep), WithSessionID("s1"), WithVerbose(true))

	sum, err := s.RunReader(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("RunReader error: %v", err)
	}

	if sum.LinesRead != 5 {
		t.Errorf("LinesRead = %d, want 5", sum.LinesRead)
	}
	if sum.SamplesSeen != 2 {
		t.Errorf("SamplesSeen = %d, want 2", sum.SamplesSeen)
	}
	if sum.DupesSkipped != 1 {
		t.Errorf("DupesSkipped = %d, want 1", sum.DupesSkipped)
	}
	if len(rep.updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(rep.updates))
	}
	if len(rep.logs) != 2 {
		t.Errorf("logs = %d, want 2 non-progress lines", len(rep.logs))
	}

	first, second := rep.updates[0], rep.updates[1]
	if first.Trend != progress.TrendInitial {
		t.Errorf("first Trend = %v, want %v", first.Trend, progress.TrendInitial)
	}
	if second.Trend == progress.TrendInitial {
		t.Errorf("second Trend = %v, want a classified trend", second.Trend)
	}
	if first.UnitsDone != 100 || first.UnitsTotal != 900 {
		t.Errorf("first counts = %d/%d", first.UnitsDone, first.UnitsTotal)
	}
	if first.ETA == nil || first.Rate == nil {
		t.Error("first update should carry ETA and rate")
	}

	if len(rep.results) != 1 {
		t.Fatalf("results = %d, want 1", len(rep.results))
	}
	res := rep.results[0]
	if res.Err != nil || res.SamplesSeen != 2 || res.Final == nil {
		t.Errorf("result = %+v", res)
	}
	if res.Final.UnitsDone != 200 {
		t.Errorf("final UnitsDone = %d, want 200", res.Final.UnitsDone)
	}
}

func TestRunReader_NonVerboseSkipsLogs(t *testing.T) {
	rep := &recordingReporter{}
	s := NewService(WithReporter(rep))

	_, err := s.RunReader(context.Background(), strings.NewReader("noise\nmore noise\n"))
	if err != nil {
		t.Fatalf("RunReader error: %v", err)
	}
	if len(rep.logs) != 0 {
		t.Errorf("logs = %d, want 0 when not verbose", len(rep.logs))
	}
}

func TestRunFile_OneShot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.log")
	content := "[1/4] 10s CC a.o\n[2/4] 19s CC b.o\n[3/4] 27s CC c.o\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rep := &recordingReporter{}
	s := NewService(WithReporter(rep), WithSessionID("file-1"))

	sum, err := s.RunFile(context.Background(), path, false, true)
	if err != nil {
		t.Fatalf("RunFile error: %v", err)
	}
	if sum.SamplesSeen != 3 {
		t.Errorf("SamplesSeen = %d, want 3", sum.SamplesSeen)
	}
	if sum.Final == nil || sum.Final.UnitsDone != 3 || sum.Final.UnitsTotal != 4 {
		t.Errorf("Final = %+v", sum.Final)
	}
}

func TestRunFile_Missing(t *testing.T) {
	rep := &recordingReporter{}
	s := NewService(WithReporter(rep))

	_, err := s.RunFile(context.Background(), filepath.Join(t.TempDir(), "nope.log"), false, false)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(rep.results) != 1 || rep.results[0].Err == nil {
		t.Errorf("expected one failed result, got %+v", rep.results)
	}
}

func TestRunCommand(t *testing.T) {
	fr := &fakeRunner{lines: []string{
		"[10/100] 30s CXX x.o",
		"[20/100] 61s CXX y.o",
	}}
	rep := &recordingReporter{}
	s := NewService(WithReporter(rep), WithRunner(fr), WithSessionID("build-1"))

	sum, err := s.RunCommand(context.Background(), []string{"ninja", "-C", "out"})
	if err != nil {
		t.Fatalf("RunCommand error: %v", err)
	}
	if sum.SamplesSeen != 2 {
		t.Errorf("SamplesSeen = %d, want 2", sum.SamplesSeen)
	}
	if len(rep.updates) != 2 || rep.updates[0].Stage != progress.StageBuilding {
		t.Errorf("updates = %+v", rep.updates)
	}
}

func TestRunCommand_BuildFailure(t *testing.T) {
	fr := &fakeRunner{
		lines: []string{"[1/10] 5s CC a.o"},
		code:  1,
		err:   errors.New("exit status 1"),
	}
	rep := &recordingReporter{}
	s := NewService(WithReporter(rep), WithRunner(fr))

	sum, err := s.RunCommand(context.Background(), []string{"ninja"})
	if err == nil {
		t.Fatal("expected build failure error")
	}
	// Progress seen before the failure is still reported.
	if sum.SamplesSeen != 1 {
		t.Errorf("SamplesSeen = %d, want 1", sum.SamplesSeen)
	}
	if len(rep.results) != 1 || rep.results[0].Err == nil {
		t.Errorf("expected failed result, got %+v", rep.results)
	}
}

func TestSummary_Text(t *testing.T) {
	s := NewService()
	sum, err := s.RunReader(context.Background(), strings.NewReader("[100/900] 5m30s\n"))
	if err != nil {
		t.Fatal(err)
	}

	text := sum.Text("build.log")
	for _, want := range []string{"build.log", "100/900", "5m30s", "11.1%", "3.3s/unit"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}

	empty := Summary{}
	if !strings.Contains(empty.Text("x"), "no progress lines") {
		t.Error("empty summary should say no progress lines found")
	}
}
