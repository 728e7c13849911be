package buildcmd

import (
	"context"
	"errors"
	"testing"

	"buildpulse/internal/util"
)

type fakeRunner struct {
	gotSpec util.CmdSpec
	lines   []string
	code    int
	err     error
}

func (f *fakeRunner) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.gotSpec = spec
	for _, l := range f.lines {
		if spec.StdoutLine != nil {
			spec.StdoutLine(l)
		}
	}
	return util.CmdResult{Code: f.code, Err: f.err}, f.err
}

func TestRun_StreamsLines(t *testing.T) {
	fr := &fakeRunner{lines: []string{"[1/10] 5s CC a.o", "[2/10] 9s CC b.o"}}
	var got []string

	res, err := Run(context.Background(), []string{"ninja", "-C", "out"}, Options{
		Runner: fr,
		OnLine: func(l string) { got = append(got, l) },
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if fr.gotSpec.Path != "ninja" || len(fr.gotSpec.Args) != 2 {
		t.Errorf("spec argv = %q %v", fr.gotSpec.Path, fr.gotSpec.Args)
	}
}

func TestRun_InjectsNinjaStatus(t *testing.T) {
	fr := &fakeRunner{}
	if _, err := Run(context.Background(), []string{"/usr/bin/ninja"}, Options{Runner: fr}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(fr.gotSpec.Env) != 1 || fr.gotSpec.Env[0] != "NINJA_STATUS="+DefaultNinjaStatus {
		t.Errorf("Env = %v, want NINJA_STATUS injection", fr.gotSpec.Env)
	}

	// Non-ninja tools get no injection.
	fr2 := &fakeRunner{}
	if _, err := Run(context.Background(), []string{"make", "-j8"}, Options{Runner: fr2}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(fr2.gotSpec.Env) != 0 {
		t.Errorf("Env = %v, want none for make", fr2.gotSpec.Env)
	}
}

func TestRun_Failure(t *testing.T) {
	fr := &fakeRunner{code: 2, err: errors.New("exit status 2")}
	res, err := Run(context.Background(), []string{"ninja"}, Options{Runner: fr})
	if err == nil {
		t.Fatal("expected error for failing build")
	}
	if res.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", res.ExitCode)
	}
}

func TestRun_EmptyArgv(t *testing.T) {
	if _, err := Run(context.Background(), nil, Options{Runner: &fakeRunner{}}); err == nil {
		t.Error("expected error for empty argv")
	}
}

func TestLooksLikeNinja(t *testing.T) {
	tests := []struct {
		bin  string
		want bool
	}{
		{"ninja", true},
		{"/usr/local/bin/ninja", true},
		{`C:\tools\ninja.exe`, true},
		{"samu", true},
		{"make", false},
		{"gcc", false},
	}
	for _, tt := range tests {
		if got := LooksLikeNinja(tt.bin); got != tt.want {
			t.Errorf("LooksLikeNinja(%q) = %v, want %v", tt.bin, got, tt.want)
		}
	}
}
