package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"buildpulse/internal/config"
	"buildpulse/internal/model"
)

// setupEnv gives each test a fresh viper instance and throwaway config
// dirs so config.Init never touches the real home directory.
func setupEnv(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
}

func TestAssembleRunInputs_EnvFallback(t *testing.T) {
	setupEnv(t)
	t.Setenv("BUILDPULSE_TOTAL_FIELD", "remaining")
	t.Setenv("BUILDPULSE_VERBOSE", "true")
	t.Setenv("BUILDPULSE_JOBS", "4")

	root := newRootCmd()
	if err := config.Init(root); err != nil {
		t.Fatalf("config.Init: %v", err)
	}

	_, opts, err := assembleRunInputs(root, nil)
	if err != nil {
		t.Fatalf("assembleRunInputs: %v", err)
	}
	if opts.TotalField != model.TotalFieldRemaining {
		t.Errorf("TotalField = %q, want %q", opts.TotalField, model.TotalFieldRemaining)
	}
	if !opts.Verbose {
		t.Error("Verbose = false, want true from BUILDPULSE_VERBOSE")
	}
	if opts.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4 from BUILDPULSE_JOBS", opts.Jobs)
	}
}

func TestAssembleRunInputs_FlagBeatsEnv(t *testing.T) {
	setupEnv(t)
	t.Setenv("BUILDPULSE_TOTAL_FIELD", "remaining")

	root := newRootCmd()
	if err := config.Init(root); err != nil {
		t.Fatalf("config.Init: %v", err)
	}
	if err := root.Flags().Set("total-field", "total"); err != nil {
		t.Fatal(err)
	}

	_, opts, err := assembleRunInputs(root, nil)
	if err != nil {
		t.Fatalf("assembleRunInputs: %v", err)
	}
	if opts.TotalField != model.TotalFieldTotal {
		t.Errorf("TotalField = %q, explicit flag should beat env", opts.TotalField)
	}
}

func TestAssembleRunInputs_ConfigFile(t *testing.T) {
	setupEnv(t)
	cfgHome := os.Getenv("XDG_CONFIG_HOME")
	cfgDir := filepath.Join(cfgHome, "buildpulse")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := "dedup_cap: 64\nbuild_binary: /opt/bin/ninja\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	if err := config.Init(root); err != nil {
		t.Fatalf("config.Init: %v", err)
	}

	_, opts, err := assembleRunInputs(root, nil)
	if err != nil {
		t.Fatalf("assembleRunInputs: %v", err)
	}
	if opts.DedupCap != 64 {
		t.Errorf("DedupCap = %d, want 64 from config file", opts.DedupCap)
	}
	if opts.BuildBin != "/opt/bin/ninja" {
		t.Errorf("BuildBin = %q, want config file value", opts.BuildBin)
	}
}

func TestAssembleRunInputs_InvalidTotalField(t *testing.T) {
	setupEnv(t)

	root := newRootCmd()
	if err := root.Flags().Set("total-field", "foo"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := assembleRunInputs(root, nil); err == nil {
		t.Error("expected error for invalid --total-field")
	}
}

func TestExecRun_InvalidTotalField(t *testing.T) {
	setupEnv(t)

	cmd := newExecCmd()
	if err := cmd.Flags().Set("total-field", "foo"); err != nil {
		t.Fatal(err)
	}
	err := cmd.RunE(cmd, nil)
	if err == nil {
		t.Fatal("expected error for invalid --total-field")
	}
	var ee *ExitError
	if !errors.As(err, &ee) || ee.Code != ExitCLIError {
		t.Errorf("err = %v, want ExitError with code %d", err, ExitCLIError)
	}
}
