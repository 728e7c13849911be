package deps

import (
	"fmt"
	"os"
	"os/exec"
)

// FindBuildTool returns the path to a ninja-compatible build tool.
// If customPath is non-empty, it tries that path or looks it up in PATH.
func FindBuildTool(customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		if p, err := exec.LookPath(customPath); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("could not find build tool at %q", customPath)
	}
	if p, err := exec.LookPath("ninja"); err == nil {
		return p, nil
	}
	if p, err := exec.LookPath("samu"); err == nil {
		return p, nil
	}
	if p, err := exec.LookPath("make"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find ninja, samu, or make in PATH")
}

// FindTool looks up an arbitrary command, accepting absolute paths.
func FindTool(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty command")
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find %q in PATH", name)
}
