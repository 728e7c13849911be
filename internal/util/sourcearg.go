package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceKind classifies where monitored lines come from.
type SourceKind string

const (
	SourceStdin SourceKind = "stdin"
	SourceFile  SourceKind = "file"
)

// DetectSource classifies a positional source argument. "-" selects
// stdin; anything else is a file path, cleaned but not required to
// exist yet (a watched log may be created after the build starts).
// Directories are rejected with a clear message.
func DetectSource(raw string) (SourceKind, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", fmt.Errorf("empty source argument")
	}
	if raw == "-" {
		return SourceStdin, "-", nil
	}

	path := filepath.Clean(raw)
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return "", "", fmt.Errorf("source %q is a directory, want a log file or '-' for stdin", raw)
	}
	return SourceFile, path, nil
}
