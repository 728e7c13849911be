package util

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// EnsureDir creates the directory path if it does not exist.
func EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// SanitizeFilename cleans a string to be safe as a filename or session ID:
// - Replace path separators and forbidden characters with underscores
// - Trim duplicated underscores
// - Truncate to a reasonable length (~200 runes)
func SanitizeFilename(s string) string {
	if s == "" {
		return "untitled"
	}
	s = strings.ReplaceAll(s, " ", "_")
	forbidden := `[]/\:*?"<>|#%{}$!@+^~\` + "`" + `=&;`
	for _, r := range forbidden {
		s = strings.ReplaceAll(s, string(r), "_")
	}
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "._-")

	const maxRunes = 200
	if utf8.RuneCountInString(s) > maxRunes {
		var b strings.Builder
		b.Grow(len(s))
		count := 0
		for _, r := range s {
			if count >= maxRunes {
				break
			}
			b.WriteRune(r)
			count++
		}
		s = b.String()
	}

	if s == "" {
		return "untitled"
	}
	return s
}

// WriteSummaryFile writes the session summary next to the given path,
// or to path itself when it already ends in .txt.
func WriteSummaryFile(path string, content string) (string, error) {
	summaryPath := path
	if filepath.Ext(summaryPath) != ".txt" {
		base := strings.TrimSuffix(summaryPath, filepath.Ext(summaryPath))
		summaryPath = base + ".txt"
	}
	if err := os.WriteFile(summaryPath, []byte(content), 0o644); err != nil {
		return "", err
	}
	return summaryPath, nil
}
