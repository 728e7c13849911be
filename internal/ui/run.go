package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"buildpulse/internal/model"
)

// Run launches the TUI monitoring the provided sources and blocks until
// every session finishes or the user quits.
func Run(ctx context.Context, sources []model.MonitorSource, opts model.CLIOptions) error {
	m := NewModel(ctx, sources, opts)
	prog := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		if failed := failedSources(fm); len(failed) > 0 {
			return fmt.Errorf("%d source(s) failed:\n%s", len(failed), strings.Join(failed, "\n"))
		}
	}
	return nil
}

// failedSources lists sessions that ended in a genuine error. A session
// cancelled by quitting is not a failure.
func failedSources(m Model) []string {
	var failed []string
	for _, id := range m.sessionOrder {
		ss := m.sessions[id]
		if ss == nil || ss.err == nil || errors.Is(ss.err, context.Canceled) {
			continue
		}
		if ss.name != "" {
			failed = append(failed, fmt.Sprintf("- %s: %s", ss.name, ss.err))
		} else {
			failed = append(failed, fmt.Sprintf("- %s", ss.err))
		}
	}
	return failed
}
