package ui

import (
	"fmt"
	"strings"

	"buildpulse/internal/progress"
)

func (m Model) viewHeader() string {
	done, total := 0, len(m.sessionOrder)
	for _, id := range m.sessionOrder {
		if m.sessions[id].done {
			done++
		}
	}
	title := m.styles.Title.Render("buildpulse — build progress monitor")
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Sources: %d/%d done • q: quit", done, total))
	return title + "\n" + sub
}

func (m Model) viewSessions() string {
	var b strings.Builder
	for _, id := range m.sessionOrder {
		ss := m.sessions[id]
		b.WriteString(m.viewSession(ss))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewSession(ss *sessionState) string {
	stageStyle := m.styles.SourceInfo
	switch ss.stage {
	case progress.StageAttaching:
		stageStyle = m.styles.StageAttach
	case progress.StageWatching:
		stageStyle = m.styles.StageWatch
	case progress.StageBuilding:
		stageStyle = m.styles.StageBuild
	case progress.StageCompleted:
		stageStyle = m.styles.Success
	case progress.StageError:
		stageStyle = m.styles.Error
	}

	left := m.styles.SourceTitle.Render(truncate(ss.name, 48))
	stage := stageStyle.Render(string(ss.stage))

	var right string
	if ss.percent >= 0 && ss.percent <= 100 {
		right = fmt.Sprintf("%s %5.1f%%", ss.bar.ViewAs(ss.percent/100.0), ss.percent)
	} else if ss.done && ss.err == nil {
		right = m.styles.Success.Render("✓ done")
	} else if ss.err != nil {
		right = m.styles.Error.Render("✗ error")
	} else {
		right = m.styles.Spinner.Render(ss.spinner.View()) + " " + m.styles.Faint.Render("waiting")
	}

	line1 := fmt.Sprintf("%s  %s", left, stage)
	line2 := m.styles.SourceInfo.Render(ss.status)
	if meta := m.viewTrend(ss); meta != "" {
		line2 += "  " + meta
	}
	return m.styles.Box.Render(line1 + "\n" + right + "\n" + line2)
}

// viewTrend renders the rate, trend arrow, and ETA for an active session.
func (m Model) viewTrend(ss *sessionState) string {
	if ss.rate == "" {
		return ""
	}
	trendStyle := m.styles.Faint
	switch ss.trend {
	case progress.TrendSpedUp:
		trendStyle = m.styles.TrendSpedUp
	case progress.TrendSlowedDown:
		trendStyle = m.styles.TrendSlowed
	case progress.TrendSteady:
		trendStyle = m.styles.TrendSteady
	}
	s := trendStyle.Render(ss.trend.Arrow() + " " + ss.rate)
	if ss.eta != "" {
		s += m.styles.Faint.Render("  eta " + ss.eta)
	}
	return s
}

func truncate(s string, n int) string {
	if n <= 0 || len([]rune(s)) <= n {
		return s
	}
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
