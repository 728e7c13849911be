package ui

import (
	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"buildpulse/internal/progress"
)

type sessionState struct {
	id     string
	name   string
	stage  progress.Stage
	status string
	err    error
	done   bool

	percent    float64 // -1 means unknown
	unitsDone  int
	unitsTotal int
	trend      progress.Trend
	eta        string
	rate       string

	spinner spinner.Model
	bar     bubblesprogress.Model

	started bool

	// Recent non-progress lines, kept small.
	logsRing []string
}

func newSessionState(id, name string, styles Styles) sessionState {
	sp := spinner.New()
	sp.Style = styles.Spinner
	bar := bubblesprogress.New(
		bubblesprogress.WithDefaultGradient(),
		bubblesprogress.WithWidth(40),
	)
	return sessionState{
		id:      id,
		name:    name,
		stage:   progress.StageAttaching,
		status:  "Queued",
		percent: -1,
		trend:   progress.TrendInitial,
		spinner: sp,
		bar:     bar,
	}
}
