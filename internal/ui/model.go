package ui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"buildpulse/internal/model"
	"buildpulse/internal/monitor"
	"buildpulse/internal/progress"
	"buildpulse/internal/util/format"
)

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	// Sources
	sources      []model.MonitorSource
	opts         model.CLIOptions
	sessionOrder []string
	sessions     map[string]*sessionState
	workers      int
	running      int
	next         int // next index in sources to start

	// UI
	width, height int
	styles        Styles

	// Internal event channel used by the reporter to feed tea messages
	eventCh chan tea.Msg
}

func NewModel(ctx context.Context, sources []model.MonitorSource, opts model.CLIOptions) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	sessions := make(map[string]*sessionState, len(sources))
	order := make([]string, 0, len(sources))
	for i, src := range sources {
		id := toID(i)
		ss := newSessionState(id, sourceName(src), sty)
		sessions[id] = &ss
		order = append(order, id)
	}

	workers := opts.Jobs
	if workers <= 0 {
		workers = 2
	}

	return Model{
		ctx:          c,
		cancel:       cancel,
		sources:      sources,
		opts:         opts,
		sessions:     sessions,
		sessionOrder: order,
		workers:      workers,
		styles:       sty,
		eventCh:      make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range m.sessionOrder {
		sp := m.sessions[id].spinner
		cmds = append(cmds, sp.Tick)
	}
	// Listen for reporter events
	cmds = append(cmds, m.listenEventsCmd())
	// Kick off the first batch of sessions
	cmds = append(cmds, func() tea.Msg { return startMsg{} })
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case startMsg:
		(&m).startNext()

	case sessionUpdateMsg:
		u := msg.U
		if ss, ok := m.sessions[u.SessionID]; ok {
			ss.stage = u.Stage
			ss.percent = u.Percent
			ss.unitsDone = u.UnitsDone
			ss.unitsTotal = u.UnitsTotal
			ss.trend = u.Trend
			ss.status = u.Message
			if u.ETA != nil {
				ss.eta = format.HumanizeDuration(*u.ETA)
			} else {
				ss.eta = ""
			}
			if u.Rate != nil {
				ss.rate = *u.Rate
			} else {
				ss.rate = ""
			}
		}
	case sessionLogMsg:
		l := msg.L
		if ss, ok := m.sessions[l.SessionID]; ok {
			line := strings.TrimRight(l.Line, "\r\n")
			if len(ss.logsRing) > 1000 {
				ss.logsRing = ss.logsRing[1:]
			}
			ss.logsRing = append(ss.logsRing, line)
		}
	case sessionResultMsg:
		r := msg.R
		if ss, ok := m.sessions[r.SessionID]; ok {
			ss.done = true
			ss.err = r.Err
			if r.Err == nil {
				ss.stage = progress.StageCompleted
				if d := r.Final; d != nil {
					ss.unitsDone = d.UnitsDone
					ss.unitsTotal = d.UnitsTotal
					ss.percent = d.Percent
					ss.status = fmt.Sprintf("%d/%d units in %s", d.UnitsDone, d.UnitsTotal, format.HumanizeDuration(d.Elapsed))
				} else {
					ss.percent = -1
					ss.status = fmt.Sprintf("no progress lines in %d read", r.LinesRead)
				}
			} else {
				ss.stage = progress.StageError
				ss.status = r.Err.Error()
				ss.percent = -1
			}
			m.running--
			(&m).startNext()
			if m.next >= len(m.sources) && m.running == 0 {
				return m, tea.Quit
			}
		}
	case allDoneMsg:
		return m, tea.Quit
	}

	// Update per-session components (spinner)
	var cmds []tea.Cmd
	for _, id := range m.sessionOrder {
		ss := m.sessions[id]
		var c tea.Cmd
		ss.spinner, c = ss.spinner.Update(msg)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	// Keep listening for events
	cmds = append(cmds, m.listenEventsCmd())
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return m.viewHeader() + "\n\n" + m.viewSessions()
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return allDoneMsg{}
		case msg := <-m.eventCh:
			return msg
		}
	}
}

// startNext launches queued sessions until the worker limit is reached.
func (m *Model) startNext() {
	for m.running < m.workers && m.next < len(m.sources) {
		idx := m.next
		m.next++
		m.running++
		id := m.sessionOrder[idx]
		if ss := m.sessions[id]; ss != nil {
			ss.started = true
			ss.status = "Attaching"
			ss.stage = progress.StageAttaching
		}
		go m.runSession(id, m.sources[idx])
	}
}

func (m Model) runSession(id string, src model.MonitorSource) {
	rep := teaReporter{ch: m.eventCh}
	svc := monitor.NewService(
		monitor.WithReporter(rep),
		monitor.WithSessionID(id),
		monitor.WithTotalMode(progress.TotalMode(m.opts.TotalField)),
		monitor.WithDedupCapacity(m.opts.DedupCap),
		monitor.WithVerbose(m.opts.Verbose),
	)
	// Errors surface through the reporter's Result event.
	if src.Stdin {
		_, _ = svc.RunReader(m.ctx, os.Stdin)
		return
	}
	_, _ = svc.RunFile(m.ctx, src.Path, m.opts.Follow, m.opts.FromStart)
}

type teaReporter struct {
	ch chan tea.Msg
}

func (r teaReporter) Update(u progress.Update) {
	// Block on terminal-stage messages to ensure they're delivered
	if u.Stage == progress.StageCompleted || u.Stage == progress.StageError {
		r.ch <- sessionUpdateMsg{U: u}
		return
	}
	select {
	case r.ch <- sessionUpdateMsg{U: u}:
	default:
	}
}
func (r teaReporter) Log(l progress.Log) {
	select {
	case r.ch <- sessionLogMsg{L: l}:
	default:
	}
}
func (r teaReporter) Result(res progress.Result) {
	// Always block on Result messages - they're critical
	r.ch <- sessionResultMsg{R: res}
}

func sourceName(src model.MonitorSource) string {
	if src.Stdin {
		return "stdin"
	}
	return src.Path
}

func toID(i int) string {
	return "source-" + strconv.Itoa(i)
}
