package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"spinframes/internal/progress"
	"spinframes/internal/util/format"
)

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	title string
	state runState

	// UI
	width, height int
	styles        Styles

	// Internal event channel used by reporter to feed tea messages
	eventCh chan tea.Msg
}

func NewModel(ctx context.Context, cancel context.CancelFunc, title string) Model {
	sty := defaultStyles()
	return Model{
		ctx:     ctx,
		cancel:  cancel,
		title:   title,
		state:   newRunState(sty),
		styles:  sty,
		eventCh: make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.state.spinner.Tick, m.listenEventsCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.state.bar.Width = clamp(msg.Width-24, 10, 60)
		return m, nil

	case updateMsg:
		u := msg.U
		m.state.stage = u.Stage
		if u.Total > 0 {
			m.state.total = u.Total
		}
		if u.Current > 0 {
			m.state.current = u.Current
		}
		if u.Stage == progress.StageExtracting {
			m.state.bytes += u.Bytes
		}
		if p := u.Percent(); p >= 0 {
			m.state.percent = p
		}
		if u.Message != "" {
			m.state.status = u.Message
		} else {
			m.state.status = stageStatus(u.Stage)
		}
		return m, m.listenEventsCmd()

	case logMsg:
		m.state.addLog(logLine{
			warn: msg.L.Level == progress.LevelWarn,
			text: strings.TrimRight(msg.L.Line, "\r\n"),
		})
		return m, m.listenEventsCmd()

	case resultMsg:
		r := msg.R
		m.state.result = r
		m.state.err = r.Err
		if r.Err == nil {
			m.state.stage = progress.StageCompleted
			m.state.current = r.Saved
			m.state.status = fmt.Sprintf("Extracted %d/%d frames to %s", r.Saved, r.Target, r.OutputDir)
		} else {
			m.state.stage = progress.StageError
			m.state.status = r.Err.Error()
			m.state.percent = -1
		}
		return m, m.listenEventsCmd()

	case runDoneMsg:
		m.state.done = true
		m.state.res = msg.Res
		if msg.Err != nil {
			m.state.err = msg.Err
		}
		return m, tea.Quit

	case quitMsg:
		return m, tea.Quit
	}

	// Spinner ticks; the event listener is re-armed only by events.
	var c tea.Cmd
	m.state.spinner, c = m.state.spinner.Update(msg)
	return m, c
}

func (m Model) View() string {
	out := m.viewHeader() + "\n\n" + m.viewRun()
	if summary := m.viewSummary(); summary != "" {
		out += "\n" + summary
	}
	return out + "\n"
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return quitMsg{}
		case msg := <-m.eventCh:
			return msg
		}
	}
}

func stageStatus(s progress.Stage) string {
	switch s {
	case progress.StageProbing:
		return "Probing video"
	case progress.StageExtracting:
		return "Extracting frames"
	case progress.StageCompleted:
		return "Completed"
	}
	return string(s)
}

func summaryLine(r progress.Result) string {
	return fmt.Sprintf("%d frames • %s total • %s avg", r.Saved, format.MB(r.Bytes), format.KB(r.AvgBytes))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
