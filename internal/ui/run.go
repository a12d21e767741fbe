package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"spinframes/internal/pipeline"
	"spinframes/internal/progress"
)

// RunFunc performs the work shown by the UI, reporting through rep.
type RunFunc func(ctx context.Context, rep progress.Reporter) (pipeline.Result, error)

// Run shows a terminal UI while run executes and returns its outcome.
// Quitting the UI cancels run and waits for it to return.
func Run(ctx context.Context, title string, run RunFunc) (pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(ctx, cancel, title)
	done := make(chan runDoneMsg, 1)
	go func() {
		res, err := run(ctx, teaReporter{ctx: ctx, ch: m.eventCh})
		msg := runDoneMsg{Res: res, Err: err}
		done <- msg
		select {
		case m.eventCh <- msg:
		case <-ctx.Done():
		}
	}()

	prog := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		cancel()
		<-done
		return pipeline.Result{}, err
	}
	cancel()
	d := <-done
	return d.Res, d.Err
}

// teaReporter forwards pipeline events into the program. Frame updates may be
// dropped under load; results and terminal stages are always delivered.
type teaReporter struct {
	ctx context.Context
	ch  chan tea.Msg
}

func (r teaReporter) Update(u progress.Update) {
	if u.Stage == progress.StageCompleted || u.Stage == progress.StageError {
		r.send(updateMsg{U: u})
		return
	}
	select {
	case r.ch <- updateMsg{U: u}:
	default:
	}
}

func (r teaReporter) Log(l progress.Log) {
	select {
	case r.ch <- logMsg{L: l}:
	default:
	}
}

func (r teaReporter) Result(res progress.Result) {
	r.send(resultMsg{R: res})
}

func (r teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
	}
}
