package ui

import (
	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"spinframes/internal/pipeline"
	"spinframes/internal/progress"
)

const maxLogLines = 6

type logLine struct {
	warn bool
	text string
}

type runState struct {
	stage   progress.Stage
	status  string
	current int
	total   int
	bytes   int64
	percent float64 // -1 means unknown

	done   bool
	err    error
	result progress.Result
	res    pipeline.Result

	spinner spinner.Model
	bar     bubblesprogress.Model

	// Recent lines only
	logsRing []logLine
}

func newRunState(styles Styles) runState {
	sp := spinner.New()
	sp.Style = styles.Spinner
	bar := bubblesprogress.New(
		bubblesprogress.WithDefaultGradient(),
		bubblesprogress.WithWidth(40),
	)
	return runState{
		stage:   progress.StageProbing,
		status:  "Probing video",
		percent: -1,
		spinner: sp,
		bar:     bar,
	}
}

func (s *runState) addLog(l logLine) {
	s.logsRing = append(s.logsRing, l)
	if len(s.logsRing) > maxLogLines {
		s.logsRing = s.logsRing[len(s.logsRing)-maxLogLines:]
	}
}
