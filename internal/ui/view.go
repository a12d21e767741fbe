package ui

import (
	"fmt"
	"strings"

	"spinframes/internal/progress"
	"spinframes/internal/util/format"
)

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("spinframes — " + m.title)
	sub := m.styles.Subtitle.Render("q: quit")
	return title + "\n" + sub
}

func (m Model) viewRun() string {
	s := m.state
	stageStyle := m.styles.Info
	switch s.stage {
	case progress.StageProbing:
		stageStyle = m.styles.StageProbe
	case progress.StageExtracting:
		stageStyle = m.styles.StageExtract
	case progress.StageCompleted:
		stageStyle = m.styles.Success
	case progress.StageError:
		stageStyle = m.styles.Error
	}
	stage := stageStyle.Render(string(s.stage))

	var bar string
	switch {
	case s.percent >= 0 && s.percent <= 100:
		bar = fmt.Sprintf("%s %5.1f%%  %d/%d", s.bar.ViewAs(s.percent/100.0), s.percent, s.current, s.total)
		if s.bytes > 0 {
			bar += "  " + format.HumanizeBytes(s.bytes)
		}
	case s.err != nil:
		bar = m.styles.Error.Render("✗ error")
	case s.stage == progress.StageCompleted:
		bar = m.styles.Success.Render("✓ done")
	default:
		bar = m.styles.Spinner.Render(s.spinner.View()) + " " + m.styles.Faint.Render("working")
	}

	var b strings.Builder
	b.WriteString(stage + "\n" + bar + "\n" + m.styles.Info.Render(truncate(s.status, 96)))
	for _, l := range s.logsRing {
		b.WriteString("\n")
		if l.warn {
			b.WriteString(m.styles.Warning.Render("! " + truncate(l.text, 94)))
			continue
		}
		b.WriteString(m.styles.Faint.Render("  " + truncate(l.text, 94)))
	}
	return m.styles.Box.Render(b.String())
}

func (m Model) viewSummary() string {
	s := m.state
	if s.stage != progress.StageCompleted || s.err != nil {
		return ""
	}
	return m.styles.Success.Render("✓ " + summaryLine(s.result))
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
