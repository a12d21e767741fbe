package progress

import (
	"fmt"
	"io"
	"sync"

	"spinframes/internal/util/format"
)

// Stage identifies a high-level step of an extraction run.
type Stage string

const (
	StageProbing    Stage = "probing"
	StageExtracting Stage = "extracting"
	StagePublishing Stage = "publishing"
	StageCompleted  Stage = "completed"
	StageError      Stage = "error"
)

// LogLevel marks informational lines apart from recoverable failures.
type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelWarn
)

// Update conveys progress or stage changes.
// Total is 0 while the target count is not known yet.
type Update struct {
	Stage   Stage
	Current int // frames saved so far
	Total   int // frames requested
	Bytes   int64
	Message string // short human-friendly status line
}

// Percent returns Current/Total in 0..100, or -1 when unknown.
func (u Update) Percent() float64 {
	if u.Total <= 0 {
		return -1
	}
	p := float64(u.Current) / float64(u.Total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// Log is a standalone line for the user.
type Log struct {
	Level LogLevel
	Line  string
}

// Result is emitted once when a run completes or fails.
type Result struct {
	OutputDir string
	Saved     int
	Target    int
	Bytes     int64
	AvgBytes  float64
	Err       error // nil on success, including partial runs
}

// Reporter is implemented by UI or any observer interested in progress events.
type Reporter interface {
	Update(u Update)
	Log(l Log)
	Result(r Result)
}

// Nop ignores all events.
type Nop struct{}

func (Nop) Update(Update) {}
func (Nop) Log(Log)       {}
func (Nop) Result(Result) {}

// ConsoleReporter prints events for a plain terminal or a pipe. The frame
// counter is rewritten in place with a carriage return.
type ConsoleReporter struct {
	mu      sync.Mutex
	w       io.Writer
	pending bool // a \r line is on screen without a trailing newline
}

// NewConsoleReporter writes to w.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

func (c *ConsoleReporter) Update(u Update) {
	if u.Message == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if u.Stage != StageExtracting && u.Stage != StagePublishing {
		c.breakLine()
		fmt.Fprintln(c.w, u.Message)
		return
	}
	fmt.Fprintf(c.w, "\r%s", u.Message)
	c.pending = true
}

func (c *ConsoleReporter) Log(l Log) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakLine()
	if l.Level == LevelWarn {
		fmt.Fprintf(c.w, "Warning: %s\n", l.Line)
		return
	}
	fmt.Fprintln(c.w, l.Line)
}

func (c *ConsoleReporter) Result(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakLine()
	// Failures are printed once by the caller together with the exit code.
	if r.Err != nil {
		return
	}
	fmt.Fprintf(c.w, "\nDone! Extracted %d frames to %s\n", r.Saved, r.OutputDir)
	fmt.Fprintf(c.w, "Total size: %s\n", format.MB(r.Bytes))
	fmt.Fprintf(c.w, "Average per frame: %s\n", format.KB(r.AvgBytes))
}

func (c *ConsoleReporter) breakLine() {
	if c.pending {
		fmt.Fprintln(c.w)
		c.pending = false
	}
}
