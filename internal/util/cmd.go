package util

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CmdSpec describes a subprocess to run.
type CmdSpec struct {
	Path    string    // Binary path
	Args    []string  // Arguments
	Stdin   io.Reader // Optional data fed to the process stdin.
	Verbose bool      // Echo the command line and mirror stderr to os.Stderr
}

// CmdResult contains captured output and exit status.
type CmdResult struct {
	Stdout []byte
	Stderr []byte
	Code   int
	Err    error
}

// CmdRunner runs external tools. ffprobe and the webp encoder go through it so
// tests can substitute a fake.
type CmdRunner interface {
	Run(ctx context.Context, spec CmdSpec) (CmdResult, error)
}

type defaultRunner struct{}

// NewDefaultRunner returns a CmdRunner backed by os/exec.
func NewDefaultRunner() CmdRunner {
	return defaultRunner{}
}

func (defaultRunner) Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	return Run(ctx, spec)
}

// Run executes the command to completion and captures stdout and stderr.
// On non-zero exit it returns an error carrying the exit code and the last
// stderr line, together with the captured buffers.
func Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Stdin = spec.Stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if spec.Verbose {
		fmt.Fprintf(os.Stderr, "+ %s\n", ShellQuote(spec.Path, spec.Args))
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	}

	runErr := cmd.Run()
	res := CmdResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), Err: runErr}
	if runErr == nil {
		return res, nil
	}

	res.Code = -1
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		res.Code = exitErr.ExitCode()
	}
	if tail := LastLine(res.Stderr); tail != "" {
		return res, fmt.Errorf("command failed (exit %d): %w: %s", res.Code, runErr, tail)
	}
	return res, fmt.Errorf("command failed (exit %d): %w", res.Code, runErr)
}

// LastLine returns the last non-empty line of b, trimmed.
func LastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

// ShellQuote returns a printable shell-like command string for logging.
func ShellQuote(path string, args []string) string {
	b := &strings.Builder{}
	b.WriteString(quote(path))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(quote(a))
	}
	return b.String()
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n\"'\\$`(){}[]*&;|<>?!") {
		return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
	}
	return s
}
