package util

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "a", "b")

	created, err := EnsureDir(target)
	if err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if !created {
		t.Errorf("EnsureDir() created = false, want true for a new path")
	}

	created, err = EnsureDir(target)
	if err != nil {
		t.Fatalf("EnsureDir() second call error = %v", err)
	}
	if created {
		t.Errorf("EnsureDir() created = true, want false for an existing dir")
	}

	file := filepath.Join(base, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := EnsureDir(file); err == nil {
		t.Errorf("EnsureDir() on a regular file should fail")
	}
	if _, err := EnsureDir(""); err == nil {
		t.Errorf("EnsureDir(\"\") should fail")
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "frame.webp")
	if err := RemoveIfExists(p); err != nil {
		t.Errorf("RemoveIfExists() on missing file = %v, want nil", err)
	}
	if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveIfExists(p); err != nil {
		t.Fatalf("RemoveIfExists() error = %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Errorf("file still exists after RemoveIfExists")
	}
}

func TestFileSize(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "frame.png")
	if err := os.WriteFile(p, make([]byte, 1234), 0o644); err != nil {
		t.Fatal(err)
	}
	if n, ok := FileSize(p); !ok || n != 1234 {
		t.Errorf("FileSize() = %d, %v; want 1234, true", n, ok)
	}
	if _, ok := FileSize(filepath.Join(dir, "missing.png")); ok {
		t.Errorf("FileSize() on missing file should report false")
	}
	if _, ok := FileSize(dir); ok {
		t.Errorf("FileSize() on a directory should report false")
	}
}

func TestShellQuoteAndLastLine(t *testing.T) {
	got := ShellQuote("/usr/bin/ffmpeg", []string{"-i", "my video.mp4", "pipe:"})
	want := "/usr/bin/ffmpeg -i 'my video.mp4' pipe:"
	if got != want {
		t.Errorf("ShellQuote() = %q, want %q", got, want)
	}
	if l := LastLine([]byte("first\nsecond\n\n")); l != "second" {
		t.Errorf("LastLine() = %q, want %q", l, "second")
	}
	if l := LastLine(nil); l != "" {
		t.Errorf("LastLine(nil) = %q, want empty", l)
	}
}

func TestRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	res, err := Run(context.Background(), CmdSpec{
		Path:  "sh",
		Args:  []string{"-c", "cat; echo oops >&2"},
		Stdin: strings.NewReader("frame-bytes"),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if string(res.Stdout) != "frame-bytes" || LastLine(res.Stderr) != "oops" || res.Code != 0 {
		t.Errorf("Run() = %+v", res)
	}

	res, err = Run(context.Background(), CmdSpec{Path: "sh", Args: []string{"-c", "echo broken >&2; exit 3"}})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if res.Code != 3 || !strings.Contains(err.Error(), "exit 3") || !strings.Contains(err.Error(), "broken") {
		t.Errorf("Run() = %+v, err = %v", res, err)
	}
}
