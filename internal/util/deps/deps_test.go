package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindFFmpeg_CustomPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "ffmpeg-custom")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindFFmpeg(bin)
	if err != nil {
		t.Fatalf("FindFFmpeg(%q) error = %v", bin, err)
	}
	if got != bin {
		t.Errorf("FindFFmpeg() = %q, want %q", got, bin)
	}
}

func TestFindFFprobe_MissingCustomPath(t *testing.T) {
	_, err := FindFFprobe(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing custom path")
	}
	if !strings.Contains(err.Error(), "ffprobe") {
		t.Errorf("error %q should name the tool", err)
	}
}

func TestFind_DirectoryIsNotABinary(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindFFmpeg(dir); err == nil {
		t.Error("a directory should not be accepted as the ffmpeg binary")
	}
}
