package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"spinframes/internal/cli"
	"spinframes/internal/model"
	"spinframes/internal/pipeline"
)

func TestExitErrorFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: video.mp4", pipeline.ErrSourceNotFound), ExitSourceNotFound},
		{fmt.Errorf("probe: %w", pipeline.ErrUnreadableSource), ExitUnreadableVideo},
		{fmt.Errorf("mkdir: %w", pipeline.ErrOutputDir), ExitOutputError},
		{fmt.Errorf("%w: total_frames", pipeline.ErrInvalidOptions), ExitCLIError},
		{errors.New("boom"), ExitCLIError},
	}
	for _, tt := range tests {
		err := exitErrorFor(tt.err)
		var ee *ExitError
		if !errors.As(err, &ee) {
			t.Fatalf("exitErrorFor(%v) = %T, want *ExitError", tt.err, err)
		}
		if ee.Code != tt.want {
			t.Errorf("exitErrorFor(%v).Code = %d, want %d", tt.err, ee.Code, tt.want)
		}
		if !errors.Is(err, tt.err) {
			t.Errorf("exitErrorFor(%v) does not wrap the original error", tt.err)
		}
	}
}

func TestHasEncoder(t *testing.T) {
	listing := `Encoders:
 V..... = Video
 ------
 V....D libwebp_anim         libwebp WebP image (codec webp)
 V....D libwebp              libwebp WebP image (codec webp)
 V....D png                  PNG (Portable Network Graphics) image
`
	if !HasEncoder(listing, "libwebp") {
		t.Error("libwebp should be found")
	}
	if HasEncoder(listing, "libx264") {
		t.Error("libx264 is not listed")
	}
	if HasEncoder("", "libwebp") {
		t.Error("empty listing has no encoders")
	}
}

func findCmd(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	c, _, err := root.Find([]string{name})
	if err != nil || c.Name() != name {
		t.Fatalf("command %q not registered: %v", name, err)
	}
	return c
}

func isolateConfig(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("config dir lookup via XDG is linux only")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("SPINFRAMES_CONFIG_DIR", "")
}

func TestAssembleInputs_PositionalOverFlags(t *testing.T) {
	isolateConfig(t)
	c := findCmd(t, newRootCmd(), "extract")
	if err := c.ParseFlags([]string{"--prefix", "chair", "--long-side", "720", "-v"}); err != nil {
		t.Fatal(err)
	}

	in, err := assembleInputs(c, []string{"in.mp4", "out/", "30", "PNG"}, cli.ExtractSlots)
	if err != nil {
		t.Fatalf("assembleInputs() error = %v", err)
	}
	o := in.Options
	if o.VideoPath != "in.mp4" || o.OutDir != "out" || o.TotalFrames != 30 || o.Format.Ext() != "png" {
		t.Errorf("positional values not applied: %+v", o)
	}
	if o.Quality != 85 {
		t.Errorf("Quality = %d, want default 85", o.Quality)
	}
	if o.Prefix != "chair" || o.LongSide != 720 || !o.Verbose {
		t.Errorf("flag values not applied: %+v", o)
	}
	if in.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug with --verbose", in.LogLevel)
	}
}

func TestAssembleInputs_Env(t *testing.T) {
	isolateConfig(t)
	t.Setenv("SPINFRAMES_FRAMES", "36")
	t.Setenv("SPINFRAMES_LONG_SIDE", "1080")
	c := findCmd(t, newRootCmd(), "plan")
	if err := c.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	in, err := assembleInputs(c, []string{"spin.mov"}, cli.PlanSlots)
	if err != nil {
		t.Fatal(err)
	}
	if in.Options.TotalFrames != 36 || in.Options.LongSide != 1080 {
		t.Errorf("env not applied: %+v", in.Options)
	}
	if in.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", in.LogLevel)
	}
}

func TestAssembleInputs_Invalid(t *testing.T) {
	isolateConfig(t)
	tests := [][]string{
		{"in.mp4", "out", "0"},
		{"in.mp4", "out", "1001"},
		{"in.mp4", "out", "sixty"},
		{"in.mp4", "out", "60", "gif"},
		{"in.mp4", "out", "60", "webp", "high"},
	}
	for _, args := range tests {
		c := findCmd(t, newRootCmd(), "extract")
		if err := c.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}
		if _, err := assembleInputs(c, args, cli.ExtractSlots); err == nil {
			t.Errorf("assembleInputs(%q) should fail", args)
		}
	}
}

func TestRoot_TooManyArgs(t *testing.T) {
	isolateConfig(t)
	root := newRootCmd()
	root.SetArgs([]string{"a.mp4", "out", "60", "webp", "85", "extra"})
	if err := root.Execute(); err == nil {
		t.Error("six positional arguments should be rejected")
	}
}

func TestRoot_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"extract", "plan", "tui", "doctor", "publish", "completion"} {
		findCmd(t, root, name)
	}
}

func TestCompletion_Bash(t *testing.T) {
	root := newRootCmd()
	var out strings.Builder
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "spinframes") {
		t.Error("bash completion should mention the program name")
	}
}

func TestMissingVideoWinsOverMissingTools(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()
	noTool := filepath.Join(dir, "no-ffmpeg")
	video := filepath.Join(dir, "missing.mp4")

	for _, args := range [][]string{
		{"--no-ui", "--ffmpeg", noTool, "--ffprobe", noTool, video},
		{"plan", "--ffprobe", noTool, video},
	} {
		root := newRootCmd()
		root.SetOut(io.Discard)
		root.SetArgs(args)
		err := root.Execute()
		var ee *ExitError
		if !errors.As(err, &ee) || ee.Code != ExitSourceNotFound {
			t.Errorf("%v: error = %v, want exit code %d", args, err, ExitSourceNotFound)
		}
	}
}

func TestServiceOptions_QuietUnderTUI(t *testing.T) {
	o := model.DefaultExtractOptions()
	o.Verbose = true
	if serviceOptions(o, true).Verbose {
		t.Error("TUI runs must not echo subprocess output to stderr")
	}
	if !serviceOptions(o, false).Verbose {
		t.Error("console runs keep --verbose")
	}
}
