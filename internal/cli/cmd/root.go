package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"spinframes/internal/pipeline"
)

const (
	ExitOK              = 0
	ExitCLIError        = 1
	ExitMissingDep      = 2
	ExitSourceNotFound  = 3
	ExitUnreadableVideo = 4
	ExitOutputError     = 5
	ExitPublishError    = 6
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitErrorFor maps pipeline failures to exit codes.
func exitErrorFor(err error) error {
	code := ExitCLIError
	switch {
	case errors.Is(err, pipeline.ErrSourceNotFound):
		code = ExitSourceNotFound
	case errors.Is(err, pipeline.ErrUnreadableSource):
		code = ExitUnreadableVideo
	case errors.Is(err, pipeline.ErrOutputDir):
		code = ExitOutputError
	}
	return &ExitError{Code: code, Err: err}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "spinframes [video_path] [output_dir] [total_frames] [image_format] [quality]",
		Short: "Sample a video into a numbered image sequence for 360° product spins",
		Long: `spinframes takes a fixed number of evenly spaced frames from a video and writes
them as product-spin-000.webp, product-spin-001.webp, ... for an image-sequence
spin viewer on a web page.

Defaults: public/videos/product-spin.mp4 public 60 webp 85`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(len(extractUse)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, runMode{})
		},
	}

	// Persistent flags available to all subcommands
	root.PersistentFlags().BoolP("verbose", "v", false, "Show subprocess commands and debug logs")
	root.PersistentFlags().String("log-level", "warn", "Diagnostics log level: debug, info, warn, error")
	root.PersistentFlags().String("ffmpeg", "", "Path to ffmpeg")
	root.PersistentFlags().String("ffprobe", "", "Path to ffprobe")

	// Also bind extract flags on root, so `spinframes video.mp4` works.
	bindExtractFlags(root.Flags())

	// Subcommands
	root.AddCommand(newExtractCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newPublishCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

var extractUse = []string{"video_path", "output_dir", "total_frames", "image_format", "quality"}

func bindExtractFlags(fs *pflag.FlagSet) {
	fs.String("prefix", "product-spin", "File name prefix of the sequence")
	fs.Int("long-side", 0, "Cap the longer output edge in px (no upscaling); 0 keeps the video size")
	fs.Bool("clean", false, "Delete existing <prefix>-NNN files of the same format first")
	fs.Bool("manifest", false, "Write <prefix>.json describing the sequence")
	fs.Bool("exact-count", false, "Count frames by demuxing instead of trusting container metadata")
	fs.Bool("no-ui", false, "Disable TUI; use plain textual output")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}
