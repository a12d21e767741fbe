package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"spinframes/internal/cli"
	"spinframes/internal/config"
	"spinframes/internal/logging"
	"spinframes/internal/model"
	"spinframes/internal/naming"
	"spinframes/internal/pipeline"
	"spinframes/internal/progress"
	"spinframes/internal/ui"
	"spinframes/internal/util/deps"
)

type runMode struct {
	ForceTUI bool
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "extract [video_path] [output_dir] [total_frames] [image_format] [quality]",
		Short:         "Extract the frame sequence (default command)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(len(extractUse)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, runMode{})
		},
	}
	bindExtractFlags(cmd.Flags())
	return cmd
}

// inputs is everything a command needs after flags, env, config and
// positional arguments have been merged.
type inputs struct {
	Options     model.ExtractOptions
	LogLevel    string
	FFmpegPath  string
	FFprobePath string
}

// assembleInputs applies precedence positional > flag > env/config > default.
func assembleInputs(cmd *cobra.Command, args []string, slots []cli.Slot) (inputs, error) {
	v, err := config.New(cmd.Flags())
	if err != nil {
		return inputs{}, err
	}

	o := model.ExtractOptions{
		VideoPath:   v.GetString(config.KeyVideo),
		OutDir:      v.GetString(config.KeyOutDir),
		TotalFrames: v.GetInt(config.KeyFrames),
		Format:      model.ImageFormat(v.GetString(config.KeyFormat)),
		Quality:     v.GetInt(config.KeyQuality),
		Prefix:      stringOr(v.GetString("prefix"), model.DefaultPrefix),
		LongSide:    v.GetInt("long-side"),
		Clean:       v.GetBool("clean"),
		Manifest:    v.GetBool("manifest"),
		ExactCount:  v.GetBool("exact-count"),
		Verbose:     v.GetBool("verbose"),
		NoUI:        v.GetBool("no-ui"),
	}
	o, err = cli.ApplyPositional(o, args, slots)
	if err != nil {
		return inputs{}, err
	}
	o, err = cli.Normalize(o)
	if err != nil {
		return inputs{}, err
	}

	level := stringOr(v.GetString("log-level"), "warn")
	if o.Verbose {
		level = "debug"
	}
	return inputs{
		Options:     o,
		LogLevel:    level,
		FFmpegPath:  v.GetString("ffmpeg"),
		FFprobePath: v.GetString("ffprobe"),
	}, nil
}

func runExtract(cmd *cobra.Command, args []string, mode runMode) error {
	in, err := assembleInputs(cmd, args, cli.ExtractSlots)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	// A missing video is reported before missing tools.
	if err := pipeline.CheckSource(in.Options.VideoPath); err != nil {
		return exitErrorFor(err)
	}

	ffmpegPath, ferr := deps.FindFFmpeg(in.FFmpegPath)
	if ferr != nil {
		return &ExitError{Code: ExitMissingDep, Err: ferr}
	}
	ffprobePath, perr := deps.FindFFprobe(in.FFprobePath)
	if perr != nil {
		return &ExitError{Code: ExitMissingDep, Err: perr}
	}

	build := func(rep progress.Reporter, log *zap.Logger, tui bool) *pipeline.Service {
		return pipeline.NewService(
			pipeline.WithOptions(serviceOptions(in.Options, tui)),
			pipeline.WithFFmpegPath(ffmpegPath),
			pipeline.WithFFprobePath(ffprobePath),
			pipeline.WithReporter(rep),
			pipeline.WithLogger(log),
		)
	}
	out := cmd.OutOrStdout()

	// TUI path (forced or auto if TTY and not disabled)
	useTUI := mode.ForceTUI || (!in.Options.NoUI && isTerminal())
	if useTUI {
		res, err := ui.Run(cmd.Context(), filepath.Base(in.Options.VideoPath), func(ctx context.Context, rep progress.Reporter) (pipeline.Result, error) {
			return build(rep, logging.Nop(), true).Extract(ctx)
		})
		if err != nil {
			return exitErrorFor(err)
		}
		printNextSteps(out, in.Options, res)
		return nil
	}

	log, err := logging.New(in.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	defer func() { _ = log.Sync() }()

	printHeader(out, in.Options)
	res, err := build(progress.NewConsoleReporter(out), log, false).Extract(cmd.Context())
	if err != nil {
		return exitErrorFor(err)
	}
	printNextSteps(out, in.Options, res)
	return nil
}

// serviceOptions drops Verbose under the TUI: subprocess echoes go straight
// to stderr and would tear the screen the UI owns.
func serviceOptions(o model.ExtractOptions, tui bool) model.ExtractOptions {
	if tui {
		o.Verbose = false
	}
	return o
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func printHeader(w io.Writer, o model.ExtractOptions) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "spinframes")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Video:        %s\n", o.VideoPath)
	fmt.Fprintf(w, "Output dir:   %s\n", o.OutDir)
	fmt.Fprintf(w, "Total frames: %d\n", o.TotalFrames)
	fmt.Fprintf(w, "Format:       %s\n", o.Format)
	if o.Format.Lossy() {
		fmt.Fprintf(w, "Quality:      %d\n", o.Quality)
	}
	fmt.Fprintln(w, rule)
}

func printNextSteps(w io.Writer, o model.ExtractOptions, res pipeline.Result) {
	if res.Summary.Saved == 0 {
		fmt.Fprintln(w, "\nNo frames were written.")
		return
	}
	ext := o.Format.Ext()
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintln(w, "1. Check the generated images")
	fmt.Fprintf(w, "2. Point the spin viewer at %s with %d frames\n", o.OutDir, res.Summary.Saved)
	fmt.Fprintf(w, "3. Files are named %s to %s\n",
		naming.FrameName(o.Prefix, 0, ext), naming.FrameName(o.Prefix, res.Summary.Saved-1, ext))
	if res.ManifestPath != "" {
		fmt.Fprintf(w, "4. Sequence manifest: %s\n", res.ManifestPath)
	}
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
