package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"spinframes/internal/util"
)

// FFmpegOpener decodes video files with an ffmpeg subprocess that writes
// scaled RGBA rawvideo to stdout.
type FFmpegOpener struct {
	FFmpegPath string
	Verbose    bool
}

// BuildDecodeArgs returns the ffmpeg arguments that decode spec.Path into
// spec.Width x spec.Height RGBA frames on stdout, one output frame per
// decoded frame.
func BuildDecodeArgs(spec Spec) []string {
	return ffmpeg.Input(spec.Path).
		Filter("scale", ffmpeg.Args{}, ffmpeg.KwArgs{"w": spec.Width, "h": spec.Height}).
		Output("pipe:", ffmpeg.KwArgs{
			"f":       "rawvideo",
			"pix_fmt": "rgba",
			"vsync":   "passthrough",
		}).
		GlobalArgs("-hide_banner", "-loglevel", "error").
		GetArgs()
}

// Open starts ffmpeg. The returned Source must be closed.
func (o FFmpegOpener) Open(ctx context.Context, spec Spec) (Source, error) {
	if o.FFmpegPath == "" {
		return nil, errors.New("ffmpeg path is required")
	}
	if spec.Path == "" {
		return nil, errors.New("input path is required")
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("invalid output size %dx%d", spec.Width, spec.Height)
	}

	args := BuildDecodeArgs(spec)
	if o.Verbose {
		fmt.Fprintf(os.Stderr, "+ %s\n", util.ShellQuote(o.FFmpegPath, args))
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, o.FFmpegPath, args...)
	src := &ffmpegSource{cmd: cmd, cancel: cancel}
	cmd.Stderr = &src.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	fr, err := NewFrameReader(bufio.NewReaderSize(stdout, 1<<20), spec.Width, spec.Height)
	if err != nil {
		cancel()
		_ = cmd.Wait()
		return nil, err
	}
	src.frames = fr
	return src, nil
}

type ffmpegSource struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	frames *FrameReader
	stderr bytes.Buffer

	eof     bool
	once    sync.Once
	waitErr error
}

func (s *ffmpegSource) Next() (image.Image, error) {
	img, err := s.frames.Next()
	if err != nil {
		s.eof = true
		return nil, err
	}
	return img, nil
}

// Close stops ffmpeg if frames are still pending and reaps the process.
// Exit errors are only reported when the stream was read to the end.
func (s *ffmpegSource) Close() error {
	s.once.Do(func() {
		stopped := !s.eof
		if stopped {
			s.cancel()
		}
		err := s.cmd.Wait()
		s.cancel()
		if err == nil || stopped {
			return
		}
		if tail := util.LastLine(s.stderr.Bytes()); tail != "" {
			s.waitErr = fmt.Errorf("ffmpeg: %w: %s", err, tail)
			return
		}
		s.waitErr = fmt.Errorf("ffmpeg: %w", err)
	})
	return s.waitErr
}
