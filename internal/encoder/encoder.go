package encoder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"

	"spinframes/internal/model"
	"spinframes/internal/util"
)

// Encoder writes a single frame to path, replacing any existing file.
type Encoder interface {
	Encode(ctx context.Context, img image.Image, path string) error
}

// Options control how external encoders are run.
type Options struct {
	FFmpegPath string
	Runner     util.CmdRunner // nil uses os/exec
	Verbose    bool
}

// New returns the encoder for format. Quality applies to lossy formats only
// and is handed to the codec as is.
func New(format model.ImageFormat, quality int, opts Options) (Encoder, error) {
	switch format {
	case model.FormatPNG:
		return imageEncoder{format: imaging.PNG}, nil
	case model.FormatJPG, model.FormatJPEG:
		return imageEncoder{format: imaging.JPEG, quality: quality}, nil
	case model.FormatWebP:
		if opts.FFmpegPath == "" {
			return nil, errors.New("ffmpeg path is required for webp output")
		}
		runner := opts.Runner
		if runner == nil {
			runner = util.NewDefaultRunner()
		}
		return webpEncoder{ffmpegPath: opts.FFmpegPath, quality: quality, runner: runner, verbose: opts.Verbose}, nil
	}
	return nil, fmt.Errorf("unsupported image format: %q", format)
}

// imageEncoder covers the formats Go encodes natively.
type imageEncoder struct {
	format  imaging.Format
	quality int
}

func (e imageEncoder) Encode(ctx context.Context, img image.Image, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	var encErr error
	switch e.format {
	case imaging.JPEG:
		encErr = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(e.quality))
	default:
		encErr = imaging.Encode(w, img, e.format, imaging.PNGCompressionLevel(png.DefaultCompression))
	}
	if encErr == nil {
		encErr = w.Flush()
	}
	if closeErr := f.Close(); encErr == nil {
		encErr = closeErr
	}
	if encErr != nil {
		// Delete incomplete file
		_ = util.RemoveIfExists(path)
		return fmt.Errorf("encode %s: %w", path, encErr)
	}
	return nil
}
