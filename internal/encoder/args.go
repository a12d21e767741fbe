package encoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"spinframes/internal/util"
)

// BuildWebPArgs constructs ffmpeg arguments that read one PNG image from
// stdin and write it to outputPath as WebP.
func BuildWebPArgs(quality int, outputPath string) []string {
	return ffmpeg.Input("pipe:0", ffmpeg.KwArgs{"f": "image2pipe", "c:v": "png"}).
		Output(outputPath, ffmpeg.KwArgs{
			"frames:v": 1,
			"c:v":      "libwebp",
			"quality":  quality,
		}).
		GlobalArgs("-hide_banner", "-loglevel", "error").
		OverWriteOutput().
		GetArgs()
}

// webpEncoder hands frames to ffmpeg's libwebp encoder; the image package
// only decodes WebP.
type webpEncoder struct {
	ffmpegPath string
	quality    int
	runner     util.CmdRunner
	verbose    bool
}

func (e webpEncoder) Encode(ctx context.Context, img image.Image, outputPath string) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestSpeed)); err != nil {
		return fmt.Errorf("encode intermediate png: %w", err)
	}

	_, err := e.runner.Run(ctx, util.CmdSpec{
		Path:    e.ffmpegPath,
		Args:    BuildWebPArgs(e.quality, outputPath),
		Stdin:   &buf,
		Verbose: e.verbose,
	})
	if err != nil {
		// Delete incomplete file
		_ = util.RemoveIfExists(outputPath)
		return fmt.Errorf("ffmpeg webp %s: %w", outputPath, err)
	}
	return nil
}
