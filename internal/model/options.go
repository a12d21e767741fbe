package model

import (
	"fmt"
	"strings"
)

// ImageFormat is an output image format. The value doubles as the file extension.
type ImageFormat string

const (
	FormatWebP ImageFormat = "webp"
	FormatJPG  ImageFormat = "jpg"
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
)

// ParseImageFormat validates s case-insensitively. "jpg" and "jpeg" are kept
// distinct so the extension matches what the user asked for.
func ParseImageFormat(s string) (ImageFormat, error) {
	f := ImageFormat(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatWebP, FormatJPG, FormatJPEG, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("invalid image format: %q (valid: webp|jpg|jpeg|png)", s)
}

// Ext returns the file extension without the leading dot.
func (f ImageFormat) Ext() string {
	return string(f)
}

// Lossy reports whether quality applies to the format.
func (f ImageFormat) Lossy() bool {
	return f == FormatWebP || f == FormatJPG || f == FormatJPEG
}

// ContentType returns the MIME type served for the format.
func (f ImageFormat) ContentType() string {
	switch f {
	case FormatWebP:
		return "image/webp"
	case FormatJPG, FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

const (
	DefaultVideoPath   = "public/videos/product-spin.mp4"
	DefaultOutDir      = "public"
	DefaultTotalFrames = 60
	DefaultFormat      = FormatWebP
	DefaultQuality     = 85
	DefaultPrefix      = "product-spin"
)

// ExtractOptions holds user-configurable options for one extraction run.
type ExtractOptions struct {
	VideoPath   string
	OutDir      string
	TotalFrames int         // Target count N.
	Format      ImageFormat // webp | jpg | jpeg | png
	Quality     int         // 1..100 for lossy formats; passed through unvalidated.
	Prefix      string

	LongSide   int  // Cap on the longer output edge in px. 0 keeps the source size.
	Clean      bool // Remove previously written frames with the same prefix/extension first.
	Manifest   bool // Write <prefix>.json next to the frames.
	ExactCount bool // Count packets instead of trusting container metadata.

	Verbose bool
	NoUI    bool
}

// DefaultExtractOptions returns the options used when nothing is specified.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		VideoPath:   DefaultVideoPath,
		OutDir:      DefaultOutDir,
		TotalFrames: DefaultTotalFrames,
		Format:      DefaultFormat,
		Quality:     DefaultQuality,
		Prefix:      DefaultPrefix,
	}
}
