package source

import (
	"errors"
	"fmt"
	"image"
	"io"
)

// FrameReader cuts an RGBA rawvideo byte stream into frames of a fixed size.
// Frames are decoded into a single reused buffer.
type FrameReader struct {
	r   io.Reader
	img *image.NRGBA
}

// NewFrameReader returns a reader for width x height RGBA frames.
func NewFrameReader(r io.Reader, width, height int) (*FrameReader, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	return &FrameReader{
		r:   r,
		img: image.NewNRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// FrameSize is the number of bytes per frame.
func (f *FrameReader) FrameSize() int {
	return len(f.img.Pix)
}

// Next reads one frame. A clean end of stream yields io.EOF, a truncated
// frame io.ErrUnexpectedEOF.
func (f *FrameReader) Next() (image.Image, error) {
	if _, err := io.ReadFull(f.r, f.img.Pix); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, err
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return f.img, nil
}
