// Package source streams decoded video frames in presentation order.
package source

import (
	"context"
	"image"
)

// Source is a forward-only sequence of frames. Next returns io.EOF at the end
// of the stream. The returned image is only valid until the following call.
type Source interface {
	Next() (image.Image, error)
	Close() error
}

// Spec describes what to open. Width and Height are the dimensions frames are
// delivered at; the decoder scales to them.
type Spec struct {
	Path   string
	Width  int
	Height int
}

// Opener opens a Source.
type Opener interface {
	Open(ctx context.Context, spec Spec) (Source, error)
}
