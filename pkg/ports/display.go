package ports

import (
	"context"
	"image"

	"github.com/user/vidrender/pkg/media"
)

// Display receives flipped back buffers.
type Display interface {
	// Flip shows a completed frame. The image must not be retained after return.
	Flip(img *image.RGBA) error

	Close() error
}

// FrameSource delivers frames in a single fixed format.
type FrameSource interface {
	Format() media.FormatDescriptor

	// Next returns the next frame or io.EOF when the source is exhausted.
	Next(ctx context.Context) (*media.FrameSample, error)

	Close() error
}
