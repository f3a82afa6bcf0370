package renderer

import (
	"fmt"

	"github.com/user/vidrender/pkg/media"
)

// CopyFrame copies one frame of the given format and source stride into a
// locked surface. Bottom-up RGB frames are flipped row by row; a surface
// pitch that differs from the source stride forces a scanline copy of every
// plane; otherwise the sample is copied in one block.
func CopyFrame(f media.FormatDescriptor, stride int, dst media.LockedRect, data []byte) error {
	if need := media.FrameSize(f, stride); len(data) < need {
		return fmt.Errorf("%w: sample has %d bytes, frame needs %d", media.ErrCopy, len(data), need)
	}
	if need := media.FrameSize(f, dst.Pitch); dst.Pitch < media.RowBytes(f) || len(dst.Pix) < need {
		return fmt.Errorf("%w: surface has %d bytes at pitch %d, frame needs %d", media.ErrCopy, len(dst.Pix), dst.Pitch, need)
	}

	switch {
	case f.Layout.IsRGB() && f.Orientation == media.BottomUp:
		n := media.RowBytes(f)
		for y := 0; y < f.Height; y++ {
			src := (f.Height - 1 - y) * stride
			copy(dst.Pix[y*dst.Pitch:y*dst.Pitch+n], data[src:src+n])
		}
	case dst.Pitch != stride:
		srcPlanes := media.Planes(f, stride)
		dstPlanes := media.Planes(f, dst.Pitch)
		for i, sp := range srcPlanes {
			dp := dstPlanes[i]
			for y := 0; y < sp.Rows; y++ {
				s := sp.Offset + y*sp.Stride
				d := dp.Offset + y*dp.Stride
				copy(dst.Pix[d:d+sp.RowBytes], data[s:s+sp.RowBytes])
			}
		}
	default:
		if len(data) > len(dst.Pix) {
			return fmt.Errorf("%w: sample has %d bytes, surface holds %d", media.ErrCopy, len(data), len(dst.Pix))
		}
		copy(dst.Pix, data)
	}
	return nil
}
