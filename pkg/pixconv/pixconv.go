// Package pixconv converts between frame layouts and RGBA images.
package pixconv

import (
	"fmt"
	"image"
	"image/color"

	"github.com/user/vidrender/pkg/media"
)

// ToRGBA decodes a top-down frame stored at the given pitch into an RGBA
// image. RGB32 and RGB24 bytes are in B, G, R order.
func ToRGBA(f media.FormatDescriptor, pitch int, pix []byte) (*image.RGBA, error) {
	if need := media.FrameSize(f, pitch); len(pix) < need {
		return nil, fmt.Errorf("pixconv: %s needs %d bytes at pitch %d, have %d", f, need, pitch, len(pix))
	}
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	planes := media.Planes(f, pitch)

	for y := 0; y < f.Height; y++ {
		row := pix[y*pitch:]
		out := img.Pix[y*img.Stride:]
		for x := 0; x < f.Width; x++ {
			var r, g, b uint8
			switch f.Layout {
			case media.LayoutRGB32:
				b, g, r = row[x*4], row[x*4+1], row[x*4+2]
			case media.LayoutRGB24:
				b, g, r = row[x*3], row[x*3+1], row[x*3+2]
			case media.LayoutYUY2:
				pair := row[(x/2)*4:]
				r, g, b = color.YCbCrToRGB(pair[(x%2)*2], pair[1], pair[3])
			case media.LayoutUYVY:
				pair := row[(x/2)*4:]
				r, g, b = color.YCbCrToRGB(pair[1+(x%2)*2], pair[0], pair[2])
			case media.LayoutNV12:
				c := planes[1]
				off := c.Offset + (y/2)*c.Stride + (x/2)*2
				r, g, b = color.YCbCrToRGB(row[x], pix[off], pix[off+1])
			case media.LayoutYV12:
				v, u := planes[1], planes[2]
				ci := (y/2)*v.Stride + x/2
				r, g, b = color.YCbCrToRGB(row[x], pix[u.Offset+ci], pix[v.Offset+ci])
			default:
				return nil, fmt.Errorf("pixconv: unsupported layout %s", f.Layout)
			}
			out[x*4] = r
			out[x*4+1] = g
			out[x*4+2] = b
			out[x*4+3] = 0xff
		}
	}
	return img, nil
}

// FromRGBA encodes an image into a frame of format f at its source stride.
// Bottom-up RGB formats are written last row first. Chroma is taken from
// the top-left pixel of each subsampled block.
func FromRGBA(img *image.RGBA, f media.FormatDescriptor) ([]byte, error) {
	if !f.Layout.Valid() {
		return nil, fmt.Errorf("pixconv: unsupported layout %s", f.Layout)
	}
	b := img.Bounds()
	if b.Dx() < f.Width || b.Dy() < f.Height {
		return nil, fmt.Errorf("pixconv: image %dx%d smaller than %dx%d", b.Dx(), b.Dy(), f.Width, f.Height)
	}

	stride := media.SourceStride(f)
	out := make([]byte, media.FrameSize(f, stride))
	planes := media.Planes(f, stride)

	at := func(x, y int) (uint8, uint8, uint8) {
		i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
		return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
	}

	for y := 0; y < f.Height; y++ {
		dy := y
		if f.Layout.IsRGB() && f.Orientation == media.BottomUp {
			dy = f.Height - 1 - y
		}
		row := out[dy*stride:]
		for x := 0; x < f.Width; x++ {
			r, g, bl := at(x, y)
			switch f.Layout {
			case media.LayoutRGB32:
				row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = bl, g, r, 0xff
			case media.LayoutRGB24:
				row[x*3], row[x*3+1], row[x*3+2] = bl, g, r
			case media.LayoutYUY2, media.LayoutUYVY:
				yy, cb, cr := color.RGBToYCbCr(r, g, bl)
				pair := row[(x/2)*4:]
				luma := (x % 2) * 2
				if f.Layout == media.LayoutUYVY {
					luma++
				}
				pair[luma] = yy
				if x%2 == 0 {
					if f.Layout == media.LayoutYUY2 {
						pair[1], pair[3] = cb, cr
					} else {
						pair[0], pair[2] = cb, cr
					}
				}
			case media.LayoutNV12, media.LayoutYV12:
				yy, cb, cr := color.RGBToYCbCr(r, g, bl)
				row[x] = yy
				if x%2 != 0 || y%2 != 0 {
					continue
				}
				if f.Layout == media.LayoutNV12 {
					c := planes[1]
					off := c.Offset + (y/2)*c.Stride + x
					out[off], out[off+1] = cb, cr
				} else {
					v, u := planes[1], planes[2]
					ci := (y/2)*v.Stride + x/2
					out[v.Offset+ci] = cr
					out[u.Offset+ci] = cb
				}
			}
		}
	}
	return out, nil
}
