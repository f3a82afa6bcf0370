package x11display

import (
	"fmt"
	"image"
)

// pixmapFormat is the server's image layout for one depth.
type pixmapFormat struct {
	Depth        uint8
	BitsPerPixel uint8
	ScanlinePad  uint8
}

// packZPixmap converts an RGBA image to ZPixmap bytes with each row padded
// to the scanline pad. It returns the data and the row stride.
func packZPixmap(img *image.RGBA, pf pixmapFormat) ([]byte, int, error) {
	bytesPerPixel := int(pf.BitsPerPixel) / 8
	if bytesPerPixel != 3 && bytesPerPixel != 4 {
		return nil, 0, fmt.Errorf("x11display: unsupported bits per pixel %d", pf.BitsPerPixel)
	}
	padBytes := int(pf.ScanlinePad) / 8
	if padBytes <= 0 {
		padBytes = 1
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := (w*bytesPerPixel + padBytes - 1) / padBytes * padBytes
	data := make([]byte, stride*h)

	for y := 0; y < h; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := data[y*stride:]
		for x := 0; x < w; x++ {
			s := src[x*4:]
			d := dst[x*bytesPerPixel:]
			d[0], d[1], d[2] = s[2], s[1], s[0]
			if bytesPerPixel == 4 && pf.Depth == 32 {
				d[3] = s[3]
			}
		}
	}
	return data, stride, nil
}

// bandRows returns how many rows of the given stride fit in one PutImage
// request of at most maxRequest 4-byte units.
func bandRows(stride, maxRequest int) int {
	const putImageHeader = 24
	avail := maxRequest*4 - putImageHeader
	if stride <= 0 || avail < stride {
		return 1
	}
	return avail / stride
}
