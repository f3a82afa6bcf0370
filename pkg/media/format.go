// Package media defines the frame, format and presentation types shared by
// the renderer, allocator and presenter.
package media

import (
	"fmt"
	"strings"
)

// PixelLayout identifies how pixel bytes are arranged in a frame.
type PixelLayout int

const (
	LayoutUnknown PixelLayout = iota
	LayoutRGB24
	LayoutRGB32
	LayoutNV12
	LayoutYV12
	LayoutUYVY
	LayoutYUY2
)

// Layouts lists every layout the renderer accepts.
var Layouts = []PixelLayout{
	LayoutRGB24,
	LayoutRGB32,
	LayoutNV12,
	LayoutYV12,
	LayoutUYVY,
	LayoutYUY2,
}

// String returns the FourCC-style name of the layout.
func (l PixelLayout) String() string {
	switch l {
	case LayoutRGB24:
		return "RGB24"
	case LayoutRGB32:
		return "RGB32"
	case LayoutNV12:
		return "NV12"
	case LayoutYV12:
		return "YV12"
	case LayoutUYVY:
		return "UYVY"
	case LayoutYUY2:
		return "YUY2"
	default:
		return "unknown"
	}
}

// ParseLayout parses a layout name case-insensitively.
func ParseLayout(s string) (PixelLayout, error) {
	for _, l := range Layouts {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return LayoutUnknown, fmt.Errorf("unknown pixel layout: %q", s)
}

// BitsPerPixel returns the average number of bits per pixel.
func (l PixelLayout) BitsPerPixel() int {
	switch l {
	case LayoutRGB24:
		return 24
	case LayoutRGB32:
		return 32
	case LayoutNV12, LayoutYV12:
		return 12
	case LayoutUYVY, LayoutYUY2:
		return 16
	default:
		return 0
	}
}

// IsRGB reports whether the layout is uncompressed RGB.
func (l PixelLayout) IsRGB() bool {
	return l == LayoutRGB24 || l == LayoutRGB32
}

// IsPlanar reports whether the layout stores luma and chroma in separate planes.
func (l PixelLayout) IsPlanar() bool {
	return l == LayoutNV12 || l == LayoutYV12
}

// Valid reports whether the layout is one of the supported layouts.
func (l PixelLayout) Valid() bool {
	return l.BitsPerPixel() != 0
}

// Orientation is the scanline order of a frame.
type Orientation int

const (
	TopDown Orientation = iota
	BottomUp
)

func (o Orientation) String() string {
	if o == BottomUp {
		return "bottom-up"
	}
	return "top-down"
}

// FormatDescriptor describes the frames delivered on a connection.
// It does not change between Connect and Disconnect.
type FormatDescriptor struct {
	Width       int
	Height      int
	Layout      PixelLayout
	Orientation Orientation
}

func (f FormatDescriptor) String() string {
	return fmt.Sprintf("%dx%d %s %s", f.Width, f.Height, f.Layout, f.Orientation)
}

// MajorVideo is the only major type the renderer accepts.
const MajorVideo = "video"

// MediaType is what an upstream offers at connect time.
// A nil Format means the type carries no format block.
type MediaType struct {
	Major  string
	Format *FormatDescriptor
}

// VideoType builds a video media type for the given format.
func VideoType(f FormatDescriptor) MediaType {
	return MediaType{Major: MajorVideo, Format: &f}
}
