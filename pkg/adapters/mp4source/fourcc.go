package mp4source

import "github.com/user/vidrender/pkg/media"

// Sample entry types used for uncompressed tracks.
var fourccs = map[media.PixelLayout]string{
	media.LayoutRGB24: "raw ",
	media.LayoutRGB32: "BGRA",
	media.LayoutNV12:  "NV12",
	media.LayoutYV12:  "YV12",
	media.LayoutUYVY:  "2vuy",
	media.LayoutYUY2:  "yuv2",
}

// FourCC returns the sample entry type for a layout.
func FourCC(l media.PixelLayout) (string, bool) {
	s, ok := fourccs[l]
	return s, ok
}

// LayoutOf returns the layout for a sample entry type.
func LayoutOf(fourcc string) (media.PixelLayout, bool) {
	for l, s := range fourccs {
		if s == fourcc {
			return l, true
		}
	}
	return media.LayoutUnknown, false
}
