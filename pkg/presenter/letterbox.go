package presenter

import "github.com/user/vidrender/pkg/media"

// Letterbox fits an aspect ratio inside dst, centring it and shrinking
// whichever dimension overflows. The result never exceeds dst.
func Letterbox(aspect media.Size, dst media.Rect) media.Rect {
	srcW, srcH := aspect.Width, aspect.Height
	dstW, dstH := dst.Dx(), dst.Dy()
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return dst
	}

	out := dst
	switch {
	case srcW*dstH > dstW*srcH:
		// wider than the destination
		center := (dst.Top + dst.Bottom) / 2
		scaled := srcH * dstW / srcW
		out.Top = center - scaled/2
		out.Bottom = out.Top + scaled
	case srcW*dstH < dstW*srcH:
		center := (dst.Left + dst.Right) / 2
		scaled := srcW * dstH / srcH
		out.Left = center - scaled/2
		out.Right = out.Left + scaled
	}
	return out
}
