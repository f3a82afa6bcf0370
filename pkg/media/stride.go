package media

// align4 rounds n up to the next multiple of four.
func align4(n int) int {
	return (n + 3) &^ 3
}

// SourceStride returns the scanline stride of frames in the given format.
// Planar 4:2:0 layouts are aligned on the luma width, everything else on
// the row byte width.
func SourceStride(f FormatDescriptor) int {
	if f.Layout.IsPlanar() {
		return align4(f.Width)
	}
	return align4(f.Width * f.Layout.BitsPerPixel() / 8)
}

// RowBytes returns the number of meaningful bytes in one luma/packed row.
func RowBytes(f FormatDescriptor) int {
	if f.Layout.IsPlanar() {
		return f.Width
	}
	return f.Width * f.Layout.BitsPerPixel() / 8
}

// Plane describes one plane of a frame relative to the start of the buffer.
type Plane struct {
	Offset   int
	Stride   int
	Rows     int
	RowBytes int
}

// Size returns the number of bytes the plane occupies.
func (p Plane) Size() int {
	if p.Rows == 0 {
		return 0
	}
	return p.Stride*(p.Rows-1) + p.RowBytes
}

// Planes returns the plane layout of a frame whose first plane has the
// given stride. YV12 chroma planes use half the stride, V before U.
func Planes(f FormatDescriptor, stride int) []Plane {
	h := f.Height
	switch f.Layout {
	case LayoutNV12:
		luma := Plane{Offset: 0, Stride: stride, Rows: h, RowBytes: f.Width}
		chroma := Plane{
			Offset:   stride * h,
			Stride:   stride,
			Rows:     (h + 1) / 2,
			RowBytes: (f.Width + 1) &^ 1,
		}
		return []Plane{luma, chroma}
	case LayoutYV12:
		cstride := stride / 2
		crows := (h + 1) / 2
		cbytes := (f.Width + 1) / 2
		luma := Plane{Offset: 0, Stride: stride, Rows: h, RowBytes: f.Width}
		v := Plane{Offset: stride * h, Stride: cstride, Rows: crows, RowBytes: cbytes}
		u := Plane{Offset: v.Offset + cstride*crows, Stride: cstride, Rows: crows, RowBytes: cbytes}
		return []Plane{luma, v, u}
	default:
		return []Plane{{Offset: 0, Stride: stride, Rows: h, RowBytes: RowBytes(f)}}
	}
}

// FrameSize returns the number of bytes a frame needs at the given stride.
func FrameSize(f FormatDescriptor, stride int) int {
	planes := Planes(f, stride)
	last := planes[len(planes)-1]
	return last.Offset + last.Size()
}
