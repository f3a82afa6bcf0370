package media

import "testing"

func TestSourceStride(t *testing.T) {
	tests := []struct {
		name string
		f    FormatDescriptor
		want int
	}{
		{"RGB32 640", FormatDescriptor{Width: 640, Layout: LayoutRGB32}, 2560},
		{"RGB24 641", FormatDescriptor{Width: 641, Layout: LayoutRGB24}, 1924},
		{"RGB24 1", FormatDescriptor{Width: 1, Layout: LayoutRGB24}, 4},
		{"NV12 641", FormatDescriptor{Width: 641, Layout: LayoutNV12}, 644},
		{"YV12 720", FormatDescriptor{Width: 720, Layout: LayoutYV12}, 720},
		{"YUY2 3", FormatDescriptor{Width: 3, Layout: LayoutYUY2}, 8},
		{"UYVY 1920", FormatDescriptor{Width: 1920, Layout: LayoutUYVY}, 3840},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SourceStride(tt.f); got != tt.want {
				t.Errorf("SourceStride: expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSourceStrideAllWidths(t *testing.T) {
	for _, layout := range Layouts {
		for w := 1; w <= 4096; w++ {
			f := FormatDescriptor{Width: w, Height: 2, Layout: layout}
			got := SourceStride(f)

			var want int
			if layout.IsPlanar() {
				want = (w + 3) &^ 3
			} else {
				want = (w*layout.BitsPerPixel()/8 + 3) &^ 3
			}
			if got != want {
				t.Fatalf("%s width %d: expected %d, got %d", layout, w, want, got)
			}
			if got%4 != 0 {
				t.Fatalf("%s width %d: stride %d not 4-byte aligned", layout, w, got)
			}
			if got < RowBytes(f) {
				t.Fatalf("%s width %d: stride %d shorter than row %d", layout, w, got, RowBytes(f))
			}
		}
	}
}

func TestPlanes(t *testing.T) {
	f := FormatDescriptor{Width: 6, Height: 4, Layout: LayoutYV12}
	planes := Planes(f, 8)
	if len(planes) != 3 {
		t.Fatalf("expected 3 planes, got %d", len(planes))
	}
	if planes[1].Offset != 32 || planes[1].Stride != 4 || planes[1].Rows != 2 || planes[1].RowBytes != 3 {
		t.Errorf("unexpected V plane: %+v", planes[1])
	}
	if planes[2].Offset != 40 {
		t.Errorf("expected U plane at 40, got %d", planes[2].Offset)
	}
	if got := FrameSize(f, 8); got != 40+4+3 {
		t.Errorf("FrameSize: expected %d, got %d", 47, got)
	}

	nv := FormatDescriptor{Width: 5, Height: 3, Layout: LayoutNV12}
	planes = Planes(nv, 8)
	if len(planes) != 2 {
		t.Fatalf("expected 2 planes, got %d", len(planes))
	}
	if planes[1].Offset != 24 || planes[1].Rows != 2 || planes[1].RowBytes != 6 {
		t.Errorf("unexpected chroma plane: %+v", planes[1])
	}

	rgb := FormatDescriptor{Width: 3, Height: 2, Layout: LayoutRGB24}
	planes = Planes(rgb, SourceStride(rgb))
	if len(planes) != 1 || planes[0].RowBytes != 9 || planes[0].Stride != 12 {
		t.Errorf("unexpected RGB plane: %+v", planes)
	}
}

func TestParseLayout(t *testing.T) {
	for _, l := range Layouts {
		got, err := ParseLayout(l.String())
		if err != nil {
			t.Fatalf("ParseLayout(%s): %v", l, err)
		}
		if got != l {
			t.Errorf("ParseLayout(%s): got %s", l, got)
		}
	}
	if _, err := ParseLayout("nv12"); err != nil {
		t.Errorf("expected case-insensitive match: %v", err)
	}
	if _, err := ParseLayout("I420"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestPresentFlagsFor(t *testing.T) {
	s := &FrameSample{HasTime: true, Flags: SampleSyncPoint | SampleDiscontinuity}
	flags := PresentFlagsFor(s)
	want := PresentSrcDstRectsValid | PresentTimeValid | PresentSyncPoint | PresentDiscontinuity
	if flags != want {
		t.Errorf("expected %b, got %b", want, flags)
	}
}
