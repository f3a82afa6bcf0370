package pixconv

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/vidrender/pkg/media"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -3 && d <= 3
}

func TestRoundTripRGBIsExact(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 9)
	}
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 0xff
	}

	for _, layout := range []media.PixelLayout{media.LayoutRGB32, media.LayoutRGB24} {
		t.Run(layout.String(), func(t *testing.T) {
			f := media.FormatDescriptor{Width: 3, Height: 2, Layout: layout}
			data, err := FromRGBA(src, f)
			if err != nil {
				t.Fatalf("FromRGBA: %v", err)
			}
			got, err := ToRGBA(f, media.SourceStride(f), data)
			if err != nil {
				t.Fatalf("ToRGBA: %v", err)
			}
			for i := range src.Pix {
				if got.Pix[i] != src.Pix[i] {
					t.Fatalf("byte %d: expected %d, got %d", i, src.Pix[i], got.Pix[i])
				}
			}
		})
	}
}

func TestRoundTripYUVSolidColour(t *testing.T) {
	want := color.RGBA{R: 200, G: 60, B: 30, A: 255}
	for _, layout := range []media.PixelLayout{media.LayoutYUY2, media.LayoutUYVY, media.LayoutNV12, media.LayoutYV12} {
		t.Run(layout.String(), func(t *testing.T) {
			f := media.FormatDescriptor{Width: 6, Height: 4, Layout: layout}
			data, err := FromRGBA(solid(6, 4, want), f)
			if err != nil {
				t.Fatalf("FromRGBA: %v", err)
			}
			got, err := ToRGBA(f, media.SourceStride(f), data)
			if err != nil {
				t.Fatalf("ToRGBA: %v", err)
			}
			for y := 0; y < 4; y++ {
				for x := 0; x < 6; x++ {
					c := got.RGBAAt(x, y)
					if !near(c.R, want.R) || !near(c.G, want.G) || !near(c.B, want.B) {
						t.Fatalf("pixel (%d,%d): expected ~%v, got %v", x, y, want, c)
					}
				}
			}
		})
	}
}

func TestFromRGBABottomUpReversesRows(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 10, A: 255})
	src.SetRGBA(0, 1, color.RGBA{R: 20, A: 255})

	f := media.FormatDescriptor{Width: 1, Height: 2, Layout: media.LayoutRGB32, Orientation: media.BottomUp}
	data, err := FromRGBA(src, f)
	if err != nil {
		t.Fatalf("FromRGBA: %v", err)
	}
	// B, G, R, X per pixel; the last image row is stored first
	if data[2] != 20 || data[6] != 10 {
		t.Errorf("expected red 20 then 10, got %d then %d", data[2], data[6])
	}
}

func TestToRGBAWithPaddedPitch(t *testing.T) {
	f := media.FormatDescriptor{Width: 2, Height: 2, Layout: media.LayoutNV12}
	pitch := 8
	data := make([]byte, media.FrameSize(f, pitch))
	for i := range data {
		data[i] = 128
	}
	data[0] = 235

	got, err := ToRGBA(f, pitch, data)
	if err != nil {
		t.Fatalf("ToRGBA: %v", err)
	}
	if c := got.RGBAAt(0, 0); c.R < 200 {
		t.Errorf("expected bright pixel at origin, got %v", c)
	}
	if c := got.RGBAAt(1, 1); !near(c.R, 128) {
		t.Errorf("expected mid grey at (1,1), got %v", c)
	}
}

func TestErrors(t *testing.T) {
	f := media.FormatDescriptor{Width: 4, Height: 4, Layout: media.LayoutRGB32}
	if _, err := ToRGBA(f, 16, make([]byte, 10)); err == nil {
		t.Error("expected error for short buffer")
	}
	if _, err := FromRGBA(solid(2, 2, color.RGBA{}), f); err == nil {
		t.Error("expected error for small image")
	}
	if _, err := FromRGBA(solid(4, 4, color.RGBA{}), media.FormatDescriptor{Width: 4, Height: 4}); err == nil {
		t.Error("expected error for unknown layout")
	}
}
