package softgpu_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/user/vidrender/pkg/adapters/logger"
	"github.com/user/vidrender/pkg/adapters/softgpu"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/mocks"
	"github.com/user/vidrender/pkg/pixconv"
	"github.com/user/vidrender/pkg/renderer"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// halves returns a 4x2 image, red on the left and blue on the right, with a
// green top-left pixel marking the top row.
func halves() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			c := red
			if x >= 2 {
				c = blue
			}
			img.SetRGBA(x, y, c)
		}
	}
	img.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	return img
}

func start(t *testing.T, f media.FormatDescriptor, display *mocks.Display) (*renderer.Renderer, *softgpu.System) {
	t.Helper()
	sys := softgpu.NewSystem(softgpu.Config{Caps: softgpu.DefaultCaps()}, display, logger.NewNoop())
	r := renderer.New(sys, mocks.NewWindowing(8, 4), logger.NewNoop(), renderer.DefaultOptions())
	if err := r.Connect(media.VideoType(f)); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := r.StartStream(); err != nil {
		t.Fatalf("StartStream failed: %v", err)
	}
	return r, sys
}

func sample(t *testing.T, f media.FormatDescriptor) *media.FrameSample {
	t.Helper()
	data, err := pixconv.FromRGBA(halves(), f)
	if err != nil {
		t.Fatalf("FromRGBA failed: %v", err)
	}
	return &media.FrameSample{Data: data}
}

func TestRenderer_EndToEnd(t *testing.T) {
	for _, o := range []media.Orientation{media.TopDown, media.BottomUp} {
		t.Run(o.String(), func(t *testing.T) {
			f := media.FormatDescriptor{Width: 4, Height: 2, Layout: media.LayoutRGB32, Orientation: o}
			display := &mocks.Display{}
			r, _ := start(t, f, display)

			if err := r.Render(sample(t, f)); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if display.Count() != 1 {
				t.Fatalf("expected 1 frame, got %d", display.Count())
			}

			img := display.Frames[0]
			if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
				t.Fatalf("expected 8x4 frame, got %v", b)
			}
			if c := img.RGBAAt(0, 0); c.G != 255 {
				t.Errorf("expected green marker at top-left, got %v", c)
			}
			if c := img.RGBAAt(1, 3); c != red {
				t.Errorf("expected red at (1,3), got %v", c)
			}
			if c := img.RGBAAt(7, 3); c != blue {
				t.Errorf("expected blue at (7,3), got %v", c)
			}
		})
	}
}

func TestRenderer_EndToEndYUV(t *testing.T) {
	f := media.FormatDescriptor{Width: 4, Height: 2, Layout: media.LayoutNV12}
	display := &mocks.Display{}
	r, _ := start(t, f, display)

	if err := r.Render(sample(t, f)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	img := display.Frames[0]
	if c := img.RGBAAt(7, 3); c.B < 200 || c.R > 60 {
		t.Errorf("expected blue at (7,3), got %v", c)
	}
}

func TestRenderer_CroppedLetterboxAtOffset(t *testing.T) {
	f := media.FormatDescriptor{Width: 4, Height: 2, Layout: media.LayoutRGB32}
	display := &mocks.Display{}
	r, _ := start(t, f, display)

	if err := r.SetAspectRatioMode(media.AspectLetterBox); err != nil {
		t.Fatalf("SetAspectRatioMode failed: %v", err)
	}
	// the blue right half is square, the destination is 2:1 at (4,2)
	src := media.Rect{Left: 2, Top: 0, Right: 4, Bottom: 2}
	dst := media.Rect{Left: 4, Top: 2, Right: 12, Bottom: 6}
	if err := r.SetVideoPosition(&src, &dst); err != nil {
		t.Fatalf("SetVideoPosition failed: %v", err)
	}
	if err := r.Render(sample(t, f)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	img, err := r.CurrentImage()
	if err != nil {
		t.Fatalf("CurrentImage failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 6 {
		t.Fatalf("expected 12x6 back buffer, got %v", b)
	}
	black := color.RGBA{A: 255}
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{1, 1, black},  // above and left of the destination
		{5, 3, black},  // left pillar
		{6, 2, blue},   // top-left of the image
		{9, 5, blue},   // bottom-right of the image
		{10, 4, black}, // right pillar
	}
	for _, tt := range tests {
		if c := img.RGBAAt(tt.x, tt.y); c != tt.want {
			t.Errorf("(%d,%d): expected %v, got %v", tt.x, tt.y, tt.want, c)
		}
	}
	if got := display.Frames[0].Bounds(); got != img.Bounds() {
		t.Errorf("expected flipped frame %v, got %v", img.Bounds(), got)
	}
}

func TestRenderer_DeviceLossAndRestore(t *testing.T) {
	f := media.FormatDescriptor{Width: 4, Height: 2, Layout: media.LayoutRGB32}
	display := &mocks.Display{}
	r, sys := start(t, f, display)

	if err := r.Render(sample(t, f)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	sys.LoseDevices()

	if err := r.Render(sample(t, f)); !errors.Is(err, media.ErrDeviceLost) {
		t.Fatalf("expected ErrDeviceLost, got %v", err)
	}
	if err := r.Render(sample(t, f)); err != nil {
		t.Errorf("frames after loss must be dropped silently, got %v", err)
	}

	if err := r.RestoreSurfaces(); err != nil {
		t.Fatalf("RestoreSurfaces failed: %v", err)
	}
	if err := r.Render(sample(t, f)); err != nil {
		t.Fatalf("Render after restore failed: %v", err)
	}

	if display.Count() != 2 {
		t.Errorf("expected 2 frames, got %d", display.Count())
	}
	devices := sys.Devices()
	if len(devices) != 2 || !devices[0].Released() || devices[1].Released() {
		t.Errorf("expected old device released and new one live, got %d devices", len(devices))
	}
	if s := r.Stats(); s.DeviceLosses != 1 {
		t.Errorf("expected 1 device loss, got %d", s.DeviceLosses)
	}
}
