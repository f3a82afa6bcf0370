package presenter

import (
	"errors"
	"fmt"
	"image/color"
	"testing"

	"github.com/user/vidrender/pkg/adapters/logger"
	"github.com/user/vidrender/pkg/device"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/mocks"
	"github.com/user/vidrender/pkg/ports"
)

func TestLetterbox(t *testing.T) {
	tests := []struct {
		name   string
		aspect media.Size
		dst    media.Rect
		want   media.Rect
	}{
		{"wide into 4:3", media.Size{Width: 1920, Height: 1080}, media.NewRect(800, 600), media.Rect{Left: 0, Top: 75, Right: 800, Bottom: 525}},
		{"tall into wide", media.Size{Width: 480, Height: 640}, media.NewRect(800, 600), media.Rect{Left: 175, Top: 0, Right: 625, Bottom: 600}},
		{"equal aspect", media.Size{Width: 640, Height: 480}, media.NewRect(800, 600), media.NewRect(800, 600)},
		{"offset destination", media.Size{Width: 1920, Height: 1080}, media.Rect{Left: 100, Top: 100, Right: 900, Bottom: 700}, media.Rect{Left: 100, Top: 175, Right: 900, Bottom: 625}},
		{"degenerate source", media.Size{}, media.NewRect(800, 600), media.NewRect(800, 600)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Letterbox(tt.aspect, tt.dst)
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
			if got.Left < tt.dst.Left || got.Top < tt.dst.Top || got.Right > tt.dst.Right || got.Bottom > tt.dst.Bottom {
				t.Errorf("result %+v exceeds destination %+v", got, tt.dst)
			}
		})
	}
}

// setup returns a presenter on a mock device with one 16x9 RGB32 surface.
func setup(t *testing.T) (*Presenter, *device.Holder, *mocks.GraphicsDevice, *device.Surface) {
	t.Helper()
	holder := device.NewHolder(logger.NewNoop())
	dev := mocks.NewGraphicsDevice(16, 9)
	h := holder.SetDevice(dev, 0)

	buf, _ := dev.CreateSurface(media.AllocTexture, 16, 9, media.LayoutRGB32)
	sh, err := holder.Alloc(h.Generation, buf)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	return New(holder, logger.NewNoop()), holder, dev, device.NewSurface(holder, sh, buf.Desc())
}

func TestPresentImageNoDevice(t *testing.T) {
	p, holder, dev, surf := setup(t)
	holder.Invalidate()

	err := p.PresentImage(&ports.PresentationRequest{Surface: surf})
	if err != nil {
		t.Fatalf("expected success without device, got %v", err)
	}
	if dev.DrawCalls() != 0 {
		t.Errorf("expected no draw calls, got %d", dev.DrawCalls())
	}
}

func TestPresentImageLetterbox(t *testing.T) {
	p, _, dev, surf := setup(t)
	p.SetBorderColor(color.RGBA{R: 10, G: 20, B: 30, A: 255})

	req := &ports.PresentationRequest{
		Surface:     surf,
		SrcRect:     media.NewRect(16, 9),
		DstRect:     media.Rect{Left: 10, Top: 10, Right: 810, Bottom: 610},
		AspectRatio: media.Size{Width: 1920, Height: 1080},
		AspectMode:  media.AspectLetterBox,
	}
	if err := p.PresentImage(req); err != nil {
		t.Fatalf("PresentImage: %v", err)
	}

	if dev.ClearCalls != 1 || dev.StretchCalls != 1 || dev.PresentCalls != 1 {
		t.Errorf("expected one clear, stretch and present, got %d/%d/%d", dev.ClearCalls, dev.StretchCalls, dev.PresentCalls)
	}
	if dev.BackBufferSize() != (media.Size{Width: 810, Height: 610}) {
		t.Errorf("expected back buffer to reach the destination corner 810x610, got %v", dev.BackBufferSize())
	}
	want := media.Rect{Left: 10, Top: 85, Right: 810, Bottom: 535}
	if dev.LastDst != want {
		t.Errorf("expected stretch into %+v, got %+v", want, dev.LastDst)
	}
	if dev.LastClear != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("unexpected clear color %v", dev.LastClear)
	}
	if p.Presented() != 1 {
		t.Errorf("expected 1 presented frame, got %d", p.Presented())
	}
}

func TestPresentImageLetterboxCroppedSource(t *testing.T) {
	p, _, dev, surf := setup(t)

	req := &ports.PresentationRequest{
		Surface:     surf,
		SrcRect:     media.Rect{Left: 3, Top: 0, Right: 12, Bottom: 9},
		DstRect:     media.NewRect(800, 600),
		AspectRatio: media.Size{Width: 16, Height: 9},
		AspectMode:  media.AspectLetterBox,
	}
	if err := p.PresentImage(req); err != nil {
		t.Fatalf("PresentImage: %v", err)
	}

	want := media.Rect{Left: 100, Top: 0, Right: 700, Bottom: 600}
	if dev.LastDst != want {
		t.Errorf("expected square crop pillarboxed into %+v, got %+v", want, dev.LastDst)
	}
	if dev.LastSrc != req.SrcRect {
		t.Errorf("expected source %+v, got %+v", req.SrcRect, dev.LastSrc)
	}
}

func TestPresentImageStretchDefaults(t *testing.T) {
	p, _, dev, surf := setup(t)

	if err := p.PresentImage(&ports.PresentationRequest{Surface: surf}); err != nil {
		t.Fatalf("PresentImage: %v", err)
	}
	if dev.LastSrc != media.NewRect(16, 9) {
		t.Errorf("expected full surface source, got %+v", dev.LastSrc)
	}
	if dev.LastDst != media.NewRect(16, 9) {
		t.Errorf("expected full back buffer destination, got %+v", dev.LastDst)
	}
}

func TestPresentImageDrawErrorsAreLogged(t *testing.T) {
	p, _, dev, surf := setup(t)
	dev.StretchRectFunc = func(ports.Buffer, media.Rect, media.Rect) error {
		return errors.New("blit failed")
	}
	dev.PresentFunc = func() error {
		return errors.New("present failed")
	}

	if err := p.PresentImage(&ports.PresentationRequest{Surface: surf}); err != nil {
		t.Errorf("expected draw failures to be swallowed, got %v", err)
	}
	if p.Presented() != 0 {
		t.Errorf("expected no presented frames, got %d", p.Presented())
	}
}

func TestPresentImageDeviceLost(t *testing.T) {
	p, holder, dev, surf := setup(t)
	dev.PresentFunc = func() error {
		return fmt.Errorf("flip: %w", media.ErrDeviceLost)
	}

	err := p.PresentImage(&ports.PresentationRequest{Surface: surf})
	if !errors.Is(err, media.ErrDeviceLost) {
		t.Fatalf("expected ErrDeviceLost, got %v", err)
	}
	if !holder.Lost() {
		t.Error("expected holder invalidated")
	}

	// subsequent presents are benign no-ops
	if err := p.PresentImage(&ports.PresentationRequest{Surface: surf}); err != nil {
		t.Errorf("expected no-op after loss, got %v", err)
	}
}

func TestPresentImageStaleSurface(t *testing.T) {
	p, holder, _, surf := setup(t)
	next := mocks.NewGraphicsDevice(16, 9)
	holder.SetDevice(next, 0)

	if err := p.PresentImage(&ports.PresentationRequest{Surface: surf}); err != nil {
		t.Errorf("expected stale surface to be ignored, got %v", err)
	}
	if next.DrawCalls() != 0 {
		t.Errorf("expected no draw calls on new device, got %d", next.DrawCalls())
	}
}

func TestPresentImageForeignSurface(t *testing.T) {
	p, _, _, _ := setup(t)
	foreign := &mocks.Surface{Buffer: mocks.NewBuffer(media.SurfaceDesc{Width: 1, Height: 1, Layout: media.LayoutRGB32, Pitch: 4})}
	if err := p.PresentImage(&ports.PresentationRequest{Surface: foreign}); err == nil {
		t.Error("expected error for foreign surface")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	p, _, _, _ := setup(t)
	for i := 0; i < 2; i++ {
		if err := p.StartPresenting(); err != nil {
			t.Fatalf("StartPresenting: %v", err)
		}
	}
	if !p.Presenting() {
		t.Error("expected presenting")
	}
	for i := 0; i < 2; i++ {
		if err := p.StopPresenting(); err != nil {
			t.Fatalf("StopPresenting: %v", err)
		}
	}
	if p.Presenting() {
		t.Error("expected stopped")
	}
}

func TestCurrentImage(t *testing.T) {
	p, holder, _, _ := setup(t)
	img, err := p.CurrentImage()
	if err != nil {
		t.Fatalf("CurrentImage: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("expected width 16, got %d", img.Bounds().Dx())
	}

	holder.Clear()
	if _, err := p.CurrentImage(); !errors.Is(err, media.ErrNoDevice) {
		t.Errorf("expected ErrNoDevice, got %v", err)
	}
}
