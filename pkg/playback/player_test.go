package playback

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/user/vidrender/pkg/adapters/logger"
	"github.com/user/vidrender/pkg/adapters/softgpu"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/mocks"
	"github.com/user/vidrender/pkg/renderer"
)

var rgb32 = media.FormatDescriptor{Width: 4, Height: 2, Layout: media.LayoutRGB32}

func frames(n int, step time.Duration) []*media.FrameSample {
	size := media.FrameSize(rgb32, media.SourceStride(rgb32))
	out := make([]*media.FrameSample, n)
	for i := range out {
		out[i] = &media.FrameSample{
			Data:    make([]byte, size),
			Start:   time.Duration(i) * step,
			End:     time.Duration(i+1) * step,
			HasTime: true,
		}
	}
	return out
}

func setup(opts Options) (*Player, *renderer.Renderer, *softgpu.System, *mocks.Display) {
	display := &mocks.Display{}
	sys := softgpu.NewSystem(softgpu.Config{Caps: softgpu.DefaultCaps()}, display, logger.NewNoop())
	r := renderer.New(sys, mocks.NewWindowing(8, 4), logger.NewNoop(), renderer.DefaultOptions())
	return New(r, logger.NewNoop(), opts), r, sys, display
}

func TestPlayer_Run(t *testing.T) {
	p, r, _, display := setup(Options{Name: "clip.mp4", Settings: Settings{Mode: "windowed", Buffers: 1}})
	src := &mocks.FrameSource{Fmt: rgb32, Samples: frames(3, 40*time.Millisecond)}

	summary, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Frames.Read != 3 || summary.Frames.Rendered != 3 || summary.Frames.Presented != 3 {
		t.Errorf("expected 3 frames read, rendered and presented, got %+v", summary.Frames)
	}
	if summary.Frames.Bytes != 3*32 {
		t.Errorf("expected 96 bytes, got %d", summary.Frames.Bytes)
	}
	if summary.Timing.MediaMs != 120 {
		t.Errorf("expected 120 ms of media, got %d", summary.Timing.MediaMs)
	}
	if summary.Source.Name != "clip.mp4" || summary.Source.Format != rgb32 {
		t.Errorf("unexpected source info: %+v", summary.Source)
	}
	if summary.Settings.Mode != "windowed" {
		t.Errorf("expected settings to be copied, got %+v", summary.Settings)
	}
	if display.Count() != 3 {
		t.Errorf("expected 3 flips, got %d", display.Count())
	}
	if r.State() != renderer.StateUnconnected {
		t.Errorf("expected renderer to be disconnected, got %v", r.State())
	}
}

func TestPlayer_DropsShortSamples(t *testing.T) {
	p, _, _, display := setup(Options{})
	samples := frames(3, 0)
	samples[1].Data = samples[1].Data[:5]
	src := &mocks.FrameSource{Fmt: rgb32, Samples: samples}

	summary, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Frames.Dropped != 1 || summary.Frames.Presented != 2 {
		t.Errorf("expected 1 dropped and 2 presented, got %+v", summary.Frames)
	}
	if display.Count() != 2 {
		t.Errorf("expected 2 flips, got %d", display.Count())
	}
}

func TestPlayer_RestoresLostDevice(t *testing.T) {
	p, _, sys, display := setup(Options{})
	samples := frames(3, 0)
	i := 0
	src := &mocks.FrameSource{Fmt: rgb32}
	src.NextFunc = func(ctx context.Context) (*media.FrameSample, error) {
		if i == len(samples) {
			return nil, io.EOF
		}
		if i == 1 {
			sys.LoseDevices()
		}
		s := samples[i]
		i++
		return s, nil
	}

	summary, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Frames.DeviceLosses != 1 || summary.Frames.Restores != 1 {
		t.Errorf("expected 1 loss and 1 restore, got %+v", summary.Frames)
	}
	if summary.Frames.Presented != 2 || display.Count() != 2 {
		t.Errorf("expected frames 1 and 3 presented, got %+v (%d flips)", summary.Frames, display.Count())
	}
	if devices := sys.Devices(); len(devices) != 2 {
		t.Errorf("expected a second device after restore, got %d", len(devices))
	}
}

func TestPlayer_RealtimePacing(t *testing.T) {
	p, _, _, _ := setup(Options{Realtime: true})
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var slept []time.Duration
	p.now = func() time.Time { return clock }
	p.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		clock = clock.Add(d)
		return nil
	}

	samples := frames(4, 40*time.Millisecond)
	// restart the media clock on the last frame
	samples[3].Start = 0
	samples[3].Flags = media.SampleDiscontinuity
	src := &mocks.FrameSource{Fmt: rgb32, Samples: samples}

	summary, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []time.Duration{40 * time.Millisecond, 40 * time.Millisecond}
	if len(slept) != len(want) || slept[0] != want[0] || slept[1] != want[1] {
		t.Errorf("expected sleeps %v, got %v", want, slept)
	}
	if summary.Timing.WallMs != 80 {
		t.Errorf("expected 80 ms wall clock, got %d", summary.Timing.WallMs)
	}
}

func TestPlayer_MaxFrames(t *testing.T) {
	p, _, _, _ := setup(Options{MaxFrames: 2})
	src := &mocks.FrameSource{Fmt: rgb32, Samples: frames(5, 0)}

	summary, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Frames.Read != 2 {
		t.Errorf("expected 2 frames, got %d", summary.Frames.Read)
	}
}

func TestPlayer_Cancelled(t *testing.T) {
	p, r, _, _ := setup(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &mocks.FrameSource{Fmt: rgb32, Samples: frames(2, 0)}

	summary, err := p.Run(ctx, src)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary == nil || !summary.Timing.Interrupted {
		t.Errorf("expected an interrupted summary, got %+v", summary)
	}
	if r.State() != renderer.StateUnconnected {
		t.Errorf("expected renderer to be disconnected, got %v", r.State())
	}
}

func TestPlayer_RejectedFormat(t *testing.T) {
	p, _, _, _ := setup(Options{})
	src := &mocks.FrameSource{Fmt: media.FormatDescriptor{}}

	summary, err := p.Run(context.Background(), src)
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if summary != nil {
		t.Errorf("expected no summary, got %+v", summary)
	}
}
