package mp4source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/mocks"
)

func rawFrames(f media.FormatDescriptor, n int) [][]byte {
	size := media.FrameSize(f, media.SourceStride(f))
	frames := make([][]byte, n)
	for i := range frames {
		frames[i] = bytes.Repeat([]byte{byte(i + 1)}, size)
	}
	return frames
}

func TestWriteRawDecode(t *testing.T) {
	for _, layout := range media.Layouts {
		t.Run(layout.String(), func(t *testing.T) {
			f := media.FormatDescriptor{Width: 6, Height: 4, Layout: layout}
			frames := rawFrames(f, 3)

			var buf bytes.Buffer
			if err := WriteRaw(&buf, f, 25, frames); err != nil {
				t.Fatalf("WriteRaw failed: %v", err)
			}

			src, err := Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got := src.Format(); got != f {
				t.Errorf("format: expected %v, got %v", f, got)
			}
			if src.Len() != 3 {
				t.Fatalf("expected 3 frames, got %d", src.Len())
			}

			ctx := context.Background()
			for i := 0; i < 3; i++ {
				s, err := src.Next(ctx)
				if err != nil {
					t.Fatalf("Next %d failed: %v", i, err)
				}
				if !bytes.Equal(s.Data, frames[i]) {
					t.Errorf("frame %d: data mismatch", i)
				}
				wantStart := time.Duration(i) * 40 * time.Millisecond
				if s.Start != wantStart || !s.HasTime {
					t.Errorf("frame %d: expected start %v, got %v", i, wantStart, s.Start)
				}
				if s.End-s.Start != 40*time.Millisecond {
					t.Errorf("frame %d: expected duration 40ms, got %v", i, s.End-s.Start)
				}
				if s.Flags&media.SampleSyncPoint == 0 {
					t.Errorf("frame %d: expected sync point", i)
				}
				if (i == 0) != (s.Flags&media.SampleDiscontinuity != 0) {
					t.Errorf("frame %d: unexpected discontinuity flag %v", i, s.Flags)
				}
			}
			if _, err := src.Next(ctx); err != io.EOF {
				t.Errorf("expected io.EOF, got %v", err)
			}
		})
	}
}

func TestOpenThroughFileSystem(t *testing.T) {
	f := media.FormatDescriptor{Width: 2, Height: 2, Layout: media.LayoutRGB32}
	var buf bytes.Buffer
	if err := WriteRaw(&buf, f, 25, rawFrames(f, 1)); err != nil {
		t.Fatalf("WriteRaw failed: %v", err)
	}

	fs := mocks.NewFileSystem()
	fs.WriteFile("clip.mp4", buf.Bytes())

	src, err := Open(fs, "clip.mp4")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if src.Len() != 1 {
		t.Errorf("expected 1 frame, got %d", src.Len())
	}

	if _, err := Open(fs, "missing.mp4"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSourceLoop(t *testing.T) {
	f := media.FormatDescriptor{Width: 2, Height: 2, Layout: media.LayoutYUY2}
	var buf bytes.Buffer
	WriteRaw(&buf, f, 10, rawFrames(f, 2))
	src, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	src.SetLoop(true)

	ctx := context.Background()
	var firsts []byte
	for i := 0; i < 5; i++ {
		s, err := src.Next(ctx)
		if err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
		firsts = append(firsts, s.Data[0])
	}
	if !bytes.Equal(firsts, []byte{1, 2, 1, 2, 1}) {
		t.Errorf("expected looping frames 1,2,1,2,1, got %v", firsts)
	}
}

func TestSourceCancelAndClose(t *testing.T) {
	f := media.FormatDescriptor{Width: 2, Height: 2, Layout: media.LayoutRGB24}
	var buf bytes.Buffer
	WriteRaw(&buf, f, 10, rawFrames(f, 2))
	src, _ := Decode(buf.Bytes())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	src.Close()
	if _, err := src.Next(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestWriteRawErrors(t *testing.T) {
	good := media.FormatDescriptor{Width: 2, Height: 2, Layout: media.LayoutRGB32}
	tests := []struct {
		name   string
		f      media.FormatDescriptor
		fps    int
		frames [][]byte
	}{
		{"unknown layout", media.FormatDescriptor{Width: 2, Height: 2}, 30, rawFrames(good, 1)},
		{"bottom-up", media.FormatDescriptor{Width: 2, Height: 2, Layout: media.LayoutRGB32, Orientation: media.BottomUp}, 30, rawFrames(good, 1)},
		{"zero fps", good, 0, rawFrames(good, 1)},
		{"no frames", good, 30, nil},
		{"short frame", good, 30, [][]byte{make([]byte, 3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := WriteRaw(io.Discard, tt.f, tt.fps, tt.frames); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an mp4 file")); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestFourCC(t *testing.T) {
	for _, l := range media.Layouts {
		cc, ok := FourCC(l)
		if !ok || len(cc) != 4 {
			t.Errorf("%s: expected 4-byte fourcc, got %q", l, cc)
			continue
		}
		if back, _ := LayoutOf(cc); back != l {
			t.Errorf("%s: round trip gave %s", l, back)
		}
	}
	if _, ok := LayoutOf("avc1"); ok {
		t.Error("avc1 must not map to a raw layout")
	}
}
