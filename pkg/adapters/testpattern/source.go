// Package testpattern generates colour bar frames in any supported layout.
package testpattern

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"
	"time"

	"github.com/fogleman/gg"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/pixconv"
	"github.com/user/vidrender/pkg/ports"
)

// Bars are the colours of the pattern from left to right.
var Bars = []color.RGBA{
	{R: 235, G: 235, B: 235, A: 255},
	{R: 235, G: 235, B: 16, A: 255},
	{R: 16, G: 235, B: 235, A: 255},
	{R: 16, G: 235, B: 16, A: 255},
	{R: 235, G: 16, B: 235, A: 255},
	{R: 235, G: 16, B: 16, A: 255},
	{R: 16, G: 16, B: 235, A: 255},
}

// Marker is the colour of the block that moves along the bottom edge.
var Marker = color.RGBA{R: 16, G: 16, B: 16, A: 255}

// Source implements ports.FrameSource with colour bars and a marker block
// that advances every frame.
type Source struct {
	format media.FormatDescriptor
	fps    int
	count  int

	mu     sync.Mutex
	n      int
	closed bool
}

// New creates a Source of count frames at fps. A count of zero never ends.
func New(f media.FormatDescriptor, fps, count int) (*Source, error) {
	if !f.Layout.Valid() || f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("testpattern: invalid format %s", f)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("testpattern: invalid frame rate %d", fps)
	}
	return &Source{format: f, fps: fps, count: count}, nil
}

func (s *Source) Format() media.FormatDescriptor {
	return s.format
}

// Next renders the next frame.
func (s *Source) Next(ctx context.Context) (*media.FrameSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("testpattern: source closed")
	}
	if s.count > 0 && s.n >= s.count {
		s.mu.Unlock()
		return nil, io.EOF
	}
	n := s.n
	s.n++
	s.mu.Unlock()

	data, err := pixconv.FromRGBA(Frame(s.format.Width, s.format.Height, n), s.format)
	if err != nil {
		return nil, err
	}

	start := time.Duration(n) * time.Second / time.Duration(s.fps)
	out := &media.FrameSample{
		Data:    data,
		Start:   start,
		End:     time.Duration(n+1) * time.Second / time.Duration(s.fps),
		HasTime: true,
		Flags:   media.SampleSyncPoint,
	}
	if n == 0 {
		out.Flags |= media.SampleDiscontinuity
	}
	return out, nil
}

func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Frame draws frame n of the pattern: vertical bars over the top three
// quarters and a marker block moving along the bottom quarter.
func Frame(width, height, n int) *image.RGBA {
	dc := gg.NewContext(width, height)
	dc.SetColor(color.Black)
	dc.Clear()

	barsHeight := height * 3 / 4
	if barsHeight == 0 {
		barsHeight = height
	}
	for i, c := range Bars {
		x0 := i * width / len(Bars)
		x1 := (i + 1) * width / len(Bars)
		dc.SetColor(c)
		dc.DrawRectangle(float64(x0), 0, float64(x1-x0), float64(barsHeight))
		dc.Fill()
	}

	if barsHeight < height {
		size := height - barsHeight
		x := (n * size) % width
		dc.SetColor(Marker)
		dc.DrawRectangle(float64(x), float64(barsHeight), float64(size), float64(size))
		dc.Fill()
	}
	return dc.Image().(*image.RGBA)
}

var _ ports.FrameSource = (*Source)(nil)
