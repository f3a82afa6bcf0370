package mocks

import (
	"context"
	"image"
	"io"
	"sync"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// Display is a mock implementation of ports.Display that keeps copies of flipped frames.
type Display struct {
	mu     sync.Mutex
	Frames []*image.RGBA
	Closed bool

	FlipFunc func(img *image.RGBA) error
}

func (m *Display) Flip(img *image.RGBA) error {
	if m.FlipFunc != nil {
		return m.FlipFunc(img)
	}
	cp := image.NewRGBA(img.Bounds())
	copy(cp.Pix, img.Pix)
	m.mu.Lock()
	m.Frames = append(m.Frames, cp)
	m.mu.Unlock()
	return nil
}

func (m *Display) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Count returns the number of flipped frames.
func (m *Display) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Frames)
}

var _ ports.Display = (*Display)(nil)

// FrameSource is a mock implementation of ports.FrameSource replaying fixed samples.
type FrameSource struct {
	Fmt     media.FormatDescriptor
	Samples []*media.FrameSample
	next    int
	Closed  bool

	NextFunc func(ctx context.Context) (*media.FrameSample, error)
}

func (m *FrameSource) Format() media.FormatDescriptor {
	return m.Fmt
}

func (m *FrameSource) Next(ctx context.Context) (*media.FrameSample, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.next >= len(m.Samples) {
		return nil, io.EOF
	}
	s := m.Samples[m.next]
	m.next++
	return s, nil
}

func (m *FrameSource) Close() error {
	m.Closed = true
	return nil
}

var _ ports.FrameSource = (*FrameSource)(nil)
