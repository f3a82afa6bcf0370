package mocks

import (
	"sync"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// Surface is a mock implementation of ports.Surface backed by a Buffer.
type Surface struct {
	*Buffer
}

var _ ports.Surface = (*Surface)(nil)

// AllocatorPresenter is a mock implementation of ports.AllocatorPresenter.
// By default it negotiates the requested count of in-memory surfaces and
// records every presentation request.
type AllocatorPresenter struct {
	mu       sync.Mutex
	Surfaces []*Surface
	Requests []ports.PresentationRequest

	NegotiateCalls int
	TerminateCalls int
	StartCalls     int
	StopCalls      int

	NegotiateFunc    func(info media.AllocationInfo, count int) (media.AllocationInfo, int, error)
	GetSurfaceFunc   func(i int) (ports.Surface, error)
	PresentImageFunc func(req *ports.PresentationRequest) error
}

func (m *AllocatorPresenter) Negotiate(info media.AllocationInfo, count int) (media.AllocationInfo, int, error) {
	m.mu.Lock()
	m.NegotiateCalls++
	m.mu.Unlock()
	if m.NegotiateFunc != nil {
		return m.NegotiateFunc(info, count)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Surfaces = nil
	pitch := media.SourceStride(media.FormatDescriptor{Width: info.Width, Layout: info.Layout})
	for i := 0; i < count; i++ {
		buf := NewBuffer(media.SurfaceDesc{Kind: info.Kind, Width: info.Width, Height: info.Height, Layout: info.Layout, Pitch: pitch})
		m.Surfaces = append(m.Surfaces, &Surface{Buffer: buf})
	}
	return info, count, nil
}

func (m *AllocatorPresenter) GetSurface(i int) (ports.Surface, error) {
	if m.GetSurfaceFunc != nil {
		return m.GetSurfaceFunc(i)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.Surfaces) {
		return nil, media.ErrNoDevice
	}
	return m.Surfaces[i], nil
}

func (m *AllocatorPresenter) TerminateDevice() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TerminateCalls++
	m.Surfaces = nil
	return nil
}

func (m *AllocatorPresenter) StartPresenting() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalls++
	return nil
}

func (m *AllocatorPresenter) StopPresenting() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCalls++
	return nil
}

func (m *AllocatorPresenter) PresentImage(req *ports.PresentationRequest) error {
	m.mu.Lock()
	m.Requests = append(m.Requests, *req)
	m.mu.Unlock()
	if m.PresentImageFunc != nil {
		return m.PresentImageFunc(req)
	}
	return nil
}

// Presented returns the surfaces of recorded requests in order.
func (m *AllocatorPresenter) Presented() []ports.Surface {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.Surface, len(m.Requests))
	for i, r := range m.Requests {
		out[i] = r.Surface
	}
	return out
}

var _ ports.AllocatorPresenter = (*AllocatorPresenter)(nil)

// RecreatingAllocatorPresenter is an AllocatorPresenter that also implements
// ports.Recreator by re-running its last negotiation.
type RecreatingAllocatorPresenter struct {
	*AllocatorPresenter

	RecreateCalls int
	RecreateFunc  func() (media.AllocationInfo, int, error)

	lastInfo  media.AllocationInfo
	lastCount int
}

func NewRecreatingAllocatorPresenter() *RecreatingAllocatorPresenter {
	return &RecreatingAllocatorPresenter{AllocatorPresenter: &AllocatorPresenter{}}
}

func (m *RecreatingAllocatorPresenter) Negotiate(info media.AllocationInfo, count int) (media.AllocationInfo, int, error) {
	m.lastInfo, m.lastCount = info, count
	return m.AllocatorPresenter.Negotiate(info, count)
}

func (m *RecreatingAllocatorPresenter) Recreate() (media.AllocationInfo, int, error) {
	m.RecreateCalls++
	if m.RecreateFunc != nil {
		return m.RecreateFunc()
	}
	return m.AllocatorPresenter.Negotiate(m.lastInfo, m.lastCount)
}

var _ ports.Recreator = (*RecreatingAllocatorPresenter)(nil)
