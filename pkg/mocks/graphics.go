package mocks

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// ErrOutOfMemory is returned by the mock device when MaxSurfaces is reached.
var ErrOutOfMemory = errors.New("mocks: out of video memory")

// Buffer is a mock implementation of ports.Buffer backed by a byte slice.
type Buffer struct {
	mu       sync.Mutex
	desc     media.SurfaceDesc
	Pix      []byte
	locked   bool
	released bool

	LockCount   int
	UnlockCount int

	LockFunc   func() (media.LockedRect, error)
	UnlockFunc func() error
}

// NewBuffer allocates a buffer large enough for the described surface.
func NewBuffer(desc media.SurfaceDesc) *Buffer {
	f := media.FormatDescriptor{Width: desc.Width, Height: desc.Height, Layout: desc.Layout}
	return &Buffer{desc: desc, Pix: make([]byte, media.FrameSize(f, desc.Pitch))}
}

func (m *Buffer) Desc() media.SurfaceDesc {
	return m.desc
}

func (m *Buffer) Lock() (media.LockedRect, error) {
	if m.LockFunc != nil {
		return m.LockFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		return media.LockedRect{}, errors.New("mocks: buffer already locked")
	}
	m.locked = true
	m.LockCount++
	return media.LockedRect{Pix: m.Pix, Pitch: m.desc.Pitch}, nil
}

func (m *Buffer) Unlock() error {
	if m.UnlockFunc != nil {
		return m.UnlockFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked = false
	m.UnlockCount++
	return nil
}

func (m *Buffer) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = true
}

// Released reports whether Release was called.
func (m *Buffer) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// Row returns the first n bytes of row y (for test verification).
func (m *Buffer) Row(y, n int) []byte {
	off := y * m.desc.Pitch
	return m.Pix[off : off+n]
}

var _ ports.Buffer = (*Buffer)(nil)

// GraphicsDevice is a mock implementation of ports.GraphicsDevice that
// counts draw calls.
type GraphicsDevice struct {
	mu sync.Mutex

	CapsValue  media.DeviceCaps
	BackBuffer media.Size
	Buffers    []*Buffer
	released   bool

	ClearCalls   int
	StretchCalls int
	PresentCalls int
	LastClear    color.Color
	LastSrc      media.Rect
	LastDst      media.Rect
	LastBuffer   ports.Buffer

	// PitchFunc overrides the pitch of created surfaces.
	PitchFunc         func(width int, layout media.PixelLayout) int
	CreateSurfaceFunc func(kind media.AllocationKind, width, height int, layout media.PixelLayout) (ports.Buffer, error)
	ClearFunc         func(c color.Color) error
	StretchRectFunc   func(src ports.Buffer, srcRect, dstRect media.Rect) error
	PresentFunc       func() error
}

// NewGraphicsDevice creates a mock device that can stretch from textures.
func NewGraphicsDevice(width, height int) *GraphicsDevice {
	return &GraphicsDevice{
		CapsValue:  media.DeviceCaps{StretchFromTextures: true},
		BackBuffer: media.Size{Width: width, Height: height},
	}
}

func (m *GraphicsDevice) Caps() media.DeviceCaps {
	return m.CapsValue
}

func (m *GraphicsDevice) CreateSurface(kind media.AllocationKind, width, height int, layout media.PixelLayout) (ports.Buffer, error) {
	if m.CreateSurfaceFunc != nil {
		return m.CreateSurfaceFunc(kind, width, height, layout)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit := m.CapsValue.MaxSurfaces; limit > 0 && m.liveLocked() >= limit {
		return nil, ErrOutOfMemory
	}

	pitch := media.SourceStride(media.FormatDescriptor{Width: width, Layout: layout})
	if m.PitchFunc != nil {
		pitch = m.PitchFunc(width, layout)
	}
	buf := NewBuffer(media.SurfaceDesc{Kind: kind, Width: width, Height: height, Layout: layout, Pitch: pitch})
	m.Buffers = append(m.Buffers, buf)
	return buf, nil
}

func (m *GraphicsDevice) liveLocked() int {
	n := 0
	for _, b := range m.Buffers {
		if !b.Released() {
			n++
		}
	}
	return n
}

// Live returns the number of surfaces not yet released.
func (m *GraphicsDevice) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveLocked()
}

func (m *GraphicsDevice) BackBufferSize() media.Size {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.BackBuffer
}

func (m *GraphicsDevice) ResizeBackBuffer(width, height int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BackBuffer = media.Size{Width: width, Height: height}
	return nil
}

func (m *GraphicsDevice) Clear(c color.Color) error {
	m.mu.Lock()
	m.ClearCalls++
	m.LastClear = c
	m.mu.Unlock()
	if m.ClearFunc != nil {
		return m.ClearFunc(c)
	}
	return nil
}

func (m *GraphicsDevice) StretchRect(src ports.Buffer, srcRect, dstRect media.Rect) error {
	m.mu.Lock()
	m.StretchCalls++
	m.LastBuffer = src
	m.LastSrc = srcRect
	m.LastDst = dstRect
	m.mu.Unlock()
	if m.StretchRectFunc != nil {
		return m.StretchRectFunc(src, srcRect, dstRect)
	}
	return nil
}

func (m *GraphicsDevice) Present() error {
	m.mu.Lock()
	m.PresentCalls++
	m.mu.Unlock()
	if m.PresentFunc != nil {
		return m.PresentFunc()
	}
	return nil
}

func (m *GraphicsDevice) ReadBackBuffer() (*image.RGBA, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return image.NewRGBA(image.Rect(0, 0, m.BackBuffer.Width, m.BackBuffer.Height)), nil
}

func (m *GraphicsDevice) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = true
}

// Released reports whether Release was called.
func (m *GraphicsDevice) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// DrawCalls returns the total number of clear, stretch and present calls.
func (m *GraphicsDevice) DrawCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ClearCalls + m.StretchCalls + m.PresentCalls
}

var _ ports.GraphicsDevice = (*GraphicsDevice)(nil)

// GraphicsSystem is a mock implementation of ports.GraphicsSystem.
type GraphicsSystem struct {
	mu sync.Mutex

	// Adapters maps adapter index to the monitor it drives.
	Adapters []media.MonitorID
	Devices  []*GraphicsDevice
	Adapter  []int

	// DeviceFunc customises newly created devices.
	DeviceFunc       func(adapter int, params media.DeviceParams) *GraphicsDevice
	CreateDeviceFunc func(adapter int, params media.DeviceParams) (ports.GraphicsDevice, error)
}

func (m *GraphicsSystem) AdapterCount() int {
	if len(m.Adapters) == 0 {
		return 1
	}
	return len(m.Adapters)
}

func (m *GraphicsSystem) AdapterMonitor(adapter int) media.MonitorID {
	if adapter < len(m.Adapters) {
		return m.Adapters[adapter]
	}
	return 0
}

func (m *GraphicsSystem) CreateDevice(adapter int, params media.DeviceParams) (ports.GraphicsDevice, error) {
	if m.CreateDeviceFunc != nil {
		return m.CreateDeviceFunc(adapter, params)
	}
	var dev *GraphicsDevice
	if m.DeviceFunc != nil {
		dev = m.DeviceFunc(adapter, params)
	} else {
		dev = NewGraphicsDevice(params.BackBufferWidth, params.BackBufferHeight)
	}
	m.mu.Lock()
	m.Devices = append(m.Devices, dev)
	m.Adapter = append(m.Adapter, adapter)
	m.mu.Unlock()
	return dev, nil
}

// LastDevice returns the most recently created device.
func (m *GraphicsSystem) LastDevice() *GraphicsDevice {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Devices) == 0 {
		return nil
	}
	return m.Devices[len(m.Devices)-1]
}

var _ ports.GraphicsSystem = (*GraphicsSystem)(nil)
