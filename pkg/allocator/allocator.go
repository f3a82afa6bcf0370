package allocator

import (
	"fmt"
	"sync"

	"github.com/user/vidrender/pkg/device"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// Allocator is the default surface allocator. It creates a device on the
// adapter showing the target window and publishes it through a Holder
// shared with the default presenter.
type Allocator struct {
	mu        sync.Mutex
	gs        ports.GraphicsSystem
	windowing ports.Windowing
	holder    *device.Holder
	logger    ports.Logger

	window   media.WindowHandle
	windowed bool

	desired  media.AllocationInfo
	count    int
	accepted media.AllocationInfo
	surfaces []*device.Surface
}

var (
	_ ports.SurfaceAllocator = (*Allocator)(nil)
	_ ports.WindowTarget     = (*Allocator)(nil)
	_ ports.Recreator        = (*Allocator)(nil)
)

// New creates a default allocator.
func New(gs ports.GraphicsSystem, windowing ports.Windowing, holder *device.Holder, logger ports.Logger) *Allocator {
	return &Allocator{
		gs:        gs,
		windowing: windowing,
		holder:    holder,
		logger:    logger.WithComponent("allocator"),
		windowed:  true,
	}
}

// SetTargetWindow sets the window the device is created for.
func (a *Allocator) SetTargetWindow(w media.WindowHandle, windowed bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.window = w
	a.windowed = windowed
}

// Negotiate creates a device sized to the video and allocates count
// surfaces on it. Any previous allocation is released first.
func (a *Allocator) Negotiate(info media.AllocationInfo, count int) (media.AllocationInfo, int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.terminateLocked()
	a.desired = info
	a.count = count
	return a.negotiateLocked()
}

func (a *Allocator) negotiateLocked() (media.AllocationInfo, int, error) {
	info, count := a.desired, a.count

	adapter, monitor := device.SelectAdapter(a.gs, a.windowing, a.window)
	dev, err := a.gs.CreateDevice(adapter, media.DeviceParams{
		Window:           a.window,
		Windowed:         a.windowed,
		BackBufferWidth:  info.Width,
		BackBufferHeight: info.Height,
	})
	if err != nil {
		return media.AllocationInfo{}, 0, fmt.Errorf("%w: create device on adapter %d: %w", media.ErrNegotiation, adapter, err)
	}

	caps := dev.Caps()
	if !caps.StretchFromTextures {
		dev.Release()
		return media.AllocationInfo{}, 0, fmt.Errorf("%w: %w: cannot stretch from textures", media.ErrNegotiation, media.ErrCapsNotSuitable)
	}

	accepted, err := Plan(info, count, caps)
	if err != nil {
		dev.Release()
		return media.AllocationInfo{}, 0, err
	}

	handle := a.holder.SetDevice(dev, monitor)
	surfaces, err := Allocate(a.holder, handle, accepted, count, a.logger)
	if err != nil {
		a.holder.Clear()
		return media.AllocationInfo{}, 0, err
	}

	a.accepted = accepted
	a.surfaces = surfaces
	a.logger.Debug("Allocated %d %s surfaces %dx%d on adapter %d", len(surfaces), accepted.Kind, accepted.Width, accepted.Height, adapter)
	return accepted, len(surfaces), nil
}

// Recreate re-runs the last negotiation against a fresh device, typically
// after the previous device was lost.
func (a *Allocator) Recreate() (media.AllocationInfo, int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.count == 0 {
		return media.AllocationInfo{}, 0, fmt.Errorf("allocator: recreate: %w", media.ErrNotReady)
	}
	a.terminateLocked()
	return a.negotiateLocked()
}

// GetSurface returns surface i of the current allocation.
func (a *Allocator) GetSurface(i int) (ports.Surface, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.surfaces) == 0 {
		return nil, fmt.Errorf("allocator: get surface %d: %w", i, media.ErrNoDevice)
	}
	if i < 0 || i >= len(a.surfaces) {
		return nil, fmt.Errorf("allocator: surface index %d out of range [0,%d)", i, len(a.surfaces))
	}
	return a.surfaces[i], nil
}

// Accepted returns the allocation accepted by the last negotiation.
func (a *Allocator) Accepted() media.AllocationInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accepted
}

// TerminateDevice releases every surface, then the device.
func (a *Allocator) TerminateDevice() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.terminateLocked()
	return nil
}

func (a *Allocator) terminateLocked() {
	for _, s := range a.surfaces {
		s.Release()
	}
	a.surfaces = nil
	a.accepted = media.AllocationInfo{}
	a.holder.Clear()
}
