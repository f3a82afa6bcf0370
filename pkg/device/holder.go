// Package device holds the active GPU device and the surfaces created on it.
//
// Surfaces are kept in an index arena owned by the Holder. Callers refer to
// them by SurfaceHandle, which carries the device generation it was created
// under; replacing or invalidating the device bumps the generation so every
// outstanding handle becomes stale at once.
package device

import (
	"fmt"
	"sync"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// Handle is a snapshot of the current device.
type Handle struct {
	Device     ports.GraphicsDevice
	Generation uint64
	Monitor    media.MonitorID
}

// Valid reports whether the snapshot refers to a usable device.
func (h Handle) Valid() bool {
	return h.Device != nil
}

// SurfaceHandle refers to a surface in the holder's arena.
type SurfaceHandle struct {
	Index      int
	Generation uint64
}

type slot struct {
	buf ports.Buffer
	gen uint64
}

// Holder owns at most one device and every surface created against it.
type Holder struct {
	mu      sync.RWMutex
	dev     ports.GraphicsDevice
	monitor media.MonitorID
	gen     uint64
	lost    bool
	slots   []slot
	free    []int
	logger  ports.Logger
}

// NewHolder creates an empty holder.
func NewHolder(logger ports.Logger) *Holder {
	return &Holder{logger: logger.WithComponent("device")}
}

// SetDevice replaces the current device. The previous device and all of
// its surfaces are released before the new one is published.
func (h *Holder) SetDevice(dev ports.GraphicsDevice, monitor media.MonitorID) Handle {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropLocked()
	h.dev = dev
	h.monitor = monitor
	h.lost = false
	h.logger.Debug("Device generation %d on monitor %d", h.gen, monitor)
	return Handle{Device: dev, Generation: h.gen, Monitor: monitor}
}

// Current returns a snapshot of the device. The snapshot is invalid when
// no device is held or the device was lost.
func (h *Holder) Current() Handle {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.dev == nil {
		return Handle{Generation: h.gen}
	}
	return Handle{Device: h.dev, Generation: h.gen, Monitor: h.monitor}
}

// Invalidate marks the device as lost and releases it with its surfaces.
func (h *Holder) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.dev == nil {
		return
	}
	h.dropLocked()
	h.lost = true
	h.logger.Warn("Device lost, surfaces invalidated")
}

// Lost reports whether the last device was lost and not yet replaced.
func (h *Holder) Lost() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lost
}

// Clear releases the device and all surfaces.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked()
	h.lost = false
}

// dropLocked releases surfaces strictly before the device they belong to.
func (h *Holder) dropLocked() {
	released := 0
	for i := range h.slots {
		if h.slots[i].buf != nil {
			h.slots[i].buf.Release()
			released++
		}
	}
	h.slots = h.slots[:0]
	h.free = h.free[:0]
	if h.dev != nil {
		h.dev.Release()
		h.dev = nil
	}
	h.gen++
	if released > 0 {
		h.logger.Debug("Released %d surfaces", released)
	}
}

// Alloc stores a buffer created on the device of generation gen.
// If the device changed since, the buffer is not stored and ErrDeviceLost
// is returned; the caller still owns the buffer.
func (h *Holder) Alloc(gen uint64, buf ports.Buffer) (SurfaceHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.dev == nil || gen != h.gen {
		return SurfaceHandle{}, fmt.Errorf("device: alloc for generation %d: %w", gen, media.ErrDeviceLost)
	}

	var idx int
	if n := len(h.free); n > 0 {
		idx = h.free[n-1]
		h.free = h.free[:n-1]
		h.slots[idx] = slot{buf: buf, gen: gen}
	} else {
		idx = len(h.slots)
		h.slots = append(h.slots, slot{buf: buf, gen: gen})
	}
	return SurfaceHandle{Index: idx, Generation: gen}, nil
}

// Lookup resolves a handle. Stale handles yield ErrDeviceLost.
func (h *Holder) Lookup(sh SurfaceHandle) (ports.Buffer, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lookupLocked(sh)
}

func (h *Holder) lookupLocked(sh SurfaceHandle) (ports.Buffer, error) {
	if sh.Generation != h.gen || h.dev == nil {
		return nil, fmt.Errorf("device: surface %d of generation %d: %w", sh.Index, sh.Generation, media.ErrDeviceLost)
	}
	if sh.Index < 0 || sh.Index >= len(h.slots) || h.slots[sh.Index].buf == nil {
		return nil, fmt.Errorf("device: no surface at index %d", sh.Index)
	}
	return h.slots[sh.Index].buf, nil
}

// Release frees one surface. Releasing a stale handle is a no-op.
func (h *Holder) Release(sh SurfaceHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf, err := h.lookupLocked(sh)
	if err != nil {
		return
	}
	buf.Release()
	h.slots[sh.Index] = slot{}
	h.free = append(h.free, sh.Index)
}

// Live returns the number of surfaces currently held.
func (h *Holder) Live() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, s := range h.slots {
		if s.buf != nil {
			n++
		}
	}
	return n
}
