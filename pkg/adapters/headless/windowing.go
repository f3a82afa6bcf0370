// Package headless provides a virtual desktop for running the renderer
// without a window system.
package headless

import (
	"fmt"
	"sync"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// OutputWindow is the handle of the window created by New.
const OutputWindow media.WindowHandle = 1

// Windowing implements ports.Windowing over a fixed set of virtual windows
// placed on a virtual desktop.
type Windowing struct {
	mu       sync.RWMutex
	windows  map[media.WindowHandle]media.Rect
	next     media.WindowHandle
	monitors []media.MonitorInfo
}

// New creates a desktop with an output window of the given size at the
// origin. Without monitors a single primary monitor covering the window is
// assumed.
func New(width, height int, monitors []media.MonitorInfo) *Windowing {
	if len(monitors) == 0 {
		monitors = []media.MonitorInfo{{ID: 0, Name: "virtual-0", Bounds: media.NewRect(width, height), Primary: true}}
	}
	return &Windowing{
		windows:  map[media.WindowHandle]media.Rect{OutputWindow: media.NewRect(width, height)},
		next:     OutputWindow + 1,
		monitors: append([]media.MonitorInfo(nil), monitors...),
	}
}

// AddWindow places another window on the desktop and returns its handle.
func (w *Windowing) AddWindow(bounds media.Rect) media.WindowHandle {
	w.mu.Lock()
	defer w.mu.Unlock()
	h := w.next
	w.next++
	w.windows[h] = bounds
	return h
}

// MoveWindow changes the bounds of a window.
func (w *Windowing) MoveWindow(h media.WindowHandle, bounds media.Rect) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.windows[h]; !ok {
		return fmt.Errorf("headless: no window %d", h)
	}
	w.windows[h] = bounds
	return nil
}

func (w *Windowing) OutputWindow() (media.WindowHandle, bool) {
	return OutputWindow, true
}

// DestinationRect returns the client area of the output window.
func (w *Windowing) DestinationRect() media.Rect {
	r, _ := w.ClientRect(OutputWindow)
	return r
}

func (w *Windowing) ClientRect(h media.WindowHandle) (media.Rect, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.windows[h]
	if !ok {
		return media.Rect{}, fmt.Errorf("headless: no window %d", h)
	}
	return media.NewRect(b.Dx(), b.Dy()), nil
}

func (w *Windowing) IsWindow(h media.WindowHandle) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.windows[h]
	return ok
}

// MonitorFromWindow returns the monitor containing the window centre.
func (w *Windowing) MonitorFromWindow(h media.WindowHandle) (media.MonitorID, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.windows[h]
	if !ok {
		return 0, false
	}
	return media.MonitorAt(w.monitors, b.Left+b.Dx()/2, b.Top+b.Dy()/2)
}

func (w *Windowing) Monitors() ([]media.MonitorInfo, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]media.MonitorInfo(nil), w.monitors...), nil
}

var _ ports.Windowing = (*Windowing)(nil)
