package ports

import (
	"image"
	"image/color"

	"github.com/user/vidrender/pkg/media"
)

// GraphicsSystem enumerates adapters and creates devices on them.
type GraphicsSystem interface {
	// AdapterCount returns the number of adapters.
	AdapterCount() int

	// AdapterMonitor returns the monitor driven by an adapter.
	AdapterMonitor(adapter int) media.MonitorID

	// CreateDevice creates a device on the adapter with a back buffer of the requested size.
	CreateDevice(adapter int, params media.DeviceParams) (GraphicsDevice, error)
}

// GraphicsDevice is a GPU device with a single back buffer.
// Any method may return an error wrapping media.ErrDeviceLost once the
// device has been lost; the device must then be released and recreated.
type GraphicsDevice interface {
	Caps() media.DeviceCaps

	// CreateSurface creates a lockable surface.
	CreateSurface(kind media.AllocationKind, width, height int, layout media.PixelLayout) (Buffer, error)

	BackBufferSize() media.Size
	ResizeBackBuffer(width, height int) error

	// Clear fills the whole back buffer.
	Clear(c color.Color) error

	// StretchRect copies srcRect of a surface into dstRect of the back buffer
	// using point filtering.
	StretchRect(src Buffer, srcRect, dstRect media.Rect) error

	// Present flips the back buffer to the output. It may block on vertical sync.
	Present() error

	// ReadBackBuffer returns a copy of the back buffer.
	ReadBackBuffer() (*image.RGBA, error)

	Release()
}

// Buffer is device memory backing one surface.
type Buffer interface {
	Desc() media.SurfaceDesc
	Lock() (media.LockedRect, error)
	Unlock() error
	Release()
}
