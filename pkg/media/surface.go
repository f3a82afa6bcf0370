package media

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// AllocationKind is the kind of surface an allocation asks for.
// Texture and offscreen surfaces are mutually exclusive.
type AllocationKind uint32

const (
	AllocTexture AllocationKind = 1 << iota
	AllocOffscreen
	AllocRenderTarget
)

func (k AllocationKind) String() string {
	switch {
	case k&AllocTexture != 0 && k&AllocOffscreen != 0:
		return "texture|offscreen"
	case k&AllocTexture != 0:
		return "texture"
	case k&AllocOffscreen != 0:
		return "offscreen"
	case k&AllocRenderTarget != 0:
		return "render-target"
	default:
		return "none"
	}
}

// Size is a width and height in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// AllocationInfo describes a requested or accepted surface allocation.
// Width and Height may be padded by negotiation; NativeSize keeps the
// logical content size.
type AllocationInfo struct {
	Kind          AllocationKind
	Width         int
	Height        int
	Layout        PixelLayout
	TextureFormat gputypes.TextureFormat
	MinBuffers    int
	NativeSize    Size
	AspectRatio   Size
}

// TextureFormatFor returns the GPU texture format used for texture-backed
// surfaces of the layout, or TextureFormatUndefined for layouts that are
// kept in offscreen surfaces.
func TextureFormatFor(l PixelLayout) gputypes.TextureFormat {
	switch l {
	case LayoutRGB32:
		return gputypes.TextureFormatBGRA8Unorm
	case LayoutRGB24:
		return gputypes.TextureFormatRGBA8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}

// SurfaceDesc describes a created surface.
type SurfaceDesc struct {
	Kind   AllocationKind
	Width  int
	Height int
	Layout PixelLayout
	Pitch  int
}

// LockedRect is the writable view of a locked surface.
type LockedRect struct {
	Pix   []byte
	Pitch int
}

// DeviceCaps are the constraints a device places on surfaces.
type DeviceCaps struct {
	Pow2Textures        bool
	SquareOnlyTextures  bool
	StretchFromTextures bool
	MaxSurfaces         int
	PitchAlign          int
}

// DeviceParams configure device creation.
type DeviceParams struct {
	Window           WindowHandle
	Windowed         bool
	BackBufferWidth  int
	BackBufferHeight int
}

// WindowHandle identifies an output window.
type WindowHandle uint32

// MonitorID identifies a physical monitor.
type MonitorID int

// MonitorInfo describes one monitor.
type MonitorInfo struct {
	ID      MonitorID
	Name    string
	Bounds  Rect
	Primary bool
}

// MonitorAt returns the monitor whose bounds contain the point.
func MonitorAt(monitors []MonitorInfo, x, y int) (MonitorID, bool) {
	for _, m := range monitors {
		r := m.Bounds
		if x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom {
			return m.ID, true
		}
	}
	return 0, false
}
