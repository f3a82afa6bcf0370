package softgpu

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/pixconv"
	"github.com/user/vidrender/pkg/ports"
)

// ErrOutOfMemory is returned when the surface limit is reached.
var ErrOutOfMemory = errors.New("softgpu: out of video memory")

// ErrReleased is returned by operations on a released device or buffer.
var ErrReleased = errors.New("softgpu: released")

// Device implements ports.GraphicsDevice.
type Device struct {
	sys     *System
	adapter int
	params  media.DeviceParams

	mu       sync.Mutex
	dc       *gg.Context
	buffers  map[*Buffer]struct{}
	lost     bool
	released bool
	presents int
}

func newDevice(sys *System, adapter int, params media.DeviceParams) *Device {
	return &Device{
		sys:     sys,
		adapter: adapter,
		params:  params,
		dc:      gg.NewContext(params.BackBufferWidth, params.BackBufferHeight),
		buffers: make(map[*Buffer]struct{}),
	}
}

// Adapter returns the adapter index the device was created on.
func (d *Device) Adapter() int {
	return d.adapter
}

func (d *Device) Caps() media.DeviceCaps {
	return d.sys.cfg.Caps
}

// CreateSurface allocates a surface whose pitch is the row size rounded up
// to the pitch alignment.
func (d *Device) CreateSurface(kind media.AllocationKind, width, height int, layout media.PixelLayout) (ports.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usableLocked(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || !layout.Valid() {
		return nil, fmt.Errorf("softgpu: invalid surface %dx%d %s", width, height, layout)
	}
	caps := d.sys.cfg.Caps
	if kind&media.AllocTexture != 0 && caps.Pow2Textures && (!isPow2(width) || !isPow2(height)) {
		return nil, fmt.Errorf("softgpu: texture %dx%d is not a power of two", width, height)
	}
	if limit := caps.MaxSurfaces; limit > 0 && len(d.buffers) >= limit {
		return nil, ErrOutOfMemory
	}

	f := media.FormatDescriptor{Width: width, Height: height, Layout: layout}
	pitch := alignUp(media.RowBytes(f), caps.PitchAlign)
	if layout.IsPlanar() {
		// chroma planes use half the pitch, keep it even
		pitch = alignUp(pitch, 2)
	}
	b := &Buffer{
		dev:  d,
		desc: media.SurfaceDesc{Kind: kind, Width: width, Height: height, Layout: layout, Pitch: pitch},
		pix:  make([]byte, media.FrameSize(f, pitch)),
	}
	d.buffers[b] = struct{}{}
	return b, nil
}

func (d *Device) usableLocked() error {
	if d.released {
		return ErrReleased
	}
	if d.lost {
		return fmt.Errorf("softgpu: adapter %d: %w", d.adapter, media.ErrDeviceLost)
	}
	return nil
}

func (d *Device) BackBufferSize() media.Size {
	d.mu.Lock()
	defer d.mu.Unlock()
	return media.Size{Width: d.dc.Width(), Height: d.dc.Height()}
}

// ResizeBackBuffer replaces the back buffer when the size changes.
func (d *Device) ResizeBackBuffer(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usableLocked(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("softgpu: invalid back buffer %dx%d", width, height)
	}
	if d.dc.Width() != width || d.dc.Height() != height {
		d.dc = gg.NewContext(width, height)
	}
	return nil
}

func (d *Device) Clear(c color.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usableLocked(); err != nil {
		return err
	}
	d.dc.SetColor(c)
	d.dc.Clear()
	return nil
}

// StretchRect converts the source surface to RGBA and scales srcRect of it
// into dstRect of the back buffer with nearest-neighbour sampling.
func (d *Device) StretchRect(src ports.Buffer, srcRect, dstRect media.Rect) error {
	b, ok := src.(*Buffer)
	if !ok || b.dev != d {
		return fmt.Errorf("softgpu: surface %T does not belong to this device", src)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usableLocked(); err != nil {
		return err
	}
	if _, live := d.buffers[b]; !live {
		return fmt.Errorf("softgpu: stretch from released surface: %w", ErrReleased)
	}
	if srcRect.Empty() || dstRect.Empty() {
		return nil
	}

	b.mu.Lock()
	img, err := pixconv.ToRGBA(b.format(), b.desc.Pitch, b.pix)
	b.mu.Unlock()
	if err != nil {
		return fmt.Errorf("softgpu: stretch: %w", err)
	}

	draw.NearestNeighbor.Scale(d.backBuffer(), dstRect.Image(), img, srcRect.Image(), draw.Src, nil)
	return nil
}

// Present flips the back buffer to the display.
func (d *Device) Present() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usableLocked(); err != nil {
		return err
	}
	d.presents++
	if d.sys.display == nil {
		return nil
	}
	if err := d.sys.display.Flip(d.backBuffer()); err != nil {
		return fmt.Errorf("softgpu: flip: %w", err)
	}
	return nil
}

// Presents returns how many frames were presented.
func (d *Device) Presents() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.presents
}

func (d *Device) ReadBackBuffer() (*image.RGBA, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usableLocked(); err != nil {
		return nil, err
	}
	src := d.backBuffer()
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out, nil
}

func (d *Device) backBuffer() *image.RGBA {
	return d.dc.Image().(*image.RGBA)
}

// Lose marks the device lost. It reports whether the device was live.
func (d *Device) Lose() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lost || d.released {
		return false
	}
	d.lost = true
	return true
}

// Release frees the device and every surface still allocated on it.
func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.released = true
	for b := range d.buffers {
		delete(d.buffers, b)
	}
}

// Released reports whether Release was called.
func (d *Device) Released() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

// Live returns the number of allocated surfaces.
func (d *Device) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buffers)
}

func (d *Device) release(b *Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.buffers, b)
}

func (d *Device) usable() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.usableLocked()
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

var _ ports.GraphicsDevice = (*Device)(nil)

// Params returns the parameters the device was created with.
func (d *Device) Params() media.DeviceParams {
	return d.params
}
