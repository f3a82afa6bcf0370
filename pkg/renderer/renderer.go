// Package renderer implements the video renderer core: media type
// negotiation, the connection state machine, rendering mode selection and
// the per-frame copy into pooled surfaces.
//
// Two locks guard the renderer. filterMu serialises control operations;
// streamMu guards the render critical section, the pool and the
// allocator/presenter. Operations that touch both take filterMu first.
// Render takes only streamMu so property queries never wait for a frame.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/user/vidrender/pkg/allocator"
	"github.com/user/vidrender/pkg/device"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
	"github.com/user/vidrender/pkg/presenter"
)

// State is the connection state of the renderer.
type State int

const (
	StateUnconnected State = iota
	StateConnected
	StateStarted
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateStarted:
		return "started"
	default:
		return "unconnected"
	}
}

// Mode selects who allocates and presents surfaces.
type Mode int

const (
	// ModeWindowed draws into the renderer's own output window.
	ModeWindowed Mode = 1
	// ModeWindowless draws into a clipping window supplied by the host.
	ModeWindowless Mode = 2
	// ModeRenderless delegates allocation and presentation to an external
	// allocator/presenter.
	ModeRenderless Mode = 4
)

func (m Mode) String() string {
	switch m {
	case ModeWindowed:
		return "windowed"
	case ModeWindowless:
		return "windowless"
	case ModeRenderless:
		return "renderless"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "windowed", "":
		return ModeWindowed, nil
	case "windowless":
		return ModeWindowless, nil
	case "renderless":
		return ModeRenderless, nil
	default:
		return 0, fmt.Errorf("%w: unknown rendering mode %q", media.ErrInvalidConfig, s)
	}
}

// Options configure a Renderer.
type Options struct {
	// BufferCount is the number of surfaces requested per connection.
	BufferCount int
	// MinBuffers is the smallest pool the renderer accepts.
	MinBuffers  int
	AspectMode  media.AspectMode
	BorderColor color.Color
}

// DefaultOptions returns single-buffered stretch presentation on black.
func DefaultOptions() Options {
	return Options{
		BufferCount: 1,
		MinBuffers:  1,
		AspectMode:  media.AspectStretch,
		BorderColor: color.Black,
	}
}

// Stats are running counters of renderer activity.
type Stats struct {
	Rendered     uint64
	Dropped      uint64
	Presented    uint64
	DeviceLosses uint64
}

// defaultPair is the built-in allocator and presenter sharing one device.
type defaultPair struct {
	*allocator.Allocator
	*presenter.Presenter
}

var _ ports.AllocatorPresenter = (*defaultPair)(nil)

// Renderer is the renderer core.
type Renderer struct {
	gs        ports.GraphicsSystem
	windowing ports.Windowing
	logger    ports.Logger

	filterMu sync.Mutex
	streamMu sync.Mutex

	// guarded by filterMu
	modeSet       bool
	mode          Mode
	everConnected bool
	bufferCount   int
	minBuffers    int
	clipping      media.WindowHandle
	border        color.Color

	// written with both locks held, readable under either
	state    State
	format   media.FormatDescriptor
	stride   int
	accepted media.AllocationInfo
	ap       ports.AllocatorPresenter
	def      *defaultPair

	// guarded by streamMu
	pool *allocator.Pool
	last ports.Surface

	position atomic.Pointer[media.VideoPosition]
	aspect   atomic.Int32

	rendered     atomic.Uint64
	dropped      atomic.Uint64
	presented    atomic.Uint64
	deviceLosses atomic.Uint64
}

// New creates a renderer. gs and windowing back the default allocator and
// presenter; either may be nil for a renderer used only in renderless mode.
func New(gs ports.GraphicsSystem, windowing ports.Windowing, logger ports.Logger, opts Options) *Renderer {
	if opts.BufferCount <= 0 {
		opts.BufferCount = 1
	}
	if opts.MinBuffers <= 0 {
		opts.MinBuffers = 1
	}
	if opts.BorderColor == nil {
		opts.BorderColor = color.Black
	}
	r := &Renderer{
		gs:          gs,
		windowing:   windowing,
		logger:      logger.WithComponent("renderer"),
		bufferCount: opts.BufferCount,
		minBuffers:  opts.MinBuffers,
		border:      opts.BorderColor,
	}
	r.aspect.Store(int32(opts.AspectMode))
	r.position.Store(&media.VideoPosition{})
	return r
}

// State returns the connection state.
func (r *Renderer) State() State {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()
	return r.state
}

// QueryAccept reports whether a media type can be connected. It has no
// side effects.
func (r *Renderer) QueryAccept(mt media.MediaType) bool {
	if mt.Major != media.MajorVideo || mt.Format == nil {
		return false
	}
	f := mt.Format
	return f.Layout.Valid() && f.Width > 0 && f.Height > 0
}

// SetRenderingMode selects the rendering mode. It may be called once,
// before the first connection.
func (r *Renderer) SetRenderingMode(m Mode) error {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()

	if m != ModeWindowed && m != ModeWindowless && m != ModeRenderless {
		return fmt.Errorf("%w: invalid rendering mode %d", media.ErrInvalidConfig, int(m))
	}
	if r.everConnected {
		return fmt.Errorf("renderer: set rendering mode after connect: %w", media.ErrWrongState)
	}
	if r.modeSet {
		return fmt.Errorf("%w: rendering mode already %s: %w", media.ErrInvalidConfig, r.mode, media.ErrWrongState)
	}
	r.setModeLocked(m)
	return nil
}

func (r *Renderer) setModeLocked(m Mode) {
	r.mode = m
	r.modeSet = true
	if m == ModeRenderless || r.gs == nil {
		r.logger.Debug("Rendering mode %s", m)
		return
	}

	holder := device.NewHolder(r.logger)
	pres := presenter.New(holder, r.logger)
	pres.SetBorderColor(r.border)
	r.def = &defaultPair{
		Allocator: allocator.New(r.gs, r.windowing, holder, r.logger),
		Presenter: pres,
	}
	r.streamMu.Lock()
	r.ap = r.def
	r.streamMu.Unlock()
	r.logger.Debug("Rendering mode %s with default allocator-presenter", m)
}

// RenderingMode returns the selected mode, windowed when none was set.
func (r *Renderer) RenderingMode() Mode {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()
	if !r.modeSet {
		return ModeWindowed
	}
	return r.mode
}

// AdviseAllocatorPresenter installs an external allocator/presenter.
// The renderer must be in renderless mode and unconnected.
func (r *Renderer) AdviseAllocatorPresenter(ap ports.AllocatorPresenter) error {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()

	if !r.modeSet || r.mode != ModeRenderless {
		return fmt.Errorf("renderer: allocator-presenter requires renderless mode: %w", media.ErrWrongState)
	}
	if r.state != StateUnconnected {
		return fmt.Errorf("renderer: advise allocator-presenter while %s: %w", r.state, media.ErrWrongState)
	}
	r.streamMu.Lock()
	r.ap = ap
	r.streamMu.Unlock()
	return nil
}

// SetBufferCount sets the number of surfaces requested on the next connection.
func (r *Renderer) SetBufferCount(n int) error {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()
	if n <= 0 {
		return fmt.Errorf("%w: buffer count %d", media.ErrInvalidConfig, n)
	}
	if r.state != StateUnconnected {
		return fmt.Errorf("renderer: set buffer count while %s: %w", r.state, media.ErrWrongState)
	}
	r.bufferCount = n
	if r.minBuffers > n {
		r.minBuffers = n
	}
	return nil
}

// BufferCount returns the requested number of surfaces.
func (r *Renderer) BufferCount() int {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()
	return r.bufferCount
}

// SetVideoClippingWindow sets the host window used in windowless mode.
func (r *Renderer) SetVideoClippingWindow(w media.WindowHandle) error {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()
	if r.windowing == nil || !r.windowing.IsWindow(w) {
		return fmt.Errorf("%w: invalid clipping window %d", media.ErrInvalidConfig, w)
	}
	if r.state != StateUnconnected {
		return fmt.Errorf("renderer: set clipping window while %s: %w", r.state, media.ErrWrongState)
	}
	r.clipping = w
	return nil
}

// SetVideoPosition sets the source and destination rectangles. A nil
// rectangle keeps the current value. It may be called from any goroutine
// while frames are rendering; the next present picks it up.
func (r *Renderer) SetVideoPosition(src, dst *media.Rect) error {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()

	pos := *r.position.Load()
	if src != nil {
		if src.Empty() || src.Left < 0 || src.Top < 0 {
			return fmt.Errorf("%w: source rect %+v", media.ErrInvalidConfig, *src)
		}
		if r.state != StateUnconnected && (src.Right > r.format.Width || src.Bottom > r.format.Height) {
			return fmt.Errorf("%w: source rect %+v outside %dx%d", media.ErrInvalidConfig, *src, r.format.Width, r.format.Height)
		}
		pos.Src = *src
	}
	if dst != nil {
		if dst.Empty() {
			return fmt.Errorf("%w: destination rect %+v", media.ErrInvalidConfig, *dst)
		}
		pos.Dst = *dst
	}
	r.position.Store(&pos)
	return nil
}

// VideoPosition returns the current source and destination rectangles.
func (r *Renderer) VideoPosition() media.VideoPosition {
	return *r.position.Load()
}

// SetAspectRatioMode selects stretch or letterbox presentation.
func (r *Renderer) SetAspectRatioMode(m media.AspectMode) error {
	if m != media.AspectStretch && m != media.AspectLetterBox {
		return fmt.Errorf("%w: aspect ratio mode %d", media.ErrInvalidConfig, int(m))
	}
	r.aspect.Store(int32(m))
	return nil
}

// AspectRatioMode returns the aspect ratio mode.
func (r *Renderer) AspectRatioMode() media.AspectMode {
	return media.AspectMode(r.aspect.Load())
}

// NativeVideoSize returns the connected frame size and its aspect ratio.
func (r *Renderer) NativeVideoSize() (size, aspect media.Size, err error) {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()
	if r.state == StateUnconnected {
		return media.Size{}, media.Size{}, fmt.Errorf("renderer: native video size: %w", media.ErrNotReady)
	}
	size = media.Size{Width: r.format.Width, Height: r.format.Height}
	aspect = r.accepted.AspectRatio
	if aspect == (media.Size{}) {
		aspect = size
	}
	return size, aspect, nil
}

// AvailableMonitors enumerates the monitors of the window system.
func (r *Renderer) AvailableMonitors() ([]media.MonitorInfo, error) {
	if r.windowing == nil {
		return nil, fmt.Errorf("renderer: no window system")
	}
	return r.windowing.Monitors()
}

// Stats returns a snapshot of the renderer counters.
func (r *Renderer) Stats() Stats {
	return Stats{
		Rendered:     r.rendered.Load(),
		Dropped:      r.dropped.Load(),
		Presented:    r.presented.Load(),
		DeviceLosses: r.deviceLosses.Load(),
	}
}

// CurrentImage returns a copy of the back buffer. Only the built-in
// presenter supports it.
func (r *Renderer) CurrentImage() (*image.RGBA, error) {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()
	if r.state == StateUnconnected {
		return nil, fmt.Errorf("renderer: current image: %w", media.ErrNotReady)
	}
	if r.def == nil {
		return nil, fmt.Errorf("renderer: current image in %s mode: %w", r.mode, media.ErrWrongState)
	}

	r.streamMu.Lock()
	defer r.streamMu.Unlock()
	return r.def.CurrentImage()
}
