package renderer

import (
	"errors"
	"fmt"
	"time"

	"github.com/user/vidrender/pkg/allocator"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// Connect accepts a media type and negotiates the surface pool for it.
// Without an explicit mode the renderer switches to windowed mode.
func (r *Renderer) Connect(mt media.MediaType) error {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()

	if r.state != StateUnconnected {
		return fmt.Errorf("renderer: connect while %s: %w", r.state, media.ErrWrongState)
	}
	if !r.QueryAccept(mt) {
		return fmt.Errorf("%w: %w: %s", media.ErrNegotiation, media.ErrTypeNotAccepted, describe(mt))
	}
	if !r.modeSet {
		r.setModeLocked(ModeWindowed)
	}

	f := *mt.Format
	window, dst := r.targetLocked()

	r.streamMu.Lock()
	defer r.streamMu.Unlock()

	var pool *allocator.Pool
	var accepted media.AllocationInfo
	switch {
	case r.ap == nil:
		r.logger.Debug("No allocator-presenter, frames will be discarded")
	case r.mode == ModeWindowless && r.clipping == 0:
		r.logger.Debug("Windowless without clipping window, skipping allocation")
	default:
		if wt, ok := r.ap.(ports.WindowTarget); ok {
			wt.SetTargetWindow(window, r.mode == ModeWindowed)
		}
		var err error
		pool, accepted, err = r.negotiateLocked(f)
		if err != nil {
			return fmt.Errorf("renderer: connect %s: %w", f, err)
		}
	}

	r.format = f
	r.stride = media.SourceStride(f)
	r.pool = pool
	r.last = nil
	r.accepted = accepted
	r.state = StateConnected
	r.everConnected = true
	r.position.Store(&media.VideoPosition{Src: media.NewRect(f.Width, f.Height), Dst: dst})

	r.logger.Debug("Connected %s in %s mode with %d surfaces", f, r.mode, pool.Len())
	return nil
}

// targetLocked returns the window surfaces are created for and its client rect.
func (r *Renderer) targetLocked() (media.WindowHandle, media.Rect) {
	if r.windowing == nil {
		return 0, media.Rect{}
	}
	if r.mode == ModeWindowless {
		if r.clipping == 0 {
			return 0, media.Rect{}
		}
		rect, err := r.windowing.ClientRect(r.clipping)
		if err != nil {
			r.logger.Warn("Cannot read clipping window rect: %v", err)
		}
		return r.clipping, rect
	}
	w, _ := r.windowing.OutputWindow()
	return w, r.windowing.DestinationRect()
}

// negotiateLocked asks the allocator for a pool. On failure nothing is held.
func (r *Renderer) negotiateLocked(f media.FormatDescriptor) (*allocator.Pool, media.AllocationInfo, error) {
	info := allocator.Request(f, r.minBuffers)
	accepted, n, err := r.ap.Negotiate(info, r.bufferCount)
	return r.collectLocked(accepted, n, err)
}

// collectLocked turns the result of a negotiation into a pool.
func (r *Renderer) collectLocked(accepted media.AllocationInfo, n int, err error) (*allocator.Pool, media.AllocationInfo, error) {
	if err != nil {
		if !errors.Is(err, media.ErrNegotiation) {
			err = fmt.Errorf("%w: %w", media.ErrNegotiation, err)
		}
		return nil, media.AllocationInfo{}, err
	}
	if n < 1 || n < r.minBuffers {
		r.ap.TerminateDevice()
		return nil, media.AllocationInfo{}, fmt.Errorf("%w: allocator supplied %d surfaces, %d required", media.ErrNegotiation, n, r.minBuffers)
	}

	surfaces := make([]ports.Surface, 0, n)
	for i := 0; i < n; i++ {
		s, err := r.ap.GetSurface(i)
		if err != nil {
			r.ap.TerminateDevice()
			return nil, media.AllocationInfo{}, fmt.Errorf("%w: get surface %d: %w", media.ErrNegotiation, i, err)
		}
		surfaces = append(surfaces, s)
	}
	return allocator.NewPool(surfaces), accepted, nil
}

// Disconnect releases the pool and the device.
func (r *Renderer) Disconnect() error {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()

	switch r.state {
	case StateUnconnected:
		return fmt.Errorf("renderer: disconnect: %w", media.ErrNotReady)
	case StateStarted:
		return fmt.Errorf("renderer: disconnect while started: %w", media.ErrWrongState)
	}

	r.streamMu.Lock()
	defer r.streamMu.Unlock()

	r.pool = nil
	r.last = nil
	var err error
	if r.ap != nil {
		err = r.ap.TerminateDevice()
	}
	r.state = StateUnconnected
	r.format = media.FormatDescriptor{}
	r.stride = 0
	r.accepted = media.AllocationInfo{}
	r.logger.Debug("Disconnected")
	if err != nil {
		return fmt.Errorf("renderer: terminate device: %w", err)
	}
	return nil
}

// StartStream begins presenting.
func (r *Renderer) StartStream() error {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()

	switch r.state {
	case StateUnconnected:
		return fmt.Errorf("renderer: start: %w", media.ErrNotReady)
	case StateStarted:
		return fmt.Errorf("renderer: start while started: %w", media.ErrWrongState)
	}

	r.streamMu.Lock()
	defer r.streamMu.Unlock()
	if r.ap != nil {
		if err := r.ap.StartPresenting(); err != nil {
			return fmt.Errorf("renderer: start presenting: %w", err)
		}
	}
	r.state = StateStarted
	return nil
}

// StopStream stops presenting. Stopping a connected but not started
// renderer does nothing.
func (r *Renderer) StopStream() error {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()

	switch r.state {
	case StateUnconnected:
		return fmt.Errorf("renderer: stop: %w", media.ErrNotReady)
	case StateConnected:
		return nil
	}

	r.streamMu.Lock()
	defer r.streamMu.Unlock()
	if r.ap != nil {
		if err := r.ap.StopPresenting(); err != nil {
			r.logger.Warn("Stop presenting failed: %v", err)
		}
	}
	r.state = StateConnected
	return nil
}

// Render copies one frame into the next pool surface and presents it.
// Without an allocator-presenter or a pool it succeeds without effect.
func (r *Renderer) Render(s *media.FrameSample) error {
	r.streamMu.Lock()
	defer r.streamMu.Unlock()

	if r.state == StateUnconnected {
		return fmt.Errorf("renderer: render: %w", media.ErrNotReady)
	}
	if r.ap == nil || r.pool.Len() == 0 {
		return nil
	}

	surf := r.pool.Next()
	if err := r.fill(surf, s); err != nil {
		if errors.Is(err, media.ErrDeviceLost) {
			return r.deviceLostLocked(err)
		}
		r.dropped.Add(1)
		return fmt.Errorf("renderer: render: %w", err)
	}
	r.rendered.Add(1)
	r.last = surf

	return r.presentLocked(surf, s.Start, s.End, media.PresentFlagsFor(s))
}

// fill locks a surface, copies the sample into it and unlocks it.
func (r *Renderer) fill(surf ports.Surface, s *media.FrameSample) error {
	rect, err := surf.Lock()
	if err != nil {
		if errors.Is(err, media.ErrDeviceLost) {
			return err
		}
		return fmt.Errorf("%w: lock surface: %w", media.ErrCopy, err)
	}
	copyErr := CopyFrame(r.format, r.stride, rect, s.Data)
	if err := surf.Unlock(); err != nil && copyErr == nil {
		copyErr = fmt.Errorf("%w: unlock surface: %w", media.ErrCopy, err)
	}
	return copyErr
}

func (r *Renderer) presentLocked(surf ports.Surface, start, end time.Duration, flags media.PresentFlags) error {
	pos := r.position.Load()
	req := &ports.PresentationRequest{
		Surface:     surf,
		Start:       start,
		End:         end,
		Flags:       flags,
		SrcRect:     pos.Src,
		DstRect:     pos.Dst,
		AspectRatio: r.accepted.AspectRatio,
		AspectMode:  media.AspectMode(r.aspect.Load()),
	}
	if err := r.ap.PresentImage(req); err != nil {
		if errors.Is(err, media.ErrDeviceLost) {
			return r.deviceLostLocked(err)
		}
		return fmt.Errorf("renderer: present: %w", err)
	}
	r.presented.Add(1)
	return nil
}

// deviceLostLocked drops the pool so later frames are discarded until the
// surfaces are restored.
func (r *Renderer) deviceLostLocked(err error) error {
	r.pool = nil
	r.last = nil
	r.deviceLosses.Add(1)
	r.logger.Warn("Device lost, frames will be dropped until surfaces are restored")
	return fmt.Errorf("renderer: %w", err)
}

// RepaintVideo presents the last rendered surface again.
func (r *Renderer) RepaintVideo() error {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()
	if r.state == StateUnconnected {
		return fmt.Errorf("renderer: repaint: %w", media.ErrNotReady)
	}

	r.streamMu.Lock()
	defer r.streamMu.Unlock()
	if r.ap == nil || r.last == nil {
		return nil
	}
	return r.presentLocked(r.last, 0, 0, media.PresentSrcDstRectsValid)
}

// RestoreSurfaces negotiates a new pool on a fresh device, typically after
// the previous one was lost.
func (r *Renderer) RestoreSurfaces() error {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()
	if r.state == StateUnconnected {
		return fmt.Errorf("renderer: restore surfaces: %w", media.ErrNotReady)
	}

	r.streamMu.Lock()
	defer r.streamMu.Unlock()
	if r.ap == nil || (r.mode == ModeWindowless && r.clipping == 0) {
		return nil
	}

	r.pool = nil
	r.last = nil

	var (
		pool     *allocator.Pool
		accepted media.AllocationInfo
		err      error
	)
	if rc, ok := r.ap.(ports.Recreator); ok {
		pool, accepted, err = r.collectLocked(rc.Recreate())
	} else {
		if terr := r.ap.TerminateDevice(); terr != nil {
			r.logger.Warn("Terminate device failed: %v", terr)
		}
		pool, accepted, err = r.negotiateLocked(r.format)
	}
	if err != nil {
		return fmt.Errorf("renderer: restore surfaces: %w", err)
	}
	r.pool = pool
	r.accepted = accepted
	r.logger.Info("Restored %d surfaces", pool.Len())
	return nil
}

// DisplayModeChanged recreates surfaces after the display configuration changed.
func (r *Renderer) DisplayModeChanged() error {
	return r.RestoreSurfaces()
}

func describe(mt media.MediaType) string {
	if mt.Format == nil {
		return fmt.Sprintf("major %q without format", mt.Major)
	}
	return fmt.Sprintf("major %q %s", mt.Major, *mt.Format)
}
