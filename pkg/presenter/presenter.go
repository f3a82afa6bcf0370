// Package presenter implements the default image presenter: it clears the
// back buffer, stretch-blits a surface into the destination rectangle with
// optional letterboxing and flips the result to the output.
package presenter

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/user/vidrender/pkg/device"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// Presenter is the default ports.ImagePresenter. It draws with whatever
// device the shared Holder currently holds.
type Presenter struct {
	holder *device.Holder
	logger ports.Logger

	mu         sync.Mutex
	presenting bool
	border     color.Color
	presented  uint64
}

var _ ports.ImagePresenter = (*Presenter)(nil)

// New creates a presenter drawing on the holder's device.
func New(holder *device.Holder, logger ports.Logger) *Presenter {
	return &Presenter{
		holder: holder,
		logger: logger.WithComponent("presenter"),
		border: color.Black,
	}
}

// SetBorderColor sets the color the back buffer is cleared to.
func (p *Presenter) SetBorderColor(c color.Color) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.border = c
}

// StartPresenting marks the presenter active. It is idempotent.
func (p *Presenter) StartPresenting() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.presenting {
		p.presenting = true
		p.logger.Debug("Presenting started")
	}
	return nil
}

// StopPresenting marks the presenter inactive. It is idempotent.
func (p *Presenter) StopPresenting() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.presenting {
		p.presenting = false
		p.logger.Debug("Presenting stopped after %d frames", p.presented)
	}
	return nil
}

// Presenting reports whether the presenter has been started.
func (p *Presenter) Presenting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.presenting
}

// Presented returns the number of frames flipped.
func (p *Presenter) Presented() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.presented
}

// PresentImage draws one surface. Without a device it does nothing and
// succeeds. Draw failures are logged; only device loss is returned.
func (p *Presenter) PresentImage(req *ports.PresentationRequest) error {
	h := p.holder.Current()
	if !h.Valid() {
		return nil
	}

	surf, ok := req.Surface.(*device.Surface)
	if !ok {
		return fmt.Errorf("presenter: surface %T not created by the default allocator", req.Surface)
	}
	if surf.Handle().Generation != h.Generation {
		// surface belongs to a replaced device
		return nil
	}
	buf, err := p.holder.Lookup(surf.Handle())
	if err != nil {
		return nil
	}

	desc := buf.Desc()
	src := req.SrcRect
	if src.Empty() {
		src = media.NewRect(desc.Width, desc.Height)
	}
	dst := req.DstRect
	if dst.Empty() {
		bb := h.Device.BackBufferSize()
		dst = media.NewRect(bb.Width, bb.Height)
	}

	// the back buffer spans the window from its origin to the far corner of
	// dst, so the image keeps its offset when flipped to the output
	dev := h.Device
	extent := media.Size{Width: max(dst.Right, 1), Height: max(dst.Bottom, 1)}
	if dev.BackBufferSize() != extent {
		if err := dev.ResizeBackBuffer(extent.Width, extent.Height); err != nil {
			if lost := p.checkLost("resize back buffer", err); lost != nil {
				return lost
			}
		}
	}

	target := dst
	if req.AspectMode == media.AspectLetterBox {
		aspect := media.Size{Width: src.Dx(), Height: src.Dy()}
		if aspect.Width <= 0 || aspect.Height <= 0 {
			aspect = req.AspectRatio
		}
		target = Letterbox(aspect, dst)
	}

	p.mu.Lock()
	border := p.border
	p.mu.Unlock()

	if err := dev.Clear(border); err != nil {
		if lost := p.checkLost("clear", err); lost != nil {
			return lost
		}
	}
	if err := dev.StretchRect(buf, src, target); err != nil {
		if lost := p.checkLost("stretch", err); lost != nil {
			return lost
		}
	}
	if err := dev.Present(); err != nil {
		if lost := p.checkLost("present", err); lost != nil {
			return lost
		}
		return nil
	}

	p.mu.Lock()
	p.presented++
	p.mu.Unlock()
	return nil
}

// checkLost logs a draw failure and invalidates the device when it was lost.
func (p *Presenter) checkLost(op string, err error) error {
	if errors.Is(err, media.ErrDeviceLost) {
		p.holder.Invalidate()
		return fmt.Errorf("presenter: %s: %w", op, err)
	}
	p.logger.Warn("Presentation step %s failed: %v", op, err)
	return nil
}

// CurrentImage returns a copy of the last presented back buffer.
func (p *Presenter) CurrentImage() (*image.RGBA, error) {
	h := p.holder.Current()
	if !h.Valid() {
		return nil, fmt.Errorf("presenter: current image: %w", media.ErrNoDevice)
	}
	return h.Device.ReadBackBuffer()
}
