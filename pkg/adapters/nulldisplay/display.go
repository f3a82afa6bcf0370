// Package nulldisplay provides a display that discards every frame.
package nulldisplay

import (
	"image"
	"sync/atomic"

	"github.com/user/vidrender/pkg/ports"
)

// Display is a no-op implementation of ports.Display that only counts flips.
type Display struct {
	flips atomic.Uint64
}

// New creates a new Display.
func New() *Display {
	return &Display{}
}

// Flip discards the frame.
func (d *Display) Flip(img *image.RGBA) error {
	d.flips.Add(1)
	return nil
}

// Flips returns the number of discarded frames.
func (d *Display) Flips() uint64 {
	return d.flips.Load()
}

func (d *Display) Close() error {
	return nil
}

// Ensure Display implements ports.Display
var _ ports.Display = (*Display)(nil)
