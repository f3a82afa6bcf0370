// Package pngdisplay provides a display that saves presented frames as PNG files.
package pngdisplay

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"sync"

	"github.com/user/vidrender/pkg/ports"
)

// Display writes flipped frames to dir as frame-000000.png, frame-000001.png
// and so on.
type Display struct {
	dir   string
	fs    ports.FileSystem
	every int

	mu      sync.Mutex
	flips   int
	written int
	ready   bool
}

// New creates a Display. Only every n-th flip is written; n below 1 writes
// every flip.
func New(dir string, fs ports.FileSystem, every int) *Display {
	if every < 1 {
		every = 1
	}
	return &Display{dir: dir, fs: fs, every: every}
}

// Flip encodes the frame as PNG and writes it.
func (d *Display) Flip(img *image.RGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.flips
	d.flips++
	if n%d.every != 0 {
		return nil
	}

	if !d.ready {
		if err := d.fs.MkdirAll(d.dir); err != nil {
			return fmt.Errorf("pngdisplay: create %s: %w", d.dir, err)
		}
		d.ready = true
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("pngdisplay: encode PNG: %w", err)
	}
	path := filepath.Join(d.dir, fmt.Sprintf("frame-%06d.png", n))
	if err := d.fs.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("pngdisplay: write %s: %w", path, err)
	}
	d.written++
	return nil
}

// Written returns the number of files written.
func (d *Display) Written() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.written
}

func (d *Display) Close() error {
	return nil
}

var _ ports.Display = (*Display)(nil)
