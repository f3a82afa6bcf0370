package softgpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// ErrLocked is returned when locking a surface that is already locked.
var ErrLocked = errors.New("softgpu: surface already locked")

// Buffer implements ports.Buffer over a byte slice.
type Buffer struct {
	dev  *Device
	desc media.SurfaceDesc

	mu       sync.Mutex
	pix      []byte
	locked   bool
	released bool
}

func (b *Buffer) Desc() media.SurfaceDesc {
	return b.desc
}

func (b *Buffer) Lock() (media.LockedRect, error) {
	if err := b.dev.usable(); err != nil {
		return media.LockedRect{}, fmt.Errorf("softgpu: lock: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return media.LockedRect{}, ErrReleased
	}
	if b.locked {
		return media.LockedRect{}, ErrLocked
	}
	b.locked = true
	return media.LockedRect{Pix: b.pix, Pitch: b.desc.Pitch}, nil
}

func (b *Buffer) Unlock() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.locked {
		return fmt.Errorf("softgpu: unlock of unlocked surface")
	}
	b.locked = false
	return nil
}

func (b *Buffer) Release() {
	b.mu.Lock()
	already := b.released
	b.released = true
	b.mu.Unlock()
	if !already {
		b.dev.release(b)
	}
}

func (b *Buffer) format() media.FormatDescriptor {
	return media.FormatDescriptor{Width: b.desc.Width, Height: b.desc.Height, Layout: b.desc.Layout}
}

var _ ports.Buffer = (*Buffer)(nil)
