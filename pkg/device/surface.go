package device

import (
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// Surface is a ports.Surface backed by a slot in a Holder's arena.
type Surface struct {
	holder *Holder
	handle SurfaceHandle
	desc   media.SurfaceDesc
}

var _ ports.Surface = (*Surface)(nil)

// NewSurface wraps an arena handle.
func NewSurface(holder *Holder, handle SurfaceHandle, desc media.SurfaceDesc) *Surface {
	return &Surface{holder: holder, handle: handle, desc: desc}
}

// Handle returns the arena handle of the surface.
func (s *Surface) Handle() SurfaceHandle {
	return s.handle
}

func (s *Surface) Desc() media.SurfaceDesc {
	return s.desc
}

// Lock locks the underlying buffer. It fails with ErrDeviceLost once the
// device the surface was created on is gone.
func (s *Surface) Lock() (media.LockedRect, error) {
	buf, err := s.holder.Lookup(s.handle)
	if err != nil {
		return media.LockedRect{}, err
	}
	return buf.Lock()
}

func (s *Surface) Unlock() error {
	buf, err := s.holder.Lookup(s.handle)
	if err != nil {
		return err
	}
	return buf.Unlock()
}

// Release returns the surface to the arena.
func (s *Surface) Release() {
	s.holder.Release(s.handle)
}
