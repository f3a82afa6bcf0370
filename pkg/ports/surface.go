package ports

import (
	"time"

	"github.com/user/vidrender/pkg/media"
)

// Surface is a lockable frame buffer handed out by an allocator.
type Surface interface {
	Desc() media.SurfaceDesc
	Lock() (media.LockedRect, error)
	Unlock() error
}

// SurfaceAllocator creates and owns the surfaces frames are copied into.
type SurfaceAllocator interface {
	// Negotiate creates a device and at least info.MinBuffers surfaces.
	// It returns the accepted allocation and the number of surfaces created.
	Negotiate(info media.AllocationInfo, count int) (media.AllocationInfo, int, error)

	// GetSurface returns the surface at index i of the current allocation.
	GetSurface(i int) (Surface, error)

	// TerminateDevice releases every surface and the device.
	TerminateDevice() error
}

// Recreator is implemented by allocators that can repeat their last
// negotiation on a fresh device after the previous one was lost.
type Recreator interface {
	Recreate() (media.AllocationInfo, int, error)
}

// WindowTarget is implemented by allocators that create their device
// against a specific window.
type WindowTarget interface {
	SetTargetWindow(w media.WindowHandle, windowed bool)
}

// PresentationRequest asks a presenter to show one surface.
type PresentationRequest struct {
	Surface     Surface
	Start       time.Duration
	End         time.Duration
	Flags       media.PresentFlags
	SrcRect     media.Rect
	DstRect     media.Rect
	AspectRatio media.Size
	AspectMode  media.AspectMode
}

// ImagePresenter shows surfaces on the output.
type ImagePresenter interface {
	StartPresenting() error
	StopPresenting() error
	PresentImage(req *PresentationRequest) error
}

// AllocatorPresenter is the pluggable allocator and presenter pair.
type AllocatorPresenter interface {
	SurfaceAllocator
	ImagePresenter
}
