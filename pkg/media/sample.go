package media

import (
	"fmt"
	"image"
	"time"
)

// SampleFlags are per-frame markers set by the upstream.
type SampleFlags uint32

const (
	SampleDiscontinuity SampleFlags = 1 << iota
	SamplePreroll
	SampleSyncPoint
)

// FrameSample is one frame of pixel data. Data is borrowed for the duration
// of a single Render call and must not be retained.
type FrameSample struct {
	Data    []byte
	Start   time.Duration
	End     time.Duration
	HasTime bool
	Flags   SampleFlags
}

// Len returns the length of the sample payload.
func (s *FrameSample) Len() int {
	return len(s.Data)
}

// Rect is a rectangle in left/top/right/bottom form.
type Rect struct {
	Left, Top, Right, Bottom int
}

// NewRect returns the rectangle at the origin with the given size.
func NewRect(w, h int) Rect {
	return Rect{Right: w, Bottom: h}
}

func (r Rect) Dx() int { return r.Right - r.Left }
func (r Rect) Dy() int { return r.Bottom - r.Top }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Dx() <= 0 || r.Dy() <= 0
}

// Image converts the rectangle to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

// AspectMode selects how the source is fitted into the destination.
type AspectMode int

const (
	AspectStretch AspectMode = iota
	AspectLetterBox
)

func (m AspectMode) String() string {
	if m == AspectLetterBox {
		return "letterbox"
	}
	return "stretch"
}

// PresentFlags describe which fields of a PresentationRequest are meaningful.
type PresentFlags uint32

const (
	PresentSrcDstRectsValid PresentFlags = 1 << iota
	PresentTimeValid
	PresentDiscontinuity
	PresentPreroll
	PresentSyncPoint
)

// PresentFlagsFor derives presentation flags from a sample.
func PresentFlagsFor(s *FrameSample) PresentFlags {
	flags := PresentSrcDstRectsValid
	if s.HasTime {
		flags |= PresentTimeValid
	}
	if s.Flags&SampleDiscontinuity != 0 {
		flags |= PresentDiscontinuity
	}
	if s.Flags&SamplePreroll != 0 {
		flags |= PresentPreroll
	}
	if s.Flags&SampleSyncPoint != 0 {
		flags |= PresentSyncPoint
	}
	return flags
}

// VideoPosition is the source and destination rectangles used for presentation.
type VideoPosition struct {
	Src Rect
	Dst Rect
}

// ParseAspectMode parses "stretch" or "letterbox".
func ParseAspectMode(s string) (AspectMode, error) {
	switch s {
	case "stretch", "":
		return AspectStretch, nil
	case "letterbox":
		return AspectLetterBox, nil
	default:
		return 0, fmt.Errorf("%w: unknown aspect mode %q", ErrInvalidConfig, s)
	}
}
