package playback

import (
	"time"

	"github.com/user/vidrender/pkg/media"
)

// Summary contains all data collected during a playback session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// What was played
	Source SourceInfo

	// How it was rendered
	Settings Settings

	// Counters
	Frames FrameStats

	// Timing
	Timing TimingInfo
}

// SourceInfo describes the played source.
type SourceInfo struct {
	Name   string
	Format media.FormatDescriptor
}

// Settings contains the renderer configuration used for the session.
type Settings struct {
	Mode       string
	AspectMode string
	Buffers    int
	Display    string
	Realtime   bool
}

// FrameStats are the frame counters of one session.
type FrameStats struct {
	// Read is the number of samples taken from the source.
	Read int
	// Rendered is the number of samples copied into a surface.
	Rendered int
	// Dropped counts samples whose copy failed.
	Dropped int
	// Presented counts successful presentations.
	Presented int
	// DeviceLosses counts lost devices, Restores the successful recoveries.
	DeviceLosses int
	Restores     int
	// Bytes is the total size of the samples read.
	Bytes int64
}

// TimingInfo contains wall clock and media time measurements.
type TimingInfo struct {
	WallMs  int
	MediaMs int
	// Interrupted is set when the context was cancelled before the source ended.
	Interrupted bool
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// FPS returns the effective presentation rate over wall clock time.
func (s *Summary) FPS() float64 {
	if s.Timing.WallMs <= 0 {
		return 0
	}
	return float64(s.Frames.Presented) * 1000 / float64(s.Timing.WallMs)
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets source information.
func (b *Builder) WithSource(name string, format media.FormatDescriptor) *Builder {
	b.summary.Source = SourceInfo{
		Name:   name,
		Format: format,
	}
	return b
}

// WithSettings sets renderer settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithFrames sets frame counters.
func (b *Builder) WithFrames(frames FrameStats) *Builder {
	b.summary.Frames = frames
	return b
}

// WithTiming sets timing information.
func (b *Builder) WithTiming(wall, mediaTime time.Duration, interrupted bool) *Builder {
	b.summary.Timing = TimingInfo{
		WallMs:      int(wall / time.Millisecond),
		MediaMs:     int(mediaTime / time.Millisecond),
		Interrupted: interrupted,
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
