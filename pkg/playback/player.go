// Package playback drives a renderer from a frame source and reports the result.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
	"github.com/user/vidrender/pkg/renderer"
)

// Options configure a Player.
type Options struct {
	// Realtime paces presentation to sample start times.
	Realtime bool
	// MaxFrames stops playback after this many samples. Zero plays the whole source.
	MaxFrames int
	// Name is recorded in the summary as the source name.
	Name string
	// Settings are copied into the summary unchanged.
	Settings Settings
}

// Player feeds samples from a FrameSource into a renderer.
type Player struct {
	r      *renderer.Renderer
	logger ports.Logger
	opts   Options

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Player for r.
func New(r *renderer.Renderer, logger ports.Logger, opts Options) *Player {
	return &Player{
		r:      r,
		logger: logger.WithComponent("playback"),
		opts:   opts,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run connects the renderer with the source format, streams every sample and
// disconnects again. Copy failures are counted as drops. A lost device is
// recovered once per loss with RestoreSurfaces.
//
// A cancelled context ends playback early; the summary is still returned
// together with the context error.
func (p *Player) Run(ctx context.Context, src ports.FrameSource) (*Summary, error) {
	format := src.Format()
	if err := p.r.Connect(media.VideoType(format)); err != nil {
		return nil, fmt.Errorf("playback: connect: %w", err)
	}
	if err := p.r.StartStream(); err != nil {
		p.disconnect()
		return nil, fmt.Errorf("playback: start stream: %w", err)
	}
	p.logger.Info("Playing %s", format)

	before := p.r.Stats()
	began := p.now()

	var (
		stats     FrameStats
		mediaEnd  time.Duration
		epoch     time.Time
		base      time.Duration
		paced     bool
		runErr    error
		cancelled bool
	)

	for p.opts.MaxFrames <= 0 || stats.Read < p.opts.MaxFrames {
		s, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				cancelled = true
			}
			runErr = err
			break
		}
		stats.Read++
		stats.Bytes += int64(len(s.Data))
		if s.HasTime && s.End > mediaEnd {
			mediaEnd = s.End
		}

		if p.opts.Realtime && s.HasTime {
			if !paced || s.Flags&media.SampleDiscontinuity != 0 {
				epoch, base, paced = p.now(), s.Start, true
			}
			if wait := (s.Start - base) - p.now().Sub(epoch); wait > 0 {
				if err := p.sleep(ctx, wait); err != nil {
					cancelled = true
					runErr = err
					break
				}
			}
		}

		err = p.r.Render(s)
		switch {
		case err == nil:
		case errors.Is(err, media.ErrDeviceLost):
			stats.DeviceLosses++
			p.logger.Warn("Frame %d hit a lost device, restoring surfaces", stats.Read)
			if rerr := p.r.RestoreSurfaces(); rerr != nil {
				runErr = fmt.Errorf("playback: restore surfaces: %w", rerr)
			} else {
				stats.Restores++
			}
		case errors.Is(err, media.ErrCopy):
			p.logger.Debug("Frame %d dropped: %v", stats.Read, err)
		default:
			runErr = fmt.Errorf("playback: render frame %d: %w", stats.Read, err)
		}
		if runErr != nil {
			break
		}
	}

	if err := p.r.StopStream(); err != nil && runErr == nil {
		runErr = fmt.Errorf("playback: stop stream: %w", err)
	}
	after := p.r.Stats()
	p.disconnect()

	stats.Rendered = int(after.Rendered - before.Rendered)
	stats.Dropped = int(after.Dropped - before.Dropped)
	stats.Presented = int(after.Presented - before.Presented)

	summary := NewBuilder().
		WithSource(p.opts.Name, format).
		WithSettings(p.opts.Settings).
		WithFrames(stats).
		WithTiming(p.now().Sub(began), mediaEnd, cancelled).
		Build()

	p.logger.Info("Played %d frames, %d dropped, %d presented", stats.Read, stats.Dropped, stats.Presented)
	return summary, runErr
}

func (p *Player) disconnect() {
	if err := p.r.Disconnect(); err != nil {
		p.logger.Warn("Disconnect failed: %v", err)
	}
}
