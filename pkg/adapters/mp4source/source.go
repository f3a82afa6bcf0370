// Package mp4source reads and writes uncompressed video frames stored in
// fragmented MP4 files.
package mp4source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// ErrNoVideoTrack is returned for files without a video track.
var ErrNoVideoTrack = errors.New("mp4source: no video track found")

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("mp4source: source closed")

type rawSample struct {
	data  []byte
	start time.Duration
	end   time.Duration
	sync  bool
}

// Source implements ports.FrameSource over the samples of one track.
type Source struct {
	format  media.FormatDescriptor
	samples []rawSample

	mu     sync.Mutex
	next   int
	loop   bool
	closed bool
}

// Open reads the file at path through fs and decodes it.
func Open(fs ports.FileSystem, path string) (*Source, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mp4source: read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses a fragmented MP4 with an uncompressed video track.
func Decode(data []byte) (*Source, error) {
	file, err := mp4.DecodeFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp4source: decode mp4: %w", err)
	}
	if !file.IsFragmented() || file.Init == nil || file.Init.Moov == nil {
		return nil, fmt.Errorf("mp4source: progressive MP4 not supported, use fragmented MP4")
	}

	var trak *mp4.TrakBox
	for _, t := range file.Init.Moov.Traks {
		if t.Mdia != nil && t.Mdia.Hdlr != nil && t.Mdia.Hdlr.HandlerType == "vide" {
			trak = t
			break
		}
	}
	if trak == nil {
		return nil, ErrNoVideoTrack
	}
	trackID := trak.Tkhd.TrackID

	format, err := trackFormat(trak)
	if err != nil {
		return nil, err
	}

	timescale := uint32(1000)
	if trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale != 0 {
		timescale = trak.Mdia.Mdhd.Timescale
	}

	var trex *mp4.TrexBox
	if file.Init.Moov.Mvex != nil {
		for _, t := range file.Init.Moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	size := media.FrameSize(format, media.SourceStride(format))
	toDuration := func(t uint64) time.Duration {
		return time.Duration(t * uint64(time.Second) / uint64(timescale))
	}

	var samples []rawSample
	for _, seg := range file.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil || !hasTrack(frag, trackID) {
				continue
			}
			full, err := frag.GetFullSamples(trex)
			if err != nil {
				return nil, fmt.Errorf("mp4source: get samples: %w", err)
			}
			for _, s := range full {
				if len(s.Data) != size {
					return nil, fmt.Errorf("mp4source: sample of %d bytes, %s needs %d", len(s.Data), format, size)
				}
				samples = append(samples, rawSample{
					data:  s.Data,
					start: toDuration(s.DecodeTime),
					end:   toDuration(s.DecodeTime + uint64(s.Dur)),
					sync:  s.Flags == mp4.SyncSampleFlags,
				})
			}
		}
	}

	return &Source{format: format, samples: samples}, nil
}

func hasTrack(frag *mp4.Fragment, trackID uint32) bool {
	for _, traf := range frag.Moof.Trafs {
		if traf.Tfhd.TrackID == trackID {
			return true
		}
	}
	return false
}

// trackFormat derives the frame format from the first sample entry. The
// size comes from the visual sample entry when it was decoded as one and
// from the track header otherwise.
func trackFormat(trak *mp4.TrakBox) (media.FormatDescriptor, error) {
	stsd := trak.Mdia.Minf.Stbl.Stsd
	if stsd == nil || len(stsd.Children) == 0 {
		return media.FormatDescriptor{}, fmt.Errorf("mp4source: track %d has no sample entry", trak.Tkhd.TrackID)
	}
	entry := stsd.Children[0]
	layout, ok := LayoutOf(entry.Type())
	if !ok {
		return media.FormatDescriptor{}, fmt.Errorf("mp4source: %q is not an uncompressed layout: %w", entry.Type(), media.ErrTypeNotAccepted)
	}

	f := media.FormatDescriptor{
		Width:  int(trak.Tkhd.Width >> 16),
		Height: int(trak.Tkhd.Height >> 16),
		Layout: layout,
	}
	if vse, ok := entry.(*mp4.VisualSampleEntryBox); ok {
		f.Width, f.Height = int(vse.Width), int(vse.Height)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return media.FormatDescriptor{}, fmt.Errorf("mp4source: track %d has no frame size", trak.Tkhd.TrackID)
	}
	return f, nil
}

// SetLoop makes Next restart from the first frame instead of returning io.EOF.
// Restarted frames are marked as discontinuities.
func (s *Source) SetLoop(loop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loop = loop
}

// Len returns the number of frames in the track.
func (s *Source) Len() int {
	return len(s.samples)
}

func (s *Source) Format() media.FormatDescriptor {
	return s.format
}

// Next returns the next frame, or io.EOF after the last one.
func (s *Source) Next(ctx context.Context) (*media.FrameSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.next >= len(s.samples) {
		if !s.loop || len(s.samples) == 0 {
			return nil, io.EOF
		}
		s.next = 0
	}

	i := s.next
	s.next++
	rs := s.samples[i]
	out := &media.FrameSample{
		Data:    rs.data,
		Start:   rs.start,
		End:     rs.end,
		HasTime: true,
	}
	if rs.sync {
		out.Flags |= media.SampleSyncPoint
	}
	if i == 0 {
		out.Flags |= media.SampleDiscontinuity
	}
	return out, nil
}

func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ ports.FrameSource = (*Source)(nil)
