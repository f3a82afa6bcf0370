package mp4source

import (
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/vidrender/pkg/media"
)

// Timescale is the media timescale of written tracks.
const Timescale = 90000

// WriteRaw writes top-down frames of format f as a single-fragment MP4
// with one uncompressed video track. Every frame is a sync sample.
func WriteRaw(w io.Writer, f media.FormatDescriptor, fps int, frames [][]byte) error {
	fourcc, ok := FourCC(f.Layout)
	if !ok {
		return fmt.Errorf("mp4source: no sample entry for layout %s", f.Layout)
	}
	if f.Orientation != media.TopDown {
		return fmt.Errorf("mp4source: only top-down frames can be stored")
	}
	if f.Width <= 0 || f.Height <= 0 || f.Width > 0xffff || f.Height > 0xffff {
		return fmt.Errorf("mp4source: invalid size %dx%d", f.Width, f.Height)
	}
	if fps <= 0 {
		return fmt.Errorf("mp4source: invalid frame rate %d", fps)
	}
	if len(frames) == 0 {
		return fmt.Errorf("mp4source: no frames to write")
	}
	size := media.FrameSize(f, media.SourceStride(f))

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(Timescale, "video", "und")
	trak := init.Moov.Trak
	entry := mp4.CreateVisualSampleEntryBox(fourcc, uint16(f.Width), uint16(f.Height), nil)
	trak.Mdia.Minf.Stbl.Stsd.AddChild(entry)
	trak.Tkhd.Width = mp4.Fixed32(f.Width << 16)
	trak.Tkhd.Height = mp4.Fixed32(f.Height << 16)

	frag, err := mp4.CreateFragment(1, trak.Tkhd.TrackID)
	if err != nil {
		return fmt.Errorf("mp4source: create fragment: %w", err)
	}
	dur := uint32(Timescale / fps)
	for i, data := range frames {
		if len(data) != size {
			return fmt.Errorf("mp4source: frame %d has %d bytes, %s needs %d", i, len(data), f, size)
		}
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: mp4.SyncSampleFlags,
				Size:  uint32(len(data)),
				Dur:   dur,
			},
			DecodeTime: uint64(i) * uint64(dur),
			Data:       data,
		})
	}

	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso6", "mp41"})
	if err := ftyp.Encode(w); err != nil {
		return fmt.Errorf("mp4source: encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(w); err != nil {
		return fmt.Errorf("mp4source: encode moov: %w", err)
	}
	if err := frag.Encode(w); err != nil {
		return fmt.Errorf("mp4source: encode fragment: %w", err)
	}
	return nil
}
