// Package allocator negotiates and owns the surface pool frames are copied into.
//
// Negotiation runs in two phases. Plan is a pure function from the requested
// allocation and the device capabilities to an accepted allocation. Allocate
// then creates surfaces on the device, keeping a short pool when at least
// MinBuffers surfaces exist and rolling everything back otherwise.
package allocator

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/user/vidrender/pkg/media"
)

// nextPow2 returns the smallest power of two not less than n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// AdjustSize pads texture allocations to what the device can create.
// Offscreen allocations are returned unchanged.
func AdjustSize(caps media.DeviceCaps, info media.AllocationInfo) media.AllocationInfo {
	if info.Kind&media.AllocTexture == 0 {
		return info
	}
	if caps.Pow2Textures && !caps.SquareOnlyTextures {
		info.Width = nextPow2(info.Width)
		info.Height = nextPow2(info.Height)
	}
	if caps.SquareOnlyTextures {
		side := max(info.Width, info.Height)
		info.Width = side
		info.Height = side
	}
	return info
}

// Plan validates a requested allocation of count surfaces against the device
// capabilities and returns the allocation the device will be asked for.
func Plan(desired media.AllocationInfo, count int, caps media.DeviceCaps) (media.AllocationInfo, error) {
	if desired.Kind&media.AllocTexture != 0 && desired.Kind&media.AllocOffscreen != 0 {
		return media.AllocationInfo{}, fmt.Errorf("%w: texture and offscreen surfaces are exclusive", media.ErrNegotiation)
	}
	if desired.Kind&(media.AllocTexture|media.AllocOffscreen) == 0 {
		return media.AllocationInfo{}, fmt.Errorf("%w: no surface kind requested", media.ErrNegotiation)
	}
	if !desired.Layout.Valid() {
		return media.AllocationInfo{}, fmt.Errorf("%w: %w: layout %s", media.ErrNegotiation, media.ErrTypeNotAccepted, desired.Layout)
	}
	if desired.Width <= 0 || desired.Height <= 0 {
		return media.AllocationInfo{}, fmt.Errorf("%w: invalid size %dx%d", media.ErrNegotiation, desired.Width, desired.Height)
	}

	accepted := desired
	if accepted.MinBuffers <= 0 {
		accepted.MinBuffers = 1
	}
	if count < 1 || count < accepted.MinBuffers {
		return media.AllocationInfo{}, fmt.Errorf("%w: %d surfaces requested, %d required", media.ErrNegotiation, count, accepted.MinBuffers)
	}
	if caps.MaxSurfaces > 0 && accepted.MinBuffers > caps.MaxSurfaces {
		return media.AllocationInfo{}, fmt.Errorf("%w: device holds %d surfaces, %d required", media.ErrNegotiation, caps.MaxSurfaces, accepted.MinBuffers)
	}

	if accepted.Kind&media.AllocTexture != 0 {
		if accepted.TextureFormat == gputypes.TextureFormatUndefined {
			accepted.TextureFormat = media.TextureFormatFor(accepted.Layout)
		}
		if accepted.TextureFormat == gputypes.TextureFormatUndefined {
			return media.AllocationInfo{}, fmt.Errorf("%w: %w: no texture format for %s", media.ErrNegotiation, media.ErrTypeNotAccepted, accepted.Layout)
		}
	}

	if accepted.NativeSize == (media.Size{}) {
		accepted.NativeSize = media.Size{Width: desired.Width, Height: desired.Height}
	}
	if accepted.AspectRatio == (media.Size{}) {
		accepted.AspectRatio = accepted.NativeSize
	}
	return AdjustSize(caps, accepted), nil
}

// Request builds the allocation the renderer asks for a format. RGB frames
// go to textures; YUV frames go to offscreen plain surfaces.
func Request(f media.FormatDescriptor, minBuffers int) media.AllocationInfo {
	info := media.AllocationInfo{
		Width:      f.Width,
		Height:     f.Height,
		Layout:     f.Layout,
		MinBuffers: minBuffers,
		NativeSize: media.Size{Width: f.Width, Height: f.Height},
	}
	if f.Layout.IsRGB() {
		info.Kind = media.AllocTexture
		info.TextureFormat = media.TextureFormatFor(f.Layout)
	} else {
		info.Kind = media.AllocOffscreen
	}
	return info
}
