package allocator

import (
	"fmt"

	"github.com/user/vidrender/pkg/device"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// Allocate creates up to count surfaces of an accepted allocation on the
// device snapshot. A shorter pool is accepted when at least info.MinBuffers
// surfaces were created; otherwise every created surface is released and
// ErrNegotiation is returned with an empty pool.
func Allocate(holder *device.Holder, dev device.Handle, info media.AllocationInfo, count int, logger ports.Logger) ([]*device.Surface, error) {
	if !dev.Valid() {
		return nil, fmt.Errorf("%w: %w", media.ErrNegotiation, media.ErrNoDevice)
	}

	surfaces := make([]*device.Surface, 0, count)
	var lastErr error
	for i := 0; i < count; i++ {
		buf, err := dev.Device.CreateSurface(info.Kind, info.Width, info.Height, info.Layout)
		if err != nil {
			lastErr = err
			break
		}
		sh, err := holder.Alloc(dev.Generation, buf)
		if err != nil {
			buf.Release()
			lastErr = err
			break
		}
		surfaces = append(surfaces, device.NewSurface(holder, sh, buf.Desc()))
	}

	if len(surfaces) < info.MinBuffers {
		for _, s := range surfaces {
			s.Release()
		}
		if lastErr != nil {
			return nil, fmt.Errorf("%w: created %d of %d required surfaces: %w", media.ErrNegotiation, len(surfaces), info.MinBuffers, lastErr)
		}
		return nil, fmt.Errorf("%w: created %d of %d required surfaces", media.ErrNegotiation, len(surfaces), info.MinBuffers)
	}

	if len(surfaces) < count {
		logger.Debug("Device supplied %d of %d surfaces: %v", len(surfaces), count, lastErr)
	}
	return surfaces, nil
}
