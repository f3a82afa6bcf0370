// Package softgpu provides an in-memory graphics system. Surfaces are byte
// slices, the back buffer is a gg canvas and Present flips it to a display.
package softgpu

import (
	"fmt"
	"sync"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// Config configures a System.
type Config struct {
	Caps media.DeviceCaps

	// Monitors maps each adapter index to the monitor it drives.
	// Empty means a single adapter on monitor 0.
	Monitors []media.MonitorID
}

// DefaultCaps returns capabilities of an unconstrained device.
func DefaultCaps() media.DeviceCaps {
	return media.DeviceCaps{
		StretchFromTextures: true,
		PitchAlign:          4,
	}
}

// System implements ports.GraphicsSystem.
type System struct {
	cfg     Config
	display ports.Display
	logger  ports.Logger

	mu      sync.Mutex
	devices []*Device
}

// NewSystem creates a System whose devices flip to display. A nil display
// discards presented frames.
func NewSystem(cfg Config, display ports.Display, logger ports.Logger) *System {
	if len(cfg.Monitors) == 0 {
		cfg.Monitors = []media.MonitorID{0}
	}
	if cfg.Caps.PitchAlign <= 0 {
		cfg.Caps.PitchAlign = 1
	}
	return &System{
		cfg:     cfg,
		display: display,
		logger:  logger.WithComponent("softgpu"),
	}
}

func (s *System) AdapterCount() int {
	return len(s.cfg.Monitors)
}

func (s *System) AdapterMonitor(adapter int) media.MonitorID {
	if adapter < 0 || adapter >= len(s.cfg.Monitors) {
		return 0
	}
	return s.cfg.Monitors[adapter]
}

// CreateDevice creates a device with a back buffer of the requested size.
func (s *System) CreateDevice(adapter int, params media.DeviceParams) (ports.GraphicsDevice, error) {
	if adapter < 0 || adapter >= len(s.cfg.Monitors) {
		return nil, fmt.Errorf("softgpu: adapter %d out of range [0,%d)", adapter, len(s.cfg.Monitors))
	}
	if params.BackBufferWidth <= 0 || params.BackBufferHeight <= 0 {
		return nil, fmt.Errorf("softgpu: invalid back buffer %dx%d", params.BackBufferWidth, params.BackBufferHeight)
	}

	d := newDevice(s, adapter, params)

	s.mu.Lock()
	s.devices = append(s.devices, d)
	s.mu.Unlock()

	s.logger.Debug("Created device on adapter %d with back buffer %dx%d", adapter, params.BackBufferWidth, params.BackBufferHeight)
	return d, nil
}

// LoseDevices marks every live device as lost, as a display mode change would.
func (s *System) LoseDevices() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, d := range s.devices {
		if d.Lose() {
			n++
		}
	}
	return n
}

// Devices returns the devices created so far, released ones included.
func (s *System) Devices() []*Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Device(nil), s.devices...)
}

var _ ports.GraphicsSystem = (*System)(nil)
