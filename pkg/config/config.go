// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
	"github.com/user/vidrender/pkg/renderer"
)

// Display names accepted by the display key.
const (
	DisplayX11   = "x11"
	DisplayMJPEG = "mjpeg"
	DisplayPNG   = "png"
	DisplayNull  = "null"
)

// Config represents the full configuration for vidrender.
type Config struct {
	// Renderer
	Mode        string `yaml:"mode"`
	AspectMode  string `yaml:"aspect_mode"`
	Buffers     int    `yaml:"buffers"`
	MinBuffers  int    `yaml:"min_buffers"`
	BorderColor string `yaml:"border_color"`

	// Output
	Display      string       `yaml:"display"`
	Window       WindowConfig `yaml:"window"`
	MJPEGAddr    string       `yaml:"mjpeg_addr"`
	MJPEGQuality int          `yaml:"mjpeg_quality"`
	PNGDir       string       `yaml:"png_dir"`
	PNGEvery     int          `yaml:"png_every"`

	// Graphics device
	Device DeviceConfig `yaml:"device"`

	// Playback
	Realtime bool   `yaml:"realtime"`
	LogLevel string `yaml:"log_level"`
}

// WindowConfig represents the output window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// DeviceConfig represents the capabilities of the software graphics device.
type DeviceConfig struct {
	Pow2Textures        bool `yaml:"pow2_textures"`
	SquareTextures      bool `yaml:"square_textures"`
	StretchFromTextures bool `yaml:"stretch_from_textures"`
	MaxSurfaces         int  `yaml:"max_surfaces"`
	PitchAlign          int  `yaml:"pitch_align"`
	Adapters            int  `yaml:"adapters"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Mode:        "windowed",
		AspectMode:  "letterbox",
		Buffers:     1,
		MinBuffers:  1,
		BorderColor: "#000000",

		Display: DisplayX11,
		Window: WindowConfig{
			Title:  "vidrender",
			Width:  640,
			Height: 360,
		},
		MJPEGAddr:    ":8080",
		MJPEGQuality: 90,
		PNGDir:       "./frames",
		PNGEvery:     1,

		Device: DeviceConfig{
			StretchFromTextures: true,
			PitchAlign:          4,
			Adapters:            1,
		},

		Realtime: true,
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(fs ports.FileSystem, path string) (Config, error) {
	cfg := Defaults()

	data, err := fs.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks every field that can be checked without opening a device.
func (c Config) Validate() error {
	if _, err := renderer.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := media.ParseAspectMode(c.AspectMode); err != nil {
		return err
	}
	if c.Buffers < 1 {
		return fmt.Errorf("%w: buffers must be at least 1, got %d", media.ErrInvalidConfig, c.Buffers)
	}
	if c.MinBuffers < 1 || c.MinBuffers > c.Buffers {
		return fmt.Errorf("%w: min_buffers must be in [1,%d], got %d", media.ErrInvalidConfig, c.Buffers, c.MinBuffers)
	}
	if _, err := ParseColor(c.BorderColor); err != nil {
		return err
	}
	switch c.Display {
	case DisplayX11, DisplayMJPEG, DisplayPNG, DisplayNull:
	default:
		return fmt.Errorf("%w: unknown display %q", media.ErrInvalidConfig, c.Display)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", media.ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Device.Adapters < 1 {
		return fmt.Errorf("%w: at least one adapter is required", media.ErrInvalidConfig)
	}
	if c.Device.MaxSurfaces < 0 || c.Device.PitchAlign < 0 {
		return fmt.Errorf("%w: negative device limits", media.ErrInvalidConfig)
	}
	return nil
}

// ParseColor parses a #rrggbb or #rgb hex colour.
func ParseColor(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: colour %q is not #rrggbb", media.ErrInvalidConfig, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: colour %q: %v", media.ErrInvalidConfig, hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// RenderingMode returns the configured rendering mode.
func (c Config) RenderingMode() (renderer.Mode, error) {
	return renderer.ParseMode(c.Mode)
}

// ToRendererOptions converts Config to renderer.Options.
func (c Config) ToRendererOptions() (renderer.Options, error) {
	aspect, err := media.ParseAspectMode(c.AspectMode)
	if err != nil {
		return renderer.Options{}, err
	}
	border, err := ParseColor(c.BorderColor)
	if err != nil {
		return renderer.Options{}, err
	}
	return renderer.Options{
		BufferCount: c.Buffers,
		MinBuffers:  c.MinBuffers,
		AspectMode:  aspect,
		BorderColor: border,
	}, nil
}

// ToDeviceCaps converts the device section to media.DeviceCaps.
func (c Config) ToDeviceCaps() media.DeviceCaps {
	return media.DeviceCaps{
		Pow2Textures:        c.Device.Pow2Textures,
		SquareOnlyTextures:  c.Device.SquareTextures,
		StretchFromTextures: c.Device.StretchFromTextures,
		MaxSurfaces:         c.Device.MaxSurfaces,
		PitchAlign:          c.Device.PitchAlign,
	}
}

// AdapterMonitors maps adapter i to monitor i.
func (c Config) AdapterMonitors() []media.MonitorID {
	n := c.Device.Adapters
	if n < 1 {
		n = 1
	}
	out := make([]media.MonitorID, n)
	for i := range out {
		out[i] = media.MonitorID(i)
	}
	return out
}

// Level returns the configured log level.
func (c Config) Level() ports.LogLevel {
	return ports.ParseLogLevel(c.LogLevel)
}
