package config

// Builder provides a fluent interface for overriding a Config, typically
// with command line flags on top of a loaded file.
type Builder struct {
	config Config
}

// NewBuilder creates a Builder starting from base.
func NewBuilder(base Config) *Builder {
	return &Builder{config: base}
}

// Build validates and returns the final Config.
func (b *Builder) Build() (Config, error) {
	cfg := b.config
	if cfg.MinBuffers > cfg.Buffers && cfg.Buffers >= 1 {
		cfg.MinBuffers = cfg.Buffers
	}
	if cfg.PNGEvery < 1 {
		cfg.PNGEvery = 1
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Mode sets the rendering mode.
func (b *Builder) Mode(mode string) *Builder {
	b.config.Mode = mode
	return b
}

// AspectMode sets stretch or letterbox presentation.
func (b *Builder) AspectMode(mode string) *Builder {
	b.config.AspectMode = mode
	return b
}

// Buffers sets the requested pool size.
func (b *Builder) Buffers(n int) *Builder {
	b.config.Buffers = n
	return b
}

// MinBuffers sets the smallest acceptable pool.
func (b *Builder) MinBuffers(n int) *Builder {
	b.config.MinBuffers = n
	return b
}

// BorderColor sets the letterbox border colour.
func (b *Builder) BorderColor(hex string) *Builder {
	b.config.BorderColor = hex
	return b
}

// Display selects the output.
func (b *Builder) Display(name string) *Builder {
	b.config.Display = name
	return b
}

// WindowSize sets the output window size.
func (b *Builder) WindowSize(width, height int) *Builder {
	b.config.Window.Width = width
	b.config.Window.Height = height
	return b
}

// MJPEGAddr sets the listen address of the MJPEG display.
func (b *Builder) MJPEGAddr(addr string) *Builder {
	b.config.MJPEGAddr = addr
	return b
}

// PNGDir sets the directory of the PNG display.
func (b *Builder) PNGDir(dir string) *Builder {
	b.config.PNGDir = dir
	return b
}

// Device replaces the device section.
func (b *Builder) Device(d DeviceConfig) *Builder {
	b.config.Device = d
	return b
}

// Realtime paces playback to sample timestamps.
func (b *Builder) Realtime(on bool) *Builder {
	b.config.Realtime = on
	return b
}

// LogLevel sets the log level name.
func (b *Builder) LogLevel(level string) *Builder {
	b.config.LogLevel = level
	return b
}
