package main

import (
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidrender/pkg/adapters/logger"
	"github.com/user/vidrender/pkg/config"
	"github.com/user/vidrender/pkg/ports"
)

// Flag categories
var (
	catRenderer = l10n.T("Renderer")
	catOutput   = l10n.T("Output")
	catDevice   = l10n.T("Graphics Device")
	catLogging  = l10n.T("Logging")
)

// rendererFlags are shared by every command that drives the renderer.
func rendererFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), EnvVars: []string{"VIDRENDER_CONFIG"}},

		&cli.StringFlag{Name: "mode", Category: catRenderer, Usage: l10n.T("Rendering mode (windowed, windowless, renderless)")},
		&cli.StringFlag{Name: "aspect", Category: catRenderer, Usage: l10n.T("Aspect ratio mode (stretch, letterbox)")},
		&cli.IntFlag{Name: "buffers", Aliases: []string{"b"}, Category: catRenderer, Usage: l10n.T("Number of surfaces to allocate")},
		&cli.IntFlag{Name: "min-buffers", Category: catRenderer, Usage: l10n.T("Smallest acceptable number of surfaces")},
		&cli.StringFlag{Name: "border-color", Category: catRenderer, Usage: l10n.T("Letterbox border color (hex, e.g., #000000)")},

		&cli.StringFlag{Name: "display", Aliases: []string{"D"}, Category: catOutput, Usage: l10n.T("Display (x11, mjpeg, png, null)")},
		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Category: catOutput, Usage: l10n.T("Output window width")},
		&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Category: catOutput, Usage: l10n.T("Output window height")},
		&cli.StringFlag{Name: "mjpeg-addr", Category: catOutput, Usage: l10n.T("Listen address of the MJPEG display")},
		&cli.StringFlag{Name: "png-dir", Category: catOutput, Usage: l10n.T("Directory of the PNG display")},

		&cli.IntFlag{Name: "adapters", Category: catDevice, Usage: l10n.T("Number of emulated adapters")},
		&cli.IntFlag{Name: "max-surfaces", Category: catDevice, Usage: l10n.T("Surface limit per device (0 = unlimited)")},
		&cli.BoolFlag{Name: "pow2", Category: catDevice, Usage: l10n.T("Restrict textures to power-of-two sizes")},

		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: catLogging, Usage: l10n.T("Log level (debug, info, warn, error)")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Category: catLogging, Usage: l10n.T("Suppress all log output")},
	}
}

// buildConfig loads the configuration file, if any, and applies flags that
// were set explicitly on top of it.
func buildConfig(c *cli.Context, fs ports.FileSystem) (config.Config, error) {
	base := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(fs, path)
		if err != nil {
			return base, err
		}
		base = loaded
	}

	b := config.NewBuilder(base)
	if c.IsSet("mode") {
		b.Mode(c.String("mode"))
	}
	if c.IsSet("aspect") {
		b.AspectMode(c.String("aspect"))
	}
	if c.IsSet("buffers") {
		b.Buffers(c.Int("buffers"))
	}
	if c.IsSet("min-buffers") {
		b.MinBuffers(c.Int("min-buffers"))
	}
	if c.IsSet("border-color") {
		b.BorderColor(c.String("border-color"))
	}
	if c.IsSet("display") {
		b.Display(c.String("display"))
	}
	if c.IsSet("width") || c.IsSet("height") {
		w, h := base.Window.Width, base.Window.Height
		if c.IsSet("width") {
			w = c.Int("width")
		}
		if c.IsSet("height") {
			h = c.Int("height")
		}
		b.WindowSize(w, h)
	}
	if c.IsSet("mjpeg-addr") {
		b.MJPEGAddr(c.String("mjpeg-addr"))
	}
	if c.IsSet("png-dir") {
		b.PNGDir(c.String("png-dir"))
	}
	if c.IsSet("adapters") || c.IsSet("max-surfaces") || c.IsSet("pow2") {
		d := base.Device
		if c.IsSet("adapters") {
			d.Adapters = c.Int("adapters")
		}
		if c.IsSet("max-surfaces") {
			d.MaxSurfaces = c.Int("max-surfaces")
		}
		if c.IsSet("pow2") {
			d.Pow2Textures = c.Bool("pow2")
		}
		b.Device(d)
	}
	if c.IsSet("log-level") {
		b.LogLevel(c.String("log-level"))
	}
	if c.IsSet("realtime") {
		b.Realtime(c.Bool("realtime"))
	}

	return b.Build()
}

func newLogger(c *cli.Context, cfg config.Config) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(cfg.Level())
}
