package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/user/vidrender/pkg/adapters/headless"
	"github.com/user/vidrender/pkg/adapters/mjpegdisplay"
	"github.com/user/vidrender/pkg/adapters/nulldisplay"
	"github.com/user/vidrender/pkg/adapters/pngdisplay"
	"github.com/user/vidrender/pkg/adapters/softgpu"
	"github.com/user/vidrender/pkg/adapters/x11display"
	"github.com/user/vidrender/pkg/config"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
	"github.com/user/vidrender/pkg/renderer"
)

// output is the display and window system selected by the configuration.
type output struct {
	display   ports.Display
	windowing ports.Windowing
	server    *http.Server
	logger    ports.Logger
}

func openOutput(cfg config.Config, fs ports.FileSystem, log ports.Logger) (*output, error) {
	o := &output{logger: log}

	switch cfg.Display {
	case config.DisplayX11:
		d, err := x11display.Open(x11display.Config{
			Title:  cfg.Window.Title,
			Width:  cfg.Window.Width,
			Height: cfg.Window.Height,
		}, log)
		if err != nil {
			return nil, err
		}
		o.display, o.windowing = d, d
		return o, nil

	case config.DisplayMJPEG:
		d := mjpegdisplay.New(cfg.MJPEGQuality, log)
		o.display = d
		o.server = &http.Server{
			Addr:              cfg.MJPEGAddr,
			Handler:           d.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := o.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("MJPEG server failed: %v", err)
			}
		}()
		log.Info("MJPEG stream at http://%s/stream", cfg.MJPEGAddr)

	case config.DisplayPNG:
		o.display = pngdisplay.New(cfg.PNGDir, fs, cfg.PNGEvery)

	case config.DisplayNull:
		o.display = nulldisplay.New()

	default:
		return nil, fmt.Errorf("%w: unknown display %q", media.ErrInvalidConfig, cfg.Display)
	}

	o.windowing = headless.New(cfg.Window.Width, cfg.Window.Height, virtualMonitors(cfg.Device.Adapters))
	return o, nil
}

// virtualMonitors lays out n full HD monitors side by side so that every
// emulated adapter has a monitor of its own.
func virtualMonitors(n int) []media.MonitorInfo {
	if n < 1 {
		n = 1
	}
	out := make([]media.MonitorInfo, n)
	for i := range out {
		out[i] = media.MonitorInfo{
			ID:      media.MonitorID(i),
			Name:    fmt.Sprintf("virtual-%d", i),
			Bounds:  media.Rect{Left: i * 1920, Right: (i + 1) * 1920, Bottom: 1080},
			Primary: i == 0,
		}
	}
	return out
}

// newRenderer builds the graphics system and a renderer configured from cfg.
func (o *output) newRenderer(cfg config.Config) (*renderer.Renderer, *softgpu.System, error) {
	opts, err := cfg.ToRendererOptions()
	if err != nil {
		return nil, nil, err
	}
	mode, err := cfg.RenderingMode()
	if err != nil {
		return nil, nil, err
	}

	sys := softgpu.NewSystem(softgpu.Config{
		Caps:     cfg.ToDeviceCaps(),
		Monitors: cfg.AdapterMonitors(),
	}, o.display, o.logger)

	r := renderer.New(sys, o.windowing, o.logger, opts)
	if err := r.SetRenderingMode(mode); err != nil {
		return nil, nil, err
	}
	if mode == renderer.ModeWindowless {
		if w, ok := o.windowing.OutputWindow(); ok {
			if err := r.SetVideoClippingWindow(w); err != nil {
				return nil, nil, err
			}
		}
	}
	return r, sys, nil
}

func (o *output) Close() error {
	err := o.display.Close()
	if o.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := o.server.Shutdown(ctx); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}
