// Package x11display provides the output window over an X11 connection.
// It implements ports.Windowing for the renderer and ports.Display for the
// graphics device.
package x11display

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("x11display: display closed")

// Config configures the output window.
type Config struct {
	Title  string
	Width  int
	Height int
}

// Display owns one X11 connection and one output window.
type Display struct {
	logger ports.Logger

	mu       sync.Mutex
	conn     *xgb.Conn
	screen   *xproto.ScreenInfo
	format   pixmapFormat
	maxReq   int
	window   xproto.Window
	gc       xproto.Gcontext
	xinerama bool
	closed   bool
}

// Open connects to the X server named by $DISPLAY and maps the output window.
func Open(cfg Config, logger ports.Logger) (*Display, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("x11display: invalid window size %dx%d", cfg.Width, cfg.Height)
	}

	d, err := dial(logger.WithComponent("x11"))
	if err != nil {
		return nil, err
	}
	if err := d.createWindow(cfg); err != nil {
		d.conn.Close()
		return nil, err
	}

	d.logger.Info("Output window %d created %dx%d", d.window, cfg.Width, cfg.Height)
	return d, nil
}

// ListMonitors connects to the X server only long enough to list its monitors.
func ListMonitors(logger ports.Logger) ([]media.MonitorInfo, error) {
	d, err := dial(logger.WithComponent("x11"))
	if err != nil {
		return nil, err
	}
	defer d.conn.Close()
	return d.Monitors()
}

func dial(logger ports.Logger) (*Display, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11display: connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	d := &Display{
		logger: logger,
		conn:   conn,
		screen: screen,
		maxReq: int(setup.MaximumRequestLength),
	}

	found := false
	for _, f := range setup.PixmapFormats {
		if f.Depth == screen.RootDepth {
			d.format = pixmapFormat{Depth: f.Depth, BitsPerPixel: f.BitsPerPixel, ScanlinePad: f.ScanlinePad}
			found = true
			break
		}
	}
	if !found {
		conn.Close()
		return nil, fmt.Errorf("x11display: no pixmap format for depth %d", screen.RootDepth)
	}

	if err := xinerama.Init(conn); err != nil {
		logger.Debug("Xinerama unavailable: %v", err)
	} else {
		d.xinerama = true
	}
	return d, nil
}

func (d *Display) createWindow(cfg Config) error {
	wid, err := xproto.NewWindowId(d.conn)
	if err != nil {
		return fmt.Errorf("x11display: window id: %w", err)
	}
	mask := uint32(xproto.CwBackPixel | xproto.CwEventMask)
	values := []uint32{
		d.screen.BlackPixel,
		xproto.EventMaskExposure | xproto.EventMaskStructureNotify,
	}
	err = xproto.CreateWindowChecked(d.conn, d.screen.RootDepth, wid, d.screen.Root,
		0, 0, uint16(cfg.Width), uint16(cfg.Height), 0,
		xproto.WindowClassInputOutput, d.screen.RootVisual, mask, values).Check()
	if err != nil {
		return fmt.Errorf("x11display: create window: %w", err)
	}
	d.window = wid

	if cfg.Title != "" {
		if err := d.setTitle(cfg.Title); err != nil {
			d.logger.Warn("Cannot set window title: %v", err)
		}
	}

	if err := xproto.MapWindowChecked(d.conn, wid).Check(); err != nil {
		return fmt.Errorf("x11display: map window: %w", err)
	}

	gc, err := xproto.NewGcontextId(d.conn)
	if err != nil {
		return fmt.Errorf("x11display: gc id: %w", err)
	}
	if err := xproto.CreateGCChecked(d.conn, gc, xproto.Drawable(wid), 0, nil).Check(); err != nil {
		return fmt.Errorf("x11display: create gc: %w", err)
	}
	d.gc = gc
	d.conn.Sync()
	return nil
}

func (d *Display) setTitle(title string) error {
	name, err := d.atom("_NET_WM_NAME")
	if err != nil {
		return err
	}
	utf8, err := d.atom("UTF8_STRING")
	if err != nil {
		return err
	}
	return xproto.ChangePropertyChecked(d.conn, xproto.PropModeReplace, d.window,
		name, utf8, 8, uint32(len(title)), []byte(title)).Check()
}

func (d *Display) atom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(d.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("x11display: intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

// Flip draws the image into the output window, split into bands that fit
// the server's request size.
func (d *Display) Flip(img *image.RGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}

	data, stride, err := packZPixmap(img, d.format)
	if err != nil {
		return err
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	rows := bandRows(stride, d.maxReq)
	for y := 0; y < h; y += rows {
		n := rows
		if y+n > h {
			n = h - y
		}
		band := data[y*stride : (y+n)*stride]
		err := xproto.PutImageChecked(d.conn, xproto.ImageFormatZPixmap, xproto.Drawable(d.window), d.gc,
			uint16(w), uint16(n), 0, int16(y), 0, d.format.Depth, band).Check()
		if err != nil {
			return fmt.Errorf("x11display: put image rows %d-%d: %w", y, y+n, err)
		}
	}
	d.conn.Sync()
	return nil
}

// Close destroys the window and closes the connection.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	xproto.FreeGC(d.conn, d.gc)
	xproto.DestroyWindow(d.conn, d.window)
	d.conn.Sync()
	d.conn.Close()
	d.logger.Debug("Output window %d destroyed", d.window)
	return nil
}

var _ ports.Display = (*Display)(nil)
