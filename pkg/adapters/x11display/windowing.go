package x11display

import (
	"fmt"

	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// OutputWindow returns the window created by Open.
func (d *Display) OutputWindow() (media.WindowHandle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, false
	}
	return media.WindowHandle(d.window), true
}

// DestinationRect returns the client area of the output window.
func (d *Display) DestinationRect() media.Rect {
	w, ok := d.OutputWindow()
	if !ok {
		return media.Rect{}
	}
	r, err := d.ClientRect(w)
	if err != nil {
		d.logger.Warn("Cannot read output window geometry: %v", err)
		return media.Rect{}
	}
	return r
}

// ClientRect returns the window size as a rect at the origin.
func (d *Display) ClientRect(w media.WindowHandle) (media.Rect, error) {
	geom, err := xproto.GetGeometry(d.conn, xproto.Drawable(w)).Reply()
	if err != nil {
		return media.Rect{}, fmt.Errorf("x11display: geometry of window %d: %w", w, err)
	}
	return media.NewRect(int(geom.Width), int(geom.Height)), nil
}

func (d *Display) IsWindow(w media.WindowHandle) bool {
	if w == 0 {
		return false
	}
	_, err := xproto.GetWindowAttributes(d.conn, xproto.Window(w)).Reply()
	return err == nil
}

// MonitorFromWindow returns the monitor containing the centre of the window.
func (d *Display) MonitorFromWindow(w media.WindowHandle) (media.MonitorID, bool) {
	geom, err := xproto.GetGeometry(d.conn, xproto.Drawable(w)).Reply()
	if err != nil {
		return 0, false
	}
	origin, err := xproto.TranslateCoordinates(d.conn, xproto.Window(w), d.screen.Root, 0, 0).Reply()
	if err != nil {
		return 0, false
	}
	monitors, err := d.Monitors()
	if err != nil {
		return 0, false
	}
	cx := int(origin.DstX) + int(geom.Width)/2
	cy := int(origin.DstY) + int(geom.Height)/2
	return media.MonitorAt(monitors, cx, cy)
}

// Monitors lists Xinerama heads, or the whole root window when Xinerama is
// not active. The first monitor is primary.
func (d *Display) Monitors() ([]media.MonitorInfo, error) {
	if d.xinerama {
		reply, err := xinerama.QueryScreens(d.conn).Reply()
		if err == nil && len(reply.ScreenInfo) > 0 {
			out := make([]media.MonitorInfo, 0, len(reply.ScreenInfo))
			for i, s := range reply.ScreenInfo {
				out = append(out, media.MonitorInfo{
					ID:   media.MonitorID(i),
					Name: fmt.Sprintf("xinerama-%d", i),
					Bounds: media.Rect{
						Left:   int(s.XOrg),
						Top:    int(s.YOrg),
						Right:  int(s.XOrg) + int(s.Width),
						Bottom: int(s.YOrg) + int(s.Height),
					},
					Primary: i == 0,
				})
			}
			return out, nil
		}
		if err != nil {
			d.logger.Debug("Xinerama query failed: %v", err)
		}
	}
	return []media.MonitorInfo{{
		ID:      0,
		Name:    "screen-0",
		Bounds:  media.NewRect(int(d.screen.WidthInPixels), int(d.screen.HeightInPixels)),
		Primary: true,
	}}, nil
}

var _ ports.Windowing = (*Display)(nil)
