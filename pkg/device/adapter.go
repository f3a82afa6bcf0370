package device

import (
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// SelectAdapter returns the adapter driving the monitor that shows the
// window, falling back to adapter 0.
func SelectAdapter(gs ports.GraphicsSystem, windowing ports.Windowing, w media.WindowHandle) (int, media.MonitorID) {
	if windowing == nil {
		return 0, gs.AdapterMonitor(0)
	}
	mon, ok := windowing.MonitorFromWindow(w)
	if !ok {
		return 0, gs.AdapterMonitor(0)
	}
	for i := 0; i < gs.AdapterCount(); i++ {
		if gs.AdapterMonitor(i) == mon {
			return i, mon
		}
	}
	return 0, gs.AdapterMonitor(0)
}
