package mocks

import (
	"fmt"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

// Windowing is a mock implementation of ports.Windowing.
type Windowing struct {
	Output    media.WindowHandle
	HasOutput bool
	Dest      media.Rect

	// Windows maps live windows to their client rectangles.
	Windows map[media.WindowHandle]media.Rect
	// MonitorOf maps windows to the monitor showing them.
	MonitorOf   map[media.WindowHandle]media.MonitorID
	MonitorList []media.MonitorInfo

	MonitorsFunc func() ([]media.MonitorInfo, error)
}

// NewWindowing creates a mock with an output window of the given size on monitor 0.
func NewWindowing(width, height int) *Windowing {
	return &Windowing{
		Output:    1,
		HasOutput: true,
		Dest:      media.NewRect(width, height),
		Windows:   map[media.WindowHandle]media.Rect{1: media.NewRect(width, height)},
		MonitorOf: map[media.WindowHandle]media.MonitorID{1: 0},
		MonitorList: []media.MonitorInfo{
			{ID: 0, Name: "mock-0", Bounds: media.NewRect(1920, 1080), Primary: true},
		},
	}
}

func (m *Windowing) OutputWindow() (media.WindowHandle, bool) {
	return m.Output, m.HasOutput
}

func (m *Windowing) DestinationRect() media.Rect {
	return m.Dest
}

func (m *Windowing) ClientRect(w media.WindowHandle) (media.Rect, error) {
	r, ok := m.Windows[w]
	if !ok {
		return media.Rect{}, fmt.Errorf("mocks: no window %d", w)
	}
	return r, nil
}

func (m *Windowing) IsWindow(w media.WindowHandle) bool {
	_, ok := m.Windows[w]
	return ok
}

func (m *Windowing) MonitorFromWindow(w media.WindowHandle) (media.MonitorID, bool) {
	id, ok := m.MonitorOf[w]
	return id, ok
}

func (m *Windowing) Monitors() ([]media.MonitorInfo, error) {
	if m.MonitorsFunc != nil {
		return m.MonitorsFunc()
	}
	return m.MonitorList, nil
}

var _ ports.Windowing = (*Windowing)(nil)
