package ports

import "github.com/user/vidrender/pkg/media"

// Windowing abstracts the host window system the renderer draws into.
type Windowing interface {
	// OutputWindow returns the renderer's own output window, if one exists.
	OutputWindow() (media.WindowHandle, bool)

	// DestinationRect returns the client rectangle of the output window.
	DestinationRect() media.Rect

	// ClientRect returns the client rectangle of an arbitrary window.
	ClientRect(w media.WindowHandle) (media.Rect, error)

	// IsWindow reports whether the handle refers to a live window.
	IsWindow(w media.WindowHandle) bool

	// MonitorFromWindow returns the monitor that contains most of the window.
	MonitorFromWindow(w media.WindowHandle) (media.MonitorID, bool)

	// Monitors enumerates the attached monitors.
	Monitors() ([]media.MonitorInfo, error)
}
