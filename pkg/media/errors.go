package media

import "errors"

var (
	// ErrNotReady is returned when an operation needs a connected renderer.
	ErrNotReady = errors.New("media: renderer not connected")

	// ErrWrongState is returned when an operation is not allowed in the current state.
	ErrWrongState = errors.New("media: operation not allowed in current state")

	// ErrInvalidConfig is returned for invalid mode, buffer count or window settings.
	ErrInvalidConfig = errors.New("media: invalid configuration")

	// ErrTypeNotAccepted is returned when a media type is rejected.
	ErrTypeNotAccepted = errors.New("media: media type not accepted")

	// ErrNegotiation is returned when a surface pool cannot be negotiated.
	ErrNegotiation = errors.New("media: surface negotiation failed")

	// ErrCapsNotSuitable is returned when the device lacks a required capability.
	ErrCapsNotSuitable = errors.New("media: device capabilities not suitable")

	// ErrCopy is returned when a frame could not be copied into a surface.
	ErrCopy = errors.New("media: frame copy failed")

	// ErrDeviceLost is returned when the GPU device has been lost.
	ErrDeviceLost = errors.New("media: device lost")

	// ErrNoDevice is returned when an operation needs a device and none is held.
	ErrNoDevice = errors.New("media: no device")
)
