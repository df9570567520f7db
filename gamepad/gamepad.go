// Package gamepad reads analog sticks from connected gamepads. The default backend uses the Linux/Windows joystick
// API through github.com/0xcafed00d/joystick; building with the "sdl" tag switches to SDL3.
package gamepad

import (
	"errors"

	"github.com/calvinmclean/vescpad"
)

// ErrNotFound is returned when opening a device ID that is not connected
var ErrNotFound = errors.New("gamepad not found")

// Info identifies a connected gamepad
type Info struct {
	ID   int
	Name string
}

// Sample is a single reading of a gamepad. Axes are normalized to [-1, 1] and indexed by vescpad.Axis
type Sample struct {
	Axes      [vescpad.NumAxes]float64
	Connected bool
}

// Axis returns the reading of a single axis, or 0 for an invalid axis
func (s Sample) Axis(a vescpad.Axis) float64 {
	if !a.Valid() {
		return 0
	}
	return s.Axes[a]
}

// Source enumerates and opens gamepads
type Source interface {
	Devices() []Info
	Open(id int) (Device, error)
	Close() error
}

// Device is an open handle to one gamepad. It is owned by whoever opened it and must be closed
type Device interface {
	ID() int
	Name() string
	Read() Sample

	// ConfigureAxis starts an interactive calibration pass for one axis. The pass completes once the axis has been
	// pushed to both ends and released
	ConfigureAxis(axis vescpad.Axis)
	// ResetConfiguration drops any axis calibration for this device
	ResetConfiguration()

	Close() error
}
