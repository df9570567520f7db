//go:build !sdl

package gamepad

import (
	"fmt"
	"strings"

	"github.com/0xcafed00d/joystick"
	"github.com/calvinmclean/vescpad"
)

// maxJoysticks is how many joystick IDs are probed when scanning
const maxJoysticks = 8

// axisLayout maps each vescpad.Axis to the driver's axis index
var axisLayout = [vescpad.NumAxes]int{0, 1, 2, 3}

type joystickHandle interface {
	Name() string
	Read() (joystick.State, error)
	Close()
}

type joystickSource struct {
	open         func(id int) (joystickHandle, error)
	calibrations calibrations
}

// NewSource creates a Source backed by the operating system joystick API
func NewSource() (Source, error) {
	return &joystickSource{
		open: func(id int) (joystickHandle, error) {
			return joystick.Open(id)
		},
	}, nil
}

// Devices probes every joystick ID and returns the ones that can be opened
func (s *joystickSource) Devices() []Info {
	var result []Info
	for id := range maxJoysticks {
		js, err := s.open(id)
		if err != nil {
			continue
		}
		result = append(result, Info{ID: id, Name: deviceName(js)})
		js.Close()
	}
	return result
}

func (s *joystickSource) Open(id int) (Device, error) {
	js, err := s.open(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d: %w", ErrNotFound, id, err)
	}
	return &joystickDevice{
		id:         id,
		name:       deviceName(js),
		js:         js,
		calibrator: s.calibrations.get(id),
	}, nil
}

// deviceName strips the NUL padding the Linux driver leaves after the name
func deviceName(js joystickHandle) string {
	return strings.TrimRight(js.Name(), "\x00")
}

func (s *joystickSource) Close() error {
	return nil
}

type joystickDevice struct {
	id         int
	name       string
	js         joystickHandle
	calibrator *Calibrator
	closed     bool
}

func (d *joystickDevice) ID() int {
	return d.id
}

func (d *joystickDevice) Name() string {
	return d.name
}

// Read returns the latest state. A read error means the device is gone and is reported as disconnected
func (d *joystickDevice) Read() Sample {
	if d.closed {
		return Sample{}
	}

	state, err := d.js.Read()
	if err != nil {
		return Sample{}
	}

	var raw [vescpad.NumAxes]int
	for i, idx := range axisLayout {
		if idx < len(state.AxisData) {
			raw[i] = state.AxisData[idx]
		}
	}

	return Sample{
		Axes:      d.calibrator.Observe(raw),
		Connected: true,
	}
}

func (d *joystickDevice) ConfigureAxis(axis vescpad.Axis) {
	d.calibrator.Begin(axis)
}

func (d *joystickDevice) ResetConfiguration() {
	d.calibrator.Reset()
}

func (d *joystickDevice) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.js.Close()
	return nil
}
