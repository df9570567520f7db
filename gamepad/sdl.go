//go:build sdl

package gamepad

import (
	"errors"
	"fmt"

	"github.com/calvinmclean/vescpad"
	"github.com/jupiterrider/purego-sdl3/sdl"
)

// axisLayout maps each vescpad.Axis to the SDL joystick axis index
var axisLayout = [vescpad.NumAxes]int32{0, 1, 2, 3}

type sdlSource struct {
	calibrations calibrations
}

// NewSource initializes the SDL3 joystick subsystem. All calls on the Source and its Devices must happen on the
// goroutine that created it
func NewSource() (Source, error) {
	if !sdl.Init(sdl.InitJoystick) {
		return nil, fmt.Errorf("error initializing SDL joystick subsystem: %s", sdl.GetError())
	}
	return &sdlSource{}, nil
}

// pump drains the SDL event queue so joystick state and hot-plug changes are picked up
func pump() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
	}
}

func (s *sdlSource) Devices() []Info {
	pump()

	var result []Info
	for _, id := range sdl.GetJoysticks() {
		js := sdl.OpenJoystick(id)
		if js == nil {
			continue
		}
		result = append(result, Info{ID: int(id), Name: sdl.GetJoystickName(js)})
		sdl.CloseJoystick(js)
	}
	return result
}

func (s *sdlSource) Open(id int) (Device, error) {
	pump()

	js := sdl.OpenJoystick(sdl.JoystickID(id))
	if js == nil {
		return nil, fmt.Errorf("%w: id %d: %w", ErrNotFound, id, errors.New(sdl.GetError()))
	}
	return &sdlDevice{
		id:         id,
		name:       sdl.GetJoystickName(js),
		js:         js,
		calibrator: s.calibrations.get(id),
	}, nil
}

func (s *sdlSource) Close() error {
	sdl.Quit()
	return nil
}

type sdlDevice struct {
	id         int
	name       string
	js         *sdl.Joystick
	calibrator *Calibrator
}

func (d *sdlDevice) ID() int {
	return d.id
}

func (d *sdlDevice) Name() string {
	return d.name
}

func (d *sdlDevice) Read() Sample {
	if d.js == nil {
		return Sample{}
	}

	pump()
	if !sdl.JoystickConnected(d.js) {
		return Sample{}
	}

	numAxes := sdl.GetNumJoystickAxes(d.js)
	var raw [vescpad.NumAxes]int
	for i, idx := range axisLayout {
		if idx < numAxes {
			raw[i] = int(sdl.GetJoystickAxis(d.js, idx))
		}
	}

	return Sample{
		Axes:      d.calibrator.Observe(raw),
		Connected: true,
	}
}

func (d *sdlDevice) ConfigureAxis(axis vescpad.Axis) {
	d.calibrator.Begin(axis)
}

func (d *sdlDevice) ResetConfiguration() {
	d.calibrator.Reset()
}

func (d *sdlDevice) Close() error {
	if d.js == nil {
		return nil
	}
	sdl.CloseJoystick(d.js)
	d.js = nil
	return nil
}
