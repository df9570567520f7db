// Package gamepadtest provides in-memory gamepads for tests
package gamepadtest

import (
	"fmt"

	"github.com/calvinmclean/vescpad"
	"github.com/calvinmclean/vescpad/gamepad"
)

// Pad is a fake gamepad. Tests change Sample between ticks to simulate stick movement and disconnects
type Pad struct {
	Info   gamepad.Info
	Sample gamepad.Sample

	Configured []vescpad.Axis
	Resets     int
	Opens      int
	Closes     int
}

// NewPad creates a connected Pad with all axes centered
func NewPad(id int, name string) *Pad {
	return &Pad{
		Info:   gamepad.Info{ID: id, Name: name},
		Sample: gamepad.Sample{Connected: true},
	}
}

// SetAxis sets one normalized axis reading
func (p *Pad) SetAxis(axis vescpad.Axis, v float64) {
	p.Sample.Axes[axis] = v
}

// Disconnect makes the next reads report a disconnected device
func (p *Pad) Disconnect() {
	p.Sample = gamepad.Sample{}
}

// Open reports whether a handle to this Pad is currently open
func (p *Pad) Open() bool {
	return p.Opens > p.Closes
}

// Source is a fake gamepad.Source over a fixed set of Pads
type Source struct {
	Pads   []*Pad
	Closed bool
}

var _ gamepad.Source = &Source{}

// NewSource creates a Source with the provided Pads connected
func NewSource(pads ...*Pad) *Source {
	return &Source{Pads: pads}
}

// Devices implements gamepad.Source
func (s *Source) Devices() []gamepad.Info {
	var result []gamepad.Info
	for _, p := range s.Pads {
		if p.Sample.Connected {
			result = append(result, p.Info)
		}
	}
	return result
}

// Open implements gamepad.Source
func (s *Source) Open(id int) (gamepad.Device, error) {
	for _, p := range s.Pads {
		if p.Info.ID == id && p.Sample.Connected {
			p.Opens++
			return &device{pad: p}, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", gamepad.ErrNotFound, id)
}

// Close implements gamepad.Source
func (s *Source) Close() error {
	s.Closed = true
	return nil
}

type device struct {
	pad    *Pad
	closed bool
}

func (d *device) ID() int {
	return d.pad.Info.ID
}

func (d *device) Name() string {
	return d.pad.Info.Name
}

func (d *device) Read() gamepad.Sample {
	if d.closed {
		return gamepad.Sample{}
	}
	return d.pad.Sample
}

func (d *device) ConfigureAxis(axis vescpad.Axis) {
	d.pad.Configured = append(d.pad.Configured, axis)
}

func (d *device) ResetConfiguration() {
	d.pad.Resets++
}

func (d *device) Close() error {
	if !d.closed {
		d.closed = true
		d.pad.Closes++
	}
	return nil
}
