package gamepad

import (
	"math"
	"sync"

	"github.com/calvinmclean/vescpad"
)

const (
	rawAxisMax = math.MaxInt16

	// minDeflection is how far from rest an axis must travel in both directions during a calibration pass
	minDeflection = 8192
	// restTolerance is how close to the resting value the axis must return to finish a pass
	restTolerance = minDeflection / 4
)

// AxisCalibration holds the raw endpoints and resting value of a single axis
type AxisCalibration struct {
	Min    int
	Center int
	Max    int
}

// DefaultAxisCalibration is the full symmetric range reported by the joystick drivers
var DefaultAxisCalibration = AxisCalibration{Min: -rawAxisMax, Center: 0, Max: rawAxisMax}

// Normalize converts a raw reading to [-1, 1] relative to the calibrated endpoints
func (ac AxisCalibration) Normalize(raw int) float64 {
	var v float64
	if raw >= ac.Center {
		span := ac.Max - ac.Center
		if span <= 0 {
			return 0
		}
		v = float64(raw-ac.Center) / float64(span)
	} else {
		span := ac.Center - ac.Min
		if span <= 0 {
			return 0
		}
		v = float64(raw-ac.Center) / float64(span)
	}
	return math.Max(-1, math.Min(1, v))
}

type calibrationPass struct {
	axis     vescpad.Axis
	rest     int
	min, max int
	started  bool
}

// Calibrator keeps the axis calibration of one gamepad and runs interactive calibration passes. It is shared by
// every handle opened for the same device ID so a calibration survives reconnects
type Calibrator struct {
	mu   sync.Mutex
	axes [vescpad.NumAxes]AxisCalibration
	pass *calibrationPass
}

// NewCalibrator creates a Calibrator with default calibration on every axis
func NewCalibrator() *Calibrator {
	c := &Calibrator{}
	c.Reset()
	return c
}

// Begin starts a calibration pass for the axis, replacing any pass in progress
func (c *Calibrator) Begin(axis vescpad.Axis) {
	if !axis.Valid() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pass = &calibrationPass{axis: axis}
}

// Reset restores the default calibration and cancels a pass in progress
func (c *Calibrator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.axes {
		c.axes[i] = DefaultAxisCalibration
	}
	c.pass = nil
}

// Calibrating returns the axis of the pass in progress, if any
func (c *Calibrator) Calibrating() (vescpad.Axis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pass == nil {
		return 0, false
	}
	return c.pass.axis, true
}

// Axis returns the current calibration of an axis
func (c *Calibrator) Axis(axis vescpad.Axis) AxisCalibration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !axis.Valid() {
		return DefaultAxisCalibration
	}
	return c.axes[axis]
}

// Observe feeds raw readings into a pass in progress and returns the normalized readings
func (c *Calibrator) Observe(raw [vescpad.NumAxes]int) [vescpad.NumAxes]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p := c.pass; p != nil {
		v := raw[p.axis]
		if !p.started {
			p.rest, p.min, p.max = v, v, v
			p.started = true
		}
		p.min = min(p.min, v)
		p.max = max(p.max, v)

		swept := p.rest-p.min >= minDeflection && p.max-p.rest >= minDeflection
		released := abs(v-p.rest) <= restTolerance
		if swept && released {
			c.axes[p.axis] = AxisCalibration{Min: p.min, Center: p.rest, Max: p.max}
			c.pass = nil
		}
	}

	var out [vescpad.NumAxes]float64
	for i, v := range raw {
		out[i] = c.axes[i].Normalize(v)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// calibrations shares Calibrators between handles of the same device ID
type calibrations struct {
	mu sync.Mutex
	m  map[int]*Calibrator
}

func (cs *calibrations) get(id int) *Calibrator {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.m == nil {
		cs.m = map[int]*Calibrator{}
	}
	c, ok := cs.m[id]
	if !ok {
		c = NewCalibrator()
		cs.m[id] = c
	}
	return c
}
