package padcontrol

import (
	"math"

	"github.com/calvinmclean/vescpad"
	"github.com/calvinmclean/vescpad/gamepad"
)

// AxisScale converts a normalized axis reading to the unit shown on the axis bars and used by
// Calibration.RawMin/RawMax
const AxisScale = 1000.0

// CommandKind is the controller operation an Output is sent as
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandCurrent
	CommandCurrentBrake
	CommandDutyCycle
	CommandRPM
	CommandPosition
)

func (ck CommandKind) String() string {
	switch ck {
	case CommandCurrent:
		return "SetCurrent"
	case CommandCurrentBrake:
		return "SetCurrentBrake"
	case CommandDutyCycle:
		return "SetDutyCycle"
	case CommandRPM:
		return "SetRpm"
	case CommandPosition:
		return "SetPos"
	default:
		return "None"
	}
}

// Output is the result of mapping one gamepad sample through a Calibration
type Output struct {
	// Input is the remapped axis value, nominally in [-1, 1] or [0, 1]. It is not clamped
	Input float64
	// Value is Input scaled by Range, in the unit of the control mode
	Value float64
	Range float64

	Name     string
	Unit     string
	Decimals int

	Command CommandKind
}

// Map linearly maps x from [a, b] onto [c, d] without clamping
func Map(x, a, b, c, d float64) float64 {
	return c + (x-a)*(d-c)/(b-a)
}

// Remap converts a scaled axis reading to the control input range. A degenerate calibration (RawMin == RawMax)
// yields 0
func (c Calibration) Remap(ax float64) float64 {
	if c.RawMin == c.RawMax {
		return 0
	}
	lo := 0.0
	if c.Bidirectional {
		lo = -1.0
	}
	return Map(ax, c.RawMin, c.RawMax, lo, 1.0)
}

// Compute maps a sample to the output of the calibrated control mode
func (c Calibration) Compute(sample gamepad.Sample) Output {
	ax := sample.Axis(c.Axis) * AxisScale
	if c.Inverted {
		ax = -ax
	}

	input := c.Remap(ax)
	out := Output{
		Input:    input,
		Value:    input,
		Name:     "Undefined",
		Decimals: 2,
	}

	switch c.Mode {
	case vescpad.ControlModeCurrent, vescpad.ControlModeCurrentNoReverse:
		out.Range = signedRange(input, c.CurrentMin, c.CurrentMax)
		out.Value = input * out.Range
		out.Name = "Current"
		out.Unit = " A"

		out.Command = CommandCurrent
		if c.Mode == vescpad.ControlModeCurrent && out.Value <= 0 {
			out.Command = CommandCurrentBrake
		}
	case vescpad.ControlModeDuty:
		out.Range = 1.0
		out.Value = input * out.Range
		out.Name = "Duty"
		out.Command = CommandDutyCycle
	case vescpad.ControlModeSpeed:
		out.Range = signedRange(input, c.ERPMMin, c.ERPMMax)
		out.Value = input * out.Range
		out.Name = "Speed"
		out.Unit = " ERPM"
		out.Decimals = 0
		out.Command = CommandRPM
	case vescpad.ControlModePosition:
		out.Range = 360.0
		out.Value = input * out.Range
		out.Name = "Position"
		out.Unit = " Degrees"
		out.Decimals = 1
		out.Command = CommandPosition
	}

	return out
}

// signedRange picks the forward limit for non-negative input and the reverse limit otherwise
func signedRange(input, reverse, forward float64) float64 {
	if input >= 0 {
		return math.Abs(forward)
	}
	return math.Abs(reverse)
}

// Dispatch sends the output to the controller as its command kind
func (o Output) Dispatch(cmds Commands) error {
	switch o.Command {
	case CommandCurrent:
		return cmds.SetCurrent(o.Value)
	case CommandCurrentBrake:
		return cmds.SetCurrentBrake(o.Value)
	case CommandDutyCycle:
		return cmds.SetDutyCycle(o.Value)
	case CommandRPM:
		return cmds.SetRpm(o.Value)
	case CommandPosition:
		return cmds.SetPos(o.Value)
	}
	return nil
}

// Show pushes the output to a display
func (o Output) Show(d Display) {
	d.SetRange(o.Range)
	d.SetUnit(o.Unit)
	d.SetName(o.Name)
	d.SetDecimals(o.Decimals)
	d.SetVal(o.Value)
}
