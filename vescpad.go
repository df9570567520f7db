package vescpad

// ControlMode selects which motor command the gamepad output is sent as
type ControlMode int

const (
	ControlModeCurrent ControlMode = iota
	ControlModeCurrentNoReverse
	ControlModeDuty
	ControlModeSpeed
	ControlModePosition
)

// ControlModes lists every mode in selector order. The index of a mode in this slice is the value persisted
// under the control type preference
var ControlModes = []ControlMode{
	ControlModeCurrent,
	ControlModeCurrentNoReverse,
	ControlModeDuty,
	ControlModeSpeed,
	ControlModePosition,
}

func (cm ControlMode) String() string {
	switch cm {
	case ControlModeCurrent:
		return "Current"
	case ControlModeCurrentNoReverse:
		return "Current No Reverse"
	case ControlModeDuty:
		return "Duty Cycle"
	case ControlModeSpeed:
		return "Speed"
	case ControlModePosition:
		return "Position"
	default:
		return "Undefined"
	}
}

// Valid returns true if the mode is one of the known ControlModes
func (cm ControlMode) Valid() bool {
	return cm >= ControlModeCurrent && cm <= ControlModePosition
}

// Axis is one of the four analog stick axes of a gamepad
type Axis int

const (
	AxisLeftX Axis = iota
	AxisLeftY
	AxisRightX
	AxisRightY
)

// NumAxes is the number of analog axes read from a gamepad
const NumAxes = 4

// Axes lists every axis in selector order
var Axes = []Axis{AxisLeftX, AxisLeftY, AxisRightX, AxisRightY}

func (a Axis) String() string {
	switch a {
	case AxisLeftX:
		return "Left X"
	case AxisLeftY:
		return "Left Y"
	case AxisRightX:
		return "Right X"
	case AxisRightY:
		return "Right Y"
	default:
		return "Unknown"
	}
}

// Valid returns true if the axis is one of the four known Axes
func (a Axis) Valid() bool {
	return a >= AxisLeftX && a <= AxisRightY
}
