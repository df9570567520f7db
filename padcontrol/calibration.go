package padcontrol

import "github.com/calvinmclean/vescpad"

// Preference keys for the gamepad calibration
const (
	KeyConfigured    = "js_is_configured"
	KeyInverted      = "js_is_inverted"
	KeyBidirectional = "js_is_bidirectional"
	KeyAxis          = "js_axis"
	KeyControlType   = "js_control_type"
	KeyCurrentMin    = "js_current_min"
	KeyCurrentMax    = "js_current_max"
	KeyERPMMin       = "js_erpm_min"
	KeyERPMMax       = "js_erpm_max"
	KeyRangeMin      = "js_range_min"
	KeyRangeMax      = "js_range_max"
	KeyDeviceName    = "js_name"
)

// Preferences is the persistent key/value store. fyne.Preferences satisfies it
type Preferences interface {
	BoolWithFallback(key string, fallback bool) bool
	SetBool(key string, value bool)
	IntWithFallback(key string, fallback int) int
	SetInt(key string, value int)
	FloatWithFallback(key string, fallback float64) float64
	SetFloat(key string, value float64)
	StringWithFallback(key, fallback string) string
	SetString(key, value string)
}

// Calibration is the operator-editable mapping from a gamepad axis to a motor command
type Calibration struct {
	// Configured is set by the operator once the calibration is complete. Gamepad control cannot be armed before
	Configured bool

	Inverted      bool
	Bidirectional bool
	Axis          vescpad.Axis
	Mode          vescpad.ControlMode

	// CurrentMin and CurrentMax are the reverse and forward current limits in amperes
	CurrentMin float64
	CurrentMax float64
	// ERPMMin and ERPMMax are the reverse and forward speed limits in electrical RPM
	ERPMMin float64
	ERPMMax float64
	// RawMin and RawMax are the endpoints of the selected axis, in AxisScale units
	RawMin float64
	RawMax float64
}

// DefaultCalibration returns the values used for keys that were never saved
func DefaultCalibration() Calibration {
	return Calibration{
		Axis:       vescpad.AxisLeftX,
		Mode:       vescpad.ControlModeCurrent,
		CurrentMin: -10,
		CurrentMax: 10,
		ERPMMin:    -10000,
		ERPMMax:    10000,
		RawMin:     -AxisScale,
		RawMax:     AxisScale,
	}
}

// Load overwrites every field that has a stored value. Missing keys and out-of-range axis or mode values leave the
// current field untouched
func (c *Calibration) Load(prefs Preferences) {
	c.Configured = prefs.BoolWithFallback(KeyConfigured, c.Configured)
	c.Inverted = prefs.BoolWithFallback(KeyInverted, c.Inverted)
	c.Bidirectional = prefs.BoolWithFallback(KeyBidirectional, c.Bidirectional)

	if axis := vescpad.Axis(prefs.IntWithFallback(KeyAxis, int(c.Axis))); axis.Valid() {
		c.Axis = axis
	}
	if mode := vescpad.ControlMode(prefs.IntWithFallback(KeyControlType, int(c.Mode))); mode.Valid() {
		c.Mode = mode
	}

	c.CurrentMin = prefs.FloatWithFallback(KeyCurrentMin, c.CurrentMin)
	c.CurrentMax = prefs.FloatWithFallback(KeyCurrentMax, c.CurrentMax)
	c.ERPMMin = prefs.FloatWithFallback(KeyERPMMin, c.ERPMMin)
	c.ERPMMax = prefs.FloatWithFallback(KeyERPMMax, c.ERPMMax)
	c.RawMin = prefs.FloatWithFallback(KeyRangeMin, c.RawMin)
	c.RawMax = prefs.FloatWithFallback(KeyRangeMax, c.RawMax)
}

// Save writes every field under its key
func (c Calibration) Save(prefs Preferences) {
	prefs.SetBool(KeyConfigured, c.Configured)
	prefs.SetBool(KeyInverted, c.Inverted)
	prefs.SetBool(KeyBidirectional, c.Bidirectional)
	prefs.SetInt(KeyAxis, int(c.Axis))
	prefs.SetInt(KeyControlType, int(c.Mode))
	prefs.SetFloat(KeyCurrentMin, c.CurrentMin)
	prefs.SetFloat(KeyCurrentMax, c.CurrentMax)
	prefs.SetFloat(KeyERPMMin, c.ERPMMin)
	prefs.SetFloat(KeyERPMMax, c.ERPMMax)
	prefs.SetFloat(KeyRangeMin, c.RawMin)
	prefs.SetFloat(KeyRangeMax, c.RawMax)
}
