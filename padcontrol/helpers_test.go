package padcontrol

import (
	"github.com/calvinmclean/vescpad"
)

// memPrefs is an in-memory Preferences
type memPrefs struct {
	values map[string]any
}

func newMemPrefs() *memPrefs {
	return &memPrefs{values: map[string]any{}}
}

func (m *memPrefs) BoolWithFallback(key string, fallback bool) bool {
	v, ok := m.values[key].(bool)
	if !ok {
		return fallback
	}
	return v
}

func (m *memPrefs) SetBool(key string, value bool) {
	m.values[key] = value
}

func (m *memPrefs) IntWithFallback(key string, fallback int) int {
	v, ok := m.values[key].(int)
	if !ok {
		return fallback
	}
	return v
}

func (m *memPrefs) SetInt(key string, value int) {
	m.values[key] = value
}

func (m *memPrefs) FloatWithFallback(key string, fallback float64) float64 {
	v, ok := m.values[key].(float64)
	if !ok {
		return fallback
	}
	return v
}

func (m *memPrefs) SetFloat(key string, value float64) {
	m.values[key] = value
}

func (m *memPrefs) StringWithFallback(key, fallback string) string {
	v, ok := m.values[key].(string)
	if !ok {
		return fallback
	}
	return v
}

func (m *memPrefs) SetString(key, value string) {
	m.values[key] = value
}

// scenarioCalibration is a completed calibration of the left X axis in current mode
func scenarioCalibration() Calibration {
	return Calibration{
		Configured: true,
		Axis:       vescpad.AxisLeftX,
		Mode:       vescpad.ControlModeCurrent,
		CurrentMin: -20,
		CurrentMax: 30,
		ERPMMin:    -10000,
		ERPMMax:    10000,
		RawMin:     -1000,
		RawMax:     1000,
	}
}

type call struct {
	Command CommandKind
	Value   float64
}

type recorder struct {
	calls []call
	err   error
}

func (r *recorder) record(ck CommandKind, v float64) error {
	r.calls = append(r.calls, call{ck, v})
	return r.err
}

func (r *recorder) SetCurrent(v float64) error      { return r.record(CommandCurrent, v) }
func (r *recorder) SetCurrentBrake(v float64) error { return r.record(CommandCurrentBrake, v) }
func (r *recorder) SetDutyCycle(v float64) error    { return r.record(CommandDutyCycle, v) }
func (r *recorder) SetRpm(v float64) error          { return r.record(CommandRPM, v) }
func (r *recorder) SetPos(v float64) error          { return r.record(CommandPosition, v) }

type fakeDisplay struct {
	Range    float64
	Unit     string
	Name     string
	Decimals int
	Val      float64

	updates int
}

func (d *fakeDisplay) SetRange(v float64) { d.Range = v; d.updates++ }
func (d *fakeDisplay) SetUnit(v string)   { d.Unit = v; d.updates++ }
func (d *fakeDisplay) SetName(v string)   { d.Name = v; d.updates++ }
func (d *fakeDisplay) SetDecimals(v int)  { d.Decimals = v; d.updates++ }
func (d *fakeDisplay) SetVal(v float64)   { d.Val = v; d.updates++ }

type fakeBars struct {
	values  [vescpad.NumAxes]float64
	updates int
}

func (b *fakeBars) SetAxis(axis vescpad.Axis, value float64) {
	b.values[axis] = value
	b.updates++
}

type fakeNotifier struct {
	titles   []string
	messages []string
}

func (n *fakeNotifier) ShowMessage(title, message string) {
	n.titles = append(n.titles, title)
	n.messages = append(n.messages, message)
}
