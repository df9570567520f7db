//go:build !nogamepad

package padcontrol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinmclean/vescpad"
	"github.com/calvinmclean/vescpad/gamepad"
	"github.com/calvinmclean/vescpad/gamepad/gamepadtest"
)

const testPadName = "Test Pad"

type harness struct {
	pad      *Pad
	gp       *gamepadtest.Pad
	source   *gamepadtest.Source
	prefs    *memPrefs
	cmds     *recorder
	display  *fakeDisplay
	bars     *fakeBars
	notifier *fakeNotifier
}

// newHarness creates a Pad with cal saved in preferences and a connected gamepad matching the saved name
func newHarness(t *testing.T, cal Calibration) *harness {
	t.Helper()

	h := &harness{
		gp:       gamepadtest.NewPad(0, testPadName),
		prefs:    newMemPrefs(),
		cmds:     &recorder{},
		display:  &fakeDisplay{},
		bars:     &fakeBars{},
		notifier: &fakeNotifier{},
	}
	h.source = gamepadtest.NewSource(h.gp)

	cal.Save(h.prefs)
	h.prefs.SetString(KeyDeviceName, testPadName)

	h.pad = New(Config{
		Source:      h.source,
		Preferences: h.prefs,
		Display:     h.display,
		Bars:        h.bars,
		Notifier:    h.notifier,
	})
	h.pad.SetController(h.cmds)

	_, ok := h.pad.Device()
	require.True(t, ok)

	return h
}

func (h *harness) arm(t *testing.T) {
	t.Helper()
	h.pad.SetUseGamepadControl(true)
	require.True(t, h.pad.IsUsingGamepadControl())
}

func TestTickScenarios(t *testing.T) {
	tests := []struct {
		name      string
		calibrate func(*Calibration)
		axis      float64

		expectedCall     call
		expectedName     string
		expectedUnit     string
		expectedDecimals int
		expectedRange    float64
	}{
		{
			"ForwardCurrent",
			func(*Calibration) {},
			0.5,
			call{CommandCurrent, 22.5},
			"Current", " A", 2, 30,
		},
		{
			"BidirectionalBrake",
			func(c *Calibration) { c.Bidirectional = true },
			-0.4,
			call{CommandCurrentBrake, -8},
			"Current", " A", 2, 20,
		},
		{
			"Speed",
			func(c *Calibration) {
				c.Bidirectional = true
				c.Mode = vescpad.ControlModeSpeed
				c.ERPMMin = -5000
				c.ERPMMax = 20000
			},
			0.8,
			call{CommandRPM, 16000},
			"Speed", " ERPM", 0, 20000,
		},
		{
			"InvertedUnidirectional",
			func(c *Calibration) { c.Inverted = true },
			0.5,
			call{CommandCurrent, 7.5},
			"Current", " A", 2, 30,
		},
		{
			"InvertedBidirectional",
			func(c *Calibration) {
				c.Inverted = true
				c.Bidirectional = true
			},
			0.5,
			call{CommandCurrentBrake, -10},
			"Current", " A", 2, 20,
		},
		{
			"NoReverseNegative",
			func(c *Calibration) {
				c.Bidirectional = true
				c.Mode = vescpad.ControlModeCurrentNoReverse
			},
			-0.5,
			call{CommandCurrent, -10},
			"Current", " A", 2, 20,
		},
		{
			"Duty",
			func(c *Calibration) {
				c.Bidirectional = true
				c.Mode = vescpad.ControlModeDuty
			},
			-0.25,
			call{CommandDutyCycle, -0.25},
			"Duty", "", 2, 1,
		},
		{
			"Position",
			func(c *Calibration) { c.Mode = vescpad.ControlModePosition },
			0,
			call{CommandPosition, 180},
			"Position", " Degrees", 1, 360,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := scenarioCalibration()
			tt.calibrate(&cal)

			h := newHarness(t, cal)
			h.arm(t)

			h.gp.SetAxis(vescpad.AxisLeftX, tt.axis)
			h.pad.Tick()

			require.Len(t, h.cmds.calls, 1)
			assert.Equal(t, tt.expectedCall.Command, h.cmds.calls[0].Command)
			assert.InDelta(t, tt.expectedCall.Value, h.cmds.calls[0].Value, 1e-9)

			assert.Equal(t, tt.expectedName, h.display.Name)
			assert.Equal(t, tt.expectedUnit, h.display.Unit)
			assert.Equal(t, tt.expectedDecimals, h.display.Decimals)
			assert.InDelta(t, tt.expectedRange, h.display.Range, 1e-9)
			assert.InDelta(t, tt.expectedCall.Value, h.display.Val, 1e-9)
		})
	}
}

func TestTickUpdatesAxisBars(t *testing.T) {
	h := newHarness(t, scenarioCalibration())

	h.gp.SetAxis(vescpad.AxisLeftX, 0.1)
	h.gp.SetAxis(vescpad.AxisLeftY, -0.2)
	h.gp.SetAxis(vescpad.AxisRightX, 0.3)
	h.gp.SetAxis(vescpad.AxisRightY, -1)
	h.pad.Tick()

	assert.Equal(t, 4, h.bars.updates)
	assert.InDelta(t, 100, h.bars.values[vescpad.AxisLeftX], 1e-9)
	assert.InDelta(t, -200, h.bars.values[vescpad.AxisLeftY], 1e-9)
	assert.InDelta(t, 300, h.bars.values[vescpad.AxisRightX], 1e-9)
	assert.InDelta(t, -1000, h.bars.values[vescpad.AxisRightY], 1e-9)
}

func TestTickDisarmedOnlyDisplays(t *testing.T) {
	h := newHarness(t, scenarioCalibration())

	h.gp.SetAxis(vescpad.AxisLeftX, 0.5)
	h.pad.Tick()

	assert.Empty(t, h.cmds.calls)
	assert.Equal(t, 5, h.display.updates)
	assert.InDelta(t, 22.5, h.display.Val, 1e-9)
	assert.Equal(t, 4, h.bars.updates)
}

func TestTickWithoutDevice(t *testing.T) {
	prefs := newMemPrefs()
	display := &fakeDisplay{}
	bars := &fakeBars{}
	cmds := &recorder{}

	p := New(Config{
		Source:      gamepadtest.NewSource(),
		Preferences: prefs,
		Display:     display,
		Bars:        bars,
	})
	p.SetController(cmds)
	p.Tick()

	assert.Empty(t, cmds.calls)
	assert.Zero(t, display.updates)
	assert.Zero(t, bars.updates)
}

func TestTickWithoutController(t *testing.T) {
	h := newHarness(t, scenarioCalibration())
	h.arm(t)
	h.pad.SetController(nil)

	h.gp.SetAxis(vescpad.AxisLeftX, 0.5)
	assert.NotPanics(t, h.pad.Tick)
	assert.InDelta(t, 22.5, h.display.Val, 1e-9)
}

func TestTickCommandErrorKeepsRunning(t *testing.T) {
	h := newHarness(t, scenarioCalibration())
	h.arm(t)
	h.cmds.err = errors.New("write failed")

	h.pad.Tick()
	h.pad.Tick()

	assert.Len(t, h.cmds.calls, 2)
	assert.True(t, h.pad.IsUsingGamepadControl())
}

func TestCurrentBrakesAtZeroInput(t *testing.T) {
	cal := scenarioCalibration()
	cal.Bidirectional = true
	h := newHarness(t, cal)
	h.arm(t)

	h.pad.Tick()

	require.Len(t, h.cmds.calls, 1)
	assert.Equal(t, CommandCurrentBrake, h.cmds.calls[0].Command)
	assert.InDelta(t, 0, h.cmds.calls[0].Value, 1e-9)
	assert.InDelta(t, 30, h.display.Range, 1e-9)
}

func TestArmNotConfigured(t *testing.T) {
	cal := scenarioCalibration()
	cal.Configured = false
	h := newHarness(t, cal)

	h.pad.SetUseGamepadControl(true)
	assert.False(t, h.pad.IsUsingGamepadControl())
	assert.Equal(t, []string{messageTitle}, h.notifier.titles)
	assert.Equal(t, []string{"Gamepad control is not configured. Go to Settings->Gamepad to configure it."}, h.notifier.messages)

	h.gp.SetAxis(vescpad.AxisLeftX, 1)
	h.pad.Tick()
	assert.Empty(t, h.cmds.calls)
}

func TestArmWithoutDevice(t *testing.T) {
	prefs := newMemPrefs()
	cal := scenarioCalibration()
	cal.Save(prefs)
	notifier := &fakeNotifier{}

	p := New(Config{
		Source:      gamepadtest.NewSource(),
		Preferences: prefs,
		Notifier:    notifier,
	})

	p.SetUseGamepadControl(true)
	assert.False(t, p.IsUsingGamepadControl())
	assert.Equal(t, []string{"No recognized gamepad is connected."}, notifier.messages)
}

func TestArmWithoutNotifier(t *testing.T) {
	p := New(Config{
		Source:      gamepadtest.NewSource(),
		Preferences: newMemPrefs(),
	})

	assert.NotPanics(t, func() { p.SetUseGamepadControl(true) })
	assert.False(t, p.IsUsingGamepadControl())
}

func TestDisarm(t *testing.T) {
	h := newHarness(t, scenarioCalibration())
	h.arm(t)

	h.pad.SetUseGamepadControl(false)
	assert.False(t, h.pad.IsUsingGamepadControl())

	h.pad.Tick()
	assert.Empty(t, h.cmds.calls)
	assert.Empty(t, h.notifier.messages)
}

func TestDisconnectReleasesDevice(t *testing.T) {
	h := newHarness(t, scenarioCalibration())
	h.arm(t)

	h.gp.SetAxis(vescpad.AxisLeftX, 0.5)
	h.pad.Tick()
	require.Len(t, h.cmds.calls, 1)

	h.gp.Disconnect()
	h.pad.Tick()

	assert.Len(t, h.cmds.calls, 1, "no command on the disconnect tick")
	assert.False(t, h.gp.Open())
	assert.False(t, h.pad.IsUsingGamepadControl())
	_, ok := h.pad.Device()
	assert.False(t, ok)

	updates := h.display.updates
	h.pad.Tick()
	assert.Equal(t, updates, h.display.updates)
	assert.Len(t, h.cmds.calls, 1)
}

func TestConnectReplacesDevice(t *testing.T) {
	first := gamepadtest.NewPad(1, "First")
	second := gamepadtest.NewPad(2, "Second")
	p := New(Config{
		Source:      gamepadtest.NewSource(first, second),
		Preferences: newMemPrefs(),
	})

	_, ok := p.Device()
	require.False(t, ok)

	require.NoError(t, p.Connect(1))
	assert.True(t, first.Open())

	require.NoError(t, p.Connect(2))
	assert.False(t, first.Open())
	assert.True(t, second.Open())

	info, ok := p.Device()
	require.True(t, ok)
	assert.Equal(t, gamepad.Info{ID: 2, Name: "Second"}, info)
}

func TestConnectStartsDisarmed(t *testing.T) {
	h := newHarness(t, scenarioCalibration())
	h.arm(t)

	require.NoError(t, h.pad.Connect(0))
	assert.False(t, h.pad.IsUsingGamepadControl())
	assert.Equal(t, 2, h.gp.Opens)
	assert.Equal(t, 1, h.gp.Closes)
}

func TestConnectMissingDevice(t *testing.T) {
	h := newHarness(t, scenarioCalibration())

	err := h.pad.Connect(42)
	require.Error(t, err)
	assert.ErrorIs(t, err, gamepad.ErrNotFound)

	_, ok := h.pad.Device()
	assert.False(t, ok)
	assert.False(t, h.gp.Open())
}

func TestAutoAttachFirstMatch(t *testing.T) {
	other := gamepadtest.NewPad(0, "Other")
	first := gamepadtest.NewPad(1, testPadName)
	second := gamepadtest.NewPad(2, testPadName)

	prefs := newMemPrefs()
	prefs.SetString(KeyDeviceName, testPadName)

	p := New(Config{
		Source:      gamepadtest.NewSource(other, first, second),
		Preferences: prefs,
	})

	info, ok := p.Device()
	require.True(t, ok)
	assert.Equal(t, 1, info.ID)
	assert.False(t, other.Open())
	assert.True(t, first.Open())
	assert.False(t, second.Open())
	assert.False(t, p.IsUsingGamepadControl())
}

func TestAutoAttachNoSavedName(t *testing.T) {
	gp := gamepadtest.NewPad(0, testPadName)
	p := New(Config{
		Source:      gamepadtest.NewSource(gp),
		Preferences: newMemPrefs(),
	})

	_, ok := p.Device()
	assert.False(t, ok)
	assert.Zero(t, gp.Opens)
}

func TestScan(t *testing.T) {
	a := gamepadtest.NewPad(3, "A")
	b := gamepadtest.NewPad(5, "B")
	b.Disconnect()

	p := New(Config{
		Source:      gamepadtest.NewSource(a, b),
		Preferences: newMemPrefs(),
	})

	assert.Equal(t, []gamepad.Info{{ID: 3, Name: "A"}}, p.Scan())
}

func TestDeviceConfiguration(t *testing.T) {
	t.Run("WithDevice", func(t *testing.T) {
		h := newHarness(t, scenarioCalibration())

		h.pad.ConfigureAxis(vescpad.AxisRightY)
		h.pad.ResetConfiguration()

		assert.Equal(t, []vescpad.Axis{vescpad.AxisRightY}, h.gp.Configured)
		assert.Equal(t, 1, h.gp.Resets)
	})

	t.Run("WithoutDevice", func(t *testing.T) {
		p := New(Config{
			Source:      gamepadtest.NewSource(),
			Preferences: newMemPrefs(),
		})

		assert.NotPanics(t, func() {
			p.ConfigureAxis(vescpad.AxisLeftY)
			p.ResetConfiguration()
		})
	})
}

func TestClosePersists(t *testing.T) {
	h := newHarness(t, DefaultCalibration())

	h.pad.UpdateCalibration(func(c *Calibration) {
		c.Configured = true
		c.Inverted = true
		c.Axis = vescpad.AxisRightX
		c.Mode = vescpad.ControlModeSpeed
		c.ERPMMax = 12345
		c.RawMin = -800
	})
	expected := h.pad.Calibration()

	require.NoError(t, h.pad.Close())
	assert.False(t, h.gp.Open())
	assert.Equal(t, testPadName, h.prefs.StringWithFallback(KeyDeviceName, ""))

	reopened := New(Config{
		Source:      h.source,
		Preferences: h.prefs,
	})
	assert.Equal(t, expected, reopened.Calibration())

	_, ok := reopened.Device()
	assert.True(t, ok)
}

func TestCloseWithoutDeviceKeepsSavedName(t *testing.T) {
	prefs := newMemPrefs()
	prefs.SetString(KeyDeviceName, "Unplugged")

	p := New(Config{
		Source:      gamepadtest.NewSource(),
		Preferences: prefs,
	})
	require.NoError(t, p.Close())

	assert.Equal(t, "Unplugged", prefs.StringWithFallback(KeyDeviceName, ""))
	assert.Equal(t, false, prefs.values[KeyConfigured])
}

func TestMultiOutputs(t *testing.T) {
	d1, d2 := &fakeDisplay{}, &fakeDisplay{}
	b1, b2 := &fakeBars{}, &fakeBars{}

	gp := gamepadtest.NewPad(0, testPadName)
	gp.SetAxis(vescpad.AxisLeftY, 0.25)
	prefs := newMemPrefs()
	prefs.SetString(KeyDeviceName, testPadName)

	p := New(Config{
		Source:      gamepadtest.NewSource(gp),
		Preferences: prefs,
		Display:     MultiDisplay{d1, d2},
		Bars:        MultiAxisBars{b1, b2},
	})
	p.Tick()

	assert.Equal(t, d1, d2)
	assert.Equal(t, b1, b2)
	assert.InDelta(t, 250, b2.values[vescpad.AxisLeftY], 1e-9)
}
