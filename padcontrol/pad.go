// Package padcontrol maps gamepad stick movement onto motor controller commands. A Pad owns the calibration and the
// open gamepad handle and is driven by calling Tick every TickInterval from a single goroutine.
package padcontrol

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/calvinmclean/vescpad"
	"github.com/calvinmclean/vescpad/gamepad"
)

// TickInterval is the rate at which Tick is expected to be called
const TickInterval = 100 * time.Millisecond

const (
	messageTitle         = "Gamepad Control"
	messageNotConfigured = "Gamepad control is not configured. Go to Settings->Gamepad to configure it."
	messageNoGamepad     = "No recognized gamepad is connected."
)

// ErrUnsupported is returned by device operations when built without gamepad support
var ErrUnsupported = errors.New("built without gamepad support")

// Commands is the motor controller. Commands are fire-and-forget
type Commands interface {
	SetCurrent(amperes float64) error
	SetCurrentBrake(amperes float64) error
	SetDutyCycle(ratio float64) error
	SetRpm(erpm float64) error
	SetPos(degrees float64) error
}

// Display shows the mode-aware output of each tick
type Display interface {
	SetRange(float64)
	SetUnit(string)
	SetName(string)
	SetDecimals(int)
	SetVal(float64)
}

// AxisBars shows the raw reading of every axis, in AxisScale units
type AxisBars interface {
	SetAxis(axis vescpad.Axis, value float64)
}

// Notifier shows a modal message to the operator
type Notifier interface {
	ShowMessage(title, message string)
}

// Config has the collaborators of a Pad. Only Source and Preferences are required
type Config struct {
	Source      gamepad.Source
	Preferences Preferences
	Display     Display
	Bars        AxisBars
	Notifier    Notifier
	Logger      *slog.Logger
}

// Pad is the gamepad control state of the settings page
type Pad struct {
	source   gamepad.Source
	prefs    Preferences
	display  Display
	bars     AxisBars
	notifier Notifier
	logger   *slog.Logger

	commands Commands
	cal      Calibration

	// device and enabled only exist while a gamepad is attached
	device  gamepad.Device
	enabled bool
}

// New loads the calibration from preferences and attaches to the previously used gamepad if it is connected
func New(cfg Config) *Pad {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pad{
		source:   cfg.Source,
		prefs:    cfg.Preferences,
		display:  cfg.Display,
		bars:     cfg.Bars,
		notifier: cfg.Notifier,
		logger:   logger,
		cal:      DefaultCalibration(),
	}
	p.cal.Load(p.prefs)

	if Supported {
		p.autoAttach()
	}

	return p
}

// Calibration returns a copy of the current calibration
func (p *Pad) Calibration() Calibration {
	return p.cal
}

// UpdateCalibration edits the calibration in place. Changes are picked up by the next Tick
func (p *Pad) UpdateCalibration(update func(*Calibration)) {
	update(&p.cal)
}

// SetController attaches or detaches (nil) the motor controller. The controller is borrowed and never closed by the Pad
func (p *Pad) SetController(cmds Commands) {
	p.commands = cmds
}

// SetUseGamepadControl arms or disarms command output. Arming requires a completed calibration and an attached
// gamepad; otherwise the operator is notified and nothing changes. Disarming always succeeds
func (p *Pad) SetUseGamepadControl(use bool) {
	if !Supported {
		return
	}

	if !use {
		p.enabled = false
		return
	}

	switch {
	case !p.cal.Configured:
		p.notify(messageNotConfigured)
	case p.device == nil:
		p.notify(messageNoGamepad)
	default:
		p.enabled = true
		p.logger.Info("gamepad control armed", "device", p.device.Name(), "mode", p.cal.Mode.String())
	}
}

// IsUsingGamepadControl returns true while command output is armed
func (p *Pad) IsUsingGamepadControl() bool {
	if !Supported {
		return false
	}
	return p.enabled
}

func (p *Pad) notify(message string) {
	p.logger.Warn("gamepad control not armed", "reason", message)
	if p.notifier != nil {
		p.notifier.ShowMessage(messageTitle, message)
	}
}

// Tick samples the attached gamepad, sends one command if armed and updates the display. It does nothing while no
// gamepad is attached. A gamepad that reports disconnected is released
func (p *Pad) Tick() {
	if !Supported || p.device == nil {
		return
	}

	sample := p.device.Read()

	if p.bars != nil {
		for _, axis := range vescpad.Axes {
			p.bars.SetAxis(axis, sample.Axis(axis)*AxisScale)
		}
	}

	out := p.cal.Compute(sample)

	if p.enabled && p.commands != nil && sample.Connected {
		err := out.Dispatch(p.commands)
		if err != nil {
			p.logger.Debug("error sending command", "command", out.Command.String(), "value", out.Value, "error", err)
		}
	}

	if p.display != nil {
		out.Show(p.display)
	}

	if !sample.Connected {
		p.logger.Info("gamepad disconnected", "device", p.device.Name())
		p.release()
	}
}

// Scan returns the connected gamepads
func (p *Pad) Scan() []gamepad.Info {
	if !Supported {
		return nil
	}
	return p.source.Devices()
}

// Connect replaces the attached gamepad with the one with the given ID. The previous handle is released first, so a
// failed Connect leaves no gamepad attached
func (p *Pad) Connect(id int) error {
	if !Supported {
		return ErrUnsupported
	}

	p.release()

	device, err := p.source.Open(id)
	if err != nil {
		return fmt.Errorf("error connecting gamepad: %w", err)
	}
	p.attach(device)
	return nil
}

// Device returns the attached gamepad
func (p *Pad) Device() (gamepad.Info, bool) {
	if p.device == nil {
		return gamepad.Info{}, false
	}
	return gamepad.Info{ID: p.device.ID(), Name: p.device.Name()}, true
}

// ResetConfiguration clears the driver calibration of the attached gamepad
func (p *Pad) ResetConfiguration() {
	if p.device == nil {
		return
	}
	p.logger.Info("resetting gamepad configuration", "device", p.device.Name())
	p.device.ResetConfiguration()
}

// ConfigureAxis starts the driver calibration of one axis of the attached gamepad
func (p *Pad) ConfigureAxis(axis vescpad.Axis) {
	if p.device == nil {
		return
	}
	p.logger.Info("configuring gamepad axis", "device", p.device.Name(), "axis", axis.String())
	p.device.ConfigureAxis(axis)
}

// Close saves the calibration and the attached gamepad name, then releases the gamepad
func (p *Pad) Close() error {
	p.cal.Save(p.prefs)
	if p.device != nil {
		p.prefs.SetString(KeyDeviceName, p.device.Name())
	}
	p.release()
	return nil
}

// autoAttach opens the first connected gamepad whose name matches the saved one
func (p *Pad) autoAttach() {
	name := p.prefs.StringWithFallback(KeyDeviceName, "")
	if name == "" {
		return
	}

	for _, info := range p.source.Devices() {
		if info.Name != name {
			continue
		}
		device, err := p.source.Open(info.ID)
		if err != nil {
			p.logger.Warn("error opening saved gamepad", "device", name, "error", err)
			return
		}
		p.attach(device)
		return
	}
}

func (p *Pad) attach(device gamepad.Device) {
	p.device = device
	p.enabled = false
	p.logger.Info("gamepad attached", "device", device.Name(), "id", device.ID())
}

// release closes the attached gamepad and ends its session
func (p *Pad) release() {
	if p.device == nil {
		return
	}
	err := p.device.Close()
	if err != nil {
		p.logger.Warn("error closing gamepad", "device", p.device.Name(), "error", err)
	}
	p.device = nil
	p.enabled = false
}
