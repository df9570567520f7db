package ui

import (
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/vescpad"
	"github.com/calvinmclean/vescpad/gamepad"
	"github.com/calvinmclean/vescpad/padcontrol"
)

// Preference keys for the application scale. They are written as soon as they are edited
const (
	KeyScaleFactor = "app_scale_factor"
	KeyScaleAuto   = "app_scale_auto"
)

const noGamepadText = "No gamepad connected"

// SettingsConfig has the collaborators of the settings page. Display and Bars receive every update in addition to
// the page's own widgets and may be nil
type SettingsConfig struct {
	Source  gamepad.Source
	Display padcontrol.Display
	Bars    padcontrol.AxisBars
	Logger  *slog.Logger
}

// SettingsPage edits the application preferences and the gamepad calibration and owns the gamepad control loop
type SettingsPage struct {
	prefs  fyne.Preferences
	window fyne.Window
	logger *slog.Logger

	pad    *padcontrol.Pad
	gauge  *Gauge
	bars   *AxisBars
	ticker *ticker

	// OnTick is called after every pipeline tick
	OnTick func()

	scaleEntry *widget.Entry
	scaleAuto  *widget.Check

	deviceSelect *widget.Select
	devices      map[string]int
	deviceStatus *widget.Label

	configured    *widget.Check
	inverted      *widget.Check
	bidirectional *widget.Check
	axisSelect    *widget.Select
	modeSelect    *widget.Select
	rangeEntries  map[string]*widget.Entry

	content fyne.CanvasObject
}

func NewSettingsPage(app fyne.App, window fyne.Window, cfg SettingsConfig) *SettingsPage {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &SettingsPage{
		prefs:   app.Preferences(),
		window:  window,
		logger:  logger,
		gauge:   NewGauge(),
		bars:    NewAxisBars(),
		ticker:  newTicker(padcontrol.TickInterval),
		devices: map[string]int{},
	}

	display := padcontrol.MultiDisplay{p.gauge}
	if cfg.Display != nil {
		display = append(display, cfg.Display)
	}
	bars := padcontrol.MultiAxisBars{p.bars}
	if cfg.Bars != nil {
		bars = append(bars, cfg.Bars)
	}

	p.pad = padcontrol.New(padcontrol.Config{
		Source:      cfg.Source,
		Preferences: p.prefs,
		Display:     display,
		Bars:        bars,
		Notifier:    dialogNotifier{window},
		Logger:      logger,
	})

	sections := []fyne.CanvasObject{p.scaleSection()}
	if padcontrol.Supported {
		sections = append(sections, p.deviceSection(), p.calibrationSection(), p.outputSection())
	} else {
		sections = append(sections, widget.NewCard("Gamepad", "", widget.NewLabel("Built without gamepad support")))
	}
	p.content = container.NewVScroll(container.NewVBox(sections...))

	return p
}

// Pad returns the gamepad control state
func (p *SettingsPage) Pad() *padcontrol.Pad {
	return p.pad
}

func (p *SettingsPage) Content() fyne.CanvasObject {
	return p.content
}

// Start begins ticking the gamepad pipeline
func (p *SettingsPage) Start() {
	p.ticker.Go(p.tick)
}

func (p *SettingsPage) tick() {
	p.pad.Tick()
	p.refreshDeviceStatus()
	if p.OnTick != nil {
		p.OnTick()
	}
}

// Close stops the pipeline and saves the calibration
func (p *SettingsPage) Close() error {
	p.ticker.Stop()
	return p.pad.Close()
}

func (p *SettingsPage) scaleSection() fyne.CanvasObject {
	p.scaleEntry = widget.NewEntry()
	p.scaleEntry.SetText(strconv.FormatFloat(p.prefs.FloatWithFallback(KeyScaleFactor, 1), 'f', -1, 64))
	p.scaleEntry.OnChanged = func(s string) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return
		}
		p.prefs.SetFloat(KeyScaleFactor, v)
	}

	p.scaleAuto = widget.NewCheck("Automatic", nil)
	p.scaleAuto.SetChecked(p.prefs.BoolWithFallback(KeyScaleAuto, true))
	p.setScaleEntryEnabled(!p.scaleAuto.Checked)
	p.scaleAuto.OnChanged = func(auto bool) {
		p.prefs.SetBool(KeyScaleAuto, auto)
		p.setScaleEntryEnabled(!auto)
	}

	return widget.NewCard("User Interface", "Applied on restart", widget.NewForm(
		widget.NewFormItem("Scale", p.scaleEntry),
		widget.NewFormItem("", p.scaleAuto),
	))
}

func (p *SettingsPage) setScaleEntryEnabled(enabled bool) {
	if enabled {
		p.scaleEntry.Enable()
	} else {
		p.scaleEntry.Disable()
	}
}

func (p *SettingsPage) deviceSection() fyne.CanvasObject {
	p.deviceSelect = widget.NewSelect(nil, nil)
	p.deviceSelect.PlaceHolder = "Select a gamepad"
	p.deviceStatus = widget.NewLabel(noGamepadText)
	p.refreshDeviceStatus()

	scan := widget.NewButton("Scan", p.Scan)
	connect := widget.NewButton("Connect", p.connectSelected)
	reset := widget.NewButton("Reset Configuration", p.pad.ResetConfiguration)

	configure := container.NewGridWithColumns(len(vescpad.Axes))
	for _, axis := range vescpad.Axes {
		configure.Add(widget.NewButton("Configure "+axis.String(), func() {
			p.pad.ConfigureAxis(axis)
		}))
	}

	p.Scan()

	return widget.NewCard("Gamepad", "", container.NewVBox(
		container.NewBorder(nil, nil, nil, container.NewHBox(scan, connect), p.deviceSelect),
		p.deviceStatus,
		configure,
		reset,
	))
}

// Scan refreshes the list of connected gamepads
func (p *SettingsPage) Scan() {
	p.devices = map[string]int{}
	var options []string
	for _, info := range p.pad.Scan() {
		option := fmt.Sprintf("%s (%d)", info.Name, info.ID)
		p.devices[option] = info.ID
		options = append(options, option)
	}

	p.deviceSelect.Options = options
	if _, ok := p.devices[p.deviceSelect.Selected]; !ok {
		p.deviceSelect.ClearSelected()
	}
	p.deviceSelect.Refresh()
}

func (p *SettingsPage) connectSelected() {
	id, ok := p.devices[p.deviceSelect.Selected]
	if !ok {
		return
	}

	err := p.pad.Connect(id)
	p.refreshDeviceStatus()
	if err != nil {
		dialog.ShowError(err, p.window)
	}
}

func (p *SettingsPage) refreshDeviceStatus() {
	if p.deviceStatus == nil {
		return
	}
	text := noGamepadText
	if info, ok := p.pad.Device(); ok {
		text = "Connected: " + info.Name
	}
	if p.deviceStatus.Text != text {
		p.deviceStatus.SetText(text)
	}
}

func (p *SettingsPage) calibrationSection() fyne.CanvasObject {
	cal := p.pad.Calibration()

	p.configured = p.newCalibrationCheck("Configuration complete", cal.Configured, func(c *padcontrol.Calibration, v bool) {
		c.Configured = v
	})
	p.inverted = p.newCalibrationCheck("Inverted", cal.Inverted, func(c *padcontrol.Calibration, v bool) {
		c.Inverted = v
	})
	p.bidirectional = p.newCalibrationCheck("Bidirectional", cal.Bidirectional, func(c *padcontrol.Calibration, v bool) {
		c.Bidirectional = v
	})

	axisOptions := make([]string, len(vescpad.Axes))
	for i, axis := range vescpad.Axes {
		axisOptions[i] = axis.String()
	}
	p.axisSelect = widget.NewSelect(axisOptions, nil)
	p.axisSelect.SetSelectedIndex(int(cal.Axis))
	p.axisSelect.OnChanged = func(string) {
		axis := vescpad.Axis(p.axisSelect.SelectedIndex())
		if !axis.Valid() {
			return
		}
		p.pad.UpdateCalibration(func(c *padcontrol.Calibration) { c.Axis = axis })
	}

	modeOptions := make([]string, len(vescpad.ControlModes))
	for i, mode := range vescpad.ControlModes {
		modeOptions[i] = mode.String()
	}
	p.modeSelect = widget.NewSelect(modeOptions, nil)
	p.modeSelect.SetSelectedIndex(int(cal.Mode))
	p.modeSelect.OnChanged = func(string) {
		mode := vescpad.ControlMode(p.modeSelect.SelectedIndex())
		if !mode.Valid() {
			return
		}
		p.pad.UpdateCalibration(func(c *padcontrol.Calibration) { c.Mode = mode })
	}

	p.rangeEntries = map[string]*widget.Entry{}
	entry := func(key string, initial float64, set func(*padcontrol.Calibration, float64)) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(initial, 'f', -1, 64))
		e.OnChanged = func(s string) {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return
			}
			p.pad.UpdateCalibration(func(c *padcontrol.Calibration) { set(c, v) })
		}
		p.rangeEntries[key] = e
		return e
	}

	form := widget.NewForm(
		widget.NewFormItem("Axis", p.axisSelect),
		widget.NewFormItem("Control Type", p.modeSelect),
		widget.NewFormItem("Current Min (A)", entry(padcontrol.KeyCurrentMin, cal.CurrentMin, func(c *padcontrol.Calibration, v float64) { c.CurrentMin = v })),
		widget.NewFormItem("Current Max (A)", entry(padcontrol.KeyCurrentMax, cal.CurrentMax, func(c *padcontrol.Calibration, v float64) { c.CurrentMax = v })),
		widget.NewFormItem("ERPM Min", entry(padcontrol.KeyERPMMin, cal.ERPMMin, func(c *padcontrol.Calibration, v float64) { c.ERPMMin = v })),
		widget.NewFormItem("ERPM Max", entry(padcontrol.KeyERPMMax, cal.ERPMMax, func(c *padcontrol.Calibration, v float64) { c.ERPMMax = v })),
		widget.NewFormItem("Range Min", entry(padcontrol.KeyRangeMin, cal.RawMin, func(c *padcontrol.Calibration, v float64) { c.RawMin = v })),
		widget.NewFormItem("Range Max", entry(padcontrol.KeyRangeMax, cal.RawMax, func(c *padcontrol.Calibration, v float64) { c.RawMax = v })),
	)

	return widget.NewCard("Calibration", "", container.NewVBox(
		container.NewHBox(p.configured, p.inverted, p.bidirectional),
		form,
	))
}

func (p *SettingsPage) newCalibrationCheck(label string, initial bool, set func(*padcontrol.Calibration, bool)) *widget.Check {
	check := widget.NewCheck(label, nil)
	check.SetChecked(initial)
	check.OnChanged = func(v bool) {
		p.pad.UpdateCalibration(func(c *padcontrol.Calibration) { set(c, v) })
	}
	return check
}

func (p *SettingsPage) outputSection() fyne.CanvasObject {
	return widget.NewCard("Output", "", container.NewVBox(
		p.bars.Content(),
		p.gauge.Content(),
	))
}
