package ui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/vescpad/controller"
)

// Preference keys for the serial connection
const (
	KeySerialPort = "serialPort"
	KeyBaudRate   = "baudRate"
)

// ConnectionWindow picks the serial port and baud rate of the motor controller
type ConnectionWindow struct {
	app      fyne.App
	OnSubmit func(controller.Config)
}

func NewConnectionWindow(app fyne.App) *ConnectionWindow {
	return &ConnectionWindow{
		app: app,
	}
}

// connectionSettings is the editable form state. Baud rate is kept as text for the entry binding
type connectionSettings struct {
	SerialPort string
	BaudRate   string
}

func (cw *ConnectionWindow) loadFromPreferences(s *connectionSettings) {
	prefs := cw.app.Preferences()
	s.SerialPort = prefs.StringWithFallback(KeySerialPort, "")
	s.BaudRate = prefs.StringWithFallback(KeyBaudRate, strconv.Itoa(controller.DefaultBaudRate))
}

func (cw *ConnectionWindow) saveToPreferences(s *connectionSettings) {
	prefs := cw.app.Preferences()
	prefs.SetString(KeySerialPort, s.SerialPort)
	prefs.SetString(KeyBaudRate, s.BaudRate)
}

// ControllerConfig returns the saved connection settings
func (cw *ConnectionWindow) ControllerConfig() (controller.Config, error) {
	var s connectionSettings
	cw.loadFromPreferences(&s)
	return s.controllerConfig()
}

func (s connectionSettings) controllerConfig() (controller.Config, error) {
	baud, err := strconv.Atoi(s.BaudRate)
	if err != nil || baud <= 0 {
		return controller.Config{}, fmt.Errorf("invalid baud rate %q", s.BaudRate)
	}
	return controller.Config{Port: s.SerialPort, BaudRate: baud}, nil
}

func (s connectionSettings) valid() bool {
	_, err := s.controllerConfig()
	return s.SerialPort != "" && err == nil
}

func (cw *ConnectionWindow) Show() fyne.Window {
	window := cw.app.NewWindow("VESC Pad - Connection")
	window.Resize(fyne.NewSize(400, 180))

	var s connectionSettings
	cw.loadFromPreferences(&s)

	serialPorts, err := controller.GetSerialPorts()
	if err != nil && !errors.Is(err, controller.ErrNoUSBSerial) {
		dialog.ShowError(fmt.Errorf("error getting serial ports: %w", err), window)
	}
	if s.SerialPort != "" && s.SerialPort != controller.SerialPortNone && !slices.Contains(serialPorts, s.SerialPort) {
		serialPorts = append(serialPorts, s.SerialPort)
	}
	serialPorts = append(serialPorts, controller.SerialPortNone)

	serialEntry := widget.NewSelect(serialPorts, nil)
	if s.SerialPort == "" {
		s.SerialPort = serialPorts[0]
	}
	serialEntry.Bind(binding.BindString(&s.SerialPort))

	baudRateEntry := widget.NewEntry()
	baudRateEntry.Bind(binding.BindString(&s.BaudRate))

	current := func() connectionSettings {
		return connectionSettings{SerialPort: serialEntry.Selected, BaudRate: baudRateEntry.Text}
	}

	submitButton := widget.NewButton("Connect", func() {
		s = current()
		cfg, err := s.controllerConfig()
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		cw.saveToPreferences(&s)
		if cw.OnSubmit != nil {
			cw.OnSubmit(cfg)
		}
		window.Close()
	})

	validateForm := func() {
		if current().valid() {
			submitButton.Enable()
		} else {
			submitButton.Disable()
		}
	}

	serialEntry.OnChanged = func(string) { validateForm() }
	baudRateEntry.OnChanged = func(string) { validateForm() }
	validateForm()

	form := container.NewVBox(
		widget.NewCard("Motor Controller", "", container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Serial Port:"),
				serialEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Baud Rate:"),
				baudRateEntry,
			),
		)),
		container.NewHBox(
			widget.NewButton("Cancel", window.Close),
			submitButton,
		),
	)

	window.SetContent(form)
	window.Show()
	return window
}
