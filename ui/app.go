// Package ui is the fyne GUI: a welcome page with the connection controls and a settings page with the gamepad
// calibration
package ui

import (
	"context"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/vescpad/config"
	"github.com/calvinmclean/vescpad/controller"
	"github.com/calvinmclean/vescpad/gamepad"
	"github.com/calvinmclean/vescpad/padcontrol"
)

// Config has the options of the main window
type Config struct {
	Source gamepad.Source

	// Port is connected on start. config.PortAuto searches USB serial ports
	Port       string
	BaudRate   int
	Background string

	// Display and Bars mirror the settings page output, e.g. to the status monitor
	Display padcontrol.Display
	Bars    padcontrol.AxisBars

	// AutoConnect is used by the welcome page. Defaults to controller.AutoConnect
	AutoConnect func(ctx context.Context, baudRate int, logger *slog.Logger) (*controller.Controller, error)

	Logger *slog.Logger
}

// App is the main window
type App struct {
	app    fyne.App
	window fyne.Window
	cfg    Config
	logger *slog.Logger

	tabs        *container.AppTabs
	settingsTab *container.TabItem
	welcome     *WelcomePage
	settings    *SettingsPage
	useGamepad  *widget.Check

	controller *controller.Controller
	open       func(controller.Config) (*controller.Controller, error)

	// attempt identifies the latest connection request. Controllers from older requests are closed
	attempt       int
	searchAttempt int
	closed        bool
}

// New builds the main window. Run shows it
func New(fyneApp fyne.App, cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		app:    fyneApp,
		window: fyneApp.NewWindow("VESC Pad"),
		cfg:    cfg,
		logger: logger,
		open:   controller.New,
	}

	a.settings = NewSettingsPage(fyneApp, a.window, SettingsConfig{
		Source:  cfg.Source,
		Display: cfg.Display,
		Bars:    cfg.Bars,
		Logger:  logger,
	})
	a.settings.OnTick = a.syncGamepadToggle

	a.welcome = NewWelcomePage(a.window, WelcomeConfig{
		Background:  cfg.Background,
		BaudRate:    cfg.BaudRate,
		AutoConnect: cfg.AutoConnect,
		OnSearch:    a.beginSearch,
		OnConnected: a.searchDone,
		SetupMotor:  a.showConnectionWindow,
		SetupApp:    a.showSettings,
		Logger:      logger,
	})

	a.settingsTab = container.NewTabItem("Settings", a.settings.Content())
	a.tabs = container.NewAppTabs(
		container.NewTabItem("Welcome", a.welcome.Content()),
		a.settingsTab,
	)

	a.useGamepad = widget.NewCheck("Use Gamepad Control", a.SetUseGamepadControl)
	if !padcontrol.Supported {
		a.useGamepad.Disable()
	}

	a.window.SetContent(container.NewBorder(nil, a.useGamepad, nil, nil, a.tabs))
	a.window.Resize(fyne.NewSize(640, 720))
	a.window.SetCloseIntercept(func() {
		a.Close()
		a.window.Close()
	})

	return a
}

// Settings returns the settings page
func (a *App) Settings() *SettingsPage {
	return a.settings
}

// Welcome returns the welcome page
func (a *App) Welcome() *WelcomePage {
	return a.welcome
}

// SetUseGamepadControl arms or disarms gamepad control. A rejected request leaves the toggle unchecked
func (a *App) SetUseGamepadControl(use bool) {
	a.settings.Pad().SetUseGamepadControl(use)
	a.syncGamepadToggle()
}

func (a *App) syncGamepadToggle() {
	armed := a.settings.Pad().IsUsingGamepadControl()
	if a.useGamepad.Checked != armed {
		a.useGamepad.SetChecked(armed)
	}
}

// SetController replaces the motor controller. The previous one is closed. nil disconnects
func (a *App) SetController(c *controller.Controller) {
	if a.controller != nil {
		err := a.controller.Close()
		if err != nil {
			a.logger.Warn("error closing controller", "port", a.controller.Name(), "error", err)
		}
	}

	a.controller = c
	if c == nil {
		a.settings.Pad().SetController(nil)
		a.welcome.SetStatus(statusDisconnected)
		return
	}

	a.settings.Pad().SetController(c)
	a.welcome.SetStatus("Connected: " + c.Name())
	a.logger.Info("controller connected", "port", c.Name())
}

// Connect releases the current controller and opens the one described by cfg. Port "None" only disconnects. The
// controller is attached once its firmware probe finishes in the background
func (a *App) Connect(cfg controller.Config) error {
	attempt := a.nextAttempt()
	a.SetController(nil)

	if cfg.Port == "" || cfg.Port == controller.SerialPortNone {
		return nil
	}

	cfg.Logger = a.logger
	c, err := a.open(cfg)
	if err != nil {
		return err
	}
	a.welcome.SetStatus("Connecting: " + c.Name())

	go func() {
		fw, err := c.FirmwareVersion()
		if err != nil {
			a.logger.Warn("controller did not report firmware", "port", c.Name(), "error", err)
		} else {
			a.logger.Info("controller firmware", "port", c.Name(), "firmware", fw.String())
		}

		fyne.Do(func() {
			a.attach(attempt, c)
		})
	}()
	return nil
}

func (a *App) nextAttempt() int {
	a.attempt++
	return a.attempt
}

// attach sets c as the controller unless a newer request was made or the app was closed
func (a *App) attach(attempt int, c *controller.Controller) {
	if a.closed || attempt != a.attempt {
		a.logger.Debug("discarding stale controller", "port", c.Name())
		err := c.Close()
		if err != nil {
			a.logger.Warn("error closing controller", "port", c.Name(), "error", err)
		}
		return
	}
	a.SetController(c)
}

// beginSearch releases the serial port before the welcome page probes every port
func (a *App) beginSearch() {
	a.searchAttempt = a.nextAttempt()
	a.SetController(nil)
}

func (a *App) searchDone(c *controller.Controller) {
	a.attach(a.searchAttempt, c)
}

func (a *App) showConnectionWindow() {
	cw := NewConnectionWindow(a.app)
	cw.OnSubmit = func(cfg controller.Config) {
		err := a.Connect(cfg)
		if err != nil {
			dialog.ShowError(err, a.window)
		}
	}
	cw.Show()
}

func (a *App) showSettings() {
	a.tabs.Select(a.settingsTab)
}

// connectOnStart connects the configured port or the one saved by the connection window
func (a *App) connectOnStart() {
	switch a.cfg.Port {
	case "":
		cfg, err := NewConnectionWindow(a.app).ControllerConfig()
		if err != nil || cfg.Port == "" || cfg.Port == controller.SerialPortNone {
			return
		}
		err = a.Connect(cfg)
		if err != nil {
			a.logger.Warn("error connecting saved controller", "port", cfg.Port, "error", err)
		}
	case config.PortAuto:
		a.welcome.AutoConnect()
	default:
		err := a.Connect(controller.Config{Port: a.cfg.Port, BaudRate: a.cfg.BaudRate})
		if err != nil {
			dialog.ShowError(err, a.window)
		}
	}
}

// Run shows the window and blocks until it is closed or ctx is done
func (a *App) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			a.app.Quit()
		})
	}()

	a.settings.Start()
	a.connectOnStart()

	a.window.ShowAndRun()
	a.Close()
}

// Close stops gamepad control, saves the settings and closes the controller. It is safe to call more than once
func (a *App) Close() {
	a.closed = true
	a.nextAttempt()

	err := a.settings.Close()
	if err != nil {
		a.logger.Warn("error saving settings", "error", err)
	}
	a.SetController(nil)
}
