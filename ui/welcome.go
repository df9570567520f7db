package ui

import (
	"context"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/vescpad/controller"
)

const statusDisconnected = "Not connected"

// WelcomeConfig has the actions of the welcome page. A nil launcher disables its button
type WelcomeConfig struct {
	// Background is the path of an image drawn behind the page
	Background string
	BaudRate   int

	// AutoConnect finds a controller. It runs off the main goroutine. Defaults to controller.AutoConnect
	AutoConnect func(ctx context.Context, baudRate int, logger *slog.Logger) (*controller.Controller, error)
	// OnSearch runs on the main goroutine before the search starts
	OnSearch func()
	// OnConnected receives the controller found by AutoConnect and takes over showing the status
	OnConnected func(*controller.Controller)

	SetupMotor func()
	SetupApp   func()

	Logger *slog.Logger
}

// WelcomePage is the landing page with the connection controls and setup launchers
type WelcomePage struct {
	window fyne.Window
	cfg    WelcomeConfig

	status      *widget.Label
	autoConnect *widget.Button
	setupMotor  *widget.Button
	setupApp    *widget.Button

	content fyne.CanvasObject
}

func NewWelcomePage(window fyne.Window, cfg WelcomeConfig) *WelcomePage {
	if cfg.AutoConnect == nil {
		cfg.AutoConnect = controller.AutoConnect
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = controller.DefaultBaudRate
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	p := &WelcomePage{
		window: window,
		cfg:    cfg,
		status: widget.NewLabel(statusDisconnected),
	}

	p.autoConnect = widget.NewButton("AutoConnect", p.AutoConnect)
	p.setupMotor = launcherButton("Setup Motor", cfg.SetupMotor)
	p.setupApp = launcherButton("Setup App", cfg.SetupApp)

	title := widget.NewLabelWithStyle("VESC Pad", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	buttons := container.NewVBox(
		title,
		p.autoConnect,
		p.setupMotor,
		p.setupApp,
		p.status,
	)
	p.content = container.NewCenter(buttons)
	if cfg.Background != "" {
		img := canvas.NewImageFromFile(cfg.Background)
		img.FillMode = canvas.ImageFillContain
		img.Translucency = 0.6
		p.content = container.NewStack(img, p.content)
	}
	return p
}

func launcherButton(label string, launch func()) *widget.Button {
	b := widget.NewButton(label, launch)
	if launch == nil {
		b.Disable()
	}
	return b
}

func (p *WelcomePage) Content() fyne.CanvasObject {
	return p.content
}

// SetStatus shows the connection status
func (p *WelcomePage) SetStatus(text string) {
	p.status.SetText(text)
}

// Status returns the shown connection status
func (p *WelcomePage) Status() string {
	return p.status.Text
}

// AutoConnect searches for a controller in the background. The button is disabled until the search finishes
func (p *WelcomePage) AutoConnect() {
	p.autoConnect.Disable()
	if p.cfg.OnSearch != nil {
		p.cfg.OnSearch()
	}
	p.SetStatus("Searching for controller...")

	go func() {
		c, err := p.cfg.AutoConnect(context.Background(), p.cfg.BaudRate, p.cfg.Logger)
		fyne.Do(func() {
			p.autoConnect.Enable()
			if err != nil {
				p.SetStatus(statusDisconnected)
				dialog.ShowError(err, p.window)
				return
			}
			if p.cfg.OnConnected == nil {
				p.SetStatus("Connected: " + c.Name())
				return
			}
			p.cfg.OnConnected(c)
		})
	}()
}
