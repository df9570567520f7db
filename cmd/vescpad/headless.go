package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/calvinmclean/vescpad/config"
	"github.com/calvinmclean/vescpad/controller"
	"github.com/calvinmclean/vescpad/gamepad"
	"github.com/calvinmclean/vescpad/padcontrol"
	"github.com/calvinmclean/vescpad/prefs"
)

// runHeadless runs the gamepad pipeline without a GUI until ctx is done
func runHeadless(ctx context.Context, cfg config.Config, source gamepad.Source, out outputs, logger *slog.Logger) error {
	path := cfg.PrefsFile
	if path == "" {
		var err error
		path, err = prefs.DefaultPath()
		if err != nil {
			return err
		}
	}

	store, err := prefs.Open(path)
	if err != nil {
		return err
	}
	logger.Info("loaded preferences", "path", store.Path())

	display := padcontrol.MultiDisplay{newLogDisplay(logger)}
	display = append(display, out.displays...)

	pad := padcontrol.New(padcontrol.Config{
		Source:      source,
		Preferences: store,
		Display:     display,
		Bars:        out.bars(),
		Notifier:    logNotifier{logger},
		Logger:      logger,
	})
	defer func() {
		_ = pad.Close()
		err := store.Save()
		if err != nil {
			logger.Error("error saving preferences", "error", err)
		}
	}()

	c, err := connectController(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if c != nil {
		defer c.Close()
		pad.SetController(c)
	}

	err = attachFirstGamepad(pad)
	if err != nil {
		logger.Warn("no gamepad attached", "error", err)
	}

	if cfg.Arm {
		pad.SetUseGamepadControl(true)
	}

	ticker := time.NewTicker(padcontrol.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-ticker.C:
			pad.Tick()
		}
	}
}

func connectController(ctx context.Context, cfg config.Config, logger *slog.Logger) (*controller.Controller, error) {
	switch cfg.Port {
	case "", controller.SerialPortNone:
		logger.Info("running without a motor controller")
		return nil, nil
	case config.PortAuto:
		return controller.AutoConnect(ctx, cfg.BaudRate, logger)
	}

	c, err := controller.New(controller.Config{Port: cfg.Port, BaudRate: cfg.BaudRate, Logger: logger})
	if err != nil {
		return nil, err
	}

	fw, err := c.FirmwareVersion()
	if err != nil {
		logger.Warn("controller did not report firmware", "port", cfg.Port, "error", err)
	} else {
		logger.Info("controller connected", "port", cfg.Port, "firmware", fw.String())
	}
	return c, nil
}

// attachFirstGamepad connects the first gamepad when the saved one is not connected
func attachFirstGamepad(pad *padcontrol.Pad) error {
	if _, ok := pad.Device(); ok {
		return nil
	}

	devices := pad.Scan()
	if len(devices) == 0 {
		return errors.New("no gamepads connected")
	}
	return pad.Connect(devices[0].ID)
}

type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) ShowMessage(title, message string) {
	n.logger.Warn(message, "title", title)
}

// logDisplay logs the pipeline output whenever its formatted value changes
type logDisplay struct {
	logger *slog.Logger

	name     string
	unit     string
	decimals int
	last     string
}

func newLogDisplay(logger *slog.Logger) *logDisplay {
	return &logDisplay{logger: logger, decimals: 2}
}

func (d *logDisplay) SetRange(float64)    {}
func (d *logDisplay) SetUnit(unit string) { d.unit = unit }
func (d *logDisplay) SetName(name string) { d.name = name }
func (d *logDisplay) SetDecimals(n int)   { d.decimals = n }

func (d *logDisplay) SetVal(v float64) {
	text := fmt.Sprintf("%.*f%s", d.decimals, v, d.unit)
	if text == d.last {
		return
	}
	d.last = text
	d.logger.Info("output", "name", d.name, "value", text)
}
