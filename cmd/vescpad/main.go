package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/pflag"

	"github.com/calvinmclean/vescpad/config"
	"github.com/calvinmclean/vescpad/gamepad"
	"github.com/calvinmclean/vescpad/internal/logging"
	"github.com/calvinmclean/vescpad/monitor"
	"github.com/calvinmclean/vescpad/padcontrol"
	"github.com/calvinmclean/vescpad/ui"
)

const appID = "com.github.calvinmclean.vescpad"

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, logFile, err := logging.SetupLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logFile.Close()

	err = run(cfg, logger)
	if err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source, err := gamepad.NewSource()
	if err != nil {
		return fmt.Errorf("error initializing gamepads: %w", err)
	}
	defer source.Close()

	var out outputs
	if cfg.MonitorAddr != "" {
		mon := monitor.New(logger)
		out.add(mon, mon)

		go func() {
			err := mon.ListenAndServe(ctx, cfg.MonitorAddr, padcontrol.TickInterval)
			if err != nil {
				logger.Error("monitor stopped", "error", err)
			}
		}()
	}

	if cfg.Headless {
		return runHeadless(ctx, cfg, source, out, logger)
	}

	runUI(ctx, cfg, source, out, logger)
	return nil
}

func runUI(ctx context.Context, cfg config.Config, source gamepad.Source, out outputs, logger *slog.Logger) {
	application := app.NewWithID(appID)

	u := ui.New(application, ui.Config{
		Source:     source,
		Port:       cfg.Port,
		BaudRate:   cfg.BaudRate,
		Background: cfg.Background,
		Display:    out.display(),
		Bars:       out.bars(),
		Logger:     logger,
	})
	u.Run(ctx)
}

// outputs collects the extra displays that mirror the gamepad pipeline
type outputs struct {
	displays padcontrol.MultiDisplay
	axisBars padcontrol.MultiAxisBars
}

func (o *outputs) add(d padcontrol.Display, b padcontrol.AxisBars) {
	o.displays = append(o.displays, d)
	o.axisBars = append(o.axisBars, b)
}

// display returns nil when there are no extra displays
func (o outputs) display() padcontrol.Display {
	if len(o.displays) == 0 {
		return nil
	}
	return o.displays
}

func (o outputs) bars() padcontrol.AxisBars {
	if len(o.axisBars) == 0 {
		return nil
	}
	return o.axisBars
}
