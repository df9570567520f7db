package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.bug.st/serial/enumerator"
)

// SerialPortNone is the port selection that means no controller
const SerialPortNone = "None"

// ErrNoUSBSerial is returned when no USB serial ports are connected
var ErrNoUSBSerial = errors.New("no USB serial ports found")

// GetSerialPorts lists the USB serial ports
func GetSerialPorts() ([]string, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var ports []string
	for _, d := range details {
		if d.IsUSB {
			ports = append(ports, d.Name)
		}
	}
	if len(ports) == 0 {
		return nil, ErrNoUSBSerial
	}
	return ports, nil
}

// AutoConnect opens every USB serial port in turn and returns the first one that answers a firmware version request
func AutoConnect(ctx context.Context, baudRate int, logger *slog.Logger) (*Controller, error) {
	ports, err := GetSerialPorts()
	if err != nil {
		return nil, err
	}
	return probe(ctx, ports, func(port string) (*Controller, error) {
		return New(Config{Port: port, BaudRate: baudRate, Logger: logger})
	}, logger)
}

func probe(ctx context.Context, ports []string, open func(string) (*Controller, error), logger *slog.Logger) (*Controller, error) {
	if logger == nil {
		logger = slog.Default()
	}

	for _, port := range ports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := open(port)
		if err != nil {
			logger.Debug("skipping serial port", "port", port, "error", err)
			continue
		}

		fw, err := c.FirmwareVersion()
		if err != nil {
			logger.Debug("no controller on serial port", "port", port, "error", err)
			_ = c.Close()
			continue
		}

		logger.Info("found controller", "port", port, "firmware", fw.String())
		return c, nil
	}

	return nil, fmt.Errorf("error auto-connecting: %w", ErrNoResponse)
}
