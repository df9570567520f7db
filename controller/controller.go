// Package controller talks to a VESC motor controller over a serial link
package controller

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is used when Config.BaudRate is zero
	DefaultBaudRate = 115200

	defaultResponseTimeout = 500 * time.Millisecond
	pollTimeout            = 50 * time.Millisecond
)

// Config has the serial connection settings
type Config struct {
	Port     string
	BaudRate int
	Logger   *slog.Logger
}

// Firmware is the reply to a firmware version request
type Firmware struct {
	Major    int
	Minor    int
	Hardware string
}

func (f Firmware) String() string {
	if f.Hardware == "" {
		return fmt.Sprintf("%d.%02d", f.Major, f.Minor)
	}
	return fmt.Sprintf("%d.%02d (%s)", f.Major, f.Minor, f.Hardware)
}

// Controller sends commands to a VESC. Motor commands are fire-and-forget writes; only FirmwareVersion waits for
// a reply. It is safe for concurrent use
type Controller struct {
	mu      sync.Mutex
	port    io.ReadWriteCloser
	name    string
	logger  *slog.Logger
	timeout time.Duration
}

// New opens the serial port in cfg
func New(cfg Config) (*Controller, error) {
	if cfg.Port == "" || cfg.Port == SerialPortNone {
		return nil, errors.New("missing serial port")
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}

	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("error opening serial port %q: %w", cfg.Port, err)
	}

	err = port.SetReadTimeout(pollTimeout)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("error setting read timeout: %w", err)
	}

	return NewWithPort(cfg.Port, port, cfg.Logger), nil
}

// NewWithPort creates a Controller over an already open connection. The Controller owns port and closes it
func NewWithPort(name string, port io.ReadWriteCloser, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		port:    port,
		name:    name,
		logger:  logger.With("port", name),
		timeout: defaultResponseTimeout,
	}
}

// Name returns the port name the Controller was created with
func (c *Controller) Name() string {
	return c.name
}

// SetCurrent drives the motor with the given current in amperes
func (c *Controller) SetCurrent(amperes float64) error {
	return c.send(commSetCurrent, scale(amperes, 1e3))
}

// SetCurrentBrake brakes the motor with the given current in amperes
func (c *Controller) SetCurrentBrake(amperes float64) error {
	return c.send(commSetCurrentBrake, scale(amperes, 1e3))
}

// SetDutyCycle sets the duty cycle in [-1, 1]
func (c *Controller) SetDutyCycle(ratio float64) error {
	return c.send(commSetDuty, scale(ratio, 1e5))
}

// SetRpm sets the speed in electrical RPM
func (c *Controller) SetRpm(erpm float64) error {
	return c.send(commSetRPM, scale(erpm, 1))
}

// SetPos sets the motor position in degrees
func (c *Controller) SetPos(degrees float64) error {
	return c.send(commSetPos, scale(degrees, 1e6))
}

func (c *Controller) send(id commandID, v int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.port.Write(encodePacket(commandPayload(id, v)))
	if err != nil {
		return fmt.Errorf("error writing command %d: %w", id, err)
	}
	return nil
}

// FirmwareVersion requests the firmware version and waits for the reply
func (c *Controller) FirmwareVersion() (Firmware, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.port.Write(encodePacket([]byte{byte(commFWVersion)}))
	if err != nil {
		return Firmware{}, fmt.Errorf("error requesting firmware version: %w", err)
	}

	r := deadlineReader{r: c.port, deadline: time.Now().Add(c.timeout)}
	for {
		payload, err := decodePacket(r)
		if errors.Is(err, ErrBadPacket) {
			c.logger.Debug("discarding packet", "error", err)
			continue
		}
		if err != nil {
			return Firmware{}, fmt.Errorf("error reading firmware version: %w", err)
		}

		if len(payload) == 0 || commandID(payload[0]) != commFWVersion {
			continue
		}
		return parseFirmware(payload[1:])
	}
}

func parseFirmware(b []byte) (Firmware, error) {
	if len(b) < 2 {
		return Firmware{}, fmt.Errorf("%w: short firmware reply", ErrBadPacket)
	}

	fw := Firmware{Major: int(b[0]), Minor: int(b[1])}
	hw := b[2:]
	if i := bytes.IndexByte(hw, 0); i >= 0 {
		hw = hw[:i]
	}
	fw.Hardware = string(hw)
	return fw, nil
}

// Close closes the serial port
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port.Close()
}

func scale(v, factor float64) int32 {
	scaled := math.Round(v * factor)
	switch {
	case scaled > math.MaxInt32:
		return math.MaxInt32
	case scaled < math.MinInt32:
		return math.MinInt32
	}
	return int32(scaled)
}
