// Package config reads the command line, VESCPAD_* environment variables and an optional config file
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/calvinmclean/vescpad/controller"
)

// PortAuto makes the application probe every USB serial port for a controller
const PortAuto = "auto"

// Config is the resolved application configuration
type Config struct {
	// Port is the serial port of the controller, PortAuto, or empty for no controller
	Port     string
	BaudRate int

	Headless bool
	// Arm requests gamepad control as soon as the headless loop starts
	Arm bool

	// PrefsFile is the preference file used in headless mode
	PrefsFile string
	// MonitorAddr is the listen address of the status monitor. Empty disables it
	MonitorAddr string
	// Background is an image shown on the welcome page
	Background string

	LogLevel string
	LogFile  string
}

// Load parses args (without the program name). Flags take precedence over the environment, which takes precedence
// over the config file. pflag.ErrHelp is returned when help was requested
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("vescpad", pflag.ContinueOnError)
	fs.String("port", "", `serial port of the motor controller, or "auto" to probe USB serial ports`)
	fs.Int("baud", controller.DefaultBaudRate, "serial baud rate")
	fs.Bool("headless", false, "run without the GUI")
	fs.Bool("arm", false, "arm gamepad control on start (headless only)")
	fs.String("prefs", "", "preference file for headless mode")
	fs.String("monitor", "", "listen address of the websocket status monitor, e.g. :8080")
	fs.String("background", "", "background image for the welcome page")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-file", "", "also write logs to this file")
	configFile := fs.String("config", "", "config file (yaml, toml or json)")

	err := fs.Parse(args)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("VESCPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	err = v.BindPFlags(fs)
	if err != nil {
		return Config{}, fmt.Errorf("error binding flags: %w", err)
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		err = v.ReadInConfig()
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Config{
		Port:        v.GetString("port"),
		BaudRate:    v.GetInt("baud"),
		Headless:    v.GetBool("headless"),
		Arm:         v.GetBool("arm"),
		PrefsFile:   v.GetString("prefs"),
		MonitorAddr: v.GetString("monitor"),
		Background:  v.GetString("background"),
		LogLevel:    v.GetString("log-level"),
		LogFile:     v.GetString("log-file"),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.BaudRate)
	}
	if c.Arm && !c.Headless {
		return errors.New("--arm requires --headless")
	}
	return nil
}
