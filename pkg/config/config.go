// Package config holds the board description used to reach a DRV2605L.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TransportRPi       = "rpi"
	TransportSC18IM700 = "sc18im700"
	TransportSim       = "sim"
)

type Serial struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

type GPIO struct {
	Chip       string `yaml:"chip"`
	EnablePin  int    `yaml:"enable_pin"`  // negative when EN is hardwired
	TriggerPin int    `yaml:"trigger_pin"` // negative when IN/TRIG is unused
}

type Config struct {
	Transport string `yaml:"transport"`
	Serial    Serial `yaml:"serial"`
	GPIO      GPIO   `yaml:"gpio"`
	Motor     string `yaml:"motor"` // erm or lra
	Library   uint8  `yaml:"library"`
	Debug     bool   `yaml:"debug"`
}

// Default describes a Raspberry Pi with the breakout on /dev/i2c-1 and EN tied high
func Default() *Config {
	return &Config{
		Transport: TransportRPi,
		Serial: Serial{
			Port: "/dev/ttyUSB0",
			Baud: 9600,
		},
		GPIO: GPIO{
			Chip:       "gpiochip0",
			EnablePin:  -1,
			TriggerPin: -1,
		},
		Motor:   "erm",
		Library: 1,
	}
}

// Load reads path on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (obj *Config) Validate() error {
	switch obj.Transport {
	case TransportRPi, TransportSC18IM700, TransportSim:
	default:
		return fmt.Errorf("unsupported transport %q", obj.Transport)
	}
	switch strings.ToLower(obj.Motor) {
	case "erm", "lra":
	default:
		return fmt.Errorf("unsupported motor %q, use erm or lra", obj.Motor)
	}
	if obj.Library > 7 {
		return fmt.Errorf("library %d out of range 0-7", obj.Library)
	}
	if obj.Transport == TransportSC18IM700 && obj.Serial.Port == "" {
		return fmt.Errorf("serial port is required for the %s transport", TransportSC18IM700)
	}
	return nil
}

// IsLRA reports whether the configured actuator is a linear resonant actuator
func (obj *Config) IsLRA() bool {
	return strings.ToLower(obj.Motor) == "lra"
}
