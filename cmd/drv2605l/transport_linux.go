//go:build linux

package main

import (
	"io"

	"github.com/mbalug7/go-drv2605l/pkg/config"
	"github.com/mbalug7/go-drv2605l/pkg/hal"
	"github.com/mbalug7/go-drv2605l/pkg/rpi"
)

func openRPi(cfg *config.Config) (hal.Bus, io.Closer, error) {
	handler, err := rpi.NewHWHandler(rpi.Config{
		GPIOChip:   cfg.GPIO.Chip,
		EnablePin:  cfg.GPIO.EnablePin,
		TriggerPin: cfg.GPIO.TriggerPin,
	})
	if err != nil {
		return nil, nil, err
	}
	return handler, handler, nil
}
