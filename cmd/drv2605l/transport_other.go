//go:build !linux

package main

import (
	"fmt"
	"io"

	"github.com/mbalug7/go-drv2605l/pkg/config"
	"github.com/mbalug7/go-drv2605l/pkg/hal"
)

func openRPi(cfg *config.Config) (hal.Bus, io.Closer, error) {
	return nil, nil, fmt.Errorf("%s transport is only available on linux", config.TransportRPi)
}
