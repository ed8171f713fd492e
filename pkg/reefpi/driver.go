//go:build linux

package reefpi

import (
	"fmt"
	"sync"

	"github.com/mbalug7/go-drv2605l/pkg/drv2605l"
	drvhal "github.com/mbalug7/go-drv2605l/pkg/hal"
	"github.com/reef-pi/hal"
	"github.com/sirupsen/logrus"
)

type hapticPin struct {
	driver *Driver
	state  bool
}

func (p *hapticPin) Name() string { return "DRV2605L:0" }
func (p *hapticPin) Number() int  { return 0 }
func (p *hapticPin) Close() error { return nil }

func (p *hapticPin) Write(b bool) error {
	return p.driver.play(b)
}

func (p *hapticPin) LastState() bool {
	p.driver.mu.Lock()
	defer p.driver.mu.Unlock()
	return p.state
}

// Driver exposes one DRV2605L as a reef-pi digital output driver
type Driver struct {
	haptic drvhal.Haptic
	meta   hal.Metadata
	mu     sync.Mutex
	pin    *hapticPin
	log    *logrus.Entry
}

func (d *Driver) configure(motor uint8, library uint8, effect uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	steps := []struct {
		name string
		run  func() error
	}{
		{"select motor", func() error { return d.haptic.SelectMotor(motor) }},
		{"set library", func() error { return d.haptic.SetLibrary(library) }},
		{"load effect", func() error { return d.haptic.SetWaveform(0, effect) }},
		{"terminate sequence", func() error { return d.haptic.SetWaveform(1, 0) }},
		{"set internal trigger mode", func() error { return d.haptic.SetMode(drv2605l.MODE_INTERNAL_TRIGGER) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("failed to %s: %w", step.name, err)
		}
	}
	return nil
}

func (d *Driver) play(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if on {
		err = d.haptic.Go()
	} else {
		err = d.haptic.Stop()
	}
	d.log.WithField("on", on).WithError(err).Debug("output write")
	if err != nil {
		return err
	}
	d.pin.state = on
	return nil
}

// Close stops any running playback
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.haptic.Stop()
}

func (d *Driver) Metadata() hal.Metadata {
	return d.meta
}

func (d *Driver) DigitalOutputPins() []hal.DigitalOutputPin {
	return []hal.DigitalOutputPin{d.pin}
}

func (d *Driver) DigitalOutputPin(n int) (hal.DigitalOutputPin, error) {
	if n != 0 {
		return nil, fmt.Errorf("drv2605l: invalid pin %d", n)
	}
	return d.pin, nil
}

func (d *Driver) Pins(cap hal.Capability) ([]hal.Pin, error) {
	switch cap {
	case hal.DigitalOutput:
		return []hal.Pin{d.pin}, nil
	default:
		return nil, fmt.Errorf("drv2605l: unsupported capability: %s", cap.String())
	}
}
