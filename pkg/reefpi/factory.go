//go:build linux

// factory.go
//
// reef-pi driver factory for the DRV2605L haptic controller.
//
// The chip shows up in reef-pi as a single digital output. Switching the output on
// plays the configured library effect, switching it off stops playback.
//
// Parameters:
//   - Motor:   "ERM" or "LRA", written to the feedback control register
//   - Library: ROM library 0-7 (1-5 and 7 are TS2200 ERM libraries, 6 is the LRA library)
//   - Effect:  library effect 1-123 loaded into sequencer slot 0
//   - Debug:   log every transaction
package reefpi

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mbalug7/go-drv2605l/pkg/drv2605l"
	"github.com/mbalug7/go-drv2605l/pkg/rpi"
	"github.com/reef-pi/hal"
	"github.com/reef-pi/rpi/i2c"
	"github.com/sirupsen/logrus"
)

const (
	paramMotor   = "Motor"
	paramLibrary = "Library"
	paramEffect  = "Effect"
	paramDebug   = "Debug"
)

const maxEffect = 123

type factory struct {
	meta       hal.Metadata
	parameters []hal.ConfigParameter
}

var (
	f    *factory
	once sync.Once
)

func Factory() hal.DriverFactory {
	once.Do(func() {
		f = &factory{
			meta: hal.Metadata{
				Name:        "drv2605l",
				Description: "TI DRV2605L haptic driver. Output on plays the configured library effect, off stops it.",
				Capabilities: []hal.Capability{
					hal.DigitalOutput,
				},
			},
			parameters: []hal.ConfigParameter{
				{Name: paramMotor, Type: hal.String, Order: 0, Default: "ERM"},
				{Name: paramLibrary, Type: hal.Integer, Order: 1, Default: 1},
				{Name: paramEffect, Type: hal.Integer, Order: 2, Default: 1},
				{Name: paramDebug, Type: hal.Boolean, Order: 3, Default: false},
			},
		}
	})
	return f
}

func (f *factory) Metadata() hal.Metadata               { return f.meta }
func (f *factory) GetParameters() []hal.ConfigParameter { return f.parameters }

func parseMotor(v interface{}) (uint8, error) {
	s, _ := v.(string)
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERM":
		return drv2605l.MOTOR_ERM, nil
	case "LRA":
		return drv2605l.MOTOR_LRA, nil
	}
	return 0, fmt.Errorf("must be ERM or LRA")
}

func (f *factory) ValidateParameters(params map[string]interface{}) (bool, map[string][]string) {
	errs := make(map[string][]string)

	if _, err := parseMotor(params[paramMotor]); err != nil {
		errs[paramMotor] = append(errs[paramMotor], err.Error())
	}

	if v, ok := params[paramLibrary]; ok {
		lib, ok := hal.ConvertToInt(v)
		if !ok || lib < 0 || lib > 7 {
			errs[paramLibrary] = append(errs[paramLibrary], "must be an integer between 0 and 7")
		}
	} else {
		errs[paramLibrary] = append(errs[paramLibrary], "is required")
	}

	if v, ok := params[paramEffect]; ok {
		effect, ok := hal.ConvertToInt(v)
		if !ok || effect < 1 || effect > maxEffect {
			errs[paramEffect] = append(errs[paramEffect], fmt.Sprintf("must be an integer between 1 and %d", maxEffect))
		}
	} else {
		errs[paramEffect] = append(errs[paramEffect], "is required")
	}

	if v, ok := params[paramDebug]; ok {
		if _, ok := v.(bool); !ok {
			errs[paramDebug] = append(errs[paramDebug], "must be boolean")
		}
	}

	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

func (f *factory) NewDriver(params map[string]interface{}, bus interface{}) (hal.Driver, error) {
	if ok, failures := f.ValidateParameters(params); !ok {
		return nil, errors.New(hal.ToErrorString(failures))
	}

	i2cBus, ok := bus.(i2c.Bus)
	if !ok {
		return nil, fmt.Errorf("drv2605l: expected i2c.Bus, got %T", bus)
	}

	motor, _ := parseMotor(params[paramMotor])
	library, _ := hal.ConvertToInt(params[paramLibrary])
	effect, _ := hal.ConvertToInt(params[paramEffect])
	debug, _ := params[paramDebug].(bool)

	handler := rpi.NewHWHandlerWithBus(i2cBus)
	log := logrus.WithFields(logrus.Fields{"component": "reefpi", "driver": f.meta.Name})
	if debug {
		logger := logrus.New()
		logger.SetLevel(logrus.DebugLevel)
		log = logger.WithFields(logrus.Fields{"component": "reefpi", "driver": f.meta.Name})
		handler.SetLogger(log)
	}

	d := &Driver{
		haptic: drv2605l.New(handler),
		meta:   f.meta,
		log:    log,
	}
	d.pin = &hapticPin{driver: d}

	err := d.configure(motor, uint8(library), uint8(effect))
	if err != nil {
		return nil, fmt.Errorf("drv2605l: %w", err)
	}
	log.WithFields(logrus.Fields{"motor": motor, "library": library, "effect": effect}).Debug("configured")
	return d, nil
}
