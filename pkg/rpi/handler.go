//go:build linux

package rpi

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mbalug7/go-drv2605l/pkg/hal"
	"github.com/reef-pi/rpi/i2c"
	"github.com/sirupsen/logrus"
	"github.com/warthog618/gpiod"
	"golang.org/x/sys/unix"
)

// device needs 250us after EN goes high before it accepts I2C traffic
var enableSettleTime = time.Millisecond

// line is the subset of *gpiod.Line used by the handler
type line interface {
	SetValue(value int) error
	Close() error
}

type Config struct {
	GPIOChip   string // e.g. gpiochip0
	EnablePin  int    // EN line offset, negative when EN is hardwired high
	TriggerPin int    // IN/TRIG line offset, negative when unused
}

type HWHandler struct {
	bus      i2c.Bus     // /dev/i2c-1
	chip     *gpiod.Chip // nil when no GPIO line is requested
	enLine   line        // EN GPIO pin
	trigLine line        // IN/TRIG GPIO pin
	mu       sync.Mutex  // one transaction on the bus at a time
	log      *logrus.Entry
}

func NewHWHandler(cfg Config) (*HWHandler, error) {
	bus, err := i2c.New()
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus: %w", err)
	}
	handler := NewHWHandlerWithBus(bus)

	if cfg.EnablePin < 0 && cfg.TriggerPin < 0 {
		return handler, nil
	}
	handler.chip, err = gpiod.NewChip(cfg.GPIOChip, gpiod.WithConsumer("drv2605l"))
	if err != nil {
		handler.Close()
		return nil, fmt.Errorf("failed to create GPIO chip: %w", err)
	}
	if cfg.EnablePin >= 0 {
		en, err := handler.chip.RequestLine(cfg.EnablePin, gpiod.AsOutput(1))
		if err != nil {
			handler.Close()
			return nil, fmt.Errorf("failed to request EN GPIO line: %w", err)
		}
		handler.enLine = en
		time.Sleep(enableSettleTime)
	}
	if cfg.TriggerPin >= 0 {
		trig, err := handler.chip.RequestLine(cfg.TriggerPin, gpiod.AsOutput(0))
		if err != nil {
			handler.Close()
			return nil, fmt.Errorf("failed to request IN/TRIG GPIO line: %w", err)
		}
		handler.trigLine = trig
	}
	return handler, nil
}

// NewHWHandlerWithBus wraps an already opened reef-pi i2c bus, no GPIO lines are used
func NewHWHandlerWithBus(bus i2c.Bus) *HWHandler {
	return &HWHandler{
		bus: bus,
		log: logrus.WithField("component", "rpi"),
	}
}

// SetLogger replaces the default logrus entry
func (obj *HWHandler) SetLogger(log *logrus.Entry) {
	obj.log = log
}

func (obj *HWHandler) WriteRegister(addr uint8, reg hal.RegAddress, value uint8) error {
	obj.mu.Lock()
	defer obj.mu.Unlock()

	if obj.bus == nil {
		return hal.NewTransportError(hal.OpWrite, addr, reg, hal.ErrBusNotReady, nil)
	}
	err := obj.bus.WriteToReg(addr, reg.ToByte(), []byte{value})
	obj.log.WithFields(logrus.Fields{"addr": addr, "reg": reg, "value": value}).WithError(err).Debug("i2c write")
	if err != nil {
		return hal.NewTransportError(hal.OpWrite, addr, reg, classify(err), err)
	}
	return nil
}

func (obj *HWHandler) ReadRegister(addr uint8, reg hal.RegAddress) (uint8, error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()

	if obj.bus == nil {
		return 0, hal.NewTransportError(hal.OpRead, addr, reg, hal.ErrBusNotReady, nil)
	}
	buf := make([]byte, 1)
	err := obj.bus.ReadFromReg(addr, reg.ToByte(), buf)
	obj.log.WithFields(logrus.Fields{"addr": addr, "reg": reg, "value": buf[0]}).WithError(err).Debug("i2c read")
	if err != nil {
		return 0, hal.NewTransportError(hal.OpRead, addr, reg, classify(err), err)
	}
	return buf[0], nil
}

// classify maps i2c-dev errno values onto transport error kinds
func classify(err error) error {
	switch {
	case errors.Is(err, unix.ENXIO), errors.Is(err, unix.EREMOTEIO):
		return hal.ErrNACK
	case errors.Is(err, unix.ETIMEDOUT):
		return hal.ErrTimeout
	case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EBUSY), errors.Is(err, unix.ENODEV):
		return hal.ErrBusNotReady
	}
	return hal.ErrIO
}

// Enable drives EN high and waits until the device is ready for I2C traffic
func (obj *HWHandler) Enable() error {
	if obj.enLine == nil {
		return fmt.Errorf("EN line not configured")
	}
	err := obj.enLine.SetValue(1)
	if err != nil {
		return fmt.Errorf("failed to set EN line: %w", err)
	}
	time.Sleep(enableSettleTime)
	return nil
}

// Disable drives EN low, the device drops into shutdown and loses its register contents
func (obj *HWHandler) Disable() error {
	if obj.enLine == nil {
		return fmt.Errorf("EN line not configured")
	}
	err := obj.enLine.SetValue(0)
	if err != nil {
		return fmt.Errorf("failed to clear EN line: %w", err)
	}
	return nil
}

// Pulse raises IN/TRIG for width, starting playback in external edge trigger mode
func (obj *HWHandler) Pulse(width time.Duration) error {
	err := obj.SetLevel(true)
	if err != nil {
		return err
	}
	time.Sleep(width)
	return obj.SetLevel(false)
}

// SetLevel drives IN/TRIG, used in external level trigger mode
func (obj *HWHandler) SetLevel(high bool) error {
	if obj.trigLine == nil {
		return fmt.Errorf("IN/TRIG line not configured")
	}
	value := 0
	if high {
		value = 1
	}
	err := obj.trigLine.SetValue(value)
	if err != nil {
		return fmt.Errorf("failed to set IN/TRIG line to %d: %w", value, err)
	}
	return nil
}

func (obj *HWHandler) Close() (err error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()

	if obj.trigLine != nil {
		err = obj.trigLine.Close()
		if err != nil {
			return fmt.Errorf("failed to close IN/TRIG line: %w", err)
		}
		obj.trigLine = nil
	}
	if obj.enLine != nil {
		err = obj.enLine.Close()
		if err != nil {
			return fmt.Errorf("failed to close EN line: %w", err)
		}
		obj.enLine = nil
	}
	if obj.chip != nil {
		err = obj.chip.Close()
		if err != nil {
			return fmt.Errorf("failed to close GPIO chip: %w", err)
		}
		obj.chip = nil
	}
	if closer, ok := obj.bus.(io.Closer); ok {
		err = closer.Close()
		if err != nil {
			return fmt.Errorf("failed to close i2c bus: %w", err)
		}
	}
	obj.bus = nil
	return nil
}
