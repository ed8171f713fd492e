//go:build pico
// +build pico

package pico

import (
	"sync"
	"time"

	"machine"

	"github.com/mbalug7/go-drv2605l/pkg/hal"
)

type HWHandler struct {
	i2c    *machine.I2C // I2C peripheral the DRV2605L is attached to
	enLine machine.Pin  // EN GPIO pin
	mu     sync.Mutex   // transactions can come from the main loop and from interrupt spawned goroutines
}

// NewHWHandler configures bus at 400 kHz on the given pins and drives EN high
func NewHWHandler(bus *machine.I2C, sda machine.Pin, scl machine.Pin, enPin machine.Pin) (*HWHandler, error) {
	err := bus.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       sda,
		SCL:       scl,
	})
	if err != nil {
		return nil, err
	}
	handler := &HWHandler{
		i2c:    bus,
		enLine: enPin,
	}
	enPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	err = handler.Enable()
	if err != nil {
		return nil, err
	}
	return handler, nil
}

func (obj *HWHandler) WriteRegister(addr uint8, reg hal.RegAddress, value uint8) error {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	err := obj.i2c.WriteRegister(addr, reg.ToByte(), []byte{value})
	if err != nil {
		return hal.NewTransportError(hal.OpWrite, addr, reg, hal.ErrIO, err)
	}
	return nil
}

func (obj *HWHandler) ReadRegister(addr uint8, reg hal.RegAddress) (uint8, error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	buf := []byte{0}
	err := obj.i2c.ReadRegister(addr, reg.ToByte(), buf)
	if err != nil {
		return 0, hal.NewTransportError(hal.OpRead, addr, reg, hal.ErrIO, err)
	}
	return buf[0], nil
}

func (obj *HWHandler) Enable() error {
	obj.enLine.High()
	// device accepts I2C traffic 250us after EN rises
	time.Sleep(time.Millisecond)
	return nil
}

func (obj *HWHandler) Disable() error {
	obj.enLine.Low()
	return nil
}
