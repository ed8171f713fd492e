//go:build linux

package reefpi

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/reef-pi/hal"
	"github.com/reef-pi/rpi/i2c"
)

var _ i2c.Bus = (*fakeBus)(nil)

type fakeBus struct {
	regs   map[byte]byte
	writes [][2]byte
	err    error
}

func newFakeBus() *fakeBus {
	return &fakeBus{regs: make(map[byte]byte)}
}

func (b *fakeBus) ReadBytes(addr byte, num int) ([]byte, error) { return make([]byte, num), b.err }
func (b *fakeBus) WriteBytes(addr byte, value []byte) error     { return b.err }
func (b *fakeBus) Close() error                                 { return nil }
func (b *fakeBus) SetAddress(addr byte) error                   { return b.err }

func (b *fakeBus) ReadFromReg(addr, reg byte, value []byte) error {
	if b.err != nil {
		return b.err
	}
	value[0] = b.regs[reg]
	return nil
}

func (b *fakeBus) WriteToReg(addr, reg byte, value []byte) error {
	if b.err != nil {
		return b.err
	}
	b.writes = append(b.writes, [2]byte{reg, value[0]})
	b.regs[reg] = value[0]
	return nil
}

func validParams() map[string]interface{} {
	return map[string]interface{}{
		paramMotor:   "LRA",
		paramLibrary: 6.0,
		paramEffect:  47.0,
		paramDebug:   false,
	}
}

func TestFactoryMetadata(t *testing.T) {
	meta := Factory().Metadata()
	if meta.Name != "drv2605l" {
		t.Fatalf("unexpected name %q", meta.Name)
	}
	if len(Factory().GetParameters()) != 4 {
		t.Fatalf("expected 4 parameters")
	}
}

func TestValidateParameters(t *testing.T) {
	if ok, errs := Factory().ValidateParameters(validParams()); !ok {
		t.Fatalf("valid params rejected: %v", errs)
	}

	params := map[string]interface{}{
		paramMotor:   "stepper",
		paramLibrary: 8,
		paramEffect:  0,
		paramDebug:   "yes",
	}
	ok, errs := Factory().ValidateParameters(params)
	if ok {
		t.Fatalf("invalid params accepted")
	}
	for _, name := range []string{paramMotor, paramLibrary, paramEffect, paramDebug} {
		if len(errs[name]) == 0 {
			t.Errorf("no failure reported for %s", name)
		}
	}

	ok, errs = Factory().ValidateParameters(map[string]interface{}{paramMotor: "ERM"})
	if ok || len(errs[paramLibrary]) == 0 || len(errs[paramEffect]) == 0 {
		t.Fatalf("missing Library and Effect should be reported: %v", errs)
	}
}

func TestNewDriverConfiguresDevice(t *testing.T) {
	bus := newFakeBus()
	d, err := Factory().NewDriver(validParams(), bus)
	if err != nil {
		t.Fatal(err)
	}
	want := [][2]byte{
		{0x1A, 0x80},
		{0x03, 0x06},
		{0x04, 47},
		{0x05, 0x00},
		{0x01, 0x00},
	}
	if diff := cmp.Diff(want, bus.writes); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	out, ok := d.(hal.DigitalOutputDriver)
	if !ok {
		t.Fatalf("driver is not a digital output driver")
	}
	pin, err := out.DigitalOutputPin(0)
	if err != nil {
		t.Fatal(err)
	}
	bus.writes = nil
	if err := pin.Write(true); err != nil {
		t.Fatal(err)
	}
	if !pin.LastState() {
		t.Fatalf("last state should be on")
	}
	if err := pin.Write(false); err != nil {
		t.Fatal(err)
	}
	if pin.LastState() {
		t.Fatalf("last state should be off")
	}
	want = [][2]byte{{0x0C, 0x01}, {0x0C, 0x00}}
	if diff := cmp.Diff(want, bus.writes); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	if _, err := out.DigitalOutputPin(1); err == nil {
		t.Fatalf("pin 1 should not exist")
	}
	pins, err := d.Pins(hal.DigitalOutput)
	if err != nil || len(pins) != 1 {
		t.Fatalf("unexpected pins %v, %v", pins, err)
	}
	if _, err := d.Pins(hal.AnalogInput); err == nil {
		t.Fatalf("analog input should be unsupported")
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewDriverRejectsWrongBus(t *testing.T) {
	if _, err := Factory().NewDriver(validParams(), "not a bus"); err == nil {
		t.Fatalf("expected error for wrong bus type")
	}
}

func TestNewDriverReportsBusFailure(t *testing.T) {
	bus := newFakeBus()
	bus.err = errors.New("remote i/o error")
	if _, err := Factory().NewDriver(validParams(), bus); err == nil {
		t.Fatalf("expected configuration error")
	}
}

func TestFailedWriteKeepsState(t *testing.T) {
	bus := newFakeBus()
	d, err := Factory().NewDriver(validParams(), bus)
	if err != nil {
		t.Fatal(err)
	}
	pin := d.(hal.DigitalOutputDriver).DigitalOutputPins()[0]
	bus.err = errors.New("remote i/o error")
	if err := pin.Write(true); err == nil {
		t.Fatalf("expected write error")
	}
	if pin.LastState() {
		t.Fatalf("state must not change on a failed write")
	}
}
