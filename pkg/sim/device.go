// Package sim provides an in-memory DRV2605L register file implementing hal.Bus.
package sim

import (
	"sync"

	"github.com/mbalug7/go-drv2605l/pkg/hal"
)

// Transaction is one recorded bus access
type Transaction struct {
	Op    hal.Op
	Addr  uint8
	Reg   hal.RegAddress
	Value uint8
}

// power-on register values from the datasheet register map
var powerOnDefaults = map[hal.RegAddress]uint8{
	0x00: 0xE0, // device id 7
	0x01: 0x40, // standby
	0x04: 0x01,
	0x11: 0x05,
	0x12: 0x19,
	0x13: 0xFF,
	0x14: 0xFF,
	0x15: 0x19,
	0x16: 0x3E,
	0x17: 0x8C,
	0x18: 0x0C,
	0x19: 0x6C,
	0x1A: 0x36,
	0x1B: 0x93,
	0x1C: 0xF5,
	0x1D: 0xA0,
	0x1E: 0x20,
	0x1F: 0x80,
	0x20: 0x33,
}

const goRegister hal.RegAddress = 0x0C

type Device struct {
	mu          sync.Mutex
	addr        uint8
	regs        [256]uint8
	log         []Transaction
	failure     error
	autoClearGo bool
}

// New creates a simulated device answering at the 7-bit address addr
func New(addr uint8) *Device {
	dev := &Device{addr: addr}
	dev.PowerOn()
	return dev
}

// PowerOn restores register defaults and clears the transaction log
func (obj *Device) PowerOn() {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.regs = [256]uint8{}
	for reg, value := range powerOnDefaults {
		obj.regs[reg] = value
	}
	obj.log = nil
}

// AutoClearGo makes the GO bit read back as cleared, as if playback finished instantly
func (obj *Device) AutoClearGo(enable bool) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.autoClearGo = enable
}

// Fail makes every following transaction fail with kind, nil restores normal operation
func (obj *Device) Fail(kind error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.failure = kind
}

func (obj *Device) WriteRegister(addr uint8, reg hal.RegAddress, value uint8) error {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	if err := obj.check(hal.OpWrite, addr, reg); err != nil {
		return err
	}
	obj.log = append(obj.log, Transaction{Op: hal.OpWrite, Addr: addr, Reg: reg, Value: value})
	obj.regs[reg] = value
	if obj.autoClearGo && reg == goRegister {
		obj.regs[reg] = value &^ 0x01
	}
	return nil
}

func (obj *Device) ReadRegister(addr uint8, reg hal.RegAddress) (uint8, error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	if err := obj.check(hal.OpRead, addr, reg); err != nil {
		return 0, err
	}
	value := obj.regs[reg]
	obj.log = append(obj.log, Transaction{Op: hal.OpRead, Addr: addr, Reg: reg, Value: value})
	return value, nil
}

func (obj *Device) check(op hal.Op, addr uint8, reg hal.RegAddress) error {
	if obj.failure != nil {
		return hal.NewTransportError(op, addr, reg, obj.failure, nil)
	}
	if addr != obj.addr {
		return hal.NewTransportError(op, addr, reg, hal.ErrNACK, nil)
	}
	return nil
}

// Peek returns a register value without recording a transaction
func (obj *Device) Peek(reg hal.RegAddress) uint8 {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	return obj.regs[reg]
}

// Poke sets a register value without recording a transaction, e.g. to raise status flags
func (obj *Device) Poke(reg hal.RegAddress, value uint8) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.regs[reg] = value
}

// Transactions returns a copy of the recorded transactions
func (obj *Device) Transactions() []Transaction {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	return append([]Transaction(nil), obj.log...)
}

// Writes returns the recorded write transactions only
func (obj *Device) Writes() []Transaction {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	var writes []Transaction
	for _, tx := range obj.log {
		if tx.Op == hal.OpWrite {
			writes = append(writes, tx)
		}
	}
	return writes
}

// ResetLog drops the recorded transactions
func (obj *Device) ResetLog() {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.log = nil
}
