// Package sc18im700 talks to I2C devices through an NXP SC18IM700 UART-to-I2C bridge.
//
// The bridge speaks single-letter commands over the serial line:
//
//	S <addr> <n> <data...> P          I2C write
//	S <addrW> 1 <reg> S <addrR> 1 P   register read with repeated start
//	R <reg> P                         read an internal bridge register
//
// Addresses on this wire are 8-bit, the 7-bit device address shifted left with the R/W flag in bit 0.
package sc18im700

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mbalug7/go-drv2605l/pkg/hal"
	"github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

const (
	cmdStart   byte = 'S'
	cmdStop    byte = 'P'
	cmdReadReg byte = 'R'
)

// internal register holding the result of the last I2C transaction
const regI2CStat byte = 0x0A

const (
	statOK          byte = 0xF0
	statNACKAddress byte = 0xF1
	statNACKData    byte = 0xF2
	statTimeout     byte = 0xF8
)

const DefaultBaud = 9600

type Bridge struct {
	port io.ReadWriteCloser // serial port the bridge is attached to
	mu   sync.Mutex         // one command frame on the line at a time
	log  *logrus.Entry
}

// Open opens the serial port ttyName and returns a bridge on top of it
func Open(ttyName string, baud int) (*Bridge, error) {
	config := &serial.Config{
		Name:        ttyName,
		Baud:        baud,
		Size:        8,
		ReadTimeout: 500 * time.Millisecond,
	}
	port, err := serial.OpenPort(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port, err: %w", err)
	}
	return New(port), nil
}

func New(port io.ReadWriteCloser) *Bridge {
	return &Bridge{
		port: port,
		log:  logrus.WithField("component", "sc18im700"),
	}
}

// SetLogger replaces the default logrus entry
func (obj *Bridge) SetLogger(log *logrus.Entry) {
	obj.log = log
}

func (obj *Bridge) WriteRegister(addr uint8, reg hal.RegAddress, value uint8) error {
	obj.mu.Lock()
	defer obj.mu.Unlock()

	frame := []byte{cmdStart, hal.WriteAddress(addr), 2, reg.ToByte(), value, cmdStop}
	obj.log.WithFields(logrus.Fields{"addr": addr, "reg": reg, "value": value}).Debug("i2c write")
	_, err := obj.port.Write(frame)
	if err != nil {
		return hal.NewTransportError(hal.OpWrite, addr, reg, hal.ErrBusNotReady, err)
	}
	stat, err := obj.transactionStatus()
	if err != nil {
		return hal.NewTransportError(hal.OpWrite, addr, reg, hal.ErrTimeout, err)
	}
	if kind := statusKind(stat); kind != nil {
		return hal.NewTransportError(hal.OpWrite, addr, reg, kind, fmt.Errorf("I2C status 0x%02X", stat))
	}
	return nil
}

func (obj *Bridge) ReadRegister(addr uint8, reg hal.RegAddress) (uint8, error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()

	frame := []byte{cmdStart, hal.WriteAddress(addr), 1, reg.ToByte(), cmdStart, hal.ReadAddress(addr), 1, cmdStop}
	_, err := obj.port.Write(frame)
	if err != nil {
		return 0, hal.NewTransportError(hal.OpRead, addr, reg, hal.ErrBusNotReady, err)
	}
	data, err := obj.readFull(1)
	if err != nil {
		// the bridge sends nothing back when the device NACKs, ask it why
		kind := hal.ErrTimeout
		stat, statErr := obj.transactionStatus()
		if statErr == nil && statusKind(stat) != nil {
			kind = statusKind(stat)
		}
		return 0, hal.NewTransportError(hal.OpRead, addr, reg, kind, err)
	}
	obj.log.WithFields(logrus.Fields{"addr": addr, "reg": reg, "value": data[0]}).Debug("i2c read")
	return data[0], nil
}

// transactionStatus reads I2CStat, the outcome of the last I2C transaction
func (obj *Bridge) transactionStatus() (byte, error) {
	_, err := obj.port.Write([]byte{cmdReadReg, regI2CStat, cmdStop})
	if err != nil {
		return 0, fmt.Errorf("failed to request I2C status: %w", err)
	}
	data, err := obj.readFull(1)
	if err != nil {
		return 0, fmt.Errorf("failed to read I2C status: %w", err)
	}
	return data[0], nil
}

func statusKind(stat byte) error {
	switch stat {
	case statOK:
		return nil
	case statNACKAddress, statNACKData:
		return hal.ErrNACK
	case statTimeout:
		return hal.ErrTimeout
	}
	return hal.ErrIO
}

// readFull reads n bytes, an empty read means the port timed out
func (obj *Bridge) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	got := 0
	for got < n {
		r, err := obj.port.Read(buf[got:])
		got += r
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to receive data: %w", err)
		}
		if r == 0 {
			return nil, fmt.Errorf("short read, got %d of %d bytes", got, n)
		}
	}
	return buf, nil
}

func (obj *Bridge) Close() error {
	err := obj.port.Close()
	if err != nil {
		return fmt.Errorf("failed to close serial stream: %w", err)
	}
	return nil
}
