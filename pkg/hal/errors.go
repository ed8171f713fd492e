package hal

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout     = errors.New("transaction timeout")
	ErrNACK        = errors.New("device did not acknowledge")
	ErrBusNotReady = errors.New("bus not ready")
	ErrIO          = errors.New("bus i/o failure")
)

type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// TransportError is returned by Bus implementations when a transaction fails.
// Kind is one of ErrTimeout, ErrNACK, ErrBusNotReady or ErrIO.
type TransportError struct {
	Op   Op
	Addr uint8
	Reg  RegAddress
	Kind error
	Err  error
}

func NewTransportError(op Op, addr uint8, reg RegAddress, kind error, err error) *TransportError {
	return &TransportError{Op: op, Addr: addr, Reg: reg, Kind: kind, Err: err}
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("i2c %s addr 0x%02X reg %s: %s", e.Op, e.Addr, e.Reg, e.Kind)
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Is(target error) bool {
	return target == e.Kind
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
