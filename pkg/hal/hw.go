package hal

import "time"

// Bus is a blocking register transport. Every call is exactly one single-byte transaction
// addressed with a 7-bit device address. Implementations that can be shared between goroutines
// must serialise transactions themselves.
type Bus interface {
	WriteRegister(addr uint8, reg RegAddress, value uint8) error
	ReadRegister(addr uint8, reg RegAddress) (uint8, error)
}

// Enabler is implemented by handlers that drive the device EN pin
type Enabler interface {
	Enable() error
	Disable() error
}

// Trigger is implemented by handlers wired to the device IN/TRIG pin
type Trigger interface {
	Pulse(width time.Duration) error
	SetLevel(high bool) error
}

// WriteAddress returns the 8-bit address byte used on the wire for a write transaction
func WriteAddress(addr uint8) byte {
	return addr << 1
}

// ReadAddress returns the 8-bit address byte used on the wire for a read transaction
func ReadAddress(addr uint8) byte {
	return addr<<1 | 0x01
}
