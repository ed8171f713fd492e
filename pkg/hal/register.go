package hal

import "fmt"

// RegAddress is an 8-bit register sub-address on an I2C device
type RegAddress uint8

func (a RegAddress) ToByte() byte {
	return byte(a)
}

func (a RegAddress) String() string {
	return fmt.Sprintf("0x%02X", uint8(a))
}

// Register is a typed model of a single device register
type Register interface {
	GetAddress() RegAddress
	GetValue() uint8
	SetValue(value uint8)
}
