// Package drv2605l drives the TI DRV2605L haptic motor controller.
//
// Every operation is a single blocking register transaction on the injected hal.Bus.
// The driver keeps no copy of register values, the device holds that state.
package drv2605l

import (
	"errors"
	"fmt"
	"time"

	"github.com/mbalug7/go-drv2605l/pkg/hal"
)

var (
	ErrSlotOutOfRange  = errors.New("waveform sequence slot out of range")
	ErrSequenceFull    = errors.New("waveform sequence holds at most 8 entries")
	ErrPlaybackTimeout = errors.New("playback did not finish in time")
)

var playbackPollInterval = 5 * time.Millisecond

type Device struct {
	bus  hal.Bus
	addr uint8
}

// New creates a device handler on top of bus. The bus is used, not owned, closing it is up to the caller.
func New(bus hal.Bus) *Device {
	return &Device{
		bus:  bus,
		addr: Address,
	}
}

func (obj *Device) WriteRegister(reg hal.RegAddress, value uint8) error {
	err := obj.bus.WriteRegister(obj.addr, reg, value)
	if err != nil {
		return fmt.Errorf("failed to write %s register: %w", RegisterName(reg), err)
	}
	return nil
}

func (obj *Device) ReadRegister(reg hal.RegAddress) (uint8, error) {
	value, err := obj.bus.ReadRegister(obj.addr, reg)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s register: %w", RegisterName(reg), err)
	}
	return value, nil
}

// ReadModel fills reg from the register at its address
func (obj *Device) ReadModel(reg hal.Register) error {
	value, err := obj.ReadRegister(reg.GetAddress())
	if err != nil {
		return err
	}
	reg.SetValue(value)
	return nil
}

// WriteModel stores reg at its address
func (obj *Device) WriteModel(reg hal.Register) error {
	return obj.WriteRegister(reg.GetAddress(), reg.GetValue())
}

// SetMode writes mode to the MODE register as is, see MODE_* constants
func (obj *Device) SetMode(mode uint8) error {
	return obj.WriteRegister(MODE, mode)
}

// SelectMotor writes the FEEDBACK_CONTROL register, bit 7 selects ERM (0) or LRA (1).
// It should be set before running auto calibration.
func (obj *Device) SelectMotor(feedback uint8) error {
	return obj.WriteRegister(FEEDBACK_CONTROL, feedback)
}

// SetLibrary selects one of the ROM waveform libraries, see LIBRARY_* constants
func (obj *Device) SetLibrary(library uint8) error {
	return obj.WriteRegister(LIBRARY_SEL, library)
}

// SetWaveform stores waveform in sequencer slot 0-7
func (obj *Device) SetWaveform(slot uint8, waveform uint8) error {
	if slot >= SEQUENCE_SLOTS {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, slot)
	}
	return obj.WriteRegister(SequenceRegister(slot), waveform)
}

// GetStatus returns the raw STATUS register
func (obj *Device) GetStatus() (uint8, error) {
	return obj.ReadRegister(STATUS)
}

// Go starts playback of the waveform sequence
func (obj *Device) Go() error {
	return obj.WriteRegister(GO, GO_BIT)
}

// Stop cancels playback
func (obj *Device) Stop() error {
	return obj.WriteRegister(GO, 0x00)
}

// Status reads and decodes the STATUS register
func (obj *Device) Status() (*StatusReg, error) {
	status := &StatusReg{}
	err := obj.ReadModel(status)
	if err != nil {
		return nil, err
	}
	return status, nil
}

// SetStandby toggles the standby bit while preserving the selected mode
func (obj *Device) SetStandby(standby bool) error {
	mode := &ModeReg{}
	err := obj.ReadModel(mode)
	if err != nil {
		return err
	}
	mode.Standby = standby
	mode.Reset = false
	return obj.WriteModel(mode)
}

// SetRealtimeValue sets the drive level used in MODE_REALTIME_PLAYBACK
func (obj *Device) SetRealtimeValue(value uint8) error {
	return obj.WriteRegister(RTP_INPUT, value)
}

// SupplyVoltage returns VDD in volts. The device only samples it while a waveform is playing.
func (obj *Device) SupplyVoltage() (float64, error) {
	value, err := obj.ReadRegister(VBAT_MONITOR)
	if err != nil {
		return 0, err
	}
	return float64(value) * 5.6 / 255, nil
}

// ResonancePeriod returns the last measured LRA resonance period
func (obj *Device) ResonancePeriod() (time.Duration, error) {
	value, err := obj.ReadRegister(LRA_RESONANCE_PERIOD)
	if err != nil {
		return 0, err
	}
	return time.Duration(float64(value) * 98.46 * float64(time.Microsecond)), nil
}

// WaitPlayback polls the GO register until the device clears the GO bit
func (obj *Device) WaitPlayback(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		value, err := obj.ReadRegister(GO)
		if err != nil {
			return err
		}
		if value&GO_BIT == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrPlaybackTimeout
		}
		time.Sleep(playbackPollInterval)
	}
}
