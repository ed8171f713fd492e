package drv2605l

import (
	"fmt"
	"time"
)

// waitStep is the resolution of a wait entry in the sequencer
const waitStep = 10 * time.Millisecond

// SequenceBuilder stages up to 8 sequencer entries and writes them in one go
type SequenceBuilder struct {
	device *Device
	slots  []uint8
	err    error
}

// NewSequenceBuilder constructs SequenceBuilder
func NewSequenceBuilder(device *Device) *SequenceBuilder {
	return &SequenceBuilder{
		device: device,
		slots:  make([]uint8, 0, SEQUENCE_SLOTS),
	}
}

// Effect appends a library effect, 1-123. Effect 0 ends the sequence early.
func (obj *SequenceBuilder) Effect(waveform uint8) *SequenceBuilder {
	return obj.stage(waveform & waveformMask)
}

// Wait appends a pause, rounded down to 10 ms steps and clamped to 10-1270 ms
func (obj *SequenceBuilder) Wait(d time.Duration) *SequenceBuilder {
	steps := d / waitStep
	if steps < 1 {
		steps = 1
	}
	if steps > time.Duration(waveformMask) {
		steps = time.Duration(waveformMask)
	}
	return obj.stage(WAIT_BIT | uint8(steps))
}

func (obj *SequenceBuilder) stage(value uint8) *SequenceBuilder {
	if len(obj.slots) >= SEQUENCE_SLOTS {
		obj.err = ErrSequenceFull
		return obj
	}
	obj.slots = append(obj.slots, value)
	return obj
}

// Slots returns a copy of the staged register values
func (obj *SequenceBuilder) Slots() []uint8 {
	return append([]uint8(nil), obj.slots...)
}

// Write stores the staged entries starting at slot 0. A zero terminator follows when fewer than 8 are staged.
func (obj *SequenceBuilder) Write() error {
	if obj.err != nil {
		return obj.err
	}
	for i, value := range obj.slots {
		err := obj.device.SetWaveform(uint8(i), value)
		if err != nil {
			return fmt.Errorf("failed to write sequence slot %d: %w", i, err)
		}
	}
	if len(obj.slots) < SEQUENCE_SLOTS {
		err := obj.device.SetWaveform(uint8(len(obj.slots)), 0)
		if err != nil {
			return fmt.Errorf("failed to terminate sequence: %w", err)
		}
	}
	return nil
}

// Play writes the sequence and sets the GO bit
func (obj *SequenceBuilder) Play() error {
	err := obj.Write()
	if err != nil {
		return err
	}
	return obj.device.Go()
}
