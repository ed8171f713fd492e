package drv2605l

import "github.com/mbalug7/go-drv2605l/pkg/hal"

// STATUS register layout

type StatusReg struct {
	deviceID    uint8 // bits 7-5
	diagResult  bool  // bit 3, set when diagnostics or auto calibration failed
	overTemp    bool  // bit 1
	overCurrent bool  // bit 0
}

func (obj *StatusReg) GetAddress() hal.RegAddress {
	return STATUS
}

func (obj *StatusReg) GetValue() uint8 {
	var value uint8
	value = obj.deviceID << 5
	if obj.diagResult {
		value |= 0x08
	}
	if obj.overTemp {
		value |= 0x02
	}
	if obj.overCurrent {
		value |= 0x01
	}
	return value
}

func (obj *StatusReg) SetValue(value uint8) {
	obj.deviceID = value >> 5
	obj.diagResult = value&0x08 != 0
	obj.overTemp = value&0x02 != 0
	obj.overCurrent = value&0x01 != 0
}

func (obj *StatusReg) DeviceID() uint8 {
	return obj.deviceID
}

func (obj *StatusReg) DiagnosticFailed() bool {
	return obj.diagResult
}

func (obj *StatusReg) OverTemperature() bool {
	return obj.overTemp
}

func (obj *StatusReg) OverCurrent() bool {
	return obj.overCurrent
}

// Healthy reports a DRV2605L with no fault flags raised
func (obj *StatusReg) Healthy() bool {
	return obj.deviceID == DEVICE_ID_DRV2605L && !obj.diagResult && !obj.overTemp && !obj.overCurrent
}

// MODE register layout

type ModeReg struct {
	Reset   bool
	Standby bool
	Mode    uint8 // 0-7
}

func (obj *ModeReg) GetAddress() hal.RegAddress {
	return MODE
}

func (obj *ModeReg) GetValue() uint8 {
	value := obj.Mode & modeSelectMask
	if obj.Reset {
		value |= MODE_DEV_RESET
	}
	if obj.Standby {
		value |= MODE_STANDBY
	}
	return value
}

func (obj *ModeReg) SetValue(value uint8) {
	obj.Reset = value&MODE_DEV_RESET != 0
	obj.Standby = value&MODE_STANDBY != 0
	obj.Mode = value & modeSelectMask
}

// FEEDBACK_CONTROL register layout

type FeedbackReg struct {
	Actuator    uint8 // MOTOR_ERM or MOTOR_LRA
	BrakeFactor uint8 // 0-7, bits 6-4
	LoopGain    uint8 // 0-3, bits 3-2
	BEMFGain    uint8 // 0-3, bits 1-0
}

func (obj *FeedbackReg) GetAddress() hal.RegAddress {
	return FEEDBACK_CONTROL
}

func (obj *FeedbackReg) GetValue() uint8 {
	return obj.Actuator&MOTOR_LRA | (obj.BrakeFactor&0x07)<<4 | (obj.LoopGain&0x03)<<2 | obj.BEMFGain&0x03
}

func (obj *FeedbackReg) SetValue(value uint8) {
	obj.Actuator = value & MOTOR_LRA
	obj.BrakeFactor = (value >> 4) & 0x07
	obj.LoopGain = (value >> 2) & 0x03
	obj.BEMFGain = value & 0x03
}
