package drv2605l

import "github.com/mbalug7/go-drv2605l/pkg/hal"

// Address is the fixed 7-bit I2C address of the DRV2605L
const Address uint8 = 0x5A

const (
	STATUS                  hal.RegAddress = 0x00
	MODE                    hal.RegAddress = 0x01
	RTP_INPUT               hal.RegAddress = 0x02
	LIBRARY_SEL             hal.RegAddress = 0x03
	WAVESEQ1                hal.RegAddress = 0x04 // bit 7 turns the slot into a wait entry
	WAVESEQ2                hal.RegAddress = 0x05
	WAVESEQ3                hal.RegAddress = 0x06
	WAVESEQ4                hal.RegAddress = 0x07
	WAVESEQ5                hal.RegAddress = 0x08
	WAVESEQ6                hal.RegAddress = 0x09
	WAVESEQ7                hal.RegAddress = 0x0A
	WAVESEQ8                hal.RegAddress = 0x0B
	GO                      hal.RegAddress = 0x0C
	OVERDRIVE_TIME_OFFSET   hal.RegAddress = 0x0D // open loop only
	SUSTAIN_TIME_OFFSET_POS hal.RegAddress = 0x0E
	SUSTAIN_TIME_OFFSET_NEG hal.RegAddress = 0x0F
	BRAKE_TIME_OFFSET       hal.RegAddress = 0x10
	A2V_CTRL                hal.RegAddress = 0x11
	A2V_MIN_INPUT           hal.RegAddress = 0x12
	A2V_MAX_INPUT           hal.RegAddress = 0x13
	A2V_MAX_OUTPUT_DRIVE    hal.RegAddress = 0x14
	A2V_MIN_OUTPUT_DRIVE    hal.RegAddress = 0x15
	RATED_VOLTAGE           hal.RegAddress = 0x16
	OVERDRIVE_CLAMP         hal.RegAddress = 0x17
	AUTOCAL_COMP_RESULT     hal.RegAddress = 0x18
	AUTOCAL_BACK_EMF_RESULT hal.RegAddress = 0x19
	FEEDBACK_CONTROL        hal.RegAddress = 0x1A
	CONTROL1                hal.RegAddress = 0x1B
	CONTROL2                hal.RegAddress = 0x1C
	CONTROL3                hal.RegAddress = 0x1D
	CONTROL4                hal.RegAddress = 0x1E
	CONTROL5                hal.RegAddress = 0x1F
	LRA_OPEN_LOOP_PERIOD    hal.RegAddress = 0x20
	VBAT_MONITOR            hal.RegAddress = 0x21
	LRA_RESONANCE_PERIOD    hal.RegAddress = 0x22
)

// SEQUENCE_SLOTS is the number of waveform sequencer registers
const SEQUENCE_SLOTS = 8

// MODE register, bits 2-0
const (
	MODE_INTERNAL_TRIGGER       uint8 = 0x00 // playback starts with the GO bit
	MODE_EXTERNAL_TRIGGER_EDGE  uint8 = 0x01
	MODE_EXTERNAL_TRIGGER_LEVEL uint8 = 0x02
	MODE_PWM_ANALOG_INPUT       uint8 = 0x03
	MODE_AUDIO_TO_VIBE          uint8 = 0x04
	MODE_REALTIME_PLAYBACK      uint8 = 0x05
	MODE_DIAGNOSTICS            uint8 = 0x06 // result lands in STATUS bit 3
	MODE_AUTO_CALIBRATION       uint8 = 0x07
)

const (
	MODE_STANDBY   uint8 = 0x40
	MODE_DEV_RESET uint8 = 0x80
	modeSelectMask uint8 = 0x07
)

// LIBRARY_SEL values
const (
	LIBRARY_EMPTY uint8 = iota
	LIBRARY_TS2200_A
	LIBRARY_TS2200_B
	LIBRARY_TS2200_C
	LIBRARY_TS2200_D
	LIBRARY_TS2200_E
	LIBRARY_LRA
	LIBRARY_TS2200_F
)

// FEEDBACK_CONTROL bit 7
const (
	MOTOR_ERM uint8 = 0x00
	MOTOR_LRA uint8 = 0x80
)

const (
	GO_BIT       uint8 = 0x01
	WAIT_BIT     uint8 = 0x80
	waveformMask uint8 = 0x7F
)

// device ids reported in STATUS bits 7-5
const (
	DEVICE_ID_DRV2605  uint8 = 3
	DEVICE_ID_DRV2604  uint8 = 4
	DEVICE_ID_DRV2604L uint8 = 6
	DEVICE_ID_DRV2605L uint8 = 7
)

type RegisterInfo struct {
	Address hal.RegAddress
	Name    string
}

// Registers lists every register of the device in address order
var Registers = []RegisterInfo{
	{STATUS, "Status"},
	{MODE, "Mode"},
	{RTP_INPUT, "Real-Time Playback"},
	{LIBRARY_SEL, "Library Selection"},
	{WAVESEQ1, "Waveform Sequence 1"},
	{WAVESEQ2, "Waveform Sequence 2"},
	{WAVESEQ3, "Waveform Sequence 3"},
	{WAVESEQ4, "Waveform Sequence 4"},
	{WAVESEQ5, "Waveform Sequence 5"},
	{WAVESEQ6, "Waveform Sequence 6"},
	{WAVESEQ7, "Waveform Sequence 7"},
	{WAVESEQ8, "Waveform Sequence 8"},
	{GO, "Go"},
	{OVERDRIVE_TIME_OFFSET, "Overdrive Time Offset"},
	{SUSTAIN_TIME_OFFSET_POS, "Sustain Time Offset (+)"},
	{SUSTAIN_TIME_OFFSET_NEG, "Sustain Time Offset (-)"},
	{BRAKE_TIME_OFFSET, "Brake Time Offset"},
	{A2V_CTRL, "Audio-to-Vibe Control"},
	{A2V_MIN_INPUT, "Audio-to-Vibe Min Input Level"},
	{A2V_MAX_INPUT, "Audio-to-Vibe Max Input Level"},
	{A2V_MAX_OUTPUT_DRIVE, "Audio-to-Vibe Max Output Drive"},
	{A2V_MIN_OUTPUT_DRIVE, "Audio-to-Vibe Min Output Drive"},
	{RATED_VOLTAGE, "Rated Voltage"},
	{OVERDRIVE_CLAMP, "Overdrive Clamp Voltage"},
	{AUTOCAL_COMP_RESULT, "Auto-Cal Compensation Result"},
	{AUTOCAL_BACK_EMF_RESULT, "Auto-Cal Back-EMF Result"},
	{FEEDBACK_CONTROL, "Feedback Control"},
	{CONTROL1, "Control1"},
	{CONTROL2, "Control2"},
	{CONTROL3, "Control3"},
	{CONTROL4, "Control4"},
	{CONTROL5, "Control5"},
	{LRA_OPEN_LOOP_PERIOD, "LRA Open-Loop Period"},
	{VBAT_MONITOR, "VBAT Voltage Monitor"},
	{LRA_RESONANCE_PERIOD, "LRA Resonance Period"},
}

// RegisterName returns the datasheet name of reg, or its hex address if unknown
func RegisterName(reg hal.RegAddress) string {
	for _, r := range Registers {
		if r.Address == reg {
			return r.Name
		}
	}
	return reg.String()
}

// SequenceRegister returns the sequencer register for slot without range checking.
// Slots past 7 land on GO and the registers after it.
func SequenceRegister(slot uint8) hal.RegAddress {
	return WAVESEQ1 + hal.RegAddress(slot)
}
