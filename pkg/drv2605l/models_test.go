package drv2605l

import "testing"

func TestFeedbackRegPacking(t *testing.T) {
	reg := &FeedbackReg{Actuator: MOTOR_LRA, BrakeFactor: 3, LoopGain: 1, BEMFGain: 2}
	if got := reg.GetValue(); got != 0xB6 {
		t.Fatalf("got 0x%02X, want 0xB6", got)
	}
	decoded := &FeedbackReg{}
	decoded.SetValue(0x36)
	want := FeedbackReg{Actuator: MOTOR_ERM, BrakeFactor: 3, LoopGain: 1, BEMFGain: 2}
	if *decoded != want {
		t.Fatalf("got %+v, want %+v", *decoded, want)
	}
	if decoded.GetAddress() != FEEDBACK_CONTROL {
		t.Fatalf("wrong address %s", decoded.GetAddress())
	}
}

func TestModeRegMasksReservedBits(t *testing.T) {
	reg := &ModeReg{}
	reg.SetValue(0xFF)
	if !reg.Reset || !reg.Standby || reg.Mode != 0x07 {
		t.Fatalf("unexpected decode %+v", reg)
	}
	if got := reg.GetValue(); got != 0xC7 {
		t.Fatalf("reserved bits leaked: 0x%02X", got)
	}
}

func TestStatusRegRoundTrip(t *testing.T) {
	reg := &StatusReg{}
	reg.SetValue(0xE0)
	if !reg.Healthy() {
		t.Fatalf("0xE0 should be healthy")
	}
	reg.SetValue(0xEB)
	if got := reg.GetValue(); got != 0xEB {
		t.Fatalf("got 0x%02X, want 0xEB", got)
	}
	if !reg.OverTemperature() {
		t.Fatalf("over temperature flag lost")
	}
}
