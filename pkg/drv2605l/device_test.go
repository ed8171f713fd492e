package drv2605l

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mazen160/go-random"
	"github.com/mbalug7/go-drv2605l/pkg/hal"
	"github.com/mbalug7/go-drv2605l/pkg/sim"
)

func newTestDevice() (*Device, *sim.Device) {
	bus := sim.New(Address)
	return New(bus), bus
}

func write(reg hal.RegAddress, value uint8) sim.Transaction {
	return sim.Transaction{Op: hal.OpWrite, Addr: Address, Reg: reg, Value: value}
}

func TestRegisterRoundTrip(t *testing.T) {
	dev, _ := newTestDevice()
	values, err := random.String(len(Registers))
	if err != nil {
		t.Fatal(err)
	}
	for i, reg := range Registers {
		// random values are alphanumeric ASCII, the edges cover bit 7 and the extremes
		for _, value := range []uint8{values[i], 0x00, 0x7F, 0x80, 0xFF} {
			if err := dev.WriteRegister(reg.Address, value); err != nil {
				t.Fatalf("%s: %v", reg.Name, err)
			}
			got, err := dev.ReadRegister(reg.Address)
			if err != nil {
				t.Fatalf("%s: %v", reg.Name, err)
			}
			if got != value {
				t.Errorf("%s: got 0x%02X, want 0x%02X", reg.Name, got, value)
			}
		}
	}
}

func TestSetMode(t *testing.T) {
	for m := MODE_INTERNAL_TRIGGER; m <= MODE_AUTO_CALIBRATION; m++ {
		dev, bus := newTestDevice()
		if err := dev.SetMode(m); err != nil {
			t.Fatal(err)
		}
		want := []sim.Transaction{write(MODE, m)}
		if diff := cmp.Diff(want, bus.Transactions()); diff != "" {
			t.Errorf("mode %d (-want +got):\n%s", m, diff)
		}
	}
}

func TestSetModePassesValueThrough(t *testing.T) {
	dev, bus := newTestDevice()
	if err := dev.SetMode(0xC3); err != nil {
		t.Fatal(err)
	}
	if got := bus.Peek(MODE); got != 0xC3 {
		t.Fatalf("got 0x%02X, want 0xC3", got)
	}
}

func TestSetWaveform(t *testing.T) {
	for slot := uint8(0); slot < SEQUENCE_SLOTS; slot++ {
		dev, bus := newTestDevice()
		if err := dev.SetWaveform(slot, 47); err != nil {
			t.Fatal(err)
		}
		want := []sim.Transaction{write(0x04+hal.RegAddress(slot), 47)}
		if diff := cmp.Diff(want, bus.Transactions()); diff != "" {
			t.Errorf("slot %d (-want +got):\n%s", slot, diff)
		}
	}
}

func TestSetWaveformRejectsSlotPastSequencer(t *testing.T) {
	// slot 8 would alias onto the GO register
	if got := SequenceRegister(8); got != GO {
		t.Fatalf("slot 8 address: got %s, want %s", got, GO)
	}
	dev, bus := newTestDevice()
	err := dev.SetWaveform(8, 1)
	if !errors.Is(err, ErrSlotOutOfRange) {
		t.Fatalf("got %v, want ErrSlotOutOfRange", err)
	}
	if n := len(bus.Transactions()); n != 0 {
		t.Fatalf("expected no bus traffic, got %d transactions", n)
	}
}

func TestGoStop(t *testing.T) {
	dev, bus := newTestDevice()
	if err := dev.Go(); err != nil {
		t.Fatal(err)
	}
	if err := dev.Stop(); err != nil {
		t.Fatal(err)
	}
	want := []sim.Transaction{write(GO, 0x01), write(GO, 0x00)}
	if diff := cmp.Diff(want, bus.Transactions()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestGetStatusIsRaw(t *testing.T) {
	dev, bus := newTestDevice()
	bus.Poke(STATUS, 0xFF)
	got, err := dev.GetStatus()
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xFF {
		t.Fatalf("got 0x%02X, want 0xFF", got)
	}
}

func TestPlaybackScenario(t *testing.T) {
	dev, bus := newTestDevice()
	steps := []func() error{
		func() error { return dev.SelectMotor(MOTOR_ERM) },
		func() error { return dev.SetLibrary(LIBRARY_TS2200_A) },
		func() error { return dev.SetWaveform(0, 1) },
		func() error { return dev.SetMode(MODE_INTERNAL_TRIGGER) },
		dev.Go,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}
	want := []sim.Transaction{
		write(0x1A, 0x00),
		write(0x03, 0x01),
		write(0x04, 0x01),
		write(0x01, 0x00),
		write(0x0C, 0x01),
	}
	if diff := cmp.Diff(want, bus.Writes()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestTransportErrorSurfaces(t *testing.T) {
	dev, bus := newTestDevice()
	bus.Fail(hal.ErrNACK)

	err := dev.Go()
	if !errors.Is(err, hal.ErrNACK) {
		t.Fatalf("write: got %v, want NACK", err)
	}
	var te *hal.TransportError
	if !errors.As(err, &te) || te.Reg != GO {
		t.Fatalf("expected transport error on GO, got %v", err)
	}

	_, err = dev.GetStatus()
	if !errors.Is(err, hal.ErrNACK) {
		t.Fatalf("read: got %v, want NACK", err)
	}
}

func TestStatusDecode(t *testing.T) {
	dev, bus := newTestDevice()
	bus.Poke(STATUS, 0xE0|0x08|0x01)
	status, err := dev.Status()
	if err != nil {
		t.Fatal(err)
	}
	if status.DeviceID() != DEVICE_ID_DRV2605L {
		t.Errorf("device id: got %d", status.DeviceID())
	}
	if !status.DiagnosticFailed() || status.OverTemperature() || !status.OverCurrent() {
		t.Errorf("unexpected flags: %+v", status)
	}
	if status.Healthy() {
		t.Errorf("status with fault flags reported healthy")
	}
}

func TestSetStandbyKeepsMode(t *testing.T) {
	dev, bus := newTestDevice()
	bus.Poke(MODE, MODE_STANDBY|MODE_AUDIO_TO_VIBE)

	if err := dev.SetStandby(false); err != nil {
		t.Fatal(err)
	}
	if got := bus.Peek(MODE); got != MODE_AUDIO_TO_VIBE {
		t.Fatalf("got 0x%02X, want 0x%02X", got, MODE_AUDIO_TO_VIBE)
	}
	if err := dev.SetStandby(true); err != nil {
		t.Fatal(err)
	}
	if got := bus.Peek(MODE); got != MODE_STANDBY|MODE_AUDIO_TO_VIBE {
		t.Fatalf("got 0x%02X", got)
	}
}

func TestRegisterModels(t *testing.T) {
	dev, bus := newTestDevice()

	feedback := &FeedbackReg{}
	if err := dev.ReadModel(feedback); err != nil {
		t.Fatal(err)
	}
	feedback.Actuator = MOTOR_LRA
	if err := dev.WriteModel(feedback); err != nil {
		t.Fatal(err)
	}
	want := []sim.Transaction{
		{Op: hal.OpRead, Addr: Address, Reg: FEEDBACK_CONTROL, Value: 0x36},
		write(FEEDBACK_CONTROL, 0xB6),
	}
	if diff := cmp.Diff(want, bus.Transactions()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	models := []hal.Register{&StatusReg{}, &ModeReg{}, &FeedbackReg{}}
	for _, reg := range models {
		if err := dev.ReadModel(reg); err != nil {
			t.Fatal(err)
		}
		if got, want := reg.GetValue(), bus.Peek(reg.GetAddress()); got != want {
			t.Errorf("%s: model holds 0x%02X, register 0x%02X", RegisterName(reg.GetAddress()), got, want)
		}
	}

	bus.Fail(hal.ErrTimeout)
	if err := dev.WriteModel(&ModeReg{}); !errors.Is(err, hal.ErrTimeout) {
		t.Fatalf("got %v, want timeout", err)
	}
}

func TestSetRealtimeValue(t *testing.T) {
	dev, bus := newTestDevice()
	if err := dev.SetRealtimeValue(0x7F); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]sim.Transaction{write(RTP_INPUT, 0x7F)}, bus.Transactions()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestSupplyVoltage(t *testing.T) {
	dev, bus := newTestDevice()
	bus.Poke(VBAT_MONITOR, 0xFF)
	v, err := dev.SupplyVoltage()
	if err != nil {
		t.Fatal(err)
	}
	if v < 5.59 || v > 5.61 {
		t.Fatalf("got %.3f V, want 5.6 V", v)
	}
}

func TestResonancePeriod(t *testing.T) {
	dev, bus := newTestDevice()
	bus.Poke(LRA_RESONANCE_PERIOD, 50)
	p, err := dev.ResonancePeriod()
	if err != nil {
		t.Fatal(err)
	}
	want := 4923 * time.Microsecond
	if diff := p - want; diff > time.Microsecond || diff < -time.Microsecond {
		t.Fatalf("got %s, want %s", p, want)
	}
}

func TestWaitPlayback(t *testing.T) {
	interval := playbackPollInterval
	playbackPollInterval = time.Millisecond
	t.Cleanup(func() { playbackPollInterval = interval })

	dev, bus := newTestDevice()
	bus.AutoClearGo(true)
	if err := dev.Go(); err != nil {
		t.Fatal(err)
	}
	if err := dev.WaitPlayback(50 * time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dev, _ = newTestDevice()
	if err := dev.Go(); err != nil {
		t.Fatal(err)
	}
	if err := dev.WaitPlayback(5 * time.Millisecond); !errors.Is(err, ErrPlaybackTimeout) {
		t.Fatalf("got %v, want ErrPlaybackTimeout", err)
	}
}

func TestRegisterName(t *testing.T) {
	if got := RegisterName(FEEDBACK_CONTROL); got != "Feedback Control" {
		t.Fatalf("got %q", got)
	}
	if got := RegisterName(0x40); got != "0x40" {
		t.Fatalf("got %q", got)
	}
}

func TestRegisterTableIsContiguous(t *testing.T) {
	for i, reg := range Registers {
		if reg.Address != hal.RegAddress(i) {
			t.Fatalf("entry %d (%s) has address %s", i, reg.Name, reg.Address)
		}
	}
	if last := Registers[len(Registers)-1].Address; last != 0x22 {
		t.Fatalf("last register: got %s, want 0x22", last)
	}
}
