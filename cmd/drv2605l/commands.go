package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mbalug7/go-drv2605l/pkg/drv2605l"
	"github.com/mbalug7/go-drv2605l/pkg/hal"
	"github.com/spf13/cobra"
)

// parseByte accepts decimal, 0x hex and 0b binary
func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte value %q: %w", s, err)
	}
	return uint8(v), nil
}

// parseRegister accepts a register address or its name, case insensitive
func parseRegister(s string) (hal.RegAddress, error) {
	for _, info := range drv2605l.Registers {
		if strings.EqualFold(info.Name, s) {
			return info.Address, nil
		}
	}
	v, err := parseByte(s)
	if err != nil {
		return 0, fmt.Errorf("unknown register %q", s)
	}
	return hal.RegAddress(v), nil
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Read and decode the STATUS register",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.device.Status()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status:      0x%02X\n", status.GetValue())
			fmt.Fprintf(out, "device id:   %d\n", status.DeviceID())
			fmt.Fprintf(out, "diag fail:   %t\n", status.DiagnosticFailed())
			fmt.Fprintf(out, "over temp:   %t\n", status.OverTemperature())
			fmt.Fprintf(out, "over curr:   %t\n", status.OverCurrent())
			vbat, err := a.device.SupplyVoltage()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "supply:      %.2f V\n", vbat)
			return nil
		},
	}
}

func (a *app) readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <register>",
		Short: "Read a single register",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := parseRegister(args[0])
			if err != nil {
				return err
			}
			value, err := a.device.ReadRegister(reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = 0x%02X\n", reg, drv2605l.RegisterName(reg), value)
			return nil
		},
	}
}

func (a *app) writeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write <register> <value>",
		Short: "Write a single register",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := parseRegister(args[0])
			if err != nil {
				return err
			}
			value, err := parseByte(args[1])
			if err != nil {
				return err
			}
			return a.device.WriteRegister(reg, value)
		},
	}
}

func (a *app) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Read every register of the map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, info := range drv2605l.Registers {
				value, err := a.device.ReadRegister(info.Address)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-32s 0x%02X\n", info.Address, info.Name, value)
			}
			return nil
		},
	}
}

func (a *app) modeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode <0-7>",
		Short: "Select the operating mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseByte(args[0])
			if err != nil {
				return err
			}
			if mode > drv2605l.MODE_AUTO_CALIBRATION {
				return fmt.Errorf("mode %d out of range 0-7", mode)
			}
			return a.device.SetMode(mode)
		},
	}
}

// parseSequence turns arguments like "47 w100ms 14" into a sequence, entries prefixed with w are waits
func parseSequence(seq *drv2605l.SequenceBuilder, args []string) error {
	for _, arg := range args {
		if strings.HasPrefix(arg, "w") {
			d, err := time.ParseDuration(arg[1:])
			if err != nil {
				return fmt.Errorf("invalid wait %q: %w", arg, err)
			}
			seq.Wait(d)
			continue
		}
		effect, err := parseByte(arg)
		if err != nil {
			return err
		}
		if effect == 0 || effect > 127 {
			return fmt.Errorf("effect %d out of range 1-127", effect)
		}
		seq.Effect(effect)
	}
	return nil
}

func (a *app) playCmd() *cobra.Command {
	var wait time.Duration
	cmd := &cobra.Command{
		Use:   "play <effect|wNNms>...",
		Short: "Load up to 8 effects and waits into the sequencer and fire GO",
		Args:  cobra.RangeArgs(1, int(drv2605l.SEQUENCE_SLOTS)),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq := drv2605l.NewSequenceBuilder(a.device)
			err := parseSequence(seq, args)
			if err != nil {
				return err
			}
			err = a.device.SetMode(drv2605l.MODE_INTERNAL_TRIGGER)
			if err != nil {
				return err
			}
			err = a.device.SelectMotor(a.motorFeedback())
			if err != nil {
				return err
			}
			err = a.device.SetLibrary(a.cfg.Library)
			if err != nil {
				return err
			}
			err = seq.Play()
			if err != nil {
				return err
			}
			if wait > 0 {
				return a.device.WaitPlayback(wait)
			}
			return nil
		},
	}
	cmd.Flags().DurationVarP(&wait, "wait", "w", 0, "wait until playback finishes, 0 returns right after GO")
	return cmd
}

func (a *app) stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Cancel playback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.device.Stop()
		},
	}
}

func (a *app) standbyCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "standby <on|off>",
		Short:     "Enter or leave software standby",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.device.SetStandby(args[0] == "on")
		},
	}
}

func (a *app) rtpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rtp <value>",
		Short: "Switch to real-time playback and drive the given amplitude",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseByte(args[0])
			if err != nil {
				return err
			}
			err = a.device.SetMode(drv2605l.MODE_REALTIME_PLAYBACK)
			if err != nil {
				return err
			}
			return a.device.SetRealtimeValue(value)
		},
	}
}

func (a *app) triggerCmd() *cobra.Command {
	var width time.Duration
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Pulse the IN/TRIG line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trig, ok := a.bus.(hal.Trigger)
			if !ok {
				return errors.New("transport has no IN/TRIG line")
			}
			return trig.Pulse(width)
		},
	}
	cmd.Flags().DurationVar(&width, "width", time.Millisecond, "pulse width")
	return cmd
}

func (a *app) powerCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "power <on|off>",
		Short:     "Drive the EN line, the device loses its registers while off",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			en, ok := a.bus.(hal.Enabler)
			if !ok {
				return errors.New("transport has no EN line")
			}
			if args[0] == "on" {
				return en.Enable()
			}
			return en.Disable()
		},
	}
}
