package main

import (
	"fmt"
	"io"

	"github.com/mbalug7/go-drv2605l/pkg/config"
	"github.com/mbalug7/go-drv2605l/pkg/drv2605l"
	"github.com/mbalug7/go-drv2605l/pkg/hal"
	"github.com/mbalug7/go-drv2605l/pkg/sc18im700"
	"github.com/mbalug7/go-drv2605l/pkg/sim"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type app struct {
	configPath string
	overrides  config.Config
	cfg        *config.Config
	out        io.Writer

	bus    hal.Bus
	closer io.Closer
	sim    *sim.Device
	device *drv2605l.Device
}

func newApp(out io.Writer) *app {
	return &app{out: out}
}

// execute runs the command line in args and releases the transport whether or not the command failed
func (a *app) execute(args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	closeErr := a.close()
	if err != nil {
		return err
	}
	return closeErr
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "drv2605l",
		Short:         "Talk to a DRV2605L haptic driver",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return a.open(cmd.Flags())
		},
	}
	root.SetOut(a.out)
	root.CompletionOptions.DisableDefaultCmd = true
	a.addFlags(root.PersistentFlags())
	root.AddCommand(
		a.statusCmd(),
		a.readCmd(),
		a.writeCmd(),
		a.dumpCmd(),
		a.modeCmd(),
		a.playCmd(),
		a.stopCmd(),
		a.standbyCmd(),
		a.rtpCmd(),
		a.triggerCmd(),
		a.powerCmd(),
	)
	return root
}

func (a *app) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&a.configPath, "config", "c", "", "board config file (yaml)")
	fs.StringVarP(&a.overrides.Transport, "transport", "t", "", "transport: rpi, sc18im700 or sim")
	fs.StringVar(&a.overrides.Serial.Port, "serial", "", "serial port of the SC18IM700 bridge")
	fs.IntVar(&a.overrides.Serial.Baud, "baud", 0, "baud rate of the SC18IM700 bridge")
	fs.StringVar(&a.overrides.GPIO.Chip, "gpio-chip", "", "GPIO chip holding the EN and IN/TRIG lines")
	fs.IntVar(&a.overrides.GPIO.EnablePin, "enable-pin", -1, "EN line offset, -1 when hardwired")
	fs.IntVar(&a.overrides.GPIO.TriggerPin, "trigger-pin", -1, "IN/TRIG line offset, -1 when unused")
	fs.StringVar(&a.overrides.Motor, "motor", "", "actuator type: erm or lra")
	fs.Uint8Var(&a.overrides.Library, "library", 0, "waveform library 0-7")
	fs.BoolVar(&a.overrides.Debug, "debug", false, "log every bus transaction")
}

// resolveConfig loads the config file and applies the flags that were set explicitly
func (a *app) resolveConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	o := a.overrides
	if fs.Changed("transport") {
		cfg.Transport = o.Transport
	}
	if fs.Changed("serial") {
		cfg.Serial.Port = o.Serial.Port
	}
	if fs.Changed("baud") {
		cfg.Serial.Baud = o.Serial.Baud
	}
	if fs.Changed("gpio-chip") {
		cfg.GPIO.Chip = o.GPIO.Chip
	}
	if fs.Changed("enable-pin") {
		cfg.GPIO.EnablePin = o.GPIO.EnablePin
	}
	if fs.Changed("trigger-pin") {
		cfg.GPIO.TriggerPin = o.GPIO.TriggerPin
	}
	if fs.Changed("motor") {
		cfg.Motor = o.Motor
	}
	if fs.Changed("library") {
		cfg.Library = o.Library
	}
	if fs.Changed("debug") {
		cfg.Debug = o.Debug
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) open(fs *pflag.FlagSet) error {
	cfg, err := a.resolveConfig(fs)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	switch cfg.Transport {
	case config.TransportSim:
		a.sim = sim.New(drv2605l.Address)
		a.sim.AutoClearGo(true)
		a.bus = a.sim
	case config.TransportSC18IM700:
		bridge, err := sc18im700.Open(cfg.Serial.Port, cfg.Serial.Baud)
		if err != nil {
			return err
		}
		a.bus, a.closer = bridge, bridge
	case config.TransportRPi:
		bus, closer, err := openRPi(cfg)
		if err != nil {
			return err
		}
		a.bus, a.closer = bus, closer
	}
	a.device = drv2605l.New(a.bus)
	return nil
}

// close prints the sim transaction log and closes the transport, it is safe to call when nothing was opened
func (a *app) close() error {
	if a.sim != nil {
		for _, tx := range a.sim.Transactions() {
			fmt.Fprintf(a.out, "%-5s 0x%02X %-32s 0x%02X\n", tx.Op, tx.Addr, drv2605l.RegisterName(tx.Reg), tx.Value)
		}
	}
	closer := a.closer
	a.bus, a.closer, a.sim, a.device = nil, nil, nil, nil
	if closer != nil {
		err := closer.Close()
		if err != nil {
			return fmt.Errorf("failed to close transport: %w", err)
		}
	}
	return nil
}

func (a *app) motorFeedback() uint8 {
	if a.cfg.IsLRA() {
		return drv2605l.MOTOR_LRA
	}
	return drv2605l.MOTOR_ERM
}
