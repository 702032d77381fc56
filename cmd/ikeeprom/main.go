// =============================================================================
// main.go - ikeeprom Programmer Entry Point
// =============================================================================
//
// ikeeprom is the programmer side of the serial link. It runs the interactive
// control loop against a 24-series EEPROM, either on a real I²C bus through
// periph.io or on a simulated chip held in memory.
//
// Usage:
//
//	ikeeprom                                Simulated 24x64 on this terminal
//	ikeeprom -image dump.bin                Simulated chip preloaded from a file
//	ikeeprom -port /dev/ttyUSB0             Serve the loop on a serial port
//	ikeeprom -bus /dev/i2c-1 -addr 0        Program a real chip at 0x50
//	ikeeprom -logtostderr -v 1              Trace commands with glog
//
// =============================================================================

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/ikubaku/eeprom-programmer/app"
	"github.com/ikubaku/eeprom-programmer/eepromcmd"
	"github.com/ikubaku/eeprom-programmer/hal"
)

func main() {
	cfg, err := parseConfig(commandLine(), os.Args[1:])
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
	defer glog.Flush()

	if err := run(cfg); err != nil {
		glog.Exitf("ikeeprom: %v", err)
	}
}

// commandLine returns flag.CommandLine, which already carries glog's flags,
// switched to report parse errors and -h instead of exiting.
func commandLine() *flag.FlagSet {
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)
	return flag.CommandLine
}

// exitCode maps a configuration error to the process exit status: 0 after
// -h, 2 for anything else, like the flag package does.
func exitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

// run wires the transports and the chip and blocks in the control loop until
// the session ends.
func run(cfg *config) error {
	link, restore, err := openLink(cfg)
	if err != nil {
		return err
	}
	defer restore()

	chip, err := openChip(cfg)
	if err != nil {
		return err
	}
	defer chip.Close()

	tx, rx := hal.Split(link)
	var in hal.SerialReader = rx
	if cfg.CRLF {
		in = hal.TranslateCR(in)
	}

	var opts []app.Option
	if cfg.Banner {
		opts = append(opts, app.WithBanner(eepromcmd.Banner))
	}

	glog.Infof("serving %s on %s", chip.Name, cfg.linkName())
	err = app.New(tx, in, app.NewDispatcher(chip.Device, chip.Selector), opts...).Run()
	if errors.Is(err, app.ErrTransportClosed) {
		glog.Info("session closed")
		return nil
	}
	return err
}

// openLink returns the byte stream the loop talks over and a function that
// releases it.
func openLink(cfg *config) (io.ReadWriter, func(), error) {
	if cfg.Port != "" {
		port, err := hal.OpenSerial(cfg.Port, cfg.Baud)
		if err != nil {
			return nil, nil, err
		}
		return port, func() { port.Close() }, nil
	}
	return openTerminal()
}
