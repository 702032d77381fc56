package main

import (
	"flag"
	"fmt"

	"periph.io/x/conn/v3/physic"

	"github.com/ikubaku/eeprom-programmer/eepromcmd"
	"github.com/ikubaku/eeprom-programmer/storage"
)

// config holds the command line settings.
type config struct {
	Port   string
	Baud   int
	Bus    string
	Speed  physic.Frequency
	Addr   uint
	Part   string
	Image  string
	Banner bool
	CRLF   bool
}

// parseConfig parses args into a config. glog registers its own flags
// (-v, -logtostderr, ...) on flag.CommandLine, which main passes in.
func parseConfig(fs *flag.FlagSet, args []string) (*config, error) {
	cfg := &config{Speed: 100 * physic.KiloHertz}

	fs.StringVar(&cfg.Port, "port", "", "serial port to serve the session on (default: this terminal)")
	fs.IntVar(&cfg.Baud, "baud", eepromcmd.DefaultBaudRate, "serial port speed")
	fs.StringVar(&cfg.Bus, "bus", "", "I2C bus of the chip, e.g. /dev/i2c-1 or 1 (default: simulated chip)")
	fs.Var(&cfg.Speed, "speed", "I2C bus clock")
	fs.UintVar(&cfg.Addr, "addr", 0, "chip address pins A2..A0 (0-7)")
	fs.StringVar(&cfg.Part, "part", storage.DefaultPartName, "chip part, e.g. 24c02 or 24lc256")
	fs.StringVar(&cfg.Image, "image", "", "file to preload the simulated chip with")
	fs.BoolVar(&cfg.Banner, "banner", true, "print the banner at startup")
	fs.BoolVar(&cfg.CRLF, "crlf", true, "treat a lone carriage return as end of line")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if cfg.Addr > 7 {
		return nil, fmt.Errorf("-addr must be 0-7, got %d", cfg.Addr)
	}
	if cfg.Baud <= 0 {
		return nil, fmt.Errorf("-baud must be positive, got %d", cfg.Baud)
	}
	if _, err := storage.LookupPart(cfg.Part); err != nil {
		return nil, err
	}
	if cfg.Bus != "" && cfg.Image != "" {
		return nil, fmt.Errorf("-image only applies to the simulated chip")
	}
	return cfg, nil
}

func (c *config) linkName() string {
	if c.Port != "" {
		return fmt.Sprintf("%s at %d baud", c.Port, c.Baud)
	}
	return "stdio"
}
