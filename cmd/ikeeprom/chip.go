package main

import (
	"fmt"
	"os"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/ikubaku/eeprom-programmer/eeprom24x"
	"github.com/ikubaku/eeprom-programmer/storage"
)

// chip is the storage device the loop programs, with the selector used by
// the device command and whatever must be released on exit.
type chip struct {
	Name     string
	Device   storage.Device
	Selector storage.Selector
	closer   func() error
}

// Close releases the bus, if any.
func (c *chip) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

func openChip(cfg *config) (*chip, error) {
	part, err := storage.LookupPart(cfg.Part)
	if err != nil {
		return nil, err
	}
	if cfg.Bus == "" {
		return openMemoryChip(part, cfg.Image)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize host drivers: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open I2C bus %q: %w", cfg.Bus, err)
	}
	if err := bus.SetSpeed(cfg.Speed); err != nil {
		bus.Close()
		return nil, fmt.Errorf("set I2C bus speed: %w", err)
	}

	opts := &eeprom24x.Opts{
		Address: eeprom24x.BaseAddress | uint16(cfg.Addr),
		Part:    part,
	}
	dev, err := eeprom24x.New(bus, opts)
	if err != nil {
		bus.Close()
		return nil, err
	}
	return &chip{
		Name:     dev.String(),
		Device:   dev,
		Selector: eeprom24x.NewSelector(bus, opts),
		closer:   bus.Close,
	}, nil
}

func openMemoryChip(part storage.Part, image string) (*chip, error) {
	mem := storage.NewMemory(part)
	if image != "" {
		f, err := os.Open(image)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := mem.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", image, err)
		}
	}
	return &chip{
		Name:     "simulated " + part.Name,
		Device:   mem,
		Selector: storage.MemorySelector(),
	}, nil
}
