// Package eeprom24x drives 24-series I²C serial EEPROMs (24C01 to 24CM02 and
// compatibles) through a periph.io bus.
//
// Memory address bits that do not fit the address bytes of a part are sent
// in the low bits of the device address, as the datasheets describe for the
// 24C04/08/16 and 24CM01/02.
package eeprom24x

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"

	"github.com/ikubaku/eeprom-programmer/hal"
	"github.com/ikubaku/eeprom-programmer/storage"
)

// BaseAddress is the 7-bit device address with all address pins low.
const BaseAddress uint16 = 0x50

// Opts holds the configuration of a Dev.
type Opts struct {
	// Address is the device address selected by the A2..A0 pins.
	Address uint16

	// Part is the chip geometry.
	Part storage.Part

	// Delay waits out the write cycle. Nil uses the system clock.
	Delay hal.Delay
}

// DefaultOpts addresses a 24x64 with all address pins low.
var DefaultOpts = Opts{
	Address: BaseAddress,
	Part:    storage.DefaultPart(),
}

// Dev is a 24-series EEPROM on an I²C bus. It implements storage.Device.
type Dev struct {
	bus   i2c.Bus
	addr  uint16
	part  storage.Part
	delay hal.Delay
}

// New returns a driver for the EEPROM described by opts.
func New(bus i2c.Bus, opts *Opts) (*Dev, error) {
	if opts.Address < BaseAddress || opts.Address > BaseAddress|0x07 {
		return nil, fmt.Errorf("eeprom24x: invalid device address %#x", opts.Address)
	}
	if opts.Part.Size == 0 || opts.Part.PageSize == 0 {
		return nil, fmt.Errorf("eeprom24x: invalid part %q", opts.Part.Name)
	}
	// Block select bits take over pins the part does not decode.
	blocks := opts.Part.Size / opts.Part.BlockSize()
	if uint32(opts.Address-BaseAddress)&(blocks-1) != 0 {
		return nil, fmt.Errorf("eeprom24x: address %#x collides with block select bits of %s", opts.Address, opts.Part.Name)
	}
	delay := opts.Delay
	if delay == nil {
		delay = hal.SystemDelay{}
	}
	return &Dev{bus: bus, addr: opts.Address, part: opts.Part, delay: delay}, nil
}

// NewSelector returns a storage.Selector that re-targets the chip at
// opts.Address as another part.
func NewSelector(bus i2c.Bus, opts *Opts) storage.Selector {
	o := *opts
	return storage.SelectorFunc(func(name string) (storage.Device, error) {
		part, err := storage.LookupPart(name)
		if err != nil {
			return nil, err
		}
		o.Part = part
		return New(bus, &o)
	})
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%s, %#x}", d.part.Name, d.bus, d.addr)
}

// Part returns the chip geometry.
func (d *Dev) Part() storage.Part {
	return d.part
}

// ReadByteAt implements storage.Device.
func (d *Dev) ReadByteAt(address uint32) (byte, error) {
	var b [1]byte
	if err := d.ReadData(address, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// WriteByteAt implements storage.Device.
func (d *Dev) WriteByteAt(address uint32, value byte) error {
	if err := d.part.CheckRange(address, 1); err != nil {
		return err
	}
	return d.write(address, []byte{value})
}

// ReadData implements storage.Device. Reads are split at block boundaries,
// since the chip's address counter wraps within a block.
func (d *Dev) ReadData(address uint32, p []byte) error {
	if err := d.part.CheckRange(address, len(p)); err != nil {
		return err
	}
	block := d.part.BlockSize()
	for len(p) > 0 {
		n := block - address%block
		if uint32(len(p)) < n {
			n = uint32(len(p))
		}
		dev, word := d.locate(address)
		if err := d.bus.Tx(dev, word, p[:n]); err != nil {
			return fmt.Errorf("eeprom24x: read %d bytes at %#x: %w", n, address, err)
		}
		address += n
		p = p[n:]
	}
	return nil
}

// WritePage implements storage.Device.
func (d *Dev) WritePage(address uint32, data []byte) error {
	if err := d.part.CheckPage(address, len(data)); err != nil {
		return err
	}
	return d.write(address, data)
}

func (d *Dev) write(address uint32, data []byte) error {
	dev, word := d.locate(address)
	w := make([]byte, 0, len(word)+len(data))
	w = append(w, word...)
	w = append(w, data...)
	if err := d.bus.Tx(dev, w, nil); err != nil {
		return fmt.Errorf("eeprom24x: write %d bytes at %#x: %w", len(data), address, err)
	}
	d.waitWriteCycle()
	return nil
}

// locate splits a memory address into the device address and the memory
// address bytes.
func (d *Dev) locate(address uint32) (uint16, []byte) {
	block := d.part.BlockSize()
	dev := d.addr | uint16(address/block)
	offset := address % block
	if d.part.AddressBytes == 1 {
		return dev, []byte{byte(offset)}
	}
	return dev, []byte{byte(offset >> 8), byte(offset)}
}

func (d *Dev) waitWriteCycle() {
	cycle := d.part.WriteCycle
	if cycle >= time.Millisecond {
		d.delay.DelayMs(uint32(cycle / time.Millisecond))
		return
	}
	d.delay.DelayUs(uint32(cycle / time.Microsecond))
}

var _ storage.Device = (*Dev)(nil)
