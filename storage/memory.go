package storage

import (
	"errors"
	"io"
)

// erased is the value of an unprogrammed EEPROM cell.
const erased = 0xFF

// Memory is a simulated chip held in RAM. It enforces the same range and
// page rules as the real part.
type Memory struct {
	part Part
	data []byte
}

// NewMemory creates an erased chip of the given part.
func NewMemory(part Part) *Memory {
	data := make([]byte, part.Size)
	for i := range data {
		data[i] = erased
	}
	return &Memory{part: part, data: data}
}

// MemorySelector returns a Selector that swaps in a fresh erased chip of the
// requested part, the way a socketed programmer does.
func MemorySelector() Selector {
	return SelectorFunc(func(name string) (Device, error) {
		part, err := LookupPart(name)
		if err != nil {
			return nil, err
		}
		return NewMemory(part), nil
	})
}

// Part returns the chip geometry.
func (m *Memory) Part() Part {
	return m.part
}

// Load fills the chip from r, starting at address 0. Short input leaves the
// remaining cells untouched; input beyond the chip size is ignored.
func (m *Memory) Load(r io.Reader) error {
	_, err := io.ReadFull(r, m.data)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return err
}

// Bytes returns a copy of the chip contents.
func (m *Memory) Bytes() []byte {
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}

// ReadByteAt implements Device.
func (m *Memory) ReadByteAt(address uint32) (byte, error) {
	if err := m.part.CheckRange(address, 1); err != nil {
		return 0, err
	}
	return m.data[address], nil
}

// WriteByteAt implements Device.
func (m *Memory) WriteByteAt(address uint32, value byte) error {
	if err := m.part.CheckRange(address, 1); err != nil {
		return err
	}
	m.data[address] = value
	return nil
}

// ReadData implements Device.
func (m *Memory) ReadData(address uint32, p []byte) error {
	if err := m.part.CheckRange(address, len(p)); err != nil {
		return err
	}
	copy(p, m.data[address:])
	return nil
}

// WritePage implements Device.
func (m *Memory) WritePage(address uint32, data []byte) error {
	if err := m.part.CheckPage(address, len(data)); err != nil {
		return err
	}
	copy(m.data[address:], data)
	return nil
}
