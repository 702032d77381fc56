// Package storage defines the byte-addressable storage capability the
// programmer operates on, the 24-series part geometry table and an
// in-memory chip.
package storage

import "errors"

var (
	// ErrOutOfRange indicates an access beyond the end of the chip.
	ErrOutOfRange = errors.New("address out of range")

	// ErrPageBoundary indicates a page write that would wrap inside a page.
	ErrPageBoundary = errors.New("write crosses page boundary")

	// ErrUnknownPart indicates a part name missing from the part table.
	ErrUnknownPart = errors.New("unknown part")

	// ErrEmptyWrite indicates a page write without payload.
	ErrEmptyWrite = errors.New("empty write")
)

// Device is a byte-addressable storage chip. Every call is a fresh bus
// transaction; implementations do not cache.
type Device interface {
	// ReadByteAt reads the byte at address.
	ReadByteAt(address uint32) (byte, error)

	// WriteByteAt writes value at address and waits for the write cycle.
	WriteByteAt(address uint32, value byte) error

	// ReadData fills p with the bytes starting at address.
	ReadData(address uint32, p []byte) error

	// WritePage writes data starting at address. All of data must lie in
	// the page that contains address.
	WritePage(address uint32, data []byte) error
}

// Selector replaces the active device with another part on the same bus.
type Selector interface {
	Select(part string) (Device, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(part string) (Device, error)

// Select implements Selector.
func (f SelectorFunc) Select(part string) (Device, error) {
	return f(part)
}
