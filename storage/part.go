package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Part describes the geometry of a 24-series serial EEPROM.
type Part struct {
	// Name is the canonical lowercase name, e.g. "24x64".
	Name string

	// Size is the capacity in bytes.
	Size uint32

	// PageSize is the largest write the chip buffers in one transaction.
	PageSize uint32

	// AddressBytes is the number of memory address bytes sent on the bus.
	// Address bits beyond them go into the device address.
	AddressBytes int

	// WriteCycle is the time the chip needs to commit a write.
	WriteCycle time.Duration
}

// DefaultPartName is the part the programmer starts with.
const DefaultPartName = "24x64"

const defaultWriteCycle = 5 * time.Millisecond

var parts = []Part{
	{Name: "24x00", Size: 16, PageSize: 1, AddressBytes: 1, WriteCycle: defaultWriteCycle},
	{Name: "24x01", Size: 128, PageSize: 8, AddressBytes: 1, WriteCycle: defaultWriteCycle},
	{Name: "24x02", Size: 256, PageSize: 8, AddressBytes: 1, WriteCycle: defaultWriteCycle},
	{Name: "24x04", Size: 512, PageSize: 16, AddressBytes: 1, WriteCycle: defaultWriteCycle},
	{Name: "24x08", Size: 1024, PageSize: 16, AddressBytes: 1, WriteCycle: defaultWriteCycle},
	{Name: "24x16", Size: 2048, PageSize: 16, AddressBytes: 1, WriteCycle: defaultWriteCycle},
	{Name: "24x32", Size: 4096, PageSize: 32, AddressBytes: 2, WriteCycle: defaultWriteCycle},
	{Name: "24x64", Size: 8192, PageSize: 32, AddressBytes: 2, WriteCycle: defaultWriteCycle},
	{Name: "24x128", Size: 16384, PageSize: 64, AddressBytes: 2, WriteCycle: defaultWriteCycle},
	{Name: "24x256", Size: 32768, PageSize: 64, AddressBytes: 2, WriteCycle: defaultWriteCycle},
	{Name: "24x512", Size: 65536, PageSize: 128, AddressBytes: 2, WriteCycle: defaultWriteCycle},
	{Name: "24xm01", Size: 131072, PageSize: 256, AddressBytes: 2, WriteCycle: defaultWriteCycle},
	{Name: "24xm02", Size: 262144, PageSize: 256, AddressBytes: 2, WriteCycle: defaultWriteCycle},
}

// partNameRegex accepts vendor spellings: 24c64, 24LC64, AT24C64, 24x64, 24cm01.
var partNameRegex = regexp.MustCompile(`^(?:at)?24[a-z]*?(m?\d+)$`)

// Parts returns the supported parts, smallest first.
func Parts() []Part {
	result := make([]Part, len(parts))
	copy(result, parts)
	return result
}

// DefaultPart returns the 24x64 geometry.
func DefaultPart() Part {
	p, _ := LookupPart(DefaultPartName)
	return p
}

// LookupPart finds a part by name. Matching is case-insensitive and accepts
// the usual vendor prefixes.
func LookupPart(name string) (Part, error) {
	match := partNameRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(name)))
	if match == nil {
		return Part{}, fmt.Errorf("%w: %q", ErrUnknownPart, name)
	}
	canonical := "24x" + match[1]
	for _, p := range parts {
		if p.Name == canonical {
			return p, nil
		}
	}
	return Part{}, fmt.Errorf("%w: %q", ErrUnknownPart, name)
}

// BlockSize is the span reachable with the memory address bytes alone.
func (p Part) BlockSize() uint32 {
	block := uint32(1) << (8 * uint(p.AddressBytes))
	if block > p.Size {
		return p.Size
	}
	return block
}

// CheckRange validates an access of n bytes at address.
func (p Part) CheckRange(address uint32, n int) error {
	if n < 0 || address >= p.Size || uint64(address)+uint64(n) > uint64(p.Size) {
		return fmt.Errorf("%w: %d+%d on %s", ErrOutOfRange, address, n, p.Name)
	}
	return nil
}

// CheckPage validates a page write of n bytes at address.
func (p Part) CheckPage(address uint32, n int) error {
	if n == 0 {
		return ErrEmptyWrite
	}
	if err := p.CheckRange(address, n); err != nil {
		return err
	}
	if uint64(address%p.PageSize)+uint64(n) > uint64(p.PageSize) {
		return fmt.Errorf("%w: %d+%d on %s (page %d)", ErrPageBoundary, address, n, p.Name, p.PageSize)
	}
	return nil
}

// String returns the part name.
func (p Part) String() string {
	return p.Name
}
