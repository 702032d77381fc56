// =============================================================================
// save.go - Whole-Chip Backup (.save)
// =============================================================================
//
// The programmer has no bulk transfer mode, so .save reads the chip with
// block reads of saveChunk bytes and decodes the hex rows it prints.
//
// =============================================================================

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ikubaku/eeprom-programmer/eepromcmd"
	"github.com/ikubaku/eeprom-programmer/storage"
)

// saveChunk is the block read size used by .save.
const saveChunk = 256

// saveChip reads the whole chip of the given part and writes it to path.
// It returns the number of bytes saved.
func saveChip(prog programmer, path, partName string) (int, error) {
	if partName == "" {
		partName = storage.DefaultPartName
	}
	part, err := storage.LookupPart(partName)
	if err != nil {
		return 0, err
	}

	data := make([]byte, 0, part.Size)
	for address := uint32(0); address < part.Size; address += saveChunk {
		n := min(saveChunk, part.Size-address)
		resp, err := prog.send(eepromcmd.NewReadDataCommand(address, int(n)))
		if err != nil {
			return 0, err
		}
		if resp.IsError() {
			return 0, fmt.Errorf("read at $%04X: %s", address, resp.Data())
		}
		chunk, err := parseDumpRows(resp.Lines, address)
		if err != nil {
			return 0, err
		}
		if len(chunk) != int(n) {
			return 0, fmt.Errorf("read at $%04X: got %d bytes, want %d", address, len(chunk), n)
		}
		data = append(data, chunk...)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, err
	}
	return len(data), nil
}

// parseDumpRows decodes block read rows ("0010: 10 11 ...") that must start
// at address and follow each other without gaps.
func parseDumpRows(lines []string, address uint32) ([]byte, error) {
	var out []byte
	for _, line := range lines {
		addrText, bytesText, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed dump row %q", line)
		}
		rowAddr, err := strconv.ParseUint(strings.TrimSpace(addrText), 16, 32)
		if err != nil {
			return nil, fmt.Errorf("malformed dump row %q", line)
		}
		if want := address + uint32(len(out)); uint32(rowAddr) != want {
			return nil, fmt.Errorf("dump row at $%04X, want $%04X", rowAddr, want)
		}
		for _, field := range strings.Fields(bytesText) {
			b, err := strconv.ParseUint(field, 16, 8)
			if err != nil {
				return nil, fmt.Errorf("malformed byte %q in dump row", field)
			}
			out = append(out, byte(b))
		}
	}
	return out, nil
}
