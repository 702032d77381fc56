// =============================================================================
// translate.go - Command Translation (User Input → Device Lines)
// =============================================================================
//
// The console accepts the same grammar as the programmer, but checks it on
// the host before anything is sent:
//
//   - Malformed input is reported with a precise reason ("invalid address
//     'zz'") instead of the device's generic "An error occured!".
//   - Long spellings are rewritten in the short canonical form, so
//     "write 0x1234 255" becomes "w $1234 $FF".
//   - Page writes whose payload does not fit the device's 32 byte input
//     line are split into several consecutive page writes.
//
// Examples:
//
//	"read 10"                    → ["r $000A"]
//	"dump 0x100 64"              → ["rd $0100 64"]
//	"wp 0 00,01,02,...,0F"       → ["wp $0000 00,...,06", "wp $0007 07,...,0D", ...]
//
// =============================================================================

package main

import (
	"github.com/ikubaku/eeprom-programmer/eepromcmd"
)

// hostParser parses console input. It has no line length limit: lines are
// only bounded once they have been translated for the device.
var hostParser = &eepromcmd.Parser{}

// GO CONCEPT: Returning a Slice for One-to-Many Results
// -----------------------------------------------------
// Most input maps to one device command, but a long page write maps to
// several. Returning []eepromcmd.Command lets the caller treat both cases
// the same way:
//
//	cmds, err := translateToCommands(line)
//	for _, cmd := range cmds {
//	    client.Send(cmd)
//	}
//
// Compare with Python: returning a list and iterating over it with a for
// loop is the same idea.

// translateToCommands parses a console line and returns the device commands
// to send, in order.
func translateToCommands(line string) ([]eepromcmd.Command, error) {
	cmd, err := hostParser.Parse(line)
	if err != nil {
		return nil, err
	}
	if cmd.Type == eepromcmd.CmdWritePage {
		return splitWritePage(cmd), nil
	}
	return []eepromcmd.Command{cmd}, nil
}

// splitWritePage cuts a page write into commands that each fit the device
// input line. Chunks keep consecutive addresses, so the device still
// checks every byte against the page boundary.
func splitWritePage(cmd eepromcmd.Command) []eepromcmd.Command {
	var cmds []eepromcmd.Command

	address, data := cmd.Address, cmd.Data
	for len(data) > 0 {
		n := len(data)
		for n > 1 && !fitsDeviceLine(eepromcmd.NewWritePageCommand(address, data[:n])) {
			n--
		}
		cmds = append(cmds, eepromcmd.NewWritePageCommand(address, data[:n]))
		address += uint32(n)
		data = data[n:]
	}
	return cmds
}

// fitsDeviceLine reports whether cmd, terminator included, fits the
// programmer's input line.
func fitsDeviceLine(cmd eepromcmd.Command) bool {
	return len(cmd.FormatLine()) <= eepromcmd.MaxLineLength
}
