// Package eepromcmd implements the line-oriented text protocol between a
// terminal (or host console) and the ikeeprom programmer.
//
// Protocol Format:
//
//	Prompt (device -> host):    "> "
//	Echo (device -> host):      every accepted input byte, verbatim
//	Request (host -> device):   <command> [arguments...]\n
//	Response (device -> host):  <text>\r\n, one or more lines
//
// Example Session:
//
//	> r 10
//	data = 42
//	> w 10 7
//	Ok
package eepromcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Protocol constants.
const (
	// Prompt is written by the device before each line is read.
	Prompt = "> "

	// LineTerminator completes an input line.
	LineTerminator = '\n'

	// Backspace removes the last byte of the input line.
	Backspace = 0x08

	// ResponseTerminator ends every response line. The carriage return keeps
	// plain serial terminals in column zero.
	ResponseTerminator = "\r\n"

	// MaxLineLength is the capacity of the device's input line in bytes,
	// terminator included.
	MaxLineLength = 32

	// MaxDataLength bounds the length argument of a block read.
	MaxDataLength = 4096

	// DataRowLength is the number of bytes printed per block read line.
	DataRowLength = 16

	// DefaultBaudRate is the serial speed the device boots with.
	DefaultBaudRate = 9600

	// CommandTimeout is the default time a host waits for a response.
	CommandTimeout = 10 * time.Second

	// SyncTimeout bounds the prompt synchronisation done on connect.
	SyncTimeout = 2 * time.Second

	// Version is the firmware version reported in the banner.
	Version = "0.1.0"
)

// Banner is the identifying line the device prints once at startup.
var Banner = fmt.Sprintf("ikeeprom EEPROM Reader & Writer v%s", Version)

// Fixed response messages. Their wording is part of the wire protocol.
const (
	MsgOK            = "Ok"
	MsgReadFailed    = "Could not read data!"
	MsgWriteFailed   = "Could not write data!"
	MsgParseFailed   = "An error occured!"
	MsgUnknownDevice = "Unknown device!"
)

// PortPatterns lists the device node globs searched by DiscoverPorts.
var PortPatterns = []string{
	"/dev/ttyUSB*",
	"/dev/ttyACM*",
	"/dev/tty.usbserial*",
	"/dev/tty.usbmodem*",
}

// DiscoverPorts finds candidate serial ports for a programmer.
// Returns port paths sorted by modification time (most recent first), so a
// freshly plugged adapter wins.
func DiscoverPorts() ([]string, error) {
	return discoverPorts(PortPatterns)
}

func discoverPorts(patterns []string) ([]string, error) {
	type portInfo struct {
		path    string
		modTime time.Time
	}
	var ports []portInfo

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob ports: %w", err)
		}
		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil {
				continue // Skip ports that vanished between glob and stat
			}
			ports = append(ports, portInfo{path: path, modTime: info.ModTime()})
		}
	}

	sort.SliceStable(ports, func(i, j int) bool {
		return ports[i].modTime.After(ports[j].modTime)
	})

	result := make([]string, len(ports))
	for i, p := range ports {
		result[i] = p.path
	}
	return result, nil
}
