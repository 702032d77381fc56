package eepromcmd

import (
	"fmt"
	"strings"
	"time"
)

// CommandType represents the type of programmer command.
type CommandType int

const (
	// CmdReadByte reads a single byte.
	CmdReadByte CommandType = iota
	// CmdWriteByte writes a single byte.
	CmdWriteByte
	// CmdReadData reads a block of bytes.
	CmdReadData
	// CmdWritePage writes bytes that lie within one page.
	CmdWritePage
	// CmdSetDevice selects the chip part.
	CmdSetDevice
)

var commandTypeNames = [...]string{
	CmdReadByte:  "ReadByte",
	CmdWriteByte: "WriteByte",
	CmdReadData:  "ReadData",
	CmdWritePage: "WritePage",
	CmdSetDevice: "SetDevice",
}

// String returns the variant name, e.g. "ReadByte".
func (t CommandType) String() string {
	if t < 0 || int(t) >= len(commandTypeNames) {
		return fmt.Sprintf("CommandType(%d)", int(t))
	}
	return commandTypeNames[t]
}

// Command represents a parsed programmer command with its arguments.
// Use the constructor functions (NewReadByteCommand, NewWriteByteCommand,
// etc.) to create Command instances.
type Command struct {
	Type CommandType

	// Fields used by various commands (only relevant fields are populated)
	Address uint32 // For every command but SetDevice
	Data    []byte // One byte for WriteByte, the payload for WritePage
	Length  int    // For ReadData
	Device  string // For SetDevice
}

// Command constructors - these provide a clean API for creating commands.

// NewReadByteCommand creates a single byte read.
func NewReadByteCommand(address uint32) Command {
	return Command{Type: CmdReadByte, Address: address}
}

// NewWriteByteCommand creates a single byte write.
func NewWriteByteCommand(address uint32, data byte) Command {
	return Command{Type: CmdWriteByte, Address: address, Data: []byte{data}}
}

// NewReadDataCommand creates a block read of length bytes.
func NewReadDataCommand(address uint32, length int) Command {
	return Command{Type: CmdReadData, Address: address, Length: length}
}

// NewWritePageCommand creates a page write. The payload is copied.
func NewWritePageCommand(address uint32, data []byte) Command {
	payload := make([]byte, len(data))
	copy(payload, data)
	return Command{Type: CmdWritePage, Address: address, Data: payload}
}

// NewSetDeviceCommand creates a chip part selection.
func NewSetDeviceCommand(device string) Command {
	return Command{Type: CmdSetDevice, Device: device}
}

// Value returns the byte carried by a WriteByte command.
func (c Command) Value() byte {
	if len(c.Data) == 0 {
		return 0
	}
	return c.Data[0]
}

// Format returns the command in the canonical short grammar, without the
// line terminator.
func (c Command) Format() string {
	switch c.Type {
	case CmdReadByte:
		return fmt.Sprintf("r $%04X", c.Address)
	case CmdWriteByte:
		return fmt.Sprintf("w $%04X $%02X", c.Address, c.Value())
	case CmdReadData:
		return fmt.Sprintf("rd $%04X %d", c.Address, c.Length)
	case CmdWritePage:
		hexBytes := make([]string, len(c.Data))
		for i, b := range c.Data {
			hexBytes[i] = fmt.Sprintf("%02X", b)
		}
		return fmt.Sprintf("wp $%04X %s", c.Address, strings.Join(hexBytes, ","))
	case CmdSetDevice:
		return "dev " + c.Device
	default:
		return ""
	}
}

// FormatLine returns the command formatted as a complete input line.
func (c Command) FormatLine() string {
	return c.Format() + string(LineTerminator)
}

// responseLineAllowance covers a one-line answer: the longest fixed
// message or "data = 255", with its terminator.
const responseLineAllowance = 32

// ResponseTimeout returns CommandTimeout plus the time the device needs to
// echo c and print its answer at the given baud rate, counting ten bit
// times per character. Block reads of a few KiB take longer than
// CommandTimeout alone at 9600 baud.
func (c Command) ResponseTimeout(baud int) time.Duration {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	chars := len(c.FormatLine()) + responseLineAllowance
	if c.Type == CmdReadData && c.Length > 0 {
		rows := (c.Length + DataRowLength - 1) / DataRowLength
		chars += rows*len("0000:"+ResponseTerminator) + 3*c.Length
	}
	return CommandTimeout + time.Duration(chars*10)*time.Second/time.Duration(baud)
}

// String implements fmt.Stringer for logging.
func (c Command) String() string {
	switch c.Type {
	case CmdReadByte:
		return fmt.Sprintf("ReadByte(%d)", c.Address)
	case CmdWriteByte:
		return fmt.Sprintf("WriteByte(%d, %d)", c.Address, c.Value())
	case CmdReadData:
		return fmt.Sprintf("ReadData(%d, %d)", c.Address, c.Length)
	case CmdWritePage:
		return fmt.Sprintf("WritePage(%d, % X)", c.Address, c.Data)
	case CmdSetDevice:
		return fmt.Sprintf("SetDevice(%s)", c.Device)
	default:
		return c.Type.String()
	}
}
