package eepromcmd

import (
	"strconv"
	"strings"
)

// Parser parses programmer commands from text lines.
type Parser struct {
	// MaxLength bounds the trimmed line. Zero disables the check, which
	// host tools use before splitting a command into device-sized lines.
	MaxLength int
}

// NewParser creates a parser bounded by the device's input line.
func NewParser() *Parser {
	return &Parser{MaxLength: MaxLineLength}
}

// ParseBytes parses a completed input line as received by the device. The
// line may still carry its "\r\n" or "\n" terminator.
func (p *Parser) ParseBytes(line []byte) (Command, error) {
	return p.Parse(string(line))
}

// Parse parses a command line into a Command. Surrounding whitespace,
// including the line terminator, is ignored.
func (p *Parser) Parse(line string) (Command, error) {
	commandLine := strings.TrimSpace(line)

	if p.MaxLength > 0 && len(commandLine) > p.MaxLength {
		return Command{}, ErrLineTooLong
	}

	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return Command{}, newInvalidCommandError("")
	}

	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case "r", "read":
		return p.parseReadByte(args)
	case "w", "write":
		return p.parseWriteByte(args)
	case "rd", "dump":
		return p.parseReadData(args)
	case "wp", "page":
		return p.parseWritePage(args)
	case "dev", "device":
		return p.parseSetDevice(args)
	default:
		return Command{}, newInvalidCommandError(command)
	}
}

func (p *Parser) parseReadByte(args []string) (Command, error) {
	if len(args) < 1 {
		return Command{}, newMissingArgumentError("read requires address")
	}
	if len(args) > 1 {
		return Command{}, newTooManyArgumentsError(args[1])
	}

	address, ok := parseAddress(args[0])
	if !ok {
		return Command{}, newInvalidAddressError(args[0])
	}
	return NewReadByteCommand(address), nil
}

func (p *Parser) parseWriteByte(args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, newMissingArgumentError("write requires address and data")
	}
	if len(args) > 2 {
		return Command{}, newTooManyArgumentsError(args[2])
	}

	address, ok := parseAddress(args[0])
	if !ok {
		return Command{}, newInvalidAddressError(args[0])
	}

	data, ok := parseNumber(args[1], 8)
	if !ok {
		return Command{}, newInvalidByteError(args[1])
	}
	return NewWriteByteCommand(address, byte(data)), nil
}

func (p *Parser) parseReadData(args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, newMissingArgumentError("dump requires address and length")
	}
	if len(args) > 2 {
		return Command{}, newTooManyArgumentsError(args[2])
	}

	address, ok := parseAddress(args[0])
	if !ok {
		return Command{}, newInvalidAddressError(args[0])
	}

	length, ok := parseNumber(args[1], 16)
	if !ok || length == 0 || length > MaxDataLength {
		return Command{}, newInvalidLengthError(args[1])
	}
	return NewReadDataCommand(address, int(length)), nil
}

func (p *Parser) parseWritePage(args []string) (Command, error) {
	if len(args) < 1 {
		return Command{}, newMissingArgumentError("page requires address")
	}

	address, ok := parseAddress(args[0])
	if !ok {
		return Command{}, newInvalidAddressError(args[0])
	}

	var data []byte
	for _, arg := range args[1:] {
		for _, byteStr := range strings.Split(arg, ",") {
			if byteStr == "" {
				continue
			}
			b, ok := parseHexByte(byteStr)
			if !ok {
				return Command{}, newInvalidByteError(byteStr)
			}
			data = append(data, b)
		}
	}

	if len(data) == 0 {
		return Command{}, newMissingArgumentError("page requires at least one byte")
	}
	return NewWritePageCommand(address, data), nil
}

func (p *Parser) parseSetDevice(args []string) (Command, error) {
	if len(args) < 1 {
		return Command{}, newMissingArgumentError("device requires a part name")
	}
	if len(args) > 1 {
		return Command{}, newTooManyArgumentsError(args[1])
	}

	if !isDeviceIdentifier(args[0]) {
		return Command{}, newInvalidDeviceError(args[0])
	}
	return NewSetDeviceCommand(strings.ToLower(args[0])), nil
}

// parseAddress parses an address (decimal, $hex or 0xhex).
func parseAddress(s string) (uint32, bool) {
	val, ok := parseNumber(s, 32)
	return uint32(val), ok
}

// parseNumber parses an unsigned number of at most bitSize bits. A "$" or
// "0x" prefix selects hexadecimal, anything else is decimal.
func parseNumber(s string, bitSize int) (uint64, bool) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "$") {
		s, base = s[1:], 16
	} else if strings.HasPrefix(strings.ToLower(s), "0x") {
		s, base = s[2:], 16
	}
	if s == "" {
		return 0, false
	}
	val, err := strconv.ParseUint(s, base, bitSize)
	if err != nil {
		return 0, false
	}
	return val, true
}

// parseHexByte parses a hex byte value (with or without $ prefix).
func parseHexByte(s string) (byte, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, false
	}
	val, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(val), true
}

// isDeviceIdentifier reports whether s looks like a part name ("24x64").
func isDeviceIdentifier(s string) bool {
	if s == "" || len(s) > 16 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
