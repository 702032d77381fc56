package eepromcmd

import (
	"errors"
	"fmt"
)

// Sentinel errors for the programmer protocol.
var (
	// ErrLineTooLong indicates a command line exceeded MaxLineLength.
	ErrLineTooLong = errors.New("line too long")

	// ErrTimeout indicates a command timed out waiting for a response.
	ErrTimeout = errors.New("command timed out")

	// ErrPortNotFound indicates no serial port was found.
	ErrPortNotFound = errors.New("no serial port found")

	// ErrNotConnected indicates an operation was attempted without a connection.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates connect was called while already connected.
	ErrAlreadyConnected = errors.New("already connected")
)

// ParseError represents an error that occurred during command or response parsing.
type ParseError struct {
	Kind    ParseErrorKind
	Value   string // The invalid value that caused the error
	Message string // Additional context
}

// ParseErrorKind categorizes parsing errors.
type ParseErrorKind int

const (
	// ErrKindInvalidCommand indicates an unknown or empty command word.
	ErrKindInvalidCommand ParseErrorKind = iota
	// ErrKindInvalidAddress indicates an invalid address format.
	ErrKindInvalidAddress
	// ErrKindInvalidLength indicates an invalid block length.
	ErrKindInvalidLength
	// ErrKindInvalidByte indicates an invalid byte value.
	ErrKindInvalidByte
	// ErrKindInvalidDevice indicates a malformed device identifier.
	ErrKindInvalidDevice
	// ErrKindMissingArgument indicates a required argument was not provided.
	ErrKindMissingArgument
	// ErrKindTooManyArguments indicates trailing arguments after a complete command.
	ErrKindTooManyArguments
	// ErrKindUnexpectedResponse indicates device output that is not a response.
	ErrKindUnexpectedResponse
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindInvalidCommand:
		return fmt.Sprintf("invalid command '%s'", e.Value)
	case ErrKindInvalidAddress:
		return fmt.Sprintf("invalid address '%s'", e.Value)
	case ErrKindInvalidLength:
		return fmt.Sprintf("invalid length '%s'", e.Value)
	case ErrKindInvalidByte:
		return fmt.Sprintf("invalid byte value '%s'", e.Value)
	case ErrKindInvalidDevice:
		return fmt.Sprintf("invalid device '%s'", e.Value)
	case ErrKindMissingArgument:
		return e.Message
	case ErrKindTooManyArguments:
		return fmt.Sprintf("unexpected argument '%s'", e.Value)
	case ErrKindUnexpectedResponse:
		return fmt.Sprintf("unexpected response: %s", e.Value)
	default:
		return fmt.Sprintf("parse error: %s", e.Value)
	}
}

// Helper functions to create specific parse errors.

func newInvalidCommandError(cmd string) error {
	return &ParseError{Kind: ErrKindInvalidCommand, Value: cmd}
}

func newInvalidAddressError(addr string) error {
	return &ParseError{Kind: ErrKindInvalidAddress, Value: addr}
}

func newInvalidLengthError(length string) error {
	return &ParseError{Kind: ErrKindInvalidLength, Value: length}
}

func newInvalidByteError(b string) error {
	return &ParseError{Kind: ErrKindInvalidByte, Value: b}
}

func newInvalidDeviceError(id string) error {
	return &ParseError{Kind: ErrKindInvalidDevice, Value: id}
}

func newMissingArgumentError(msg string) error {
	return &ParseError{Kind: ErrKindMissingArgument, Message: msg}
}

func newTooManyArgumentsError(arg string) error {
	return &ParseError{Kind: ErrKindTooManyArguments, Value: arg}
}

func newUnexpectedResponseError(resp string) error {
	return &ParseError{Kind: ErrKindUnexpectedResponse, Value: resp}
}

// ConnectionError represents a connection-related error.
type ConnectionError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("connection failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) error {
	return &ConnectionError{Message: message, Cause: cause}
}
