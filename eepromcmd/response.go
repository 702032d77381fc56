package eepromcmd

import (
	"strings"
)

// ResponseType represents the type of response from the device.
type ResponseType int

const (
	// ResponseOK indicates a successful response.
	ResponseOK ResponseType = iota
	// ResponseError indicates one of the fixed failure messages.
	ResponseError
)

// Response represents the device's answer to one input line.
type Response struct {
	Type  ResponseType
	Lines []string // Response lines without their terminators
}

// NewOKResponse creates a successful response with the given lines.
func NewOKResponse(lines ...string) Response {
	return Response{Type: ResponseOK, Lines: lines}
}

// NewErrorResponse creates an error response with the given message.
func NewErrorResponse(message string) Response {
	return Response{Type: ResponseError, Lines: []string{message}}
}

// IsOK returns true if this is a successful response.
func (r Response) IsOK() bool {
	return r.Type == ResponseOK
}

// IsError returns true if this is an error response.
func (r Response) IsError() bool {
	return r.Type == ResponseError
}

// Data returns the response lines joined with newlines.
func (r Response) Data() string {
	return strings.Join(r.Lines, "\n")
}

// Format returns the response as written on the wire: every line followed by
// ResponseTerminator.
func (r Response) Format() string {
	var sb strings.Builder
	for _, line := range r.Lines {
		sb.WriteString(line)
		sb.WriteString(ResponseTerminator)
	}
	return sb.String()
}

// errorMessages are the response lines that signal failure.
var errorMessages = map[string]bool{
	MsgReadFailed:    true,
	MsgWriteFailed:   true,
	MsgParseFailed:   true,
	MsgUnknownDevice: true,
}

// ParseResponse classifies the text a device printed between the echo of a
// request and the next prompt.
func ParseResponse(text string) (Response, error) {
	trimmed := strings.TrimSuffix(text, ResponseTerminator)
	if trimmed == "" {
		return Response{}, newUnexpectedResponseError("empty response")
	}

	lines := strings.Split(trimmed, ResponseTerminator)
	if len(lines) == 1 && errorMessages[lines[0]] {
		return NewErrorResponse(lines[0]), nil
	}
	return NewOKResponse(lines...), nil
}
