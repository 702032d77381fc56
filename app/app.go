// Package app is the programmer's control loop: it prompts, edits one input
// line at a time, parses it and answers with the dispatcher's response.
//
// The loop only depends on the hal capabilities and a storage.Device, so
// the same code runs against a serial port, a pipe or a test double.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/ikubaku/eeprom-programmer/eepromcmd"
	"github.com/ikubaku/eeprom-programmer/hal"
)

// ErrTransportClosed is returned by Run when the receiving side of the
// transport has been closed.
var ErrTransportClosed = errors.New("transport closed")

// FatalError reports a failed transport write. The session cannot continue
// after it.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: writing %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// State is a state of the control loop.
type State int

const (
	// StatePrompting writes the prompt and clears the line.
	StatePrompting State = iota
	// StateReadingLine waits for input bytes.
	StateReadingLine
	// StateDispatching parses and executes the completed line.
	StateDispatching
)

func (s State) String() string {
	switch s {
	case StatePrompting:
		return "Prompting"
	case StateReadingLine:
		return "ReadingLine"
	case StateDispatching:
		return "Dispatching"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Parser turns a completed input line, terminator included, into a command.
type Parser interface {
	ParseBytes(line []byte) (eepromcmd.Command, error)
}

// Option configures an App.
type Option func(*App)

// WithBanner writes banner as a line once before the first prompt.
func WithBanner(banner string) Option {
	return func(a *App) {
		a.banner = banner
	}
}

// WithParser replaces the default command grammar.
func WithParser(p Parser) Option {
	return func(a *App) {
		a.parser = p
	}
}

// App is the control loop. It owns its transports exclusively and is not
// safe for concurrent use.
type App struct {
	tx         hal.SerialWriter
	rx         hal.SerialReader
	parser     Parser
	dispatcher *Dispatcher
	banner     string

	line  InputLine
	state State
}

// New returns a loop that reads from rx, answers on tx and executes
// commands through dispatcher.
func New(tx hal.SerialWriter, rx hal.SerialReader, dispatcher *Dispatcher, opts ...Option) *App {
	a := &App{
		tx:         tx,
		rx:         rx,
		parser:     eepromcmd.NewParser(),
		dispatcher: dispatcher,
		state:      StatePrompting,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current loop state.
func (a *App) State() State {
	return a.state
}

// Run writes the banner, if any, and steps the loop until the transport
// fails. It returns ErrTransportClosed once the input is closed, or a
// *FatalError when a write fails.
func (a *App) Run() error {
	if a.banner != "" {
		if err := a.write("banner", a.banner+eepromcmd.ResponseTerminator); err != nil {
			return err
		}
	}
	for {
		if err := a.Step(); err != nil {
			return err
		}
	}
}

// Step performs one state transition. In StateReadingLine it consumes
// exactly one input byte.
func (a *App) Step() error {
	switch a.state {
	case StatePrompting:
		if err := a.write("prompt", eepromcmd.Prompt); err != nil {
			return err
		}
		a.line.Clear()
		a.state = StateReadingLine

	case StateReadingLine:
		c, err := a.rx.ReadByte()
		if err != nil {
			if isClosed(err) {
				return ErrTransportClosed
			}
			glog.V(1).Infof("read error, substituting blank: %v", err)
			c = ' '
		}
		echo, complete := a.line.Feed(c)
		if echo {
			if err := a.tx.WriteByte(c); err != nil {
				return &FatalError{Op: "echo", Err: err}
			}
		}
		if complete {
			a.state = StateDispatching
		}

	case StateDispatching:
		resp := a.handle(a.line.Bytes())
		if err := a.write("response", resp.Format()); err != nil {
			return err
		}
		a.state = StatePrompting
	}
	return nil
}

func (a *App) handle(line []byte) eepromcmd.Response {
	cmd, err := a.parser.ParseBytes(line)
	if err != nil {
		glog.V(1).Infof("parse %q: %v", line, err)
		return eepromcmd.NewErrorResponse(eepromcmd.MsgParseFailed)
	}
	glog.V(1).Infof("dispatch %s", cmd)
	return a.dispatcher.Dispatch(cmd)
}

func (a *App) write(op, s string) error {
	if _, err := io.WriteString(a.tx, s); err != nil {
		return &FatalError{Op: op, Err: err}
	}
	return nil
}

// isClosed reports whether a read error means the input is gone for good.
func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed)
}
