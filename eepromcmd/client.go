package eepromcmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DisconnectHandler is a callback function called when the connection is lost.
type DisconnectHandler func(err error)

// promptMarker ends every exchange: the last response line followed by the
// next prompt.
var promptMarker = []byte(ResponseTerminator + Prompt)

// Client drives a programmer from the host side of its serial link.
//
// It writes one command line at a time, strips the device's echo and returns
// the response lines that precede the next prompt.
//
// Thread Safety:
// The client uses a mutex to protect its state and serialises exchanges, so
// it is safe for concurrent use from multiple goroutines.
type Client struct {
	mu sync.Mutex

	port        io.ReadWriteCloser
	isConnected bool
	readErr     error

	incoming   chan []byte
	closing    chan struct{}
	readerDone chan struct{}

	disconnectHandler DisconnectHandler

	// sendMu serialises exchanges and guards pending and late.
	sendMu  sync.Mutex
	pending []byte

	// late counts exchanges that timed out; their answers are still owed
	// by the device and are discarded before the next exchange.
	late int
}

// NewClient creates a new programmer client.
func NewClient() *Client {
	return &Client{}
}

// SetDisconnectHandler sets the callback for disconnection events.
func (c *Client) SetDisconnectHandler(handler DisconnectHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectHandler = handler
}

// IsConnected returns true if the client is currently connected.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected
}

// Connect attaches the client to a device port and synchronises with its
// prompt.
func (c *Client) Connect(port io.ReadWriteCloser) error {
	return c.ConnectWithContext(context.Background(), port)
}

// ConnectWithContext attaches to a device port with a context for
// cancellation. The synchronisation sends an empty line and waits for the
// device's parse error answer, which discards any banner or stale output.
func (c *Client) ConnectWithContext(ctx context.Context, port io.ReadWriteCloser) error {
	c.mu.Lock()
	if c.isConnected {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.port = port
	c.isConnected = true
	c.readErr = nil
	c.incoming = make(chan []byte, 64)
	c.closing = make(chan struct{})
	c.readerDone = make(chan struct{})
	go c.readerLoop(port, c.incoming, c.closing, c.readerDone)
	c.mu.Unlock()

	syncCtx, cancel := context.WithTimeout(ctx, SyncTimeout)
	defer cancel()

	if err := c.sync(syncCtx); err != nil {
		c.Disconnect()
		return NewConnectionError("prompt sync failed", err)
	}
	return nil
}

// Disconnect closes the port. It does not wait for a blocked read to return.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if !c.isConnected {
		c.mu.Unlock()
		return
	}
	c.isConnected = false
	port := c.port
	c.port = nil
	close(c.closing)
	c.mu.Unlock()

	port.Close()
}

// Send sends a command and waits for its response.
// Uses the default CommandTimeout.
func (c *Client) Send(cmd Command) (Response, error) {
	return c.SendRaw(cmd.Format())
}

// SendWithContext sends a command with a context for cancellation/timeout.
func (c *Client) SendWithContext(ctx context.Context, cmd Command) (Response, error) {
	return c.SendRawWithContext(ctx, cmd.Format())
}

// SendRaw sends a raw command line. The line must not contain a terminator.
func (c *Client) SendRaw(line string) (Response, error) {
	return c.SendRawWithTimeout(line, CommandTimeout)
}

// SendRawWithTimeout sends a raw command line with a custom timeout.
func (c *Client) SendRawWithTimeout(line string, timeout time.Duration) (Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.SendRawWithContext(ctx, line)
}

// SendRawWithContext sends a raw command line with a context.
//
// Lines that would not fit the device's input line are refused with
// ErrLineTooLong: the device would silently drop the excess, terminator
// included, and the echo could no longer be told apart from the response.
//
// A timed-out exchange returns ErrTimeout. Its answer is skipped at the
// start of the next exchange, within that exchange's context.
func (c *Client) SendRawWithContext(ctx context.Context, line string) (Response, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.ContainsAny(line, "\r\n") {
		return Response{}, newInvalidCommandError(line)
	}
	if len(line)+1 > MaxLineLength {
		return Response{}, ErrLineTooLong
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if err := c.drainLate(ctx); err != nil {
		return Response{}, err
	}

	if err := c.write(line + string(LineTerminator)); err != nil {
		return Response{}, err
	}

	chunk, err := c.awaitPrompt(ctx)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			c.late++
		}
		return Response{}, err
	}

	// Everything up to the first newline is the echo of our own line.
	echoEnd := bytes.IndexByte(chunk, LineTerminator)
	if echoEnd < 0 {
		return Response{}, newUnexpectedResponseError(string(chunk))
	}
	return ParseResponse(string(chunk[echoEnd+1:]))
}

// sync aligns the client with the device prompt.
func (c *Client) sync(ctx context.Context) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.pending = nil
	c.late = 0
	if err := c.write(string(LineTerminator)); err != nil {
		return err
	}
	for {
		chunk, err := c.awaitPrompt(ctx)
		if err != nil {
			return err
		}
		if bytes.Contains(chunk, []byte(MsgParseFailed)) {
			return nil
		}
	}
}

// drainLate consumes the answers of timed-out exchanges. Every line the
// device accepts ends in exactly one prompt, so skipping one prompt per
// timed-out line realigns the stream.
func (c *Client) drainLate(ctx context.Context) error {
	for c.late > 0 {
		chunk, err := c.awaitPrompt(ctx)
		if err != nil {
			return err
		}
		glog.V(1).Infof("discarding late answer %q", chunk)
		c.late--
	}
	return nil
}

func (c *Client) write(s string) error {
	c.mu.Lock()
	if !c.isConnected {
		c.mu.Unlock()
		return ErrNotConnected
	}
	port := c.port
	c.mu.Unlock()

	glog.V(2).Infof("TX %q", s)
	if _, err := io.WriteString(port, s); err != nil {
		return NewConnectionError("failed to send command", err)
	}
	return nil
}

// awaitPrompt collects device output until the next prompt and returns the
// bytes before it, last response terminator included.
func (c *Client) awaitPrompt(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	incoming, done := c.incoming, c.readerDone
	c.mu.Unlock()

	for {
		if i := bytes.Index(c.pending, promptMarker); i >= 0 {
			end := i + len(ResponseTerminator)
			chunk := make([]byte, end)
			copy(chunk, c.pending[:end])
			c.pending = c.pending[i+len(promptMarker):]
			return chunk, nil
		}

		select {
		case data := <-incoming:
			c.pending = append(c.pending, data...)
		case <-done:
			// Take whatever the reader delivered before it stopped.
			select {
			case data := <-incoming:
				c.pending = append(c.pending, data...)
				continue
			default:
			}
			c.mu.Lock()
			cause := c.readErr
			c.mu.Unlock()
			return nil, NewConnectionError("disconnected", cause)
		case <-ctx.Done():
			return nil, ErrTimeout
		}
	}
}

// readerLoop continuously reads from the port and hands chunks to the
// exchange in progress.
func (c *Client) readerLoop(port io.Reader, incoming chan<- []byte, closing <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	buf := make([]byte, 256)
	for {
		n, err := port.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			glog.V(2).Infof("RX %q", chunk)
			select {
			case incoming <- chunk:
			case <-closing:
				return
			}
		}
		if err != nil {
			c.handleDisconnect(err)
			return
		}
	}
}

// handleDisconnect handles an unexpected disconnection.
func (c *Client) handleDisconnect(err error) {
	c.mu.Lock()
	c.readErr = err
	if !c.isConnected {
		c.mu.Unlock()
		return
	}
	c.isConnected = false
	handler := c.disconnectHandler
	port := c.port
	c.port = nil
	close(c.closing)
	c.mu.Unlock()

	port.Close()
	glog.Warningf("device link lost: %v", err)
	if handler != nil {
		handler(err)
	}
}
