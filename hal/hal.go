// Package hal defines the transport capabilities the programmer loop runs
// on, and adapters that provide them on a host: any byte stream, a tarm
// serial port, and the system clock.
package hal

import (
	"io"
	"time"
)

// SerialReader receives one byte at a time. ReadByte blocks until a byte
// arrives or the transport fails.
type SerialReader interface {
	ReadByte() (byte, error)
}

// SerialWriter sends bytes. Writes block until the transport accepted them.
type SerialWriter interface {
	io.Writer
	WriteByte(c byte) error
}

// Delay is a blocking delay source.
type Delay interface {
	DelayMs(ms uint32)
	DelayUs(us uint32)
}

// Tx is the sending half of a byte stream. It does not buffer, so every
// echo reaches the terminal as soon as it is written.
type Tx struct {
	w   io.Writer
	one [1]byte
}

// Rx is the receiving half of a byte stream.
type Rx struct {
	r   io.Reader
	one [1]byte
}

// NewTx wraps w.
func NewTx(w io.Writer) *Tx {
	return &Tx{w: w}
}

// NewRx wraps r.
func NewRx(r io.Reader) *Rx {
	return &Rx{r: r}
}

// Split returns the two halves of a bidirectional stream, such as a serial
// port.
func Split(rw io.ReadWriter) (*Tx, *Rx) {
	return NewTx(rw), NewRx(rw)
}

// Write implements io.Writer.
func (t *Tx) Write(p []byte) (int, error) {
	return t.w.Write(p)
}

// WriteByte implements io.ByteWriter.
func (t *Tx) WriteByte(c byte) error {
	t.one[0] = c
	_, err := t.w.Write(t.one[:])
	return err
}

// ReadByte implements io.ByteReader. Reads that return no data and no error
// (a port with a read timeout) are retried.
func (r *Rx) ReadByte() (byte, error) {
	for {
		n, err := r.r.Read(r.one[:])
		if n == 1 {
			return r.one[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// SystemDelay sleeps on the host clock.
type SystemDelay struct{}

// DelayMs implements Delay.
func (SystemDelay) DelayMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// DelayUs implements Delay.
func (SystemDelay) DelayUs(us uint32) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}
