package app

import "github.com/ikubaku/eeprom-programmer/eepromcmd"

// InputLine is the fixed-capacity buffer of the line being typed.
//
// Saturation policy: once full, further bytes are rejected and not echoed.
// The line never grows, reallocates or reports overflow.
type InputLine struct {
	buf [eepromcmd.MaxLineLength]byte
	n   int
}

// Feed applies one received byte to the line.
//
// It reports whether c must be echoed and whether c completed the line. A
// line feed completes the line even when it no longer fits.
func (l *InputLine) Feed(c byte) (echo, complete bool) {
	switch {
	case c == eepromcmd.Backspace:
		if l.n == 0 {
			return false, false
		}
		l.n--
		return true, false
	case isLineByte(c):
		if l.n < len(l.buf) {
			l.buf[l.n] = c
			l.n++
			echo = true
		}
		return echo, c == eepromcmd.LineTerminator
	default:
		return false, false
	}
}

// Len returns the number of buffered bytes.
func (l *InputLine) Len() int {
	return l.n
}

// Cap returns the fixed capacity.
func (l *InputLine) Cap() int {
	return len(l.buf)
}

// Bytes returns the buffered bytes. The slice aliases the line and is only
// valid until the next Feed or Clear.
func (l *InputLine) Bytes() []byte {
	return l.buf[:l.n]
}

// Clear empties the line.
func (l *InputLine) Clear() {
	l.n = 0
}

// isLineByte reports whether c is printable ASCII or a line terminator.
func isLineByte(c byte) bool {
	return (c >= 0x20 && c <= 0x7E) || c == '\r' || c == '\n'
}
