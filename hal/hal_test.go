package hal

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stream struct {
	io.Reader
	io.Writer
}

// stutterReader returns an empty read before every byte.
type stutterReader struct {
	data  []byte
	empty bool
}

func (r *stutterReader) Read(p []byte) (int, error) {
	r.empty = !r.empty
	if r.empty {
		return 0, nil
	}
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func readAll(t *testing.T, r SerialReader) string {
	t.Helper()
	var out []byte
	for {
		c, err := r.ReadByte()
		if err == io.EOF {
			return string(out)
		}
		require.NoError(t, err)
		out = append(out, c)
	}
}

func TestSplit(t *testing.T) {
	var out bytes.Buffer
	tx, rx := Split(stream{Reader: bytes.NewReader([]byte("ab")), Writer: &out})

	require.NoError(t, tx.WriteByte('>'))
	_, err := tx.Write([]byte(" ok"))
	require.NoError(t, err)
	assert.Equal(t, "> ok", out.String())

	assert.Equal(t, "ab", readAll(t, rx))
}

func TestRxRetriesEmptyReads(t *testing.T) {
	rx := NewRx(&stutterReader{data: []byte("xyz")})
	assert.Equal(t, "xyz", readAll(t, rx))
}

func TestTranslateCR(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lone CR", "r 1\r", "r 1\r\n"},
		{"CRLF unchanged", "r 1\r\nr 2\r\n", "r 1\r\nr 2\r\n"},
		{"LF unchanged", "r 1\nr 2\n", "r 1\nr 2\n"},
		{"CR CR", "\r\r", "\r\n\r\n"},
		{"text after CR", "a\rb", "a\r\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx := TranslateCR(NewRx(bytes.NewReader([]byte(tt.input))))
			assert.Equal(t, tt.want, readAll(t, rx))
		})
	}
}

func TestSystemDelay(t *testing.T) {
	start := time.Now()
	SystemDelay{}.DelayMs(2)
	SystemDelay{}.DelayUs(500)
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}

func TestOpenSerialMissingPort(t *testing.T) {
	_, err := OpenSerial(filepath.Join(t.TempDir(), "ttyUSB9"), 9600)
	assert.ErrorContains(t, err, "open serial port")
}
