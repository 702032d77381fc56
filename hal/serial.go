package hal

import (
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// OpenSerial opens a serial port in blocking mode, 8N1.
func OpenSerial(name string, baud int) (io.ReadWriteCloser, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name: name,
		Baud: baud,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	return port, nil
}
