package main

import (
	"io"
	"os"

	"github.com/golang/glog"
	"golang.org/x/term"
)

const (
	ctrlC = 0x03
	ctrlD = 0x04
)

// stdio joins the process's standard streams into one link.
type stdio struct {
	io.Reader
	io.Writer
}

// openTerminal puts a terminal on stdin into raw mode, so bytes reach the
// line editor unprocessed and only its echo is shown.
func openTerminal() (io.ReadWriter, func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return stdio{Reader: os.Stdin, Writer: os.Stdout}, func() {}, nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, err
	}
	restore := func() {
		if err := term.Restore(fd, oldState); err != nil {
			glog.Warningf("restore terminal: %v", err)
		}
	}
	return stdio{Reader: &interruptReader{r: os.Stdin}, Writer: os.Stdout}, restore, nil
}

// interruptReader ends the input at Ctrl-C or Ctrl-D, which raw mode no
// longer turns into a signal or end of file.
type interruptReader struct {
	r    io.Reader
	done bool
}

func (ir *interruptReader) Read(p []byte) (int, error) {
	if ir.done {
		return 0, io.EOF
	}
	n, err := ir.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] == ctrlC || p[i] == ctrlD {
			ir.done = true
			if i == 0 {
				return 0, io.EOF
			}
			return i, nil
		}
	}
	return n, err
}
