// =============================================================================
// lineeditor.go - Console Input
// =============================================================================
//
// On a terminal the console edits lines with ergochat/readline: Tab
// completes command words and part names (complete.go), and the history in
// ~/.ikeeprom_history keeps only lines the console accepted. Piped input
// (scripts, Emacs comint) is read line by line with the prompt printed
// by hand.
//
// The programmer only offers backspace inside its 32 byte buffer, so all
// editing happens here and the device sees complete lines.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	historyFileName = ".ikeeprom_history"
	historySize     = 500
)

// LineEditor reads console lines from a terminal or a pipe.
type LineEditor struct {
	// rl is set on a terminal; piped input goes through in.
	rl *readline.Instance
	in *bufio.Scanner

	// accepted holds this session's history, oldest first.
	accepted []string
}

// NewLineEditor picks readline when stdin is a terminal outside Emacs.
// Emacs sets INSIDE_EMACS for comint buffers, which do their own editing.
func NewLineEditor() *LineEditor {
	if !term.IsTerminal(int(os.Stdin.Fd())) || os.Getenv("INSIDE_EMACS") != "" {
		return &LineEditor{in: bufio.NewScanner(os.Stdin)}
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            filepath.Join(homeDir(), historyFileName),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		AutoComplete:           commandCompleter{},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return &LineEditor{in: bufio.NewScanner(os.Stdin)}
	}
	return &LineEditor{rl: rl}
}

// GetLine shows prompt and returns the next line without its newline.
// Ctrl-D, Ctrl-C and the end of piped input all give io.EOF.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.rl == nil {
		// comint matches on the prompt, so it is printed for pipes too.
		fmt.Print(prompt)
		if le.in.Scan() {
			return le.in.Text(), nil
		}
		if err := le.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	le.rl.SetPrompt(prompt)
	line, err := le.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", io.EOF
	}
	return line, err
}

// AddHistory records a line the console accepted. A repeat of the previous
// entry is not recorded again.
func (le *LineEditor) AddHistory(line string) {
	if n := len(le.accepted); n > 0 && le.accepted[n-1] == line {
		return
	}
	le.accepted = append(le.accepted, line)
	if len(le.accepted) > historySize {
		le.accepted = le.accepted[len(le.accepted)-historySize:]
	}
	if le.rl != nil {
		if err := le.rl.SaveToHistory(line); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save history: %v\n", err)
		}
	}
}

// History returns this session's accepted lines, oldest first.
func (le *LineEditor) History() []string {
	return append([]string(nil), le.accepted...)
}

// Close flushes the history file and restores the terminal. Calling it
// again does nothing.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether the editor uses readline.
func (le *LineEditor) IsInteractive() bool {
	return le.rl != nil
}
