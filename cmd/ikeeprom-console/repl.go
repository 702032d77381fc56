// =============================================================================
// repl.go - REPL Loop
// =============================================================================
//
// The REPL reads a line, handles dot-commands locally, and otherwise
// translates the line into programmer commands and sends them over the
// serial link one at a time. Responses are printed as the device wrote
// them; the fixed failure messages go to stderr.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ikubaku/eeprom-programmer/eepromcmd"
)

// consolePrompt is shown before each input line. It differs from the
// device's "> " so the two are never confused in a transcript.
const consolePrompt = "eeprom> "

// programmer is the console's end of the serial link.
type programmer struct {
	client *eepromcmd.Client
	baud   int
}

// send sends cmd and waits as long as its answer needs at the link speed.
func (p programmer) send(cmd eepromcmd.Command) (eepromcmd.Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cmd.ResponseTimeout(p.baud))
	defer cancel()
	return p.client.SendWithContext(ctx, cmd)
}

// runREPL runs the main loop until .quit, end of input or a lost link.
// Lines the console accepted are added to the history.
func runREPL(prog programmer, editor *LineEditor) {
	for {
		line, err := editor.GetLine(consolePrompt)
		if err != nil {
			if err != io.EOF {
				printError(err.Error())
			}
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			editor.AddHistory(line)
			if quit := handleDotCommand(prog, line); quit {
				return
			}
			continue
		}

		cmds, err := translateToCommands(line)
		if err != nil {
			printError(err.Error())
			continue
		}
		editor.AddHistory(line)
		if !sendCommands(prog, cmds) {
			return
		}
	}
}

// handleDotCommand runs a console command. It reports whether the REPL
// should exit.
//
// GO CONCEPT: strings.Fields for Argument Splitting
// -------------------------------------------------
// strings.Fields splits on any run of whitespace and drops empty strings,
// so ".save   a.bin" gives [".save", "a.bin"]. The command word is then
// lowercased for a case-insensitive switch.
func handleDotCommand(prog programmer, line string) bool {
	fields := strings.Fields(line)
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		topic := ""
		if len(args) > 0 {
			topic = args[0]
		}
		printHelp(topic)

	case ".ports":
		printPorts()

	case ".save":
		if len(args) < 1 || len(args) > 2 {
			printError("usage: .save <file> [part]")
			return false
		}
		part := ""
		if len(args) == 2 {
			part = args[1]
		}
		n, err := saveChip(prog, args[0], part)
		if err != nil {
			printError(fmt.Sprintf("save failed: %v", err))
			return false
		}
		fmt.Printf("Saved %d bytes to %s\n", n, args[0])

	default:
		printError(fmt.Sprintf("Unknown command: %s. Type .help for available commands.", fields[0]))
	}
	return false
}

// sendCommands sends the commands of one console line in order. It returns
// false when the link is gone and the REPL must stop.
func sendCommands(prog programmer, cmds []eepromcmd.Command) bool {
	for _, cmd := range cmds {
		resp, err := prog.send(cmd)
		if err != nil {
			printError(err.Error())
			return prog.client.IsConnected()
		}

		if resp.IsError() {
			fmt.Fprintf(os.Stderr, "Error: %s\n", resp.Data())
			// The remaining chunks of a split page write would land
			// after a hole.
			return true
		}
		fmt.Println(resp.Data())
	}
	return true
}
