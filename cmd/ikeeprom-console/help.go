// =============================================================================
// help.go - Help System
// =============================================================================
//
// This file implements the console help system:
//   - ".help"         Full command listing
//   - ".help <topic>" Detailed help for a single command
//
// Help text lives in two dictionaries:
//   - consoleHelp:   dot-commands handled by the console itself
//   - deviceHelp:    programmer commands sent over the serial link
//
// =============================================================================

package main

import (
	"fmt"
	"os"
	"strings"
)

// printHelp shows the overview when topic is empty, otherwise the detailed
// text for one command.
//
// GO CONCEPT: String Zero Value as "Not Set"
// -------------------------------------------
// A string parameter cannot be nil. The empty string "" is its zero value
// and is used here to mean "no topic given".
//
// Compare with Python: def print_help(topic: str | None = None) uses None
// for the same purpose.
func printHelp(topic string) {
	if topic == "" {
		printHelpOverview()
		return
	}

	// ".help .save" and ".help save" are the same; device commands accept
	// their long names too.
	key := strings.TrimPrefix(strings.ToLower(topic), ".")
	if alias, ok := helpAliases[key]; ok {
		key = alias
	}

	if text, ok := consoleHelp[key]; ok {
		fmt.Println(text)
		return
	}
	if text, ok := deviceHelp[key]; ok {
		fmt.Println(text)
		return
	}

	fmt.Fprintf(os.Stderr, "Error: No help for '%s'. Type .help to see available commands.\n", topic)
}

// printHelpOverview prints the full command listing.
//
// GO CONCEPT: Raw String Literals for Multi-Line Text
// ---------------------------------------------------
// Backtick strings keep newlines and indentation exactly as written, which
// keeps the column alignment of help text readable in the source.
func printHelpOverview() {
	fmt.Print(`Console Commands:
  .help [cmd]         Show help (or help for a specific command)
  .ports              List serial ports that look like programmers
  .save <file> [part] Save the whole chip to a file (default part: 24x64)
  .quit               Exit the console

Programmer Commands:
  r <addr>            Read one byte
  w <addr> <data>     Write one byte
  rd <addr> <len>     Read a block of 1-4096 bytes as hex rows
  wp <addr> <bytes>   Write hex bytes within one page
  dev <part>          Select the chip part (e.g. 24c02, 24lc256)

Numbers are decimal, or hex with a $ or 0x prefix.
`)
}

// helpAliases maps long command names to their help key.
var helpAliases = map[string]string{
	"read":   "r",
	"write":  "w",
	"dump":   "rd",
	"page":   "wp",
	"device": "dev",
	"exit":   "quit",
}

// consoleHelp contains detailed help for dot-commands. Keys have no
// leading dot.
var consoleHelp = map[string]string{
	"help": `  .help [command]
    Show the command overview, or detailed help for one command.
    Examples: .help, .help rd, .help .save`,

	"ports": `  .ports
    List serial ports that look like USB serial adapters, most recently
    attached first. The first one is used when --port is not given.`,

	"save": `  .save <file> [part]
    Read the whole chip with block reads and write it to <file>.
    The part decides the chip size and defaults to 24x64 (8 KiB).
    Example: .save backup.bin 24c256`,

	"quit": `  .quit
    Disconnect from the programmer and exit the console.`,
}

// deviceHelp contains detailed help for the programmer commands.
var deviceHelp = map[string]string{
	"r": `  r <addr>   (alias: read)
    Read one byte. The device answers "data = <value>" in decimal,
    or "Could not read data!" if the chip did not respond.
    Example: r $1F`,

	"w": `  w <addr> <data>   (alias: write)
    Write one byte (0-255) and wait for the chip's write cycle.
    The device answers "Ok" or "Could not write data!".
    Example: w 10 0x2A`,

	"rd": `  rd <addr> <len>   (alias: dump)
    Read <len> bytes (1-4096). The device prints rows of 16 bytes:
      0010: 10 11 12 13 14 15 16 17 18 19 1A 1B 1C 1D 1E 1F
    Example: rd $100 64`,

	"wp": `  wp <addr> <bytes>   (alias: page)
    Write hex bytes, separated by commas or spaces, starting at <addr>.
    All bytes must lie in the page that contains <addr>. Long payloads
    are split into several device lines by the console.
    Example: wp $40 DE,AD,BE,EF`,

	"dev": `  dev <part>   (alias: device)
    Select the chip part: 24x00 to 24x512, 24xm01, 24xm02. Vendor
    spellings such as 24c64, 24LC256 or AT24C02 are accepted.
    The device answers "Ok", or "Unknown device!".`,
}
