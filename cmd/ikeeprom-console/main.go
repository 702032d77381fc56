// =============================================================================
// main.go - ikeeprom Console Entry Point
// =============================================================================
//
// The console is the host side of the ikeeprom programmer. It opens the
// programmer's serial port, synchronises with its "> " prompt, and offers a
// REPL with line editing and history on top of the device's minimal line
// buffer.
//
// Usage:
//
//	ikeeprom-console                        Use the most recent USB serial port
//	ikeeprom-console --port /dev/ttyUSB0    Use a specific port
//	ikeeprom-console --baud 115200          Non-default serial speed
//	ikeeprom-console --help                 Show help
//
// =============================================================================

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"

	"github.com/ikubaku/eeprom-programmer/eepromcmd"
)

const (
	// version is the console version; it tracks the firmware protocol.
	version = eepromcmd.Version

	// appName is the application name.
	appName = "ikeeprom console"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// welcomeBanner is printed once the programmer answered.
func welcomeBanner() string {
	return fmt.Sprintf(`%s - 24-series EEPROM programmer

Type '.help' for available commands.
Type '.quit' to exit.
`, fullTitle())
}

// =============================================================================
// Command-Line Arguments
// =============================================================================

// arguments holds the parsed command line.
//
// GO CONCEPT: Zero Values as Defaults
// -----------------------------------
// Fields not set in a struct literal get their zero value: "" for strings,
// 0 for ints, false for bools. parseArgs only fills in the non-zero
// defaults (the baud rate) and lets the rest default naturally.
type arguments struct {
	// portPath is the serial port; empty means auto-discover.
	portPath string

	// baud is the serial speed.
	baud int

	// showHelp prints usage and exits.
	showHelp bool

	// showVersion prints the version and exits.
	showVersion bool
}

// parseArgs parses argv (without the program name).
//
// Flags use the GNU "--name value" style, which the standard flag package
// does not produce in its usage output, so they are parsed by hand.
func parseArgs(argv []string) (arguments, error) {
	args := arguments{
		baud: eepromcmd.DefaultBaudRate,
	}

	remaining := argv
	for len(remaining) > 0 {
		arg := remaining[0]
		remaining = remaining[1:]

		switch arg {
		case "--port":
			if len(remaining) == 0 {
				return args, errors.New("--port requires a device path")
			}
			args.portPath = remaining[0]
			remaining = remaining[1:]

		case "--baud":
			if len(remaining) == 0 {
				return args, errors.New("--baud requires a number")
			}
			baud, err := strconv.Atoi(remaining[0])
			if err != nil || baud <= 0 {
				return args, fmt.Errorf("invalid baud rate: %s", remaining[0])
			}
			args.baud = baud
			remaining = remaining[1:]

		case "--help", "-h":
			args.showHelp = true

		case "--version", "-v":
			args.showVersion = true

		default:
			return args, fmt.Errorf("unknown argument: %s", arg)
		}
	}

	return args, nil
}

// parseArguments parses os.Args, exiting with usage on errors.
func parseArguments() arguments {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		printError(err.Error())
		printUsage()
		os.Exit(1)
	}
	return args
}

func printUsage() {
	fmt.Print(`USAGE: ikeeprom-console [options]

OPTIONS:
  --port <path>       Serial port of the programmer (default: auto-discover)
  --baud <rate>       Serial speed (default: 9600)
  --help, -h          Show this help
  --version, -v       Show version

Without --port, the most recently attached USB serial adapter is used
(/dev/ttyUSB*, /dev/ttyACM*, /dev/tty.usbserial*, /dev/tty.usbmodem*).

EXAMPLES:
  ikeeprom-console
  ikeeprom-console --port /dev/ttyACM0 --baud 115200
`)
}

func printVersion() {
	fmt.Println(fullTitle())
}

// printError writes an error message to stderr.
func printError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

// =============================================================================
// Connection
// =============================================================================

// connect finds, opens and synchronises with the programmer.
func connect(args arguments) (*eepromcmd.Client, error) {
	if args.portPath == "" {
		fmt.Println("Looking for a programmer...")
	}
	path, err := resolvePort(args.portPath, portWaitTimeout)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Connecting to %s at %d baud...\n", path, args.baud)
	port, err := openPort(path, args.baud)
	if err != nil {
		return nil, err
	}

	client := eepromcmd.NewClient()
	if err := client.Connect(port); err != nil {
		return nil, err
	}
	return client, nil
}

// setupSignalHandler runs cleanup and exits on SIGINT or SIGTERM.
//
// GO CONCEPT: Signals via Channels
// --------------------------------
// signal.Notify delivers OS signals on a channel instead of interrupting
// the program. A goroutine blocks on the channel and runs the cleanup when
// a signal arrives, while main keeps running the REPL.
func setupSignalHandler(cleanup func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println()
		cleanup()
		os.Exit(0)
	}()
}

// =============================================================================
// Main
// =============================================================================

func main() {
	args := parseArguments()

	if args.showHelp {
		printUsage()
		return
	}
	if args.showVersion {
		printVersion()
		return
	}

	// glog only writes to files unless told otherwise; keep console
	// diagnostics on stderr.
	flag.Set("logtostderr", "true")
	flag.Set("stderrthreshold", "WARNING")
	defer glog.Flush()

	client, err := connect(args)
	if err != nil {
		printError(fmt.Sprintf("Failed to connect to programmer: %v", err))
		os.Exit(1)
	}

	client.SetDisconnectHandler(func(err error) {
		fmt.Fprintf(os.Stderr, "\nDisconnected from programmer: %v\n", err)
	})

	editor := NewLineEditor()
	cleanup := func() {
		editor.Close()
		client.Disconnect()
	}
	setupSignalHandler(cleanup)

	fmt.Print(welcomeBanner())
	fmt.Println()

	runREPL(programmer{client: client, baud: args.baud}, editor)
	cleanup()
}
