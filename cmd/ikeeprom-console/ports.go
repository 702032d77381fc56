// =============================================================================
// ports.go - Serial Port Discovery and Opening
// =============================================================================
//
// The console finds the programmer the way a user would: it looks for USB
// serial adapters (/dev/ttyUSB*, /dev/ttyACM*, and their macOS names) and
// takes the one attached most recently. If none is present yet, it waits a
// few seconds so the adapter can be plugged in after starting the console.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ikubaku/eeprom-programmer/eepromcmd"
	"github.com/ikubaku/eeprom-programmer/hal"
)

const (
	// portWaitTimeout is how long to wait for an adapter to appear.
	portWaitTimeout = 4 * time.Second

	// portPollInterval is how often to look for an adapter while waiting.
	portPollInterval = 100 * time.Millisecond
)

// discoverPorts lists candidate ports. Tests replace it.
var discoverPorts = eepromcmd.DiscoverPorts

// resolvePort returns the port to use: the requested one, else the most
// recently attached adapter, waiting up to timeout for one to appear.
func resolvePort(requested string, timeout time.Duration) (string, error) {
	if requested != "" {
		return requested, nil
	}
	return waitForPort(timeout)
}

// waitForPort polls for a serial adapter until timeout.
//
// GO CONCEPT: Polling with a Deadline
// -----------------------------------
// time.Now().Add(d) computes a deadline; the loop runs until the clock
// passes it. The loop body runs at least once, so a zero timeout still
// performs one discovery.
func waitForPort(timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	for {
		ports, err := discoverPorts()
		if err != nil {
			return "", err
		}
		if len(ports) > 0 {
			return ports[0], nil
		}
		if !time.Now().Before(deadline) {
			return "", eepromcmd.ErrPortNotFound
		}
		time.Sleep(portPollInterval)
	}
}

// openPort opens the programmer's serial port.
func openPort(path string, baud int) (io.ReadWriteCloser, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("serial port %s: %w", path, err)
	}
	return hal.OpenSerial(path, baud)
}

// printPorts lists candidate ports for the .ports command.
func printPorts() {
	ports, err := discoverPorts()
	if err != nil {
		printError(err.Error())
		return
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return
	}
	for _, p := range ports {
		fmt.Println(p)
	}
}

// homeDir returns the user's home directory, or "" if unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
