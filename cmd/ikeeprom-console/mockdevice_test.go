// =============================================================================
// mockdevice_test.go - Simulated Programmer for Testing
// =============================================================================
//
// GO CONCEPT: Test Helpers (Shared Test Infrastructure)
// -----------------------------------------------------
// Files ending in _test.go are only compiled for tests, and every test file
// in the package shares them. This file runs the real programmer loop
// (package app) against an in-memory chip on one end of a net.Pipe, so the
// console can be tested end to end without a serial adapter.
//
// net.Pipe returns two connected in-memory net.Conn values. Writes on one
// end block until the other end reads them, which is close to how a serial
// line with no buffering behaves.
//
// =============================================================================

package main

import (
	"net"
	"testing"

	"github.com/ikubaku/eeprom-programmer/app"
	"github.com/ikubaku/eeprom-programmer/eepromcmd"
	"github.com/ikubaku/eeprom-programmer/hal"
	"github.com/ikubaku/eeprom-programmer/storage"
)

// mockDevice is a simulated programmer attached to a connected client.
type mockDevice struct {
	// client talks to the device like the console does.
	client *eepromcmd.Client

	// dispatcher gives tests access to the selected chip.
	dispatcher *app.Dispatcher

	// conn is the device end of the link; closing it unplugs the device.
	conn net.Conn

	// done receives the result of the device loop.
	done chan error
}

// startMockDevice starts a simulated programmer with a 24x64 chip and
// connects a client to it. Everything is torn down when the test finishes.
func startMockDevice(t *testing.T) *mockDevice {
	t.Helper()

	host, conn := net.Pipe()
	md := &mockDevice{
		dispatcher: app.NewDispatcher(storage.NewMemory(storage.DefaultPart()), storage.MemorySelector()),
		conn:       conn,
		done:       make(chan error, 1),
	}

	tx, rx := hal.Split(conn)
	loop := app.New(tx, rx, md.dispatcher, app.WithBanner(eepromcmd.Banner))
	go func() {
		md.done <- loop.Run()
	}()

	md.client = eepromcmd.NewClient()
	if err := md.client.Connect(host); err != nil {
		t.Fatalf("failed to connect to mock device: %v", err)
	}

	t.Cleanup(func() {
		md.client.Disconnect()
		conn.Close()
	})
	return md
}

// memory returns the chip currently selected on the device.
func (md *mockDevice) memory(t *testing.T) *storage.Memory {
	t.Helper()
	mem, ok := md.dispatcher.Device().(*storage.Memory)
	if !ok {
		t.Fatalf("device is %T, want *storage.Memory", md.dispatcher.Device())
	}
	return mem
}

// unplug closes the device end of the link.
func (md *mockDevice) unplug() {
	md.conn.Close()
}
