// =============================================================================
// help_test.go - Tests for the Help System (help.go)
// =============================================================================

package main

import (
	"io"
	"os"
	"strings"
	"sync"
	"testing"
)

// =============================================================================
// Test Helpers
// =============================================================================

// captureFile swaps *target for the write end of a pipe while fn runs and
// returns everything written to it.
//
// GO CONCEPT: Pointers to Package Variables
// -----------------------------------------
// os.Stdout and os.Stderr are ordinary package variables of type *os.File.
// Taking their address (&os.Stdout) lets one helper redirect either of
// them: the helper assigns through the pointer and restores the old value
// afterwards.
func captureFile(t *testing.T, target **os.File, fn func()) string {
	t.Helper()

	old := *target
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	*target = w

	var wg sync.WaitGroup
	var output []byte

	wg.Add(1)
	go func() {
		defer wg.Done()
		output, _ = io.ReadAll(r)
	}()

	fn()

	w.Close()
	*target = old
	wg.Wait()
	r.Close()

	return string(output)
}

// captureStdout runs fn and returns everything it wrote to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	return captureFile(t, &os.Stdout, fn)
}

// captureStderr runs fn and returns everything it wrote to stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	return captureFile(t, &os.Stderr, fn)
}

// =============================================================================
// Help Overview Tests
// =============================================================================

// TestHelpOverviewListsAllCommands verifies that .help shows both the
// console and the programmer commands.
func TestHelpOverviewListsAllCommands(t *testing.T) {
	output := captureStdout(t, func() { printHelp("") })

	expected := []string{
		"Console Commands:",
		"Programmer Commands:",
		".help", ".ports", ".save", ".quit",
		"r <addr>", "w <addr> <data>", "rd <addr> <len>", "wp <addr> <bytes>", "dev <part>",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("help overview missing %q", want)
		}
	}
}

// =============================================================================
// Help Topic Tests
// =============================================================================

// TestHelpTopics verifies detailed help for every command, including the
// long spellings and the dotted console names.
func TestHelpTopics(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"help", ".help [command]"},
		{".help", ".help [command]"},
		{"ports", ".ports"},
		{"save", ".save <file> [part]"},
		{".save", ".save <file> [part]"},
		{"quit", ".quit"},
		{"exit", ".quit"},
		{"r", "r <addr>"},
		{"read", "r <addr>"},
		{"w", "w <addr> <data>"},
		{"write", "w <addr> <data>"},
		{"rd", "rd <addr> <len>"},
		{"dump", "rd <addr> <len>"},
		{"wp", "wp <addr> <bytes>"},
		{"page", "wp <addr> <bytes>"},
		{"dev", "dev <part>"},
		{"device", "dev <part>"},
	}

	for _, tc := range tests {
		t.Run(tc.topic, func(t *testing.T) {
			output := captureStdout(t, func() { printHelp(tc.topic) })
			if !strings.Contains(output, tc.want) {
				t.Errorf("printHelp(%q) = %q, want it to contain %q", tc.topic, output, tc.want)
			}
		})
	}
}

// TestHelpTopicCaseInsensitive verifies topic lookup ignores case.
func TestHelpTopicCaseInsensitive(t *testing.T) {
	lower := captureStdout(t, func() { printHelp("rd") })
	upper := captureStdout(t, func() { printHelp("RD") })

	if lower != upper {
		t.Errorf("printHelp(\"RD\") = %q, want %q", upper, lower)
	}
}

// TestHelpTopicUnknown verifies that unknown topics report an error on
// stderr and print nothing on stdout.
func TestHelpTopicUnknown(t *testing.T) {
	var stdout string
	stderr := captureStderr(t, func() {
		stdout = captureStdout(t, func() { printHelp("frobnicate") })
	})

	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if !strings.Contains(stderr, "No help for 'frobnicate'") {
		t.Errorf("stderr = %q, want a 'No help' error", stderr)
	}
}

// =============================================================================
// Help Dictionary Tests
// =============================================================================

// TestHelpDictionariesComplete verifies that every dispatched command has
// help text and that every alias points at an existing entry.
func TestHelpDictionariesComplete(t *testing.T) {
	for _, key := range []string{"help", "ports", "save", "quit"} {
		if _, ok := consoleHelp[key]; !ok {
			t.Errorf("consoleHelp missing %q", key)
		}
	}
	for _, key := range []string{"r", "w", "rd", "wp", "dev"} {
		if _, ok := deviceHelp[key]; !ok {
			t.Errorf("deviceHelp missing %q", key)
		}
	}

	for alias, key := range helpAliases {
		_, console := consoleHelp[key]
		_, device := deviceHelp[key]
		if !console && !device {
			t.Errorf("alias %q points at missing topic %q", alias, key)
		}
	}
}
