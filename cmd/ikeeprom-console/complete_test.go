// =============================================================================
// complete_test.go - Tests for Tab Completion (complete.go)
// =============================================================================

package main

import (
	"reflect"
	"testing"
)

// complete runs the completer with the cursor at the end of line.
func complete(line string) ([]string, int) {
	runes := []rune(line)
	suffixes, length := commandCompleter{}.Do(runes, len(runes))
	var got []string
	for _, s := range suffixes {
		got = append(got, string(s))
	}
	return got, length
}

// TestCompleteCommandWords verifies the first word completes to commands.
func TestCompleteCommandWords(t *testing.T) {
	tests := []struct {
		line       string
		want       []string
		wantLength int
	}{
		{"r", []string{" ", "d ", "ead "}, 1},
		{"wr", []string{"ite "}, 2},
		{".sa", []string{"ve "}, 3},
		{".q", []string{"uit "}, 2},
		{"D", []string{"ev ", "ump ", "evice "}, 1},
		{"x", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, length := complete(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Do(%q) = %q, want %q", tt.line, got, tt.want)
			}
			if length != tt.wantLength {
				t.Errorf("Do(%q) length = %d, want %d", tt.line, length, tt.wantLength)
			}
		})
	}
}

// TestCompleteEmptyLine verifies every command word is offered on an empty
// line.
func TestCompleteEmptyLine(t *testing.T) {
	got, length := complete("")
	if len(got) != len(commandWords) {
		t.Errorf("got %d choices, want %d", len(got), len(commandWords))
	}
	if length != 0 {
		t.Errorf("length = %d, want 0", length)
	}
}

// TestCompleteArguments verifies part names and help topics complete in
// argument position, and numbers do not.
func TestCompleteArguments(t *testing.T) {
	tests := []struct {
		line       string
		want       []string
		wantLength int
	}{
		{"dev 24x6", []string{"4 "}, 4},
		{"DEVICE 24X1", []string{"6 ", "28 "}, 4},
		{"dev 24xm", []string{"01 ", "02 "}, 4},
		{".save backup.bin 24x25", []string{"6 "}, 5},
		{".help .sa", []string{"ve "}, 3},
		{".help du", []string{"mp "}, 2},
		{"r 1", nil, 1},
		{"w 10 ", nil, 0},
		{".save 24x", nil, 3},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, length := complete(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Do(%q) = %q, want %q", tt.line, got, tt.want)
			}
			if length != tt.wantLength {
				t.Errorf("Do(%q) length = %d, want %d", tt.line, length, tt.wantLength)
			}
		})
	}
}

// TestCompleteCursorInsideLine verifies only the text before the cursor
// is completed.
func TestCompleteCursorInsideLine(t *testing.T) {
	line := []rune("de 24x64")
	suffixes, length := commandCompleter{}.Do(line, 2)
	if len(suffixes) != 2 || string(suffixes[0]) != "v " || string(suffixes[1]) != "vice " {
		t.Errorf("Do = %q, want [\"v \" \"vice \"]", suffixes)
	}
	if length != 2 {
		t.Errorf("length = %d, want 2", length)
	}
}

// TestHelpTopicsCoverHelpPages verifies every completed topic has a help
// page.
func TestHelpTopicsCoverHelpPages(t *testing.T) {
	for _, topic := range helpTopics() {
		output := captureStdout(t, func() { printHelp(topic) })
		if output == "" {
			t.Errorf("no help printed for completed topic %q", topic)
		}
	}
}
