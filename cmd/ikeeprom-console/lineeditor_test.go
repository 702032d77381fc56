// =============================================================================
// lineeditor_test.go - Tests for the Line Editor (lineeditor.go)
// =============================================================================
//
// Only the non-interactive mode can be tested here: readline needs a real
// terminal. Tests redirect os.Stdin to a pipe before creating the editor,
// because NewLineEditor inspects stdin when it is called.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"testing"
)

// pipeStdin replaces os.Stdin with a pipe that yields input and then EOF.
func pipeStdin(t *testing.T, input string) {
	t.Helper()

	oldStdin := os.Stdin
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdin = reader
	t.Cleanup(func() {
		os.Stdin = oldStdin
		reader.Close()
	})

	fmt.Fprint(writer, input)
	writer.Close()
}

// TestNewLineEditorNonInteractive verifies that a piped stdin selects the
// scanner mode.
func TestNewLineEditorNonInteractive(t *testing.T) {
	pipeStdin(t, "")

	editor := NewLineEditor()
	defer editor.Close()

	if editor.IsInteractive() {
		t.Error("editor should be non-interactive when stdin is a pipe")
	}
}

// TestNewLineEditorWithEmacsEnv verifies that INSIDE_EMACS forces the
// scanner mode.
//
// GO CONCEPT: t.Setenv
// --------------------
// t.Setenv sets an environment variable for the duration of the test and
// restores it afterwards. Tests that use it cannot run in parallel.
func TestNewLineEditorWithEmacsEnv(t *testing.T) {
	t.Setenv("INSIDE_EMACS", "29.1,comint")
	pipeStdin(t, "")

	editor := NewLineEditor()
	defer editor.Close()

	if editor.IsInteractive() {
		t.Error("editor should be non-interactive inside Emacs")
	}
}

// TestGetLineSequence verifies lines are returned in order without their
// newlines, empty lines included, followed by io.EOF.
func TestGetLineSequence(t *testing.T) {
	pipeStdin(t, "r 10\n\nw 10 42\n")

	editor := NewLineEditor()
	defer editor.Close()

	var got []string
	output := captureStdout(t, func() {
		for {
			line, err := editor.GetLine("> ")
			if err == io.EOF {
				return
			}
			if err != nil {
				t.Errorf("GetLine error: %v", err)
				return
			}
			got = append(got, line)
		}
	})

	want := []string{"r 10", "", "w 10 42"}
	if len(got) != len(want) {
		t.Fatalf("GetLine returned %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	// One prompt per call, including the call that hit EOF.
	if output != "> > > > " {
		t.Errorf("prompts = %q, want four prompts", output)
	}
}

// TestGetLineEOFOnEmptyInput verifies immediate EOF on an empty pipe.
func TestGetLineEOFOnEmptyInput(t *testing.T) {
	pipeStdin(t, "")

	editor := NewLineEditor()
	defer editor.Close()

	captureStdout(t, func() {
		line, err := editor.GetLine("> ")
		if err != io.EOF {
			t.Errorf("GetLine error = %v, want io.EOF", err)
		}
		if line != "" {
			t.Errorf("GetLine line = %q, want empty", line)
		}
	})
}

// TestGetLineWithoutTrailingNewline verifies the last line is returned even
// when the input does not end with a newline.
func TestGetLineWithoutTrailingNewline(t *testing.T) {
	pipeStdin(t, "rd 0 16")

	editor := NewLineEditor()
	defer editor.Close()

	captureStdout(t, func() {
		line, err := editor.GetLine("> ")
		if err != nil {
			t.Fatalf("GetLine error: %v", err)
		}
		if line != "rd 0 16" {
			t.Errorf("GetLine = %q, want %q", line, "rd 0 16")
		}
	})
}

// TestCloseIsIdempotent verifies Close can be called more than once.
func TestCloseIsIdempotent(t *testing.T) {
	pipeStdin(t, "")

	editor := NewLineEditor()
	editor.Close()
	editor.Close()
}

// TestAddHistory verifies accepted lines are kept in order and an
// immediate repeat is recorded once.
func TestAddHistory(t *testing.T) {
	pipeStdin(t, "")

	editor := NewLineEditor()
	defer editor.Close()

	for _, line := range []string{"r 1", "r 1", "w 1 2", "r 1"} {
		editor.AddHistory(line)
	}

	want := []string{"r 1", "w 1 2", "r 1"}
	if got := editor.History(); !reflect.DeepEqual(got, want) {
		t.Errorf("History() = %q, want %q", got, want)
	}
}

// TestAddHistoryLimit verifies the oldest entries are dropped beyond the
// history size.
func TestAddHistoryLimit(t *testing.T) {
	pipeStdin(t, "")

	editor := NewLineEditor()
	defer editor.Close()

	for i := 0; i < historySize+10; i++ {
		editor.AddHistory(fmt.Sprintf("r %d", i))
	}

	got := editor.History()
	if len(got) != historySize {
		t.Fatalf("kept %d entries, want %d", len(got), historySize)
	}
	if got[0] != "r 10" {
		t.Errorf("oldest entry = %q, want %q", got[0], "r 10")
	}
}
