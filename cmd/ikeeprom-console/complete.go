// =============================================================================
// complete.go - Tab Completion
// =============================================================================
//
// The first word completes to a programmer command or a dot-command. After
// "dev" and after ".save <file>" the part names complete; after ".help" the
// help topics do. Addresses and data are left alone.
//
// =============================================================================

package main

import (
	"sort"
	"strings"

	"github.com/ikubaku/eeprom-programmer/storage"
)

// commandWords are the words accepted at the start of a console line.
var commandWords = []string{
	"r", "w", "rd", "wp", "dev",
	"read", "write", "dump", "page", "device",
	".help", ".ports", ".save", ".quit", ".exit",
}

// commandCompleter implements readline.AutoCompleter.
type commandCompleter struct{}

// Do returns the suffixes that complete the word before pos, and the
// length of that word. Each suffix ends in a space so a unique match
// leaves the cursor ready for the next argument.
func (commandCompleter) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	before := string(line[:pos])
	words := strings.Fields(before)

	// The word under the cursor is empty right after a space.
	current := ""
	if len(words) > 0 && !strings.HasSuffix(before, " ") && !strings.HasSuffix(before, "\t") {
		current = words[len(words)-1]
		words = words[:len(words)-1]
	}

	var choices []string
	switch {
	case len(words) == 0:
		choices = commandWords
	case len(words) == 1:
		switch strings.ToLower(words[0]) {
		case "dev", "device":
			choices = partNames()
		case ".help":
			choices = helpTopics()
		}
	case len(words) == 2 && strings.ToLower(words[0]) == ".save":
		choices = partNames()
	}

	var suffixes [][]rune
	lower := strings.ToLower(current)
	for _, c := range choices {
		if strings.HasPrefix(c, lower) {
			suffixes = append(suffixes, []rune(c[len(lower):]+" "))
		}
	}
	return suffixes, len([]rune(current))
}

// partNames lists the canonical part names, smallest part first.
func partNames() []string {
	var names []string
	for _, p := range storage.Parts() {
		names = append(names, p.Name)
	}
	return names
}

// helpTopics lists everything .help has a page for, sorted.
func helpTopics() []string {
	var topics []string
	for key := range consoleHelp {
		topics = append(topics, "."+key)
	}
	for key := range deviceHelp {
		topics = append(topics, key)
	}
	for alias := range helpAliases {
		if _, ok := consoleHelp[helpAliases[alias]]; ok {
			topics = append(topics, "."+alias)
		} else {
			topics = append(topics, alias)
		}
	}
	sort.Strings(topics)
	return topics
}
