package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/ikubaku/eeprom-programmer/storage"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("ikeeprom", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(newFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Port)
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, "", cfg.Bus)
	assert.Equal(t, 100*physic.KiloHertz, cfg.Speed)
	assert.Equal(t, uint(0), cfg.Addr)
	assert.Equal(t, "24x64", cfg.Part)
	assert.True(t, cfg.Banner)
	assert.True(t, cfg.CRLF)
	assert.Equal(t, "stdio", cfg.linkName())
}

func TestParseConfigFlags(t *testing.T) {
	cfg, err := parseConfig(newFlagSet(), []string{
		"-port", "/dev/ttyUSB0",
		"-baud", "115200",
		"-bus", "1",
		"-speed", "400kHz",
		"-addr", "3",
		"-part", "24lc256",
		"-banner=false",
		"-crlf=false",
	})
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Port)
	assert.Equal(t, 115200, cfg.Baud)
	assert.Equal(t, "1", cfg.Bus)
	assert.Equal(t, 400*physic.KiloHertz, cfg.Speed)
	assert.Equal(t, uint(3), cfg.Addr)
	assert.Equal(t, "24lc256", cfg.Part)
	assert.False(t, cfg.Banner)
	assert.False(t, cfg.CRLF)
	assert.Equal(t, "/dev/ttyUSB0 at 115200 baud", cfg.linkName())
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"addr", []string{"-addr", "8"}, "-addr must be 0-7"},
		{"baud", []string{"-baud", "0"}, "-baud must be positive"},
		{"part", []string{"-part", "93c46"}, "unknown part"},
		{"image with bus", []string{"-bus", "1", "-image", "x.bin"}, "-image only applies"},
		{"positional", []string{"extra"}, "unexpected argument: extra"},
		{"unknown flag", []string{"-nope"}, "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(newFlagSet(), tt.args)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParseConfigHelp(t *testing.T) {
	_, err := parseConfig(newFlagSet(), []string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Equal(t, 0, exitCode(err))

	_, err = parseConfig(newFlagSet(), []string{"-nosuchflag"})
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	_, err = parseConfig(newFlagSet(), []string{"-addr", "9"})
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestCommandLineKeepsGlogFlags(t *testing.T) {
	fs := commandLine()

	assert.Equal(t, flag.ContinueOnError, fs.ErrorHandling())
	assert.NotNil(t, fs.Lookup("v"), "glog's -v is registered")
	assert.NotNil(t, fs.Lookup("logtostderr"), "glog's -logtostderr is registered")
}

func TestOpenChipSimulated(t *testing.T) {
	image := filepath.Join(t.TempDir(), "dump.bin")
	require.NoError(t, os.WriteFile(image, []byte{0x12, 0x34}, 0o600))

	c, err := openChip(&config{Part: "24c02", Image: image})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "simulated 24x02", c.Name)
	mem, ok := c.Device.(*storage.Memory)
	require.True(t, ok)
	assert.Equal(t, uint32(256), mem.Part().Size)
	v, err := mem.ReadByteAt(1)
	require.NoError(t, err)
	assert.Equal(t, byte(0x34), v)
	require.NotNil(t, c.Selector)
}

func TestOpenChipMissingImage(t *testing.T) {
	_, err := openChip(&config{Part: "24c64", Image: filepath.Join(t.TempDir(), "missing.bin")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInterruptReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no interrupt", "r 10\r", "r 10\r"},
		{"ctrl-c", "r 1\x03r 2", "r 1"},
		{"ctrl-d first", "\x04r 1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(&interruptReader{r: strings.NewReader(tt.input)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRunPipedSession(t *testing.T) {
	// run serves stdio when no port is given; swap the standard streams
	// for pipes.
	inR, inW, err := os.Pipe()
	require.NoError(t, err)
	outR, outW, err := os.Pipe()
	require.NoError(t, err)

	oldStdin, oldStdout := os.Stdin, os.Stdout
	os.Stdin, os.Stdout = inR, outW
	defer func() {
		os.Stdin, os.Stdout = oldStdin, oldStdout
	}()

	_, err = inW.WriteString("w 10 99\r\nr 10\r\n")
	require.NoError(t, err)
	inW.Close()

	cfg, err := parseConfig(newFlagSet(), []string{"-banner=false"})
	require.NoError(t, err)
	require.NoError(t, run(cfg))
	outW.Close()

	var out bytes.Buffer
	_, err = io.Copy(&out, outR)
	require.NoError(t, err)
	assert.Equal(t, "> w 10 99\r\nOk\r\n> r 10\r\ndata = 99\r\n> ", out.String())
}
