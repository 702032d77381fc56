package app

import (
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/ikubaku/eeprom-programmer/eepromcmd"
	"github.com/ikubaku/eeprom-programmer/storage"
)

// Dispatcher executes commands against a storage device and renders the
// response lines.
//
// Storage failures are logged and answered with fixed messages; the bus
// error detail never reaches the wire.
type Dispatcher struct {
	dev storage.Device
	sel storage.Selector
}

// NewDispatcher returns a dispatcher for dev. sel may be nil, in which case
// SetDevice is acknowledged without effect.
func NewDispatcher(dev storage.Device, sel storage.Selector) *Dispatcher {
	return &Dispatcher{dev: dev, sel: sel}
}

// Device returns the active storage device.
func (d *Dispatcher) Device() storage.Device {
	return d.dev
}

// Dispatch performs cmd and returns its response.
func (d *Dispatcher) Dispatch(cmd eepromcmd.Command) eepromcmd.Response {
	switch cmd.Type {
	case eepromcmd.CmdReadByte:
		v, err := d.dev.ReadByteAt(cmd.Address)
		if err != nil {
			glog.Warningf("%s: %v", cmd, err)
			return eepromcmd.NewErrorResponse(eepromcmd.MsgReadFailed)
		}
		return eepromcmd.NewOKResponse(fmt.Sprintf("data = %d", v))

	case eepromcmd.CmdWriteByte:
		if err := d.dev.WriteByteAt(cmd.Address, cmd.Value()); err != nil {
			glog.Warningf("%s: %v", cmd, err)
			return eepromcmd.NewErrorResponse(eepromcmd.MsgWriteFailed)
		}
		return eepromcmd.NewOKResponse(eepromcmd.MsgOK)

	case eepromcmd.CmdReadData:
		if cmd.Length <= 0 || cmd.Length > eepromcmd.MaxDataLength {
			glog.Warningf("%s: length out of range", cmd)
			return eepromcmd.NewErrorResponse(eepromcmd.MsgReadFailed)
		}
		buf := make([]byte, cmd.Length)
		if err := d.dev.ReadData(cmd.Address, buf); err != nil {
			glog.Warningf("%s: %v", cmd, err)
			return eepromcmd.NewErrorResponse(eepromcmd.MsgReadFailed)
		}
		return eepromcmd.NewOKResponse(hexRows(cmd.Address, buf)...)

	case eepromcmd.CmdWritePage:
		if err := d.dev.WritePage(cmd.Address, cmd.Data); err != nil {
			glog.Warningf("%s: %v", cmd, err)
			return eepromcmd.NewErrorResponse(eepromcmd.MsgWriteFailed)
		}
		return eepromcmd.NewOKResponse(eepromcmd.MsgOK)

	case eepromcmd.CmdSetDevice:
		if d.sel == nil {
			return eepromcmd.NewOKResponse("SetDevice")
		}
		dev, err := d.sel.Select(cmd.Device)
		if err != nil {
			glog.Warningf("%s: %v", cmd, err)
			return eepromcmd.NewErrorResponse(eepromcmd.MsgUnknownDevice)
		}
		glog.Infof("device set to %s", cmd.Device)
		d.dev = dev
		return eepromcmd.NewOKResponse(eepromcmd.MsgOK)
	}

	return eepromcmd.NewErrorResponse(eepromcmd.MsgParseFailed)
}

// hexRows renders data as "AAAA: BB BB ..." rows of DataRowLength bytes.
func hexRows(address uint32, data []byte) []string {
	rows := make([]string, 0, (len(data)+eepromcmd.DataRowLength-1)/eepromcmd.DataRowLength)
	var sb strings.Builder
	for off := 0; off < len(data); off += eepromcmd.DataRowLength {
		end := min(off+eepromcmd.DataRowLength, len(data))
		sb.Reset()
		fmt.Fprintf(&sb, "%04X:", address+uint32(off))
		for _, b := range data[off:end] {
			fmt.Fprintf(&sb, " %02X", b)
		}
		rows = append(rows, sb.String())
	}
	return rows
}
