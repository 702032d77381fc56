// Package eepromcmd provides the command grammar and the text protocol
// spoken by the ikeeprom EEPROM programmer over its serial link.
//
// # Protocol Overview
//
// The protocol is a single interactive session over a point-to-point serial
// transport. The device prints a prompt, echoes every accepted input byte,
// and answers each completed line with one or more response lines:
//
//	Prompt:          "> " (no newline)
//	Request:         <command> [arguments...]\n
//	Response line:   <text>\r\n
//	Parse failure:   An error occured!\r\n
//
// Example session:
//
//	> w 10 99
//	Ok
//	> r 10
//	data = 99
//	> rd 0 4
//	0000: 00 00 00 00 00 00 00 00 00 00 63 00 00 00 00 00
//	> dev 24x256
//	Ok
//
// # Command Grammar
//
// Command words are case-insensitive. Numbers are decimal unless prefixed
// with "0x" or "$", which select hexadecimal. Page payload bytes are always
// hexadecimal and may be separated by spaces or commas.
//
//	r  <addr>            read one byte            (alias: read)
//	w  <addr> <data>     write one byte           (alias: write)
//	rd <addr> <len>      read a block of bytes    (alias: dump)
//	wp <addr> <b>[,<b>]  write bytes within a page (alias: page)
//	dev <part>           select the chip part     (alias: device)
//
// # Parsing Commands
//
//	parser := eepromcmd.NewParser()
//	cmd, err := parser.Parse("w $0A 99")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Host Client
//
// Client drives a device from a host over any io.ReadWriteCloser, usually a
// serial port returned by hal.OpenSerial:
//
//	client := eepromcmd.NewClient()
//	if err := client.Connect(port); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Disconnect()
//
//	resp, err := client.Send(eepromcmd.NewReadByteCommand(10))
//	if err == nil && resp.IsOK() {
//	    fmt.Println(resp.Data())
//	}
//
// # Thread Safety
//
// Parser is stateless. Client serialises Send calls internally and is safe
// for concurrent use from multiple goroutines.
package eepromcmd
