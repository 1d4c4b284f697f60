// Package i2cbus drives an HD44780 through a PCF8575 16-bit I2C port
// expander. Port 0 carries D0-D7; port 1 carries the control lines.
//
// The PCF8575 has quasi-bidirectional pins: a pin written high is only
// weakly pulled up, so the controller can drive it low during a read. Input
// direction is therefore "all data pins written high".
package i2cbus

import (
	"fmt"

	"tinygo.org/x/drivers"

	"github.com/harveysanders/lcdterm/hd44780"
)

// DefaultAddress is the PCF8575 address with A0-A2 tied low.
const DefaultAddress uint16 = 0x20

// Port 1 bit assignments.
const (
	BitRS        byte = 1 << 0
	BitRW        byte = 1 << 1
	BitE         byte = 1 << 2
	BitBacklight byte = 1 << 3
)

// Config configures a Bus.
type Config struct {
	// Address overrides DefaultAddress when non-zero.
	Address uint16
	// Backlight keeps the backlight bit high.
	Backlight bool
}

// Bus implements hd44780.Bus over a PCF8575. Every pin change is one I2C
// write of both ports.
type Bus struct {
	i2c     drivers.I2C
	addr    uint16
	data    byte
	control byte
	dir     hd44780.Direction
	buf     [2]byte
}

// New returns a Bus on i2c. It does not touch the expander until the first
// call.
func New(i2c drivers.I2C, cfg Config) *Bus {
	b := &Bus{i2c: i2c, addr: cfg.Address}
	if b.addr == 0 {
		b.addr = DefaultAddress
	}
	if cfg.Backlight {
		b.control |= BitBacklight
	}
	return b
}

// SetData drives b onto D0-D7.
func (b *Bus) SetData(v byte) error {
	b.data = v
	return b.flush("set data")
}

// ReadData reads port 0.
func (b *Bus) ReadData() (byte, error) {
	if err := b.i2c.Tx(b.addr, nil, b.buf[:]); err != nil {
		return 0, fmt.Errorf("i2cbus: read data: %w", err)
	}
	return b.buf[0], nil
}

// SetControl drives RS and RW.
func (b *Bus) SetControl(rs hd44780.RegisterSelect, rw hd44780.ReadWrite) error {
	b.control = setBit(b.control, BitRS, bool(rs))
	b.control = setBit(b.control, BitRW, bool(rw))
	return b.flush("set control")
}

// SetEnable drives E.
func (b *Bus) SetEnable(high bool) error {
	b.control = setBit(b.control, BitE, high)
	return b.flush("set enable")
}

// SetDirection releases D0-D7 for input or hands them back to the last
// value driven.
func (b *Bus) SetDirection(d hd44780.Direction) error {
	b.dir = d
	return b.flush("set direction")
}

func (b *Bus) flush(op string) error {
	b.buf[0] = b.data
	if b.dir == hd44780.Input {
		b.buf[0] = 0xFF
	}
	b.buf[1] = b.control
	if err := b.i2c.Tx(b.addr, b.buf[:], nil); err != nil {
		return fmt.Errorf("i2cbus: %s: %w", op, err)
	}
	return nil
}

func setBit(v, bit byte, on bool) byte {
	if on {
		return v | bit
	}
	return v &^ bit
}
