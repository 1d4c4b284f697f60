// Package gpiobus drives an HD44780 over eleven periph.io GPIO lines: eight
// data lines plus register select, read/write and enable.
package gpiobus

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/harveysanders/lcdterm/hd44780"
)

// Pins names the lines the module is wired to. Data[0] is D0.
type Pins struct {
	RS   gpio.PinOut
	RW   gpio.PinOut
	E    gpio.PinOut
	Data [8]gpio.PinIO
}

// Bus implements hd44780.Bus on GPIO pins.
type Bus struct {
	pins Pins
}

// New returns a Bus over p. Every pin must be set.
func New(p Pins) (*Bus, error) {
	if p.RS == nil || p.RW == nil || p.E == nil {
		return nil, errors.New("gpiobus: RS, RW and E pins are required")
	}
	for i, d := range p.Data {
		if d == nil {
			return nil, fmt.Errorf("gpiobus: data pin D%d is required", i)
		}
	}
	return &Bus{pins: p}, nil
}

// SetData drives b onto D0-D7.
func (b *Bus) SetData(v byte) error {
	for i, p := range b.pins.Data {
		if err := p.Out(gpio.Level(v&(1<<i) != 0)); err != nil {
			return fmt.Errorf("gpiobus: D%d: %w", i, err)
		}
	}
	return nil
}

// ReadData samples D0-D7.
func (b *Bus) ReadData() (byte, error) {
	var v byte
	for i, p := range b.pins.Data {
		if p.Read() == gpio.High {
			v |= 1 << i
		}
	}
	return v, nil
}

// SetControl drives RS and RW.
func (b *Bus) SetControl(rs hd44780.RegisterSelect, rw hd44780.ReadWrite) error {
	if err := b.pins.RS.Out(gpio.Level(rs)); err != nil {
		return fmt.Errorf("gpiobus: RS: %w", err)
	}
	if err := b.pins.RW.Out(gpio.Level(rw)); err != nil {
		return fmt.Errorf("gpiobus: RW: %w", err)
	}
	return nil
}

// SetEnable drives E.
func (b *Bus) SetEnable(high bool) error {
	if err := b.pins.E.Out(gpio.Level(high)); err != nil {
		return fmt.Errorf("gpiobus: E: %w", err)
	}
	return nil
}

// SetDirection switches D0-D7 between output and floating input. Switching
// to output drives the lines low.
func (b *Bus) SetDirection(d hd44780.Direction) error {
	for i, p := range b.pins.Data {
		var err error
		if d == hd44780.Input {
			err = p.In(gpio.Float, gpio.NoEdge)
		} else {
			err = p.Out(gpio.Low)
		}
		if err != nil {
			return fmt.Errorf("gpiobus: D%d %s: %w", i, d, err)
		}
	}
	return nil
}
