//go:build tinygo && !lcdi2c

package main

import (
	"machine"

	"github.com/harveysanders/lcdterm/hd44780"
)

// Wiring of the module. Run the module's logic at 3.3V or level shift D0-D7,
// since the controller drives them during reads.
var (
	pinRS   = machine.GP10
	pinRW   = machine.GP11
	pinE    = machine.GP12
	pinData = [8]machine.Pin{
		machine.GP2, machine.GP3, machine.GP4, machine.GP5,
		machine.GP6, machine.GP7, machine.GP8, machine.GP9,
	}
)

// pinBus implements hd44780.Bus on the Pico's GPIO.
type pinBus struct {
	rs, rw, e machine.Pin
	data      [8]machine.Pin
}

func newBus() (hd44780.Bus, error) {
	b := &pinBus{rs: pinRS, rw: pinRW, e: pinE, data: pinData}
	for _, p := range []machine.Pin{b.rs, b.rw, b.e} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	return b, b.SetDirection(hd44780.Output)
}

func (b *pinBus) SetData(v byte) error {
	for i, p := range b.data {
		p.Set(v&(1<<i) != 0)
	}
	return nil
}

func (b *pinBus) ReadData() (byte, error) {
	var v byte
	for i, p := range b.data {
		if p.Get() {
			v |= 1 << i
		}
	}
	return v, nil
}

func (b *pinBus) SetControl(rs hd44780.RegisterSelect, rw hd44780.ReadWrite) error {
	b.rs.Set(rs == hd44780.RegisterData)
	b.rw.Set(rw == hd44780.Read)
	return nil
}

func (b *pinBus) SetEnable(high bool) error {
	b.e.Set(high)
	return nil
}

func (b *pinBus) SetDirection(d hd44780.Direction) error {
	mode := machine.PinOutput
	if d == hd44780.Input {
		mode = machine.PinInput
	}
	for _, p := range b.data {
		p.Configure(machine.PinConfig{Mode: mode})
	}
	return nil
}
