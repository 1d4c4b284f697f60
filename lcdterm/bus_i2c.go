//go:build tinygo && lcdi2c

package main

import (
	"machine"

	"github.com/harveysanders/lcdterm/hd44780"
	"github.com/harveysanders/lcdterm/i2cbus"
)

// newBus drives the module through a PCF8575 expander on I2C0.
func newBus() (hd44780.Bus, error) {
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: machine.GP4,
		SCL: machine.GP5,
	})
	if err != nil {
		return nil, err
	}
	return i2cbus.New(machine.I2C0, i2cbus.Config{Backlight: true}), nil
}
