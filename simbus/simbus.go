// Package simbus models an HD44780 controller at the pin level so the driver
// can run without hardware. Writes latch on the falling edge of enable, reads
// present data while enable is high, and the address counter follows the
// controller's 1-line and 2-line DDRAM layouts.
package simbus

import (
	"errors"
	"sync"

	"github.com/harveysanders/lcdterm/hd44780"
)

// Geometry of the 20x4 module the controller is wired to.
const (
	Columns = 20
	Rows    = 4

	lineLength = 40
)

var (
	// ErrDrivenInput is returned when the host drives the data lines while
	// they are configured as inputs.
	ErrDrivenInput = errors.New("simbus: data lines driven while configured as input")
	// ErrSampledOutput is returned when the host samples the data lines while
	// they are configured as outputs.
	ErrSampledOutput = errors.New("simbus: data lines sampled while configured as output")
)

// Controller is a simulated HD44780 and implements hd44780.Bus. It is safe
// for concurrent use.
type Controller struct {
	mu sync.Mutex

	busyFor    int
	stuckBusy  bool
	busyReads  int
	history    []byte
	dataWrites int

	// pins
	rs     hd44780.RegisterSelect
	rw     hd44780.ReadWrite
	enable bool
	dir    hd44780.Direction
	driven byte
	output byte

	// controller state
	ddram        [0x80]byte
	cgram        [0x40]byte
	ac           byte
	cgramSel     bool
	increment    bool
	shiftOnWrite bool
	displayOn    bool
	cursorOn     bool
	blinkOn      bool
	eightBit     bool
	twoLine      bool
	font5x10     bool
	shift        int
	busy         int
}

// New returns a controller in its power-on reset state: 8-bit interface,
// one line, display off, increment mode, DDRAM blank.
func New() *Controller {
	c := &Controller{increment: true, eightBit: true}
	for i := range c.ddram {
		c.ddram[i] = ' '
	}
	return c
}

// SetBusyReads makes the busy flag read set n times after every executed
// instruction or data write.
func (c *Controller) SetBusyReads(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busyFor = n
}

// SetStuckBusy forces the busy flag to read set until cleared.
func (c *Controller) SetStuckBusy(stuck bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stuckBusy = stuck
}

// SetData implements hd44780.Bus.
func (c *Controller) SetData(b byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dir == hd44780.Input {
		return ErrDrivenInput
	}
	c.driven = b
	return nil
}

// ReadData implements hd44780.Bus.
func (c *Controller) ReadData() (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dir != hd44780.Input {
		return 0, ErrSampledOutput
	}
	return c.output, nil
}

// SetControl implements hd44780.Bus.
func (c *Controller) SetControl(rs hd44780.RegisterSelect, rw hd44780.ReadWrite) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rs, c.rw = rs, rw
	return nil
}

// SetDirection implements hd44780.Bus.
func (c *Controller) SetDirection(d hd44780.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dir = d
	return nil
}

// SetEnable implements hd44780.Bus.
func (c *Controller) SetEnable(high bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case high && !c.enable && c.rw == hd44780.Read:
		c.output = c.present()
	case !high && c.enable && c.rw == hd44780.Write:
		c.latch(c.driven)
	}
	c.enable = high
	return nil
}

// present returns what the controller drives onto the data lines for a read.
func (c *Controller) present() byte {
	if c.rs == hd44780.RegisterInstruction {
		c.busyReads++
		v := c.ac & hd44780.AddressMask
		if c.stuckBusy || c.busy > 0 {
			v |= hd44780.BusyMask
		}
		if c.busy > 0 {
			c.busy--
		}
		return v
	}
	var v byte
	if c.cgramSel {
		v = c.cgram[c.ac&0x3F]
	} else {
		v = c.ddram[c.ac&0x7F]
	}
	c.ac = c.step(c.ac, c.increment)
	return v
}

func (c *Controller) latch(b byte) {
	defer func() { c.busy = c.busyFor }()
	if c.rs == hd44780.RegisterData {
		c.dataWrites++
		if c.cgramSel {
			c.cgram[c.ac&0x3F] = b
		} else {
			c.ddram[c.ac&0x7F] = b
		}
		c.ac = c.step(c.ac, c.increment)
		if c.shiftOnWrite {
			if c.increment {
				c.shift--
			} else {
				c.shift++
			}
		}
		return
	}
	c.history = append(c.history, b)
	c.execute(b)
}

func (c *Controller) execute(b byte) {
	switch {
	case b&0x80 != 0:
		c.ac = b & 0x7F
		c.cgramSel = false
	case b&0x40 != 0:
		c.ac = b & 0x3F
		c.cgramSel = true
	case b&0x20 != 0:
		c.eightBit = b&hd44780.DataLength8Bits != 0
		c.twoLine = b&hd44780.TwoLines != 0
		c.font5x10 = b&hd44780.Font5x10 != 0
	case b&0x10 != 0:
		right := b&hd44780.RightShift != 0
		if b&hd44780.DisplayShift != 0 {
			if right {
				c.shift++
			} else {
				c.shift--
			}
		} else {
			c.ac = c.step(c.ac, right)
		}
	case b&0x08 != 0:
		c.displayOn = b&hd44780.DisplayOn != 0
		c.cursorOn = b&hd44780.CursorOn != 0
		c.blinkOn = b&hd44780.BlinkingOn != 0
	case b&0x04 != 0:
		c.increment = b&hd44780.Increment != 0
		c.shiftOnWrite = b&hd44780.DisplayShiftData != 0
	case b&0x02 != 0:
		c.ac = 0
		c.shift = 0
		c.cgramSel = false
	case b&0x01 != 0:
		for i := range c.ddram {
			c.ddram[i] = ' '
		}
		c.ac = 0
		c.shift = 0
		c.cgramSel = false
		c.increment = true
	}
}

// step moves an address one position the way the controller's address
// counter does. In 2-line mode DDRAM is two 40-byte banks at 0x00 and 0x40.
func (c *Controller) step(ac byte, up bool) byte {
	if c.cgramSel {
		if up {
			return (ac + 1) & 0x3F
		}
		return (ac - 1) & 0x3F
	}
	if c.twoLine {
		switch {
		case up && ac == 0x27:
			return 0x40
		case up && ac == 0x67:
			return 0x00
		case !up && ac == 0x40:
			return 0x27
		case !up && ac == 0x00:
			return 0x67
		}
	} else {
		switch {
		case up && ac == 0x4F:
			return 0x00
		case !up && ac == 0x00:
			return 0x4F
		}
	}
	if up {
		return (ac + 1) & 0x7F
	}
	return (ac - 1) & 0x7F
}
