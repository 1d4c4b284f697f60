package trace

import (
	"fmt"

	"github.com/harveysanders/lcdterm/hd44780"
)

// Transfer is one byte moved across the bus, rebuilt from cycles.
type Transfer struct {
	Seq      uint64
	Register hd44780.RegisterSelect
	Read     bool
	Value    byte
}

func (t Transfer) String() string {
	reg, dir := "instr", "w"
	if t.Register == hd44780.RegisterData {
		reg = "data"
	}
	if t.Read {
		dir = "r"
	}
	return fmt.Sprintf("%6d %s %-5s 0x%02X", t.Seq, dir, reg, t.Value)
}

// Transfers replays cycles of one session the way the controller sees them.
// A write transfer is the data lines at the falling edge of enable; a read
// transfer is the first sample taken while enable is high.
func Transfers(cycles []Cycle) []Transfer {
	var (
		out     []Transfer
		control byte
		enable  bool
		data    byte
		sampled bool
	)
	for _, c := range cycles {
		switch c.Op {
		case OpSetControl:
			control = c.Value
		case OpSetData:
			data = c.Value
		case OpReadData:
			if enable && !sampled && c.Err == "" {
				out = append(out, transfer(c.Seq, control, true, c.Value))
				sampled = true
			}
		case OpSetEnable:
			high := c.Value != 0
			if enable && !high && control&ControlRW == 0 {
				out = append(out, transfer(c.Seq, control, false, data))
			}
			if high && !enable {
				sampled = false
			}
			enable = high
		}
	}
	return out
}

func transfer(seq uint64, control byte, read bool, v byte) Transfer {
	return Transfer{
		Seq:      seq,
		Register: hd44780.RegisterSelect(control&ControlRS != 0),
		Read:     read,
		Value:    v,
	}
}
