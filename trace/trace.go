// Package trace records the pin-level traffic between a driver and its bus.
package trace

import (
	"time"

	"github.com/rs/xid"

	"github.com/harveysanders/lcdterm/hd44780"
)

// Op names a bus operation.
type Op string

// Bus operations.
const (
	OpSetData      Op = "set-data"
	OpReadData     Op = "read-data"
	OpSetControl   Op = "set-control"
	OpSetEnable    Op = "set-enable"
	OpSetDirection Op = "set-direction"
)

// Control byte bits of an OpSetControl cycle.
const (
	ControlRS byte = 1 << 0
	ControlRW byte = 1 << 1
)

// Cycle is one recorded bus operation. Value holds the data byte, the
// control bits, the enable level or the direction, depending on Op.
type Cycle struct {
	Session string
	Seq     uint64
	Op      Op
	Value   byte
	Err     string
	At      time.Time
}

// Writer stores cycles.
type Writer interface {
	Write(c Cycle) error
}

// Bus is an hd44780.Bus that records every call before returning.
type Bus struct {
	bus     hd44780.Bus
	w       Writer
	session string
	seq     uint64
	now     func() time.Time
}

// NewBus wraps bus. Each Bus gets a fresh session ID.
func NewBus(bus hd44780.Bus, w Writer) *Bus {
	return &Bus{
		bus:     bus,
		w:       w,
		session: xid.New().String(),
		now:     time.Now,
	}
}

// Session returns the ID stamped on every cycle.
func (b *Bus) Session() string { return b.session }

func (b *Bus) SetData(v byte) error {
	return b.record(OpSetData, v, b.bus.SetData(v))
}

func (b *Bus) ReadData() (byte, error) {
	v, err := b.bus.ReadData()
	return v, b.record(OpReadData, v, err)
}

func (b *Bus) SetControl(rs hd44780.RegisterSelect, rw hd44780.ReadWrite) error {
	var v byte
	if rs == hd44780.RegisterData {
		v |= ControlRS
	}
	if rw == hd44780.Read {
		v |= ControlRW
	}
	return b.record(OpSetControl, v, b.bus.SetControl(rs, rw))
}

func (b *Bus) SetEnable(high bool) error {
	var v byte
	if high {
		v = 1
	}
	return b.record(OpSetEnable, v, b.bus.SetEnable(high))
}

func (b *Bus) SetDirection(d hd44780.Direction) error {
	return b.record(OpSetDirection, byte(d), b.bus.SetDirection(d))
}

// record stores the cycle and passes busErr through. A failing writer never
// hides a bus error.
func (b *Bus) record(op Op, v byte, busErr error) error {
	b.seq++
	c := Cycle{Session: b.session, Seq: b.seq, Op: op, Value: v, At: b.now()}
	if busErr != nil {
		c.Err = busErr.Error()
	}
	if err := b.w.Write(c); err != nil && busErr == nil {
		return err
	}
	return busErr
}
