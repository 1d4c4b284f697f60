// Package hd44780 drives an HD44780-class character LCD controller wired to
// an 8-bit parallel bus with register-select, read/write and enable lines.
//
// The driver never caches controller state. Every address or busy query is
// a bus read cycle, and every instruction is preceded by a bounded busy-flag
// poll.
//
// Datasheet: https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

// RegisterSelect is the level of the RS control line.
type RegisterSelect bool

const (
	// RegisterInstruction (RS low) addresses the instruction register on
	// writes and the busy flag / address counter on reads.
	RegisterInstruction RegisterSelect = false
	// RegisterData (RS high) addresses DDRAM or CGRAM, whichever was
	// selected by the most recent set-address instruction.
	RegisterData RegisterSelect = true
)

// ReadWrite is the level of the R/W control line.
type ReadWrite bool

const (
	Write ReadWrite = false
	Read  ReadWrite = true
)

// Direction of the eight data lines as seen from the host.
type Direction uint8

const (
	Output Direction = iota
	Input
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// Bus is the electrical transport to the controller. Implementations perform
// the pin operations only; timing and sequencing belong to Device.
//
// A Device always brackets reads with SetDirection(Input) and
// SetDirection(Output), so implementations may assume the data lines are
// outputs whenever SetData is called.
type Bus interface {
	// SetData drives D0-D7 with b.
	SetData(b byte) error
	// ReadData samples D0-D7.
	ReadData() (byte, error)
	// SetControl drives the RS and R/W lines.
	SetControl(rs RegisterSelect, rw ReadWrite) error
	// SetEnable drives the E line. Writes latch on the falling edge.
	SetEnable(high bool) error
	// SetDirection switches D0-D7 between output and input.
	SetDirection(d Direction) error
}
