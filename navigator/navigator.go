package navigator

import (
	"errors"
	"io"
	"log/slog"

	"github.com/harveysanders/lcdterm/hd44780"
)

// Controller is the subset of *hd44780.Device the navigator drives.
type Controller interface {
	EntryModeSet(settings byte) error
	ReadAddress() (byte, error)
	SetDDRAMAddress(addr byte) error
	ShiftCursorLeft() error
	ShiftCursorRight() error
	WriteData(b byte) error
}

// Navigator types onto the display and moves the cursor in display order.
type Navigator struct {
	ctl Controller
	log *slog.Logger
}

// New returns a Navigator driving ctl. A nil logger discards.
func New(ctl Controller, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	return &Navigator{ctl: ctl, log: logger}
}

// Put writes b at the cursor and, if the write carried the address counter
// onto the wrong line, moves it to the next cell in display order.
func (n *Navigator) Put(b byte) error {
	if err := n.ctl.WriteData(b); err != nil {
		return err
	}
	addr, err := n.ctl.ReadAddress()
	if err != nil {
		return err
	}
	if target, ok := CorrectedAddress(addr); ok {
		n.log.Debug("navigator:remap", slog.String("after", "write"),
			slog.Int("from", int(addr)), slog.Int("to", int(target)))
		return n.ctl.SetDDRAMAddress(target)
	}
	return nil
}

// Backspace blanks the cell before the cursor and leaves the cursor on it.
// The entry mode is back to Increment on return, also after a failure.
func (n *Navigator) Backspace() (err error) {
	if err := n.ctl.EntryModeSet(hd44780.Decrement); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, n.ctl.EntryModeSet(hd44780.Increment))
	}()

	if err := n.moveBack(); err != nil {
		return err
	}
	if err := n.ctl.WriteData(' '); err != nil {
		return err
	}
	return n.ctl.ShiftCursorRight()
}

// Enter moves the cursor to the start of the line below, wrapping from the
// last line to the first. An address on no line is left alone.
func (n *Navigator) Enter() error {
	addr, err := n.ctl.ReadAddress()
	if err != nil {
		return err
	}
	target, ok := NewlineAddress(addr)
	if !ok {
		n.log.Debug("navigator:enter-off-screen", slog.Int("addr", int(addr)))
		return nil
	}
	return n.ctl.SetDDRAMAddress(target)
}

// Left moves the cursor one cell back in display order.
func (n *Navigator) Left() error { return n.moveBack() }

// Right moves the cursor one cell forward in display order.
func (n *Navigator) Right() error {
	addr, err := n.ctl.ReadAddress()
	if err != nil {
		return err
	}
	if target, ok := NextAddress(addr); ok {
		return n.ctl.SetDDRAMAddress(target)
	}
	return n.ctl.ShiftCursorRight()
}

// Write types p. A '\n' acts as Enter, every other byte goes through Put.
// It implements io.Writer.
func (n *Navigator) Write(p []byte) (int, error) {
	for i, b := range p {
		var err error
		if b == '\n' {
			err = n.Enter()
		} else {
			err = n.Put(b)
		}
		if err != nil {
			return i, err
		}
	}
	return len(p), nil
}

func (n *Navigator) moveBack() error {
	addr, err := n.ctl.ReadAddress()
	if err != nil {
		return err
	}
	if target, ok := PreviousAddress(addr); ok {
		return n.ctl.SetDDRAMAddress(target)
	}
	return n.ctl.ShiftCursorLeft()
}
