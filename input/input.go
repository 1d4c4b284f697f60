// Package input turns a terminal byte stream into display editing calls.
package input

import (
	"errors"
	"io"
	"log/slog"
)

// Key codes recognised by the Dispatcher.
const (
	KeyClear        byte = 0x03 // ctrl-c
	KeyDisplayShift byte = 0x04 // ctrl-d
	KeyHome         byte = 0x08 // ctrl-h
	KeyNewline      byte = '\n'
	KeyEnter        byte = '\r'
	KeyEscape       byte = 0x1B
	KeyBackspace    byte = 0x7F

	csiIntroducer byte = '['
	arrowRight    byte = 'C'
	arrowLeft     byte = 'D'
)

// Editor performs cursor-aware edits. *navigator.Navigator implements it.
type Editor interface {
	Put(b byte) error
	Backspace() error
	Enter() error
	Left() error
	Right() error
}

// Display performs whole-display instructions. *hd44780.Device implements it.
type Display interface {
	ReturnHome() error
	ClearDisplay() error
	ShiftDisplayRight() error
}

type state uint8

const (
	ground state = iota
	escape
	csi
)

// Dispatcher decodes key bytes one at a time. It is not safe for concurrent
// use.
type Dispatcher struct {
	editor  Editor
	display Display
	log     *slog.Logger
	state   state
}

// New returns a Dispatcher. A nil logger discards.
func New(editor Editor, display Display, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	return &Dispatcher{editor: editor, display: display, log: logger}
}

// Feed consumes one byte. Escape sequences span several calls; a sequence
// other than ESC [ C or ESC [ D is dropped along with the bytes read so far.
func (d *Dispatcher) Feed(b byte) error {
	switch d.state {
	case escape:
		d.state = ground
		if b == csiIntroducer {
			d.state = csi
			return nil
		}
		d.log.Debug("input:drop-escape", slog.Int("byte", int(b)))
		return nil
	case csi:
		d.state = ground
		switch b {
		case arrowRight:
			return d.editor.Right()
		case arrowLeft:
			return d.editor.Left()
		}
		d.log.Debug("input:drop-csi", slog.Int("byte", int(b)))
		return nil
	}

	switch b {
	case KeyEscape:
		d.state = escape
		return nil
	case KeyBackspace:
		return d.editor.Backspace()
	case KeyEnter, KeyNewline:
		return d.editor.Enter()
	case KeyHome:
		return d.display.ReturnHome()
	case KeyClear:
		return d.display.ClearDisplay()
	case KeyDisplayShift:
		return d.display.ShiftDisplayRight()
	}
	if b < 0x20 {
		d.log.Debug("input:ignore", slog.Int("byte", int(b)))
		return nil
	}
	return d.editor.Put(b)
}

// Run feeds bytes from r until it is exhausted or a key fails. io.EOF ends
// the loop without error.
func (d *Dispatcher) Run(r io.ByteReader) error {
	for {
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := d.Feed(b); err != nil {
			d.log.Error("input:key", slog.Int("byte", int(b)), slog.String("err", err.Error()))
			return err
		}
	}
}
