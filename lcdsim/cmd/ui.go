package cmd

import (
	"fmt"
	"strings"

	"github.com/jroimartin/gocui"

	"github.com/harveysanders/lcdterm/input"
	"github.com/harveysanders/lcdterm/simbus"
)

const (
	lcdView    = "lcd"
	statusView = "status"
	helpView   = "help"
)

var helpText = strings.Join([]string{
	"type to write    Enter  next line",
	"Backspace erase  <- ->  move cursor",
	"^C clear  ^H home  ^D shift display",
	"^Q quit",
}, "\n")

// newLayout returns the manager of the three views. editor receives the
// keys typed into the lcd view.
func newLayout(editor gocui.Editor) func(*gocui.Gui) error {
	return func(g *gocui.Gui) error {
		return layout(g, editor)
	}
}

func layout(g *gocui.Gui, editor gocui.Editor) error {
	maxX, _ := g.Size()
	if v, err := g.SetView(lcdView, 0, 0, simbus.Columns+1, simbus.Rows+1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "LCD"
		v.Editable = true
		v.Editor = editor
		if _, err := g.SetCurrentView(lcdView); err != nil {
			return err
		}
	}
	if v, err := g.SetView(statusView, 0, simbus.Rows+2, maxX-1, simbus.Rows+5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
	}
	if v, err := g.SetView(helpView, simbus.Columns+3, 0, maxX-1, simbus.Rows+1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Keys"
		fmt.Fprint(v, helpText)
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

// keyBytes translates a terminal key press into the bytes a serial terminal
// would send for it.
func keyBytes(key gocui.Key, ch rune) []byte {
	switch {
	case ch != 0:
		if ch < 0x20 || ch > 0x7E {
			return nil
		}
		return []byte{byte(ch)}
	case key == gocui.KeySpace:
		return []byte{' '}
	case key == gocui.KeyArrowLeft:
		return []byte{input.KeyEscape, '[', 'D'}
	case key == gocui.KeyArrowRight:
		return []byte{input.KeyEscape, '[', 'C'}
	case key == gocui.KeyBackspace2:
		return []byte{input.KeyBackspace}
	case key < 0x20:
		return []byte{byte(key)}
	}
	return nil
}

// render draws a snapshot of the controller into the lcd view and the
// status line beneath it.
func render(g *gocui.Gui, st simbus.State, status string) error {
	v, err := g.View(lcdView)
	if err == gocui.ErrUnknownView {
		return nil
	}
	if err != nil {
		return err
	}
	v.Clear()
	if st.DisplayOn {
		fmt.Fprint(v, strings.Join(st.Lines[:], "\n"))
	}
	g.Cursor = st.DisplayOn && st.CursorShown && (st.CursorOn || st.BlinkOn)
	if g.Cursor {
		if err := v.SetCursor(st.CursorCol, st.CursorRow); err != nil {
			return err
		}
	}

	sv, err := g.View(statusView)
	if err != nil {
		return nil
	}
	sv.Clear()
	fmt.Fprint(sv, status)
	return nil
}

// statusLine summarises the controller and driver counters.
func statusLine(st simbus.State, timeouts uint32, sent, dropped uint32, lastErr error) string {
	mode := "inc"
	if !st.Increment {
		mode = "dec"
	}
	s := fmt.Sprintf("AC 0x%02X  row %d col %d  entry %s  shift %d\n",
		st.Address, st.CursorRow+1, st.CursorCol+1, mode, st.Shift)
	s += fmt.Sprintf("instructions %d  data writes %d  busy reads %d  timeouts %d  events %d/%d",
		st.Instructions, st.DataWrites, st.BusyReads, timeouts, sent, sent+dropped)
	if lastErr != nil {
		s += "\nerror: " + lastErr.Error()
	}
	return s
}
