package simbus

// rowBanks gives, per visible row, the DDRAM bank and the offset of the
// row's first column inside that bank.
var rowBanks = [Rows]struct{ base, offset byte }{
	{0x00, 0},
	{0x40, 0},
	{0x00, Columns},
	{0x40, Columns},
}

// State is a snapshot of the controller.
type State struct {
	Lines        [Rows]string `json:"lines"`
	Address      byte         `json:"address"`
	CGRAM        bool         `json:"cgram"`
	CursorRow    int          `json:"cursorRow"`
	CursorCol    int          `json:"cursorCol"`
	CursorShown  bool         `json:"cursorShown"`
	DisplayOn    bool         `json:"displayOn"`
	CursorOn     bool         `json:"cursorOn"`
	BlinkOn      bool         `json:"blinkOn"`
	Increment    bool         `json:"increment"`
	ShiftOnWrite bool         `json:"shiftOnWrite"`
	TwoLine      bool         `json:"twoLine"`
	EightBit     bool         `json:"eightBit"`
	Font5x10     bool         `json:"font5x10"`
	Shift        int          `json:"shift"`
	BusyReads    int          `json:"busyReads"`
	DataWrites   int          `json:"dataWrites"`
	Instructions int          `json:"instructions"`
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	row, col, shown := c.cursor()
	return State{
		Lines:        c.lines(),
		Address:      c.ac,
		CGRAM:        c.cgramSel,
		CursorRow:    row,
		CursorCol:    col,
		CursorShown:  shown,
		DisplayOn:    c.displayOn,
		CursorOn:     c.cursorOn,
		BlinkOn:      c.blinkOn,
		Increment:    c.increment,
		ShiftOnWrite: c.shiftOnWrite,
		TwoLine:      c.twoLine,
		EightBit:     c.eightBit,
		Font5x10:     c.font5x10,
		Shift:        c.shift,
		BusyReads:    c.busyReads,
		DataWrites:   c.dataWrites,
		Instructions: len(c.history),
	}
}

// Lines returns the visible text of the four rows, honouring the display
// shift. Character codes outside printable ASCII are shown as '?'.
func (c *Controller) Lines() [Rows]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lines()
}

// Address returns the address counter.
func (c *Controller) Address() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ac
}

// DDRAM returns the byte stored at addr.
func (c *Controller) DDRAM(addr byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ddram[addr&0x7F]
}

// CGRAM returns the byte stored at addr.
func (c *Controller) CGRAM(addr byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cgram[addr&0x3F]
}

// Instructions returns every instruction byte latched so far.
func (c *Controller) Instructions() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.history...)
}

// BusyReads returns the number of busy-flag reads served.
func (c *Controller) BusyReads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busyReads
}

func (c *Controller) lines() [Rows]string {
	var out [Rows]string
	for r, bank := range rowBanks {
		buf := make([]byte, Columns)
		for col := range buf {
			i := mod(int(bank.offset)+col-c.shift, lineLength)
			ch := c.ddram[int(bank.base)+i]
			if ch < 0x20 || ch > 0x7E {
				ch = '?'
			}
			buf[col] = ch
		}
		out[r] = string(buf)
	}
	return out
}

// cursor maps the address counter to a visible row and column.
func (c *Controller) cursor() (row, col int, shown bool) {
	if c.cgramSel {
		return 0, 0, false
	}
	for r, bank := range rowBanks {
		i := int(c.ac) - int(bank.base)
		if i < 0 || i >= lineLength {
			continue
		}
		col := mod(i-int(bank.offset)+c.shift, lineLength)
		if col < Columns {
			return r, col, true
		}
	}
	return 0, 0, false
}

func mod(a, m int) int {
	a %= m
	if a < 0 {
		a += m
	}
	return a
}

// Cursor returns the visible row and column of the address counter. ok is
// false when the counter points outside the visible window or into CGRAM.
func (c *Controller) Cursor() (row, col int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor()
}
