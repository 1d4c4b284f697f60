// Package navigator moves the HD44780 address counter in display order on a
// 20x4 module. The controller lays the four visible lines out as
// 0x00, 0x40, 0x14, 0x54, so the counter's own increment and decrement jump
// between lines in the wrong order; the remap tables here correct that.
package navigator

// Line is one visible display line and the DDRAM range behind it.
type Line struct {
	ID    int
	Begin byte
	End   byte
}

// Contains reports whether addr lies on l.
func (l Line) Contains(addr byte) bool { return addr >= l.Begin && addr <= l.End }

// Lines in display order.
var (
	Line1 = Line{ID: 1, Begin: 0x00, End: 0x13}
	Line2 = Line{ID: 2, Begin: 0x40, End: 0x53}
	Line3 = Line{ID: 3, Begin: 0x14, End: 0x27}
	Line4 = Line{ID: 4, Begin: 0x54, End: 0x67}

	Lines = [4]Line{Line1, Line2, Line3, Line4}
)

// The remap tables are spelled out per line. The DDRAM layout is not affine,
// so none of them can be computed from addr+1.
var (
	// next maps the last cell of a line to the first cell of the next one.
	next = map[byte]byte{
		Line1.End: Line2.Begin,
		Line2.End: Line3.Begin,
		Line3.End: Line4.Begin,
		Line4.End: Line1.Begin,
	}
	// previous is the inverse of next.
	previous = map[byte]byte{
		Line2.Begin: Line1.End,
		Line3.Begin: Line2.End,
		Line4.Begin: Line3.End,
		Line1.Begin: Line4.End,
	}
	// newline maps a line to the first cell of the line below it.
	newline = map[int]byte{
		Line1.ID: Line2.Begin,
		Line2.ID: Line3.Begin,
		Line3.ID: Line4.Begin,
		Line4.ID: Line1.Begin,
	}
	// afterWrite maps where auto-increment lands after writing the last cell
	// of a line to where the cursor belongs instead.
	afterWrite = map[byte]byte{
		Line3.Begin: Line2.Begin,
		Line2.Begin: Line4.Begin,
		Line4.Begin: Line3.Begin,
	}
)

// LineOf returns the line holding addr.
func LineOf(addr byte) (Line, bool) {
	for _, l := range Lines {
		if l.Contains(addr) {
			return l, true
		}
	}
	return Line{}, false
}

// NextAddress returns the address after cur in display order. ok is false
// when the controller's auto-increment already gets there.
func NextAddress(cur byte) (target byte, ok bool) {
	target, ok = next[cur]
	return target, ok
}

// PreviousAddress returns the address before cur in display order. ok is
// false when the controller's auto-decrement already gets there.
func PreviousAddress(cur byte) (target byte, ok bool) {
	target, ok = previous[cur]
	return target, ok
}

// NewlineAddress returns the first address of the line below cur, wrapping
// from Line4 to Line1. ok is false when cur is on no line.
func NewlineAddress(cur byte) (target byte, ok bool) {
	l, ok := LineOf(cur)
	if !ok {
		return 0, false
	}
	return newline[l.ID], true
}

// CorrectedAddress returns where the cursor belongs after a data write left
// the address counter at cur. ok is false when no correction is needed.
func CorrectedAddress(cur byte) (target byte, ok bool) {
	target, ok = afterWrite[cur]
	return target, ok
}
