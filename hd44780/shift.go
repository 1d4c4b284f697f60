package hd44780

import "fmt"

// ShiftCursorRight moves the cursor one position right.
func (d *Device) ShiftCursorRight() error { return d.CursorDisplayShift(CursorShift | RightShift) }

// ShiftCursorLeft moves the cursor one position left.
func (d *Device) ShiftCursorLeft() error { return d.CursorDisplayShift(CursorShift | LeftShift) }

// ShiftDisplayRight shifts every display line one position right.
func (d *Device) ShiftDisplayRight() error { return d.CursorDisplayShift(DisplayShift | RightShift) }

// ShiftDisplayLeft shifts every display line one position left.
func (d *Device) ShiftDisplayLeft() error { return d.CursorDisplayShift(DisplayShift | LeftShift) }

// CreateCharacter stores a 5x8 glyph in CGRAM slot 0-7. Character codes 0-7
// (and 8-15) then display it. Only the low five bits of each row are used.
//
// DDRAM must be selected when CreateCharacter is called; the DDRAM address
// is restored afterwards.
func (d *Device) CreateCharacter(slot byte, rows [8]byte) error {
	if slot > 7 {
		return fmt.Errorf("hd44780: CGRAM slot %d out of range 0-7: %w", slot, ErrInvalidSetting)
	}
	addr, err := d.ReadAddress()
	if err != nil {
		return err
	}
	if err := d.SetCGRAMAddress(slot << 3); err != nil {
		return err
	}
	for _, row := range rows {
		if err := d.WriteData(row & 0x1F); err != nil {
			return err
		}
	}
	return d.SetDDRAMAddress(addr)
}
