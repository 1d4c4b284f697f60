package hd44780

import "errors"

// Opcode is the flag bit of a data-port instruction. Settings for an
// instruction occupy the bit positions below its opcode.
type Opcode byte

const (
	ClearDisplay       Opcode = 0x01
	ReturnHome         Opcode = 0x02
	EntryModeSet       Opcode = 0x04
	DisplayControl     Opcode = 0x08
	CursorDisplayShift Opcode = 0x10
	FunctionSet        Opcode = 0x20
	SetCGRAMAddress    Opcode = 0x40
	SetDDRAMAddress    Opcode = 0x80
)

// EntryModeSet settings.
const (
	Increment        byte = 0x02
	Decrement        byte = 0x00
	DisplayShiftData byte = 0x01
)

// DisplayControl settings.
const (
	DisplayOn   byte = 0x04
	DisplayOff  byte = 0x00
	CursorOn    byte = 0x02
	CursorOff   byte = 0x00
	BlinkingOn  byte = 0x01
	BlinkingOff byte = 0x00
)

// CursorDisplayShift settings.
const (
	DisplayShift byte = 0x08
	CursorShift  byte = 0x00
	RightShift   byte = 0x04
	LeftShift    byte = 0x00
)

// FunctionSet settings.
const (
	DataLength8Bits byte = 0x10
	DataLength4Bits byte = 0x00
	TwoLines        byte = 0x08
	OneLine         byte = 0x00
	Font5x10        byte = 0x04
	Font5x8         byte = 0x00
)

// Masks for the byte returned by the busy flag / address counter read.
const (
	BusyMask    byte = 0x80
	AddressMask byte = 0x7F
)

// ErrInvalidSetting is returned when the setting bits of an instruction
// reach or exceed the instruction's own flag bit.
var ErrInvalidSetting = errors.New("hd44780: invalid instruction setting")

var opcodeNames = map[Opcode]string{
	ClearDisplay:       "clear display",
	ReturnHome:         "return home",
	EntryModeSet:       "entry mode set",
	DisplayControl:     "display control",
	CursorDisplayShift: "cursor/display shift",
	FunctionSet:        "function set",
	SetCGRAMAddress:    "set CGRAM address",
	SetDDRAMAddress:    "set DDRAM address",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "unknown instruction"
}

// Encode combines an opcode with its setting bits into the byte sent on the
// data lines. ClearDisplay and ReturnHome take no settings and never fail
// when settings is zero.
func Encode(op Opcode, settings byte) (byte, error) {
	if settings >= byte(op) {
		return 0, &InstructionError{Op: op, Settings: settings}
	}
	return byte(op) | settings, nil
}

// InstructionError reports a rejected setting combination.
type InstructionError struct {
	Op       Opcode
	Settings byte
}

func (e *InstructionError) Error() string {
	return "hd44780: " + e.Op.String() + ": setting 0x" + hexByte(e.Settings) +
		" collides with instruction bit 0x" + hexByte(byte(e.Op))
}

func (e *InstructionError) Unwrap() error { return ErrInvalidSetting }

const hexDigits = "0123456789ABCDEF"

func hexByte(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]})
}
