package hd44780

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settingOpcodes = []Opcode{
	EntryModeSet,
	DisplayControl,
	CursorDisplayShift,
	FunctionSet,
	SetCGRAMAddress,
	SetDDRAMAddress,
}

func TestEncodeRejectsSettingsAtOrAboveOpcode(t *testing.T) {
	for _, op := range settingOpcodes {
		for s := 0; s <= 0xFF; s++ {
			b, err := Encode(op, byte(s))
			if s >= int(op) {
				require.ErrorIs(t, err, ErrInvalidSetting, "%s settings 0x%02X", op, s)
				continue
			}
			require.NoError(t, err, "%s settings 0x%02X", op, s)
			require.Equal(t, byte(op)|byte(s), b)
		}
	}
}

func TestEncodeEntryMode(t *testing.T) {
	_, err := Encode(EntryModeSet, 0x04)
	assert.ErrorIs(t, err, ErrInvalidSetting)
	assert.Equal(t, StatusInvalidArgument, StatusOf(err))

	b, err := Encode(EntryModeSet, 0x03)
	require.NoError(t, err)
	assert.Equal(t, byte(0x07), b)
}

func TestEncodeNoSettingInstructions(t *testing.T) {
	b, err := Encode(ClearDisplay, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)

	b, err = Encode(ReturnHome, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), b)
}

func TestEncodeFlagCombinations(t *testing.T) {
	cases := []struct {
		op       Opcode
		settings byte
		want     byte
	}{
		{FunctionSet, DataLength8Bits | TwoLines | Font5x8, 0x38},
		{DisplayControl, DisplayOn | CursorOn | BlinkingOn, 0x0F},
		{DisplayControl, DisplayOff | CursorOff | BlinkingOff, 0x08},
		{EntryModeSet, Increment, 0x06},
		{EntryModeSet, Decrement | DisplayShiftData, 0x05},
		{CursorDisplayShift, CursorShift | RightShift, 0x14},
		{CursorDisplayShift, DisplayShift | LeftShift, 0x18},
		{SetDDRAMAddress, 0x54, 0xD4},
		{SetCGRAMAddress, 0x08, 0x48},
	}
	for _, tc := range cases {
		got, err := Encode(tc.op, tc.settings)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.op.String())
	}
}

func TestInstructionErrorMessage(t *testing.T) {
	_, err := Encode(SetCGRAMAddress, 0x40)
	var ie *InstructionError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, SetCGRAMAddress, ie.Op)
	assert.Equal(t, "hd44780: set CGRAM address: setting 0x40 collides with instruction bit 0x40", err.Error())
}

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, Status(0x00), StatusSuccess)
	assert.Equal(t, Status(0x01), StatusInvalidArgument)
	assert.Equal(t, Status(0x02), StatusBusyReady)
	assert.Equal(t, Status(0x04), StatusBusyTimeout)

	assert.Equal(t, StatusSuccess, StatusOf(nil))
	assert.Equal(t, StatusUnknown, StatusOf(&BusError{Op: "x", Err: errors.New("pin")}))

	assert.Equal(t, "BUSY_RESET_TIMEOUT", StatusBusyTimeout.String())
	assert.Equal(t, "INVALID LCD ERROR", Status(0x33).String())
}
