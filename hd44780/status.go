package hd44780

import "errors"

// Status is the small-integer result code reported by instruction functions
// and by the busy-flag poll.
type Status uint8

const (
	StatusSuccess         Status = 0x00
	StatusInvalidArgument Status = 0x01
	StatusBusyReady       Status = 0x02
	StatusBusyTimeout     Status = 0x04

	// StatusUnknown is reported for failures that are not part of the
	// controller's result codes, such as transport errors.
	StatusUnknown Status = 0xFF
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "LCD_INSTR_SUCCESS"
	case StatusInvalidArgument:
		return "INVALID_ARGUMENT"
	case StatusBusyReady:
		return "BUSY_RESET_SUCCESS"
	case StatusBusyTimeout:
		return "BUSY_RESET_TIMEOUT"
	default:
		return "INVALID LCD ERROR"
	}
}

// StatusOf maps the error returned by an instruction function to its result
// code.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	if errors.Is(err, ErrInvalidSetting) {
		return StatusInvalidArgument
	}
	return StatusUnknown
}

// BusError wraps a failure reported by the Bus implementation.
type BusError struct {
	Op  string
	Err error
}

func (e *BusError) Error() string { return "hd44780: " + e.Op + ": " + e.Err.Error() }

func (e *BusError) Unwrap() error { return e.Err }

func busErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BusError{Op: op, Err: err}
}
