package hd44780

import (
	"errors"
	"log/slog"
	"time"
)

// Device issues instructions and data transfers to one controller. All
// operations block for their protocol waits and assume exclusive use of the
// bus; a Device must not be shared between goroutines without external
// locking.
type Device struct {
	bus      Bus
	timing   Timing
	attempts int
	log      *slog.Logger
	observer Observer
	sleep    func(time.Duration)
	timeouts uint32
}

// New returns a Device driving bus. Call Init before any other operation
// unless the controller has already been brought up.
func New(bus Bus, cfg Config) *Device {
	cfg = cfg.withDefaults()
	return &Device{
		bus:      bus,
		timing:   cfg.Timing,
		attempts: cfg.MaxPollAttempts,
		log:      cfg.Logger,
		observer: cfg.Observer,
		sleep:    cfg.Sleep,
	}
}

// Init runs the 8-bit "initializing by instruction" sequence. The first
// three function-set instructions are sent without busy checks because the
// busy flag is not valid until they complete. The order is mandated by the
// controller.
func (d *Device) Init() error {
	start := time.Now()
	if err := d.bus.SetEnable(false); err != nil {
		return busErr("init", err)
	}
	if err := d.bus.SetDirection(Output); err != nil {
		return busErr("init", err)
	}
	if err := d.bus.SetControl(RegisterInstruction, Write); err != nil {
		return busErr("init", err)
	}

	wake := byte(FunctionSet) | DataLength8Bits
	for _, wait := range []time.Duration{d.timing.PowerOn, d.timing.InitSecond, d.timing.InitThird} {
		d.sleep(wait)
		if err := d.send("init", wake); err != nil {
			return err
		}
	}

	if err := d.FunctionSet(DataLength8Bits | TwoLines | Font5x8); err != nil {
		return err
	}
	if err := d.DisplayControl(DisplayOff | CursorOff | BlinkingOff); err != nil {
		return err
	}
	if err := d.ClearDisplay(); err != nil {
		return err
	}
	if err := d.EntryModeSet(Increment); err != nil {
		return err
	}
	d.log.Info("hd44780:init", slog.Duration("duration", time.Since(start)))
	return nil
}

// ClearDisplay blanks DDRAM and sets the address counter to 0.
func (d *Device) ClearDisplay() error { return d.instruction(ClearDisplay, 0) }

// ReturnHome sets the address counter to 0 and undoes any display shift.
// DDRAM is unchanged.
func (d *Device) ReturnHome() error { return d.instruction(ReturnHome, 0) }

// EntryModeSet selects the address counter direction (Increment or
// Decrement) and whether the display shifts on data access
// (DisplayShiftData).
func (d *Device) EntryModeSet(settings byte) error { return d.instruction(EntryModeSet, settings) }

// DisplayControl switches the display, cursor and cursor blinking.
func (d *Device) DisplayControl(settings byte) error { return d.instruction(DisplayControl, settings) }

// CursorDisplayShift moves the cursor or the whole display one position
// without touching DDRAM.
func (d *Device) CursorDisplayShift(settings byte) error {
	return d.instruction(CursorDisplayShift, settings)
}

// FunctionSet selects data length, number of lines and font.
func (d *Device) FunctionSet(settings byte) error { return d.instruction(FunctionSet, settings) }

// SetCGRAMAddress points the address counter into CGRAM (6-bit address).
// Subsequent data transfers access CGRAM.
func (d *Device) SetCGRAMAddress(addr byte) error { return d.instruction(SetCGRAMAddress, addr) }

// SetDDRAMAddress points the address counter into DDRAM (7-bit address).
// Subsequent data transfers access DDRAM.
func (d *Device) SetDDRAMAddress(addr byte) error { return d.instruction(SetDDRAMAddress, addr) }

// WriteData writes b to DDRAM or CGRAM at the address counter, whichever the
// last set-address instruction selected.
func (d *Device) WriteData(b byte) error {
	const op = "write data"
	if err := d.waitReady(op); err != nil {
		return err
	}
	if err := d.bus.SetControl(RegisterData, Write); err != nil {
		return busErr(op, err)
	}
	if err := d.bus.SetData(b); err != nil {
		return busErr(op, err)
	}
	d.sleep(d.timing.DataSettle)
	return d.pulseEnable(op)
}

// ReadData reads the DDRAM or CGRAM byte at the address counter.
func (d *Device) ReadData() (byte, error) {
	const op = "read data"
	if err := d.waitReady(op); err != nil {
		return 0, err
	}
	return d.readCycle(op, RegisterData, d.timing.ReadSetup)
}

// Write writes p as data bytes. It implements io.Writer.
func (d *Device) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := d.WriteData(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Timeouts returns the number of busy-flag polls that ran out of attempts.
func (d *Device) Timeouts() uint32 { return d.timeouts }

func (d *Device) instruction(op Opcode, settings byte) error {
	b, err := Encode(op, settings)
	if err != nil {
		return err
	}
	name := op.String()
	if err := d.waitReady(name); err != nil {
		return err
	}
	if err := d.bus.SetControl(RegisterInstruction, Write); err != nil {
		return busErr(name, err)
	}
	return d.send(name, b)
}

// send drives b onto the data lines and latches it. It does not check the
// busy flag.
func (d *Device) send(op string, b byte) error {
	if err := d.bus.SetData(b); err != nil {
		return busErr(op, err)
	}
	d.sleep(d.timing.InstructionSettle)
	return d.pulseEnable(op)
}

func (d *Device) pulseEnable(op string) error {
	d.sleep(d.timing.EnableHalfPeriod)
	if err := d.bus.SetEnable(true); err != nil {
		return busErr(op, err)
	}
	d.sleep(d.timing.EnableHalfPeriod)
	return busErr(op, d.bus.SetEnable(false))
}

// readCycle performs one read with the data lines switched to input. The
// lines are handed back as outputs on every return path.
func (d *Device) readCycle(op string, rs RegisterSelect, setup time.Duration) (b byte, err error) {
	if err := d.bus.SetDirection(Input); err != nil {
		return 0, busErr(op, err)
	}
	defer func() {
		restore := errors.Join(d.bus.SetEnable(false), d.bus.SetDirection(Output))
		if err == nil {
			err = busErr(op, restore)
		}
	}()

	if err := d.bus.SetControl(rs, Read); err != nil {
		return 0, busErr(op, err)
	}
	if setup > 0 {
		d.sleep(setup)
	}
	if err := d.bus.SetEnable(true); err != nil {
		return 0, busErr(op, err)
	}
	d.sleep(d.timing.ReadHold)
	b, err = d.bus.ReadData()
	if err != nil {
		return 0, busErr(op, err)
	}
	d.sleep(d.timing.ReadHold)
	return b, nil
}
