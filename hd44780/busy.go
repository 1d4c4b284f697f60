package hd44780

import (
	"log/slog"
	"time"
)

// ReadBusyAndAddress performs one busy-flag / address-counter read cycle.
// Bit 7 is the busy flag, bits 0-6 the address counter.
func (d *Device) ReadBusyAndAddress() (byte, error) {
	return d.readCycle("read busy flag", RegisterInstruction, 0)
}

// PollUntilReady reads the busy flag until it is clear or the attempt budget
// is spent, waiting Timing.PollInterval before each attempt. It returns
// StatusBusyReady or StatusBusyTimeout. A timeout is not an error.
func (d *Device) PollUntilReady() (Status, error) {
	status, _, _, err := d.poll()
	return status, err
}

// ReadAddress returns the address counter. It polls the busy flag and masks
// the address out of the first sample that reads ready, so the value is the
// counter after the previous operation completed.
func (d *Device) ReadAddress() (byte, error) {
	const op = "read address"
	status, attempts, sample, err := d.poll()
	if err != nil {
		return 0, err
	}
	if status == StatusBusyTimeout {
		d.reportTimeout(op, attempts)
	}
	return sample & AddressMask, nil
}

func (d *Device) poll() (status Status, attempts int, sample byte, err error) {
	for attempts = 1; attempts <= d.attempts; attempts++ {
		d.sleep(d.timing.PollInterval)
		sample, err = d.ReadBusyAndAddress()
		if err != nil {
			return StatusUnknown, attempts, 0, err
		}
		if sample&BusyMask == 0 {
			return StatusBusyReady, attempts, sample, nil
		}
	}
	return StatusBusyTimeout, d.attempts, sample, nil
}

// waitReady polls before op. A timeout is logged and reported, and op is
// issued anyway.
func (d *Device) waitReady(op string) error {
	status, attempts, _, err := d.poll()
	if err != nil {
		return err
	}
	if status == StatusBusyTimeout {
		d.reportTimeout(op, attempts)
	}
	return nil
}

func (d *Device) reportTimeout(op string, attempts int) {
	d.timeouts++
	d.log.Warn("hd44780:busy-timeout", slog.String("op", op), slog.Int("attempts", attempts))
	if d.observer != nil {
		d.observer.Observe(Event{
			Kind:     EventBusyTimeout,
			Op:       op,
			Attempts: attempts,
			At:       time.Now(),
		})
	}
}
