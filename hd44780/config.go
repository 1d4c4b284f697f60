package hd44780

import (
	"io"
	"log/slog"
	"time"
)

// DefaultMaxPollAttempts is the busy-flag poll budget used when
// Config.MaxPollAttempts is zero.
const DefaultMaxPollAttempts = 254

// Timing holds the fixed waits of the bus protocol.
type Timing struct {
	// PollInterval is waited before every busy-flag read attempt.
	PollInterval time.Duration
	// ReadHold is waited after raising enable in a read cycle, and again
	// after sampling the data lines.
	ReadHold time.Duration
	// ReadSetup is waited before raising enable when reading RAM data.
	ReadSetup time.Duration
	// InstructionSettle is waited between driving an instruction byte and
	// pulsing enable.
	InstructionSettle time.Duration
	// DataSettle is waited between driving a data byte and pulsing enable.
	DataSettle time.Duration
	// EnableHalfPeriod is waited before raising and before lowering enable.
	EnableHalfPeriod time.Duration
	// PowerOn, InitSecond and InitThird precede the three unpolled
	// function-set instructions of the init sequence.
	PowerOn    time.Duration
	InitSecond time.Duration
	InitThird  time.Duration
}

// DefaultTiming returns waits that suit stock 5V modules.
func DefaultTiming() Timing {
	return Timing{
		PollInterval:      time.Millisecond,
		ReadHold:          time.Millisecond,
		ReadSetup:         5 * time.Millisecond,
		InstructionSettle: 200 * time.Microsecond,
		DataSettle:        time.Millisecond,
		EnableHalfPeriod:  500 * time.Microsecond,
		PowerOn:           16 * time.Millisecond,
		InitSecond:        5 * time.Millisecond,
		InitThird:         time.Millisecond,
	}
}

// Config configures a Device. The zero value is usable.
type Config struct {
	// Timing overrides DefaultTiming when non-zero.
	Timing Timing
	// MaxPollAttempts bounds the busy-flag poll. Zero means
	// DefaultMaxPollAttempts.
	MaxPollAttempts int
	// Logger receives busy timeouts and init progress. Nil discards.
	Logger *slog.Logger
	// Observer receives anomaly events. Optional.
	Observer Observer
	// Sleep performs the protocol waits. Nil means time.Sleep.
	Sleep func(time.Duration)
}

func (c Config) withDefaults() Config {
	if c.Timing == (Timing{}) {
		c.Timing = DefaultTiming()
	}
	if c.MaxPollAttempts <= 0 {
		c.MaxPollAttempts = DefaultMaxPollAttempts
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	if c.Sleep == nil {
		c.Sleep = time.Sleep
	}
	return c
}
