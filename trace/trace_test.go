package trace_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harveysanders/lcdterm/hd44780"
	"github.com/harveysanders/lcdterm/simbus"
	"github.com/harveysanders/lcdterm/trace"
)

type memWriter struct {
	cycles []trace.Cycle
	err    error
}

func (m *memWriter) Write(c trace.Cycle) error {
	m.cycles = append(m.cycles, c)
	return m.err
}

func noSleep(time.Duration) {}

func TestBusRecordsEveryCall(t *testing.T) {
	w := &memWriter{}
	bus := trace.NewBus(simbus.New(), w)

	require.NoError(t, bus.SetControl(hd44780.RegisterData, hd44780.Write))
	require.NoError(t, bus.SetData(0x41))
	require.NoError(t, bus.SetEnable(true))
	require.NoError(t, bus.SetEnable(false))
	require.NoError(t, bus.SetDirection(hd44780.Input))

	require.Len(t, w.cycles, 5)
	ops := []trace.Op{trace.OpSetControl, trace.OpSetData, trace.OpSetEnable, trace.OpSetEnable, trace.OpSetDirection}
	values := []byte{trace.ControlRS, 0x41, 1, 0, byte(hd44780.Input)}
	for i, c := range w.cycles {
		assert.Equal(t, bus.Session(), c.Session)
		assert.Equal(t, uint64(i+1), c.Seq)
		assert.Equal(t, ops[i], c.Op)
		assert.Equal(t, values[i], c.Value)
		assert.Empty(t, c.Err)
	}
}

func TestBusKeepsBusErrors(t *testing.T) {
	w := &memWriter{err: errors.New("disk full")}
	bus := trace.NewBus(simbus.New(), w)

	_, err := bus.ReadData()
	assert.ErrorIs(t, err, simbus.ErrSampledOutput)
	assert.Equal(t, simbus.ErrSampledOutput.Error(), w.cycles[0].Err)

	err = bus.SetData(1)
	assert.EqualError(t, err, "disk full")
}

func TestTransfersRebuildInstructions(t *testing.T) {
	w := &memWriter{}
	sim := simbus.New()
	dev := hd44780.New(trace.NewBus(sim, w), hd44780.Config{Sleep: noSleep})
	require.NoError(t, dev.Init())
	require.NoError(t, dev.WriteData('A'))

	var instr []byte
	var reads, data int
	for _, tr := range trace.Transfers(w.cycles) {
		switch {
		case tr.Read:
			reads++
			assert.Zero(t, tr.Value&hd44780.BusyMask)
		case tr.Register == hd44780.RegisterInstruction:
			instr = append(instr, tr.Value)
		default:
			data++
			assert.Equal(t, byte('A'), tr.Value)
		}
	}
	assert.Equal(t, sim.Instructions(), instr)
	assert.Equal(t, 1, data)
	assert.Equal(t, sim.BusyReads(), reads)
}
