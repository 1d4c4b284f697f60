package simbus_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/harveysanders/lcdterm/hd44780"
	"github.com/harveysanders/lcdterm/simbus"
)

func write(c *simbus.Controller, rs hd44780.RegisterSelect, b byte) {
	Expect(c.SetDirection(hd44780.Output)).To(Succeed())
	Expect(c.SetControl(rs, hd44780.Write)).To(Succeed())
	Expect(c.SetData(b)).To(Succeed())
	Expect(c.SetEnable(true)).To(Succeed())
	Expect(c.SetEnable(false)).To(Succeed())
}

func read(c *simbus.Controller, rs hd44780.RegisterSelect) byte {
	Expect(c.SetDirection(hd44780.Input)).To(Succeed())
	Expect(c.SetControl(rs, hd44780.Read)).To(Succeed())
	Expect(c.SetEnable(true)).To(Succeed())
	b, err := c.ReadData()
	Expect(err).ToNot(HaveOccurred())
	Expect(c.SetEnable(false)).To(Succeed())
	Expect(c.SetDirection(hd44780.Output)).To(Succeed())
	return b
}

func instr(c *simbus.Controller, b byte) { write(c, hd44780.RegisterInstruction, b) }
func data(c *simbus.Controller, b byte)  { write(c, hd44780.RegisterData, b) }

var _ = Describe("Controller", func() {
	var c *simbus.Controller

	BeforeEach(func() {
		c = simbus.New()
	})

	It("should start blank in 1-line mode", func() {
		st := c.Snapshot()
		Expect(st.TwoLine).To(BeFalse())
		Expect(st.EightBit).To(BeTrue())
		Expect(st.DisplayOn).To(BeFalse())
		Expect(st.Lines[0]).To(Equal(strings.Repeat(" ", simbus.Columns)))
	})

	It("should refuse to drive lines configured as input", func() {
		Expect(c.SetDirection(hd44780.Input)).To(Succeed())
		Expect(c.SetData(0x41)).To(MatchError(simbus.ErrDrivenInput))
	})

	It("should refuse to sample lines configured as output", func() {
		_, err := c.ReadData()
		Expect(err).To(MatchError(simbus.ErrSampledOutput))
	})

	It("should latch on the falling edge only", func() {
		Expect(c.SetControl(hd44780.RegisterInstruction, hd44780.Write)).To(Succeed())
		Expect(c.SetData(0x80 | 0x10)).To(Succeed())
		Expect(c.SetEnable(true)).To(Succeed())
		Expect(c.Address()).To(Equal(byte(0)))
		Expect(c.SetEnable(false)).To(Succeed())
		Expect(c.Address()).To(Equal(byte(0x10)))
		Expect(c.Instructions()).To(Equal([]byte{0x90}))
	})

	Context("in 2-line mode", func() {
		BeforeEach(func() {
			instr(c, 0x38)
		})

		It("should wrap the address counter between banks", func() {
			instr(c, 0x80|0x27)
			data(c, 'a')
			Expect(c.Address()).To(Equal(byte(0x40)))

			instr(c, 0x80|0x67)
			data(c, 'b')
			Expect(c.Address()).To(Equal(byte(0x00)))
		})

		It("should wrap backwards when decrementing", func() {
			instr(c, 0x04)
			instr(c, 0x80|0x40)
			data(c, 'x')
			Expect(c.Address()).To(Equal(byte(0x27)))
			instr(c, 0x80|0x00)
			data(c, 'y')
			Expect(c.Address()).To(Equal(byte(0x67)))
		})

		It("should lay rows 3 and 4 out after rows 1 and 2", func() {
			instr(c, 0x80|0x14)
			data(c, '3')
			instr(c, 0x80|0x54)
			data(c, '4')
			instr(c, 0x80|0x40)
			data(c, '2')

			lines := c.Lines()
			Expect(lines[1][0]).To(Equal(byte('2')))
			Expect(lines[2][0]).To(Equal(byte('3')))
			Expect(lines[3][0]).To(Equal(byte('4')))
		})

		It("should report the cursor position", func() {
			instr(c, 0x80|0x56)
			st := c.Snapshot()
			Expect(st.CursorShown).To(BeTrue())
			Expect(st.CursorRow).To(Equal(3))
			Expect(st.CursorCol).To(Equal(2))
		})

		It("should move the cursor with cursor shifts", func() {
			instr(c, 0x80|0x27)
			instr(c, 0x14)
			Expect(c.Address()).To(Equal(byte(0x40)))
			instr(c, 0x10)
			Expect(c.Address()).To(Equal(byte(0x27)))
		})
	})

	It("should switch display, cursor and blink", func() {
		instr(c, 0x0F)
		st := c.Snapshot()
		Expect(st.DisplayOn).To(BeTrue())
		Expect(st.CursorOn).To(BeTrue())
		Expect(st.BlinkOn).To(BeTrue())
	})

	It("should shift the display without touching DDRAM", func() {
		instr(c, 0x38)
		data(c, 'A')
		instr(c, 0x1C)
		Expect(c.Lines()[0][:2]).To(Equal(" A"))
		Expect(c.DDRAM(0)).To(Equal(byte('A')))

		instr(c, 0x02)
		Expect(c.Lines()[0][:1]).To(Equal("A"))
	})

	It("should mark non-printable codes", func() {
		data(c, 0x07)
		Expect(c.Lines()[0][0]).To(Equal(byte('?')))
	})

	It("should store CGRAM rows and read them back", func() {
		instr(c, 0x40|0x08)
		for _, row := range []byte{1, 2, 3} {
			data(c, row)
		}
		Expect(c.CGRAM(0x09)).To(Equal(byte(2)))

		instr(c, 0x40|0x08)
		Expect(read(c, hd44780.RegisterData)).To(Equal(byte(1)))
		Expect(read(c, hd44780.RegisterData)).To(Equal(byte(2)))
		Expect(c.Snapshot().CGRAM).To(BeTrue())
	})

	Context("busy flag", func() {
		It("should read clear with the address counter", func() {
			instr(c, 0x80|0x05)
			Expect(read(c, hd44780.RegisterInstruction)).To(Equal(byte(0x05)))
			Expect(c.BusyReads()).To(Equal(1))
		})

		It("should stay set for the configured number of reads", func() {
			c.SetBusyReads(2)
			instr(c, 0x80|0x05)
			Expect(read(c, hd44780.RegisterInstruction)).To(Equal(byte(0x85)))
			Expect(read(c, hd44780.RegisterInstruction)).To(Equal(byte(0x85)))
			Expect(read(c, hd44780.RegisterInstruction)).To(Equal(byte(0x05)))
		})

		It("should stay set while stuck", func() {
			c.SetStuckBusy(true)
			for i := 0; i < 10; i++ {
				Expect(read(c, hd44780.RegisterInstruction) & hd44780.BusyMask).ToNot(BeZero())
			}
			c.SetStuckBusy(false)
			Expect(read(c, hd44780.RegisterInstruction) & hd44780.BusyMask).To(BeZero())
		})
	})

	It("should blank DDRAM and restore increment on clear", func() {
		instr(c, 0x04)
		data(c, 'q')
		instr(c, 0x01)
		st := c.Snapshot()
		Expect(st.Increment).To(BeTrue())
		Expect(st.Address).To(Equal(byte(0)))
		Expect(c.DDRAM(0)).To(Equal(byte(' ')))
	})
})
