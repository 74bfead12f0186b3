// Package serial provides a minimal stub of the link cable port. No link
// cable peer is emulated (link cable play is an explicit non-goal): a
// requested transfer always completes against a floating line, reading
// back all-ones, the same observable behavior as real hardware with
// nothing plugged into the port.
package serial

import (
	"github.com/8bitlab/gbcore/internal/interrupts"
	"github.com/8bitlab/gbcore/internal/state"
)

const (
	transferCycles = 8 * 512 // 8 bits at the internal clock's ~8192 Hz divider
)

// Controller is SB/SC (0xFF01/0xFF02): writing SC with both the transfer
// and internal-clock bits set starts a transfer that completes
// `transferCycles` T-cycles later, firing the serial interrupt and
// shifting in 0xFF (no peer responds).
type Controller struct {
	data    uint8
	control uint8

	transferring bool
	cycles       int

	irq      *interrupts.Service
	lastByte uint8
}

func NewController(irq *interrupts.Service) *Controller {
	return &Controller{irq: irq, control: 0x7E}
}

func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case 0xFF01:
		return c.data
	case 0xFF02:
		return c.control
	}
	return 0xFF
}

func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case 0xFF01:
		c.data = value
	case 0xFF02:
		c.control = value | 0x7E
		if value&0x81 == 0x81 {
			c.transferring = true
			c.cycles = 0
		}
	}
}

// Tick advances a pending transfer; on completion it shifts in all-ones
// (no link partner) and requests the serial interrupt.
func (c *Controller) Tick(tCycles int) {
	if !c.transferring {
		return
	}
	c.cycles += tCycles
	if c.cycles >= transferCycles {
		c.transferring = false
		c.lastByte = c.data
		c.data = 0xFF
		c.control &^= 0x80
		c.irq.Request(interrupts.SerialFlag)
	}
}

// Output returns the last full byte shifted out over the port, for the
// diagnostic SerialOutput() surface (supplemented from original_source;
// real link-cable software, e.g. test ROMs, uses this as a cheap text
// console).
func (c *Controller) Output() uint8 { return c.lastByte }

var _ state.Stater = (*Controller)(nil)

func (c *Controller) Save(s *state.State) {
	s.Write8(c.data)
	s.Write8(c.control)
	s.WriteBool(c.transferring)
	s.Write32(uint32(c.cycles))
	s.Write8(c.lastByte)
}

func (c *Controller) Load(s *state.State) {
	c.data = s.Read8()
	c.control = s.Read8()
	c.transferring = s.ReadBool()
	c.cycles = int(s.Read32())
	c.lastByte = s.Read8()
}
