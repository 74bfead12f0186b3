// Package timer provides the DIV/TIMA/TMA/TAC timer fabric. DIV is modeled
// as the high byte of a free-running 16-bit counter; TIMA increments on a
// falling edge of a TAC-selected bit of that counter, and an overflow is
// deferred by four T-cycles before reloading from TMA and raising the timer
// interrupt, matching the documented hardware quirk where a write to TIMA
// or TMA during that window can cancel or redirect the reload.
package timer

import (
	"github.com/8bitlab/gbcore/internal/interrupts"
	"github.com/8bitlab/gbcore/internal/state"
)

// tacBit selects which bit of the internal 16-bit divider gates a TIMA
// increment, indexed by TAC's low 2 bits.
var tacBit = [4]uint16{1 << 9, 1 << 3, 1 << 5, 1 << 7}

type Controller struct {
	div uint16 // internal free-running divider; DIV register is div>>8

	tima uint8
	tma  uint8
	tac  uint8

	reloadCountdown int // >0 while the 4-cycle overflow delay is pending

	irq *interrupts.Service
}

func NewController(irq *interrupts.Service) *Controller {
	return &Controller{irq: irq, div: 0xABCC}
}

func (c *Controller) enabled() bool { return c.tac&0x04 != 0 }

// Tick advances the timer by one T-cycle.
func (c *Controller) Tick() {
	if c.reloadCountdown > 0 {
		c.reloadCountdown--
		if c.reloadCountdown == 0 {
			c.tima = c.tma
			c.irq.Request(interrupts.TimerFlag)
		}
	}

	before := c.div
	c.div++
	c.checkFallingEdge(before, c.div)
}

// checkFallingEdge increments TIMA when the TAC-selected bit of the
// divider falls from 1 to 0, which is how the real hardware derives TIMA's
// rate from the free-running divider instead of a separate counter.
func (c *Controller) checkFallingEdge(before, after uint16) {
	if !c.enabled() {
		return
	}
	bit := tacBit[c.tac&0x03]
	if before&bit != 0 && after&bit == 0 {
		c.incrementTIMA()
	}
}

func (c *Controller) incrementTIMA() {
	c.tima++
	if c.tima == 0 {
		c.reloadCountdown = 4
	}
}

// WriteDIV resets the internal divider; this can itself trigger a TIMA
// increment if the selected bit was set before the reset.
func (c *Controller) WriteDIV() {
	before := c.div
	c.div = 0
	c.checkFallingEdge(before, 0)
}

func (c *Controller) DIV() uint8 { return uint8(c.div >> 8) }

func (c *Controller) TIMA() uint8 { return c.tima }

func (c *Controller) WriteTIMA(v uint8) {
	// a write during the reload delay cancels the pending reload and interrupt
	if c.reloadCountdown > 0 {
		c.reloadCountdown = 0
	}
	c.tima = v
}

func (c *Controller) TMA() uint8 { return c.tma }

func (c *Controller) WriteTMA(v uint8) {
	c.tma = v
	if c.reloadCountdown == 1 {
		c.tima = v
	}
}

func (c *Controller) TAC() uint8 { return c.tac | 0xF8 }

func (c *Controller) WriteTAC(v uint8) {
	wasEnabled := c.enabled()
	oldBit := tacBit[c.tac&0x03]
	c.tac = v & 0x07

	// disabling the timer while the selected bit is set also ticks TIMA
	// once, a consequence of the same falling-edge detector used above
	if wasEnabled && !c.enabled() && c.div&oldBit != 0 {
		c.incrementTIMA()
	}
}

var _ state.Stater = (*Controller)(nil)

func (c *Controller) Save(s *state.State) {
	s.Write16(c.div)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
	s.Write32(uint32(c.reloadCountdown))
}

func (c *Controller) Load(s *state.State) {
	c.div = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()
	c.reloadCountdown = int(s.Read32())
}
