// Package cpu implements the Sharp LR35902 instruction set: fetch/decode/
// execute, the interrupt dispatch sequence, HALT/STOP (including the
// documented HALT bug and CGB double-speed switch), and the small set of
// diagnostic hooks (CPUStuck/DumpCPUState) this core exposes in place of a
// full debugger.
package cpu

import (
	"fmt"

	"github.com/8bitlab/gbcore/internal/interrupts"
	"github.com/8bitlab/gbcore/internal/state"
)

// Bus is everything the CPU needs from the rest of the machine: the 64KiB
// address space, a way to advance every other clocked component in
// lockstep, and the CGB double-speed controls the bus owns.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Tick(tCycles int)
	DoubleSpeed() bool
	SpeedSwitchArmed() bool
	CommitSpeedSwitch()
}

type runMode uint8

const (
	modeNormal runMode = iota
	modeHalt
	modeHaltBug
	modeStop
	modeEnableIME
)

// CPU is the Sharp LR35902 core: registers, program counter, stack
// pointer, and the bus it executes against.
type CPU struct {
	Registers
	PC, SP uint16

	bus Bus
	irq *interrupts.Service

	mode runMode

	// stuck mirrors PyBoy's is_stuck: once an executed instruction (HALT/
	// STOP excluded) leaves PC and SP both unchanged, it latches true and
	// never clears. This is a diagnostic only - it never alters
	// execution, per spec: a ROM idling in a self-jump loop waiting for an
	// interrupt reports stuck exactly like a genuine infinite loop would.
	// Executing an illegal opcode latches it as well.
	stuck bool

	cyclesThisStep int
}

// New constructs a CPU wired to bus and the shared interrupt service. The
// caller is responsible for placing PC/SP/registers into their starting
// state: either post-boot power-on values, or PC=0/SP=0xFFFE when a boot
// ROM is mapped in and expected to run first.
func New(bus Bus, irq *interrupts.Service) *CPU {
	return &CPU{bus: bus, irq: irq}
}

// Step executes exactly one instruction (or one interrupt dispatch, or one
// HALT/STOP tick) and returns the number of T-cycles consumed, ticking
// every other bus component in lockstep along the way. A pending interrupt
// with IME set is dispatched before the next opcode is fetched.
func (c *CPU) Step() int {
	c.cyclesThisStep = 0
	preHalted := c.mode == modeHalt || c.mode == modeStop
	oldPC, oldSP := c.PC, c.SP

	switch c.mode {
	case modeNormal:
		if c.irq.IME && c.irq.Pending() {
			c.dispatchInterrupt()
			break
		}
		c.execute(c.fetch())
	case modeHaltBug:
		op := c.fetch()
		c.PC--
		c.mode = modeNormal
		c.execute(op)
		c.dispatchInterrupt()
	case modeEnableIME:
		c.irq.IME = true
		c.mode = modeNormal
		c.execute(c.fetch())
		c.dispatchInterrupt()
	case modeHalt, modeStop:
		c.tick(4)
		if c.irq.Pending() {
			c.mode = modeNormal
		}
	}

	// Mirrors PyBoy's placement of the is_stuck check: skipped both while
	// already halted coming in and the instant HALT/STOP is entered, so
	// only an instruction that actually ran to completion can trigger it.
	postHalted := c.mode == modeHalt || c.mode == modeStop
	if !preHalted && !postHalted && !c.stuck && c.PC == oldPC && c.SP == oldSP {
		c.stuck = true
	}
	return c.cyclesThisStep
}

func (c *CPU) fetch() uint8 {
	op := c.read(c.PC)
	c.PC++
	return op
}

func (c *CPU) read(address uint16) uint8 {
	v := c.bus.Read(address)
	c.tick(4)
	return v
}

func (c *CPU) write(address uint16, value uint8) {
	c.bus.Write(address, value)
	c.tick(4)
}

// tick advances every other component by tCycles T-cycles.
func (c *CPU) tick(tCycles int) {
	c.bus.Tick(tCycles)
	c.cyclesThisStep += tCycles
}

// dispatchInterrupt runs the fixed 20 T-cycle interrupt dispatch sequence:
// an 8T internal delay, two 4T stack pushes, and a final 4T internal delay
// while the vector lands in PC (matching the teacher's own
// executeInterrupt five-tickCycle budget).
func (c *CPU) dispatchInterrupt() {
	if !c.irq.IME || !c.irq.Pending() {
		return
	}
	c.tick(8)
	c.SP--
	c.write(c.SP, uint8(c.PC>>8))
	// the high-byte push can itself change IE/IF; re-resolve the vector
	// after it lands rather than latching it before the write.
	vector, flag, ok := c.irq.NextVector()
	c.SP--
	c.write(c.SP, uint8(c.PC))
	if !ok {
		c.PC = 0
		c.irq.IME = false
		c.tick(4)
		return
	}
	c.irq.Clear(flag)
	c.irq.IME = false
	c.PC = vector
	c.tick(4)
}

// halt enters HALT, applying the documented bug where HALT executed with
// IME clear and a source both requested and enabled at IE causes the next
// instruction's opcode byte to be fetched twice (PC fails to advance).
func (c *CPU) halt() {
	if !c.irq.IME && c.irq.Enable&c.irq.Flag&0x1F != 0 {
		c.mode = modeHaltBug
		return
	}
	c.mode = modeHalt
}

// stop enters STOP, or performs a CGB double-speed switch if one is armed.
func (c *CPU) stop() {
	if c.bus.SpeedSwitchArmed() {
		c.bus.CommitSpeedSwitch()
		return
	}
	c.mode = modeStop
}

func (c *CPU) ei() { c.mode = modeEnableIME }

// CPUStuck reports whether some executed instruction has left PC and SP
// both unchanged - PyBoy's is_stuck diagnostic - or an illegal opcode has
// been executed. It flags a self-jump idle loop exactly like a genuine
// infinite loop, and is read-only: it never alters what Step executes.
func (c *CPU) CPUStuck() bool { return c.stuck }

// HaltDeadlock reports whether the CPU is halted with no interrupt source
// that could ever wake it (IE holds none of the bits IF could ever raise),
// meaning it will never leave HALT again. Unlike CPUStuck, this is exact:
// it is what TickFrame uses to know further Step calls are pointless.
func (c *CPU) HaltDeadlock() bool {
	return c.mode == modeHalt && c.irq.Enable&0x1F == 0
}

// DumpCPUState renders the register file and run mode for diagnostics.
func (c *CPU) DumpCPUState() string {
	return fmt.Sprintf(
		"PC=%04X SP=%04X AF=%04X BC=%04X DE=%04X HL=%04X mode=%d IME=%t",
		c.PC, c.SP, c.AF(), c.BC(), c.DE(), c.HL(), c.mode, c.irq.IME,
	)
}

var _ state.Stater = (*CPU)(nil)

func (c *CPU) Save(s *state.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.PC)
	s.Write16(c.SP)
	s.Write8(uint8(c.mode))
	s.WriteBool(c.stuck)
}

func (c *CPU) Load(s *state.State) {
	c.A = s.Read8()
	c.F = s.Read8()
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.PC = s.Read16()
	c.SP = s.Read16()
	c.mode = runMode(s.Read8())
	c.stuck = s.ReadBool()
}
