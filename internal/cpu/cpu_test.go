package cpu

import (
	"testing"

	"github.com/8bitlab/gbcore/internal/interrupts"
)

// fakeBus is a flat 64KiB address space with no double-speed support, used
// to exercise the CPU in isolation from the rest of the machine.
type fakeBus struct {
	mem [0x10000]uint8
}

func (b *fakeBus) Read(address uint16) uint8     { return b.mem[address] }
func (b *fakeBus) Write(address uint16, v uint8) { b.mem[address] = v }
func (b *fakeBus) Tick(tCycles int)              {}
func (b *fakeBus) DoubleSpeed() bool              { return false }
func (b *fakeBus) SpeedSwitchArmed() bool         { return false }
func (b *fakeBus) CommitSpeedSwitch()             {}

func newTestCPU(program ...uint8) (*CPU, *fakeBus) {
	bus := &fakeBus{}
	copy(bus.mem[0x100:], program)
	irq := interrupts.NewService()
	c := New(bus, irq)
	c.PC = 0x100
	return c, bus
}

func TestLDImmediateAndAdd(t *testing.T) {
	c, _ := newTestCPU(0x3E, 0x05, 0xC6, 0x03) // LD A,5 ; ADD A,3
	c.Step()
	if c.A != 0x05 {
		t.Fatalf("A = %02X, want 05", c.A)
	}
	c.Step()
	if c.A != 0x08 {
		t.Fatalf("A = %02X, want 08", c.A)
	}
	if c.Zero() || c.Carry() {
		t.Errorf("unexpected flags after ADD: F=%02X", c.F)
	}
}

func TestIncDecZeroFlag(t *testing.T) {
	c, _ := newTestCPU(0x3E, 0xFF, 0x3C) // LD A,0xFF ; INC A
	c.Step()
	c.Step()
	if c.A != 0 {
		t.Fatalf("A = %02X, want 0", c.A)
	}
	if !c.Zero() || !c.HalfCarry() {
		t.Errorf("expected Z and H set after overflow, F=%02X", c.F)
	}
}

func TestJumpAndCall(t *testing.T) {
	c, _ := newTestCPU(0xC3, 0x00, 0x02) // JP 0x0200
	c.Step()
	if c.PC != 0x0200 {
		t.Fatalf("PC = %04X, want 0200", c.PC)
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	c, _ := newTestCPU(0x01, 0x34, 0x12, 0xC5, 0xD1) // LD BC,0x1234 ; PUSH BC ; POP DE
	c.SP = 0xFFFE
	c.Step()
	c.Step()
	c.Step()
	if c.DE() != 0x1234 {
		t.Fatalf("DE = %04X, want 1234", c.DE())
	}
}

func TestHaltWakesOnPendingInterrupt(t *testing.T) {
	c, _ := newTestCPU(0x76) // HALT
	c.irq.IME = false
	c.irq.Enable = 0x01
	c.Step()
	if c.mode != modeHalt {
		t.Fatalf("expected HALT mode, got %d", c.mode)
	}
	c.irq.Request(interrupts.VBlankFlag)
	c.Step()
	if c.mode != modeNormal {
		t.Error("expected CPU to wake from HALT once an enabled interrupt is pending")
	}
}

func TestInterruptDispatchPushesPCAndJumps(t *testing.T) {
	c, bus := newTestCPU(0x00) // NOP, interrupt should preempt it
	c.PC = 0x100
	c.SP = 0xFFFE
	c.irq.IME = true
	c.irq.Enable = 0x01
	c.irq.Request(interrupts.VBlankFlag)
	c.Step()
	if c.PC != interrupts.VBlank {
		t.Fatalf("PC = %04X, want VBlank vector %04X", c.PC, interrupts.VBlank)
	}
	if c.irq.IME {
		t.Error("expected IME to be cleared on interrupt dispatch")
	}
	lo := bus.mem[c.SP]
	hi := bus.mem[c.SP+1]
	if uint16(hi)<<8|uint16(lo) != 0x100 {
		t.Errorf("pushed return address = %04X, want 0100", uint16(hi)<<8|uint16(lo))
	}
}

func TestInterruptDispatchCostsTwentyCycles(t *testing.T) {
	c, _ := newTestCPU(0x00) // NOP, interrupt should preempt it
	c.PC = 0x100
	c.SP = 0xFFFE
	c.irq.IME = true
	c.irq.Enable = 0x01
	c.irq.Request(interrupts.VBlankFlag)
	if got := c.Step(); got != 20 {
		t.Fatalf("Step() cycles = %d, want %d (dispatch only; the NOP is preempted)", got, 20)
	}
}

func TestCBBitInstruction(t *testing.T) {
	c, _ := newTestCPU(0x3E, 0x00, 0xCB, 0x47) // LD A,0 ; BIT 0,A
	c.Step()
	c.Step()
	if !c.Zero() {
		t.Error("expected Z set, bit 0 of A is clear")
	}
}

func TestHaltDeadlockWhenHaltedWithNoInterruptsEnabled(t *testing.T) {
	c, _ := newTestCPU(0x76)
	c.irq.IME = false
	c.irq.Enable = 0
	c.Step()
	if !c.HaltDeadlock() {
		t.Error("expected HaltDeadlock to report true: HALT with IE=0 can never wake")
	}
}

func TestHaltDeadlockClearsOnceAnInterruptSourceIsEnabled(t *testing.T) {
	c, _ := newTestCPU(0x76)
	c.irq.IME = false
	c.irq.Enable = 0
	c.Step()
	if !c.HaltDeadlock() {
		t.Fatal("expected HaltDeadlock after HALT with IE=0")
	}
	c.irq.Enable = 0x01
	if c.HaltDeadlock() {
		t.Error("HaltDeadlock should clear once an interrupt source becomes enabled")
	}
}

func TestCPUStuckOnSelfJumpIdleLoop(t *testing.T) {
	// JR -2: an idle loop waiting for an interrupt, written without HALT.
	// PyBoy's is_stuck flags this exactly like a genuine infinite loop -
	// it's diagnostic only, so the loop keeps executing normally.
	c, _ := newTestCPU(0x18, 0xFE)
	c.irq.IME = true
	c.irq.Enable = 0x01
	if c.CPUStuck() {
		t.Fatal("CPUStuck should be false before any instruction executes")
	}
	c.Step()
	if !c.CPUStuck() {
		t.Error("expected CPUStuck after a JR instruction that left PC and SP unchanged")
	}
	// diagnostic only: PC must still have looped back to re-execute JR.
	if c.PC != 0x100 {
		t.Errorf("PC = %04X, want 0100 (self-jump still executes normally)", c.PC)
	}
}

func TestCPUStuckDoesNotFireOnOrdinaryProgress(t *testing.T) {
	c, _ := newTestCPU(0x3E, 0x05, 0xC6, 0x03) // LD A,5 ; ADD A,3
	c.Step()
	c.Step()
	if c.CPUStuck() {
		t.Error("CPUStuck should not fire when PC advances normally")
	}
}
