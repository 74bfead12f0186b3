// Package motherboard wires the CPU to the bus and drives the tick pump:
// stepping instructions and fanning their consumed cycles out to the PPU,
// timer, cartridge RTC, and serial port via mmu.Bus, until a frame is ready
// or the CPU is permanently stuck.
package motherboard

import (
	"github.com/8bitlab/gbcore/internal/cartridge"
	"github.com/8bitlab/gbcore/internal/cpu"
	"github.com/8bitlab/gbcore/internal/interrupts"
	"github.com/8bitlab/gbcore/internal/mmu"
	"github.com/8bitlab/gbcore/internal/ppu"
	"github.com/8bitlab/gbcore/internal/state"
)

// Motherboard owns every component below the top-level Core: the CPU and
// the bus it executes against.
type Motherboard struct {
	CPU *cpu.CPU
	Bus *mmu.Bus

	frameCount uint64
}

// New assembles a motherboard around a parsed cartridge. cgb selects
// whether the PPU and work RAM run in Game Boy Color mode.
func New(cart *cartridge.Cartridge, cgb bool) *Motherboard {
	irq := interrupts.NewService()
	p := ppu.New(cgb, irq)
	bus := mmu.New(cart, cgb, irq, p)
	return &Motherboard{
		CPU: cpu.New(bus, irq),
		Bus: bus,
	}
}

// Step executes a single CPU instruction (or one HALT/STOP tick) and
// returns the T-cycles consumed.
func (m *Motherboard) Step() int { return m.CPU.Step() }

// TickFrame steps the CPU until the PPU reports a completed frame. It
// returns false instead if the CPU enters a HALT state with no interrupt
// source that could ever wake it, since that would otherwise spin forever
// without ever producing another frame. This is distinct from CPU.CPUStuck,
// which is a diagnostic-only flag (set by ordinary idle loops too) that
// must never by itself stop frame production.
func (m *Motherboard) TickFrame() bool {
	for !m.Bus.PPU.FrameReady() {
		m.CPU.Step()
		if m.CPU.HaltDeadlock() {
			return false
		}
	}
	m.frameCount++
	return true
}

// FrameCount returns the number of frames completed since power-on.
func (m *Motherboard) FrameCount() uint64 { return m.frameCount }

var _ state.Stater = (*Motherboard)(nil)

// Save writes every stateful component in the fixed order the save-state
// format documents: cartridge (RAM + RTC if present), CPU registers and
// interrupt fabric, RAM banks, then the full PPU (VRAM/OAM/LCD registers/
// palette memory/dot clock/LY/mode/window line), then the timer, joypad,
// serial port and the bus's KEY1/sound registers, and finally the frame
// counter.
func (m *Motherboard) Save(s *state.State) {
	m.Bus.Cart.Save(s)
	m.CPU.Save(s)
	m.Bus.IRQ.Save(s)
	m.Bus.WRAM.Save(s)
	m.Bus.HRAM.Save(s)
	m.Bus.PPU.Save(s)
	m.Bus.Timer.Save(s)
	m.Bus.Joypad.Save(s)
	m.Bus.Serial.Save(s)
	m.Bus.SaveMisc(s)
	s.Write64(m.frameCount)
}

func (m *Motherboard) Load(s *state.State) {
	m.Bus.Cart.Load(s)
	m.CPU.Load(s)
	m.Bus.IRQ.Load(s)
	m.Bus.WRAM.Load(s)
	m.Bus.HRAM.Load(s)
	m.Bus.PPU.Load(s)
	m.Bus.Timer.Load(s)
	m.Bus.Joypad.Load(s)
	m.Bus.Serial.Load(s)
	m.Bus.LoadMisc(s)
	m.frameCount = s.Read64()
}
