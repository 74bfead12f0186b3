// Package mmu wires the whole 64KiB address space together: cartridge ROM
// and external RAM, work RAM, the PPU's VRAM/OAM/register window, the
// timer, joypad, serial port, interrupt registers, and high RAM. It holds
// no behavior of its own beyond address decoding and the handful of
// registers (KEY1, SVBK, and the unimplemented sound bank) that don't
// belong to any other component.
package mmu

import (
	"github.com/8bitlab/gbcore/internal/cartridge"
	"github.com/8bitlab/gbcore/internal/interrupts"
	"github.com/8bitlab/gbcore/internal/joypad"
	"github.com/8bitlab/gbcore/internal/ppu"
	"github.com/8bitlab/gbcore/internal/ram"
	"github.com/8bitlab/gbcore/internal/serial"
	"github.com/8bitlab/gbcore/internal/state"
	"github.com/8bitlab/gbcore/internal/timer"
	"github.com/8bitlab/gbcore/pkg/log"
)

// Bus is the memory management unit: the single Read/Write surface the CPU
// drives, and the component that fans a single Tick out to every other
// clocked piece of hardware.
type Bus struct {
	Cart   *cartridge.Cartridge
	WRAM   *ram.WorkRAM
	HRAM   *ram.HRAM
	PPU    *ppu.PPU
	Timer  *timer.Controller
	Joypad *joypad.Controller
	Serial *serial.Controller
	IRQ    *interrupts.Service

	cgb   bool
	key1  uint8 // KEY1 (0xFF4D): bit 0 armed, bit 7 current speed
	sound [0x30]uint8

	bootROM   []byte
	bootDone  bool

	Log log.Logger
}

// New assembles a bus around already-constructed components. The PPU and
// cartridge are built first by the caller (their CGB-ness both come from
// the loaded ROM's header), everything else is constructed here.
func New(cart *cartridge.Cartridge, cgb bool, irq *interrupts.Service, p *ppu.PPU) *Bus {
	b := &Bus{
		Cart:   cart,
		WRAM:   ram.NewWorkRAM(cgb),
		HRAM:   ram.NewHRAM(),
		PPU:    p,
		Timer:  timer.NewController(irq),
		Joypad: joypad.New(irq),
		Serial: serial.NewController(irq),
		IRQ:    irq,
		cgb:    cgb,
		Log:    log.NewNullLogger(),
	}
	p.AttachBus(b)
	return b
}

// SetBootROM installs a boot ROM image to be mapped over the low cartridge
// addresses (0x0000-0x00FF on DMG, plus 0x0200-0x08FF on CGB, leaving the
// cartridge header window at 0x0100-0x01FF visible throughout) until the
// game writes a nonzero value to 0xFF50. A nil or empty rom is a no-op, so
// the default (no boot ROM configured) always starts post-boot.
func (b *Bus) SetBootROM(rom []byte) {
	if len(rom) == 0 {
		return
	}
	b.bootROM = rom
	b.bootDone = false
}

// DoubleSpeed reports whether the CGB double-speed mode is currently
// active, consulted by Tick to decide how far the PPU advances.
func (b *Bus) DoubleSpeed() bool { return b.cgb && b.key1&0x80 != 0 }

// SpeedSwitchArmed reports whether KEY1 bit 0 is set, meaning a STOP
// instruction should perform the speed switch instead of stopping the CPU.
func (b *Bus) SpeedSwitchArmed() bool { return b.cgb && b.key1&0x01 != 0 }

// CommitSpeedSwitch flips the current speed and disarms the switch; called
// by the CPU when it executes STOP with the switch armed.
func (b *Bus) CommitSpeedSwitch() {
	b.key1 ^= 0x80
	b.key1 &^= 0x01
}

// Tick advances every clocked component by tCycles T-cycles. The LCD dot
// clock runs at a fixed physical rate regardless of CGB double speed, so
// while everything else (timer, cartridge RTC, serial) sees the full
// tCycles, the PPU is only advanced by half that in double speed - the
// same wall-clock dot takes twice as many CPU T-cycles to arrive at.
func (b *Bus) Tick(tCycles int) {
	for i := 0; i < tCycles; i++ {
		b.Timer.Tick()
	}
	ppuCycles := tCycles
	if b.DoubleSpeed() {
		ppuCycles /= 2
	}
	b.PPU.Tick(ppuCycles)
	b.Cart.Tick(tCycles)
	b.Serial.Tick(tCycles)
}

func (b *Bus) Read(address uint16) uint8 {
	if b.bootROMMapped(address) {
		return b.bootROM[address]
	}

	switch {
	case address <= 0x7FFF:
		return b.Cart.Read(address)
	case address >= 0x8000 && address <= 0x9FFF:
		return b.PPU.ReadVRAM(address)
	case address >= 0xA000 && address <= 0xBFFF:
		return b.Cart.Read(address)
	case address >= 0xC000 && address <= 0xFDFF:
		return b.WRAM.Read(address)
	case address >= 0xFE00 && address <= 0xFE9F:
		return b.PPU.ReadOAM(address)
	case address >= 0xFEA0 && address <= 0xFEFF:
		return 0xFF
	case address == 0xFF00:
		return b.Joypad.Read()
	case address == 0xFF01 || address == 0xFF02:
		return b.Serial.Read(address)
	case address >= 0xFF04 && address <= 0xFF07:
		return b.readTimer(address)
	case address == 0xFF0F:
		return b.IRQ.Read(address)
	case address >= 0xFF10 && address <= 0xFF3F:
		return b.sound[address-0xFF10]
	case address == 0xFF4D:
		if !b.cgb {
			return 0xFF
		}
		return b.key1 | 0x7E
	case address == 0xFF50:
		return 0xFF
	case address == 0xFF70:
		return b.WRAM.SVBK()
	case address >= 0xFF80 && address <= 0xFFFE:
		return b.HRAM.Read(address)
	case address == 0xFFFF:
		return b.IRQ.Read(address)
	default:
		// LCDC/STAT/SCY/.../VBK/HDMA1-5/BCPS/BCPD/OCPS/OCPD all live here
		return b.PPU.Read(address)
	}
}

func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address <= 0x7FFF:
		b.Cart.Write(address, value)
	case address >= 0x8000 && address <= 0x9FFF:
		b.PPU.WriteVRAM(address, value)
	case address >= 0xA000 && address <= 0xBFFF:
		b.Cart.Write(address, value)
	case address >= 0xC000 && address <= 0xFDFF:
		b.WRAM.Write(address, value)
	case address >= 0xFE00 && address <= 0xFE9F:
		b.PPU.WriteOAM(address, value)
	case address >= 0xFEA0 && address <= 0xFEFF:
		// unusable
	case address == 0xFF00:
		b.Joypad.Write(value)
	case address == 0xFF01 || address == 0xFF02:
		b.Serial.Write(address, value)
	case address >= 0xFF04 && address <= 0xFF07:
		b.writeTimer(address, value)
	case address == 0xFF0F:
		b.IRQ.Write(address, value)
	case address >= 0xFF10 && address <= 0xFF3F:
		b.sound[address-0xFF10] = value
	case address == 0xFF4D:
		if b.cgb {
			b.key1 = (b.key1 & 0x80) | (value & 0x01)
		}
	case address == 0xFF50:
		if value != 0 {
			b.bootDone = true
		}
	case address == 0xFF70:
		b.WRAM.WriteSVBK(value)
	case address >= 0xFF80 && address <= 0xFFFE:
		b.HRAM.Write(address, value)
	case address == 0xFFFF:
		b.IRQ.Write(address, value)
	default:
		b.PPU.Write(address, value)
	}
}

// bootROMMapped reports whether address currently reads from the boot ROM
// rather than the cartridge: true only while a boot ROM is installed and
// not yet disabled, and only for the windows it actually occupies (the
// cartridge header at 0x0100-0x01FF stays visible even mid-boot, since the
// CGB boot ROM itself reads it to decide DMG-compatibility behavior).
func (b *Bus) bootROMMapped(address uint16) bool {
	if b.bootDone || len(b.bootROM) == 0 {
		return false
	}
	if address <= 0x00FF {
		return true
	}
	return b.cgb && address >= 0x0200 && int(address) < len(b.bootROM)
}

func (b *Bus) readTimer(address uint16) uint8 {
	switch address {
	case 0xFF04:
		return b.Timer.DIV()
	case 0xFF05:
		return b.Timer.TIMA()
	case 0xFF06:
		return b.Timer.TMA()
	case 0xFF07:
		return b.Timer.TAC()
	}
	return 0xFF
}

func (b *Bus) writeTimer(address uint16, value uint8) {
	switch address {
	case 0xFF04:
		b.Timer.WriteDIV()
	case 0xFF05:
		b.Timer.WriteTIMA(value)
	case 0xFF06:
		b.Timer.WriteTMA(value)
	case 0xFF07:
		b.Timer.WriteTAC(value)
	}
}

var _ state.Stater = (*Bus)(nil)

// Save writes every bus-owned component (cartridge, WRAM, HRAM, PPU,
// timer, joypad, serial, interrupts) and then the KEY1/sound tail. The
// motherboard's own Save interleaves the CPU between Cart and the rest to
// match the save-state format's documented component order, so it calls
// SaveMisc directly instead of this method for the KEY1/sound tail.
func (b *Bus) Save(s *state.State) {
	b.Cart.Save(s)
	b.WRAM.Save(s)
	b.HRAM.Save(s)
	b.PPU.Save(s)
	b.Timer.Save(s)
	b.Joypad.Save(s)
	b.Serial.Save(s)
	b.IRQ.Save(s)
	b.SaveMisc(s)
}

func (b *Bus) Load(s *state.State) {
	b.Cart.Load(s)
	b.WRAM.Load(s)
	b.HRAM.Load(s)
	b.PPU.Load(s)
	b.Timer.Load(s)
	b.Joypad.Load(s)
	b.Serial.Load(s)
	b.IRQ.Load(s)
	b.LoadMisc(s)
}

// SaveMisc writes the registers that belong to the bus itself rather than
// any sub-component: KEY1 and the sound register stub.
func (b *Bus) SaveMisc(s *state.State) {
	s.Write8(b.key1)
	s.WriteData(b.sound[:])
}

func (b *Bus) LoadMisc(s *state.State) {
	b.key1 = s.Read8()
	s.ReadData(b.sound[:])
}
