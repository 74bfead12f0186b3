package mmu

import (
	"testing"

	"github.com/8bitlab/gbcore/internal/cartridge"
	"github.com/8bitlab/gbcore/internal/interrupts"
	"github.com/8bitlab/gbcore/internal/ppu"
)

func newTestBus(cgb bool) *Bus {
	irq := interrupts.NewService()
	return New(cartridge.NewBlank(), cgb, irq, ppu.New(cgb, irq))
}

func TestWorkRAMRoundTrip(t *testing.T) {
	b := newTestBus(false)
	b.Write(0xC012, 0x42)
	if got := b.Read(0xC012); got != 0x42 {
		t.Errorf("WRAM read = 0x%02X, want 0x42", got)
	}
	if got := b.Read(0xE012); got != 0x42 {
		t.Errorf("echo read = 0x%02X, want 0x42", got)
	}
}

func TestHRAMRoundTrip(t *testing.T) {
	b := newTestBus(false)
	b.Write(0xFF90, 0x7A)
	if got := b.Read(0xFF90); got != 0x7A {
		t.Errorf("HRAM read = 0x%02X, want 0x7A", got)
	}
}

func TestInterruptRegisters(t *testing.T) {
	b := newTestBus(false)
	b.Write(0xFFFF, 0x1F)
	b.Write(0xFF0F, 0x01)
	if got := b.Read(0xFFFF); got != 0x1F {
		t.Errorf("IE = 0x%02X, want 0x1F", got)
	}
	if got := b.Read(0xFF0F); got&0x1F != 0x01 {
		t.Errorf("IF = 0x%02X, want low bit set", got)
	}
}

func TestUnusableRegionReadsFF(t *testing.T) {
	b := newTestBus(false)
	if got := b.Read(0xFEA0); got != 0xFF {
		t.Errorf("unusable region = 0x%02X, want 0xFF", got)
	}
}

func TestDoubleSpeedSwitchOnlyOnCGB(t *testing.T) {
	dmg := newTestBus(false)
	dmg.Write(0xFF4D, 0x01)
	if dmg.SpeedSwitchArmed() {
		t.Error("DMG bus should never report the speed switch armed")
	}

	cgb := newTestBus(true)
	cgb.Write(0xFF4D, 0x01)
	if !cgb.SpeedSwitchArmed() {
		t.Fatal("expected speed switch to be armed after writing KEY1 bit 0")
	}
	cgb.CommitSpeedSwitch()
	if !cgb.DoubleSpeed() {
		t.Error("expected double speed after committing the switch")
	}
	if cgb.SpeedSwitchArmed() {
		t.Error("expected the arm bit to clear after committing")
	}
}

func TestDoubleSpeedHalvesPPUAdvancement(t *testing.T) {
	b := newTestBus(true)
	b.Write(0xFF40, 0x91) // enable LCD
	b.Write(0xFF4D, 0x01)
	b.CommitSpeedSwitch()
	if !b.DoubleSpeed() {
		t.Fatal("expected double speed active after committing the switch")
	}

	const dotsPerFrame = 456 * 154
	// run to the first VBlank entry so the count below spans one full frame
	for !b.PPU.FrameReady() {
		b.Tick(4)
	}
	cycles := 0
	for !b.PPU.FrameReady() {
		b.Tick(4)
		cycles += 4
	}
	if want := dotsPerFrame * 2; cycles != want {
		t.Errorf("cycles to complete one frame at double speed = %d, want %d (2x single-speed)", cycles, want)
	}
}

func TestSoundRegistersPersistWrites(t *testing.T) {
	b := newTestBus(false)
	b.Write(0xFF11, 0x80)
	if got := b.Read(0xFF11); got != 0x80 {
		t.Errorf("sound register readback = 0x%02X, want 0x80", got)
	}
}

func TestPPURegisterPassthrough(t *testing.T) {
	b := newTestBus(false)
	b.Write(0xFF40, 0x91)
	if got := b.Read(0xFF40); got != 0x91 {
		t.Errorf("LCDC readback = 0x%02X, want 0x91", got)
	}
}
