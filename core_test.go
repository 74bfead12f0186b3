package gbcore

import (
	"bytes"
	"testing"

	"github.com/8bitlab/gbcore/internal/joypad"
)

// blankROM returns a 32KiB ROM-only cartridge image with a well-formed
// header, optionally requesting CGB support.
func blankROM(cgb bool) []byte {
	rom := make([]byte, 0x8000)
	for i := range rom {
		rom[i] = 0xFF
	}
	if cgb {
		rom[0x143] = 0x80
	}
	rom[0x147] = 0x00 // ROM only
	rom[0x148] = 0x00 // 32KiB
	rom[0x149] = 0x00 // no RAM
	return rom
}

func TestNewDMGPostBootRegisters(t *testing.T) {
	c, err := New(blankROM(false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.mb.CPU.PC != 0x100 {
		t.Fatalf("PC = %04X, want 0100", c.mb.CPU.PC)
	}
	if c.mb.CPU.A != 0x01 || c.mb.CPU.F != 0xB0 {
		t.Errorf("AF = %02X%02X, want 01B0", c.mb.CPU.A, c.mb.CPU.F)
	}
}

func TestNewCGBPostBootRegisters(t *testing.T) {
	c, err := New(blankROM(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.mb.CPU.A != 0x11 || c.mb.CPU.F != 0x80 {
		t.Errorf("AF = %02X%02X, want 1180", c.mb.CPU.A, c.mb.CPU.F)
	}
}

func TestReadScreenDimensions(t *testing.T) {
	c, err := New(blankROM(false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	screen := c.ReadScreen()
	if len(screen) != 160*144 {
		t.Fatalf("len(screen) = %d, want %d", len(screen), 160*144)
	}
}

func TestButtonPressRelease(t *testing.T) {
	c, err := New(blankROM(false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.ButtonPress(joypad.ButtonA)
	c.ButtonRelease(joypad.ButtonA)
}

func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	c, err := New(blankROM(false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.mb.CPU.A = 0x77

	var buf bytes.Buffer
	if err := c.SaveState(&buf); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	c2, err := New(blankROM(false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c2.LoadState(&buf); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if c2.mb.CPU.A != 0x77 {
		t.Fatalf("restored A = %02X, want 77", c2.mb.CPU.A)
	}
}

func TestLoadStateRejectsBadMagic(t *testing.T) {
	c, err := New(blankROM(false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.LoadState(bytes.NewReader([]byte("not a save state"))); err == nil {
		t.Error("expected LoadState to reject a stream with the wrong magic")
	}
}

func TestWithRandomizeFillsWorkRAM(t *testing.T) {
	c, err := New(blankROM(false), WithRandomize())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	nonZero := false
	for addr := uint16(0xC000); addr < 0xD000; addr++ {
		if c.mb.Bus.Read(addr) != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Error("expected WithRandomize to leave non-zero bytes in work RAM")
	}
}

func TestCPUStuckInitiallyFalse(t *testing.T) {
	c, err := New(blankROM(false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.CPUStuck() {
		t.Error("a freshly constructed core should not report CPUStuck")
	}
}
