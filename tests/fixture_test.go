// Package tests table-drives small hand-authored fixture ROMs through
// Core.TickFrame, in the spirit of the golden-ROM acceptance suites this
// project is normally checked against (Blargg's test ROMs, Mooneye,
// SameSuite, and similar) without shipping any third-party ROM binaries.
package tests

import (
	"strings"
	"testing"

	gbcore "github.com/8bitlab/gbcore"
)

// assembleROM builds a minimal, valid 32KiB cartridge image: a standard
// "NOP; JP 0x0150" entry point, a header requesting the given cartridge
// type/CGB flag, and code placed at 0x150 onward.
func assembleROM(cgb bool, code []byte) []byte {
	rom := make([]byte, 0x8000)
	rom[0x100] = 0x00 // NOP
	rom[0x101] = 0xC3 // JP
	rom[0x102] = 0x50
	rom[0x103] = 0x01
	if cgb {
		rom[0x143] = 0x80
	}
	rom[0x147] = 0x00 // ROM only
	rom[0x148] = 0x00 // 32KiB
	rom[0x149] = 0x00 // no RAM
	copy(rom[0x150:], code)
	return rom
}

// runFrames advances the core up to n frames, stopping early if TickFrame
// reports Stopped.
func runFrames(t *testing.T, c interface {
	TickFrame() gbcore.FrameStatus
}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if c.TickFrame() == gbcore.Stopped {
			return
		}
	}
}

func TestSerialOutputReportsWrittenByte(t *testing.T) {
	// LD A,0x42 ; LDH (SB),A ; LD A,0x81 ; LDH (SC),A ; JR -2 (spin)
	code := []byte{
		0x3E, 0x42,
		0xE0, 0x01,
		0x3E, 0x81,
		0xE0, 0x02,
		0x18, 0xFE,
	}
	c, err := gbcore.New(assembleROM(false, code))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	runFrames(t, c, 2)

	if got := c.SerialOutput(); got != 0x42 {
		t.Fatalf("SerialOutput() = %02X, want 42", got)
	}
}

func TestInfiniteLoopReportsStuckButKeepsRunning(t *testing.T) {
	// JR -2: a tight spin loop, the simplest possible "test passed, halt
	// here" idiom used by real test ROMs (Blargg's included). PC and SP
	// are unchanged across the JR, so CPUStuck correctly flags it - but,
	// being diagnostic only, frames keep being produced regardless.
	code := []byte{0x18, 0xFE}
	c, err := gbcore.New(assembleROM(false, code))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 5; i++ {
		if status := c.TickFrame(); status != gbcore.Ok {
			t.Fatalf("TickFrame() = %v on frame %d, want Ok: a spin loop must never stop frame production", status, i)
		}
	}

	if !c.CPUStuck() {
		t.Error("expected CPUStuck to report true for a self-jump idle loop")
	}
}

func TestHaltWithNoEnabledInterruptsStalls(t *testing.T) {
	// DI ; HALT: disables interrupts then halts with IE left at 0, the
	// classic "accidentally deadlocked" pattern test ROMs guard against.
	// Unlike a plain spin loop, this genuinely can never wake up, so
	// TickFrame reports Stopped instead of producing further frames.
	code := []byte{0xF3, 0x76}
	c, err := gbcore.New(assembleROM(false, code))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	stopped := false
	for i := 0; i < 3; i++ {
		if c.TickFrame() == gbcore.Stopped {
			stopped = true
			break
		}
	}
	if !stopped {
		t.Error("expected TickFrame to report Stopped after HALT with IME clear and IE=0")
	}
}

func TestCGBHeaderSelectsColorMode(t *testing.T) {
	code := []byte{0x18, 0xFE}
	c, err := gbcore.New(assembleROM(true, code))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// CGB and DMG power-on AF differ (0x1180 vs 0x01B0); checking it
	// confirms the header's CGB flag actually selected CGB register
	// initialization, without reaching into gbcore's unexported fields.
	if dump := c.DumpCPUState(); !strings.Contains(dump, "AF=1180") {
		t.Errorf("DumpCPUState() = %q, want AF=1180 (CGB post-boot value)", dump)
	}
}
