package ppu

import (
	"testing"

	"github.com/8bitlab/gbcore/internal/interrupts"
)

func newTestPPU() (*PPU, *interrupts.Service) {
	irq := interrupts.NewService()
	irq.Enable = 0x1F
	return New(false, irq), irq
}

func TestModeTimingSumsTo456PerLine(t *testing.T) {
	p, _ := newTestPPU()
	p.Write(0xFF40, 0x91) // enable LCD

	total := 0
	lastMode := p.STAT.Mode
	transitions := 0
	for total < dotsPerLine*2 {
		p.Tick(1)
		total++
		if p.STAT.Mode != lastMode {
			transitions++
			lastMode = p.STAT.Mode
		}
	}
	if transitions == 0 {
		t.Fatal("expected PPU mode to transition at least once")
	}

	// count the dots spent in each mode over one full visible line
	var dots [4]int
	for line := p.LY; p.LY == line; {
		dots[p.STAT.Mode]++
		p.Tick(1)
	}
	if dots[2] != 80 || dots[3] != 170 || dots[0] != 206 {
		t.Errorf("dots per mode: OAM %d, transfer %d, HBlank %d; want 80, 170, 206", dots[2], dots[3], dots[0])
	}
	if sum := dots[0] + dots[1] + dots[2] + dots[3]; sum != dotsPerLine {
		t.Errorf("line took %d dots, want 456", sum)
	}
}

func TestVBlankFiresAtLine144(t *testing.T) {
	p, irq := newTestPPU()
	p.Write(0xFF40, 0x91)

	for i := 0; i < dotsPerLine*visibleLines; i++ {
		p.Tick(1)
	}
	if p.LY != visibleLines {
		t.Fatalf("LY = %d, want %d", p.LY, visibleLines)
	}
	if irq.Flag&(1<<interrupts.VBlankFlag) == 0 {
		t.Error("expected VBlank interrupt to be requested at LY=144")
	}
}

func TestLYWrapsAfterLine153(t *testing.T) {
	p, _ := newTestPPU()
	p.Write(0xFF40, 0x91)

	for i := 0; i < dotsPerLine*totalLines; i++ {
		p.Tick(1)
	}
	if p.LY != 0 {
		t.Fatalf("LY = %d, want 0 after a full frame", p.LY)
	}
}

func TestVRAMBlockedDuringTransfer(t *testing.T) {
	p, _ := newTestPPU()
	p.Write(0xFF40, 0x91)
	p.WriteVRAM(0x8000, 0x11) // before the first Transfer mode, allowed

	for p.STAT.Mode != 3 { // Transfer
		p.Tick(1)
	}
	p.WriteVRAM(0x8000, 0x22) // should be dropped
	if got := p.ReadVRAM(0x9000); got != 0xFF {
		t.Errorf("expected blocked VRAM read to return 0xFF, got 0x%02X", got)
	}
}

func TestOAMDMACopiesFromSource(t *testing.T) {
	p, _ := newTestPPU()
	bus := &fakeBus{}
	for i := range bus.mem {
		bus.mem[i] = uint8(i)
	}
	p.AttachBus(bus)

	p.Write(0xFF46, 0xC0) // source = 0xC000
	for i := 0; i < 160*4+4; i++ {
		p.Tick(1)
	}
	p.Write(0xFF40, 0x00) // disable the LCD so the OAM read below isn't mode-blocked
	if got := p.ReadOAM(0xFE00); got != bus.mem[0xC000] {
		t.Errorf("OAM[0] = 0x%02X, want 0x%02X", got, bus.mem[0xC000])
	}
}

type fakeBus struct {
	mem [0x10000]uint8
}

func (f *fakeBus) Read(address uint16) uint8 { return f.mem[address] }
