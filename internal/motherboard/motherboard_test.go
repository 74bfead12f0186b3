package motherboard

import (
	"testing"

	"github.com/8bitlab/gbcore/internal/cartridge"
	"github.com/8bitlab/gbcore/internal/state"
)

func TestStepExecutesInstructions(t *testing.T) {
	m := New(cartridge.NewBlank(), false)
	m.CPU.PC = 0xC000
	m.Bus.Write(0xC000, 0x3E) // LD A,0x42
	m.Bus.Write(0xC001, 0x42)
	m.Step()
	if m.CPU.A != 0x42 {
		t.Fatalf("A = %02X, want 42", m.CPU.A)
	}
}

func TestTickFrameAdvancesFrameCount(t *testing.T) {
	m := New(cartridge.NewBlank(), false)
	m.CPU.PC = 0xC000
	m.Bus.Write(0xC000, 0x18) // JR -2, spins forever producing frames
	m.Bus.Write(0xC001, 0xFE)
	if !m.TickFrame() {
		t.Fatal("expected TickFrame to complete a frame")
	}
	if m.FrameCount() != 1 {
		t.Fatalf("FrameCount() = %d, want 1", m.FrameCount())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := New(cartridge.NewBlank(), false)
	m.CPU.PC = 0xC000
	m.Bus.Write(0xC000, 0x3E)
	m.Bus.Write(0xC001, 0x99)
	m.Step()

	st := state.New()
	m.Save(st)

	m2 := New(cartridge.NewBlank(), false)
	ld := state.FromBytes(st.Bytes())
	m2.Load(ld)

	if m2.CPU.A != 0x99 {
		t.Fatalf("restored A = %02X, want 99", m2.CPU.A)
	}
	if m2.FrameCount() != m.FrameCount() {
		t.Fatalf("restored FrameCount = %d, want %d", m2.FrameCount(), m.FrameCount())
	}
}
