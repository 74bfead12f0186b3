package lcd

import "testing"

func TestControlReadWriteRoundTrip(t *testing.T) {
	c := NewControl()
	c.Write(0xE3)
	if got := c.Read(); got != 0xE3 {
		t.Errorf("Read() = 0x%02X, want 0xE3", got)
	}
	if !c.Enabled || !c.SpritesEnabled || !c.BGWindowEnabled {
		t.Errorf("expected LCD/OBJ/BG bits set from 0xE3, got %+v", c)
	}
}

func TestControlTileAddressing(t *testing.T) {
	c := NewControl()
	c.Write(0x00)
	if !c.SignedTileData() || c.TileDataBase() != 0x9000 {
		t.Errorf("expected signed tile data at 0x9000 when LCDC.4=0")
	}
	c.Write(0x10)
	if c.SignedTileData() || c.TileDataBase() != 0x8000 {
		t.Errorf("expected unsigned tile data at 0x8000 when LCDC.4=1")
	}
}

func TestStatusPreservesReadOnlyBits(t *testing.T) {
	s := NewStatus()
	s.Mode = Transfer
	s.Coincidence = true
	s.Write(0x78) // attempt to set bits 0-2 via a CPU write; must be ignored
	if s.Mode != Transfer || !s.Coincidence {
		t.Errorf("CPU write must not alter mode/coincidence bits")
	}
	if got := s.Read() & 0x07; got != 0x07 {
		t.Errorf("Read() low bits = %03b, want 111 (coincidence set, mode=Transfer)", got)
	}
}

func TestMonochromePaletteShades(t *testing.T) {
	var p MonochromePalette
	p.Write(0b11_10_01_00)
	want := [4]uint8{0, 1, 2, 3}
	if p.Shades != want {
		t.Errorf("Shades = %v, want %v", p.Shades, want)
	}
}

func TestColourPaletteAutoIncrement(t *testing.T) {
	p := NewColourPalette()
	p.SetIndex(0x80) // index 0, auto-increment on
	p.Write(0xFF)
	p.Write(0x7F) // full 15-bit white -> color 0 of palette 0
	if got := p.Colour(0, 0); got != [3]uint8{0xFF, 0xFF, 0xFF} {
		t.Errorf("Colour(0,0) = %v, want white", got)
	}
	if p.Index()&0x3F != 2 {
		t.Errorf("expected index to auto-increment to 2, got %d", p.Index()&0x3F)
	}
}
