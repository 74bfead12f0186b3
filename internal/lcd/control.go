package lcd

import (
	"github.com/8bitlab/gbcore/internal/state"
	"github.com/8bitlab/gbcore/pkg/bits"
)

// Control is the LCD Control register (LCDC, 0xFF40).
//
//	Bit 7 - LCD & PPU Enable
//	Bit 6 - Window Tile Map Area    (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 5 - Window Enable
//	Bit 4 - BG & Window Tile Data Area (0=8800-97FF signed, 1=8000-8FFF)
//	Bit 3 - BG Tile Map Area        (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 2 - OBJ Size                (0=8x8, 1=8x16)
//	Bit 1 - OBJ Enable
//	Bit 0 - BG & Window Enable/Priority (CGB: BG/window-over-OBJ master priority)
type Control struct {
	Enabled           bool
	WindowTileMapHi   bool
	WindowEnabled     bool
	TileDataHi        bool
	BackgroundTileMap bool
	TallSprites       bool
	SpritesEnabled    bool
	BGWindowEnabled   bool
}

// NewControl returns the power-on value of LCDC (0x91: LCD and BG enabled,
// OBJ disabled, tile data at 0x8000, tile maps at 0x9800).
func NewControl() *Control {
	c := &Control{}
	c.Write(0x91)
	return c
}

func (c *Control) windowTileMapAddress() uint16 {
	if c.WindowTileMapHi {
		return 0x9C00
	}
	return 0x9800
}

func (c *Control) backgroundTileMapAddress() uint16 {
	if c.BackgroundTileMap {
		return 0x9C00
	}
	return 0x9800
}

// WindowTileMap returns the base address of the active window tile map.
func (c *Control) WindowTileMap() uint16 { return c.windowTileMapAddress() }

// BGTileMap returns the base address of the active background tile map.
func (c *Control) BGTileMap() uint16 { return c.backgroundTileMapAddress() }

// SignedTileData reports whether tile indices are interpreted as signed
// offsets from 0x9000 (LCDC.4 = 0).
func (c *Control) SignedTileData() bool { return !c.TileDataHi }

// TileDataBase returns the base address tile indices are relative to.
func (c *Control) TileDataBase() uint16 {
	if c.TileDataHi {
		return 0x8000
	}
	return 0x9000
}

// SpriteHeight returns 8 or 16 depending on LCDC.2.
func (c *Control) SpriteHeight() uint8 {
	if c.TallSprites {
		return 16
	}
	return 8
}

func (c *Control) Write(value uint8) {
	c.Enabled = bits.Test(value, 7)
	c.WindowTileMapHi = bits.Test(value, 6)
	c.WindowEnabled = bits.Test(value, 5)
	c.TileDataHi = bits.Test(value, 4)
	c.BackgroundTileMap = bits.Test(value, 3)
	c.TallSprites = bits.Test(value, 2)
	c.SpritesEnabled = bits.Test(value, 1)
	c.BGWindowEnabled = bits.Test(value, 0)
}

func setIf(v uint8, bit uint8, cond bool) uint8 {
	if cond {
		return bits.Set(v, bit)
	}
	return v
}

func (c *Control) Read() uint8 {
	var v uint8
	v = setIf(v, 7, c.Enabled)
	v = setIf(v, 6, c.WindowTileMapHi)
	v = setIf(v, 5, c.WindowEnabled)
	v = setIf(v, 4, c.TileDataHi)
	v = setIf(v, 3, c.BackgroundTileMap)
	v = setIf(v, 2, c.TallSprites)
	v = setIf(v, 1, c.SpritesEnabled)
	v = setIf(v, 0, c.BGWindowEnabled)
	return v
}

var _ state.Stater = (*Control)(nil)

func (c *Control) Save(s *state.State) { s.Write8(c.Read()) }
func (c *Control) Load(s *state.State) { c.Write(s.Read8()) }
