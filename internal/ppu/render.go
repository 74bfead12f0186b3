package ppu

// tile decodes (lazily, with dirty-bit invalidation) the 8x8 2bpp tile at
// the given VRAM bank and tile index (0-383, already resolved from the
// LCDC.4 addressing mode).
func (p *PPU) tile(bank int, index int) *[8][8]uint8 {
	if p.tileDirty[bank][index] {
		base := index * 16
		for row := 0; row < 8; row++ {
			lo := p.vram[bank][base+row*2]
			hi := p.vram[bank][base+row*2+1]
			for col := 0; col < 8; col++ {
				bit := 7 - col
				p.tilePlane[bank][index][row][col] = (lo>>bit)&1 | (hi>>bit)&1<<1
			}
		}
		p.tileDirty[bank][index] = false
	}
	return &p.tilePlane[bank][index]
}

// tileIndex resolves a raw tile-map byte to a 0-383 tile index per LCDC's
// addressing mode: unsigned from 0x8000, or signed (wrapped into the same
// 384-tile space) from 0x9000.
func (p *PPU) tileIndex(raw uint8) int {
	if p.LCDC.TileDataHi {
		return int(raw)
	}
	return int(raw^0x80) + 128
}

type spriteAttr struct {
	y, x, tile, flags uint8
}

func (p *PPU) sprites() []spriteAttr {
	out := make([]spriteAttr, 0, 40)
	for i := 0; i < 40; i++ {
		base := i * 4
		out = append(out, spriteAttr{
			y:     p.oam[base],
			x:     p.oam[base+1],
			tile:  p.oam[base+2],
			flags: p.oam[base+3],
		})
	}
	return out
}

// renderScanline composites background, window, and sprites for line ly
// into the frame buffer, following CGB/DMG priority rules.
func (p *PPU) renderScanline(ly uint8) {
	var bgColorIdx [160]uint8
	var bgAttr [160]uint8 // CGB tile attribute byte, 0 on DMG

	windowVisible := p.LCDC.WindowEnabled && p.WY <= ly
	renderedWindowThisLine := false

	for x := 0; x < 160; x++ {
		useWindow := windowVisible && int(p.WX)-7 <= x
		var mapBase uint16
		var tileRow, tileCol, pixRow, pixCol int

		if useWindow {
			if p.windowLine < 0 {
				p.windowLine = 0
			}
			wy := p.windowLine
			wx := x - (int(p.WX) - 7)
			mapBase = p.LCDC.WindowTileMap()
			tileRow, pixRow = wy/8, wy%8
			tileCol, pixCol = wx/8, wx%8
			renderedWindowThisLine = true
		} else if p.LCDC.BGWindowEnabled || p.CGB {
			bgY := int(ly) + int(p.SCY)
			bgX := x + int(p.SCX)
			mapBase = p.LCDC.BGTileMap()
			tileRow, pixRow = (bgY/8)%32, bgY%8
			tileCol, pixCol = (bgX/8)%32, bgX%8
		} else {
			continue
		}

		mapAddr := mapBase&0x1FFF + uint16(tileRow*32+tileCol)
		rawTile := p.vram[0][mapAddr]
		attr := uint8(0)
		bank := 0
		if p.CGB {
			attr = p.vram[1][mapAddr]
			if attr&0x08 != 0 {
				bank = 1
			}
			if attr&0x20 != 0 {
				pixCol = 7 - pixCol
			}
			if attr&0x40 != 0 {
				pixRow = 7 - pixRow
			}
		}
		idx := p.tileIndex(rawTile)
		pix := p.tile(bank, idx)[pixRow][pixCol]

		bgColorIdx[x] = pix
		bgAttr[x] = attr
	}

	if renderedWindowThisLine {
		p.windowLine++
	}

	// resolve background/window pixels to the output buffer first
	for x := 0; x < 160; x++ {
		if p.CGB {
			pal := bgAttr[x] & 0x07
			p.frame[ly][x] = bgColorIdx[x]
			p.frameCGBPal[ly][x] = pal
			p.frameCGBObj[ly][x] = false
		} else if p.LCDC.BGWindowEnabled {
			p.frame[ly][x] = bgColorIdx[x]
		} else {
			p.frame[ly][x] = 0
		}
	}

	if !p.LCDC.SpritesEnabled {
		return
	}
	p.renderSprites(ly, bgColorIdx, bgAttr)
}

func (p *PPU) renderSprites(ly uint8, bgColorIdx [160]uint8, bgAttr [160]uint8) {
	height := int(p.LCDC.SpriteHeight())
	type visible struct {
		spriteAttr
		oamIndex int
	}
	var onLine []visible
	for i, s := range p.sprites() {
		sy := int(s.y) - 16
		if int(ly) < sy || int(ly) >= sy+height {
			continue
		}
		onLine = append(onLine, visible{s, i})
		if len(onLine) == 10 {
			break
		}
	}

	// DMG priority: lower X wins, ties broken by OAM order. CGB priority
	// (non-DMG-compat mode): OAM order only.
	for px := 0; px < 160; px++ {
		var best *visible
		for i := range onLine {
			s := &onLine[i]
			sx := int(s.x) - 8
			if px < sx || px >= sx+8 {
				continue
			}
			if best == nil {
				best = s
				continue
			}
			if !p.CGB {
				bsx := int(best.x) - 8
				if sx < bsx {
					best = s
				}
			}
		}
		if best == nil {
			continue
		}

		sy := int(best.y) - 16
		row := int(ly) - sy
		flipY := best.flags&0x40 != 0
		flipX := best.flags&0x20 != 0
		if flipY {
			row = height - 1 - row
		}
		tileNum := best.tile
		if height == 16 {
			tileNum &^= 0x01
			if row >= 8 {
				tileNum |= 0x01
				row -= 8
			}
		}
		col := px - (int(best.x) - 8)
		if flipX {
			col = 7 - col
		}

		bank := 0
		if p.CGB && best.flags&0x08 != 0 {
			bank = 1
		}
		pix := p.tile(bank, int(tileNum))[row][col]
		if pix == 0 {
			continue
		}

		bgPriorityOverObj := best.flags&0x80 != 0
		if bgPriorityOverObj && bgColorIdx[px] != 0 {
			if !p.CGB || p.LCDC.BGWindowEnabled {
				continue
			}
		}
		if p.CGB && p.LCDC.BGWindowEnabled && bgAttr[px]&0x80 != 0 && bgColorIdx[px] != 0 {
			continue // CGB master BG-priority attribute bit wins over OBJ
		}

		if p.CGB {
			p.frame[ly][px] = pix
			p.frameCGBPal[ly][px] = best.flags & 0x07
			p.frameCGBObj[ly][px] = true
		} else {
			palNum := (best.flags >> 4) & 0x01
			p.frame[ly][px] = pix
			p.frameCGBPal[ly][px] = palNum
			p.frameCGBObj[ly][px] = true
		}
	}
}

// ResolveColour maps a rendered pixel's color index through the
// appropriate palette to an 8-bit RGB triple.
func (p *PPU) ResolveColour(x, y int) [3]uint8 {
	idx := p.frame[y][x]
	if p.CGB {
		pal := p.frameCGBPal[y][x]
		if p.frameCGBObj[y][x] {
			return p.OCP.Colour(pal, idx)
		}
		return p.BCP.Colour(pal, idx)
	}
	if p.frameCGBObj[y][x] {
		if p.frameCGBPal[y][x] == 0 {
			return p.dmgRamp[p.OBP0.Shades[idx]]
		}
		return p.dmgRamp[p.OBP1.Shades[idx]]
	}
	return p.dmgRamp[p.BGP.Shades[idx]]
}
