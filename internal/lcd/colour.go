package lcd

import "github.com/8bitlab/gbcore/internal/state"

// ColourPalette is the CGB color palette RAM backing BCPS/BCPD (background)
// and OCPS/OCPD (objects): 8 palettes of 4 RGB555 colors each, addressed
// through an auto-incrementing index register.
type ColourPalette struct {
	colors       [8][4][3]uint8
	index        uint8
	incrementing bool
}

// SetIndex writes the BCPS/OCPS index register: bits 0-5 select a byte
// within the 64-byte palette RAM, bit 7 enables auto-increment on writes.
func (p *ColourPalette) SetIndex(value uint8) {
	p.index = value & 0x3F
	p.incrementing = value&0x80 != 0
}

// Index returns the current BCPS/OCPS register value.
func (p *ColourPalette) Index() uint8 {
	if p.incrementing {
		return p.index | 0x80
	}
	return p.index
}

// Read returns the byte at the current index (BCPD/OCPD read).
func (p *ColourPalette) Read() uint8 {
	pal, col := p.index>>3, p.index&0x07>>1
	packed := uint16(p.colors[pal][col][0]>>3) | uint16(p.colors[pal][col][1]>>3)<<5 | uint16(p.colors[pal][col][2]>>3)<<10
	if p.index&0x01 == 0 {
		return uint8(packed)
	}
	return uint8(packed >> 8)
}

// Write updates the byte at the current index (BCPD/OCPD write), advancing
// the index afterward if auto-increment is enabled.
func (p *ColourPalette) Write(value uint8) {
	pal, col := p.index>>3, p.index&0x07>>1
	packed := uint16(p.colors[pal][col][0]>>3) | uint16(p.colors[pal][col][1]>>3)<<5 | uint16(p.colors[pal][col][2]>>3)<<10
	if p.index&0x01 == 0 {
		packed = packed&0xFF00 | uint16(value)
	} else {
		packed = packed&0x00FF | uint16(value)<<8
	}
	// widen each 5-bit channel to 8 bits so 0x1F maps to 0xFF
	r, g, b := uint8(packed)&0x1F, uint8(packed>>5)&0x1F, uint8(packed>>10)&0x1F
	p.colors[pal][col][0] = r<<3 | r>>2
	p.colors[pal][col][1] = g<<3 | g>>2
	p.colors[pal][col][2] = b<<3 | b>>2

	if p.incrementing {
		p.index = (p.index + 1) & 0x3F
	}
}

// SetPalette overwrites one of the 8 palette slots directly with 8-bit RGB
// triples, bypassing the RGB555 bus encoding BCPD/OCPD writes go through.
// Used to seed a CGB colourisation palette for DMG-only cartridges, which
// real hardware selects from a built-in table rather than game writes.
func (p *ColourPalette) SetPalette(palette uint8, colours [4][3]uint8) {
	p.colors[palette] = colours
}

// Colour returns the 8-bit RGB color for a given palette/color index pair,
// used by the renderer's compositor.
func (p *ColourPalette) Colour(palette, colour uint8) [3]uint8 {
	return p.colors[palette][colour]
}

// NewColourPalette returns a palette RAM initialized to all-white, the
// power-on state before any game writes to it.
func NewColourPalette() *ColourPalette {
	p := &ColourPalette{}
	for i := range p.colors {
		for j := range p.colors[i] {
			p.colors[i][j] = [3]uint8{0xFF, 0xFF, 0xFF}
		}
	}
	return p
}

var _ state.Stater = (*ColourPalette)(nil)

func (p *ColourPalette) Save(s *state.State) {
	for _, pal := range p.colors {
		for _, c := range pal {
			s.Write8(c[0])
			s.Write8(c[1])
			s.Write8(c[2])
		}
	}
	s.Write8(p.index)
	s.WriteBool(p.incrementing)
}

func (p *ColourPalette) Load(s *state.State) {
	for i := range p.colors {
		for j := range p.colors[i] {
			p.colors[i][j][0] = s.Read8()
			p.colors[i][j][1] = s.Read8()
			p.colors[i][j][2] = s.Read8()
		}
	}
	p.index = s.Read8()
	p.incrementing = s.ReadBool()
}
