package lcd

import "github.com/8bitlab/gbcore/internal/state"

// MonochromePalette is one of the DMG's three 2-bit-per-shade palette
// registers (BGP 0xFF47, OBP0 0xFF48, OBP1 0xFF49): four color indices
// (0-3) each map to one of four gray shades (0=white, 3=black).
type MonochromePalette struct {
	raw    uint8
	Shades [4]uint8
}

func (p *MonochromePalette) Write(value uint8) {
	p.raw = value
	for i := 0; i < 4; i++ {
		p.Shades[i] = (value >> (i * 2)) & 0x03
	}
}

func (p *MonochromePalette) Read() uint8 { return p.raw }

var _ state.Stater = (*MonochromePalette)(nil)

func (p *MonochromePalette) Save(s *state.State) { s.Write8(p.raw) }
func (p *MonochromePalette) Load(s *state.State) { p.Write(s.Read8()) }
