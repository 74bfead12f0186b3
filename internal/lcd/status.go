package lcd

import (
	"github.com/8bitlab/gbcore/internal/state"
	"github.com/8bitlab/gbcore/pkg/bits"
)

// Status is the LCD Status register (STAT, 0xFF41). Bits 0-2 are read-only
// and driven by the PPU's mode machine and LY=LYC comparator; only bits
// 3-6 are writable by the CPU.
type Status struct {
	LYCInterrupt    bool
	OAMInterrupt    bool
	VBlankInterrupt bool
	HBlankInterrupt bool
	Coincidence     bool
	Mode            Mode
}

func NewStatus() *Status {
	return &Status{}
}

func (s *Status) Write(value uint8) {
	s.LYCInterrupt = bits.Test(value, 6)
	s.OAMInterrupt = bits.Test(value, 5)
	s.VBlankInterrupt = bits.Test(value, 4)
	s.HBlankInterrupt = bits.Test(value, 3)
}

func (s *Status) Read() uint8 {
	v := uint8(0x80) // bit 7 always reads high on real hardware
	v = setIf(v, 6, s.LYCInterrupt)
	v = setIf(v, 5, s.OAMInterrupt)
	v = setIf(v, 4, s.VBlankInterrupt)
	v = setIf(v, 3, s.HBlankInterrupt)
	v = setIf(v, 2, s.Coincidence)
	return v | uint8(s.Mode)&0x03
}

// InterruptFor reports whether the given mode transition should assert
// the STAT interrupt source, per the enabled interrupt lines. Callers pass
// the mode being entered.
func (s *Status) InterruptFor(mode Mode) bool {
	switch mode {
	case HBlank:
		return s.HBlankInterrupt
	case VBlank:
		return s.VBlankInterrupt
	case OAMScan:
		return s.OAMInterrupt
	}
	return false
}

var _ state.Stater = (*Status)(nil)

func (s *Status) Save(st *state.State) {
	st.Write8(s.Read())
}

func (s *Status) Load(st *state.State) {
	v := st.Read8()
	s.Write(v)
	s.Coincidence = bits.Test(v, 2)
	s.Mode = Mode(v & 0x03)
}
