package interrupts

import "github.com/8bitlab/gbcore/internal/state"

// Vector is the address the CPU jumps to when dispatching a source.
type Vector = uint16

const (
	VBlank Vector = 0x0040
	LCD    Vector = 0x0048
	Timer  Vector = 0x0050
	Serial Vector = 0x0058
	Joypad Vector = 0x0060
)

// Flag indexes a bit in IE/IF. Sources are listed in dispatch-priority
// order, lowest index wins.
type Flag = uint8

const (
	VBlankFlag Flag = iota
	LCDFlag
	TimerFlag
	SerialFlag
	JoypadFlag
)

var vectors = [5]Vector{VBlank, LCD, Timer, Serial, Joypad}

const (
	// FlagRegister is IF (0xFF0F).
	FlagRegister uint16 = 0xFF0F
	// EnableRegister is IE (0xFFFF).
	EnableRegister uint16 = 0xFFFF
)

// Service holds the IE/IF registers and the interrupt master enable flag.
type Service struct {
	Flag   uint8
	Enable uint8

	// IME is the interrupt master enable flag.
	IME bool
	// EIPending is saved and restored with the registers above. The CPU
	// tracks EI's one-instruction delay in its own run mode and neither
	// sets nor reads this field.
	EIPending bool
}

func NewService() *Service {
	return &Service{}
}

// Request raises the given interrupt source.
func (s *Service) Request(flag Flag) {
	s.Flag |= 1 << flag
}

// Clear acknowledges the given interrupt source.
func (s *Service) Clear(flag Flag) {
	s.Flag &^= 1 << flag
}

// Pending reports whether any enabled source is currently requested,
// irrespective of IME - this is what wakes the CPU from HALT/STOP.
func (s *Service) Pending() bool {
	return s.Enable&s.Flag&0x1F != 0
}

// NextVector returns the vector and flag index of the highest-priority
// pending, enabled interrupt, and whether one exists at all.
func (s *Service) NextVector() (Vector, Flag, bool) {
	masked := s.Enable & s.Flag & 0x1F
	if masked == 0 {
		return 0, 0, false
	}
	for i := Flag(0); i < 5; i++ {
		if masked&(1<<i) != 0 {
			return vectors[i], i, true
		}
	}
	return 0, 0, false
}

func (s *Service) Read(address uint16) uint8 {
	switch address {
	case FlagRegister:
		return s.Flag&0x1F | 0xE0
	case EnableRegister:
		return s.Enable
	}
	return 0xFF
}

func (s *Service) Write(address uint16, value uint8) {
	switch address {
	case FlagRegister:
		s.Flag = value & 0x1F
	case EnableRegister:
		s.Enable = value
	}
}

var _ state.Stater = (*Service)(nil)

func (s *Service) Save(st *state.State) {
	st.Write8(s.Flag)
	st.Write8(s.Enable)
	st.WriteBool(s.IME)
	st.WriteBool(s.EIPending)
}

func (s *Service) Load(st *state.State) {
	s.Flag = st.Read8()
	s.Enable = st.Read8()
	s.IME = st.ReadBool()
	s.EIPending = st.ReadBool()
}
