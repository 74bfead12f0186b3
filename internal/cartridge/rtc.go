package cartridge

import "github.com/8bitlab/gbcore/internal/state"

// dmgClockHz is the reference clock the RTC free-runs at regardless of the
// host's actual frame rate, so save states stay portable across speeds.
const dmgClockHz = 4194304

// RTC models the MBC3 real-time-clock registers: seconds, minutes, hours,
// a 9-bit day counter split across two registers, a halt flag and a day
// counter carry (overflow) flag. It free-runs continuously; latching only
// affects what register reads observe, not the running clock.
type RTC struct {
	Seconds, Minutes, Hours uint8
	DayLow                  uint8
	DayHigh                 uint8 // bit0: day bit 8, bit6: halt, bit7: carry

	latch    [5]uint8
	latching bool // saw a 0x00 write, waiting for the matching 0x01
	cycles   int64
}

func (r *RTC) halted() bool { return r.DayHigh&0x40 != 0 }

// Tick advances the clock by the given number of T-cycles.
func (r *RTC) Tick(tCycles int) {
	if r.halted() {
		return
	}
	r.cycles += int64(tCycles)
	for r.cycles >= dmgClockHz {
		r.cycles -= dmgClockHz
		r.tickSecond()
	}
}

func (r *RTC) tickSecond() {
	r.Seconds++
	if r.Seconds < 60 {
		return
	}
	r.Seconds = 0
	r.Minutes++
	if r.Minutes < 60 {
		return
	}
	r.Minutes = 0
	r.Hours++
	if r.Hours < 24 {
		return
	}
	r.Hours = 0

	day := uint16(r.DayLow) | uint16(r.DayHigh&0x01)<<8
	day++
	if day > 0x1FF {
		day = 0
		r.DayHigh |= 0x80 // carry
	}
	r.DayLow = uint8(day & 0xFF)
	r.DayHigh = r.DayHigh&0xFE | uint8(day>>8&0x01)
}

// Latch captures the current register values into the latch snapshot,
// triggered by a 0x00-then-0x01 write pair to 0x6000-0x7FFF.
func (r *RTC) Latch(value uint8) {
	if value == 0x00 {
		r.latching = true
		return
	}
	if value == 0x01 && r.latching {
		r.latch = [5]uint8{r.Seconds, r.Minutes, r.Hours, r.DayLow, r.DayHigh}
	}
	r.latching = false
}

// Read returns a latched register, reg in 0x08-0x0C (seconds..day-high).
func (r *RTC) Read(reg uint8) uint8 {
	if reg < 0x08 || reg > 0x0C {
		return 0xFF
	}
	return r.latch[reg-0x08]
}

// Write updates a live register (not the latch snapshot), reg in 0x08-0x0C.
func (r *RTC) Write(reg, value uint8) {
	switch reg {
	case 0x08:
		r.Seconds = value % 60
	case 0x09:
		r.Minutes = value % 60
	case 0x0A:
		r.Hours = value % 24
	case 0x0B:
		r.DayLow = value
	case 0x0C:
		r.DayHigh = value & 0xC1
	}
}

var _ state.Stater = (*RTC)(nil)

func (r *RTC) Save(s *state.State) {
	s.Write8(r.Seconds)
	s.Write8(r.Minutes)
	s.Write8(r.Hours)
	s.Write8(r.DayLow)
	s.Write8(r.DayHigh)
	for _, b := range r.latch {
		s.Write8(b)
	}
	s.WriteBool(r.latching)
	s.Write64(uint64(r.cycles))
}

func (r *RTC) Load(s *state.State) {
	r.Seconds = s.Read8()
	r.Minutes = s.Read8()
	r.Hours = s.Read8()
	r.DayLow = s.Read8()
	r.DayHigh = s.Read8()
	for i := range r.latch {
		r.latch[i] = s.Read8()
	}
	r.latching = s.ReadBool()
	r.cycles = int64(s.Read64())
}
