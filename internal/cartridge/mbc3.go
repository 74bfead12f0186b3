package cartridge

import "github.com/8bitlab/gbcore/internal/state"

// MBC3 supports up to 128 ROM banks, up to 4 RAM banks, and an optional
// real-time clock whose registers share the RAM-bank-select address space:
// selecting 0x08-0x0C switches the 0xA000-0xBFFF window to one of the RTC
// registers instead of a RAM bank.
type MBC3 struct {
	rom ROM
	ram []byte
	rtc *RTC // nil if this cartridge has no RTC chip

	ramEnabled bool
	romBank    uint8 // 7 bits, 0 promoted to 1
	bankSel    uint8 // 0x00-0x03 selects a RAM bank, 0x08-0x0C selects an RTC register
}

func newMBC3(rom ROM, ramSize uint, hasRTC bool) *MBC3 {
	m := &MBC3{rom: rom, ram: make([]byte, ramSize), romBank: 1}
	if hasRTC {
		m.rtc = &RTC{}
	}
	return m
}

// Tick advances the cartridge's real-time clock, a no-op on variants
// without one.
func (m *MBC3) Tick(tCycles int) {
	if m.rtc != nil {
		m.rtc.Tick(tCycles)
	}
}

func (m *MBC3) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom.Read(0, address)
	case address < 0x8000:
		return m.rom.Read(int(m.romBank)%m.rom.BankCount(), address-0x4000)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.bankSel >= 0x08 {
			if m.rtc == nil {
				return 0xFF
			}
			return m.rtc.Read(m.bankSel)
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		offset := int(m.bankSel)*0x2000 + int(address-0xA000)
		return m.ram[offset%len(m.ram)]
	}
	return 0xFF
}

func (m *MBC3) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		value &= 0x7F
		if value == 0 {
			value = 1
		}
		m.romBank = value
	case address < 0x6000:
		m.bankSel = value
	case address < 0x8000:
		if m.rtc != nil {
			m.rtc.Latch(value)
		}
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return
		}
		if m.bankSel >= 0x08 {
			if m.rtc != nil {
				m.rtc.Write(m.bankSel, value)
			}
			return
		}
		if len(m.ram) > 0 {
			offset := int(m.bankSel)*0x2000 + int(address-0xA000)
			m.ram[offset%len(m.ram)] = value
		}
	}
}

func (m *MBC3) SaveRAM() []byte  { return m.ram }
func (m *MBC3) LoadRAM(d []byte) { copy(m.ram, d) }

var _ state.Stater = (*MBC3)(nil)

func (m *MBC3) Save(s *state.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBank)
	s.Write8(m.bankSel)
	s.WriteBool(m.rtc != nil)
	if m.rtc != nil {
		m.rtc.Save(s)
	}
}

func (m *MBC3) Load(s *state.State) {
	s.ReadData(m.ram)
	m.ramEnabled = s.ReadBool()
	m.romBank = s.Read8()
	m.bankSel = s.Read8()
	hasRTC := s.ReadBool()
	if hasRTC {
		if m.rtc == nil {
			m.rtc = &RTC{}
		}
		m.rtc.Load(s)
	} else {
		m.rtc = nil
	}
}
