package cartridge

import "github.com/8bitlab/gbcore/internal/state"

// MBC1 supports up to 125 switchable ROM banks and up to 4 RAM banks. Two
// banking modes reuse the same 2-bit "bank2" register as either the upper
// bits of the ROM bank (mode 0, the default) or the RAM bank (mode 1).
type MBC1 struct {
	rom ROM
	ram []byte

	ramEnabled bool
	bank1      uint8 // 5 bits, 0x2000-0x3FFF, zero promoted to 1
	bank2      uint8 // 2 bits, 0x4000-0x5FFF
	mode       bool  // 0x6000-0x7FFF
}

func newMBC1(rom ROM, ramSize uint) *MBC1 {
	return &MBC1{rom: rom, ram: make([]byte, ramSize), bank1: 1}
}

func (m *MBC1) romBank() int {
	bank := int(m.bank1) | int(m.bank2)<<5
	return bank % m.rom.BankCount()
}

// zeroBank is the bank mapped at 0x0000-0x3FFF: bank2<<5 in mode 1, always
// 0 in mode 0. This reproduces the 0x20/0x40/0x60 MBC1 bank-0 lockout: in
// mode 1, selecting bank2=1/2/3 with bank1 forced to 0 exposes banks
// 0x20/0x40/0x60 at the LOW window instead of the usual bank 0.
func (m *MBC1) zeroBank() int {
	if !m.mode {
		return 0
	}
	return (int(m.bank2) << 5) % m.rom.BankCount()
}

func (m *MBC1) ramBankIndex() int {
	if !m.mode || len(m.ram) <= 0x2000 {
		return 0
	}
	return int(m.bank2)
}

func (m *MBC1) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom.Read(m.zeroBank(), address)
	case address < 0x8000:
		return m.rom.Read(m.romBank(), address-0x4000)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := m.ramBankIndex()*0x2000 + int(address-0xA000)
		return m.ram[offset%len(m.ram)]
	}
	return 0xFF
}

func (m *MBC1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		value &= 0x1F
		if value == 0 {
			value = 1
		}
		m.bank1 = value
	case address < 0x6000:
		m.bank2 = value & 0x03
	case address < 0x8000:
		m.mode = value&0x01 != 0
	case address >= 0xA000 && address < 0xC000:
		if m.ramEnabled && len(m.ram) > 0 {
			offset := m.ramBankIndex()*0x2000 + int(address-0xA000)
			m.ram[offset%len(m.ram)] = value
		}
	}
}

func (m *MBC1) SaveRAM() []byte  { return m.ram }
func (m *MBC1) LoadRAM(d []byte) { copy(m.ram, d) }

var _ state.Stater = (*MBC1)(nil)

func (m *MBC1) Save(s *state.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnabled)
	s.Write8(m.bank1)
	s.Write8(m.bank2)
	s.WriteBool(m.mode)
}

func (m *MBC1) Load(s *state.State) {
	s.ReadData(m.ram)
	m.ramEnabled = s.ReadBool()
	m.bank1 = s.Read8()
	m.bank2 = s.Read8()
	m.mode = s.ReadBool()
}
