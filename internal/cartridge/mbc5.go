package cartridge

import "github.com/8bitlab/gbcore/internal/state"

// MBC5 supports up to 512 ROM banks (a full 9-bit bank number) and up to 16
// RAM banks, with optional rumble support. Unlike every earlier MBC, bank 0
// is a legal switchable-window selection and is NOT promoted to 1.
type MBC5 struct {
	rom ROM
	ram []byte

	ramEnabled bool
	romBank    uint16 // 9 bits
	ramBank    uint8  // 4 bits
	hasRumble  bool
}

func newMBC5(rom ROM, ramSize uint, hasRumble bool) *MBC5 {
	return &MBC5{rom: rom, ram: make([]byte, ramSize), romBank: 1, hasRumble: hasRumble}
}

func (m *MBC5) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom.Read(0, address)
	case address < 0x8000:
		return m.rom.Read(int(m.romBank)%m.rom.BankCount(), address-0x4000)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := int(m.ramBank)*0x2000 + int(address-0xA000)
		return m.ram[offset%len(m.ram)]
	}
	return 0xFF
}

func (m *MBC5) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x3000:
		m.romBank = m.romBank&0x100 | uint16(value)
	case address < 0x4000:
		m.romBank = m.romBank&0x0FF | uint16(value&0x01)<<8
	case address < 0x6000:
		// rumble carts wire bit 3 of this write to the rumble motor rather
		// than treating it as part of the RAM bank number
		if m.hasRumble {
			value &= 0x07
		} else {
			value &= 0x0F
		}
		m.ramBank = value
	case address >= 0xA000 && address < 0xC000:
		if m.ramEnabled && len(m.ram) > 0 {
			offset := int(m.ramBank)*0x2000 + int(address-0xA000)
			m.ram[offset%len(m.ram)] = value
		}
	}
}

func (m *MBC5) SaveRAM() []byte  { return m.ram }
func (m *MBC5) LoadRAM(d []byte) { copy(m.ram, d) }

var _ state.Stater = (*MBC5)(nil)

func (m *MBC5) Save(s *state.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnabled)
	s.Write16(m.romBank)
	s.Write8(m.ramBank)
}

func (m *MBC5) Load(s *state.State) {
	s.ReadData(m.ram)
	m.ramEnabled = s.ReadBool()
	m.romBank = s.Read16()
	m.ramBank = s.Read8()
}
