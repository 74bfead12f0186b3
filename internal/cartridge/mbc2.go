package cartridge

import "github.com/8bitlab/gbcore/internal/state"

// MBC2 supports up to 16 ROM banks and has a built-in 512x4-bit RAM array,
// unique among the MBC families: only the low nibble of every byte is
// meaningful, and reads return the high nibble set to all ones.
type MBC2 struct {
	rom ROM
	ram [512]byte

	ramEnabled bool
	romBank    uint8 // 4 bits, 0 promoted to 1
}

func newMBC2(rom ROM) *MBC2 {
	return &MBC2{rom: rom, romBank: 1}
}

func (m *MBC2) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom.Read(0, address)
	case address < 0x8000:
		return m.rom.Read(int(m.romBank)%m.rom.BankCount(), address-0x4000)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[address&0x01FF] | 0xF0
	}
	return 0xFF
}

// Write interprets address bit 8 to distinguish RAM-enable commands from
// ROM-bank-select commands, both of which live in the same 0x0000-0x3FFF
// window.
func (m *MBC2) Write(address uint16, value uint8) {
	switch {
	case address < 0x4000:
		if address&0x0100 != 0 {
			value &= 0x0F
			if value == 0 {
				value = 1
			}
			m.romBank = value
		} else {
			m.ramEnabled = value&0x0F == 0x0A
		}
	case address >= 0xA000 && address < 0xC000:
		if m.ramEnabled {
			m.ram[address&0x01FF] = value&0x0F | 0xF0
		}
	}
}

func (m *MBC2) SaveRAM() []byte  { return m.ram[:] }
func (m *MBC2) LoadRAM(d []byte) { copy(m.ram[:], d) }

var _ state.Stater = (*MBC2)(nil)

func (m *MBC2) Save(s *state.State) {
	s.WriteData(m.ram[:])
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBank)
}

func (m *MBC2) Load(s *state.State) {
	s.ReadData(m.ram[:])
	m.ramEnabled = s.ReadBool()
	m.romBank = s.Read8()
}
