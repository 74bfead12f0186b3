package cartridge

import "github.com/8bitlab/gbcore/internal/state"

// ROMOnly is the simplest cartridge: a single fixed 32 KiB image and,
// optionally, a single unbanked RAM region. Writes to 0x2000-0x3FFF behave
// like a degenerate one-bit bank select (mask 0b1, 0 promoted to 1) even
// though there is only ever one bank to select, matching real ROM-only
// carts that still decode the write.
type ROMOnly struct {
	rom ROM
	ram []byte
}

func newROMOnly(rom ROM, ramSize uint) *ROMOnly {
	return &ROMOnly{rom: rom, ram: make([]byte, ramSize)}
}

func (m *ROMOnly) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom.Read(0, address)
	case address < 0x8000:
		return m.rom.Read(1%m.rom.BankCount(), address-0x4000)
	case address >= 0xA000 && address < 0xC000:
		if len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[(address-0xA000)%uint16(len(m.ram))]
	}
	return 0xFF
}

func (m *ROMOnly) Write(address uint16, value uint8) {
	switch {
	case address >= 0xA000 && address < 0xC000:
		if len(m.ram) > 0 {
			m.ram[(address-0xA000)%uint16(len(m.ram))] = value
		}
	}
	// writes elsewhere in ROM space are banking commands with nothing to
	// select on this variant; they are silently ignored
}

func (m *ROMOnly) SaveRAM() []byte   { return m.ram }
func (m *ROMOnly) LoadRAM(d []byte) { copy(m.ram, d) }

var _ state.Stater = (*ROMOnly)(nil)

func (m *ROMOnly) Save(s *state.State) { s.WriteData(m.ram) }
func (m *ROMOnly) Load(s *state.State) { s.ReadData(m.ram) }
