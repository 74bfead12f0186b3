package cartridge

import "github.com/8bitlab/gbcore/internal/state"

// MemoryBankController is the uniform read/write surface every MBC variant
// implements. Read routing is identical across variants; Write routing is
// variant-specific and interprets writes to ROM address space as banking
// commands rather than data.
type MemoryBankController interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	state.Stater
}

// ramController is implemented by variants with battery-backed SRAM.
type ramController interface {
	SaveRAM() []byte
	LoadRAM([]byte)
}

// romBankCount returns how many 16 KiB banks a ROM of the given size has,
// with a floor of 2 (bank 0 + at least one switchable bank).
func romBankCount(romSize int) int {
	n := romSize / 0x4000
	if n < 2 {
		n = 2
	}
	return n
}

func ramBankCount(ramSize uint) int {
	n := int(ramSize / 0x2000)
	if n < 1 {
		n = 1
	}
	return n
}
