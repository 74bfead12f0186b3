package cartridge

import "fmt"

// Mode records the CGB-compatibility byte at 0x0143.
type Mode uint8

const (
	ModeDMGOnly Mode = iota
	ModeCGBSupported
	ModeCGBOnly
)

var ramSizes = map[uint8]uint{
	0x00: 0,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Type is the cartridge-type byte at 0x0147; it selects the MBC family.
type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBattery    Type = 0x03
	MBC2              Type = 0x05
	MBC2Battery       Type = 0x06
	ROMRAM            Type = 0x08
	ROMRAMBattery     Type = 0x09
	MBC3TimerBattery  Type = 0x0F
	MBC3TimerRAMBatt  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBattery    Type = 0x13
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBattery    Type = 0x1B
	MBC5Rumble        Type = 0x1C
	MBC5RumbleRAM     Type = 0x1D
	MBC5RumbleRAMBatt Type = 0x1E
)

func (t Type) String() string {
	switch t {
	case ROM:
		return "ROM"
	case MBC1, MBC1RAM, MBC1RAMBattery:
		return "MBC1"
	case MBC2, MBC2Battery:
		return "MBC2"
	case ROMRAM, ROMRAMBattery:
		return "ROM+RAM"
	case MBC3TimerBattery, MBC3TimerRAMBatt, MBC3, MBC3RAM, MBC3RAMBattery:
		return "MBC3"
	case MBC5, MBC5RAM, MBC5RAMBattery, MBC5Rumble, MBC5RumbleRAM, MBC5RumbleRAMBatt:
		return "MBC5"
	default:
		return fmt.Sprintf("unknown(%02X)", uint8(t))
	}
}

func (t Type) hasBattery() bool {
	switch t {
	case MBC1RAMBattery, MBC2Battery, ROMRAMBattery, MBC3TimerBattery,
		MBC3TimerRAMBatt, MBC3RAMBattery, MBC5RAMBattery, MBC5RumbleRAMBatt:
		return true
	}
	return false
}

func (t Type) hasRTC() bool {
	return t == MBC3TimerBattery || t == MBC3TimerRAMBatt
}

// Header holds the fields of the 0x0100-0x014F cartridge header.
type Header struct {
	Title          string
	CGBMode        Mode
	SGBFlag        bool
	CartridgeType  Type
	ROMSize        uint
	RAMSize        uint
	HeaderChecksum uint8
	GlobalChecksum uint16
}

// ParseHeader decodes the 0x50-byte header window (0x0100-0x014F) of a ROM.
func ParseHeader(raw []byte) (Header, error) {
	if len(raw) != 0x50 {
		return Header{}, fmt.Errorf("cartridge: header window must be 80 bytes, got %d", len(raw))
	}
	h := Header{}

	switch raw[0x43] {
	case 0x80:
		h.CGBMode = ModeCGBSupported
	case 0xC0:
		h.CGBMode = ModeCGBOnly
	default:
		h.CGBMode = ModeDMGOnly
	}

	if h.CGBMode == ModeDMGOnly {
		h.Title = trimTitle(raw[0x34:0x44])
	} else {
		h.Title = trimTitle(raw[0x34:0x43])
	}

	h.SGBFlag = raw[0x46] == 0x03
	h.CartridgeType = Type(raw[0x47])
	h.ROMSize = (32 * 1024) * (1 << raw[0x48])
	h.RAMSize = ramSizes[raw[0x49]]
	h.HeaderChecksum = raw[0x4D]
	h.GlobalChecksum = uint16(raw[0x4E])<<8 | uint16(raw[0x4F])

	return h, nil
}

func trimTitle(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// IsCGB reports whether the header requests CGB hardware features at all
// (either "enhanced" or "CGB only").
func (h *Header) IsCGB() bool {
	return h.CGBMode == ModeCGBSupported || h.CGBMode == ModeCGBOnly
}

func (h *Header) String() string {
	return fmt.Sprintf("%s [%s] ROM=%dKiB RAM=%dKiB", h.Title, h.CartridgeType, h.ROMSize/1024, h.RAMSize/1024)
}
