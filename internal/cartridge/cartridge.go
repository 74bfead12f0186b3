// Package cartridge decodes Game Boy cartridge images and exposes the
// variant-specific Memory Bank Controller behind a uniform interface.
package cartridge

import (
	"strconv"

	"github.com/cespare/xxhash"
	"github.com/pkg/errors"

	"github.com/8bitlab/gbcore/internal/state"
)

// Cartridge wraps a parsed header around the concrete MemoryBankController
// for the cartridge type it describes.
type Cartridge struct {
	MemoryBankController
	header Header
	hash   uint64
}

// ticker is implemented by MBC variants that run a real-time clock.
type ticker interface {
	Tick(tCycles int)
}

// Option configures a Cartridge at construction time.
type Option func(*Cartridge)

// WithInitialRAM seeds battery-backed SRAM from a previously saved image,
// as produced by SaveRAM. Only RAM bytes are restored; an MBC3 real-time
// clock is not part of the image. It is a no-op if the cartridge type
// carries no RAM.
func WithInitialRAM(data []byte) Option {
	return func(c *Cartridge) {
		if len(data) > 0 {
			c.LoadRAM(data)
		}
	}
}

// New parses a raw ROM image and constructs the cartridge matching its
// header's declared type. Images shorter than the header window are
// rejected rather than silently treated as empty.
func New(rom []byte, opts ...Option) (*Cartridge, error) {
	if len(rom) < 0x150 {
		return nil, errors.Errorf("cartridge: image too small (%d bytes, need at least %d)", len(rom), 0x150)
	}

	header, err := ParseHeader(rom[0x100:0x150])
	if err != nil {
		return nil, errors.Wrap(err, "cartridge: parsing header")
	}

	romView := NewROM(rom)
	c := &Cartridge{header: header, hash: xxhash.Sum64(rom)}

	switch header.CartridgeType {
	case ROM, ROMRAM, ROMRAMBattery:
		c.MemoryBankController = newROMOnly(romView, header.RAMSize)
	case MBC1, MBC1RAM, MBC1RAMBattery:
		c.MemoryBankController = newMBC1(romView, header.RAMSize)
	case MBC2, MBC2Battery:
		c.MemoryBankController = newMBC2(romView)
	case MBC3, MBC3RAM, MBC3RAMBattery, MBC3TimerBattery, MBC3TimerRAMBatt:
		c.MemoryBankController = newMBC3(romView, header.RAMSize, header.CartridgeType.hasRTC())
	case MBC5, MBC5RAM, MBC5RAMBattery, MBC5Rumble, MBC5RumbleRAM, MBC5RumbleRAMBatt:
		hasRumble := header.CartridgeType == MBC5Rumble || header.CartridgeType == MBC5RumbleRAM || header.CartridgeType == MBC5RumbleRAMBatt
		c.MemoryBankController = newMBC5(romView, header.RAMSize, hasRumble)
	default:
		return nil, errors.Errorf("cartridge: unsupported cartridge type %s (0x%02X)", header.CartridgeType, uint8(header.CartridgeType))
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NewBlank returns a cartridge with no inserted ROM: a 0xFF-filled image
// whose header declares a 32 KiB ROM-only cartridge with no RAM, used when
// a core is constructed before a ROM is loaded.
func NewBlank() *Cartridge {
	blank := make([]byte, 0x8000)
	for i := range blank {
		blank[i] = 0xFF
	}
	blank[0x147] = 0x00 // ROM only
	blank[0x148] = 0x00 // 32 KiB
	blank[0x149] = 0x00 // no RAM
	rom, err := New(blank)
	if err != nil {
		// a 32 KiB ROM-only header always parses
		panic(err)
	}
	return rom
}

func (c *Cartridge) Header() Header { return c.header }
func (c *Cartridge) Title() string  { return c.header.Title }
func (c *Cartridge) HasBattery() bool {
	return c.header.CartridgeType.hasBattery()
}

// Filename returns a filesystem-safe, collision-resistant save-file stem
// derived from the ROM contents rather than the (user-editable) title.
func (c *Cartridge) Filename() string {
	return strconv.FormatUint(c.hash, 16)
}

// Tick advances the cartridge's real-time clock, if it has one.
func (c *Cartridge) Tick(tCycles int) {
	if t, ok := c.MemoryBankController.(ticker); ok {
		t.Tick(tCycles)
	}
}

// SaveRAM returns the battery-backed SRAM contents, or nil if this
// cartridge variant has none.
func (c *Cartridge) SaveRAM() []byte {
	if r, ok := c.MemoryBankController.(ramController); ok {
		return r.SaveRAM()
	}
	return nil
}

// LoadRAM restores battery-backed SRAM contents, a no-op if this cartridge
// variant has none.
func (c *Cartridge) LoadRAM(data []byte) {
	if r, ok := c.MemoryBankController.(ramController); ok {
		r.LoadRAM(data)
	}
}

var _ state.Stater = (*Cartridge)(nil)

func (c *Cartridge) Save(s *state.State) { c.MemoryBankController.Save(s) }
func (c *Cartridge) Load(s *state.State) { c.MemoryBankController.Load(s) }
