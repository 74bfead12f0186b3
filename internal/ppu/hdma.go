package ppu

import "github.com/8bitlab/gbcore/internal/state"

// HDMA is the CGB VRAM DMA controller (HDMA1-5, 0xFF51-0xFF55): general
// purpose transfers run to completion immediately, HBlank transfers move
// one 16-byte block per HBlank period the LCD enters while a transfer is
// active.
type HDMA struct {
	source, destination uint16
	remaining            uint8 // blocks left, valid while active
	active                bool
	hblankMode            bool

	ppu *PPU
	bus dmaBus
}

func NewHDMA(p *PPU) *HDMA { return &HDMA{ppu: p} }

func (h *HDMA) AttachBus(bus dmaBus) { h.bus = bus }

const (
	regHDMA1 = 0xFF51
	regHDMA2 = 0xFF52
	regHDMA3 = 0xFF53
	regHDMA4 = 0xFF54
	regHDMA5 = 0xFF55
)

func (h *HDMA) Read(address uint16) uint8 {
	if address != regHDMA5 {
		return 0xFF
	}
	if !h.active {
		return 0xFF
	}
	v := uint8(0)
	if !h.hblankMode {
		v = 0x80
	}
	return v | (h.remaining-1)&0x7F
}

func (h *HDMA) Write(address uint16, value uint8) {
	if !h.ppu.CGB {
		return
	}
	switch address {
	case regHDMA1:
		h.source = h.source&0x00F0 | uint16(value)<<8
	case regHDMA2:
		h.source = h.source&0xFF00 | uint16(value&0xF0)
	case regHDMA3:
		h.destination = h.destination&0x00F0 | uint16(value&0x1F)<<8
	case regHDMA4:
		h.destination = h.destination&0xFF00 | uint16(value&0xF0)
	case regHDMA5:
		h.remaining = value&0x7F + 1
		h.hblankMode = value&0x80 != 0
		if h.hblankMode {
			h.active = true
		} else {
			if h.active {
				// writing a GDMA command while an HDMA transfer is in
				// flight cancels it instead of starting a new transfer
				h.active = false
				return
			}
			h.copyBlocks(h.remaining)
			h.remaining = 0
			h.active = false
		}
	}
}

func (h *HDMA) copyBlocks(blocks uint8) {
	if h.bus == nil {
		return
	}
	for b := uint8(0); b < blocks; b++ {
		for i := 0; i < 16; i++ {
			h.ppu.writeVRAMRaw(h.destination&0x1FFF, h.bus.Read(h.source))
			h.source++
			h.destination++
		}
	}
}

// enterHBlank is called by the PPU every time it transitions into mode 0;
// it performs one 16-byte block of a pending HBlank-mode transfer.
func (h *HDMA) enterHBlank() {
	if !h.active || !h.hblankMode {
		return
	}
	h.copyBlocks(1)
	h.remaining--
	if h.remaining == 0 {
		h.active = false
	}
}

// tickGeneralPurpose is a no-op hook kept symmetrical with DMA.Tick; real
// GDMA transfers complete synchronously in Write.
func (h *HDMA) tickGeneralPurpose() {}

var _ state.Stater = (*HDMA)(nil)

func (h *HDMA) Save(s *state.State) {
	s.Write16(h.source)
	s.Write16(h.destination)
	s.Write8(h.remaining)
	s.WriteBool(h.active)
	s.WriteBool(h.hblankMode)
}

func (h *HDMA) Load(s *state.State) {
	h.source = s.Read16()
	h.destination = s.Read16()
	h.remaining = s.Read8()
	h.active = s.ReadBool()
	h.hblankMode = s.ReadBool()
}
