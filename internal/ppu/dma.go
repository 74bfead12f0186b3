package ppu

import "github.com/8bitlab/gbcore/internal/state"

// dmaBus is the slice of the address space OAM DMA can read from: ROM,
// VRAM, external RAM, and work RAM, depending on the source page selected.
type dmaBus interface {
	Read(address uint16) uint8
}

// DMA is the 0xFF46 OAM DMA transfer controller: writing a source page
// copies 160 bytes from source*0x100 to OAM over 160 M-cycles (640
// T-cycles), matching real hardware's transfer rate.
type DMA struct {
	source  uint8
	active  bool
	offset  int
	tCycles int

	bus dmaBus
}

func NewDMA() *DMA { return &DMA{} }

// AttachBus lets the motherboard hand the DMA controller a read path into
// the full address space once the bus exists (the PPU is constructed
// before the bus is wired up).
func (d *DMA) AttachBus(bus dmaBus) { d.bus = bus }

func (d *DMA) Read() uint8 { return d.source }

func (d *DMA) Write(value uint8) {
	d.source = value
	d.active = true
	d.offset = 0
	d.tCycles = 0
}

func (d *DMA) Active() bool { return d.active }

// Tick copies one byte per 4 T-cycles elapsed, matching the real 160
// M-cycle transfer duration.
func (d *DMA) Tick(tCycles int, p *PPU) {
	if !d.active || d.bus == nil {
		return
	}
	d.tCycles += tCycles
	for d.tCycles >= 4 && d.offset < 160 {
		d.tCycles -= 4
		src := uint16(d.source)<<8 + uint16(d.offset)
		p.WriteOAMDMA(uint8(d.offset), d.bus.Read(src))
		d.offset++
	}
	if d.offset >= 160 {
		d.active = false
	}
}

var _ state.Stater = (*DMA)(nil)

func (d *DMA) Save(s *state.State) {
	s.Write8(d.source)
	s.WriteBool(d.active)
	s.Write32(uint32(d.offset))
	s.Write32(uint32(d.tCycles))
}

func (d *DMA) Load(s *state.State) {
	d.source = s.Read8()
	d.active = s.ReadBool()
	d.offset = int(s.Read32())
	d.tCycles = int(s.Read32())
}
