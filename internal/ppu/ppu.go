// Package ppu implements the Game Boy's picture processing unit: the LCD
// mode state machine, VRAM/OAM storage, and the scanline compositor. It
// runs synchronously off a dot counter driven by the motherboard's tick
// loop rather than a goroutine or scheduler, per this core's single
// threaded, cooperatively cycle-driven execution model.
package ppu

import (
	"math/rand"

	"github.com/8bitlab/gbcore/internal/interrupts"
	"github.com/8bitlab/gbcore/internal/lcd"
	"github.com/8bitlab/gbcore/internal/state"
)

const (
	oamScanDots  = 80
	transferDots = 170
	hblankDots   = 206
	dotsPerLine  = oamScanDots + transferDots + hblankDots // 456
	visibleLines = 144
	totalLines   = 154
)

// VRAMReader is a read-only view of the bus. Nothing in this package uses
// it; OAM DMA and HDMA read their source bytes through dmaBus.
type VRAMReader interface {
	Read(address uint16) uint8
}

// PPU owns VRAM, OAM, and the LCD register set, and renders one scanline
// at a time into an internal framebuffer of 2-bit color indices.
type PPU struct {
	CGB bool

	LCDC *lcd.Control
	STAT *lcd.Status
	SCY, SCX uint8
	LY, LYC  uint8
	WY, WX   uint8
	BGP, OBP0, OBP1 lcd.MonochromePalette
	BCP, OCP        *lcd.ColourPalette

	vram     [2][0x2000]uint8
	vramBank uint8
	oam      [160]uint8

	dot int

	windowLine     int // -1 means "has not rendered a window pixel this frame"
	statLine       bool
	frame          [visibleLines][160]uint8    // color index 0-3 (DMG) / 0-3 per-pixel CGB palette-relative
	frameCGBPal    [visibleLines][160]uint8    // which CGB palette (0-7) each pixel used, BG or OBJ tagged via frameCGBObj
	frameCGBObj    [visibleLines][160]bool

	tileDirty [2][384]bool
	tilePlane [2][384][8][8]uint8 // decoded 2bpp pixel values, lazily refreshed

	irq *interrupts.Service
	dma *DMA
	hdma *HDMA

	frameReady bool

	dmgRamp [4][3]uint8 // shade 0-3 -> RGB, overridable via SetDMGPalette
}

func New(cgb bool, irq *interrupts.Service) *PPU {
	p := &PPU{
		CGB:        cgb,
		LCDC:       lcd.NewControl(),
		STAT:       lcd.NewStatus(),
		BCP:        lcd.NewColourPalette(),
		OCP:        lcd.NewColourPalette(),
		irq:        irq,
		windowLine: -1,
		dmgRamp: [4][3]uint8{
			{0xFF, 0xFF, 0xFF},
			{0xAA, 0xAA, 0xAA},
			{0x55, 0x55, 0x55},
			{0x00, 0x00, 0x00},
		},
	}
	p.dma = NewDMA()
	p.hdma = NewHDMA(p)
	for bank := range p.tileDirty {
		for i := range p.tileDirty[bank] {
			p.tileDirty[bank][i] = true
		}
	}
	return p
}

// Randomize fills VRAM and OAM with pseudo-random bytes, mimicking the
// indeterminate contents of real hardware at power-on.
func (p *PPU) Randomize(r *rand.Rand) {
	for bank := range p.vram {
		for i := range p.vram[bank] {
			p.vram[bank][i] = byte(r.Intn(256))
		}
	}
	for bank := range p.tileDirty {
		for i := range p.tileDirty[bank] {
			p.tileDirty[bank][i] = true
		}
	}
	for i := range p.oam {
		p.oam[i] = byte(r.Intn(256))
	}
}

// SetCGBColourisation seeds BCP palette 0 and OCP palettes 0-1 with a
// fixed colourisation palette, the CGB's "tinted DMG" rendering mode for
// cartridges that don't request CGB features. Only meaningful when CGB is
// true and the running cartridge never writes its own BCPS/OCPS data.
func (p *PPU) SetCGBColourisation(bg, obj0, obj1 [4][3]uint8) {
	p.BCP.SetPalette(0, bg)
	p.OCP.SetPalette(0, obj0)
	p.OCP.SetPalette(1, obj1)
}

// SetDMGPalette overrides the four shades used to render DMG (non-CGB)
// output, letting a frontend substitute a tinted ramp (e.g. the classic
// green palette) for the default greyscale one.
func (p *PPU) SetDMGPalette(ramp [4][3]uint8) { p.dmgRamp = ramp }

// VRAMBlocked reports whether the CPU's view of VRAM is currently locked
// out by the PPU (mode 3, LCD enabled).
func (p *PPU) VRAMBlocked() bool {
	return p.LCDC.Enabled && p.STAT.Mode == lcd.Transfer
}

// OAMBlocked reports whether the CPU's view of OAM is currently locked
// out by the PPU (modes 2 and 3, LCD enabled) or an active OAM DMA.
func (p *PPU) OAMBlocked() bool {
	if p.dma.Active() {
		return true
	}
	return p.LCDC.Enabled && (p.STAT.Mode == lcd.OAMScan || p.STAT.Mode == lcd.Transfer)
}

// AttachBus gives the OAM DMA and HDMA controllers a read path into the
// full address space, wired up once the motherboard constructs its bus
// (which itself depends on the PPU existing first).
func (p *PPU) AttachBus(bus dmaBus) {
	p.dma.AttachBus(bus)
	p.hdma.AttachBus(bus)
}

func (p *PPU) ReadVRAM(address uint16) uint8 {
	if p.VRAMBlocked() {
		return 0xFF
	}
	return p.vram[p.vramBank][address&0x1FFF]
}

func (p *PPU) WriteVRAM(address uint16, value uint8) {
	if p.VRAMBlocked() {
		return
	}
	offset := address & 0x1FFF
	p.vram[p.vramBank][offset] = value
	if offset < 0x1800 {
		p.tileDirty[p.vramBank][offset/16] = true
	}
}

// writeVRAMRaw bypasses the mode-3 lockout; used by HDMA, which transfers
// directly to VRAM regardless of PPU mode.
func (p *PPU) writeVRAMRaw(address uint16, value uint8) {
	offset := address & 0x1FFF
	p.vram[p.vramBank][offset] = value
	if offset < 0x1800 {
		p.tileDirty[p.vramBank][offset/16] = true
	}
}

func (p *PPU) ReadOAM(address uint16) uint8 {
	if p.OAMBlocked() {
		return 0xFF
	}
	return p.oam[address&0xFF]
}

func (p *PPU) WriteOAM(address uint16, value uint8) {
	if p.OAMBlocked() {
		return
	}
	p.oam[address&0xFF] = value
}

// WriteOAMDMA is used by the DMA controller, which is allowed to write
// OAM even while the CPU's own writes would be blocked.
func (p *PPU) WriteOAMDMA(index uint8, value uint8) {
	p.oam[index] = value
}

const (
	regLCDC = 0xFF40
	regSTAT = 0xFF41
	regSCY  = 0xFF42
	regSCX  = 0xFF43
	regLY   = 0xFF44
	regLYC  = 0xFF45
	regDMA  = 0xFF46
	regBGP  = 0xFF47
	regOBP0 = 0xFF48
	regOBP1 = 0xFF49
	regWY   = 0xFF4A
	regWX   = 0xFF4B
	regVBK  = 0xFF4F
	regBCPS = 0xFF68
	regBCPD = 0xFF69
	regOCPS = 0xFF6A
	regOCPD = 0xFF6B
)

func (p *PPU) Read(address uint16) uint8 {
	switch address {
	case regLCDC:
		return p.LCDC.Read()
	case regSTAT:
		return p.STAT.Read()
	case regSCY:
		return p.SCY
	case regSCX:
		return p.SCX
	case regLY:
		return p.LY
	case regLYC:
		return p.LYC
	case regDMA:
		return p.dma.Read()
	case regBGP:
		return p.BGP.Read()
	case regOBP0:
		return p.OBP0.Read()
	case regOBP1:
		return p.OBP1.Read()
	case regWY:
		return p.WY
	case regWX:
		return p.WX
	case regVBK:
		if !p.CGB {
			return 0xFF
		}
		return p.vramBank | 0xFE
	case regBCPS:
		return p.BCP.Index()
	case regBCPD:
		return p.BCP.Read()
	case regOCPS:
		return p.OCP.Index()
	case regOCPD:
		return p.OCP.Read()
	}
	return p.hdma.Read(address)
}

func (p *PPU) Write(address uint16, value uint8) {
	switch address {
	case regLCDC:
		wasEnabled := p.LCDC.Enabled
		p.LCDC.Write(value)
		if wasEnabled && !p.LCDC.Enabled {
			p.disable()
		} else if !wasEnabled && p.LCDC.Enabled {
			p.enable()
		}
	case regSTAT:
		p.STAT.Write(value)
	case regSCY:
		p.SCY = value
	case regSCX:
		p.SCX = value
	case regLY:
		// read-only
	case regLYC:
		p.LYC = value
		p.checkLYC()
	case regDMA:
		p.dma.Write(value)
	case regBGP:
		p.BGP.Write(value)
	case regOBP0:
		p.OBP0.Write(value)
	case regOBP1:
		p.OBP1.Write(value)
	case regWY:
		p.WY = value
	case regWX:
		p.WX = value
	case regVBK:
		if p.CGB {
			p.vramBank = value & 0x01
		}
	case regBCPS:
		p.BCP.SetIndex(value)
	case regBCPD:
		p.BCP.Write(value)
	case regOCPS:
		p.OCP.SetIndex(value)
	case regOCPD:
		p.OCP.Write(value)
	default:
		p.hdma.Write(address, value)
	}
}

func (p *PPU) disable() {
	p.LY = 0
	p.dot = 0
	p.STAT.Mode = lcd.HBlank
	p.windowLine = -1
}

func (p *PPU) enable() {
	p.dot = 0
	p.STAT.Mode = lcd.OAMScan
}

func (p *PPU) checkLYC() {
	p.STAT.Coincidence = p.LY == p.LYC
	p.checkSTATLine()
}

// checkSTATLine implements the real hardware's STAT-interrupt-is-a-level,
// not-an-edge quirk: the interrupt line only re-fires on a 0->1 transition
// of the OR of all enabled STAT conditions.
func (p *PPU) checkSTATLine() {
	line := p.STAT.Coincidence && p.STAT.LYCInterrupt
	line = line || p.STAT.InterruptFor(p.STAT.Mode)
	if line && !p.statLine {
		p.irq.Request(interrupts.LCDFlag)
	}
	p.statLine = line
}

// Tick advances the PPU by tCycles T-cycles (already halved by the caller
// when running at CGB double speed, since the LCD dot clock's physical
// rate never changes).
func (p *PPU) Tick(tCycles int) {
	p.dma.Tick(tCycles, p)
	p.hdma.tickGeneralPurpose()

	if !p.LCDC.Enabled {
		return
	}

	for i := 0; i < tCycles; i++ {
		p.tickDot()
	}
}

func (p *PPU) tickDot() {
	p.dot++

	switch p.STAT.Mode {
	case lcd.OAMScan:
		if p.dot == oamScanDots {
			p.STAT.Mode = lcd.Transfer
			p.checkSTATLine()
		}
	case lcd.Transfer:
		if p.dot == oamScanDots+transferDots {
			p.renderScanline(p.LY)
			p.STAT.Mode = lcd.HBlank
			p.checkSTATLine()
			p.hdma.enterHBlank()
		}
	case lcd.HBlank:
		if p.dot == dotsPerLine {
			p.dot = 0
			p.LY++
			p.checkLYC()
			if p.LY == visibleLines {
				p.STAT.Mode = lcd.VBlank
				p.irq.Request(interrupts.VBlankFlag)
				p.frameReady = true
			} else {
				p.STAT.Mode = lcd.OAMScan
			}
			p.checkSTATLine()
		}
	case lcd.VBlank:
		if p.dot == dotsPerLine {
			p.dot = 0
			p.LY++
			p.checkLYC()
			if p.LY == totalLines {
				p.LY = 0
				p.windowLine = -1
				p.STAT.Mode = lcd.OAMScan
				p.checkLYC()
			}
			p.checkSTATLine()
		}
	}
}

// FrameReady reports and clears whether a new VBlank frame has completed
// since the last call.
func (p *PPU) FrameReady() bool {
	r := p.frameReady
	p.frameReady = false
	return r
}

// Frame returns the color-index framebuffer for the most recently
// completed frame: 144 rows of 160 2-bit (DMG) or palette-relative (CGB)
// color indices. Callers resolve indices to RGB via BGP/OBP0/OBP1
// (DMG) or BCP/OCP (CGB).
func (p *PPU) Frame() *[visibleLines][160]uint8 { return &p.frame }

var _ state.Stater = (*PPU)(nil)

func (p *PPU) Save(s *state.State) {
	s.WriteData(p.vram[0][:])
	s.WriteData(p.vram[1][:])
	s.Write8(p.vramBank)
	s.WriteData(p.oam[:])
	p.LCDC.Save(s)
	p.STAT.Save(s)
	s.Write8(p.SCY)
	s.Write8(p.SCX)
	s.Write8(p.LY)
	s.Write8(p.LYC)
	s.Write8(p.WY)
	s.Write8(p.WX)
	p.BGP.Save(s)
	p.OBP0.Save(s)
	p.OBP1.Save(s)
	p.BCP.Save(s)
	p.OCP.Save(s)
	s.Write32(uint32(p.dot))
	s.Write32(uint32(p.windowLine + 1))
	s.WriteBool(p.statLine)
	p.dma.Save(s)
	p.hdma.Save(s)
}

func (p *PPU) Load(s *state.State) {
	s.ReadData(p.vram[0][:])
	s.ReadData(p.vram[1][:])
	p.vramBank = s.Read8()
	s.ReadData(p.oam[:])
	p.LCDC.Load(s)
	p.STAT.Load(s)
	p.SCY = s.Read8()
	p.SCX = s.Read8()
	p.LY = s.Read8()
	p.LYC = s.Read8()
	p.WY = s.Read8()
	p.WX = s.Read8()
	p.BGP.Load(s)
	p.OBP0.Load(s)
	p.OBP1.Load(s)
	p.BCP.Load(s)
	p.OCP.Load(s)
	p.dot = int(s.Read32())
	p.windowLine = int(s.Read32()) - 1
	p.statLine = s.ReadBool()
	p.dma.Load(s)
	p.hdma.Load(s)
	for bank := range p.tileDirty {
		for i := range p.tileDirty[bank] {
			p.tileDirty[bank][i] = true
		}
	}
}
